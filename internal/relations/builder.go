// Package relations reconstructs double-entry account flows from canonical
// ledger transactions: which accounts were debited against which credits.
package relations

import (
	"fmt"
	"sort"
	"strings"

	"fjacquet/gl-audit/internal/logging"
	"fjacquet/gl-audit/internal/models"

	"github.com/shopspring/decimal"
)

// Graph holds the aggregated debit-account -> credit-account flows.
type Graph struct {
	Relations map[models.RelationKey]models.AccountRelation
	Groups    int
	Skipped   int // transactions without an account
}

// Builder groups transactions into vouchers and pairs their debit and credit
// lines.
type Builder struct {
	logger logging.Logger
}

// NewBuilder creates a Builder.
func NewBuilder(logger logging.Logger) *Builder {
	return &Builder{logger: logging.OrDefault(logger)}
}

// GroupKey returns the voucher group of a transaction: its voucher number,
// else its date, else a key unique to the row so it never merges with others.
// A voucher keeps its lines together even when their dates differ.
func GroupKey(tx models.Transaction, position int) string {
	voucher := strings.TrimSpace(tx.Voucher)
	switch {
	case voucher != "":
		return "voucher:" + voucher
	case tx.Date != "":
		return "date:" + tx.Date
	default:
		return fmt.Sprintf("row:%d:%d", tx.Row, position)
	}
}

// Build pairs every debit line with every credit line of a different account
// inside each group. The flow of a pair is min(debit, credit); counts and
// amounts accumulate across all groups.
func (b *Builder) Build(transactions []models.Transaction) Graph {
	g := Graph{Relations: make(map[models.RelationKey]models.AccountRelation)}

	order := make([]string, 0)
	groups := make(map[string][]models.Transaction)
	for i, tx := range transactions {
		if strings.TrimSpace(tx.Account) == "" {
			g.Skipped++
			continue
		}
		key := GroupKey(tx, i)
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], tx)
	}
	g.Groups = len(order)

	for _, key := range order {
		lines := groups[key]
		for _, d := range lines {
			if !d.IsDebit() {
				continue
			}
			for _, c := range lines {
				if !c.IsCredit() || c.Account == d.Account {
					continue
				}
				k := models.RelationKey{Source: d.Account, Target: c.Account}
				rel := g.Relations[k]
				rel.Count++
				rel.Amount = rel.Amount.Add(decimal.Min(d.Debit, c.Credit))
				g.Relations[k] = rel
			}
		}
	}

	b.logger.Debug("Built account relations",
		logging.F("groups", g.Groups),
		logging.F("edges", len(g.Relations)),
		logging.F("skipped", g.Skipped))
	return g
}

// Edges returns the relations sorted by amount, then count, descending;
// ties are ordered by source and target name.
func (g Graph) Edges() []models.RelationEdge {
	edges := make([]models.RelationEdge, 0, len(g.Relations))
	for k, v := range g.Relations {
		edges = append(edges, models.RelationEdge{Source: k.Source, Target: k.Target, Count: v.Count, Amount: v.Amount})
	}
	sort.Slice(edges, func(i, j int) bool {
		if c := edges[i].Amount.Cmp(edges[j].Amount); c != 0 {
			return c > 0
		}
		if edges[i].Count != edges[j].Count {
			return edges[i].Count > edges[j].Count
		}
		if edges[i].Source != edges[j].Source {
			return edges[i].Source < edges[j].Source
		}
		return edges[i].Target < edges[j].Target
	})
	return edges
}

// Top returns at most n edges in Edges order; n <= 0 returns all.
func (g Graph) Top(n int) []models.RelationEdge {
	edges := g.Edges()
	if n > 0 && len(edges) > n {
		return edges[:n]
	}
	return edges
}

// Accounts returns every account appearing on an edge, sorted.
func (g Graph) Accounts() []string {
	seen := make(map[string]bool)
	for k := range g.Relations {
		seen[k.Source] = true
		seen[k.Target] = true
	}
	out := make([]string, 0, len(seen))
	for a := range seen {
		out = append(out, a)
	}
	sort.Strings(out)
	return out
}
