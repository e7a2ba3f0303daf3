package ledgerparser

import (
	"math"
	"strings"

	"fjacquet/gl-audit/internal/keywords"
	"fjacquet/gl-audit/internal/logging"
	"fjacquet/gl-audit/internal/models"

	"github.com/shopspring/decimal"
)

// MatchRule compares a normalized header with a normalized keyword.
type MatchRule func(header, keyword string) bool

// ExactMatch matches when the header equals the keyword.
func ExactMatch(header, keyword string) bool { return header == keyword }

// SubstringMatch matches when the header contains the keyword.
func SubstringMatch(header, keyword string) bool { return strings.Contains(header, keyword) }

// DefaultRules is the rule order used when ResolveColumn gets none.
var DefaultRules = []MatchRule{ExactMatch, SubstringMatch}

// ResolveColumn returns the header that best matches one of roleKeywords.
// Rules are tried in order; within a rule, keyword order decides first and
// header order breaks ties. Headers and keywords are compared with all
// whitespace removed and lower-cased.
func ResolveColumn(headers, roleKeywords []string, rules ...MatchRule) (string, bool) {
	if len(rules) == 0 {
		rules = DefaultRules
	}
	normHeaders := make([]string, len(headers))
	for i, h := range headers {
		normHeaders[i] = keywords.Normalize(h)
	}

	for _, rule := range rules {
		for _, kw := range roleKeywords {
			k := keywords.Normalize(kw)
			if k == "" {
				continue
			}
			for i, h := range normHeaders {
				if h != "" && rule(h, k) {
					return headers[i], true
				}
			}
		}
	}
	return "", false
}

// LargestAbsSumColumn returns the candidate column whose numeric cells have
// the largest sum of absolute values. Columns without any numeric value are
// never chosen.
func LargestAbsSumColumn(rows []models.LedgerRow, candidates []string) (string, bool) {
	best, bestSum := "", 0.0
	for _, col := range candidates {
		sum := 0.0
		for _, r := range rows {
			if f, ok := r.Get(col).Float(); ok {
				sum += math.Abs(f)
			}
		}
		if sum > bestSum {
			best, bestSum = col, sum
		}
	}
	return best, best != ""
}

// ColumnResolver maps semantic roles to concrete sheet columns.
type ColumnResolver struct {
	Dict   *keywords.Dictionary
	logger logging.Logger
}

// NewColumnResolver creates a resolver over dict.
func NewColumnResolver(dict *keywords.Dictionary, logger logging.Logger) *ColumnResolver {
	if dict == nil {
		dict = keywords.Default()
	}
	return &ColumnResolver{Dict: dict, logger: logging.OrDefault(logger)}
}

// Resolve builds the SemanticColumnMap for a sheet. Keyword matching runs
// first; debit and credit fall back to the numeric column with the largest
// absolute sum, and a final pass drops balance-like debit/credit picks.
func (r *ColumnResolver) Resolve(headers []string, rows []models.LedgerRow) models.SemanticColumnMap {
	var m models.SemanticColumnMap
	taken := make(map[string]bool)

	pick := func(role keywords.Role, exclude func(string) bool) string {
		col, ok := ResolveColumn(filterHeaders(headers, func(h string) bool {
			return taken[h] || (exclude != nil && exclude(h))
		}), r.Dict.Keywords(role))
		if !ok {
			return ""
		}
		taken[col] = true
		return col
	}

	m.Date = pick(keywords.RoleDate, nil)
	m.Debit = pick(keywords.RoleDebit, nil)
	m.Credit = pick(keywords.RoleCredit, nil)
	m.Balance = pick(keywords.RoleBalance, nil)
	m.Voucher = pick(keywords.RoleVoucher, nil)
	m.Account = pick(keywords.RoleAccount, nil)
	m.Vendor = pick(keywords.RoleVendor, nil)
	m.Description = pick(keywords.RoleDescription, nil)
	m.Classification = pick(keywords.RoleClassification, nil)

	if m.Debit == "" {
		m.Debit = r.fallback(headers, rows, m, "debit")
	}
	if m.Credit == "" {
		m.Credit = r.fallback(headers, rows, m, "credit")
	}

	if isBalanceLike(m.Debit) {
		r.logger.Debug("Demoting balance-like debit column", logging.F(logging.FieldColumn, m.Debit))
		m.Debit = ""
		assigned := m.Assigned()
		m.Debit, _ = ResolveColumn(filterHeaders(headers, func(h string) bool {
			return isBalanceLike(h) || assigned[h]
		}), r.Dict.Keywords(keywords.RoleDebit))
	}
	if isBalanceLike(m.Credit) {
		r.logger.Debug("Demoting balance-like credit column", logging.F(logging.FieldColumn, m.Credit))
		m.Credit = ""
		assigned := m.Assigned()
		m.Credit, _ = ResolveColumn(filterHeaders(headers, func(h string) bool {
			return isBalanceLike(h) || assigned[h]
		}), r.Dict.Keywords(keywords.RoleCredit))
	}

	return m
}

// fallback picks the numeric column with the largest absolute sum among the
// columns no other role claims.
func (r *ColumnResolver) fallback(headers []string, rows []models.LedgerRow, m models.SemanticColumnMap, role string) string {
	excluded := map[string]bool{
		m.Date: true, m.Balance: true, m.Description: true, m.Vendor: true,
		m.Account: true, m.Voucher: true, m.Classification: true,
	}
	if role == "debit" {
		excluded[m.Credit] = true
	} else {
		excluded[m.Debit] = true
	}

	candidates := filterHeaders(headers, func(h string) bool {
		return excluded[h] ||
			r.Dict.Matches(keywords.RoleCode, h) ||
			r.Dict.Matches(keywords.RoleContent, h)
	})
	col, ok := LargestAbsSumColumn(rows, candidates)
	if !ok {
		return ""
	}
	r.logger.Debug("Resolved column from data",
		logging.F(logging.FieldRole, role),
		logging.F(logging.FieldColumn, col),
		logging.F(logging.FieldMethod, "largest_abs_sum"))
	return col
}

func filterHeaders(headers []string, drop func(string) bool) []string {
	out := make([]string, 0, len(headers))
	for _, h := range headers {
		if !drop(h) {
			out = append(out, h)
		}
	}
	return out
}

func isBalanceLike(name string) bool {
	if name == "" {
		return false
	}
	n := keywords.Normalize(name)
	return strings.Contains(n, "balance") || strings.Contains(n, "잔액") || strings.Contains(n, "잔고")
}

// RowAmount extracts the non-negative debit and credit amounts of a row.
// When a classification column marks the row as debit or credit, the row's
// amount is moved to that side whichever physical column holds it.
func RowAmount(row models.LedgerRow, cols models.SemanticColumnMap) (decimal.Decimal, decimal.Decimal) {
	debit := models.AmountFromCell(row.Get(cols.Debit))
	credit := models.AmountFromCell(row.Get(cols.Credit))

	if cols.Classification == "" {
		return debit, credit
	}
	switch ClassifySide(row.Text(cols.Classification)) {
	case models.SideDebit:
		return firstNonZero(debit, credit), decimal.Zero
	case models.SideCredit:
		return decimal.Zero, firstNonZero(credit, debit)
	default:
		return debit, credit
	}
}

// ClassifySide interprets a classification cell ("차변", "credit", "Dr" ...).
// It returns "" for anything else.
func ClassifySide(value string) string {
	switch keywords.Normalize(value) {
	case "debit", "dr", "dr.", "차변", "차":
		return models.SideDebit
	case "credit", "cr", "cr.", "대변", "대":
		return models.SideCredit
	default:
		return ""
	}
}

func firstNonZero(values ...decimal.Decimal) decimal.Decimal {
	for _, v := range values {
		if !v.IsZero() {
			return v
		}
	}
	return decimal.Zero
}
