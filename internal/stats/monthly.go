package stats

import (
	"sort"

	"fjacquet/gl-audit/internal/models"

	"github.com/shopspring/decimal"
)

// MonthTotal aggregates the transactions of one calendar month.
type MonthTotal struct {
	Month  string          `json:"month" yaml:"month" csv:"month"`
	Count  int             `json:"count" yaml:"count" csv:"count"`
	Debit  decimal.Decimal `json:"debit" yaml:"debit" csv:"debit"`
	Credit decimal.Decimal `json:"credit" yaml:"credit" csv:"credit"`
}

// Monthly totals debit and credit per YYYY-MM, oldest month first. Undated
// and summary transactions are left out.
func Monthly(txs []models.Transaction) []MonthTotal {
	byMonth := make(map[string]*MonthTotal)
	for _, tx := range txs {
		m := tx.Month()
		if m == "" || IsSummaryTransaction(tx) {
			continue
		}
		t, ok := byMonth[m]
		if !ok {
			t = &MonthTotal{Month: m}
			byMonth[m] = t
		}
		t.Count++
		t.Debit = t.Debit.Add(tx.Debit)
		t.Credit = t.Credit.Add(tx.Credit)
	}

	out := make([]MonthTotal, 0, len(byMonth))
	for _, t := range byMonth {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}
