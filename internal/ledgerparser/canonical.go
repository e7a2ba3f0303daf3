package ledgerparser

import (
	"strings"

	"fjacquet/gl-audit/internal/dateutils"
	"fjacquet/gl-audit/internal/models"
)

// ToTransactions converts sanitized rows into canonical transactions. Rows
// without any amount are skipped; defaultAccount fills a missing account.
func ToTransactions(rows []models.LedgerRow, cols models.SemanticColumnMap, defaultAccount string) []models.Transaction {
	out := make([]models.Transaction, 0, len(rows))
	for _, row := range rows {
		debit, credit := RowAmount(row, cols)
		if debit.IsZero() && credit.IsZero() {
			continue
		}

		tx := models.Transaction{
			Row:         row.Index + 1,
			Account:     strings.TrimSpace(row.Text(cols.Account)),
			Debit:       debit,
			Credit:      credit,
			Description: strings.TrimSpace(row.Text(cols.Description)),
			Vendor:      strings.TrimSpace(row.Text(cols.Vendor)),
			Voucher:     strings.TrimSpace(row.Text(cols.Voucher)),
		}
		if tx.Account == "" {
			tx.Account = defaultAccount
		}
		if c := row.Get(cols.Date); c.Kind == models.CellDate {
			tx.Date = dateutils.ToISODate(c.Date)
		}
		out = append(out, tx)
	}
	return out
}
