package ledgerparser

import (
	"time"

	"fjacquet/gl-audit/internal/dateutils"
	"fjacquet/gl-audit/internal/keywords"
	"fjacquet/gl-audit/internal/models"
	"fjacquet/gl-audit/internal/textutils"
)

// Sanitizer removes non-transaction rows and normalizes the survivors.
// Running it on its own output returns the same rows.
type Sanitizer struct {
	// DefaultAccount is used to decide masking when the sheet has no account
	// column (per-account ledgers named after the account).
	DefaultAccount string
	Now            func() time.Time
}

// NewSanitizer creates a Sanitizer using the wall clock for year-less dates.
func NewSanitizer(defaultAccount string) *Sanitizer {
	return &Sanitizer{DefaultAccount: defaultAccount, Now: time.Now}
}

// Sanitize drops summary rows, repeated page headers, blank rows and rows
// without any debit/credit amount, parses the date column and masks account
// numbers on deposit and loan rows.
func (s *Sanitizer) Sanitize(rows []models.LedgerRow, cols models.SemanticColumnMap) ([]models.LedgerRow, models.SanitizeStats) {
	stats := models.SanitizeStats{Input: len(rows)}
	now := time.Now()
	if s.Now != nil {
		now = s.Now()
	}
	dateHeader := keywords.Normalize(cols.Date)
	hasAmounts := cols.Debit != "" || cols.Credit != ""

	out := make([]models.LedgerRow, 0, len(rows))
	for _, row := range rows {
		switch {
		case IsSummaryRow(row):
			stats.SummaryRows++
			continue
		case dateHeader != "" && keywords.Normalize(row.Text(cols.Date)) == dateHeader:
			stats.DuplicateHeader++
			continue
		}

		clean := row.Clone()
		if cols.Date != "" {
			if c := clean.Get(cols.Date); !c.IsEmpty() {
				if t, ok := dateutils.ParseCell(c, now); ok {
					clean.Set(cols.Date, models.DateCell(t))
				} else {
					clean.Set(cols.Date, models.EmptyCell())
					stats.UnparsedDates++
				}
			}
		}

		if IsBlankRow(clean) {
			stats.BlankRows++
			continue
		}

		if hasAmounts {
			debit, credit := RowAmount(clean, cols)
			if debit.IsZero() && credit.IsZero() {
				stats.ZeroAmount++
				continue
			}
		}

		if s.maskRow(&clean, cols) {
			stats.MaskedRows++
		}
		out = append(out, clean)
	}

	stats.Kept = len(out)
	return out, stats
}

// maskRow masks account numbers in the free-text cells of a deposit/loan row
// and reports whether anything changed. Structural columns (date, amounts,
// balance, voucher, account, classification) are left untouched.
func (s *Sanitizer) maskRow(row *models.LedgerRow, cols models.SemanticColumnMap) bool {
	account := row.Text(cols.Account)
	if cols.Account == "" || account == "" {
		account = s.DefaultAccount
	}
	if !textutils.IsSensitiveAccount(account) {
		return false
	}

	structural := structuralColumns(cols)
	changed := false
	for _, key := range row.Keys() {
		if structural[key] {
			continue
		}
		c := row.Get(key)
		if c.Kind != models.CellText {
			continue
		}
		if masked := textutils.MaskAccountNumbers(c.Text); masked != c.Text {
			row.Set(key, models.TextCell(masked))
			changed = true
		}
	}
	return changed
}

func structuralColumns(cols models.SemanticColumnMap) map[string]bool {
	out := make(map[string]bool, 7)
	for _, c := range []string{cols.Date, cols.Debit, cols.Credit, cols.Balance, cols.Voucher, cols.Account, cols.Classification} {
		if c != "" {
			out[c] = true
		}
	}
	return out
}

// IsSummaryRow reports whether any cell of the row is a monthly/cumulative
// total or carry-forward banner.
func IsSummaryRow(row models.LedgerRow) bool {
	for _, key := range row.Keys() {
		c := row.Get(key)
		if c.Kind == models.CellText && keywords.IsSummaryLabel(c.Text) {
			return true
		}
	}
	return false
}

// IsBlankRow reports whether every cell is empty or a placeholder ("0", "-").
func IsBlankRow(row models.LedgerRow) bool {
	for _, key := range row.Keys() {
		switch keywords.Normalize(row.Text(key)) {
		case "", "0", "-":
		default:
			return false
		}
	}
	return true
}
