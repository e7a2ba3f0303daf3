package batch

import (
	"fmt"
	"strings"
	"time"

	"fjacquet/gl-audit/internal/logging"
	"fjacquet/gl-audit/internal/models"
)

// DateRange represents a date range with start and end dates
type DateRange struct {
	Start time.Time `json:"start,omitempty" yaml:"start,omitempty"`
	End   time.Time `json:"end,omitempty" yaml:"end,omitempty"`
}

// String returns the date range in the format "YYYY-MM-DD_YYYY-MM-DD"
func (dr DateRange) String() string {
	if dr.Start.IsZero() || dr.End.IsZero() {
		return ""
	}
	return fmt.Sprintf("%s_%s",
		dr.Start.Format("2006-01-02"),
		dr.End.Format("2006-01-02"))
}

// Merge combines this date range with another, returning the overall range
func (dr DateRange) Merge(other DateRange) DateRange {
	start := dr.Start
	end := dr.End

	if dr.Start.IsZero() {
		start = other.Start
	} else if !other.Start.IsZero() && other.Start.Before(start) {
		start = other.Start
	}

	if dr.End.IsZero() {
		end = other.End
	} else if !other.End.IsZero() && other.End.After(end) {
		end = other.End
	}

	return DateRange{Start: start, End: end}
}

// CalculateDateRange returns the span of the dated transactions.
func CalculateDateRange(txs []models.Transaction) DateRange {
	var dr DateRange
	for _, tx := range txs {
		if d, ok := tx.Time(); ok {
			dr = dr.Merge(DateRange{Start: d, End: d})
		}
	}
	return dr
}

type duplicateKey struct {
	date, account, description, debit, credit string
}

// FindDuplicates counts transactions that repeat an earlier one with the
// same date, account, description and amounts. Each repeat is logged; none
// are removed.
func FindDuplicates(txs []models.Transaction, logger logging.Logger) int {
	logger = logging.OrDefault(logger)
	seen := make(map[duplicateKey]int, len(txs))
	count := 0
	for _, tx := range txs {
		if tx.Date == "" {
			continue
		}
		key := duplicateKey{
			date:        tx.Date,
			account:     tx.Account,
			description: strings.ToLower(strings.TrimSpace(tx.Description)),
			debit:       tx.Debit.String(),
			credit:      tx.Credit.String(),
		}
		if first, ok := seen[key]; ok {
			count++
			logger.Debug("Potential duplicate transaction",
				logging.F(logging.FieldRow, tx.Row),
				logging.F("first_row", first),
				logging.F("date", tx.Date),
				logging.F("account", tx.Account))
			continue
		}
		seen[key] = tx.Row
	}
	if count > 0 {
		logger.Warn("Found potential duplicate transactions", logging.F(logging.FieldCount, count))
	}
	return count
}
