package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is the canonical form of a ledger line.
type Transaction struct {
	Row         int             `csv:"-" json:"row"` // 1-based sheet row
	Account     string          `csv:"account" json:"account"`
	Date        string          `csv:"date" json:"date"` // ISO YYYY-MM-DD, empty when the source date was unusable
	Debit       decimal.Decimal `csv:"debit" json:"debit"`
	Credit      decimal.Decimal `csv:"credit" json:"credit"`
	Description string          `csv:"description" json:"description"`
	Vendor      string          `csv:"vendor" json:"vendor,omitempty"`
	Voucher     string          `csv:"voucher" json:"voucher,omitempty"`
}

// Time parses the ISO date of the transaction.
func (t Transaction) Time() (time.Time, bool) {
	if t.Date == "" {
		return time.Time{}, false
	}
	d, err := time.Parse("2006-01-02", t.Date)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// Month returns the YYYY-MM bucket of the transaction, or "" without a date.
func (t Transaction) Month() string {
	if len(t.Date) < 7 {
		return ""
	}
	return t.Date[:7]
}

// IsDebit reports whether the line carries a debit amount.
func (t Transaction) IsDebit() bool {
	return t.Debit.IsPositive()
}

// IsCredit reports whether the line carries a credit amount.
func (t Transaction) IsCredit() bool {
	return t.Credit.IsPositive()
}

// GrossAmount returns the larger of the two sides, which is the line amount
// for ordinary single-sided entries.
func (t Transaction) GrossAmount() decimal.Decimal {
	if t.Debit.GreaterThan(t.Credit) {
		return t.Debit
	}
	return t.Credit
}

// DebitFloat returns the debit amount as float64 for statistics.
func (t Transaction) DebitFloat() float64 {
	f, _ := t.Debit.Float64()
	return f
}

// CreditFloat returns the credit amount as float64 for statistics.
func (t Transaction) CreditFloat() float64 {
	f, _ := t.Credit.Float64()
	return f
}
