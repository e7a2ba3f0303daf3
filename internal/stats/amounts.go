// Package stats computes descriptive statistics, rule-based anomaly flags and
// Benford first-digit conformity over ledger amounts.
package stats

import (
	"fjacquet/gl-audit/internal/accounts"
	"fjacquet/gl-audit/internal/keywords"
	"fjacquet/gl-audit/internal/models"
)

// AmountFunc extracts the analysed amount of a transaction.
type AmountFunc func(models.Transaction) float64

// GrossAmount uses the larger side of the line.
func GrossAmount(tx models.Transaction) float64 {
	f, _ := tx.GrossAmount().Float64()
	return f
}

// DebitAmount uses the debit side only.
func DebitAmount(tx models.Transaction) float64 { return tx.DebitFloat() }

// CreditAmount uses the credit side only.
func CreditAmount(tx models.Transaction) float64 { return tx.CreditFloat() }

// SideAwareAmount takes the side the account family normally carries:
// debit for assets and expenses, credit for liabilities, equity and revenue,
// the larger side otherwise. A line with nothing on its preferred side falls
// back to the other side.
func SideAwareAmount(c *accounts.Classifier) AmountFunc {
	if c == nil {
		c = accounts.NewClassifier()
	}
	return func(tx models.Transaction) float64 {
		switch c.SideFor(tx.Account) {
		case accounts.SideDebit:
			if tx.IsDebit() {
				return tx.DebitFloat()
			}
		case accounts.SideCredit:
			if tx.IsCredit() {
				return tx.CreditFloat()
			}
		}
		return GrossAmount(tx)
	}
}

// AmountFuncFor maps a configured amount source name to its AmountFunc:
// "debit", "credit", "side" (classifier-driven) or anything else for gross.
func AmountFuncFor(source string, c *accounts.Classifier) AmountFunc {
	switch source {
	case "debit":
		return DebitAmount
	case "credit":
		return CreditAmount
	case "side":
		return SideAwareAmount(c)
	default:
		return GrossAmount
	}
}

// IsSummaryTransaction reports whether a transaction is really a
// monthly/cumulative total line that slipped through parsing.
func IsSummaryTransaction(tx models.Transaction) bool {
	return keywords.IsSummaryLabel(tx.Description) ||
		keywords.IsSummaryLabel(tx.Account) ||
		keywords.IsSummaryLabel(tx.Vendor)
}

// Amounts returns the positive amounts of the non-summary transactions.
func Amounts(txs []models.Transaction, amount AmountFunc) []float64 {
	if amount == nil {
		amount = GrossAmount
	}
	out := make([]float64, 0, len(txs))
	for _, tx := range txs {
		if IsSummaryTransaction(tx) {
			continue
		}
		if a := amount(tx); a > 0 {
			out = append(out, a)
		}
	}
	return out
}
