package stats

import (
	"testing"

	"fjacquet/gl-audit/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonthly(t *testing.T) {
	txs := []models.Transaction{
		{Date: "2024-03-02", Debit: decimal.NewFromInt(300)},
		{Date: "2024-01-15", Debit: decimal.NewFromInt(100), Credit: decimal.NewFromInt(5)},
		{Date: "2024-01-31", Credit: decimal.NewFromInt(50)},
		{Date: "", Debit: decimal.NewFromInt(999)},
		{Date: "2024-01-31", Description: "[월계]", Debit: decimal.NewFromInt(100)},
	}

	got := Monthly(txs)

	require.Len(t, got, 2)
	assert.Equal(t, "2024-01", got[0].Month)
	assert.Equal(t, 2, got[0].Count)
	assert.True(t, got[0].Debit.Equal(decimal.NewFromInt(100)))
	assert.True(t, got[0].Credit.Equal(decimal.NewFromInt(55)))
	assert.Equal(t, "2024-03", got[1].Month)
	assert.Empty(t, Monthly(nil))
}
