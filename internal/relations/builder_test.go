package relations

import (
	"testing"

	"fjacquet/gl-audit/internal/logging"
	"fjacquet/gl-audit/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func debit(row int, voucher, date, account string, amount int64) models.Transaction {
	return models.Transaction{Row: row, Voucher: voucher, Date: date, Account: account, Debit: decimal.NewFromInt(amount)}
}

func credit(row int, voucher, date, account string, amount int64) models.Transaction {
	return models.Transaction{Row: row, Voucher: voucher, Date: date, Account: account, Credit: decimal.NewFromInt(amount)}
}

func TestBuild_PairsDebitsWithCredits(t *testing.T) {
	txs := []models.Transaction{
		debit(1, "V1", "2024-01-01", "A", 1000),
		debit(2, "V1", "2024-01-01", "B", 500),
		credit(3, "V1", "2024-01-01", "C", 1500),
	}

	g := NewBuilder(logging.NewMockLogger()).Build(txs)

	require.Len(t, g.Relations, 2)
	ac := g.Relations[models.RelationKey{Source: "A", Target: "C"}]
	bc := g.Relations[models.RelationKey{Source: "B", Target: "C"}]
	assert.Equal(t, 1, ac.Count)
	assert.True(t, ac.Amount.Equal(decimal.NewFromInt(1000)))
	assert.Equal(t, 1, bc.Count)
	assert.True(t, bc.Amount.Equal(decimal.NewFromInt(500)))

	_, ab := g.Relations[models.RelationKey{Source: "A", Target: "B"}]
	assert.False(t, ab, "two debit lines are never paired")
}

func TestBuild_AccumulatesAcrossGroupsAndKeepsDirection(t *testing.T) {
	txs := []models.Transaction{
		debit(1, "", "2024-01-01", "현금", 100),
		credit(2, "", "2024-01-01", "매출", 100),
		debit(3, "", "2024-01-02", "현금", 250),
		credit(4, "", "2024-01-02", "매출", 300),
		debit(5, "", "2024-01-03", "매출", 40),
		credit(6, "", "2024-01-03", "현금", 40),
	}

	g := NewBuilder(nil).Build(txs)

	cashSales := g.Relations[models.RelationKey{Source: "현금", Target: "매출"}]
	assert.Equal(t, 2, cashSales.Count)
	assert.True(t, cashSales.Amount.Equal(decimal.NewFromInt(350)))

	salesCash := g.Relations[models.RelationKey{Source: "매출", Target: "현금"}]
	assert.Equal(t, 1, salesCash.Count)
	assert.Equal(t, 3, g.Groups)
}

func TestBuild_UngroupableRowsNeverMerge(t *testing.T) {
	txs := []models.Transaction{
		debit(1, "", "", "A", 10),
		credit(2, "", "", "B", 10),
		{Row: 3, Credit: decimal.NewFromInt(5)},
	}

	g := NewBuilder(nil).Build(txs)

	assert.Empty(t, g.Relations)
	assert.Equal(t, 2, g.Groups)
	assert.Equal(t, 1, g.Skipped)
}

func TestBuild_SameAccountIsNotAFlow(t *testing.T) {
	txs := []models.Transaction{
		debit(1, "7", "2024-05-01", "보통예금", 10),
		credit(2, "7", "2024-05-01", "보통예금", 10),
	}
	assert.Empty(t, NewBuilder(nil).Build(txs).Relations)
}

func TestBuild_VoucherSpansDates(t *testing.T) {
	tests := []struct {
		name       string
		creditDate string
	}{
		{name: "lines posted on different days", creditDate: "2024-01-02"},
		{name: "line with an unparsed date", creditDate: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txs := []models.Transaction{
				debit(1, "1", "2024-01-01", "A", 10),
				credit(2, "1", tt.creditDate, "B", 10),
				credit(3, "", "2024-01-01", "C", 10),
			}

			g := NewBuilder(nil).Build(txs)

			assert.Equal(t, 2, g.Groups)
			require.Len(t, g.Relations, 1)
			rel := g.Relations[models.RelationKey{Source: "A", Target: "B"}]
			assert.Equal(t, 1, rel.Count)
			assert.True(t, rel.Amount.Equal(decimal.NewFromInt(10)))
		})
	}
}

func TestEdgesAndTop(t *testing.T) {
	g := Graph{Relations: map[models.RelationKey]models.AccountRelation{
		{Source: "A", Target: "B"}: {Count: 1, Amount: decimal.NewFromInt(10)},
		{Source: "C", Target: "D"}: {Count: 3, Amount: decimal.NewFromInt(500)},
		{Source: "E", Target: "F"}: {Count: 5, Amount: decimal.NewFromInt(10)},
	}}

	edges := g.Edges()
	require.Len(t, edges, 3)
	assert.Equal(t, "C", edges[0].Source)
	assert.Equal(t, "E", edges[1].Source, "equal amounts rank by count")
	assert.Equal(t, "A", edges[2].Source)

	assert.Len(t, g.Top(2), 2)
	assert.Len(t, g.Top(0), 3)
	assert.Equal(t, []string{"A", "B", "C", "D", "E", "F"}, g.Accounts())
}

func TestGroupKey(t *testing.T) {
	assert.Equal(t, "voucher:12", GroupKey(models.Transaction{Voucher: " 12 ", Date: "2024-01-01"}, 0))
	assert.Equal(t, "date:2024-01-01", GroupKey(models.Transaction{Date: "2024-01-01"}, 0))
	assert.Equal(t, "row:9:4", GroupKey(models.Transaction{Row: 9}, 4))
}
