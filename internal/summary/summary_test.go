package summary

import (
	"fmt"
	"strings"
	"testing"

	"fjacquet/gl-audit/internal/logging"
	"fjacquet/gl-audit/internal/models"
	"fjacquet/gl-audit/internal/stats"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tx(row int, date, desc string, debit, credit int64) models.Transaction {
	return models.Transaction{
		Row:         row,
		Account:     "보통예금",
		Date:        date,
		Description: desc,
		Debit:       decimal.NewFromInt(debit),
		Credit:      decimal.NewFromInt(credit),
	}
}

func TestEstimateTokens(t *testing.T) {
	tests := []struct {
		in       string
		expected int
	}{
		{"", 0},
		{"abcd", 1},
		{"abcde", 2},
		{"일자적요", 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, EstimateTokens(tt.in), tt.in)
	}
}

func TestFit(t *testing.T) {
	lines := make([]string, 50)
	for i := range lines {
		lines[i] = fmt.Sprintf("line-%02d xxxxxxxxxxxxxxxx", i)
	}

	t.Run("fits", func(t *testing.T) {
		body, truncated := fit("h", lines[:3], 1000, false)
		assert.False(t, truncated)
		assert.Equal(t, "h\n"+strings.Join(lines[:3], "\n"), body)
	})

	t.Run("drops tail", func(t *testing.T) {
		body, truncated := fit("h", lines, 60, false)
		assert.True(t, truncated)
		assert.LessOrEqual(t, EstimateTokens(body), 60)
		assert.Contains(t, body, "line-00")
		assert.NotContains(t, body, "line-49")
		assert.Contains(t, body, "more rows omitted")
	})

	t.Run("drops front", func(t *testing.T) {
		body, truncated := fit("h", lines, 60, true)
		assert.True(t, truncated)
		assert.LessOrEqual(t, EstimateTokens(body), 60)
		assert.NotContains(t, body, "line-00")
		assert.Contains(t, body, "line-49")
		assert.True(t, strings.HasPrefix(body, "h\n... ("))
	})
}

func TestBuild_AllSections(t *testing.T) {
	txs := []models.Transaction{
		tx(2, "2024-01-05", "입금", 1000, 0),
		tx(3, "2024-01-20", "출금", 0, 400),
		tx(4, "2024-02-03", "입금", 2500, 0),
	}
	benford := stats.Benford([]float64{1000, 400, 2500}, stats.BenfordMinSample)
	set := models.SampleSet{Transactions: txs[:2], Target: 2, Total: 3}

	b := NewBuilder(0, 0, logging.NewMockLogger())
	s := b.Build(Input{
		Sheet:        "보통예금",
		Transactions: txs,
		Benford:      &benford,
		Anomalies:    []models.AnomalyResult{{Row: 4, Date: "2024-02-03", Amount: 2500, Reasons: []string{"z-score 2.1"}, Severity: models.SeverityMedium}},
		Relations:    []models.RelationEdge{{Source: "보통예금", Target: "상품매출", Count: 1, Amount: decimal.NewFromInt(1000)}},
		Sample:       &set,
	})

	require.Len(t, s.Sections, 5)
	assert.Equal(t, DefaultTokenBudget, b.TokenBudget())

	monthly, ok := s.Section(SectionMonthly)
	require.True(t, ok)
	assert.Equal(t, "month | count | debit | credit\n2024-01 | 2 | 1000 | 400\n2024-02 | 1 | 2500 | 0", monthly.Body)

	benfordSec, _ := s.Section(SectionBenford)
	assert.Contains(t, benfordSec.Body, "low confidence")

	sample, _ := s.Section(SectionSample)
	assert.Equal(t, "date,description,debit,credit\n2024-01-05,입금,1000,0\n2024-01-20,출금,0,400", sample.Body)

	text := s.String()
	assert.True(t, strings.HasPrefix(text, "# 보통예금\n\n## Monthly totals\n"))
	assert.Contains(t, text, "보통예금 -> 상품매출 | 1 | 1000")
	assert.Contains(t, text, "medium | z-score 2.1")
}

func TestBuild_RespectsBudget(t *testing.T) {
	txs := make([]models.Transaction, 0, 400)
	for i := 0; i < 400; i++ {
		txs = append(txs, tx(i+2, fmt.Sprintf("20%02d-%02d-01", 10+i/12, 1+i%12), "매입 대금 지급", int64(1000+i), 0))
	}
	set := models.SampleSet{Transactions: txs}

	budget := 800
	s := NewBuilder(budget, 0, logging.NewMockLogger()).Build(Input{Transactions: txs, Sample: &set})

	for _, sec := range s.Sections {
		assert.True(t, sec.Truncated, sec.Title)
		assert.LessOrEqual(t, EstimateTokens(sec.Title)+EstimateTokens(sec.Body), budget)
	}
	assert.LessOrEqual(t, s.Tokens(), budget+10)

	monthly, _ := s.Section(SectionMonthly)
	assert.NotContains(t, monthly.Body, "2010-01", "oldest months are dropped first")
	assert.Contains(t, monthly.Body, "2043-04")
}

func TestBuild_TopNAndEmpty(t *testing.T) {
	results := make([]models.AnomalyResult, 5)
	for i := range results {
		results[i] = models.AnomalyResult{Row: i + 2, Amount: float64(100 * i)}
	}
	s := NewBuilder(1000, 2, logging.NewMockLogger()).Build(Input{Anomalies: results})
	require.Len(t, s.Sections, 1)
	assert.True(t, s.Sections[0].Truncated)
	assert.Equal(t, 2, strings.Count(s.Sections[0].Body, "\n")) // header + 2 rows, no marker

	empty := NewBuilder(1000, 2, logging.NewMockLogger()).Build(Input{Sheet: "x"})
	assert.Empty(t, empty.Sections)
}
