package report

import (
	"testing"

	"fjacquet/gl-audit/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestAnomalies(t *testing.T) {
	out := Anomalies(sampleReport())
	assert.Contains(t, out, "== 보통예금 ==\n1 high, 0 medium, 0 low\n")
	assert.Contains(t, out, "z=4.20  z-score\n")
	assert.NotContains(t, out, "Notes")
}

func TestBenford(t *testing.T) {
	r := sampleReport()
	r.Sheets[0].Benford.Digits = []models.BenfordResult{{Digit: 1, ActualCount: 4, ActualPercent: 40, BenfordPercent: 30.1, Difference: 9.9}}

	out := Benford(r)
	assert.Contains(t, out, "    1      4     40.0      30.1    9.9\n")
	assert.Contains(t, out, "n=10 ")
	assert.Contains(t, out, "low confidence: sample too small\n")

	r.Sheets[0].Benford = nil
	assert.Contains(t, Benford(r), "no positive amounts\n")
}

func TestRelations(t *testing.T) {
	r := sampleReport()
	r.Sheets[0].Relations = append(r.Sheets[0].Relations,
		models.RelationEdge{Source: "현금", Target: "잡이익", Count: 1, Amount: decimal.NewFromInt(10)})

	out := Relations(r, 0)
	assert.Contains(t, out, "  보통예금 -> 상품매출  x3  4500\n")
	assert.Contains(t, out, "현금 -> 잡이익")

	out = Relations(r, 1)
	assert.NotContains(t, out, "현금")

	r.Sheets[0].Relations = nil
	assert.Contains(t, Relations(r, 0), "no relations\n")
}
