package stats

import (
	"math/rand"
	"testing"

	"fjacquet/gl-audit/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeadingDigit(t *testing.T) {
	tests := []struct {
		amount   float64
		expected int
	}{
		{123.45, 1},
		{9999, 9},
		{5, 5},
		{0.75, 0},
		{0, 0},
		{-300, 0},
		{1e15, 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, LeadingDigit(tt.amount), "amount %v", tt.amount)
	}
}

func TestBenford_UniformDigits(t *testing.T) {
	report := Benford([]float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 0.5, -4}, 0)

	assert.Equal(t, 9, report.Total)
	assert.True(t, report.LowConfidence)
	require.Len(t, report.Digits, 9)
	assert.Equal(t, models.BenfordResult{Digit: 1, ActualCount: 1, ActualPercent: 11.1, BenfordPercent: 30.1, Difference: -19}, report.Digits[0])
	assert.Equal(t, 6.5, report.Digits[8].Difference)
}

func TestBenford_PercentagesSumToHundred(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 100; trial++ {
		n := 1 + rng.Intn(500)
		amounts := make([]float64, n)
		for i := range amounts {
			amounts[i] = rng.Float64() * 1e7
		}

		report := Benford(amounts, BenfordMinSample)
		if report.Total == 0 {
			continue
		}
		sum := 0.0
		for _, d := range report.Digits {
			sum += d.ActualPercent
		}
		assert.InDelta(t, 100, sum, 0.5, "trial %d", trial)
	}
}

func TestBenford_PerfectConformity(t *testing.T) {
	counts := []int{301, 176, 125, 97, 79, 67, 58, 51, 46}
	var amounts []float64
	for d, c := range counts {
		for i := 0; i < c; i++ {
			amounts = append(amounts, float64((d+1)*1000+i))
		}
	}

	report := Benford(amounts, BenfordMinSample)

	assert.Equal(t, 1000, report.Total)
	assert.False(t, report.LowConfidence)
	assert.InDelta(t, 0, report.ChiSquare, 1e-9)
	assert.InDelta(t, 1, report.PValue, 1e-9)
	assert.InDelta(t, 0, report.MAD, 1e-9)
	assert.Equal(t, ConformityClose, report.Conformity)
}

func TestBenford_SkewedData(t *testing.T) {
	amounts := make([]float64, 200)
	for i := range amounts {
		amounts[i] = 9000 + float64(i)
	}

	report := Benford(amounts, BenfordMinSample)

	assert.Equal(t, 100.0, report.Digits[8].ActualPercent)
	assert.Less(t, report.PValue, 0.001)
	assert.Equal(t, ConformityNone, report.Conformity)
}

func TestBenford_Empty(t *testing.T) {
	report := Benford(nil, 0)
	assert.Equal(t, 0, report.Total)
	assert.True(t, report.LowConfidence)
	assert.Equal(t, ConformityNoData, report.Conformity)
	assert.Len(t, report.Digits, 9)
}

func TestBenfordFor(t *testing.T) {
	txs := []models.Transaction{
		{Debit: decimal.NewFromInt(150)},
		{Credit: decimal.NewFromInt(2500)},
		{Description: "[누계]", Debit: decimal.NewFromInt(9000)},
	}
	report := BenfordFor(txs, GrossAmount, 10)
	assert.Equal(t, 2, report.Total)
	assert.Equal(t, 1, report.Digits[0].ActualCount)
	assert.Equal(t, 1, report.Digits[1].ActualCount)
	assert.Equal(t, 0, report.Digits[8].ActualCount)
}
