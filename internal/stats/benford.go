package stats

import (
	"math"
	"strconv"

	"fjacquet/gl-audit/internal/models"

	"gonum.org/v1/gonum/stat/distuv"
)

// BenfordMinSample is the count below which a Benford result is flagged as
// low confidence.
const BenfordMinSample = 50

// Nigrini first-digit MAD conformity bands.
const (
	madClose      = 0.006
	madAcceptable = 0.012
	madMarginal   = 0.015
)

// Conformity labels.
const (
	ConformityClose      = "close conformity"
	ConformityAcceptable = "acceptable conformity"
	ConformityMarginal   = "marginally acceptable conformity"
	ConformityNone       = "nonconformity"
	ConformityNoData     = "no data"
)

// BenfordReport is the first-digit distribution of a set of amounts.
type BenfordReport struct {
	Digits        []models.BenfordResult `json:"digits" yaml:"digits"`
	Total         int                    `json:"total" yaml:"total"`
	LowConfidence bool                   `json:"low_confidence" yaml:"low_confidence"`
	ChiSquare     float64                `json:"chi_square" yaml:"chi_square"`
	PValue        float64                `json:"p_value" yaml:"p_value"`
	MAD           float64                `json:"mad" yaml:"mad"`
	Conformity    string                 `json:"conformity" yaml:"conformity"`
}

// LeadingDigit returns the first digit of the integer part of a positive
// amount, or 0 when there is none (amount <= 0 or below 1).
func LeadingDigit(amount float64) int {
	if !(amount >= 1) || math.IsInf(amount, 0) {
		return 0
	}
	s := strconv.FormatFloat(math.Trunc(amount), 'f', 0, 64)
	d := int(s[0] - '0')
	if d < 1 || d > 9 {
		return 0
	}
	return d
}

// Benford tabulates leading digits 1-9 of the amounts against the
// theoretical distribution. Percentages and differences are rounded to one
// decimal. Fewer than minSample digits set LowConfidence; the table is still
// computed.
func Benford(amounts []float64, minSample int) BenfordReport {
	if minSample <= 0 {
		minSample = BenfordMinSample
	}
	var counts [9]int
	total := 0
	for _, a := range amounts {
		if d := LeadingDigit(a); d > 0 {
			counts[d-1]++
			total++
		}
	}

	report := BenfordReport{
		Digits:        make([]models.BenfordResult, 9),
		Total:         total,
		LowConfidence: total < minSample,
		Conformity:    ConformityNoData,
	}

	madSum := 0.0
	for i := 0; i < 9; i++ {
		actual := 0.0
		if total > 0 {
			actual = float64(counts[i]) / float64(total) * 100
		}
		expected := models.BenfordPercents[i]
		report.Digits[i] = models.BenfordResult{
			Digit:          i + 1,
			ActualCount:    counts[i],
			ActualPercent:  round1(actual),
			BenfordPercent: expected,
			Difference:     round1(round1(actual) - expected),
		}
		if total > 0 {
			madSum += math.Abs(actual-expected) / 100
			exp := float64(total) * expected / 100
			report.ChiSquare += math.Pow(float64(counts[i])-exp, 2) / exp
		}
	}

	if total > 0 {
		report.MAD = madSum / 9
		report.PValue = 1 - distuv.ChiSquared{K: 8}.CDF(report.ChiSquare)
		report.Conformity = conformity(report.MAD)
	}
	return report
}

// BenfordFor runs Benford over the positive non-summary amounts of txs.
func BenfordFor(txs []models.Transaction, amount AmountFunc, minSample int) BenfordReport {
	return Benford(Amounts(txs, amount), minSample)
}

func conformity(mad float64) string {
	switch {
	case mad <= madClose:
		return ConformityClose
	case mad <= madAcceptable:
		return ConformityAcceptable
	case mad <= madMarginal:
		return ConformityMarginal
	default:
		return ConformityNone
	}
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
