package stats

import (
	"fmt"
	"math"
	"sort"

	"fjacquet/gl-audit/internal/logging"
	"fjacquet/gl-audit/internal/models"
)

// Anomaly reasons.
const (
	ReasonZFar        = "z-score far outlier"
	ReasonIQR         = "IQR outlier"
	ReasonLarge       = "abnormally large amount"
	ReasonRoundNumber = "suspicious round number"
	ReasonMaximum     = "equals dataset maximum"
)

// RoundNumbers are the amounts treated as suspiciously round.
var RoundNumbers = []float64{1e3, 5e3, 1e4, 5e4, 1e5, 5e5, 1e6, 5e6, 1e7}

// AnomalyConfig holds the rule thresholds.
type AnomalyConfig struct {
	ZHigh          float64 `mapstructure:"z_high" validate:"gt=0"`
	ZMedium        float64 `mapstructure:"z_medium" validate:"gt=0"`
	IQRMultiplier  float64 `mapstructure:"iqr_multiplier" validate:"gt=0"`
	LargeMultiple  float64 `mapstructure:"large_multiple" validate:"gt=0"`
	MaxMultiple    float64 `mapstructure:"max_multiple" validate:"gt=0"`
	RoundTolerance float64 `mapstructure:"round_tolerance" validate:"gte=0"`
}

// DefaultAnomalyConfig returns the standard thresholds.
func DefaultAnomalyConfig() AnomalyConfig {
	return AnomalyConfig{
		ZHigh:          3,
		ZMedium:        2,
		IQRMultiplier:  1.5,
		LargeMultiple:  10,
		MaxMultiple:    5,
		RoundTolerance: 1,
	}
}

// AnomalyDetector flags transactions whose amounts stand out.
type AnomalyDetector struct {
	cfg    AnomalyConfig
	amount AmountFunc
	logger logging.Logger
}

// NewAnomalyDetector creates a detector; a nil amount func uses GrossAmount.
func NewAnomalyDetector(cfg AnomalyConfig, amount AmountFunc, logger logging.Logger) *AnomalyDetector {
	if amount == nil {
		amount = GrossAmount
	}
	return &AnomalyDetector{cfg: cfg, amount: amount, logger: logging.OrDefault(logger)}
}

// Detect evaluates every positive, non-summary transaction against the
// rules in order and returns the flagged ones ranked by severity, then by
// |z| descending. It returns parsererror.ErrNoData when nothing is positive.
//
// The moderate z band only raises severity; a row is reported when at least
// one rule adds a reason. The round-number rule resets severity to low, and
// the maximum rule that follows it forces high.
func (d *AnomalyDetector) Detect(txs []models.Transaction) ([]models.AnomalyResult, Summary, error) {
	summary, err := Describe(Amounts(txs, d.amount))
	if err != nil {
		return nil, Summary{}, err
	}

	lower := summary.Q1 - d.cfg.IQRMultiplier*summary.IQR
	upper := summary.Q3 + d.cfg.IQRMultiplier*summary.IQR

	var results []models.AnomalyResult
	for _, tx := range txs {
		if IsSummaryTransaction(tx) {
			continue
		}
		amount := d.amount(tx)
		if amount <= 0 {
			continue
		}

		severity := models.SeverityLow
		var reasons []string
		z, hasZ := summary.ZScore(amount)

		if hasZ && math.Abs(z) > d.cfg.ZHigh {
			reasons = append(reasons, fmt.Sprintf("%s (z=%.2f)", ReasonZFar, z))
			severity = models.SeverityHigh
		} else if hasZ && math.Abs(z) > d.cfg.ZMedium {
			severity = models.SeverityMedium
		}

		if amount < lower || amount > upper {
			reasons = append(reasons, fmt.Sprintf("%s (outside %.0f..%.0f)", ReasonIQR, lower, upper))
			severity = escalate(severity)
		}

		if amount > d.cfg.LargeMultiple*summary.Mean {
			reasons = append(reasons, fmt.Sprintf("%s (>%gx mean)", ReasonLarge, d.cfg.LargeMultiple))
			severity = escalate(severity)
		}

		if amount > summary.Mean && isRoundNumber(amount, d.cfg.RoundTolerance) {
			reasons = append(reasons, ReasonRoundNumber)
			severity = models.SeverityLow
		}

		if amount == summary.Max && summary.Max > d.cfg.MaxMultiple*summary.Mean {
			reasons = append(reasons, ReasonMaximum)
			severity = models.SeverityHigh
		}

		if len(reasons) == 0 {
			continue
		}
		result := models.AnomalyResult{
			Row:         tx.Row,
			Date:        tx.Date,
			Account:     tx.Account,
			Description: tx.Description,
			Amount:      amount,
			Reasons:     reasons,
			Severity:    severity,
		}
		if hasZ {
			zz := z
			result.ZScore = &zz
		}
		results = append(results, result)
	}

	RankAnomalies(results)
	d.logger.Debug("Anomaly detection complete",
		logging.F(logging.FieldCount, len(results)),
		logging.F("mean", summary.Mean),
		logging.F("std_dev", summary.StdDev))
	return results, summary, nil
}

// RankAnomalies sorts by severity (high first), then |z| descending.
func RankAnomalies(results []models.AnomalyResult) {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Severity != results[j].Severity {
			return results[i].Severity > results[j].Severity
		}
		return absZ(results[i]) > absZ(results[j])
	})
}

// CountBySeverity tallies results per severity label.
func CountBySeverity(results []models.AnomalyResult) map[string]int {
	out := map[string]int{"high": 0, "medium": 0, "low": 0}
	for _, r := range results {
		out[r.Severity.String()]++
	}
	return out
}

func escalate(s models.Severity) models.Severity {
	if s == models.SeverityLow {
		return models.SeverityMedium
	}
	return s
}

func isRoundNumber(amount, tolerance float64) bool {
	for _, r := range RoundNumbers {
		if math.Abs(amount-r) <= tolerance {
			return true
		}
	}
	return false
}

func absZ(r models.AnomalyResult) float64 {
	if r.ZScore == nil {
		return 0
	}
	return math.Abs(*r.ZScore)
}
