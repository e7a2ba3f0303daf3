package stats

import (
	"fmt"
	"sort"

	"fjacquet/gl-audit/internal/parsererror"

	mstats "github.com/montanaflynn/stats"
)

// Summary holds population statistics over positive amounts.
type Summary struct {
	Count  int     `json:"count" yaml:"count"`
	Sum    float64 `json:"sum" yaml:"sum"`
	Mean   float64 `json:"mean" yaml:"mean"`
	StdDev float64 `json:"std_dev" yaml:"std_dev"`
	Min    float64 `json:"min" yaml:"min"`
	Max    float64 `json:"max" yaml:"max"`
	Median float64 `json:"median" yaml:"median"`
	Q1     float64 `json:"q1" yaml:"q1"`
	Q3     float64 `json:"q3" yaml:"q3"`
	IQR    float64 `json:"iqr" yaml:"iqr"`
}

// Describe computes a Summary over the positive values. It returns
// parsererror.ErrNoData when there are none, so callers never see NaN
// thresholds.
func Describe(values []float64) (Summary, error) {
	positive := make([]float64, 0, len(values))
	for _, v := range values {
		if v > 0 {
			positive = append(positive, v)
		}
	}
	if len(positive) == 0 {
		return Summary{}, parsererror.ErrNoData
	}

	data := mstats.Float64Data(positive)
	s := Summary{Count: len(positive)}
	var err error
	if s.Sum, err = mstats.Sum(data); err != nil {
		return Summary{}, fmt.Errorf("sum: %w", err)
	}
	if s.Mean, err = mstats.Mean(data); err != nil {
		return Summary{}, fmt.Errorf("mean: %w", err)
	}
	if s.StdDev, err = mstats.StandardDeviationPopulation(data); err != nil {
		return Summary{}, fmt.Errorf("standard deviation: %w", err)
	}
	if s.Min, err = mstats.Min(data); err != nil {
		return Summary{}, fmt.Errorf("min: %w", err)
	}
	if s.Max, err = mstats.Max(data); err != nil {
		return Summary{}, fmt.Errorf("max: %w", err)
	}
	if s.Median, err = mstats.Median(data); err != nil {
		return Summary{}, fmt.Errorf("median: %w", err)
	}

	s.Q1, s.Q3 = FloorQuartiles(positive)
	s.IQR = s.Q3 - s.Q1
	return s, nil
}

// FloorQuartiles returns Q1 and Q3 as the values at floor(n/4) and
// floor(3n/4) of the sorted data, without interpolation.
func FloorQuartiles(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	n := len(sorted)
	return sorted[n/4], sorted[(3*n)/4]
}

// ZScore returns (value - mean) / stddev, and false when stddev is zero.
func (s Summary) ZScore(value float64) (float64, bool) {
	if s.StdDev == 0 {
		return 0, false
	}
	return (value - s.Mean) / s.StdDev, true
}
