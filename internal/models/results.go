package models

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// RelationKey identifies a directed debit-account -> credit-account edge.
type RelationKey struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// AccountRelation is the aggregated flow along one edge.
type AccountRelation struct {
	Count  int             `json:"count"`
	Amount decimal.Decimal `json:"amount"`
}

// RelationEdge is a flattened AccountRelation used for ranking and export.
type RelationEdge struct {
	Source string          `json:"source" csv:"source"`
	Target string          `json:"target" csv:"target"`
	Count  int             `json:"count" csv:"count"`
	Amount decimal.Decimal `json:"amount" csv:"amount"`
}

// Severity ranks how suspicious an anomaly is.
type Severity int

const (
	SeverityLow Severity = iota
	SeverityMedium
	SeverityHigh
)

// String returns the lowercase severity label.
func (s Severity) String() string {
	switch s {
	case SeverityHigh:
		return "high"
	case SeverityMedium:
		return "medium"
	default:
		return "low"
	}
}

// MarshalText renders the severity label in JSON and YAML output.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// ParseSeverity parses a severity label case-insensitively.
func ParseSeverity(label string) (Severity, error) {
	var s Severity
	err := s.UnmarshalText([]byte(strings.TrimSpace(label)))
	return s, err
}

// UnmarshalText parses a severity label.
func (s *Severity) UnmarshalText(b []byte) error {
	switch strings.ToLower(string(b)) {
	case "high":
		*s = SeverityHigh
	case "medium":
		*s = SeverityMedium
	case "low":
		*s = SeverityLow
	default:
		return fmt.Errorf("unknown severity %q", string(b))
	}
	return nil
}

// AnomalyResult describes one flagged transaction.
type AnomalyResult struct {
	Row         int      `json:"row"`
	Date        string   `json:"date,omitempty"`
	Account     string   `json:"account,omitempty"`
	Description string   `json:"description,omitempty"`
	Amount      float64  `json:"amount"`
	Reasons     []string `json:"reasons"`
	Severity    Severity `json:"severity"`
	ZScore      *float64 `json:"z_score,omitempty"`
}

// BenfordPercents is the theoretical first-digit distribution for digits 1-9.
var BenfordPercents = [9]float64{30.1, 17.6, 12.5, 9.7, 7.9, 6.7, 5.8, 5.1, 4.6}

// BenfordResult compares the observed share of one leading digit with the
// theoretical share.
type BenfordResult struct {
	Digit          int     `json:"digit"`
	ActualCount    int     `json:"actual_count"`
	ActualPercent  float64 `json:"actual_percent"`
	BenfordPercent float64 `json:"benford_percent"`
	Difference     float64 `json:"difference"`
}

// SampleSet is a bounded subset of transactions chosen for review.
type SampleSet struct {
	Transactions []Transaction `json:"transactions"`
	Target       int           `json:"target"`
	Total        int           `json:"total"`
	Policy       string        `json:"policy"`
	Method       string        `json:"method"`
	Composition  []SampleStage `json:"composition"`
}

// SampleStage records how many transactions one sampling stage contributed.
type SampleStage struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Size returns the number of sampled transactions.
func (s SampleSet) Size() int {
	return len(s.Transactions)
}
