// Package sampler selects bounded, representative subsets of ledger
// transactions for downstream review.
package sampler

import (
	"fmt"
	"strings"
)

// SizePolicy derives a sample target size from a population size.
type SizePolicy interface {
	Name() string
	Target(total int) int
}

// Policy names.
const (
	PolicySmart  = "smart"
	PolicyHybrid = "hybrid"
)

// SmartPolicy: up to 100 rows are taken whole, then 20% up to 500, 5% up
// to 5,000, 3% up to 50,000 and 1% (at most 2,000) beyond.
type SmartPolicy struct{}

// Name implements SizePolicy.
func (SmartPolicy) Name() string { return PolicySmart }

// Target implements SizePolicy.
func (SmartPolicy) Target(total int) int {
	switch {
	case total <= 0:
		return 0
	case total <= 100:
		return total
	case total <= 500:
		return total * 20 / 100
	case total <= 5000:
		return total * 5 / 100
	case total <= 50000:
		return total * 3 / 100
	default:
		return min(total/100, 2000)
	}
}

// HybridPolicy: 20% up to 500 rows, 10% up to 1,000, 5% up to 10,000 and
// 2% beyond, clamped to [50, 1000].
type HybridPolicy struct{}

// Name implements SizePolicy.
func (HybridPolicy) Name() string { return PolicyHybrid }

// Target implements SizePolicy.
func (HybridPolicy) Target(total int) int {
	if total <= 0 {
		return 0
	}
	var t int
	switch {
	case total <= 500:
		t = total * 20 / 100
	case total <= 1000:
		t = total * 10 / 100
	case total <= 10000:
		t = total * 5 / 100
	default:
		t = total * 2 / 100
	}
	return max(50, min(1000, t))
}

// PolicyByName returns the named policy.
func PolicyByName(name string) (SizePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case PolicySmart, "":
		return SmartPolicy{}, nil
	case PolicyHybrid:
		return HybridPolicy{}, nil
	default:
		return nil, fmt.Errorf("unknown sampling policy %q (want %s or %s)", name, PolicySmart, PolicyHybrid)
	}
}
