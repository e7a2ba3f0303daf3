// Package usage accounts for AI token consumption and estimated cost. A
// Ledger is a plain value: callers pass it in and keep the returned copy.
package usage

import (
	"sort"
)

// Usage is the token count of one AI call.
type Usage struct {
	Model            string `json:"model" yaml:"model"`
	PromptTokens     int    `json:"prompt_tokens" yaml:"prompt_tokens"`
	CompletionTokens int    `json:"completion_tokens" yaml:"completion_tokens"`
}

// TotalTokens returns prompt plus completion tokens.
func (u Usage) TotalTokens() int {
	return u.PromptTokens + u.CompletionTokens
}

// Price is the cost of 1,000 tokens on each side of a call.
type Price struct {
	PromptPer1K     float64 `json:"prompt_per_1k" yaml:"prompt_per_1k"`
	CompletionPer1K float64 `json:"completion_per_1k" yaml:"completion_per_1k"`
}

// Cost estimates the price of u.
func (p Price) Cost(u Usage) float64 {
	return float64(u.PromptTokens)/1000*p.PromptPer1K + float64(u.CompletionTokens)/1000*p.CompletionPer1K
}

// ModelUsage aggregates the calls made to one model.
type ModelUsage struct {
	Model            string  `json:"model" yaml:"model"`
	Calls            int     `json:"calls" yaml:"calls"`
	PromptTokens     int     `json:"prompt_tokens" yaml:"prompt_tokens"`
	CompletionTokens int     `json:"completion_tokens" yaml:"completion_tokens"`
	Cost             float64 `json:"cost" yaml:"cost"`
}

// TotalTokens returns prompt plus completion tokens.
func (m ModelUsage) TotalTokens() int {
	return m.PromptTokens + m.CompletionTokens
}

// Ledger accumulates usage per model.
type Ledger struct {
	price   Price
	byModel map[string]ModelUsage
}

// NewLedger returns an empty ledger that prices calls with price.
func NewLedger(price Price) Ledger {
	return Ledger{price: price}
}

// Price returns the price the ledger charges per call.
func (l Ledger) Price() Price { return l.price }

// Record returns a copy of l with u added. l itself is unchanged.
func (l Ledger) Record(u Usage) Ledger {
	next := Ledger{price: l.price, byModel: make(map[string]ModelUsage, len(l.byModel)+1)}
	for k, v := range l.byModel {
		next.byModel[k] = v
	}
	m := next.byModel[u.Model]
	m.Model = u.Model
	m.Calls++
	m.PromptTokens += u.PromptTokens
	m.CompletionTokens += u.CompletionTokens
	m.Cost += l.price.Cost(u)
	next.byModel[u.Model] = m
	return next
}

// Merge returns a copy of l with every model of other added.
func (l Ledger) Merge(other Ledger) Ledger {
	next := Ledger{price: l.price, byModel: make(map[string]ModelUsage, len(l.byModel)+len(other.byModel))}
	for k, v := range l.byModel {
		next.byModel[k] = v
	}
	for k, v := range other.byModel {
		m := next.byModel[k]
		m.Model = k
		m.Calls += v.Calls
		m.PromptTokens += v.PromptTokens
		m.CompletionTokens += v.CompletionTokens
		m.Cost += v.Cost
		next.byModel[k] = m
	}
	return next
}

// Models returns the per-model totals sorted by model name.
func (l Ledger) Models() []ModelUsage {
	out := make([]ModelUsage, 0, len(l.byModel))
	for _, m := range l.byModel {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Model < out[j].Model })
	return out
}

// Total sums every model. Its Model field is empty.
func (l Ledger) Total() ModelUsage {
	var t ModelUsage
	for _, m := range l.byModel {
		t.Calls += m.Calls
		t.PromptTokens += m.PromptTokens
		t.CompletionTokens += m.CompletionTokens
		t.Cost += m.Cost
	}
	return t
}

// IsEmpty reports whether nothing has been recorded.
func (l Ledger) IsEmpty() bool {
	return len(l.byModel) == 0
}
