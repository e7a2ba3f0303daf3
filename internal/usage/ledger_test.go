package usage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testPrice = Price{PromptPer1K: 0.5, CompletionPer1K: 1.5}

func TestLedger_RecordReturnsCopy(t *testing.T) {
	empty := NewLedger(testPrice)
	one := empty.Record(Usage{Model: "gemini", PromptTokens: 2000, CompletionTokens: 1000})
	two := one.Record(Usage{Model: "gemini", PromptTokens: 1000})

	assert.True(t, empty.IsEmpty())
	assert.Equal(t, 1, one.Total().Calls)
	assert.Equal(t, 2, two.Total().Calls)
	assert.InDelta(t, 2.5, one.Total().Cost, 1e-9)
	assert.InDelta(t, 3.0, two.Total().Cost, 1e-9)
	assert.Equal(t, 4000, two.Total().TotalTokens())
}

func TestLedger_Models(t *testing.T) {
	l := NewLedger(testPrice).
		Record(Usage{Model: "b", PromptTokens: 10}).
		Record(Usage{Model: "a", CompletionTokens: 5}).
		Record(Usage{Model: "b", PromptTokens: 1})

	models := l.Models()
	require.Len(t, models, 2)
	assert.Equal(t, "a", models[0].Model)
	assert.Equal(t, ModelUsage{Model: "b", Calls: 2, PromptTokens: 11, Cost: 0.0055}, roundCost(models[1]))
}

func TestLedger_Merge(t *testing.T) {
	a := NewLedger(testPrice).Record(Usage{Model: "m", PromptTokens: 1000})
	b := NewLedger(testPrice).Record(Usage{Model: "m", CompletionTokens: 1000}).Record(Usage{Model: "n", PromptTokens: 1})

	merged := a.Merge(b)

	assert.Equal(t, 3, merged.Total().Calls)
	assert.InDelta(t, 2.0005, merged.Total().Cost, 1e-9)
	assert.Equal(t, 1, a.Total().Calls, "receiver unchanged")
}

func TestUsage_TotalTokens(t *testing.T) {
	assert.Equal(t, 7, Usage{PromptTokens: 3, CompletionTokens: 4}.TotalTokens())
}

func roundCost(m ModelUsage) ModelUsage {
	m.Cost = float64(int(m.Cost*1e6+0.5)) / 1e6
	return m
}
