package aiclient

import (
	"context"
	"errors"
	"strings"
	"testing"

	"fjacquet/gl-audit/internal/summary"
	"fjacquet/gl-audit/internal/usage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReview_RecordsUsage(t *testing.T) {
	analyst := &MockAnalyst{Name: "test-model", Reply: "looks fine"}
	ledger := usage.NewLedger(usage.Price{PromptPer1K: 1})

	resp, next, err := Review(context.Background(), analyst, "abcdefgh", ledger)

	require.NoError(t, err)
	assert.Equal(t, "looks fine", resp.Text)
	assert.Equal(t, usage.Usage{Model: "test-model", PromptTokens: 2, CompletionTokens: 3}, resp.Usage)
	assert.True(t, ledger.IsEmpty())
	assert.Equal(t, 1, next.Total().Calls)
	assert.Equal(t, []string{"abcdefgh"}, analyst.Prompts())
}

func TestReview_ErrorKeepsLedger(t *testing.T) {
	analyst := &MockAnalyst{Err: errors.New("quota exceeded")}
	ledger := usage.NewLedger(usage.Price{}).Record(usage.Usage{Model: "x"})

	_, next, err := Review(context.Background(), analyst, "p", ledger)

	assert.EqualError(t, err, "quota exceeded")
	assert.Equal(t, ledger.Total(), next.Total())
}

func TestReview_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := Review(ctx, &MockAnalyst{}, "p", usage.NewLedger(usage.Price{}))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBuildPrompt(t *testing.T) {
	s := summary.Summary{Sheet: "보통예금", Sections: []summary.Section{{Title: "Monthly totals", Body: "month | count"}}}
	prompt := BuildPrompt(s)

	assert.True(t, strings.HasPrefix(prompt, "You are reviewing a general-ledger export"))
	assert.Contains(t, prompt, "# 보통예금")
	assert.Contains(t, prompt, "## Monthly totals\nmonth | count")
}

func TestNewGeminiClient_RequiresKey(t *testing.T) {
	_, err := NewGeminiClient(context.Background(), "", "", 0, nil)
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}
