// Package aiclient sends ledger summaries to an external AI reviewer and
// returns its narrative together with the token usage of the call.
package aiclient

import (
	"context"
	"strings"

	"fjacquet/gl-audit/internal/summary"
	"fjacquet/gl-audit/internal/usage"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-1.5-flash"

// Response is the reviewer's answer to one prompt.
type Response struct {
	Text  string      `json:"text" yaml:"text"`
	Usage usage.Usage `json:"usage" yaml:"usage"`
}

// Analyst reviews a prompt. Implementations must honor ctx cancellation.
type Analyst interface {
	Analyze(ctx context.Context, prompt string) (Response, error)
	Model() string
}

// Review runs a through analyst and records its usage in ledger, returning
// the updated ledger. On error the ledger is returned unchanged.
func Review(ctx context.Context, analyst Analyst, prompt string, ledger usage.Ledger) (Response, usage.Ledger, error) {
	resp, err := analyst.Analyze(ctx, prompt)
	if err != nil {
		return Response{}, ledger, err
	}
	if resp.Usage.Model == "" {
		resp.Usage.Model = analyst.Model()
	}
	return resp, ledger.Record(resp.Usage), nil
}

const promptHeader = `You are reviewing a general-ledger export for audit risk.
The figures below were computed locally; do not recompute them.
Point out unusual patterns, likely misclassifications and transactions that deserve
follow-up, and explain why. Answer in the language of the account names.`

// BuildPrompt wraps a sheet summary in the reviewer instructions.
func BuildPrompt(s summary.Summary) string {
	var b strings.Builder
	b.WriteString(promptHeader)
	b.WriteString("\n\n")
	b.WriteString(s.String())
	return b.String()
}

// EstimateUsage fills token counts from text length when the provider does
// not report them.
func EstimateUsage(model, prompt, completion string) usage.Usage {
	return usage.Usage{
		Model:            model,
		PromptTokens:     summary.EstimateTokens(prompt),
		CompletionTokens: summary.EstimateTokens(completion),
	}
}
