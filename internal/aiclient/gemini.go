package aiclient

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"fjacquet/gl-audit/internal/logging"
	"fjacquet/gl-audit/internal/parsererror"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// ErrMissingAPIKey is returned when no Gemini API key is configured.
var ErrMissingAPIKey = errors.New("GEMINI_API_KEY is not set")

// GeminiClient is an Analyst backed by the Google Gemini API.
type GeminiClient struct {
	client  *genai.Client
	model   *genai.GenerativeModel
	name    string
	timeout time.Duration
	logger  logging.Logger
}

// NewGeminiClient connects to Gemini. A zero timeout disables the per-call
// deadline.
func NewGeminiClient(ctx context.Context, apiKey, model string, timeout time.Duration, logger logging.Logger) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if model == "" {
		model = DefaultModel
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiClient{
		client:  client,
		model:   client.GenerativeModel(model),
		name:    model,
		timeout: timeout,
		logger:  logging.OrDefault(logger),
	}, nil
}

// Model implements Analyst.
func (c *GeminiClient) Model() string { return c.name }

// Analyze implements Analyst.
func (c *GeminiClient) Analyze(ctx context.Context, prompt string) (Response, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	c.logger.Debug("Sending summary to Gemini",
		logging.F(logging.FieldModel, c.name),
		logging.F("prompt_tokens", EstimateUsage(c.name, prompt, "").PromptTokens))

	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return Response{}, &parsererror.AIError{Model: c.name, Err: err}
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return Response{}, &parsererror.AIError{Model: c.name, Err: errors.New("empty response")}
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	text := b.String()

	c.logger.Info("Gemini review completed",
		logging.F(logging.FieldModel, c.name),
		logging.F(logging.FieldDuration, time.Since(start).Milliseconds()))
	return Response{Text: text, Usage: EstimateUsage(c.name, prompt, text)}, nil
}

// Close releases the underlying connection.
func (c *GeminiClient) Close() error {
	return c.client.Close()
}
