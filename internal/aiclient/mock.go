package aiclient

import (
	"context"
	"sync"
)

// MockAnalyst is an Analyst for tests. It returns Reply (or Err) and keeps
// every prompt it received.
type MockAnalyst struct {
	Name  string
	Reply string
	Err   error

	mu      sync.Mutex
	prompts []string
}

// Model implements Analyst.
func (m *MockAnalyst) Model() string {
	if m.Name == "" {
		return "mock"
	}
	return m.Name
}

// Analyze implements Analyst.
func (m *MockAnalyst) Analyze(ctx context.Context, prompt string) (Response, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return Response{}, err
	}
	if m.Err != nil {
		return Response{}, m.Err
	}
	return Response{Text: m.Reply, Usage: EstimateUsage(m.Model(), prompt, m.Reply)}, nil
}

// Prompts returns the prompts received so far.
func (m *MockAnalyst) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.prompts...)
}
