package agent

import (
	"context"
)

// --- MockLLM ---

type MockLLM struct {
	CompleteFunc           func(ctx context.Context, prompt string) (string, error)
	CompleteWithSystemFunc func(ctx context.Context, system, user string) (string, error)

	// Call logs for assertions.
	CompleteCalls           []string
	CompleteWithSystemCalls []string
}

func (m *MockLLM) Complete(ctx context.Context, prompt string) (string, error) {
	m.CompleteCalls = append(m.CompleteCalls, prompt)
	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, prompt)
	}
	return "", nil
}

func (m *MockLLM) CompleteWithSystem(ctx context.Context, system, user string) (string, error) {
	m.CompleteWithSystemCalls = append(m.CompleteWithSystemCalls, user)
	if m.CompleteWithSystemFunc != nil {
		return m.CompleteWithSystemFunc(ctx, system, user)
	}
	return "", nil
}
