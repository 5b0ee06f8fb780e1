package graph

import (
	"context"
	"fmt"

	"github.com/medkg/medgraph/pkg/ai"
)

// mockAI implements ai.GenerationClient for pipeline tests. Each function
// field may be nil, in which case the call fails.
type mockAI struct {
	textFn         func(prompt string) (string, error)
	structuredFn   func(prompt string) (any, error)
	structuredAsFn func(name, prompt string, out any) error

	textCalls         int
	structuredCalls   int
	structuredAsCalls int
}

func (m *mockAI) GenerateText(
	ctx context.Context,
	prompt string,
	opts ...ai.GenerateOption,
) (string, error) {
	m.textCalls++
	if m.textFn == nil {
		return "", fmt.Errorf("unexpected GenerateText call")
	}
	return m.textFn(prompt)
}

func (m *mockAI) GenerateStructured(
	ctx context.Context,
	prompt string,
	opts ...ai.GenerateOption,
) (any, error) {
	m.structuredCalls++
	if m.structuredFn == nil {
		return nil, fmt.Errorf("unexpected GenerateStructured call")
	}
	return m.structuredFn(prompt)
}

func (m *mockAI) GenerateStructuredAs(
	ctx context.Context,
	name string,
	description string,
	prompt string,
	out any,
	opts ...ai.GenerateOption,
) error {
	m.structuredAsCalls++
	if m.structuredAsFn == nil {
		return fmt.Errorf("unexpected GenerateStructuredAs call")
	}
	return m.structuredAsFn(name, prompt, out)
}

func (m *mockAI) ResetMetrics() {}

func (m *mockAI) GetMetrics() ai.ModelMetrics {
	return ai.ModelMetrics{}
}
