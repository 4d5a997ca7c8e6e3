package provider

import (
	"context"
	"fmt"
	"sync"

	"github.com/fyrsmithlabs/agentd/internal/message"
)

// MockProvider returns scripted answers in order. It records every
// invocation for assertions. Safe for concurrent use.
type MockProvider struct {
	mu      sync.Mutex
	answers []*Answer
	err     error

	// Bags holds the bag passed to each invocation, in order.
	Bags []message.Bag

	// Opts holds the options passed to each invocation, in order.
	Opts []Options
}

// NewMockProvider scripts the given answers. When the script runs out,
// Invoke returns an error.
func NewMockProvider(answers ...*Answer) *MockProvider {
	return &MockProvider{answers: answers}
}

// FailWith makes every subsequent invocation return err.
func (m *MockProvider) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Invoke implements Provider.
func (m *MockProvider) Invoke(ctx context.Context, bag message.Bag, opts Options) (*Answer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Bags = append(m.Bags, bag)
	m.Opts = append(m.Opts, opts)

	if m.err != nil {
		return nil, m.err
	}
	if len(m.answers) == 0 {
		return nil, fmt.Errorf("mock provider: no scripted answer for invocation %d", len(m.Bags))
	}
	next := m.answers[0]
	m.answers = m.answers[1:]
	return next, nil
}

// Invocations returns how many times Invoke was called.
func (m *MockProvider) Invocations() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Bags)
}
