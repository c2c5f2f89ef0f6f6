package provider

import (
	"context"
	"sync"

	"github.com/edi/docchat/pkg/chat"
)

// MockCall records one Respond invocation for assertions.
type MockCall struct {
	SystemPrompt string
	History      []chat.Message
	UserMessage  string
}

// Mock is a canned backend for tests and local development.
type Mock struct {
	Reply string
	Err   error

	mu    sync.Mutex
	calls []MockCall
}

// NewMock creates a mock backend returning the given reply
func NewMock(reply string) *Mock {
	return &Mock{Reply: reply}
}

// Name returns the provider name
func (m *Mock) Name() string {
	return "mock"
}

// Respond records the call and returns the canned reply or error
func (m *Mock) Respond(ctx context.Context, systemPrompt string, history []chat.Message, userMessage string) (string, error) {
	m.mu.Lock()
	historyCopy := make([]chat.Message, len(history))
	copy(historyCopy, history)
	m.calls = append(m.calls, MockCall{
		SystemPrompt: systemPrompt,
		History:      historyCopy,
		UserMessage:  userMessage,
	})
	m.mu.Unlock()

	if m.Err != nil {
		return "", m.Err
	}
	return m.Reply, nil
}

// Calls returns a copy of all recorded invocations.
func (m *Mock) Calls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]MockCall, len(m.calls))
	copy(out, m.calls)
	return out
}
