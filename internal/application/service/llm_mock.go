package service

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/minhle/career-os/pkg/apperror"
)

// MockReply is a canned reply for MockLLM.
type MockReply struct {
	JSON json.RawMessage
	Text string
	Err  error
}

// MockLLM is a deterministic LLMService for tests. Replies are served in FIFO
// order and every request is recorded.
type MockLLM struct {
	mu      sync.Mutex
	replies []MockReply

	JSONCalls []GenerateRequest
	TextCalls []string
}

func NewMockLLM(replies ...MockReply) *MockLLM {
	return &MockLLM{replies: replies}
}

func (m *MockLLM) next() (MockReply, error) {
	if len(m.replies) == 0 {
		return MockReply{}, apperror.NewUpstream("mock reply queue exhausted", nil)
	}
	r := m.replies[0]
	m.replies = m.replies[1:]
	return r, r.Err
}

func (m *MockLLM) GenerateJSON(_ context.Context, req GenerateRequest) (json.RawMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.JSONCalls = append(m.JSONCalls, req)
	r, err := m.next()
	if err != nil {
		return nil, err
	}
	return r.JSON, nil
}

func (m *MockLLM) GenerateText(_ context.Context, _ string, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.TextCalls = append(m.TextCalls, prompt)
	r, err := m.next()
	if err != nil {
		return "", err
	}
	return r.Text, nil
}
