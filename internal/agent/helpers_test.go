package agent

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Veraticus/lockin/internal/model"
)

var errWriteFailed = errors.New("write failed")

// memKV is an in-memory KeyValue whose writes can be made to fail.
type memKV struct {
	data map[string][]byte
	mu   sync.Mutex
	fail bool
}

func newMemKV() *memKV {
	return &memKV{data: make(map[string][]byte)}
}

func (m *memKV) Get(_ context.Context, key string, v any) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, v)
}

func (m *memKV) Set(_ context.Context, key string, v any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errWriteFailed
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	m.data[key] = raw
	return nil
}

func (m *memKV) setFail(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fail = fail
}

func newTestState(t *testing.T) (*State, *memKV) {
	t.Helper()
	kv := newMemKV()
	state, err := NewState(context.Background(), kv)
	require.NoError(t, err)
	_, err = state.Install(context.Background())
	require.NoError(t, err)
	return state, kv
}

// stubClassifier answers ClassifyContent with a fixed result.
type stubClassifier struct {
	err    error
	result *model.ClassifyOutcome
	tokens []string
	items  []model.ContentItem
	mu     sync.Mutex
}

func (s *stubClassifier) ClassifyContent(_ context.Context, item model.ContentItem, syncToken string) (*model.ClassifyOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens = append(s.tokens, syncToken)
	s.items = append(s.items, item)
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func (s *stubClassifier) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func outcome(category model.Category) *model.ClassifyOutcome {
	return &model.ClassifyOutcome{
		ClassificationResult: model.ClassificationResult{
			Category:      category,
			Confidence:    0.9,
			Method:        model.MethodAI,
			IsEducational: category.IsEducational(),
		},
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
