package service

import (
	"context"
	"errors"
	"strings"
	"sync"

	"rag-chat-be/internal/pkg/apperror"
	"rag-chat-be/pkg/embedding"
	"rag-chat-be/pkg/events"
)

// fakeEmbedder maps text onto a small vector: texts sharing a word with a
// registered keyword point the same way.
type fakeEmbedder struct {
	mu      sync.Mutex
	calls   int
	tasks   []string
	batches [][]string
	err     error
}

func vectorFor(text string) []float32 {
	lowered := strings.ToLower(text)
	v := []float32{0.1, 0.1, 0.1}
	if strings.Contains(lowered, "hello") || strings.Contains(lowered, "document") {
		v[0] = 1
	}
	if strings.Contains(lowered, "invoice") {
		v[1] = 1
	}
	if strings.Contains(lowered, "order") {
		v[2] = 1
	}
	return v
}

func (f *fakeEmbedder) Generate(ctx context.Context, text string, taskType string) (*embedding.EmbeddingResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.tasks = append(f.tasks, taskType)
	if f.err != nil {
		return nil, f.err
	}
	return &embedding.EmbeddingResponse{Embedding: embedding.EmbeddingResponseEmbedding{Values: vectorFor(text)}}, nil
}

func (f *fakeEmbedder) GenerateBatch(ctx context.Context, texts []string, taskType string) ([][]float32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.tasks = append(f.tasks, taskType)
	f.batches = append(f.batches, append([]string(nil), texts...))
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = vectorFor(t)
	}
	return out, nil
}

type fakeGenerator struct {
	mu      sync.Mutex
	prompts []string
	answers []string
	err     error
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	if len(f.answers) == 0 {
		return "generated answer", nil
	}
	answer := f.answers[0]
	f.answers = f.answers[1:]
	return answer, nil
}

func (f *fakeGenerator) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

type fakeActions struct {
	executed []string
}

func (f *fakeActions) Actions() []string {
	return []string{"create_order", "cancel_order", "collect_payment", "view_invoice"}
}

func (f *fakeActions) Execute(ctx context.Context, action string) string {
	f.executed = append(f.executed, action)
	return "Need API Key to call, to perform the action.  Order created successfully."
}

type fakeTurnPublisher struct {
	mu    sync.Mutex
	turns []events.ChatTurnRecorded
	err   error
}

func (f *fakeTurnPublisher) PublishTurnRecorded(ctx context.Context, turn events.ChatTurnRecorded) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.turns = append(f.turns, turn)
	return f.err
}

type fakeEventPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (f *fakeEventPublisher) Publish(ctx context.Context, event events.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
	return nil
}

func (f *fakeEventPublisher) published() []events.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]events.Event(nil), f.events...)
}

type fakeExtractor struct {
	text  string
	err   error
	paths []string
}

func (f *fakeExtractor) Extract(ctx context.Context, path string) (string, error) {
	f.paths = append(f.paths, path)
	return f.text, f.err
}

var errBoom = errors.New("boom")

func messageOf(err error) string {
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return ""
}
