package llm

import (
	"context"

	"rag-chat-be/pkg/utils"
)

// Message represents a chat message in a provider-agnostic format
type Message struct {
	Role    string `json:"role"` // "user", "assistant", "system"
	Content string `json:"content"`
}

// Option allows for optional parameters like Temperature, MaxTokens, etc.
type Option func(*Options)

type Options struct {
	Temperature float64
	MaxTokens   int
	Model       string // Override default model
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.MaxTokens = n
	}
}

// LLMProvider defines the contract for any LLM backend
type LLMProvider interface {
	// Chat sends a chat history to the model and returns the response
	Chat(ctx context.Context, history []Message, options ...Option) (string, error)

	// Generate sends a single prompt to the model (convenience method)
	Generate(ctx context.Context, prompt string, options ...Option) (string, error)
}

type retryingProvider struct {
	next   LLMProvider
	policy utils.RetryPolicy
}

// WithRetry wraps a provider with per-attempt timeouts and bounded exponential retries.
func WithRetry(next LLMProvider, policy utils.RetryPolicy) LLMProvider {
	return &retryingProvider{next: next, policy: policy}
}

func (p *retryingProvider) Chat(ctx context.Context, history []Message, options ...Option) (string, error) {
	return utils.Retry(ctx, p.policy, func(ctx context.Context) (string, error) {
		return p.next.Chat(ctx, history, options...)
	})
}

func (p *retryingProvider) Generate(ctx context.Context, prompt string, options ...Option) (string, error) {
	return utils.Retry(ctx, p.policy, func(ctx context.Context) (string, error) {
		return p.next.Generate(ctx, prompt, options...)
	})
}
