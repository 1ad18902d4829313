package classifier

import (
	"context"
	"fmt"
	"strings"

	"rag-chat-be/internal/pkg/logger"
	"rag-chat-be/pkg/llm"
)

// Generator is the slice of llm.LLMProvider the model classifier needs.
type Generator interface {
	Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error)
}

// ModelClassifier asks a small instruction-tuned model to name the action and
// substring-matches its answer against the labels.
type ModelClassifier struct {
	model  Generator
	logger logger.ILogger
	opts   []llm.Option
}

type ModelOption func(*ModelClassifier)

func WithLogger(l logger.ILogger) ModelOption {
	return func(c *ModelClassifier) { c.logger = l }
}

// WithModelName overrides the provider's default model for classification calls.
func WithModelName(name string) ModelOption {
	return func(c *ModelClassifier) {
		if name != "" {
			c.opts = append(c.opts, llm.WithModel(name))
		}
	}
}

func NewModelClassifier(model Generator, opts ...ModelOption) *ModelClassifier {
	c := &ModelClassifier{
		model:  model,
		logger: logger.NewNopLogger(),
		opts:   []llm.Option{llm.WithTemperature(0), llm.WithMaxTokens(10)},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BuildPrompt is the instruction sent to the model.
func BuildPrompt(query string, actions []string) string {
	return fmt.Sprintf(
		"Classify the following query strictly as one of the actions: %s, or context-based.\n\nQuery: %s",
		strings.Join(actions, ", "), query,
	)
}

func (c *ModelClassifier) Classify(ctx context.Context, query string, actions []string) string {
	output, err := c.model.Generate(ctx, BuildPrompt(query, actions), c.opts...)
	if err != nil {
		c.logger.Warn("Classifier", "model classification failed, treating query as context-based", map[string]interface{}{
			"error": err.Error(),
		})
		return ContextBased
	}

	action := MatchLabel(output, actions)
	c.logger.Info("Classifier", "query classified", map[string]interface{}{
		"output": output,
		"action": action,
	})
	return action
}
