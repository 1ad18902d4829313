// Package classifier decides whether a chat query names a transactional
// action or should be answered from retrieved context.
package classifier

import (
	"context"
	"strings"
)

// ContextBased is returned when a query names none of the offered actions.
const ContextBased = "context_based"

type Classifier interface {
	// Classify returns one of actions or ContextBased. It never fails; any
	// internal error degrades to ContextBased.
	Classify(ctx context.Context, query string, actions []string) string
}

// MatchLabel returns the first action, in list order, that appears in text
// (case-insensitive), or ContextBased when none does.
func MatchLabel(text string, actions []string) string {
	lowered := strings.ToLower(text)
	for _, action := range actions {
		if action != "" && strings.Contains(lowered, strings.ToLower(action)) {
			return action
		}
	}
	return ContextBased
}

// New returns the classifier for a strategy name: "keyword", "rule" or "model".
// The model strategy needs a generator; without one it falls back to keyword matching.
func New(strategy string, model Generator, opts ...ModelOption) Classifier {
	switch strategy {
	case "rule":
		return NewRuleClassifier(DefaultRules())
	case "model":
		if model != nil {
			return NewModelClassifier(model, opts...)
		}
	}
	return NewKeywordClassifier()
}
