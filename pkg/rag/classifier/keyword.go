package classifier

import (
	"context"
	"strings"
)

// KeywordClassifier matches action labels directly against the query, both
// verbatim ("create_order") and with underscores as spaces ("create order").
type KeywordClassifier struct{}

func NewKeywordClassifier() *KeywordClassifier {
	return &KeywordClassifier{}
}

func (c *KeywordClassifier) Classify(ctx context.Context, query string, actions []string) string {
	lowered := strings.ToLower(query)
	for _, action := range actions {
		label := strings.ToLower(action)
		if label == "" {
			continue
		}
		if strings.Contains(lowered, label) || strings.Contains(lowered, strings.ReplaceAll(label, "_", " ")) {
			return action
		}
	}
	return ContextBased
}
