package response

import (
	"context"
	"fmt"
	"strings"

	"rag-chat-be/pkg/llm"
)

// Generator turns a built prompt into model text.
type Generator struct {
	llmProvider llm.LLMProvider
}

func NewGenerator(llmProvider llm.LLMProvider) *Generator {
	return &Generator{llmProvider: llmProvider}
}

func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	text, err := g.llmProvider.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("generate response: %w", err)
	}
	return text, nil
}

// Reference is one context line cited under the answer.
type Reference struct {
	Document string `json:"document"`
	Line     string `json:"line"`
}

// WithReferences appends the cited context lines, numbered from 1, to text.
func WithReferences(text string, refs []Reference) string {
	var sb strings.Builder
	sb.WriteString(text)
	sb.WriteString("\n\nReferences:\n")
	for i, ref := range refs {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "From document '%s': Line %d: %s", ref.Document, i+1, ref.Line)
	}
	return sb.String()
}
