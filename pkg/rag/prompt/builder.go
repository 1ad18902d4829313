package prompt

import (
	"fmt"
	"strings"

	"rag-chat-be/pkg/rag/session"
)

const BaseInstruction = "I am going to ask you a question, which I would like you to answer strictly based on the given context. " +
	"If there is not enough information in the context to answer the question, make a guess based on the context."

// Builder assembles the generation prompt: instructions, then prior turns,
// then the question with its context. Nothing is truncated unless
// maxHistoryTurns is positive, in which case only the newest turns are kept.
type Builder struct {
	maxHistoryTurns int
}

func NewBuilder(maxHistoryTurns int) *Builder {
	return &Builder{maxHistoryTurns: maxHistoryTurns}
}

func (b *Builder) Build(query string, contextLines []string, history []session.Turn) string {
	var prompt strings.Builder

	prompt.WriteString(BaseInstruction)
	prompt.WriteString("\n\n")

	b.writeHistory(&prompt, history)
	b.writeQuestion(&prompt, query, contextLines)

	return prompt.String()
}

func (b *Builder) writeHistory(prompt *strings.Builder, history []session.Turn) {
	if b.maxHistoryTurns > 0 && len(history) > b.maxHistoryTurns {
		history = history[len(history)-b.maxHistoryTurns:]
	}
	if len(history) == 0 {
		return
	}

	for i, turn := range history {
		if i > 0 {
			prompt.WriteString("\n")
		}
		fmt.Fprintf(prompt, "User: %s\nBot: %s", turn.Query, turn.Response)
	}
	prompt.WriteString("\n\n")
}

func (b *Builder) writeQuestion(prompt *strings.Builder, query string, contextLines []string) {
	fmt.Fprintf(prompt, "The question is '%s'. Here is all the context you have: %s", query, strings.Join(contextLines, " "))
}
