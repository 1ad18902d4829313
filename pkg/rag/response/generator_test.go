package response

import (
	"context"
	"errors"
	"testing"

	"rag-chat-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	text string
	err  error
}

func (s *stubProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return s.text, s.err
}

func (s *stubProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return s.text, s.err
}

func TestGenerator_Generate(t *testing.T) {
	got, err := NewGenerator(&stubProvider{text: "It says hello."}).Generate(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "It says hello.", got)

	boom := errors.New("quota")
	_, err = NewGenerator(&stubProvider{err: boom}).Generate(context.Background(), "prompt")
	assert.ErrorIs(t, err, boom)
}

func TestWithReferences(t *testing.T) {
	got := WithReferences("It says hello.", []Reference{
		{Document: "doc1.pdf", Line: "Hello world"},
		{Document: "notes.pptx", Line: "Second"},
	})

	assert.Equal(t,
		"It says hello.\n\nReferences:\nFrom document 'doc1.pdf': Line 1: Hello world\nFrom document 'notes.pptx': Line 2: Second",
		got)
}

func TestWithReferences_Empty(t *testing.T) {
	assert.Equal(t, "Answer\n\nReferences:\n", WithReferences("Answer", nil))
}
