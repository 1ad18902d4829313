package huggingface

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"rag-chat-be/pkg/llm"
	"rag-chat-be/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHuggingFaceProvider_Generate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/hf-inference/models/google/flan-t5-base", r.URL.Path)
		assert.Equal(t, "Bearer hf-key", r.Header.Get("Authorization"))

		var req inferenceRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Classify ...", req.Inputs)
		assert.Equal(t, 500, req.Parameters.MaxNewTokens)

		_, _ = w.Write([]byte(`[{"generated_text":"cancel_order"}]`))
	}))
	defer srv.Close()

	p := NewHuggingFaceProvider("hf-key", srv.URL, "google/flan-t5-base")
	got, err := p.Generate(context.Background(), "Classify ...")
	require.NoError(t, err)
	assert.Equal(t, "cancel_order", got)
}

func TestHuggingFaceProvider_Chat(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "m", req.Model)
		assert.Equal(t, 32, req.MaxTokens)

		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"hello"}}]}`))
	}))
	defer srv.Close()

	got, err := NewHuggingFaceProvider("", srv.URL, "m").Chat(context.Background(),
		[]llm.Message{{Role: "user", Content: "hi"}}, llm.WithMaxTokens(32))
	require.NoError(t, err)
	assert.Equal(t, "hello", got)
}

func TestHuggingFaceProvider_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"empty output", http.StatusOK, `[]`},
		{"model loading", http.StatusOK, `{"error":"Model is currently loading","estimated_time":20}`},
		{"unauthorized", http.StatusUnauthorized, `{"error":"bad token"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewHuggingFaceProvider("", srv.URL, "m").Generate(context.Background(), "x")
			require.Error(t, err)
			if tt.status != http.StatusOK {
				var se *utils.StatusError
				require.ErrorAs(t, err, &se)
				assert.Equal(t, tt.status, se.Code)
			}
		})
	}
}
