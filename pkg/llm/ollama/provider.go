package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"rag-chat-be/pkg/llm"
	"rag-chat-be/pkg/utils"
)

// OllamaProvider answers single prompts through /api/generate and
// conversations through /api/chat. Streaming is always off.
type OllamaProvider struct {
	BaseURL   string
	ModelName string
	Client    *http.Client
}

var _ llm.LLMProvider = &OllamaProvider{}

func NewOllamaProvider(baseURL, modelName string) *OllamaProvider {
	return &OllamaProvider{
		BaseURL:   baseURL,
		ModelName: modelName,
		Client:    &http.Client{},
	}
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type sampling struct {
	Temperature float64 `json:"temperature,omitempty"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

type generateRequest struct {
	Model   string    `json:"model"`
	Prompt  string    `json:"prompt"`
	Stream  bool      `json:"stream"`
	Options *sampling `json:"options,omitempty"`
}

type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

type chatRequest struct {
	Model    string    `json:"model"`
	Messages []message `json:"messages"`
	Stream   bool      `json:"stream"`
	Options  *sampling `json:"options,omitempty"`
}

type chatResponse struct {
	Message message `json:"message"`
	Done    bool    `json:"done"`
}

func (o *OllamaProvider) resolve(opts []llm.Option) (string, *sampling) {
	options := &llm.Options{Temperature: 0.7}
	for _, opt := range opts {
		opt(options)
	}
	model := o.ModelName
	if options.Model != "" {
		model = options.Model
	}
	return model, &sampling{Temperature: options.Temperature, NumPredict: options.MaxTokens}
}

func (o *OllamaProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	model, params := o.resolve(opts)

	var out generateResponse
	if err := o.post(ctx, "/api/generate", generateRequest{Model: model, Prompt: prompt, Options: params}, &out); err != nil {
		return "", err
	}
	return out.Response, nil
}

func (o *OllamaProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	model, params := o.resolve(opts)

	msgs := make([]message, len(history))
	for i, m := range history {
		role := m.Role
		if role == "model" {
			role = "assistant"
		}
		msgs[i] = message{Role: role, Content: m.Content}
	}

	var out chatResponse
	if err := o.post(ctx, "/api/chat", chatRequest{Model: model, Messages: msgs, Options: params}, &out); err != nil {
		return "", err
	}
	return out.Message.Content, nil
}

// post sends body as JSON and decodes a 200 reply into out. Other statuses
// come back as *utils.StatusError so the retry policy can inspect them.
func (o *OllamaProvider) post(ctx context.Context, path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal ollama request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.Client.Do(req)
	if err != nil {
		return fmt.Errorf("ollama request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read ollama response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return &utils.StatusError{Service: "ollama", Code: resp.StatusCode, Body: string(data)}
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode ollama response: %w", err)
	}
	return nil
}
