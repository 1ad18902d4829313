package huggingface

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"rag-chat-be/pkg/llm"
	"rag-chat-be/pkg/utils"
)

const defaultBaseURL = "https://router.huggingface.co"

// HuggingFaceProvider runs single prompts on the hosted inference task API,
// which is what text2text models such as flan-t5 expose, and conversations on
// the OpenAI-compatible chat route.
type HuggingFaceProvider struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

var _ llm.LLMProvider = &HuggingFaceProvider{}

func NewHuggingFaceProvider(apiKey, baseURL, model string) *HuggingFaceProvider {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &HuggingFaceProvider{
		apiKey:  apiKey,
		baseURL: baseURL,
		model:   model,
		client:  &http.Client{},
	}
}

type inferenceRequest struct {
	Inputs     string              `json:"inputs"`
	Parameters inferenceParameters `json:"parameters"`
}

type inferenceParameters struct {
	MaxNewTokens int  `json:"max_new_tokens,omitempty"`
	ReturnFull   bool `json:"return_full_text"`
}

type inferenceOutput struct {
	GeneratedText string `json:"generated_text"`
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []llm.Message `json:"messages"`
	MaxTokens int           `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type apiError struct {
	Error json.RawMessage `json:"error"`
}

func (p *HuggingFaceProvider) options(opts []llm.Option) *llm.Options {
	o := &llm.Options{Model: p.model, MaxTokens: 500}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (p *HuggingFaceProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	o := p.options(opts)

	body := inferenceRequest{
		Inputs:     prompt,
		Parameters: inferenceParameters{MaxNewTokens: o.MaxTokens},
	}
	var out []inferenceOutput
	if err := p.post(ctx, "/hf-inference/models/"+o.Model, body, &out); err != nil {
		return "", err
	}
	if len(out) == 0 {
		return "", errors.New("huggingface inference returned no output")
	}
	return out[0].GeneratedText, nil
}

func (p *HuggingFaceProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	o := p.options(opts)

	var out chatResponse
	if err := p.post(ctx, "/v1/chat/completions", chatRequest{Model: o.Model, Messages: history, MaxTokens: o.MaxTokens}, &out); err != nil {
		return "", err
	}
	if len(out.Choices) == 0 {
		return "", errors.New("huggingface chat returned no choices")
	}
	return out.Choices[0].Message.Content, nil
}

func (p *HuggingFaceProvider) post(ctx context.Context, path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal huggingface request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if p.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.apiKey)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("huggingface request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read huggingface response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return &utils.StatusError{Service: "huggingface", Code: resp.StatusCode, Body: string(data)}
	}

	// A 200 can still carry {"error": ...} while a model is loading.
	var apiErr apiError
	if json.Unmarshal(data, &apiErr) == nil && len(apiErr.Error) > 0 && string(apiErr.Error) != "null" {
		return fmt.Errorf("huggingface api error: %s", apiErr.Error)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode huggingface response: %w", err)
	}
	return nil
}
