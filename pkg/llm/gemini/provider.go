package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"rag-chat-be/pkg/llm"
	"rag-chat-be/pkg/utils"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1"
	defaultModel   = "gemini-1.5-flash"

	roleUser  = "user"
	roleModel = "model"
)

type GeminiProvider struct {
	ApiKey  string
	BaseURL string
	Model   string
	Client  *http.Client
}

var _ llm.LLMProvider = &GeminiProvider{}

func NewGeminiProvider(apiKey, model string) *GeminiProvider {
	if model == "" {
		model = defaultModel
	}
	return &GeminiProvider{
		ApiKey:  apiKey,
		BaseURL: defaultBaseURL,
		Model:   model,
		Client:  &http.Client{},
	}
}

type chatPart struct {
	Text string `json:"text"`
}

type chatContent struct {
	Parts []*chatPart `json:"parts"`
	Role  string      `json:"role"`
}

type generationConfig struct {
	Temperature     *float64 `json:"temperature,omitempty"`
	MaxOutputTokens int      `json:"maxOutputTokens,omitempty"`
}

type chatRequest struct {
	Contents         []*chatContent    `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type chatCandidate struct {
	Content *chatContent `json:"content"`
}

type chatResponse struct {
	Candidates []*chatCandidate `json:"candidates"`
}

func (p *GeminiProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	options := &llm.Options{Temperature: -1}
	for _, opt := range opts {
		opt(options)
	}

	// Gemini has no system role; system text is sent as a user turn.
	contents := make([]*chatContent, 0, len(history))
	for _, msg := range history {
		role := roleUser
		if msg.Role == "assistant" || msg.Role == roleModel {
			role = roleModel
		}
		contents = append(contents, &chatContent{
			Parts: []*chatPart{{Text: msg.Content}},
			Role:  role,
		})
	}

	payload := chatRequest{Contents: contents}
	if options.Temperature >= 0 || options.MaxTokens > 0 {
		cfg := &generationConfig{MaxOutputTokens: options.MaxTokens}
		if options.Temperature >= 0 {
			t := options.Temperature
			cfg.Temperature = &t
		}
		payload.GenerationConfig = cfg
	}

	payloadJson, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	model := p.Model
	if options.Model != "" {
		model = options.Model
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent", p.BaseURL, model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(payloadJson))
	if err != nil {
		return "", err
	}
	req.Header.Set("x-goog-api-key", p.ApiKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := p.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return "", err
	}

	if res.StatusCode != http.StatusOK {
		return "", &utils.StatusError{Service: "gemini", Code: res.StatusCode, Body: string(resBody)}
	}

	var geminiRes chatResponse
	if err := json.Unmarshal(resBody, &geminiRes); err != nil {
		return "", err
	}

	if len(geminiRes.Candidates) == 0 || geminiRes.Candidates[0].Content == nil {
		return "", fmt.Errorf("gemini returned no candidates")
	}

	var sb strings.Builder
	for _, part := range geminiRes.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}
	return sb.String(), nil
}

func (p *GeminiProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return p.Chat(ctx, []llm.Message{{Role: roleUser, Content: prompt}}, opts...)
}
