package factory

import (
	"fmt"

	"rag-chat-be/pkg/llm"
	"rag-chat-be/pkg/llm/gemini"
	"rag-chat-be/pkg/llm/huggingface"
	"rag-chat-be/pkg/llm/ollama"
)

type ProviderConfig struct {
	Provider string // "gemini", "ollama" or "huggingface"
	Model    string
	BaseURL  string
	APIKey   string
}

func NewLLMProvider(cfg ProviderConfig) (llm.LLMProvider, error) {
	switch cfg.Provider {
	case "gemini":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("gemini provider requires an API key")
		}
		p := gemini.NewGeminiProvider(cfg.APIKey, cfg.Model)
		if cfg.BaseURL != "" {
			p.BaseURL = cfg.BaseURL
		}
		return p, nil
	case "ollama":
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = "http://localhost:11434"
		}
		return ollama.NewOllamaProvider(baseURL, cfg.Model), nil
	case "huggingface":
		return huggingface.NewHuggingFaceProvider(cfg.APIKey, cfg.BaseURL, cfg.Model), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
}
