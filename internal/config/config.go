package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Session  SessionConfig
	Nats     NatsConfig
	Auth     AuthConfig
	Ai       AIConfig
	Rag      RagConfig
	Action   ActionConfig
	Tracing  TracingConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	PromptLogFilePath  string
	CorsAllowedOrigins string
	UploadsDir         string
	BodyLimitMB        int
	TesseractPath      string
}

type DatabaseConfig struct {
	Driver     string // "postgres" or "sqlite"
	Connection string
}

type SessionConfig struct {
	Store    string // "memory" or "redis"
	TTL      time.Duration
	RedisURL string
}

type NatsConfig struct {
	URL string
}

type AuthConfig struct {
	JwtSecret string
}

type AIConfig struct {
	EmbeddingProvider string // "gemini", "ollama" or "jina"
	LLMProvider       string // "gemini", "ollama" or "huggingface"

	GeminiAPIKey         string
	GeminiEmbeddingModel string
	GeminiChatModel      string

	OllamaBaseURL        string
	OllamaEmbeddingModel string
	OllamaChatModel      string

	JinaAPIKey         string
	JinaEmbeddingModel string

	HuggingFaceAPIKey string
	HuggingFaceModel  string

	ClassifierStrategy string // "model", "keyword" or "rule"
	ClassifierProvider string
	ClassifierModel    string

	Timeout    time.Duration
	MaxRetries int
}

type RagConfig struct {
	VectorStore        string // "memory", "pgvector" or "qdrant"
	VectorDimension    int
	QdrantHost         string
	QdrantPort         int
	QdrantCollection   string
	TopK               int
	PromptHistoryTurns int
	EmbedBatchSize     int
}

type TracingConfig struct {
	Enabled     bool
	Endpoint    string
	ServiceName string
}

type ActionConfig struct {
	APIURL  string
	APIKey  string
	Timeout time.Duration
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "8000"),
			Environment:        getEnv("APP_ENV", "development"),
			LogFilePath:        getEnv("LOG_PATH", "./logs/app.log"),
			PromptLogFilePath:  getEnv("PROMPT_LOG_PATH", "./logs/llm_rag.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOW_ORIGINS", "*"),
			UploadsDir:         getEnv("UPLOADS_DIR", "./uploads"),
			BodyLimitMB:        getEnvAsInt("BODY_LIMIT_MB", 10),
			TesseractPath:      getEnv("TESSERACT_PATH", "tesseract"),
		},
		Database: DatabaseConfig{
			Driver:     getEnv("DB_DRIVER", "postgres"),
			Connection: getEnv("DB_DSN", ""),
		},
		Session: SessionConfig{
			Store:    getEnv("SESSION_STORE", "memory"),
			TTL:      getEnvAsDuration("SESSION_TTL", 0),
			RedisURL: getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Nats: NatsConfig{
			URL: getEnv("NATS_URL", ""),
		},
		Auth: AuthConfig{
			JwtSecret: getEnv("AUTH_JWT_SECRET", ""),
		},
		Ai: AIConfig{
			EmbeddingProvider:    getEnv("EMBEDDING_PROVIDER", "gemini"),
			LLMProvider:          getEnv("LLM_PROVIDER", "gemini"),
			GeminiAPIKey:         getEnv("GEMINI_API_KEY", ""),
			GeminiEmbeddingModel: getEnv("GEMINI_EMBEDDING_MODEL", "text-embedding-004"),
			GeminiChatModel:      getEnv("GEMINI_CHAT_MODEL", "gemini-1.5-flash"),
			OllamaBaseURL:        getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaEmbeddingModel: getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
			OllamaChatModel:      getEnv("OLLAMA_CHAT_MODEL", "llama3"),
			JinaAPIKey:           getEnv("JINA_API_KEY", ""),
			JinaEmbeddingModel:   getEnv("JINA_EMBEDDING_MODEL", "jina-embeddings-v3"),
			HuggingFaceAPIKey:    getEnv("HF_API_KEY", ""),
			HuggingFaceModel:     getEnv("HF_MODEL", "google/flan-t5-base"),
			ClassifierStrategy:   getEnv("CLASSIFIER_STRATEGY", "model"),
			ClassifierProvider:   getEnv("CLASSIFIER_PROVIDER", ""),
			ClassifierModel:      getEnv("CLASSIFIER_MODEL", ""),
			Timeout:              getEnvAsDuration("AI_TIMEOUT", 60*time.Second),
			MaxRetries:           getEnvAsInt("AI_MAX_RETRIES", 3),
		},
		Rag: RagConfig{
			VectorStore:        getEnv("VECTOR_STORE", "memory"),
			VectorDimension:    getEnvAsInt("VECTOR_DIMENSION", 768),
			QdrantHost:         getEnv("QDRANT_HOST", "localhost"),
			QdrantPort:         getEnvAsInt("QDRANT_PORT", 6334),
			QdrantCollection:   getEnv("QDRANT_COLLECTION", "documents"),
			TopK:               getEnvAsInt("RAG_TOP_K", 5),
			PromptHistoryTurns: getEnvAsInt("PROMPT_HISTORY_TURNS", 0),
			EmbedBatchSize:     getEnvAsInt("EMBED_BATCH_SIZE", 64),
		},
		Action: ActionConfig{
			APIURL:  getEnv("ACTION_API_URL", "https://dummyapi.com/api"),
			APIKey:  getEnv("ACTION_API_KEY", ""),
			Timeout: getEnvAsDuration("ACTION_TIMEOUT", 10*time.Second),
		},
		Tracing: TracingConfig{
			Enabled:     getEnvAsBool("OTEL_ENABLED", false),
			Endpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
			ServiceName: getEnv("OTEL_SERVICE_NAME", "rag-chat-backend"),
		},
	}
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.App.Environment, "production")
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}

// getEnvAsDuration accepts Go durations ("30s") and bare integers as seconds.
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if strValue == "" {
		return fallback
	}
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	if seconds, err := strconv.Atoi(strValue); err == nil {
		return time.Duration(seconds) * time.Second
	}
	return fallback
}
