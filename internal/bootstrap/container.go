package bootstrap

import (
	"context"
	"fmt"
	"log"
	"time"

	"rag-chat-be/internal/config"
	"rag-chat-be/internal/constant"
	"rag-chat-be/internal/controller"
	"rag-chat-be/internal/pkg/logger"
	"rag-chat-be/internal/repository/memory"
	"rag-chat-be/internal/repository/redisstore"
	"rag-chat-be/internal/repository/unitofwork"
	"rag-chat-be/internal/service"
	"rag-chat-be/pkg/embedding"
	"rag-chat-be/pkg/embedding/jina"
	"rag-chat-be/pkg/events"
	"rag-chat-be/pkg/extractor"
	"rag-chat-be/pkg/llm"
	"rag-chat-be/pkg/llm/factory"
	pktNats "rag-chat-be/pkg/nats"
	"rag-chat-be/pkg/rag/classifier"
	"rag-chat-be/pkg/rag/executor"
	"rag-chat-be/pkg/rag/prompt"
	"rag-chat-be/pkg/rag/response"
	"rag-chat-be/pkg/rag/session"
	"rag-chat-be/pkg/utils"
	"rag-chat-be/pkg/vectorstore"
	memstore "rag-chat-be/pkg/vectorstore/memory"
	"rag-chat-be/pkg/vectorstore/qdrant"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ChatController     controller.IChatController
	DocumentController controller.IDocumentController
	SessionController  controller.ISessionController
	HealthController   controller.IHealthController

	// Exposed for cmd/ingest
	DocumentService service.IDocumentService

	// Background services, started by main
	ConsumerService service.IConsumerService

	Logger logger.ILogger

	closers []func() error
}

// NewContainer wires every component from cfg. db may be nil, which disables
// the chat archive; it is required when VECTOR_STORE=pgvector.
func NewContainer(db *gorm.DB, cfg *config.Config) (*Container, error) {
	c := &Container{}

	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	promptLogger := logger.NewIsolatedLogger(cfg.App.PromptLogFilePath)
	c.Logger = sysLogger
	c.closers = append(c.closers, promptLogger.Sync, sysLogger.Sync)

	var uowFactory unitofwork.RepositoryFactory
	if db != nil {
		uowFactory = unitofwork.NewRepositoryFactory(db, cfg.Rag.VectorDimension)
	}

	policy := utils.RetryPolicy{
		MaxTries:        uint(max(cfg.Ai.MaxRetries, 1)),
		InitialInterval: 500 * time.Millisecond,
		Timeout:         cfg.Ai.Timeout,
	}

	embeddingProvider, err := newEmbeddingProvider(cfg.Ai)
	if err != nil {
		return nil, err
	}
	embeddingProvider = embedding.WithRetry(embeddingProvider, policy)

	llmProvider, err := newLLMProvider(cfg.Ai, cfg.Ai.LLMProvider)
	if err != nil {
		return nil, err
	}
	llmProvider = llm.WithRetry(llmProvider, policy)
	log.Printf("[INFO] Using Embedding Provider: %s, LLM Provider: %s", cfg.Ai.EmbeddingProvider, cfg.Ai.LLMProvider)

	queryClassifier, err := newClassifier(cfg.Ai, llmProvider, promptLogger, policy)
	if err != nil {
		return nil, err
	}

	store, err := c.newVectorStore(cfg.Rag, uowFactory)
	if err != nil {
		return nil, err
	}

	historyStore, err := c.newHistoryStore(cfg.Session)
	if err != nil {
		return nil, err
	}
	sessions := session.NewManager(historyStore)

	// Event Bus
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 256},
		watermill.NewStdLogger(false, false),
	)
	c.closers = append(c.closers, pubSub.Close)

	eventPublisher := c.newEventPublisher(cfg.Nats, sysLogger)

	publisherService := service.NewPublisherService(constant.TopicChatTurnRecorded, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		constant.TopicChatTurnRecorded,
		uowFactory,
		eventPublisher,
		sysLogger,
	)

	actionExecutor := executor.NewActionExecutor(executor.Config{
		Endpoint: cfg.Action.APIURL,
		APIKey:   cfg.Action.APIKey,
		Timeout:  cfg.Action.Timeout,
	}, sysLogger)

	chatService := service.NewChatService(
		service.ChatServiceConfig{TopK: cfg.Rag.TopK},
		embeddingProvider,
		store,
		queryClassifier,
		actionExecutor,
		sessions,
		prompt.NewBuilder(cfg.Rag.PromptHistoryTurns),
		response.NewGenerator(llmProvider),
		publisherService,
		sysLogger,
		promptLogger,
	)

	documentService := service.NewDocumentService(
		service.DocumentServiceConfig{
			UploadsDir:     cfg.App.UploadsDir,
			EmbedBatchSize: cfg.Rag.EmbedBatchSize,
		},
		extractor.NewDefaultDispatcher(cfg.App.TesseractPath),
		embeddingProvider,
		store,
		eventPublisher,
		sysLogger,
	)

	c.ChatController = controller.NewChatController(chatService)
	c.DocumentController = controller.NewDocumentController(documentService)
	c.SessionController = controller.NewSessionController(service.NewSessionService(sessions, uowFactory))
	c.HealthController = controller.NewHealthController()
	c.DocumentService = documentService
	c.ConsumerService = consumerService

	return c, nil
}

// Close releases external connections in reverse order of creation.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			log.Printf("[WARN] close: %v", err)
		}
	}
}

func newEmbeddingProvider(cfg config.AIConfig) (embedding.EmbeddingProvider, error) {
	switch cfg.EmbeddingProvider {
	case "ollama":
		return embedding.NewOllamaProvider(cfg.OllamaBaseURL, cfg.OllamaEmbeddingModel), nil
	case "jina":
		if cfg.JinaAPIKey == "" {
			return nil, fmt.Errorf("jina embedding provider requires JINA_API_KEY")
		}
		return jina.NewJinaProvider(cfg.JinaAPIKey, cfg.JinaEmbeddingModel), nil
	case "gemini", "":
		if cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("gemini embedding provider requires GEMINI_API_KEY")
		}
		return embedding.NewGeminiProvider(cfg.GeminiAPIKey, cfg.GeminiEmbeddingModel), nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.EmbeddingProvider)
	}
}

func newLLMProvider(cfg config.AIConfig, provider string) (llm.LLMProvider, error) {
	pc := factory.ProviderConfig{Provider: provider}
	switch provider {
	case "gemini":
		pc.Model = cfg.GeminiChatModel
		pc.APIKey = cfg.GeminiAPIKey
	case "ollama":
		pc.Model = cfg.OllamaChatModel
		pc.BaseURL = cfg.OllamaBaseURL
	case "huggingface":
		pc.Model = cfg.HuggingFaceModel
		pc.APIKey = cfg.HuggingFaceAPIKey
	}
	return factory.NewLLMProvider(pc)
}

// newClassifier reuses the answer model unless CLASSIFIER_PROVIDER names another one.
func newClassifier(cfg config.AIConfig, answerModel llm.LLMProvider, promptLogger logger.ILogger, policy utils.RetryPolicy) (classifier.Classifier, error) {
	if cfg.ClassifierStrategy != "model" {
		return classifier.New(cfg.ClassifierStrategy, nil), nil
	}

	model := answerModel
	if cfg.ClassifierProvider != "" && cfg.ClassifierProvider != cfg.LLMProvider {
		p, err := newLLMProvider(cfg, cfg.ClassifierProvider)
		if err != nil {
			return nil, fmt.Errorf("classifier provider: %w", err)
		}
		model = llm.WithRetry(p, policy)
	}

	return classifier.New("model", model,
		classifier.WithLogger(promptLogger),
		classifier.WithModelName(cfg.ClassifierModel),
	), nil
}

func (c *Container) newVectorStore(cfg config.RagConfig, uowFactory unitofwork.RepositoryFactory) (vectorstore.Store, error) {
	switch cfg.VectorStore {
	case "pgvector":
		if uowFactory == nil {
			return nil, fmt.Errorf("VECTOR_STORE=pgvector requires DB_DSN")
		}
		return uowFactory.NewUnitOfWork(context.Background()).VectorRecordRepository(), nil
	case "qdrant":
		store, err := qdrant.NewStore(qdrant.Config{
			Host:       cfg.QdrantHost,
			Port:       cfg.QdrantPort,
			Collection: cfg.QdrantCollection,
			Dimension:  cfg.VectorDimension,
		})
		if err != nil {
			return nil, fmt.Errorf("connect qdrant: %w", err)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := store.EnsureCollection(ctx); err != nil {
			store.Close()
			return nil, fmt.Errorf("ensure qdrant collection: %w", err)
		}
		c.closers = append(c.closers, store.Close)
		return store, nil
	case "memory", "":
		// dimension is fixed by the first upsert
		return memstore.NewStorage(0), nil
	default:
		return nil, fmt.Errorf("unsupported vector store: %s", cfg.VectorStore)
	}
}

func (c *Container) newHistoryStore(cfg config.SessionConfig) (session.HistoryStore, error) {
	switch cfg.Store {
	case "redis":
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{Addr: cfg.RedisURL}
		}
		rdb := redis.NewClient(opt)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := rdb.Ping(ctx).Err(); err != nil {
			rdb.Close()
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		c.closers = append(c.closers, rdb.Close)
		return redisstore.NewSessionRepository(rdb, cfg.TTL), nil
	case "memory", "":
		return memory.NewSessionRepository(cfg.TTL), nil
	default:
		return nil, fmt.Errorf("unsupported session store: %s", cfg.Store)
	}
}

// newEventPublisher falls back to dropping events when NATS is not configured
// or unreachable.
func (c *Container) newEventPublisher(cfg config.NatsConfig, sysLogger logger.ILogger) events.Publisher {
	if cfg.URL == "" {
		return events.NopPublisher{}
	}
	natsPub, err := pktNats.NewPublisher(cfg.URL)
	if err != nil {
		sysLogger.Warn("Bootstrap", "Failed to connect to NATS Publisher", map[string]interface{}{
			"error": err.Error(),
		})
		return events.NopPublisher{}
	}
	c.closers = append(c.closers, func() error {
		natsPub.Close()
		return nil
	})
	return natsPub
}
