package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"rag-chat-be/internal/constant"
	"rag-chat-be/internal/dto"
	"rag-chat-be/internal/pkg/apperror"
	"rag-chat-be/internal/pkg/logger"
	"rag-chat-be/pkg/embedding"
	"rag-chat-be/pkg/events"
	"rag-chat-be/pkg/rag/classifier"
	"rag-chat-be/pkg/rag/prompt"
	"rag-chat-be/pkg/rag/response"
	"rag-chat-be/pkg/rag/session"
	"rag-chat-be/pkg/vectorstore"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	defaultTopK = 5
	missingLine = "No text available"
)

var tracer = otel.Tracer("rag-chat-be/service")

// ActionRunner performs the transactional actions a query can name.
type ActionRunner interface {
	Actions() []string
	Execute(ctx context.Context, action string) string
}

// ResponseGenerator produces the answer text for a built prompt.
type ResponseGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type IChatService interface {
	Chat(ctx context.Context, req *dto.ChatRequest) (*dto.ChatResponse, error)
}

type ChatServiceConfig struct {
	TopK int
}

type chatService struct {
	embedder   embedding.EmbeddingProvider
	store      vectorstore.Store
	classifier classifier.Classifier
	actions    ActionRunner
	sessions   *session.Manager
	prompts    *prompt.Builder
	generator  ResponseGenerator
	publisher  IPublisherService
	topK       int
	logger     logger.ILogger
	promptLog  logger.ILogger
}

func NewChatService(
	cfg ChatServiceConfig,
	embedder embedding.EmbeddingProvider,
	store vectorstore.Store,
	cls classifier.Classifier,
	actions ActionRunner,
	sessions *session.Manager,
	prompts *prompt.Builder,
	generator ResponseGenerator,
	publisher IPublisherService,
	log logger.ILogger,
	promptLog logger.ILogger,
) IChatService {
	if cfg.TopK <= 0 {
		cfg.TopK = defaultTopK
	}
	return &chatService{
		embedder:   embedder,
		store:      store,
		classifier: cls,
		actions:    actions,
		sessions:   sessions,
		prompts:    prompts,
		generator:  generator,
		publisher:  publisher,
		topK:       cfg.TopK,
		logger:     log,
		promptLog:  promptLog,
	}
}

// Chat answers one query. Session history changes only when an answer is
// produced, and requests for the same session run one at a time from the
// history read to the append.
func (s *chatService) Chat(ctx context.Context, req *dto.ChatRequest) (*dto.ChatResponse, error) {
	ctx, span := tracer.Start(ctx, "ChatService.Chat", trace.WithAttributes(
		attribute.String("session.id", req.SessionID),
		attribute.String("document.id", req.DocumentID),
	))
	defer span.End()

	if strings.TrimSpace(req.Query) == "" || strings.TrimSpace(req.SessionID) == "" {
		return nil, apperror.ClientInput(constant.MsgMissingQuery)
	}

	matches, err := s.retrieve(ctx, req.Query)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "retrieval failed")
		return nil, err
	}

	if req.DocumentID != "" {
		matches = vectorstore.FilterByDocument(matches, req.DocumentID)
		if len(matches) == 0 {
			return nil, apperror.NotFound(constant.MsgNoRelevantContext)
		}
	}

	contextLines, refs := contextOf(matches)

	release, err := s.sessions.Acquire(ctx, req.SessionID)
	if err != nil {
		return nil, fmt.Errorf("acquire session %s: %w", req.SessionID, err)
	}
	defer release()

	action := s.classifier.Classify(ctx, req.Query, s.actions.Actions())
	span.SetAttributes(attribute.String("chat.action", action))
	s.promptLog.Info("Classifier", "query classified", map[string]interface{}{
		"session_id": req.SessionID,
		"query":      req.Query,
		"action":     action,
	})

	if action != classifier.ContextBased {
		text := s.actions.Execute(ctx, action)
		if err := s.record(ctx, req, action, text, nil); err != nil {
			return nil, err
		}
		return &dto.ChatResponse{Response: text}, nil
	}

	history, err := s.sessions.History(ctx, req.SessionID)
	if err != nil {
		return nil, err
	}

	builtPrompt := s.prompts.Build(req.Query, contextLines, history)
	s.promptLog.Info("PromptBuilder", "prompt built", map[string]interface{}{
		"session_id":    req.SessionID,
		"history_turns": len(history),
		"context_lines": len(contextLines),
		"prompt":        builtPrompt,
	})

	text, err := s.generator.Generate(ctx, builtPrompt)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "generation failed")
		return nil, err
	}

	if err := s.record(ctx, req, action, text, refs); err != nil {
		return nil, err
	}

	return &dto.ChatResponse{Response: response.WithReferences(text, refs)}, nil
}

func (s *chatService) retrieve(ctx context.Context, query string) ([]vectorstore.Match, error) {
	emb, err := s.embedder.Generate(ctx, query, embedding.TaskRetrievalQuery)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	matches, err := s.store.Query(ctx, emb.Embedding.Values, s.topK)
	if err != nil {
		return nil, fmt.Errorf("query vector store: %w", err)
	}
	return matches, nil
}

func contextOf(matches []vectorstore.Match) ([]string, []response.Reference) {
	lines := make([]string, len(matches))
	refs := make([]response.Reference, len(matches))
	for i, m := range matches {
		line := missingLine
		if _, ok := m.Metadata[vectorstore.MetadataLine]; ok {
			line = m.Line()
		}
		lines[i] = line
		refs[i] = response.Reference{Document: m.Document(), Line: line}
	}
	return lines, refs
}

// record appends the turn and announces it. The caller must hold the session.
func (s *chatService) record(ctx context.Context, req *dto.ChatRequest, action, text string, refs []response.Reference) error {
	if err := s.sessions.Record(ctx, req.SessionID, session.Turn{Query: req.Query, Response: text}); err != nil {
		return err
	}

	evtRefs := make([]events.Reference, len(refs))
	for i, r := range refs {
		evtRefs[i] = events.Reference{Document: r.Document, Line: r.Line}
	}

	err := s.publisher.PublishTurnRecorded(ctx, events.ChatTurnRecorded{
		SessionID:  req.SessionID,
		Query:      req.Query,
		Response:   text,
		Action:     action,
		Document:   req.DocumentID,
		References: evtRefs,
		RecordedAt: time.Now().UTC(),
	})
	if err != nil {
		s.logger.Warn("ChatService", "failed to publish recorded turn", map[string]interface{}{
			"session_id": req.SessionID,
			"error":      err.Error(),
		})
	}
	return nil
}
