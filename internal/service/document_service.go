package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"rag-chat-be/internal/constant"
	"rag-chat-be/internal/dto"
	"rag-chat-be/internal/pkg/apperror"
	"rag-chat-be/internal/pkg/logger"
	"rag-chat-be/pkg/embedding"
	"rag-chat-be/pkg/events"
	"rag-chat-be/pkg/extractor"
	"rag-chat-be/pkg/utils"
	"rag-chat-be/pkg/vectorstore"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const defaultEmbedBatchSize = 64

type TextExtractor interface {
	Extract(ctx context.Context, path string) (string, error)
}

type IDocumentService interface {
	// Upload stores the content under the uploads directory and ingests it.
	Upload(ctx context.Context, filename string, content io.Reader) (*dto.IngestResult, error)
	// IngestFile ingests a file already on disk, named by its base name.
	IngestFile(ctx context.Context, path string) (*dto.IngestResult, error)
}

type DocumentServiceConfig struct {
	UploadsDir     string
	EmbedBatchSize int
}

type documentService struct {
	uploadsDir string
	batchSize  int
	extractor  TextExtractor
	embedder   embedding.EmbeddingProvider
	store      vectorstore.Store
	events     events.Publisher
	logger     logger.ILogger
}

func NewDocumentService(
	cfg DocumentServiceConfig,
	textExtractor TextExtractor,
	embedder embedding.EmbeddingProvider,
	store vectorstore.Store,
	eventPublisher events.Publisher,
	log logger.ILogger,
) IDocumentService {
	if cfg.EmbedBatchSize <= 0 {
		cfg.EmbedBatchSize = defaultEmbedBatchSize
	}
	if cfg.UploadsDir == "" {
		cfg.UploadsDir = "uploads"
	}
	if eventPublisher == nil {
		eventPublisher = events.NopPublisher{}
	}
	return &documentService{
		uploadsDir: cfg.UploadsDir,
		batchSize:  cfg.EmbedBatchSize,
		extractor:  textExtractor,
		embedder:   embedder,
		store:      store,
		events:     eventPublisher,
		logger:     log,
	}
}

func (s *documentService) Upload(ctx context.Context, filename string, content io.Reader) (*dto.IngestResult, error) {
	name := filepath.Base(filepath.Clean("/" + filename))
	if !extractor.IsSupported(name) {
		return nil, apperror.ClientInput(constant.MsgUnsupportedFormat)
	}

	if err := os.MkdirAll(s.uploadsDir, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads dir: %w", err)
	}

	path := filepath.Join(s.uploadsDir, name)
	if err := writeFile(path, content); err != nil {
		return nil, fmt.Errorf("store upload %s: %w", name, err)
	}

	return s.ingest(ctx, name, path)
}

func (s *documentService) IngestFile(ctx context.Context, path string) (*dto.IngestResult, error) {
	name := filepath.Base(path)
	if !extractor.IsSupported(name) {
		return nil, apperror.ClientInput(constant.MsgUnsupportedFormat)
	}
	return s.ingest(ctx, name, path)
}

func writeFile(path string, content io.Reader) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, content); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ingest extracts the text of path and upserts one record per non-blank
// line, with ids "<name>-<i>" numbered over the kept lines.
func (s *documentService) ingest(ctx context.Context, name, path string) (*dto.IngestResult, error) {
	ctx, span := tracer.Start(ctx, "DocumentService.Ingest", trace.WithAttributes(
		attribute.String("document.name", name),
	))
	defer span.End()

	text, err := s.extractor.Extract(ctx, path)
	if err != nil {
		if errors.Is(err, extractor.ErrUnsupported) {
			return nil, apperror.ClientInput(constant.MsgUnsupportedFormat)
		}
		span.RecordError(err)
		return nil, apperror.Extraction(constant.MsgExtractionFailed, err)
	}

	lines := utils.NonBlankLines(text)
	span.SetAttributes(attribute.Int("document.lines", len(lines)))

	offset := 0
	for _, batch := range utils.Batch(lines, s.batchSize) {
		vectors, err := s.embedder.GenerateBatch(ctx, batch, embedding.TaskRetrievalDocument)
		if err != nil {
			span.SetStatus(codes.Error, "embedding failed")
			return nil, fmt.Errorf("embed %s lines %d-%d: %w", name, offset, offset+len(batch)-1, err)
		}
		if len(vectors) != len(batch) {
			return nil, fmt.Errorf("embed %s: got %d vectors for %d lines", name, len(vectors), len(batch))
		}

		records := make([]vectorstore.Record, len(batch))
		for i, line := range batch {
			records[i] = vectorstore.Record{
				ID:     vectorstore.RecordID(name, offset+i),
				Values: vectors[i],
				Metadata: map[string]any{
					vectorstore.MetadataLine:     line,
					vectorstore.MetadataDocument: name,
				},
			}
		}
		if err := s.store.Upsert(ctx, records); err != nil {
			span.SetStatus(codes.Error, "upsert failed")
			return nil, fmt.Errorf("upsert %s: %w", name, err)
		}
		offset += len(batch)
	}

	s.logger.Info("DocumentService", "document ingested", map[string]interface{}{
		"document": name,
		"lines":    len(lines),
	})

	if err := s.events.Publish(ctx, events.NewDocumentIngested(name, len(lines))); err != nil {
		s.logger.Warn("DocumentService", "failed to publish ingestion event", map[string]interface{}{
			"document": name,
			"error":    err.Error(),
		})
	}

	return &dto.IngestResult{Document: name, Lines: len(lines)}, nil
}
