package mapper

import (
	"strconv"
	"strings"
	"time"

	"rag-chat-be/internal/entity"
	"rag-chat-be/internal/model"
	"rag-chat-be/pkg/vectorstore"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

type VectorRecordMapper struct{}

func NewVectorRecordMapper() *VectorRecordMapper {
	return &VectorRecordMapper{}
}

func (m *VectorRecordMapper) ToEntity(r *model.VectorRecord) *entity.VectorRecord {
	if r == nil {
		return nil
	}

	var updatedAt *time.Time
	if !r.UpdatedAt.IsZero() {
		t := r.UpdatedAt
		updatedAt = &t
	}

	return &entity.VectorRecord{
		ID:        r.ID,
		Document:  r.Document,
		LineIndex: r.LineIndex,
		Line:      r.Line,
		Embedding: r.Embedding.Slice(),
		Metadata:  map[string]any(r.Metadata),
		CreatedAt: r.CreatedAt,
		UpdatedAt: updatedAt,
	}
}

func (m *VectorRecordMapper) ToModel(e *entity.VectorRecord) *model.VectorRecord {
	if e == nil {
		return nil
	}

	var updatedAt time.Time
	if e.UpdatedAt != nil {
		updatedAt = *e.UpdatedAt
	}

	return &model.VectorRecord{
		ID:        e.ID,
		Document:  e.Document,
		LineIndex: e.LineIndex,
		Line:      e.Line,
		Embedding: pgvector.NewVector(e.Embedding),
		Metadata:  datatypes.JSONMap(e.Metadata),
		CreatedAt: e.CreatedAt,
		UpdatedAt: updatedAt,
	}
}

// FromRecord lifts the document and line out of the record metadata into
// columns. The line index is the numeric suffix of the record id.
func (m *VectorRecordMapper) FromRecord(r vectorstore.Record) *entity.VectorRecord {
	match := vectorstore.Match{ID: r.ID, Metadata: r.Metadata}
	lineIndex := 0
	if i := strings.LastIndex(r.ID, "-"); i >= 0 {
		if n, err := strconv.Atoi(r.ID[i+1:]); err == nil {
			lineIndex = n
		}
	}
	return &entity.VectorRecord{
		ID:        r.ID,
		Document:  match.Document(),
		LineIndex: lineIndex,
		Line:      match.Line(),
		Embedding: r.Values,
		Metadata:  r.Metadata,
	}
}

func (m *VectorRecordMapper) ToMatch(e *entity.VectorRecord, score float32) vectorstore.Match {
	metadata := make(map[string]any, len(e.Metadata)+2)
	for k, v := range e.Metadata {
		metadata[k] = v
	}
	if _, ok := metadata[vectorstore.MetadataLine]; !ok {
		metadata[vectorstore.MetadataLine] = e.Line
	}
	if _, ok := metadata[vectorstore.MetadataDocument]; !ok {
		metadata[vectorstore.MetadataDocument] = e.Document
	}
	return vectorstore.Match{ID: e.ID, Score: score, Metadata: metadata}
}
