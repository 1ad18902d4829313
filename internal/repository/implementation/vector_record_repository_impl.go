package implementation

import (
	"context"

	"rag-chat-be/internal/mapper"
	"rag-chat-be/internal/model"
	"rag-chat-be/internal/repository/contract"
	"rag-chat-be/pkg/vectorstore"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const upsertBatchSize = 100

type VectorRecordRepositoryImpl struct {
	db        *gorm.DB
	dimension int
	mapper    *mapper.VectorRecordMapper
}

// NewVectorRecordRepository stores vectors in the vector_records table. A
// dimension of 0 disables the length check.
func NewVectorRecordRepository(db *gorm.DB, dimension int) contract.VectorRecordRepository {
	return &VectorRecordRepositoryImpl{
		db:        db,
		dimension: dimension,
		mapper:    mapper.NewVectorRecordMapper(),
	}
}

func (r *VectorRecordRepositoryImpl) Upsert(ctx context.Context, records []vectorstore.Record) error {
	if len(records) == 0 {
		return nil
	}

	models := make([]*model.VectorRecord, 0, len(records))
	for _, rec := range records {
		if r.dimension > 0 && len(rec.Values) != r.dimension {
			return vectorstore.ErrDimensionMismatch
		}
		models = append(models, r.mapper.ToModel(r.mapper.FromRecord(rec)))
	}

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"document", "line_index", "line", "embedding", "metadata", "updated_at"}),
		}).
		CreateInBatches(models, upsertBatchSize).Error
}

// Query ranks by pgvector cosine distance; the score is 1 - distance.
func (r *VectorRecordRepositoryImpl) Query(ctx context.Context, vector []float32, topK int) ([]vectorstore.Match, error) {
	if topK <= 0 {
		return []vectorstore.Match{}, nil
	}
	if r.dimension > 0 && len(vector) != r.dimension {
		return nil, vectorstore.ErrDimensionMismatch
	}

	type result struct {
		model.VectorRecord
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(vector)

	err := r.db.WithContext(ctx).
		Table(model.VectorRecord{}.TableName()).
		Select("vector_records.*, 1 - (embedding <=> ?) AS similarity", queryVector).
		Order(clause.OrderBy{Expression: clause.Expr{SQL: "embedding <=> ?", Vars: []interface{}{queryVector}}}).
		Order("created_at ASC").
		Limit(topK).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	matches := make([]vectorstore.Match, len(results))
	for i := range results {
		matches[i] = r.mapper.ToMatch(r.mapper.ToEntity(&results[i].VectorRecord), float32(results[i].Similarity))
	}
	return matches, nil
}
