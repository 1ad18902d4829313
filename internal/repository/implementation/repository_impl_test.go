package implementation

import (
	"context"
	"os"
	"testing"

	"rag-chat-be/internal/entity"
	"rag-chat-be/internal/model"
	"rag-chat-be/internal/repository/specification"
	"rag-chat-be/pkg/vectorstore"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&model.VectorRecord{}, &model.ChatTurn{}))
	return db
}

func record(doc string, i int, line string, values ...float32) vectorstore.Record {
	return vectorstore.Record{
		ID:     vectorstore.RecordID(doc, i),
		Values: values,
		Metadata: map[string]any{
			vectorstore.MetadataLine:     line,
			vectorstore.MetadataDocument: doc,
		},
	}
}

func TestVectorRecordRepository_UpsertOverwritesByID(t *testing.T) {
	ctx := context.Background()
	db := newSQLiteDB(t)
	repo := NewVectorRecordRepository(db, 2)

	require.NoError(t, repo.Upsert(ctx, []vectorstore.Record{
		record("doc1.pdf", 0, "Invoices are due in 30 days.", 1, 0),
		record("doc1.pdf", 1, "Late fees apply.", 0, 1),
		record("doc2.pdf", 0, "Other", 1, 1),
	}))
	require.NoError(t, repo.Upsert(ctx, []vectorstore.Record{
		record("doc1.pdf", 1, "Late fees are 2%.", 0, 1),
	}))

	var total int64
	require.NoError(t, db.Model(&model.VectorRecord{}).Count(&total).Error)
	assert.EqualValues(t, 3, total)

	var rows []model.VectorRecord
	require.NoError(t, db.Where("document = ?", "doc1.pdf").Order("line_index").Find(&rows).Error)
	require.Len(t, rows, 2)
	assert.Equal(t, "doc1.pdf-0", rows[0].ID)
	assert.Equal(t, 1, rows[1].LineIndex)
	assert.Equal(t, "Late fees are 2%.", rows[1].Line)
	assert.Equal(t, []float32{0, 1}, rows[1].Embedding.Slice())
	assert.Equal(t, "Late fees are 2%.", rows[1].Metadata[vectorstore.MetadataLine])
}

func TestVectorRecordRepository_DimensionMismatch(t *testing.T) {
	ctx := context.Background()
	repo := NewVectorRecordRepository(newSQLiteDB(t), 3)

	err := repo.Upsert(ctx, []vectorstore.Record{record("doc", 0, "x", 1, 0)})
	assert.ErrorIs(t, err, vectorstore.ErrDimensionMismatch)

	_, err = repo.Query(ctx, []float32{1, 0}, 5)
	assert.ErrorIs(t, err, vectorstore.ErrDimensionMismatch)
}

func TestChatTurnRepository_CreateAndList(t *testing.T) {
	ctx := context.Background()
	repo := NewChatTurnRepository(newSQLiteDB(t))

	first := &entity.ChatTurn{
		SessionID: "s1",
		Query:     "What are the payment terms?",
		Response:  "30 days.",
		Action:    "context_based",
		Document:  "doc1.pdf",
		References: []entity.ChatReference{
			{Document: "doc1.pdf", Line: "Invoices are due in 30 days."},
		},
	}
	require.NoError(t, repo.Create(ctx, first))
	assert.NotEqual(t, "00000000-0000-0000-0000-000000000000", first.Id.String())

	require.NoError(t, repo.Create(ctx, &entity.ChatTurn{SessionID: "s1", Query: "Place an order", Response: "done", Action: "create_order"}))
	require.NoError(t, repo.Create(ctx, &entity.ChatTurn{SessionID: "s2", Query: "q", Response: "r", Action: "context_based"}))

	turns, err := repo.FindAll(ctx, specification.BySessionID{SessionID: "s1"}, specification.OldestFirst{})
	require.NoError(t, err)
	require.Len(t, turns, 2)
	assert.Equal(t, "What are the payment terms?", turns[0].Query)
	assert.Equal(t, []entity.ChatReference{{Document: "doc1.pdf", Line: "Invoices are due in 30 days."}}, turns[0].References)
	assert.Empty(t, turns[1].References)

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

// Runs only against a Postgres database with the vector extension, e.g.
// PGVECTOR_TEST_DSN="host=localhost user=postgres password=postgres dbname=rag_test".
func TestVectorRecordRepository_PgvectorQuery(t *testing.T) {
	dsn := os.Getenv("PGVECTOR_TEST_DSN")
	if dsn == "" {
		t.Skip("PGVECTOR_TEST_DSN not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.Exec("CREATE EXTENSION IF NOT EXISTS vector").Error)
	require.NoError(t, db.Migrator().DropTable(&model.VectorRecord{}))
	require.NoError(t, db.AutoMigrate(&model.VectorRecord{}))

	ctx := context.Background()
	repo := NewVectorRecordRepository(db, 2)
	require.NoError(t, repo.Upsert(ctx, []vectorstore.Record{
		record("doc1.pdf", 0, "near", 1, 0),
		record("doc1.pdf", 1, "far", 0, 1),
		record("doc2.pdf", 0, "middle", 1, 1),
	}))

	matches, err := repo.Query(ctx, []float32{1, 0}, 2)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "doc1.pdf-0", matches[0].ID)
	assert.InDelta(t, 1.0, matches[0].Score, 1e-5)
	assert.Equal(t, "near", matches[0].Line())
	assert.Equal(t, "doc2.pdf-0", matches[1].ID)
}

