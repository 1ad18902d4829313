package service

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"rag-chat-be/internal/pkg/apperror"
	"rag-chat-be/internal/pkg/logger"
	"rag-chat-be/pkg/embedding"
	"rag-chat-be/pkg/events"
	"rag-chat-be/pkg/extractor"
	memstore "rag-chat-be/pkg/vectorstore/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type documentFixture struct {
	dir       string
	store     *memstore.Storage
	embedder  *fakeEmbedder
	extractor *fakeExtractor
	events    *fakeEventPublisher
	service   IDocumentService
}

func newDocumentFixture(t *testing.T, batchSize int) *documentFixture {
	t.Helper()
	f := &documentFixture{
		dir:       t.TempDir(),
		store:     memstore.NewStorage(0),
		embedder:  &fakeEmbedder{},
		extractor: &fakeExtractor{},
		events:    &fakeEventPublisher{},
	}
	f.service = NewDocumentService(
		DocumentServiceConfig{UploadsDir: f.dir, EmbedBatchSize: batchSize},
		f.extractor,
		f.embedder,
		f.store,
		f.events,
		logger.NewNopLogger(),
	)
	return f
}

func TestUpload_OneRecordPerNonBlankLine(t *testing.T) {
	f := newDocumentFixture(t, 2)
	f.extractor.text = "alpha\n\nbeta\r\ngamma\n   \ndelta\nepsilon"

	res, err := f.service.Upload(context.Background(), "notes.pdf", strings.NewReader("%PDF"))
	require.NoError(t, err)
	assert.Equal(t, "notes.pdf", res.Document)
	assert.Equal(t, 5, res.Lines)
	assert.Equal(t, 5, f.store.Len())

	assert.Equal(t, [][]string{{"alpha", "beta"}, {"gamma", "delta"}, {"epsilon"}}, f.embedder.batches)
	for _, task := range f.embedder.tasks {
		assert.Equal(t, embedding.TaskRetrievalDocument, task)
	}

	matches, err := f.store.Query(context.Background(), []float32{0.1, 0.1, 0.1}, 10)
	require.NoError(t, err)
	byID := map[string]string{}
	for _, m := range matches {
		byID[m.ID] = m.Line()
		assert.Equal(t, "notes.pdf", m.Document())
	}
	assert.Equal(t, map[string]string{
		"notes.pdf-0": "alpha",
		"notes.pdf-1": "beta",
		"notes.pdf-2": "gamma",
		"notes.pdf-3": "delta",
		"notes.pdf-4": "epsilon",
	}, byID)

	stored, err := os.ReadFile(filepath.Join(f.dir, "notes.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(stored))

	published := f.events.published()
	require.Len(t, published, 1)
	assert.Equal(t, events.TypeDocumentIngested, published[0].EventType())
}

func TestUpload_ReuploadOverwritesByID(t *testing.T) {
	f := newDocumentFixture(t, 10)
	ctx := context.Background()

	f.extractor.text = "one\ntwo"
	_, err := f.service.Upload(ctx, "doc.pdf", strings.NewReader("v1"))
	require.NoError(t, err)

	f.extractor.text = "uno\ndos"
	_, err = f.service.Upload(ctx, "doc.pdf", strings.NewReader("v2"))
	require.NoError(t, err)

	assert.Equal(t, 2, f.store.Len())
	matches, err := f.store.Query(ctx, []float32{0.1, 0.1, 0.1}, 5)
	require.NoError(t, err)
	lines := []string{matches[0].Line(), matches[1].Line()}
	assert.ElementsMatch(t, []string{"uno", "dos"}, lines)
}

func TestUpload_UnsupportedFormat(t *testing.T) {
	f := newDocumentFixture(t, 2)

	_, err := f.service.Upload(context.Background(), "notes.txt", strings.NewReader("x"))
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.KindClientInput))
	assert.Equal(t, "Unsupported file format.", messageOf(err))

	entries, _ := os.ReadDir(f.dir)
	assert.Empty(t, entries)
	assert.Empty(t, f.extractor.paths)
}

func TestUpload_ExtractionFailure(t *testing.T) {
	f := newDocumentFixture(t, 2)
	f.extractor.err = errBoom

	_, err := f.service.Upload(context.Background(), "scan.png", strings.NewReader("x"))
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.KindExtraction))
	assert.Equal(t, "Unable to extract text from the document.", messageOf(err))
	assert.ErrorIs(t, err, errBoom)
	assert.Zero(t, f.store.Len())
	assert.Empty(t, f.events.published())
}

func TestUpload_ExtractorReportsUnsupported(t *testing.T) {
	f := newDocumentFixture(t, 2)
	f.extractor.err = extractor.ErrUnsupported

	_, err := f.service.Upload(context.Background(), "deck.ppt", strings.NewReader("x"))
	assert.Equal(t, "Unsupported file format.", messageOf(err))
}

func TestUpload_StripsDirectories(t *testing.T) {
	f := newDocumentFixture(t, 2)
	f.extractor.text = "hello"

	res, err := f.service.Upload(context.Background(), "../../etc/evil.pdf", strings.NewReader("x"))
	require.NoError(t, err)
	assert.Equal(t, "evil.pdf", res.Document)
	assert.FileExists(t, filepath.Join(f.dir, "evil.pdf"))
	assert.Equal(t, []string{filepath.Join(f.dir, "evil.pdf")}, f.extractor.paths)
}

func TestUpload_EmbeddingFailureIsInternal(t *testing.T) {
	f := newDocumentFixture(t, 2)
	f.extractor.text = "hello"
	f.embedder.err = errBoom

	_, err := f.service.Upload(context.Background(), "doc.pdf", strings.NewReader("x"))
	require.ErrorIs(t, err, errBoom)
	assert.Equal(t, apperror.KindInternal, apperror.KindOf(err))
}

func TestUpload_EmptyTextStoresNothing(t *testing.T) {
	f := newDocumentFixture(t, 2)
	f.extractor.text = "\n\n"

	res, err := f.service.Upload(context.Background(), "blank.pdf", strings.NewReader("x"))
	require.NoError(t, err)
	assert.Equal(t, 0, res.Lines)
	assert.Zero(t, f.embedder.calls)
}

func TestIngestFile_UsesBaseName(t *testing.T) {
	f := newDocumentFixture(t, 2)
	f.extractor.text = "hello"
	path := filepath.Join(t.TempDir(), "slides.pptx")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	res, err := f.service.IngestFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "slides.pptx", res.Document)
	assert.Equal(t, []string{path}, f.extractor.paths)
}
