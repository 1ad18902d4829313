package qdrant

import (
	"testing"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPointID_StableAndDistinct(t *testing.T) {
	a := PointID("doc1.pdf-0")

	_, err := uuid.Parse(a)
	require.NoError(t, err)
	assert.Equal(t, a, PointID("doc1.pdf-0"))
	assert.NotEqual(t, a, PointID("doc1.pdf-1"))
}

func TestConvertValue(t *testing.T) {
	payload := qdrant.NewValueMap(map[string]any{
		"line":     "Hello world",
		"document": "doc1.pdf",
		"index":    3,
		"tags":     []any{"a", true},
	})

	got := make(map[string]any, len(payload))
	for k, v := range payload {
		got[k] = convertValue(v)
	}

	assert.Equal(t, "Hello world", got["line"])
	assert.Equal(t, "doc1.pdf", got["document"])
	assert.Equal(t, int64(3), got["index"])
	assert.Equal(t, []any{"a", true}, got["tags"])
}
