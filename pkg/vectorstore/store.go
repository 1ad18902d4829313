package vectorstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Metadata keys written by ingestion.
const (
	MetadataLine     = "line"
	MetadataDocument = "document"
)

var ErrDimensionMismatch = errors.New("vector dimension mismatch")

type Record struct {
	ID       string
	Values   []float32
	Metadata map[string]any
}

type Match struct {
	ID       string
	Score    float32
	Metadata map[string]any
}

// Store persists records and answers nearest-neighbour queries. Upsert
// replaces records that share an ID. Query returns at most topK matches
// ordered by decreasing similarity, metadata included.
type Store interface {
	Upsert(ctx context.Context, records []Record) error
	Query(ctx context.Context, vector []float32, topK int) ([]Match, error)
}

// RecordID is the id of the record holding line lineIndex of a document.
func RecordID(document string, lineIndex int) string {
	return fmt.Sprintf("%s-%d", document, lineIndex)
}

// Line returns the text stored under metadata "line".
func (m Match) Line() string {
	if v, ok := m.Metadata[MetadataLine].(string); ok {
		return v
	}
	return ""
}

// Document returns the source document name, falling back to the ID with
// its trailing "-<index>" removed.
func (m Match) Document() string {
	if v, ok := m.Metadata[MetadataDocument].(string); ok && v != "" {
		return v
	}
	if i := strings.LastIndex(m.ID, "-"); i > 0 {
		return m.ID[:i]
	}
	return m.ID
}

// FilterByDocument keeps the matches whose ID starts with "<document>-".
func FilterByDocument(matches []Match, document string) []Match {
	prefix := document + "-"
	kept := make([]Match, 0, len(matches))
	for _, m := range matches {
		if strings.HasPrefix(m.ID, prefix) {
			kept = append(kept, m)
		}
	}
	return kept
}
