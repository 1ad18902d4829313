package memory

import (
	"context"
	"math"
	"sort"
	"sync"

	"rag-chat-be/pkg/vectorstore"
)

// Storage is an in-process vector store using brute-force cosine similarity.
// Records keep their first-insertion order so ties rank deterministically.
type Storage struct {
	mu        sync.RWMutex
	dimension int
	index     map[string]int
	records   []vectorstore.Record
}

var _ vectorstore.Store = (*Storage)(nil)

// NewStorage creates an empty store. A dimension of 0 is fixed by the first upsert.
func NewStorage(dimension int) *Storage {
	return &Storage{
		dimension: dimension,
		index:     make(map[string]int),
	}
}

func (s *Storage) Upsert(ctx context.Context, records []vectorstore.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dim := s.dimension
	for _, r := range records {
		if dim == 0 {
			dim = len(r.Values)
		}
		if len(r.Values) != dim {
			return vectorstore.ErrDimensionMismatch
		}
	}
	s.dimension = dim

	for _, r := range records {
		stored := vectorstore.Record{
			ID:       r.ID,
			Values:   append([]float32(nil), r.Values...),
			Metadata: copyMetadata(r.Metadata),
		}
		if i, ok := s.index[r.ID]; ok {
			s.records[i] = stored
			continue
		}
		s.index[r.ID] = len(s.records)
		s.records = append(s.records, stored)
	}
	return nil
}

func (s *Storage) Query(ctx context.Context, vector []float32, topK int) ([]vectorstore.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if topK <= 0 {
		topK = 5
	}
	if len(s.records) > 0 && len(vector) != s.dimension {
		return nil, vectorstore.ErrDimensionMismatch
	}

	matches := make([]vectorstore.Match, len(s.records))
	for i, r := range s.records {
		matches[i] = vectorstore.Match{
			ID:       r.ID,
			Score:    cosine(r.Values, vector),
			Metadata: copyMetadata(r.Metadata),
		}
	}

	sort.SliceStable(matches, func(i, j int) bool { return matches[i].Score > matches[j].Score })

	if topK < len(matches) {
		matches = matches[:topK]
	}
	return matches, nil
}

func (s *Storage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

func cosine(a, b []float32) float32 {
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(na) * math.Sqrt(nb)))
}

func copyMetadata(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
