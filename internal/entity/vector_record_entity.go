package entity

import "time"

type VectorRecord struct {
	ID        string
	Document  string
	LineIndex int
	Line      string
	Embedding []float32
	Metadata  map[string]any
	CreatedAt time.Time
	UpdatedAt *time.Time
}
