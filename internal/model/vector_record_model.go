package model

import (
	"time"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

// VectorRecord is one embedded document line. The id is "<document>-<line index>".
type VectorRecord struct {
	ID        string            `gorm:"type:varchar(512);primaryKey"`
	Document  string            `gorm:"type:varchar(255);not null;index"`
	LineIndex int               `gorm:"not null;default:0"`
	Line      string            `gorm:"type:text"`
	Embedding pgvector.Vector   `gorm:"type:vector"` // dimension follows the configured embedder
	Metadata  datatypes.JSONMap `gorm:"type:jsonb"`
	CreatedAt time.Time         `gorm:"autoCreateTime"`
	UpdatedAt time.Time         `gorm:"autoUpdateTime"`
}

func (VectorRecord) TableName() string {
	return "vector_records"
}
