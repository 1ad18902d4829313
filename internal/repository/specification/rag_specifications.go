package specification

import "gorm.io/gorm"

type BySessionID struct {
	SessionID string
}

func (s BySessionID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("session_id = ?", s.SessionID)
}

// OldestFirst orders archived rows by insertion time.
type OldestFirst struct{}

func (OldestFirst) Apply(db *gorm.DB) *gorm.DB {
	return db.Order("created_at ASC")
}
