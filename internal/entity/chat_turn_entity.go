package entity

import (
	"time"

	"github.com/google/uuid"
)

type ChatReference struct {
	Document string `json:"document"`
	Line     string `json:"line"`
}

// ChatTurn is the archived copy of one answered chat request.
type ChatTurn struct {
	Id         uuid.UUID
	SessionID  string
	Query      string
	Response   string
	Action     string
	Document   string
	References []ChatReference
	CreatedAt  time.Time
}
