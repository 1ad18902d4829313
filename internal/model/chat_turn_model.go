package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ChatTurn struct {
	Id         uuid.UUID      `gorm:"type:uuid;primaryKey"`
	SessionID  string         `gorm:"type:varchar(255);not null;index"`
	Query      string         `gorm:"type:text;not null"`
	Response   string         `gorm:"type:text;not null"`
	Action     string         `gorm:"type:varchar(50);not null"`
	Document   string         `gorm:"type:varchar(255)"`
	References datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt  time.Time      `gorm:"autoCreateTime;index"`
}

func (ChatTurn) TableName() string {
	return "chat_turns"
}
