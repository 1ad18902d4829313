package events

import (
	"context"
	"time"
)

const (
	TypeDocumentIngested = "document.ingested"
	TypeChatTurnRecorded = "chat.turn_recorded"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the dotted event name, e.g. "document.ingested".
	EventType() string

	Payload() map[string]interface{}

	Timestamp() time.Time
}

// Publisher delivers events to an external bus.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

func NewDocumentIngested(document string, lines int) BaseEvent {
	now := time.Now().UTC()
	return BaseEvent{
		Type: TypeDocumentIngested,
		Data: map[string]interface{}{
			"document":    document,
			"lines":       lines,
			"ingested_at": now.Format(time.RFC3339),
		},
		OccurredAt: now,
	}
}

// ChatTurnRecorded is the payload shared by the in-process bus and NATS.
type ChatTurnRecorded struct {
	SessionID  string      `json:"session_id"`
	Query      string      `json:"query"`
	Response   string      `json:"response"`
	Action     string      `json:"action"`
	Document   string      `json:"document,omitempty"`
	References []Reference `json:"references,omitempty"`
	RecordedAt time.Time   `json:"recorded_at"`
}

type Reference struct {
	Document string `json:"document"`
	Line     string `json:"line"`
}

func (e ChatTurnRecorded) EventType() string {
	return TypeChatTurnRecorded
}

func (e ChatTurnRecorded) Payload() map[string]interface{} {
	refs := make([]map[string]interface{}, len(e.References))
	for i, r := range e.References {
		refs[i] = map[string]interface{}{"document": r.Document, "line": r.Line}
	}
	return map[string]interface{}{
		"session_id":  e.SessionID,
		"query":       e.Query,
		"response":    e.Response,
		"action":      e.Action,
		"document":    e.Document,
		"references":  refs,
		"recorded_at": e.RecordedAt.Format(time.RFC3339),
	}
}

func (e ChatTurnRecorded) Timestamp() time.Time {
	return e.RecordedAt
}

// NopPublisher drops every event. Used when no bus is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(ctx context.Context, event Event) error {
	return nil
}
