package events

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewDocumentIngested(t *testing.T) {
	e := NewDocumentIngested("doc1.pdf", 12)

	assert.Equal(t, "document.ingested", e.EventType())
	assert.Equal(t, "doc1.pdf", e.Payload()["document"])
	assert.Equal(t, 12, e.Payload()["lines"])
	assert.False(t, e.Timestamp().IsZero())
}

func TestChatTurnRecorded_Payload(t *testing.T) {
	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	e := ChatTurnRecorded{
		SessionID:  "s1",
		Query:      "q",
		Response:   "r",
		Action:     "context_based",
		References: []Reference{{Document: "doc1.pdf", Line: "l"}},
		RecordedAt: at,
	}

	p := e.Payload()
	assert.Equal(t, "chat.turn_recorded", e.EventType())
	assert.Equal(t, "s1", p["session_id"])
	assert.Equal(t, "2024-05-01T10:00:00Z", p["recorded_at"])
	assert.Equal(t, []map[string]interface{}{{"document": "doc1.pdf", "line": "l"}}, p["references"])
	assert.Equal(t, at, e.Timestamp())
}

func TestNopPublisher(t *testing.T) {
	var p Publisher = NopPublisher{}
	assert.NoError(t, p.Publish(context.Background(), NewDocumentIngested("d", 1)))
}
