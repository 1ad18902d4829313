package session

import (
	"context"
	"fmt"
)

// Turn is one answered query.
type Turn struct {
	Query    string `json:"query"`
	Response string `json:"response"`
}

// HistoryStore keeps the ordered turns of every session. A session exists
// once its first turn is appended; unknown sessions have an empty history.
type HistoryStore interface {
	History(ctx context.Context, sessionID string) ([]Turn, error)
	Append(ctx context.Context, sessionID string, turn Turn) error
}

// Manager serializes work per session on top of a HistoryStore.
type Manager struct {
	store HistoryStore
	locks *Locker
}

func NewManager(store HistoryStore) *Manager {
	return &Manager{store: store, locks: NewLocker()}
}

// Acquire blocks until the caller holds the session exclusively or ctx ends.
// The returned release function is safe to call more than once.
func (m *Manager) Acquire(ctx context.Context, sessionID string) (func(), error) {
	return m.locks.Lock(ctx, sessionID)
}

func (m *Manager) History(ctx context.Context, sessionID string) ([]Turn, error) {
	turns, err := m.store.History(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load history for session %s: %w", sessionID, err)
	}
	return turns, nil
}

func (m *Manager) Record(ctx context.Context, sessionID string, turn Turn) error {
	if err := m.store.Append(ctx, sessionID, turn); err != nil {
		return fmt.Errorf("record turn for session %s: %w", sessionID, err)
	}
	return nil
}
