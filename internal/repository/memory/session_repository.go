package memory

import (
	"context"
	"sync"
	"time"

	"rag-chat-be/pkg/rag/session"

	"github.com/patrickmn/go-cache"
)

// SessionRepository keeps session histories in process memory. A ttl of 0
// keeps sessions for the lifetime of the process; a positive ttl is sliding,
// renewed by every append.
type SessionRepository struct {
	cache *cache.Cache
	mu    sync.Mutex
}

var _ session.HistoryStore = (*SessionRepository)(nil)

func NewSessionRepository(ttl time.Duration) *SessionRepository {
	var c *cache.Cache
	if ttl > 0 {
		c = cache.New(ttl, 10*time.Minute)
	} else {
		c = cache.New(cache.NoExpiration, 0)
	}
	return &SessionRepository{cache: c}
}

func (r *SessionRepository) History(ctx context.Context, sessionID string) ([]session.Turn, error) {
	x, found := r.cache.Get(sessionID)
	if !found {
		return []session.Turn{}, nil
	}
	turns := x.([]session.Turn)
	return append([]session.Turn(nil), turns...), nil
}

// Append copies on write so slices handed out by History never change underneath callers.
func (r *SessionRepository) Append(ctx context.Context, sessionID string, turn session.Turn) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var turns []session.Turn
	if x, found := r.cache.Get(sessionID); found {
		turns = x.([]session.Turn)
	}
	next := make([]session.Turn, len(turns), len(turns)+1)
	copy(next, turns)
	next = append(next, turn)

	r.cache.Set(sessionID, next, cache.DefaultExpiration)
	return nil
}
