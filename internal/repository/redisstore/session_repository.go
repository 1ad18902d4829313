package redisstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"rag-chat-be/pkg/rag/session"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "rag:session:"

// SessionRepository stores each session as a Redis list of JSON turns, so
// histories survive restarts and are shared between replicas.
type SessionRepository struct {
	client *redis.Client
	ttl    time.Duration
}

var _ session.HistoryStore = (*SessionRepository)(nil)

func NewSessionRepository(client *redis.Client, ttl time.Duration) *SessionRepository {
	return &SessionRepository{client: client, ttl: ttl}
}

func key(sessionID string) string {
	return keyPrefix + sessionID
}

func (r *SessionRepository) History(ctx context.Context, sessionID string) ([]session.Turn, error) {
	raw, err := r.client.LRange(ctx, key(sessionID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis lrange: %w", err)
	}

	turns := make([]session.Turn, 0, len(raw))
	for i, item := range raw {
		var turn session.Turn
		if err := json.Unmarshal([]byte(item), &turn); err != nil {
			return nil, fmt.Errorf("decode turn %d: %w", i, err)
		}
		turns = append(turns, turn)
	}
	return turns, nil
}

func (r *SessionRepository) Append(ctx context.Context, sessionID string, turn session.Turn) error {
	data, err := json.Marshal(turn)
	if err != nil {
		return err
	}

	pipe := r.client.TxPipeline()
	pipe.RPush(ctx, key(sessionID), data)
	if r.ttl > 0 {
		pipe.Expire(ctx, key(sessionID), r.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis append: %w", err)
	}
	return nil
}
