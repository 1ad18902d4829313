package session

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sliceStore struct {
	turns map[string][]Turn
	err   error
}

func (s *sliceStore) History(ctx context.Context, sessionID string) ([]Turn, error) {
	return s.turns[sessionID], s.err
}

func (s *sliceStore) Append(ctx context.Context, sessionID string, turn Turn) error {
	if s.err != nil {
		return s.err
	}
	s.turns[sessionID] = append(s.turns[sessionID], turn)
	return nil
}

func TestManager_RecordAndHistory(t *testing.T) {
	m := NewManager(&sliceStore{turns: map[string][]Turn{}})
	ctx := context.Background()

	require.NoError(t, m.Record(ctx, "s1", Turn{Query: "q1", Response: "r1"}))
	require.NoError(t, m.Record(ctx, "s1", Turn{Query: "q2", Response: "r2"}))

	turns, err := m.History(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, []Turn{{"q1", "r1"}, {"q2", "r2"}}, turns)

	empty, err := m.History(ctx, "unknown")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestManager_WrapsStoreErrors(t *testing.T) {
	boom := errors.New("redis down")
	m := NewManager(&sliceStore{turns: map[string][]Turn{}, err: boom})

	_, err := m.History(context.Background(), "s1")
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, m.Record(context.Background(), "s1", Turn{}), boom)
}
