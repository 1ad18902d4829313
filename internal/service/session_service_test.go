package service

import (
	"context"
	"testing"
	"time"

	"rag-chat-be/internal/dto"
	"rag-chat-be/internal/entity"
	"rag-chat-be/internal/pkg/apperror"
	"rag-chat-be/internal/repository/memory"
	"rag-chat-be/pkg/rag/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionService_History(t *testing.T) {
	ctx := context.Background()
	manager := session.NewManager(memory.NewSessionRepository(0))
	require.NoError(t, manager.Record(ctx, "s1", session.Turn{Query: "q1", Response: "r1"}))

	res, err := NewSessionService(manager, nil).History(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, &dto.SessionHistoryResponse{
		SessionID: "s1",
		Turns:     []dto.TurnDTO{{Query: "q1", Response: "r1"}},
	}, res)
}

func TestSessionService_UnknownSessionIsEmpty(t *testing.T) {
	res, err := NewSessionService(session.NewManager(memory.NewSessionRepository(0)), nil).History(context.Background(), "nobody")
	require.NoError(t, err)
	assert.NotNil(t, res.Turns)
	assert.Empty(t, res.Turns)
}

func TestSessionService_BlankID(t *testing.T) {
	_, err := NewSessionService(session.NewManager(memory.NewSessionRepository(0)), nil).History(context.Background(), " ")
	assert.True(t, apperror.Is(err, apperror.KindClientInput))
}

func TestSessionService_FallsBackToArchive(t *testing.T) {
	ctx := context.Background()
	archive := newArchiveFactory(t)
	repo := archive.NewUnitOfWork(ctx).ChatTurnRepository()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Create(ctx, &entity.ChatTurn{SessionID: "s1", Query: "q2", Response: "r2", Action: "context_based", CreatedAt: base.Add(time.Minute)}))
	require.NoError(t, repo.Create(ctx, &entity.ChatTurn{SessionID: "s1", Query: "q1", Response: "r1", Action: "context_based", CreatedAt: base}))
	require.NoError(t, repo.Create(ctx, &entity.ChatTurn{SessionID: "s2", Query: "other", Response: "x", Action: "context_based", CreatedAt: base}))

	res, err := NewSessionService(session.NewManager(memory.NewSessionRepository(0)), archive).History(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, []dto.TurnDTO{{Query: "q1", Response: "r1"}, {Query: "q2", Response: "r2"}}, res.Turns)
}

func TestSessionService_LiveHistoryWinsOverArchive(t *testing.T) {
	ctx := context.Background()
	archive := newArchiveFactory(t)
	require.NoError(t, archive.NewUnitOfWork(ctx).ChatTurnRepository().Create(ctx, &entity.ChatTurn{SessionID: "s1", Query: "old", Response: "old", Action: "context_based"}))

	manager := session.NewManager(memory.NewSessionRepository(0))
	require.NoError(t, manager.Record(ctx, "s1", session.Turn{Query: "q1", Response: "r1"}))

	res, err := NewSessionService(manager, archive).History(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, []dto.TurnDTO{{Query: "q1", Response: "r1"}}, res.Turns)
}
