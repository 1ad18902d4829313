package service

import (
	"context"
	"strings"

	"rag-chat-be/internal/constant"
	"rag-chat-be/internal/dto"
	"rag-chat-be/internal/pkg/apperror"
	"rag-chat-be/internal/repository/specification"
	"rag-chat-be/internal/repository/unitofwork"
	"rag-chat-be/pkg/rag/session"
)

type ISessionService interface {
	History(ctx context.Context, sessionID string) (*dto.SessionHistoryResponse, error)
}

type sessionService struct {
	sessions *session.Manager
	archive  unitofwork.RepositoryFactory
}

// NewSessionService reads live history from sessions. When archive is set, a
// session unknown to the live store (for example after a restart with the
// memory backend) is answered from the chat_turns table instead.
func NewSessionService(sessions *session.Manager, archive unitofwork.RepositoryFactory) ISessionService {
	return &sessionService{sessions: sessions, archive: archive}
}

func (s *sessionService) History(ctx context.Context, sessionID string) (*dto.SessionHistoryResponse, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, apperror.ClientInput(constant.MsgMissingQuery)
	}

	turns, err := s.sessions.History(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	res := &dto.SessionHistoryResponse{
		SessionID: sessionID,
		Turns:     make([]dto.TurnDTO, 0, len(turns)),
	}
	for _, t := range turns {
		res.Turns = append(res.Turns, dto.TurnDTO{Query: t.Query, Response: t.Response})
	}
	if len(res.Turns) > 0 || s.archive == nil {
		return res, nil
	}

	archived, err := s.archive.NewUnitOfWork(ctx).ChatTurnRepository().FindAll(ctx,
		specification.BySessionID{SessionID: sessionID},
		specification.OldestFirst{},
	)
	if err != nil {
		return nil, err
	}
	for _, t := range archived {
		res.Turns = append(res.Turns, dto.TurnDTO{Query: t.Query, Response: t.Response})
	}
	return res, nil
}
