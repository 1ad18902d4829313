package service

import (
	"context"
	"encoding/json"

	"rag-chat-be/internal/entity"
	"rag-chat-be/internal/pkg/logger"
	"rag-chat-be/internal/repository/unitofwork"
	"rag-chat-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains chat.turn_recorded messages: each turn is archived
// to chat_turns when a database is configured and forwarded to the external
// event bus.
type consumerService struct {
	subscriber message.Subscriber
	topicName  string
	uowFactory unitofwork.RepositoryFactory
	forwarder  events.Publisher
	logger     logger.ILogger
}

// NewConsumerService accepts a nil uowFactory (archive disabled) and a nil
// forwarder (no external bus).
func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	forwarder events.Publisher,
	log logger.ILogger,
) IConsumerService {
	if forwarder == nil {
		forwarder = events.NopPublisher{}
	}
	return &consumerService{
		subscriber: subscriber,
		topicName:  topicName,
		uowFactory: uowFactory,
		forwarder:  forwarder,
		logger:     log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var turn events.ChatTurnRecorded
	if err := json.Unmarshal(msg.Payload, &turn); err != nil {
		cs.logger.Error("Consumer", "dropping malformed turn message", map[string]interface{}{
			"message_id": msg.UUID,
			"error":      err.Error(),
		})
		msg.Ack()
		return
	}

	if cs.uowFactory != nil {
		if err := cs.archive(ctx, turn); err != nil {
			cs.logger.Error("Consumer", "failed to archive turn", map[string]interface{}{
				"session_id": turn.SessionID,
				"error":      err.Error(),
			})
			msg.Nack()
			return
		}
	}

	if err := cs.forwarder.Publish(ctx, turn); err != nil {
		// the archive row is already written; a lost notification is not retried
		cs.logger.Warn("Consumer", "failed to forward turn event", map[string]interface{}{
			"session_id": turn.SessionID,
			"error":      err.Error(),
		})
	}

	msg.Ack()
}

func (cs *consumerService) archive(ctx context.Context, turn events.ChatTurnRecorded) error {
	refs := make([]entity.ChatReference, len(turn.References))
	for i, r := range turn.References {
		refs[i] = entity.ChatReference{Document: r.Document, Line: r.Line}
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	return uow.ChatTurnRepository().Create(ctx, &entity.ChatTurn{
		SessionID:  turn.SessionID,
		Query:      turn.Query,
		Response:   turn.Response,
		Action:     turn.Action,
		Document:   turn.Document,
		References: refs,
		CreatedAt:  turn.RecordedAt,
	})
}
