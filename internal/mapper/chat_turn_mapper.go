package mapper

import (
	"encoding/json"

	"rag-chat-be/internal/entity"
	"rag-chat-be/internal/model"

	"gorm.io/datatypes"
)

type ChatTurnMapper struct{}

func NewChatTurnMapper() *ChatTurnMapper {
	return &ChatTurnMapper{}
}

func (m *ChatTurnMapper) ToEntity(t *model.ChatTurn) *entity.ChatTurn {
	if t == nil {
		return nil
	}

	var refs []entity.ChatReference
	if len(t.References) > 0 {
		// malformed rows keep an empty reference list
		_ = json.Unmarshal(t.References, &refs)
	}

	return &entity.ChatTurn{
		Id:         t.Id,
		SessionID:  t.SessionID,
		Query:      t.Query,
		Response:   t.Response,
		Action:     t.Action,
		Document:   t.Document,
		References: refs,
		CreatedAt:  t.CreatedAt,
	}
}

func (m *ChatTurnMapper) ToModel(e *entity.ChatTurn) *model.ChatTurn {
	if e == nil {
		return nil
	}

	var refs datatypes.JSON
	if len(e.References) > 0 {
		if data, err := json.Marshal(e.References); err == nil {
			refs = datatypes.JSON(data)
		}
	}

	return &model.ChatTurn{
		Id:         e.Id,
		SessionID:  e.SessionID,
		Query:      e.Query,
		Response:   e.Response,
		Action:     e.Action,
		Document:   e.Document,
		References: refs,
		CreatedAt:  e.CreatedAt,
	}
}

func (m *ChatTurnMapper) ToEntities(turns []*model.ChatTurn) []*entity.ChatTurn {
	entities := make([]*entity.ChatTurn, len(turns))
	for i, t := range turns {
		entities[i] = m.ToEntity(t)
	}
	return entities
}
