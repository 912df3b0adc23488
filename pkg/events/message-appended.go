package events

import (
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/go-go-golems/scholar/pkg/conversation"
)

type EventType string

const EventTypeMessageAppended EventType = "message-appended"

// MessageAppended is published for every message added to a conversation.
type MessageAppended struct {
	Type           EventType            `json:"type"`
	ConversationID string               `json:"conversation_id"`
	Index          int                  `json:"index"`
	Message        conversation.Message `json:"message"`
}

func NewMessageAppended(conversationID string, index int, msg conversation.Message) *MessageAppended {
	return &MessageAppended{
		Type:           EventTypeMessageAppended,
		ConversationID: conversationID,
		Index:          index,
		Message:        msg,
	}
}

func MessageAppendedFromJSON(b []byte) (*MessageAppended, error) {
	var e MessageAppended
	if err := json.Unmarshal(b, &e); err != nil {
		return nil, errors.Wrap(err, "could not decode event")
	}
	if e.Type != EventTypeMessageAppended {
		return nil, errors.Errorf("unexpected event type %q", e.Type)
	}
	return &e, nil
}
