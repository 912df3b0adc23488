package events

import (
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/rs/zerolog/log"

	"github.com/go-go-golems/scholar/pkg/conversation"
)

// WatermillSink publishes conversation appends to a watermill publisher.
type WatermillSink struct {
	publisher      message.Publisher
	topic          string
	conversationID string
}

func NewWatermillSink(publisher message.Publisher, topic string, conversationID string) *WatermillSink {
	return &WatermillSink{
		publisher:      publisher,
		topic:          topic,
		conversationID: conversationID,
	}
}

func (w *WatermillSink) Publish(index int, msg conversation.Message) error {
	payload, err := json.Marshal(NewMessageAppended(w.conversationID, index, msg))
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal event to JSON")
		return err
	}

	wm := message.NewMessage(watermill.NewUUID(), payload)
	if err := w.publisher.Publish(w.topic, wm); err != nil {
		log.Error().Err(err).Str("topic", w.topic).Msg("Failed to publish event to watermill")
		return err
	}

	log.Trace().Str("topic", w.topic).Int("index", index).Msg("Published event to watermill")
	return nil
}

// Observer adapts the sink to a conversation store observer. Publish errors
// are logged and otherwise dropped; the store append already happened.
func (w *WatermillSink) Observer() conversation.Observer {
	return func(index int, msg conversation.Message) {
		_ = w.Publish(index, msg)
	}
}
