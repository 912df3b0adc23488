package conversation

import (
	"encoding/json"
	"time"

	"github.com/pkg/errors"
)

func (m Message) MarshalJSON() ([]byte, error) {
	type Alias Message
	return json.Marshal(&struct {
		ContentType ContentType `json:"contentType"`
		Alias
	}{
		ContentType: m.ContentType(),
		Alias:       Alias(m),
	})
}

// Intermediate representation for unmarshaling.
type messageAlias struct {
	ID          MessageID       `json:"id"`
	Time        time.Time       `json:"time"`
	Content     json.RawMessage `json:"content"`
	ContentType ContentType     `json:"contentType"`
}

func (m *Message) UnmarshalJSON(data []byte) error {
	var ma messageAlias
	if err := json.Unmarshal(data, &ma); err != nil {
		return err
	}

	var content MessageContent
	switch ma.ContentType {
	case ContentTypeUser:
		content = &UserContent{}
	case ContentTypeAssistant:
		content = &AssistantContent{}
	case ContentTypeError:
		content = &ErrorContent{}
	default:
		return errors.Errorf("unknown content type %q", ma.ContentType)
	}
	if err := json.Unmarshal(ma.Content, content); err != nil {
		return errors.Wrapf(err, "decoding %s content", ma.ContentType)
	}

	m.ID = ma.ID
	m.Time = ma.Time
	m.Content = content
	return nil
}
