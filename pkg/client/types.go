package client

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// SessionRecord is the body returned by POST /sessions.
type SessionRecord struct {
	ID            string    `json:"id"`
	CreatedAt     Timestamp `json:"created_at"`
	LastActive    Timestamp `json:"last_active"`
	TotalMessages int       `json:"total_messages"`
}

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
	// Subject forces a subject instead of letting the service detect it.
	Subject string `json:"subject,omitempty"`
}

type SourceRecord struct {
	Name       string `json:"name"`
	Department string `json:"department"`
	URL        string `json:"url"`
}

// ChatRecord is one answered exchange, as returned by POST /chat and
// GET /sessions/{id}/messages.
type ChatRecord struct {
	ID          FlexibleID     `json:"id"`
	SessionID   string         `json:"session_id,omitempty"`
	UserMessage string         `json:"user_message,omitempty"`
	AIResponse  string         `json:"ai_response"`
	Subject     string         `json:"subject"`
	AIModelUsed string         `json:"ai_model_used"`
	Sources     []SourceRecord `json:"sources"`
	Timestamp   Timestamp      `json:"timestamp"`
}

// Resource is one entry of GET /resources/{subject}.
type Resource struct {
	Name       string `json:"name"`
	URL        string `json:"url"`
	Department string `json:"department"`
	Subject    string `json:"subject"`
}

type healthResponse struct {
	Message string `json:"message"`
}

// FlexibleID accepts both JSON strings and JSON numbers, the service has used
// either for record identifiers.
type FlexibleID string

func (id *FlexibleID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = FlexibleID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return errors.Wrap(err, "id is neither a string nor a number")
	}
	*id = FlexibleID(n.String())
	return nil
}

func (id FlexibleID) String() string {
	return string(id)
}

// Timestamp parses RFC3339 values as well as the zone-less ISO format the
// service emits for UTC datetimes. Zone-less values are taken as UTC.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, errors.Errorf("invalid timestamp %q", s)
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		t.Time = time.Time{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return errors.Wrap(err, "timestamp must be a string")
	}
	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.UTC().Format(time.RFC3339Nano))
}
