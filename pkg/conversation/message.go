package conversation

import (
	"fmt"
	"slices"
	"time"

	"github.com/go-go-golems/scholar/pkg/subjects"
	"github.com/google/uuid"
)

type ContentType string

const (
	ContentTypeUser      ContentType = "user"
	ContentTypeAssistant ContentType = "assistant"
	ContentTypeError     ContentType = "error"
)

// MessageContent is the closed set of message payloads: *UserContent,
// *AssistantContent and *ErrorContent. Renderers switch over the concrete types.
type MessageContent interface {
	ContentType() ContentType
	String() string
	isMessageContent()
}

type UserContent struct {
	Text string `json:"text"`
}

func (c *UserContent) ContentType() ContentType {
	return ContentTypeUser
}

func (c *UserContent) String() string {
	return c.Text
}

func (c *UserContent) isMessageContent() {}

var _ MessageContent = (*UserContent)(nil)

// Source is a citation pointer attached to an answer. Display data only.
type Source struct {
	Name       string `json:"name"`
	Department string `json:"department"`
	URL        string `json:"url"`
}

func (s Source) String() string {
	return fmt.Sprintf("%s (%s): %s", s.Name, s.Department, s.URL)
}

type AssistantContent struct {
	Text      string           `json:"text"`
	Subject   subjects.Subject `json:"subject"`
	ModelUsed string           `json:"modelUsed"`
	Sources   []Source         `json:"sources"`
}

func (c *AssistantContent) ContentType() ContentType {
	return ContentTypeAssistant
}

func (c *AssistantContent) String() string {
	return c.Text
}

func (c *AssistantContent) isMessageContent() {}

var _ MessageContent = (*AssistantContent)(nil)

type ErrorContent struct {
	Text string `json:"text"`
}

func (c *ErrorContent) ContentType() ContentType {
	return ContentTypeError
}

func (c *ErrorContent) String() string {
	return c.Text
}

func (c *ErrorContent) isMessageContent() {}

var _ MessageContent = (*ErrorContent)(nil)

// MessageID is unique within a conversation. Locally created messages get a
// random UUID, assistant messages keep the identifier assigned by the service.
type MessageID string

func NewMessageID() MessageID {
	return MessageID(uuid.NewString())
}

func (id MessageID) String() string {
	return string(id)
}

// Message is a single entry of the conversation log.
type Message struct {
	ID      MessageID      `json:"id"`
	Time    time.Time      `json:"time"`
	Content MessageContent `json:"content"`
}

type MessageOption func(*Message)

func WithID(id MessageID) MessageOption {
	return func(message *Message) {
		message.ID = id
	}
}

func WithTime(time time.Time) MessageOption {
	return func(message *Message) {
		message.Time = time
	}
}

func NewMessage(content MessageContent, options ...MessageOption) Message {
	ret := Message{
		Content: content,
		ID:      NewMessageID(),
		Time:    time.Now(),
	}

	for _, option := range options {
		option(&ret)
	}

	return ret
}

func NewUserMessage(text string, options ...MessageOption) Message {
	return NewMessage(&UserContent{Text: text}, options...)
}

func NewAssistantMessage(
	text string,
	subject subjects.Subject,
	modelUsed string,
	sources []Source,
	options ...MessageOption,
) Message {
	if sources == nil {
		sources = []Source{}
	}
	return NewMessage(&AssistantContent{
		Text:      text,
		Subject:   subject,
		ModelUsed: modelUsed,
		Sources:   slices.Clone(sources),
	}, options...)
}

func NewErrorMessage(text string, options ...MessageOption) Message {
	return NewMessage(&ErrorContent{Text: text}, options...)
}

func (m Message) ContentType() ContentType {
	if m.Content == nil {
		return ""
	}
	return m.Content.ContentType()
}

// Conversation is an ordered slice of messages, oldest first.
type Conversation []Message

// LastAssistant returns the most recent assistant answer, if any.
func (c Conversation) LastAssistant() (*AssistantContent, bool) {
	for i := len(c) - 1; i >= 0; i-- {
		if a, ok := c[i].Content.(*AssistantContent); ok {
			return a, true
		}
	}
	return nil, false
}

// CurrentSubject is the subject of the last answer, or subjects.Default.
func (c Conversation) CurrentSubject() subjects.Subject {
	if a, ok := c.LastAssistant(); ok {
		return a.Subject
	}
	return subjects.Default
}
