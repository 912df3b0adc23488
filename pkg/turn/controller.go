// Package turn runs a single question/answer exchange against the answering
// service.
//
// A Controller is either Idle or Submitting. A turn is accepted only when the
// trimmed question is non-empty, a session exists and no other turn is in
// flight. Accepting a turn appends the user message and clears the compose
// buffer right away; the answer (or a generic error notice) is appended when
// the remote call returns, after which the controller is Idle again.
//
// The three phases are exposed separately so an event loop can run Begin and
// Finish itself and hand Execute to a background worker. Submit chains them for
// synchronous callers.
package turn

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/go-go-golems/scholar/pkg/client"
	"github.com/go-go-golems/scholar/pkg/conversation"
	"github.com/go-go-golems/scholar/pkg/subjects"
)

// ErrorText is the only failure text ever shown to the user.
const ErrorText = "Sorry, I encountered an error. Please try again."

type State string

const (
	StateIdle       State = "idle"
	StateSubmitting State = "submitting"
)

// Answerer is the remote answering service.
type Answerer interface {
	Chat(ctx context.Context, req client.ChatRequest) (*client.ChatRecord, error)
}

// SessionProvider exposes the session identifier, if one was established.
type SessionProvider interface {
	ID() (string, bool)
}

// Buffer is the compose box. Reset is called as soon as a turn is accepted.
type Buffer interface {
	Value() string
	Reset()
}

// Turn is an accepted, in-flight exchange.
type Turn struct {
	Question      string
	SessionID     string
	UserMessageID conversation.MessageID
	StartedAt     time.Time
}

// Outcome is the result of Execute.
type Outcome struct {
	Turn   *Turn
	Record *client.ChatRecord
	Err    error
}

type Controller struct {
	store    conversation.Manager
	answerer Answerer
	sessions SessionProvider
	now      func() time.Time

	mu    sync.Mutex
	state State
}

type Option func(*Controller)

// WithClock replaces time.Now for message timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		c.now = now
	}
}

func NewController(
	store conversation.Manager,
	answerer Answerer,
	sessions SessionProvider,
	options ...Option,
) *Controller {
	ret := &Controller{
		store:    store,
		answerer: answerer,
		sessions: sessions,
		now:      time.Now,
		state:    StateIdle,
	}
	for _, option := range options {
		option(ret)
	}
	return ret
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Busy reports whether a turn is in flight.
func (c *Controller) Busy() bool {
	return c.State() == StateSubmitting
}

func (c *Controller) CurrentSubject() subjects.Subject {
	return c.store.CurrentSubject()
}

// Begin checks the guard and, if it passes, moves to Submitting, appends the
// user message and resets buf. It returns false without side effects when the
// turn is rejected.
func (c *Controller) Begin(buf Buffer) (*Turn, bool) {
	question := strings.TrimSpace(buf.Value())
	if question == "" {
		log.Debug().Msg("ignoring empty question")
		return nil, false
	}
	sessionID, ok := c.sessions.ID()
	if !ok {
		log.Debug().Msg("ignoring question, no session")
		return nil, false
	}

	c.mu.Lock()
	if c.state == StateSubmitting {
		c.mu.Unlock()
		log.Debug().Msg("ignoring question, turn already in flight")
		return nil, false
	}
	c.state = StateSubmitting
	c.mu.Unlock()

	accepted := false
	defer func() {
		if !accepted {
			c.setIdle()
		}
	}()

	t := &Turn{
		Question:  question,
		SessionID: sessionID,
		StartedAt: c.now(),
	}
	msg := conversation.NewUserMessage(question, conversation.WithTime(t.StartedAt))
	t.UserMessageID = msg.ID

	c.store.Append(msg)
	buf.Reset()
	accepted = true

	log.Debug().
		Str("session_id", sessionID).
		Str("message_id", msg.ID.String()).
		Msg("turn started")

	return t, true
}

// Execute issues the remote call for t. It does not touch controller state and
// never panics; a panicking transport is reported as a failed outcome.
func (c *Controller) Execute(ctx context.Context, t *Turn) (out Outcome) {
	out.Turn = t
	defer func() {
		if r := recover(); r != nil {
			out.Record = nil
			out.Err = errors.Errorf("answering service panicked: %v", r)
		}
	}()

	record, err := c.answerer.Chat(ctx, client.ChatRequest{
		Message:   t.Question,
		SessionID: t.SessionID,
	})
	if err != nil {
		out.Err = err
		return out
	}
	if record == nil {
		out.Err = errors.Wrap(client.ErrMalformedResponse, "empty answer")
		return out
	}
	out.Record = record
	return out
}

// Finish appends the answer or the error notice for out and returns the
// controller to Idle. The state is reset on every path.
func (c *Controller) Finish(out Outcome) conversation.Message {
	defer c.setIdle()

	if out.Err == nil && out.Record != nil {
		msg := AssistantMessage(out.Record)
		c.store.Append(msg)
		log.Debug().
			Str("message_id", msg.ID.String()).
			Str("subject", out.Record.Subject).
			Str("model", out.Record.AIModelUsed).
			Msg("turn answered")
		return msg
	}

	err := out.Err
	if err == nil {
		err = errors.New("turn finished without answer")
	}
	ev := log.Error().Err(err)
	if out.Turn != nil {
		ev = ev.Str("session_id", out.Turn.SessionID).Dur("elapsed", c.now().Sub(out.Turn.StartedAt))
	}
	ev.Msg("turn failed")

	msg := conversation.NewErrorMessage(ErrorText, conversation.WithTime(c.now()))
	c.store.Append(msg)
	return msg
}

// Submit runs a whole turn synchronously. It returns false when the guard
// rejected the input.
func (c *Controller) Submit(ctx context.Context, buf Buffer) bool {
	t, ok := c.Begin(buf)
	if !ok {
		return false
	}
	c.Finish(c.Execute(ctx, t))
	return true
}

func (c *Controller) setIdle() {
	c.mu.Lock()
	c.state = StateIdle
	c.mu.Unlock()
}

// AssistantMessage converts an answer record into a conversation message,
// keeping the service-assigned id and timestamp.
func AssistantMessage(record *client.ChatRecord) conversation.Message {
	sources := make([]conversation.Source, 0, len(record.Sources))
	for _, s := range record.Sources {
		sources = append(sources, conversation.Source{
			Name:       s.Name,
			Department: s.Department,
			URL:        s.URL,
		})
	}

	options := []conversation.MessageOption{
		conversation.WithTime(record.Timestamp.Time),
	}
	if record.ID != "" {
		options = append(options, conversation.WithID(conversation.MessageID(record.ID)))
	}

	subject := subjects.Parse(record.Subject)
	if !subject.Known() {
		log.Debug().Str("subject", string(subject)).Msg("unknown subject, displayed as default")
	}

	return conversation.NewAssistantMessage(
		record.AIResponse,
		subject,
		record.AIModelUsed,
		sources,
		options...,
	)
}

func (s State) String() string {
	return string(s)
}

func (t *Turn) String() string {
	return fmt.Sprintf("turn(%s, %q)", t.SessionID, t.Question)
}
