package conversation

import (
	"slices"
	"sync"

	"github.com/go-go-golems/scholar/pkg/subjects"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Observer is called synchronously after every append, with the appended
// message and its position in the log.
type Observer func(index int, msg Message)

// Store is the append-only message log of a single conversation.
//
// Entries are never reordered, mutated or removed. Observers run on the
// appending goroutine after the store lock has been released, so they may read
// the store again.
type Store struct {
	ConversationID uuid.UUID

	mu        sync.RWMutex
	messages  []Message
	observers []observerEntry
	nextObsID int
}

type observerEntry struct {
	id int
	fn Observer
}

var _ Manager = (*Store)(nil)

type StoreOption func(*Store)

func WithConversationID(id uuid.UUID) StoreOption {
	return func(s *Store) {
		s.ConversationID = id
	}
}

func WithObserver(o Observer) StoreOption {
	return func(s *Store) {
		s.Subscribe(o)
	}
}

func NewStore(options ...StoreOption) *Store {
	ret := &Store{
		ConversationID: uuid.Nil,
	}
	for _, option := range options {
		option(ret)
	}
	if ret.ConversationID == uuid.Nil {
		ret.ConversationID = uuid.New()
	}
	return ret
}

// Append adds msg at the end of the log and notifies observers.
func (s *Store) Append(msg Message) {
	s.mu.Lock()
	s.messages = append(s.messages, msg)
	index := len(s.messages) - 1
	observers := slices.Clone(s.observers)
	s.mu.Unlock()

	log.Trace().
		Str("conversation_id", s.ConversationID.String()).
		Int("index", index).
		Str("message_id", msg.ID.String()).
		Str("content_type", string(msg.ContentType())).
		Msg("appended message")

	for _, o := range observers {
		o.fn(index, msg)
	}
}

// Snapshot returns a copy of the log, oldest first.
func (s *Store) Snapshot() Conversation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.messages)
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.messages)
}

// CurrentSubject is the subject of the latest assistant message, or
// subjects.Default when no answer has arrived yet.
func (s *Store) CurrentSubject() subjects.Subject {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Conversation(s.messages).CurrentSubject()
}

// Subscribe registers o and returns a function removing it again.
func (s *Store) Subscribe(o Observer) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextObsID
	s.nextObsID++
	s.observers = append(s.observers, observerEntry{id: id, fn: o})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.observers = slices.DeleteFunc(s.observers, func(e observerEntry) bool {
			return e.id == id
		})
	}
}
