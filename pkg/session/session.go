// Package session acquires the conversation session identifier.
//
// The identifier is requested exactly once per Manager. A failed attempt is
// logged and leaves the session unset for the rest of the process; turns then
// refuse to start. There is no retry.
package session

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/go-go-golems/scholar/pkg/client"
)

// ErrNoSession is returned by operations that need an established session.
var ErrNoSession = errors.New("no session established")

// Creator is the session-creation endpoint.
type Creator interface {
	CreateSession(ctx context.Context) (*client.SessionRecord, error)
}

type Manager struct {
	creator Creator

	once sync.Once
	done chan struct{}

	mu  sync.RWMutex
	id  string
	err error
}

func NewManager(creator Creator) *Manager {
	return &Manager{
		creator: creator,
		done:    make(chan struct{}),
	}
}

// Initialize requests a session identifier. Only the first call does any work;
// later calls return immediately. Failures are logged, not returned.
func (m *Manager) Initialize(ctx context.Context) {
	m.once.Do(func() {
		defer close(m.done)

		record, err := m.creator.CreateSession(ctx)
		if err == nil && (record == nil || record.ID == "") {
			err = errors.New("session endpoint returned no identifier")
		}
		if err != nil {
			log.Error().Err(err).Msg("failed to create session")
			m.mu.Lock()
			m.err = err
			m.mu.Unlock()
			return
		}

		m.mu.Lock()
		m.id = record.ID
		m.mu.Unlock()
		log.Info().Str("session_id", record.ID).Msg("session created")
	})
}

// InitializeAsync starts Initialize on its own goroutine. The returned channel
// is closed once the attempt has finished, whatever its outcome.
func (m *Manager) InitializeAsync(ctx context.Context) <-chan struct{} {
	go m.Initialize(ctx)
	return m.done
}

// Done is closed once the first initialization attempt has finished.
func (m *Manager) Done() <-chan struct{} {
	return m.done
}

// ID returns the session identifier and whether one is set.
func (m *Manager) ID() (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.id, m.id != ""
}

// RequireID returns the identifier, or ErrNoSession wrapped with the cause of
// the failed initialization.
func (m *Manager) RequireID() (string, error) {
	id, ok := m.ID()
	if ok {
		return id, nil
	}
	if err := m.Err(); err != nil {
		return "", errors.Wrap(ErrNoSession, err.Error())
	}
	return "", ErrNoSession
}

// Err is the error of a failed initialization, nil otherwise.
func (m *Manager) Err() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.err
}
