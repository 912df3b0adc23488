package service

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/go-go-golems/scholar/pkg/client"
)

// MaxHistory caps the number of records returned for a session.
const MaxHistory = 1000

// Store persists sessions and answered exchanges.
type Store interface {
	CreateSession(ctx context.Context, now time.Time) (*client.SessionRecord, error)
	// AddRecord stores rec and bumps its session's activity, creating the
	// session if it does not exist yet.
	AddRecord(ctx context.Context, rec *client.ChatRecord) error
	// Records returns the records of a session, oldest first.
	Records(ctx context.Context, sessionID string) ([]client.ChatRecord, error)
	Close() error
}

type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*client.SessionRecord
	records  map[string][]client.ChatRecord
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: map[string]*client.SessionRecord{},
		records:  map[string][]client.ChatRecord{},
	}
}

func (m *MemoryStore) CreateSession(_ context.Context, now time.Time) (*client.SessionRecord, error) {
	s := &client.SessionRecord{
		ID:         uuid.NewString(),
		CreatedAt:  client.Timestamp{Time: now},
		LastActive: client.Timestamp{Time: now},
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s

	ret := *s
	return &ret, nil
}

func (m *MemoryStore) AddRecord(_ context.Context, rec *client.ChatRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[rec.SessionID]
	if !ok {
		s = &client.SessionRecord{ID: rec.SessionID, CreatedAt: rec.Timestamp}
		m.sessions[rec.SessionID] = s
	}
	s.LastActive = rec.Timestamp
	s.TotalMessages++

	r := *rec
	r.Sources = slices.Clone(rec.Sources)
	m.records[rec.SessionID] = append(m.records[rec.SessionID], r)
	return nil
}

func (m *MemoryStore) Records(_ context.Context, sessionID string) ([]client.ChatRecord, error) {
	m.mu.RLock()
	ret := slices.Clone(m.records[sessionID])
	m.mu.RUnlock()

	sort.SliceStable(ret, func(i, j int) bool {
		return ret[i].Timestamp.Before(ret[j].Timestamp.Time)
	})
	if len(ret) > MaxHistory {
		ret = ret[:MaxHistory]
	}
	if ret == nil {
		ret = []client.ChatRecord{}
	}
	return ret, nil
}

// Session returns a copy of a stored session.
func (m *MemoryStore) Session(id string) (client.SessionRecord, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return client.SessionRecord{}, false
	}
	return *s, true
}

func (m *MemoryStore) Close() error {
	return nil
}
