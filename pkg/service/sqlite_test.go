package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-go-golems/scholar/pkg/client"
)

func newRecord(id, sessionID, question string, ts time.Time) *client.ChatRecord {
	return &client.ChatRecord{
		ID:          client.FlexibleID(id),
		SessionID:   sessionID,
		UserMessage: question,
		AIResponse:  "answer to " + question,
		Subject:     "mathematics",
		AIModelUsed: "openai/gpt-4o",
		Sources:     []client.SourceRecord{{Name: "MIT", Department: "Mathematics", URL: "https://www.mit.edu"}},
		Timestamp:   client.Timestamp{Time: ts},
	}
}

func testStore(t *testing.T, store Store) {
	ctx := context.Background()
	t0 := time.Date(2024, 1, 1, 0, 0, 5, 0, time.UTC)

	s, err := store.CreateSession(ctx, t0)
	require.NoError(t, err)
	require.NotEmpty(t, s.ID)
	assert.Equal(t, 0, s.TotalMessages)

	// inserted out of order, returned by time
	require.NoError(t, store.AddRecord(ctx, newRecord("r2", s.ID, "second", t0.Add(100*time.Millisecond))))
	require.NoError(t, store.AddRecord(ctx, newRecord("r1", s.ID, "first", t0)))
	require.NoError(t, store.AddRecord(ctx, newRecord("x", "other", "elsewhere", t0)))

	records, err := store.Records(ctx, s.ID)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "r1", records[0].ID.String())
	assert.Equal(t, "r2", records[1].ID.String())
	assert.Equal(t, "answer to first", records[0].AIResponse)
	require.Len(t, records[0].Sources, 1)
	assert.Equal(t, "MIT", records[0].Sources[0].Name)
	assert.True(t, t0.Equal(records[0].Timestamp.Time))

	none, err := store.Records(ctx, "missing")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestMemoryStore(t *testing.T) {
	testStore(t, NewMemoryStore())
}

func TestSQLiteStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "scholar.db")
	store, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer func() {
		_ = store.Close()
	}()

	testStore(t, store)

	ctx := context.Background()
	upserted, err := store.Session(ctx, "other")
	require.NoError(t, err)
	assert.Equal(t, 1, upserted.TotalMessages)
}

func TestSQLiteStoreReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scholar.db")
	ctx := context.Background()
	ts := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	store, err := NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, store.AddRecord(ctx, newRecord("r1", "s1", "q", ts)))
	require.NoError(t, store.AddRecord(ctx, newRecord("r2", "s1", "q2", ts.Add(time.Second))))
	require.NoError(t, store.Close())

	store, err = NewSQLiteStore(path)
	require.NoError(t, err)
	defer func() {
		_ = store.Close()
	}()

	records, err := store.Records(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, records, 2)

	s, err := store.Session(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 2, s.TotalMessages)
	assert.True(t, ts.Add(time.Second).Equal(s.LastActive.Time))
}
