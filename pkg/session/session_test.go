package session

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-go-golems/scholar/pkg/client"
)

type fakeCreator struct {
	calls  atomic.Int32
	id     string
	err    error
	noBody bool
}

func (f *fakeCreator) CreateSession(ctx context.Context) (*client.SessionRecord, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	if f.noBody {
		return nil, nil
	}
	return &client.SessionRecord{ID: f.id}, nil
}

func TestInitialize(t *testing.T) {
	creator := &fakeCreator{id: "s1"}
	m := NewManager(creator)

	_, ok := m.ID()
	assert.False(t, ok)

	m.Initialize(context.Background())

	id, ok := m.ID()
	require.True(t, ok)
	assert.Equal(t, "s1", id)
	assert.NoError(t, m.Err())

	id, err := m.RequireID()
	require.NoError(t, err)
	assert.Equal(t, "s1", id)
}

func TestInitializeRunsOnce(t *testing.T) {
	creator := &fakeCreator{id: "s1"}
	m := NewManager(creator)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.Initialize(context.Background())
		}()
	}
	wg.Wait()
	m.Initialize(context.Background())

	assert.Equal(t, int32(1), creator.calls.Load())
}

func TestInitializeFailureLeavesSessionUnset(t *testing.T) {
	creator := &fakeCreator{err: errors.New("connection refused")}
	m := NewManager(creator)

	m.Initialize(context.Background())
	m.Initialize(context.Background())

	_, ok := m.ID()
	assert.False(t, ok)
	assert.Error(t, m.Err())
	_, err := m.RequireID()
	assert.True(t, errors.Is(err, ErrNoSession))
	assert.Contains(t, err.Error(), "connection refused")
	// no retry
	assert.Equal(t, int32(1), creator.calls.Load())
}

func TestInitializeAsync(t *testing.T) {
	m := NewManager(&fakeCreator{id: "s2"})

	select {
	case <-m.InitializeAsync(context.Background()):
	case <-time.After(5 * time.Second):
		t.Fatal("initialization did not finish")
	}

	id, ok := m.ID()
	require.True(t, ok)
	assert.Equal(t, "s2", id)

	select {
	case <-m.Done():
	default:
		t.Fatal("done channel should be closed")
	}
}

func TestInitializeWithoutRecordLeavesSessionUnset(t *testing.T) {
	for name, creator := range map[string]*fakeCreator{
		"nil record": {noBody: true},
		"empty id":   {id: ""},
	} {
		t.Run(name, func(t *testing.T) {
			m := NewManager(creator)

			select {
			case <-m.InitializeAsync(context.Background()):
			case <-time.After(5 * time.Second):
				t.Fatal("initialization did not finish")
			}

			_, ok := m.ID()
			assert.False(t, ok)
			assert.Error(t, m.Err())
			_, err := m.RequireID()
			assert.True(t, errors.Is(err, ErrNoSession))
		})
	}
}
