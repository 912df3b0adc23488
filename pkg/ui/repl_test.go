package ui

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-go-golems/scholar/pkg/conversation"
	"github.com/go-go-golems/scholar/pkg/events"
	"github.com/go-go-golems/scholar/pkg/turn"
)

type syncBuffer struct {
	mu sync.Mutex
	b  bytes.Buffer
}

func (s *syncBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.Write(p)
}

func (s *syncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.String()
}

func TestREPL(t *testing.T) {
	router, err := events.NewEventRouter()
	require.NoError(t, err)

	out := &syncBuffer{}
	router.AddHandler("printer", events.TopicConversation, PrinterFunc(out))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = router.Run(ctx)
	}()
	defer func() {
		cancel()
		_ = router.Close()
		<-done
	}()
	select {
	case <-router.Running():
	case <-time.After(5 * time.Second):
		t.Fatal("router did not start")
	}

	store := conversation.NewStore()
	sink := events.NewWatermillSink(router.Publisher, events.TopicConversation, store.ConversationID.String())
	store.Subscribe(sink.Observer())

	answerer := &echoAnswerer{}
	sessions := newReadySession("s1")
	controller := turn.NewController(store, answerer, sessions)

	in := strings.NewReader("What is aperture?\n   \nfirst line\\\nsecond line\n/quit\nnever asked\n")
	require.NoError(t, NewREPL(controller, sessions, in, out).Run(ctx))

	assert.Equal(t, []string{"What is aperture?", "first line\nsecond line"}, answerer.asked())
	assert.Equal(t, 4, store.Len())

	s := out.String()
	assert.Contains(t, s, "answer: What is aperture?")
	assert.Contains(t, s, "answer: first line\nsecond line")
	assert.Contains(t, s, "… ")
	assert.NotContains(t, s, "never asked")
}

func TestREPLWithoutSessionIsSilent(t *testing.T) {
	store := conversation.NewStore()
	answerer := &echoAnswerer{}
	sessions := newReadySession("")
	controller := turn.NewController(store, answerer, sessions)

	out := &syncBuffer{}
	in := strings.NewReader("hello\nworld\n")
	require.NoError(t, NewREPL(controller, sessions, in, out).Run(context.Background()))

	assert.Empty(t, answerer.asked())
	assert.Equal(t, 0, store.Len())
	assert.Equal(t, "> > > ", out.String())
}
