package conversation

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/go-go-golems/scholar/pkg/subjects"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreAppendKeepsOrder(t *testing.T) {
	s := NewStore()
	s.Append(NewUserMessage("first"))
	s.Append(NewAssistantMessage("second", subjects.Mathematics, "openai/gpt-4o", nil))
	s.Append(NewErrorMessage("third"))

	snap := s.Snapshot()
	require.Len(t, snap, 3)
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, "first", snap[0].Content.String())
	assert.Equal(t, "second", snap[1].Content.String())
	assert.Equal(t, "third", snap[2].Content.String())
	assert.Equal(t, ContentTypeUser, snap[0].ContentType())
	assert.Equal(t, ContentTypeAssistant, snap[1].ContentType())
	assert.Equal(t, ContentTypeError, snap[2].ContentType())
}

func TestSnapshotIsACopy(t *testing.T) {
	s := NewStore()
	s.Append(NewUserMessage("hello"))

	snap := s.Snapshot()
	snap[0] = NewUserMessage("tampered")
	_ = append(snap, NewUserMessage("extra"))

	again := s.Snapshot()
	require.Len(t, again, 1)
	assert.Equal(t, "hello", again[0].Content.String())
}

func TestCurrentSubject(t *testing.T) {
	s := NewStore()
	assert.Equal(t, subjects.Default, s.CurrentSubject())

	s.Append(NewUserMessage("What is aperture?"))
	assert.Equal(t, subjects.Default, s.CurrentSubject())

	s.Append(NewAssistantMessage("Aperture controls light.", subjects.Photography, "gpt-4o", nil))
	assert.Equal(t, subjects.Photography, s.CurrentSubject())

	s.Append(NewErrorMessage("oops"))
	assert.Equal(t, subjects.Photography, s.CurrentSubject())

	s.Append(NewAssistantMessage("A derivative is a rate.", subjects.Mathematics, "gpt-4o", nil))
	assert.Equal(t, subjects.Mathematics, s.CurrentSubject())
}

func TestObserversAreNotifiedSynchronously(t *testing.T) {
	s := NewStore()

	var seen []int
	var lenAtNotify []int
	s.Subscribe(func(index int, msg Message) {
		seen = append(seen, index)
		// observers may read the store again
		lenAtNotify = append(lenAtNotify, s.Len())
	})

	s.Append(NewUserMessage("a"))
	assert.Equal(t, []int{0}, seen)
	s.Append(NewUserMessage("b"))
	assert.Equal(t, []int{0, 1}, seen)
	assert.Equal(t, []int{1, 2}, lenAtNotify)
}

func TestUnsubscribe(t *testing.T) {
	s := NewStore()
	calls := 0
	unsubscribe := s.Subscribe(func(int, Message) { calls++ })

	s.Append(NewUserMessage("a"))
	unsubscribe()
	s.Append(NewUserMessage("b"))

	assert.Equal(t, 1, calls)
}

func TestAssistantSourcesAreCopied(t *testing.T) {
	sources := []Source{{Name: "MIT", Department: "Mathematics", URL: "https://www.mit.edu"}}
	msg := NewAssistantMessage("x", subjects.Mathematics, "m", sources)
	sources[0].Name = "changed"

	a := msg.Content.(*AssistantContent)
	assert.Equal(t, "MIT", a.Sources[0].Name)

	empty := NewAssistantMessage("x", subjects.Default, "m", nil)
	assert.NotNil(t, empty.Content.(*AssistantContent).Sources)
}

func TestMessageJSONRoundTrip(t *testing.T) {
	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	msg := NewAssistantMessage(
		"Aperture controls light.",
		subjects.Photography,
		"gpt-4o",
		[]Source{{Name: "RCA", Department: "Photography", URL: "https://www.rca.ac.uk"}},
		WithID("7"),
		WithTime(ts),
	)

	b, err := json.Marshal(msg)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"contentType":"assistant"`)

	var decoded Message
	require.NoError(t, json.Unmarshal(b, &decoded))
	assert.Equal(t, MessageID("7"), decoded.ID)
	assert.True(t, ts.Equal(decoded.Time))
	a, ok := decoded.Content.(*AssistantContent)
	require.True(t, ok)
	assert.Equal(t, subjects.Photography, a.Subject)
	assert.Equal(t, "RCA", a.Sources[0].Name)

	err = json.Unmarshal([]byte(`{"id":"1","contentType":"tool","content":{}}`), &decoded)
	assert.Error(t, err)
}
