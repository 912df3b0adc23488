package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-go-golems/scholar/pkg/client"
	"github.com/go-go-golems/scholar/pkg/conversation"
	"github.com/go-go-golems/scholar/pkg/session"
	"github.com/go-go-golems/scholar/pkg/subjects"
	"github.com/go-go-golems/scholar/pkg/turn"
)

var fixedNow = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

type failingAnswerer struct{}

func (failingAnswerer) Answer(context.Context, Question) (*Answer, error) {
	return nil, errors.New("model unavailable")
}

type recordingAnswerer struct {
	questions []Question
}

func (r *recordingAnswerer) Answer(ctx context.Context, q Question) (*Answer, error) {
	r.questions = append(r.questions, q)
	return EchoAnswerer{}.Answer(ctx, q)
}

func newTestHandler(answerer Answerer) (*Handler, *MemoryStore) {
	store := NewMemoryStore()
	return NewHandler(store, answerer, WithClock(func() time.Time { return fixedNow })), store
}

func postJSON(t *testing.T, e *echo.Echo, target string, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	e := echo.New()
	h, _ := newTestHandler(EchoAnswerer{})

	req := httptest.NewRequest(http.MethodGet, "/api/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, h.Health(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Educational Study App API"}`, rec.Body.String())
}

func TestChatDetectsSubjectAndStoresRecord(t *testing.T) {
	answerer := &recordingAnswerer{}
	h, store := newTestHandler(answerer)
	e := NewServer(h)

	rec := postJSON(t, e, "/api/chat", `{"message":"What is aperture?","session_id":"s1"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var got client.ChatRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.NotEmpty(t, got.ID)
	assert.Equal(t, "s1", got.SessionID)
	assert.Equal(t, "What is aperture?", got.UserMessage)
	assert.Equal(t, "photography", got.Subject)
	assert.Equal(t, "echo/claude-sonnet-4-20250514", got.AIModelUsed)
	assert.Len(t, got.Sources, MaxSources)
	assert.Equal(t, "Harvard University", got.Sources[0].Name)
	assert.True(t, fixedNow.Equal(got.Timestamp.Time))

	require.Len(t, answerer.questions, 1)
	q := answerer.questions[0]
	assert.Equal(t, subjects.Photography, q.Subject)
	assert.Contains(t, q.SystemPrompt, "Photography techniques and composition")
	assert.Contains(t, q.SystemPrompt, "- Harvard University (Visual and Environmental Studies): https://www.harvard.edu")

	s, ok := store.Session("s1")
	require.True(t, ok)
	assert.Equal(t, 1, s.TotalMessages)
}

func TestChatHonoursRequestedSubject(t *testing.T) {
	h, _ := newTestHandler(EchoAnswerer{})
	e := NewServer(h)

	rec := postJSON(t, e, "/api/chat", `{"message":"What is aperture?","session_id":"s1","subject":"media"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var got client.ChatRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "media", got.Subject)
	assert.Equal(t, "echo/gemini-2.0-flash", got.AIModelUsed)
	assert.Empty(t, got.Sources)
}

func TestChatErrors(t *testing.T) {
	h, _ := newTestHandler(failingAnswerer{})
	e := NewServer(h)

	rec := postJSON(t, e, "/api/chat", `{"message":"hi","session_id":"s1"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Chat processing failed: model unavailable")

	rec = postJSON(t, e, "/api/chat", `{"message":"   ","session_id":"s1"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = postJSON(t, e, "/api/chat", `{"message":"hi"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestResources(t *testing.T) {
	e := echo.New()
	h, _ := newTestHandler(EchoAnswerer{})

	req := httptest.NewRequest(http.MethodGet, "/api/resources/Mathematics", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("subject")
	c.SetParamValues("Mathematics")

	require.NoError(t, h.Resources(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var got []client.Resource
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 13)
	assert.Equal(t, "MIT", got[0].Name)
	assert.Equal(t, "Mathematics", got[0].Subject)

	req = httptest.NewRequest(http.MethodGet, "/api/resources/cooking", nil)
	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)
	c.SetParamNames("subject")
	c.SetParamValues("cooking")

	require.NoError(t, h.Resources(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"detail":"Subject not found"}`, rec.Body.String())
}

func TestModelAndSourceTables(t *testing.T) {
	assert.Equal(t, "openai/gpt-4o", ModelFor(subjects.Mathematics).String())
	assert.Equal(t, "gemini/gemini-2.0-flash", ModelFor(subjects.FilmDirecting).String())
	assert.Equal(t, "openai/gpt-4o", ModelFor(subjects.Subject("astronomy")).String())

	assert.Len(t, SourcesFor(subjects.FilmDirecting), 5)
	assert.Empty(t, SourcesFor(subjects.Default))

	assert.Contains(t, SystemPrompt(subjects.Default, nil), "comprehensive educational support")
}

// The client, session manager and turn controller against the real handlers.
func TestClientRoundTrip(t *testing.T) {
	h, _ := newTestHandler(EchoAnswerer{})
	srv := httptest.NewServer(NewServer(h))
	defer srv.Close()

	c := client.New(srv.URL + "/api")
	ctx := context.Background()

	msg, err := c.Health(ctx)
	require.NoError(t, err)
	assert.Equal(t, HealthMessage, msg)

	sessions := session.NewManager(c)
	sessions.Initialize(ctx)
	sessionID, ok := sessions.ID()
	require.True(t, ok)

	store := conversation.NewStore()
	controller := turn.NewController(store, c, sessions)

	require.True(t, controller.Submit(ctx, &turn.StringBuffer{Text: "How do I prove a theorem?"}))
	require.True(t, controller.Submit(ctx, &turn.StringBuffer{Text: "Who directs a movie?"}))

	msgs := store.Snapshot()
	require.Len(t, msgs, 4)
	a, ok := msgs[1].Content.(*conversation.AssistantContent)
	require.True(t, ok)
	assert.Equal(t, subjects.Mathematics, a.Subject)
	assert.Len(t, a.Sources, 5)
	assert.Equal(t, subjects.FilmDirecting, controller.CurrentSubject())

	history, err := c.SessionMessages(ctx, sessionID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "How do I prove a theorem?", history[0].UserMessage)
	assert.Equal(t, string(msgs[1].ID), history[0].ID.String())

	_, err = c.Resources(ctx, "cooking")
	assert.True(t, client.IsStatus(err, http.StatusNotFound))
}
