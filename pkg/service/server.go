// Package service is a reference implementation of the answering service:
// session creation, subject detection, answer generation and history, served
// with echo under /api.
package service

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog/log"

	"github.com/go-go-golems/scholar/pkg/client"
	"github.com/go-go-golems/scholar/pkg/subjects"
)

const HealthMessage = "Educational Study App API"

// Handler serves the /api routes.
type Handler struct {
	store    Store
	answerer Answerer
	now      func() time.Time
}

type HandlerOption func(*Handler)

func WithClock(now func() time.Time) HandlerOption {
	return func(h *Handler) {
		h.now = now
	}
}

func NewHandler(store Store, answerer Answerer, options ...HandlerOption) *Handler {
	ret := &Handler{
		store:    store,
		answerer: answerer,
		now:      time.Now,
	}
	for _, o := range options {
		o(ret)
	}
	return ret
}

// NewServer creates the echo instance with middleware and routes.
func NewServer(h *Handler) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			ev := log.Debug()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("request")
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	h.RegisterRoutes(e)
	return e
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("", h.Health)
	g.GET("/", h.Health)
	g.POST("/sessions", h.CreateSession)
	g.POST("/chat", h.Chat)
	g.GET("/sessions/:session_id/messages", h.SessionMessages)
	g.GET("/resources/:subject", h.Resources)
}

type errorResponse struct {
	Detail string `json:"detail"`
}

func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"message": HealthMessage})
}

// CreateSession handles POST /api/sessions.
func (h *Handler) CreateSession(c echo.Context) error {
	s, err := h.store.CreateSession(c.Request().Context(), h.now().UTC())
	if err != nil {
		log.Error().Err(err).Msg("failed to create session")
		return c.JSON(http.StatusInternalServerError, errorResponse{Detail: "Session creation failed"})
	}
	return c.JSON(http.StatusOK, s)
}

// Chat handles POST /api/chat. The subject is detected from the message
// unless the request names one.
func (h *Handler) Chat(c echo.Context) error {
	var req client.ChatRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, errorResponse{Detail: "invalid request body"})
	}
	if strings.TrimSpace(req.Message) == "" || req.SessionID == "" {
		return c.JSON(http.StatusUnprocessableEntity, errorResponse{Detail: "message and session_id are required"})
	}

	subject := subjects.Subject(req.Subject)
	if subject == "" {
		subject = subjects.Detect(req.Message)
	}
	model := ModelFor(subject)
	sources := SourcesFor(subject)

	ctx := c.Request().Context()
	answer, err := h.answerer.Answer(ctx, Question{
		SessionID:    req.SessionID,
		Text:         req.Message,
		Subject:      subject,
		Model:        model,
		Sources:      sources,
		SystemPrompt: SystemPrompt(subject, sources),
	})
	if err != nil {
		log.Error().Err(err).Str("session_id", req.SessionID).Msg("chat error")
		return c.JSON(http.StatusInternalServerError, errorResponse{Detail: "Chat processing failed: " + err.Error()})
	}

	rec := &client.ChatRecord{
		ID:          client.FlexibleID(uuid.NewString()),
		SessionID:   req.SessionID,
		UserMessage: req.Message,
		AIResponse:  answer.Text,
		Subject:     string(subject),
		AIModelUsed: answer.ModelUsed,
		Sources:     sources,
		Timestamp:   client.Timestamp{Time: h.now().UTC()},
	}
	if err := h.store.AddRecord(ctx, rec); err != nil {
		log.Error().Err(err).Str("session_id", req.SessionID).Msg("failed to store record")
		return c.JSON(http.StatusInternalServerError, errorResponse{Detail: "Chat processing failed: " + err.Error()})
	}

	return c.JSON(http.StatusOK, rec)
}

// SessionMessages handles GET /api/sessions/:session_id/messages.
func (h *Handler) SessionMessages(c echo.Context) error {
	records, err := h.store.Records(c.Request().Context(), c.Param("session_id"))
	if err != nil {
		log.Error().Err(err).Msg("failed to load records")
		return c.JSON(http.StatusInternalServerError, errorResponse{Detail: err.Error()})
	}
	return c.JSON(http.StatusOK, records)
}

// Resources handles GET /api/resources/:subject.
func (h *Handler) Resources(c echo.Context) error {
	resources, ok := ResourcesFor(c.Param("subject"))
	if !ok {
		return c.JSON(http.StatusNotFound, errorResponse{Detail: "Subject not found"})
	}
	return c.JSON(http.StatusOK, resources)
}
