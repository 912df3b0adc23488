// Package client is the HTTP transport to the study answering service.
//
// It knows the wire format of the service and nothing about conversation state;
// the turn controller turns ChatRecords into conversation messages.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const (
	DefaultBaseURL   = "http://localhost:8001/api"
	DefaultUserAgent = "go-go-golems/scholar"

	maxErrorBody = 4 << 10
)

type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithTimeout bounds every request at the transport level. Zero disables it.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

func New(baseURL string, options ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  DefaultUserAgent,
		httpClient: &http.Client{},
	}
	for _, option := range options {
		option(c)
	}
	return c
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// CreateSession calls POST /sessions without a body.
func (c *Client) CreateSession(ctx context.Context) (*SessionRecord, error) {
	var ret SessionRecord
	if err := c.do(ctx, http.MethodPost, "/sessions", nil, &ret); err != nil {
		return nil, err
	}
	if ret.ID == "" {
		return nil, errors.Wrap(ErrMalformedResponse, "session id missing")
	}
	return &ret, nil
}

// Chat calls POST /chat and validates the answer record.
func (c *Client) Chat(ctx context.Context, req ChatRequest) (*ChatRecord, error) {
	var ret ChatRecord
	if err := c.do(ctx, http.MethodPost, "/chat", req, &ret); err != nil {
		return nil, err
	}
	if ret.ID == "" {
		return nil, errors.Wrap(ErrMalformedResponse, "answer id missing")
	}
	if ret.Timestamp.IsZero() {
		return nil, errors.Wrap(ErrMalformedResponse, "answer timestamp missing")
	}
	return &ret, nil
}

// SessionMessages calls GET /sessions/{id}/messages.
func (c *Client) SessionMessages(ctx context.Context, sessionID string) ([]ChatRecord, error) {
	if sessionID == "" {
		return nil, errors.New("session id required")
	}
	var ret []ChatRecord
	path := "/sessions/" + url.PathEscape(sessionID) + "/messages"
	if err := c.do(ctx, http.MethodGet, path, nil, &ret); err != nil {
		return nil, err
	}
	return ret, nil
}

// Resources calls GET /resources/{subject}. Unknown subjects yield a 404
// StatusError.
func (c *Client) Resources(ctx context.Context, subject string) ([]Resource, error) {
	var ret []Resource
	path := "/resources/" + url.PathEscape(subject)
	if err := c.do(ctx, http.MethodGet, path, nil, &ret); err != nil {
		return nil, err
	}
	return ret, nil
}

// Health calls GET / and returns the service banner.
func (c *Client) Health(ctx context.Context) (string, error) {
	var ret healthResponse
	if err := c.do(ctx, http.MethodGet, "/", nil, &ret); err != nil {
		return "", err
	}
	return ret.Message, nil
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}, out interface{}) (err error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "error marshaling request")
		}
		reader = bytes.NewReader(b)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return errors.Wrap(err, "error creating HTTP request")
	}
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return errors.Wrapf(err, "error sending %s %s", method, path)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil && err == nil {
			err = errors.Wrap(cerr, "error closing response body")
		}
	}()

	log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("service request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(b)),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrapf(ErrMalformedResponse, "decoding %s %s: %v", method, path, err)
	}
	return nil
}
