package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	go_openai "github.com/sashabaranov/go-openai"

	"github.com/go-go-golems/scholar/pkg/client"
	"github.com/go-go-golems/scholar/pkg/subjects"
)

// Question is what an Answerer gets for one chat request.
type Question struct {
	SessionID    string
	Text         string
	Subject      subjects.Subject
	Model        ModelConfig
	Sources      []client.SourceRecord
	SystemPrompt string
}

// Answer is the generated reply and the model that produced it, formatted as
// "provider/model".
type Answer struct {
	Text      string
	ModelUsed string
}

type Answerer interface {
	Answer(ctx context.Context, q Question) (*Answer, error)
}

// EchoAnswerer answers offline with a canned reply built from the question.
// It is the default for local development and tests.
type EchoAnswerer struct{}

var _ Answerer = EchoAnswerer{}

func (EchoAnswerer) Answer(_ context.Context, q Question) (*Answer, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", q.Subject.Icon(), q.Subject.DisplayName())
	fmt.Fprintf(&b, "You asked: %s\n", strings.TrimSpace(q.Text))
	if len(q.Sources) > 0 {
		b.WriteString("Further reading:")
		for _, s := range q.Sources {
			fmt.Fprintf(&b, "\n- %s (%s): %s", s.Name, s.Department, s.URL)
		}
	}
	return &Answer{
		Text:      strings.TrimRight(b.String(), "\n"),
		ModelUsed: "echo/" + q.Model.Model,
	}, nil
}

const DefaultOpenAIModel = "gpt-4o"

// OpenAIAnswerer sends the question to an OpenAI compatible chat completion
// endpoint. Subjects configured for another provider are answered by the
// fallback model.
type OpenAIAnswerer struct {
	client        *go_openai.Client
	fallbackModel string
}

var _ Answerer = (*OpenAIAnswerer)(nil)

type OpenAIOption func(*OpenAIAnswerer)

func WithFallbackModel(model string) OpenAIOption {
	return func(a *OpenAIAnswerer) {
		a.fallbackModel = model
	}
}

func NewOpenAIAnswerer(apiKey string, baseURL string, options ...OpenAIOption) (*OpenAIAnswerer, error) {
	if apiKey == "" {
		return nil, errors.New("API key not configured")
	}
	config := go_openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	ret := &OpenAIAnswerer{
		client:        go_openai.NewClientWithConfig(config),
		fallbackModel: DefaultOpenAIModel,
	}
	for _, o := range options {
		o(ret)
	}
	return ret, nil
}

func (a *OpenAIAnswerer) modelFor(m ModelConfig) string {
	if m.Provider == "openai" && m.Model != "" {
		return m.Model
	}
	return a.fallbackModel
}

func (a *OpenAIAnswerer) Answer(ctx context.Context, q Question) (*Answer, error) {
	model := a.modelFor(q.Model)
	req := go_openai.ChatCompletionRequest{
		Model: model,
		User:  q.SessionID,
		Messages: []go_openai.ChatCompletionMessage{
			{Role: go_openai.ChatMessageRoleSystem, Content: q.SystemPrompt},
			{Role: go_openai.ChatMessageRoleUser, Content: q.Text},
		},
	}

	log.Debug().Str("model", model).Str("subject", string(q.Subject)).Msg("sending chat completion")
	resp, err := a.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, errors.Wrap(err, "chat completion failed")
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("chat completion returned no choices")
	}

	return &Answer{
		Text:      resp.Choices[0].Message.Content,
		ModelUsed: "openai/" + model,
	}, nil
}
