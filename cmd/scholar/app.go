package main

import (
	"context"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/go-go-golems/scholar/pkg/client"
	"github.com/go-go-golems/scholar/pkg/conversation"
	"github.com/go-go-golems/scholar/pkg/events"
	"github.com/go-go-golems/scholar/pkg/session"
	"github.com/go-go-golems/scholar/pkg/settings"
	"github.com/go-go-golems/scholar/pkg/turn"
)

type app struct {
	settings *settings.Settings
	client   *client.Client
}

func newApp() (*app, error) {
	s, err := settings.Load(viper.GetViper())
	if err != nil {
		return nil, err
	}
	c := client.New(
		s.Client.BaseURL,
		client.WithTimeout(s.Client.Timeout),
		client.WithUserAgent(s.Client.UserAgent),
	)
	return &app{settings: s, client: c}, nil
}

// conversationRun is one wired conversation: store, session, controller and
// the event router fanning store appends out to presentation handlers.
type conversationRun struct {
	store      *conversation.Store
	sessions   *session.Manager
	controller *turn.Controller
	router     *events.EventRouter
	closers    []io.Closer
}

func (a *app) newConversation(blockingPublish bool) (*conversationRun, error) {
	router, err := events.NewEventRouter(
		events.WithVerbose(viper.GetBool("verbose")),
		events.WithBlockingPublish(blockingPublish),
	)
	if err != nil {
		return nil, err
	}

	conversationID := uuid.New()
	sink := events.NewWatermillSink(router.Publisher, events.TopicConversation, conversationID.String())
	options := []conversation.StoreOption{
		conversation.WithConversationID(conversationID),
		conversation.WithObserver(sink.Observer()),
	}

	var closers []io.Closer
	if path := a.settings.Client.Transcript; path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, errors.Wrap(err, "could not open transcript")
		}
		closers = append(closers, f)
		// written on the appending goroutine, the router may deliver out of order
		options = append(options, conversation.WithObserver(events.TranscriptObserver(f, conversationID.String())))
	}

	store := conversation.NewStore(options...)
	sessions := session.NewManager(a.client)
	return &conversationRun{
		store:      store,
		sessions:   sessions,
		controller: turn.NewController(store, a.client, sessions),
		router:     router,
		closers:    closers,
	}, nil
}

// run starts the router, waits until its handlers are subscribed and then
// runs f. The router is stopped once f returns.
func (c *conversationRun) run(ctx context.Context, f func(ctx context.Context) error) error {
	defer func() {
		for _, cl := range c.closers {
			_ = cl.Close()
		}
	}()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		return c.router.Run(ctx)
	})
	eg.Go(func() error {
		defer cancel()
		defer func() {
			_ = c.router.Close()
		}()
		select {
		case <-c.router.Running():
		case <-ctx.Done():
			return ctx.Err()
		}
		return f(ctx)
	})

	err := eg.Wait()
	if errors.Is(err, context.Canceled) {
		log.Debug().Msg("conversation cancelled")
		return nil
	}
	return err
}
