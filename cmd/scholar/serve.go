package main

import (
	"context"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/go-go-golems/scholar/pkg/service"
	"github.com/go-go-golems/scholar/pkg/settings"
)

func newServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run a local answering service",
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return viper.BindPFlags(cmd.Flags())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := settings.Load(viper.GetViper())
			if err != nil {
				return err
			}
			return serve(cmd.Context(), &s.Server)
		},
	}

	cmd.Flags().String("listen", ":8001", "Address to listen on")
	cmd.Flags().String("store", "memory", "Record store (memory, sqlite)")
	cmd.Flags().String("sqlite-path", "scholar.db", "Database file of the sqlite store")
	cmd.Flags().String("answerer", "echo", "Answer generator (echo, openai)")
	cmd.Flags().String("openai-api-key", "", "OpenAI API key")
	cmd.Flags().String("openai-base-url", "", "OpenAI compatible base URL")

	return cmd
}

func newStore(s *settings.ServerSettings) (service.Store, error) {
	switch s.Store {
	case settings.StoreSQLite:
		return service.NewSQLiteStore(s.SQLitePath)
	case settings.StoreMemory:
		return service.NewMemoryStore(), nil
	default:
		return nil, errors.Errorf("unknown store %q", s.Store)
	}
}

func newAnswerer(s *settings.ServerSettings) (service.Answerer, error) {
	switch s.Answerer {
	case settings.AnswererOpenAI:
		return service.NewOpenAIAnswerer(s.OpenAIAPIKey, s.OpenAIBaseURL)
	case settings.AnswererEcho:
		return service.EchoAnswerer{}, nil
	default:
		return nil, errors.Errorf("unknown answerer %q", s.Answerer)
	}
}

func serve(ctx context.Context, s *settings.ServerSettings) error {
	store, err := newStore(s)
	if err != nil {
		return err
	}
	defer func() {
		_ = store.Close()
	}()

	answerer, err := newAnswerer(s)
	if err != nil {
		return err
	}

	e := service.NewServer(service.NewHandler(store, answerer))

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		log.Info().
			Str("listen", s.Listen).
			Str("store", string(s.Store)).
			Str("answerer", string(s.Answerer)).
			Msg("serving")
		err := e.Start(s.Listen)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})
	eg.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		log.Info().Msg("shutting down")
		return e.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}
