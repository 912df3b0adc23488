package main

import (
	"context"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/go-go-golems/scholar/pkg/events"
	"github.com/go-go-golems/scholar/pkg/turn"
	"github.com/go-go-golems/scholar/pkg/ui"
)

func newAskCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ask <question...>",
		Short: "Ask a single question and print the answer",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			conv, err := a.newConversation(true)
			if err != nil {
				return err
			}
			conv.router.AddHandler("printer", events.TopicConversation, ui.PrinterFunc(os.Stdout))

			return conv.run(cmd.Context(), func(ctx context.Context) error {
				conv.sessions.Initialize(ctx)
				if _, err := conv.sessions.RequireID(); err != nil {
					return err
				}

				question := strings.Join(args, " ")
				if !conv.controller.Submit(ctx, &turn.StringBuffer{Text: question}) {
					return errors.New("question is empty")
				}
				return nil
			})
		},
	}
}
