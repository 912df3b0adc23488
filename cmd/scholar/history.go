package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/go-go-golems/scholar/pkg/conversation"
	"github.com/go-go-golems/scholar/pkg/turn"
	"github.com/go-go-golems/scholar/pkg/ui"
)

func newHistoryCommand() *cobra.Command {
	var sessionID string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Print the exchanges the service stored for a session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			records, err := a.client.SessionMessages(cmd.Context(), sessionID)
			if err != nil {
				return err
			}

			for i := range records {
				rec := &records[i]
				msgs := []conversation.Message{
					conversation.NewUserMessage(rec.UserMessage, conversation.WithTime(rec.Timestamp.Time)),
					turn.AssistantMessage(rec),
				}
				for _, msg := range msgs {
					s, err := ui.FormatPlain(msg)
					if err != nil {
						return err
					}
					if _, err := fmt.Fprintln(os.Stdout, s); err != nil {
						return err
					}
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&sessionID, "session", "", "Session identifier")
	_ = cmd.MarkFlagRequired("session")

	return cmd
}
