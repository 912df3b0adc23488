package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/go-go-golems/scholar/pkg/events"
	"github.com/go-go-golems/scholar/pkg/ui"
)

func isInteractive() bool {
	return isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stdout.Fd())
}

func newChatCommand() *cobra.Command {
	var (
		noTUI      bool
		transcript string
	)

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive conversation",
		Long: "Start an interactive conversation. A full screen chat is used when stdin and stdout " +
			"are terminals, a line based prompt otherwise. End a line with \\ to continue the question " +
			"on the next line.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			if transcript != "" {
				a.settings.Client.Transcript = transcript
			}

			interactive := !noTUI && isInteractive()
			if interactive {
				initLogger(true)
			}

			// the screen appends on its own update loop, publishers must not wait on it
			conv, err := a.newConversation(!interactive)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			conv.sessions.InitializeAsync(ctx)

			if !interactive {
				conv.router.AddHandler("printer", events.TopicConversation, ui.PrinterFunc(os.Stdout))
				repl := ui.NewREPL(conv.controller, conv.sessions, os.Stdin, os.Stdout)
				return conv.run(ctx, repl.Run)
			}

			style := ui.DefaultStyles(a.settings.Client.Theme)
			p := tea.NewProgram(
				ui.InitialModel(ctx, conv.store, conv.controller, conv.sessions, style),
				tea.WithAltScreen(),
				tea.WithContext(ctx),
			)
			conv.router.AddHandler("ui-forward", events.TopicConversation, ui.StoreForwardFunc(p))

			return conv.run(ctx, func(ctx context.Context) error {
				_, err := p.Run()
				return err
			})
		},
	}

	cmd.Flags().BoolVar(&noTUI, "no-tui", false, "Use the line based prompt even on a terminal")
	cmd.Flags().StringVar(&transcript, "transcript", "", "Append every message as a JSON line to this file")

	return cmd
}
