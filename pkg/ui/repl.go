package ui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/go-go-golems/scholar/pkg/turn"
)

const (
	prompt             = "> "
	continuationPrompt = "… "
)

// REPL reads questions line by line. A line ending in a backslash continues
// the question on the next line. Answers are printed by whatever subscribes to
// the conversation, typically PrinterFunc.
type REPL struct {
	controller *turn.Controller
	sessions   SessionStatus
	in         io.Reader
	out        io.Writer
}

func NewREPL(controller *turn.Controller, sessions SessionStatus, in io.Reader, out io.Writer) *REPL {
	return &REPL{
		controller: controller,
		sessions:   sessions,
		in:         in,
		out:        out,
	}
}

// Run returns on EOF, /quit, /exit or when ctx is done.
func (r *REPL) Run(ctx context.Context) error {
	select {
	case <-r.sessions.Done():
	case <-ctx.Done():
		return ctx.Err()
	}

	scanner := bufio.NewScanner(r.in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)

	var buf turn.LineBuffer
	r.printPrompt(&buf)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		line := scanner.Text()
		if buf.Value() == "" {
			switch strings.TrimSpace(line) {
			case "/quit", "/exit":
				return nil
			}
		}

		if buf.Feed(line) {
			if !r.controller.Submit(ctx, &buf) {
				log.Debug().Msg("question not submitted")
				buf.Reset()
			}
		}
		r.printPrompt(&buf)
	}

	return scanner.Err()
}

func (r *REPL) printPrompt(buf *turn.LineBuffer) {
	p := prompt
	if buf.Value() != "" {
		p = continuationPrompt
	}
	_, _ = fmt.Fprint(r.out, p)
}
