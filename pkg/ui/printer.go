package ui

import (
	"io"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/go-go-golems/scholar/pkg/conversation"
	"github.com/go-go-golems/scholar/pkg/events"
)

// PrinterFunc is a router handler printing every appended answer or error
// notice to w. User messages are skipped, the user just typed them.
func PrinterFunc(w io.Writer) func(msg *message.Message) error {
	return func(msg *message.Message) error {
		defer msg.Ack()

		e, err := events.MessageAppendedFromJSON(msg.Payload)
		if err != nil {
			return err
		}
		if e.Message.ContentType() == conversation.ContentTypeUser {
			return nil
		}

		s, err := FormatPlain(e.Message)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, s)
		return err
	}
}
