package ui

import (
	"github.com/ThreeDotsLabs/watermill/message"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/go-go-golems/scholar/pkg/events"
)

// StoreForwardFunc is a router handler turning conversation events into
// screen refreshes of p. The router feeding it must not block publishers,
// since appends happen on the program's update loop.
func StoreForwardFunc(p *tea.Program) func(msg *message.Message) error {
	return func(msg *message.Message) error {
		msg.Ack()

		if _, err := events.MessageAppendedFromJSON(msg.Payload); err != nil {
			return err
		}

		p.Send(refreshMessageMsg{GoToBottom: true})
		return nil
	}
}
