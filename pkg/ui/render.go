package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/muesli/reflow/wordwrap"
	"gopkg.in/yaml.v3"

	"github.com/go-go-golems/scholar/pkg/conversation"
)

var lineBreaks = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// Lines splits content on CRLF, LF and CR. Content is never interpreted as
// markup.
func Lines(content string) []string {
	return strings.Split(lineBreaks.Replace(content), "\n")
}

// RenderContent wraps every line of content to width and joins them with
// explicit line breaks. A width below one disables wrapping.
func RenderContent(content string, width int) string {
	lines := Lines(content)
	if width > 0 {
		for i, l := range lines {
			lines[i] = wordwrap.String(l, width)
		}
	}
	return strings.Join(lines, "\n")
}

// Header is the one-line caption of msg: who wrote it and when.
func Header(msg conversation.Message, now time.Time) string {
	when := humanize.RelTime(msg.Time, now, "ago", "from now")
	switch c := msg.Content.(type) {
	case *conversation.UserContent:
		return fmt.Sprintf("You · %s", when)
	case *conversation.AssistantContent:
		return fmt.Sprintf("%s %s · %s · %s", c.Subject.Icon(), c.Subject.DisplayName(), c.ModelUsed, when)
	case *conversation.ErrorContent:
		return fmt.Sprintf("Error · %s", when)
	default:
		return when
	}
}

// RenderMessage renders msg as a bordered block for the chat view.
func RenderMessage(msg conversation.Message, width int, style *Style, now time.Time) string {
	var box = style.UserMessage
	switch msg.Content.(type) {
	case *conversation.UserContent:
	case *conversation.AssistantContent:
		box = style.AssistantMessage
	case *conversation.ErrorContent:
		box = style.ErrorMessage
	}

	frame, _ := box.GetFrameSize()
	inner := width - frame
	if inner < 10 {
		inner = 10
	}

	var b strings.Builder
	b.WriteString(style.MessageHeader.Render(Header(msg, now)))
	b.WriteString("\n")
	b.WriteString(RenderContent(msg.Content.String(), inner))

	if a, ok := msg.Content.(*conversation.AssistantContent); ok && len(a.Sources) > 0 {
		b.WriteString("\n\n")
		b.WriteString(style.Source.Render("Sources:"))
		for _, s := range a.Sources {
			b.WriteString("\n")
			b.WriteString(style.Source.Render(RenderContent("• "+s.String(), inner)))
		}
	}

	return box.Width(width - box.GetHorizontalMargins() - box.GetHorizontalBorderSize()).Render(b.String())
}

// FormatPlain renders msg for line-oriented output, without styling.
func FormatPlain(msg conversation.Message) (string, error) {
	var b strings.Builder

	switch c := msg.Content.(type) {
	case *conversation.UserContent:
		fmt.Fprintf(&b, "> %s\n", RenderContent(c.Text, 0))

	case *conversation.AssistantContent:
		fmt.Fprintf(&b, "%s %s · %s\n", c.Subject.Icon(), c.Subject.DisplayName(), c.ModelUsed)
		b.WriteString(RenderContent(c.Text, 0))
		b.WriteString("\n")
		if len(c.Sources) > 0 {
			v, err := yaml.Marshal(map[string][]conversation.Source{"sources": c.Sources})
			if err != nil {
				return "", err
			}
			b.WriteString("\n")
			b.Write(v)
		}

	case *conversation.ErrorContent:
		fmt.Fprintf(&b, "! %s\n", RenderContent(c.Text, 0))
	}

	return b.String(), nil
}
