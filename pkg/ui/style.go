package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/go-go-golems/scholar/pkg/settings"
)

type Style struct {
	Header          lipgloss.Style
	Status          lipgloss.Style
	MessageHeader   lipgloss.Style
	UserMessage     lipgloss.Style
	AssistantMessage lipgloss.Style
	ErrorMessage    lipgloss.Style
	Source          lipgloss.Style
	FocusedInput    lipgloss.Style
	BlurredInput    lipgloss.Style
}

type BorderColors struct {
	User      string
	Assistant string
	Error     string
	Focused   string
	Blurred   string
}

// DefaultStyles returns the palette. Dark and light themes pin lipgloss'
// background detection, auto leaves it to the terminal.
func DefaultStyles(theme settings.Theme) *Style {
	switch theme {
	case settings.ThemeDark:
		lipgloss.SetHasDarkBackground(true)
	case settings.ThemeLight:
		lipgloss.SetHasDarkBackground(false)
	case settings.ThemeAuto:
	}

	lightModeColors := BorderColors{
		User:      "#87AFD7",
		Assistant: "#FFB6C1", // Light pink
		Error:     "#D70000",
		Focused:   "#FFFF99", // Light yellow
		Blurred:   "#CCCCCC",
	}

	darkModeColors := BorderColors{
		User:      "#5F87AF",
		Assistant: "#DD7090",
		Error:     "#FF5F5F",
		Focused:   "#DDDD77",
		Blurred:   "#444444",
	}

	border := func(light, dark string) lipgloss.Style {
		return lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).
			Padding(0, 1).
			BorderForeground(lipgloss.AdaptiveColor{Light: light, Dark: dark})
	}

	return &Style{
		Header: lipgloss.NewStyle().Bold(true).Padding(0, 1),
		Status: lipgloss.NewStyle().Faint(true).Padding(0, 1),
		MessageHeader: lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#585858", Dark: "#BCBCBC"}),
		UserMessage:     border(lightModeColors.User, darkModeColors.User),
		AssistantMessage: border(lightModeColors.Assistant, darkModeColors.Assistant),
		ErrorMessage:    border(lightModeColors.Error, darkModeColors.Error),
		Source:          lipgloss.NewStyle().Faint(true),
		FocusedInput: lipgloss.NewStyle().Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.AdaptiveColor{Light: lightModeColors.Focused, Dark: darkModeColors.Focused}),
		BlurredInput: lipgloss.NewStyle().Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.AdaptiveColor{Light: lightModeColors.Blurred, Dark: darkModeColors.Blurred}),
	}
}
