// Package ui presents a conversation: a bubbletea chat screen for terminals
// and a line-oriented REPL for everything else.
package ui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/go-go-golems/scholar/pkg/conversation"
	"github.com/go-go-golems/scholar/pkg/turn"
)

type State string

const (
	StateUserInput  State = "user_input"
	StateSubmitting State = "submitting"
)

// SessionStatus is the session as seen by the screen.
type SessionStatus interface {
	ID() (string, bool)
	Done() <-chan struct{}
}

type model struct {
	ctx        context.Context
	store      *conversation.Store
	controller *turn.Controller
	sessions   SessionStatus

	viewport viewport.Model
	textArea textarea.Model
	spinner  spinner.Model
	help     help.Model

	keyMap KeyMap
	style  *Style
	now    func() time.Time

	width  int
	height int

	state        State
	sessionReady bool
}

type refreshMessageMsg struct {
	GoToBottom bool
}

type turnFinishedMsg struct {
	Outcome turn.Outcome
}

type sessionDoneMsg struct{}

// textAreaBuffer lets the turn controller read and clear the compose box.
type textAreaBuffer struct {
	ta *textarea.Model
}

func (b textAreaBuffer) Value() string {
	return b.ta.Value()
}

func (b textAreaBuffer) Reset() {
	b.ta.Reset()
}

func InitialModel(
	ctx context.Context,
	store *conversation.Store,
	controller *turn.Controller,
	sessions SessionStatus,
	style *Style,
) model {
	ret := model{
		ctx:        ctx,
		store:      store,
		controller: controller,
		sessions:   sessions,
		style:      style,
		keyMap:     DefaultKeyMap,
		viewport:   viewport.New(0, 0),
		help:       help.New(),
		spinner:    spinner.New(spinner.WithSpinner(spinner.Dot)),
		now:        time.Now,
		state:      StateUserInput,
	}

	ret.textArea = textarea.New()
	ret.textArea.Placeholder = "Ask a question about photography, film, media or mathematics..."
	ret.textArea.ShowLineNumbers = false
	ret.textArea.CharLimit = 0
	ret.textArea.SetHeight(3)
	ret.textArea.KeyMap.InsertNewline = ret.keyMap.InsertNewline
	ret.textArea.Focus()

	_, ret.sessionReady = sessions.ID()

	ret.viewport.SetContent(ret.messageView())
	ret.viewport.GotoBottom()

	return ret
}

func (m model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.waitForSession())
}

func (m model) waitForSession() tea.Cmd {
	done := m.sessions.Done()
	return func() tea.Msg {
		<-done
		return sessionDoneMsg{}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keyMap.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keyMap.Help):
			m.help.ShowAll = !m.help.ShowAll
			m.recomputeSize()
			return m, nil

		case key.Matches(msg, m.keyMap.SubmitMessage):
			cmd = m.submit()
			return m, cmd

		case key.Matches(msg, m.keyMap.ScrollUp), key.Matches(msg, m.keyMap.ScrollDown):
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd

		default:
			// typing stays possible while a turn is in flight
			m.textArea, cmd = m.textArea.Update(msg)
			cmds = append(cmds, cmd)
			m.recomputeSize()
			return m, tea.Batch(cmds...)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.recomputeSize()

	case sessionDoneMsg:
		_, m.sessionReady = m.sessions.ID()

	case turnFinishedMsg:
		m.controller.Finish(msg.Outcome)
		m.state = StateUserInput
		m.recomputeSize()

	case spinner.TickMsg:
		if m.state == StateSubmitting {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case refreshMessageMsg:
		m.viewport.SetContent(m.messageView())
		if msg.GoToBottom {
			m.viewport.GotoBottom()
		}

	default:
		m.textArea, cmd = m.textArea.Update(msg)
		cmds = append(cmds, cmd)
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// submit starts a turn if the controller accepts the compose box. The remote
// call runs in the returned command and comes back as a turnFinishedMsg.
func (m *model) submit() tea.Cmd {
	t, ok := m.controller.Begin(textAreaBuffer{ta: &m.textArea})
	if !ok {
		return nil
	}

	m.state = StateSubmitting
	m.recomputeSize()

	ctx := m.ctx
	controller := m.controller
	return tea.Batch(
		m.spinner.Tick,
		func() tea.Msg {
			return turnFinishedMsg{Outcome: controller.Execute(ctx, t)}
		},
	)
}

func (m *model) recomputeSize() {
	headerHeight := lipgloss.Height(m.headerView())
	textAreaHeight := lipgloss.Height(m.textAreaView())
	helpViewHeight := lipgloss.Height(m.help.View(m.keyMap))

	newHeight := m.height - textAreaHeight - headerHeight - helpViewHeight
	if newHeight < 0 {
		newHeight = 0
	}
	m.viewport.Width = m.width
	m.viewport.Height = newHeight
	m.viewport.YPosition = headerHeight + 1

	w, _ := m.style.FocusedInput.GetFrameSize()
	m.textArea.SetWidth(m.width - w)
	m.help.Width = m.width

	m.viewport.SetContent(m.messageView())
	m.viewport.GotoBottom()
}

func (m model) headerView() string {
	subject := m.controller.CurrentSubject()
	header := m.style.Header.Render("SCHOLAR · " + subject.Icon() + " " + subject.DisplayName())

	var status string
	switch {
	case m.state == StateSubmitting:
		status = m.spinner.View() + " thinking..."
	case !m.sessionReady:
		select {
		case <-m.sessions.Done():
		default:
			status = "connecting..."
		}
	}
	if status == "" {
		return header
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, header, m.style.Status.Render(status))
}

func (m model) messageView() string {
	msgs := m.store.Snapshot()
	if len(msgs) == 0 {
		return m.style.Status.Render("Ask anything. Answers cite university sources where they can.")
	}

	now := m.now()
	views := make([]string, 0, len(msgs))
	for _, msg := range msgs {
		views = append(views, RenderMessage(msg, m.width, m.style, now))
	}
	return strings.Join(views, "\n")
}

func (m model) textAreaView() string {
	v := m.textArea.View()
	if m.state == StateUserInput {
		return m.style.FocusedInput.Render(v)
	}
	return m.style.BlurredInput.Render(v)
}

func (m model) View() string {
	return m.headerView() + "\n" + m.viewport.View() + "\n" + m.textAreaView() + "\n" + m.help.View(m.keyMap)
}
