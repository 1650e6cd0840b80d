// Package tui implements the interactive chat terminal UI.
//
// The UI is a single conversation view following the Elm architecture:
// typed questions are sent to the chat service asynchronously and the
// reply is appended to the transcript when it arrives. One question is in
// flight at a time; input is ignored while waiting.
package tui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/civika-labs/faqd/internal/core/domain"
	"github.com/civika-labs/faqd/internal/core/ports/driving"
)

// replyArrived carries the outcome of one chat turn back into Update.
type replyArrived struct {
	reply domain.Reply
	err   error
}

// line is one rendered transcript entry.
type line struct {
	fromUser bool
	isError  bool
	text     string
}

// App is the chat TUI model. It implements tea.Model for use with
// Bubbletea.
type App struct {
	chat      driving.ChatService
	ctx       context.Context
	sessionID string
	styles    *Styles

	input   textinput.Model
	lines   []line
	waiting bool

	width  int
	height int
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates the chat UI bound to one fresh session.
func NewApp(chat driving.ChatService) (*App, error) {
	if chat == nil {
		return nil, errors.New("creating chat UI: chat service is required")
	}

	input := textinput.New()
	input.Placeholder = "Escribe tu pregunta..."
	input.CharLimit = 500
	input.Focus()

	return &App{
		chat:      chat,
		ctx:       context.Background(),
		sessionID: uuid.NewString(),
		styles:    DefaultStyles(),
		input:     input,
		width:     80,
		height:    24,
	}, nil
}

// WithContext sets the context used for chat service calls.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// SessionID returns the session this UI converses under.
func (a *App) SessionID() string {
	return a.sessionID
}

// Init initialises the model.
func (a *App) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.input.Width = max(msg.Width-6, 20)
		return a, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return a, tea.Quit
		case tea.KeyEnter:
			return a, a.submit()
		}

	case replyArrived:
		a.waiting = false
		if msg.err != nil {
			a.lines = append(a.lines, line{isError: true, text: msg.err.Error()})
		} else {
			a.lines = append(a.lines, line{text: msg.reply.Answer})
		}
		return a, nil
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

// submit sends the typed question to the chat service. It is a no-op while
// a previous question is still in flight or when the input is blank.
func (a *App) submit() tea.Cmd {
	if a.waiting {
		return nil
	}

	question := strings.TrimSpace(a.input.Value())
	if question == "" {
		return nil
	}

	a.lines = append(a.lines, line{fromUser: true, text: question})
	a.input.Reset()
	a.waiting = true

	return func() tea.Msg {
		reply, err := a.chat.Ask(a.ctx, a.sessionID, question)
		return replyArrived{reply: reply, err: err}
	}
}

// View renders the transcript, the input field and the footer hint.
func (a *App) View() string {
	var b strings.Builder

	b.WriteString(a.styles.Title.Render("faqd · asistente municipal"))
	b.WriteString("\n\n")

	wrap := lipgloss.NewStyle().Width(max(a.width-4, 20))
	for _, l := range a.lines {
		var styled string
		switch {
		case l.isError:
			styled = a.styles.Error.Render("! " + l.text)
		case l.fromUser:
			styled = a.styles.User.Render("> " + l.text)
		default:
			styled = a.styles.Assistant.Render(l.text)
		}
		b.WriteString(wrap.Render(styled))
		b.WriteString("\n\n")
	}

	if a.waiting {
		b.WriteString(a.styles.Help.Render("pensando..."))
		b.WriteString("\n\n")
	}

	b.WriteString(a.styles.InputField.Render(a.input.View()))
	b.WriteString("\n")
	b.WriteString(a.styles.Help.Render("enter: enviar · esc: salir"))
	b.WriteString("\n")

	return b.String()
}
