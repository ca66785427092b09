// Package tui provides a full-screen draft review built on bubbletea.
package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/primer-app/primer/internal/cli"
	"github.com/primer-app/primer/internal/model"
)

// State is the screen the review is on.
type State int

// Review states.
const (
	StateReviewing State = iota
	StateEditingTitle
	StateDone
)

// Model is the bubbletea model for reviewing one draft.
type Model struct {
	keys     KeyMap
	help     help.Model
	input    textinput.Model
	reasons  []model.ConfirmationReason
	draft    model.CalendarEventDraft
	state    State
	decision cli.Decision
	width    int
}

// NewModel creates a review for draft.
func NewModel(draft model.CalendarEventDraft, reasons []model.ConfirmationReason) Model {
	input := textinput.New()
	input.Placeholder = "Event title"
	input.CharLimit = 120

	return Model{
		keys:     DefaultKeyMap(),
		help:     help.New(),
		input:    input,
		draft:    draft,
		reasons:  reasons,
		state:    StateReviewing,
		decision: cli.DecisionCancel,
	}
}

// Draft returns the draft including any edits.
func (m Model) Draft() model.CalendarEventDraft {
	return m.draft
}

// Decision returns how the review ended. It is DecisionCancel until the user
// confirms.
func (m Model) Decision() cli.Decision {
	return m.decision
}

// State returns the current screen.
func (m Model) State() State {
	return m.state
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.ForceQuit) {
			return m.finish(cli.DecisionCancel)
		}
		if m.state == StateEditingTitle {
			return m.updateEditing(msg)
		}
		return m.updateReviewing(msg)
	}

	if m.state == StateEditingTitle {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updateReviewing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		return m.finish(cli.DecisionConfirm)
	case key.Matches(msg, m.keys.Cancel):
		return m.finish(cli.DecisionCancel)
	case key.Matches(msg, m.keys.EditTitle):
		m.state = StateEditingTitle
		m.input.SetValue(m.draft.Title)
		m.input.CursorEnd()
		return m, m.input.Focus()
	}
	return m, nil
}

func (m Model) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		if title := strings.TrimSpace(m.input.Value()); title != "" {
			m.draft.Title = title
		}
		m.input.Blur()
		m.state = StateReviewing
		return m, nil
	case key.Matches(msg, m.keys.Back):
		m.input.Blur()
		m.state = StateReviewing
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) finish(decision cli.Decision) (tea.Model, tea.Cmd) {
	m.decision = decision
	m.state = StateDone
	return m, tea.Quit
}

// View implements tea.Model.
func (m Model) View() string {
	if m.state == StateDone {
		return ""
	}

	var b strings.Builder
	b.WriteString(cli.RenderBox(cli.CalendarIcon+" New event", cli.FormatDraft(m.draft, m.reasons)))
	b.WriteString("\n\n")

	if m.state == StateEditingTitle {
		b.WriteString(cli.FormatPrompt("Title"))
		b.WriteString(m.input.View())
		b.WriteString("\n\n")
		b.WriteString(m.help.ShortHelpView(m.keys.editHelp()))
	} else {
		b.WriteString(m.help.ShortHelpView(m.keys.reviewHelp()))
	}
	b.WriteString("\n")
	return b.String()
}
