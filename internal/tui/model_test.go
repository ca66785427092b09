package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/primer-app/primer/internal/cli"
	"github.com/primer-app/primer/internal/model"
)

func testDraft() model.CalendarEventDraft {
	start := time.Date(2025, time.January, 16, 14, 0, 0, 0, time.UTC)
	return model.CalendarEventDraft{Title: "Budget Review", StartAt: start, EndAt: start.Add(time.Hour)}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// send feeds messages through Update and returns the final model and the
// last command.
func send(t *testing.T, m Model, msgs ...tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		var ok bool
		m, ok = next.(Model)
		require.True(t, ok)
	}
	return m, cmd
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestModel_Decisions(t *testing.T) {
	tests := []struct {
		name     string
		msgs     []tea.Msg
		expected cli.Decision
	}{
		{name: "confirm with c", msgs: []tea.Msg{runes("c")}, expected: cli.DecisionConfirm},
		{name: "confirm with enter", msgs: []tea.Msg{tea.KeyMsg{Type: tea.KeyEnter}}, expected: cli.DecisionConfirm},
		{name: "cancel with x", msgs: []tea.Msg{runes("x")}, expected: cli.DecisionCancel},
		{name: "cancel with esc", msgs: []tea.Msg{tea.KeyMsg{Type: tea.KeyEsc}}, expected: cli.DecisionCancel},
		{name: "ctrl+c", msgs: []tea.Msg{tea.KeyMsg{Type: tea.KeyCtrlC}}, expected: cli.DecisionCancel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, cmd := send(t, NewModel(testDraft(), nil), tt.msgs...)
			assert.Equal(t, tt.expected, m.Decision())
			assert.Equal(t, StateDone, m.State())
			assert.True(t, isQuit(cmd))
			assert.Empty(t, m.View())
		})
	}
}

func TestModel_EditTitle(t *testing.T) {
	m, _ := send(t, NewModel(testDraft(), nil), runes("t"))
	require.Equal(t, StateEditingTitle, m.State())
	assert.Contains(t, m.View(), "Title")

	// Clear the prefilled title and type a new one.
	backspaces := make([]tea.Msg, 0, len("Budget Review"))
	for range "Budget Review" {
		backspaces = append(backspaces, tea.KeyMsg{Type: tea.KeyBackspace})
	}
	m, _ = send(t, m, backspaces...)
	m, _ = send(t, m, runes("Q3 Budget"), tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, StateReviewing, m.State())
	assert.Equal(t, "Q3 Budget", m.Draft().Title)

	m, cmd := send(t, m, runes("c"))
	assert.True(t, isQuit(cmd))
	assert.Equal(t, cli.DecisionConfirm, m.Decision())
	assert.Equal(t, "Q3 Budget", m.Draft().Title)
}

func TestModel_EditTitleDiscarded(t *testing.T) {
	m, _ := send(t, NewModel(testDraft(), nil), runes("t"), runes(" v2"), tea.KeyMsg{Type: tea.KeyEsc})

	assert.Equal(t, StateReviewing, m.State())
	assert.Equal(t, "Budget Review", m.Draft().Title)
}

func TestModel_EditTitleBlankKeepsTitle(t *testing.T) {
	m, _ := send(t, NewModel(testDraft(), nil), runes("t"))
	backspaces := make([]tea.Msg, 0, len("Budget Review"))
	for range "Budget Review" {
		backspaces = append(backspaces, tea.KeyMsg{Type: tea.KeyBackspace})
	}
	m, _ = send(t, m, backspaces...)
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, "Budget Review", m.Draft().Title)
}

func TestModel_View(t *testing.T) {
	m := NewModel(testDraft(), []model.ConfirmationReason{model.ReasonAmbiguousTime})
	m, _ = send(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})

	view := m.View()
	assert.Contains(t, view, "Budget Review")
	assert.Contains(t, view, "Thu, Jan 16 · 2:00 PM - 3:00 PM")
	assert.Contains(t, view, "Please check: ambiguous_time")
	assert.Contains(t, view, "confirm")
	assert.Contains(t, view, "edit title")
}

func TestModel_UnknownKeyIgnored(t *testing.T) {
	m, cmd := send(t, NewModel(testDraft(), nil), runes("z"))
	assert.Nil(t, cmd)
	assert.Equal(t, StateReviewing, m.State())
}
