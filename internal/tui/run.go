package tui

import (
	"context"
	"errors"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/primer-app/primer/internal/cli"
	"github.com/primer-app/primer/internal/model"
)

// Review runs the full-screen review until the user confirms or cancels.
// A nil in or out uses the terminal.
func Review(ctx context.Context, draft model.CalendarEventDraft, reasons []model.ConfirmationReason, in io.Reader, out io.Writer) (model.CalendarEventDraft, cli.Decision, error) {
	opts := []tea.ProgramOption{tea.WithContext(ctx)}
	if in != nil {
		opts = append(opts, tea.WithInput(in))
	}
	if out != nil {
		opts = append(opts, tea.WithOutput(out))
	}

	final, err := tea.NewProgram(NewModel(draft, reasons), opts...).Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return draft, cli.DecisionCancel, ctx.Err()
		}
		return draft, cli.DecisionCancel, fmt.Errorf("draft review failed: %w", err)
	}

	m, ok := final.(Model)
	if !ok {
		return draft, cli.DecisionCancel, fmt.Errorf("unexpected model type %T", final)
	}
	return m.Draft(), m.Decision(), nil
}
