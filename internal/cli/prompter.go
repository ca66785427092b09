package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/primer-app/primer/internal/model"
	"github.com/primer-app/primer/internal/parser"
)

// ErrInputTerminated is returned when the input stream ends mid-prompt.
var ErrInputTerminated = errors.New("input terminated")

// Decision is the outcome of reviewing a draft.
type Decision string

// Review outcomes.
const (
	DecisionConfirm Decision = "confirm"
	DecisionCancel  Decision = "cancel"
)

// PreviewPrompter shows event drafts in the terminal and asks the user what
// to do with them.
type PreviewPrompter struct {
	writer io.Writer
	reader *LineReader
}

// NewPreviewPrompter creates a prompter reading from r and writing to w,
// defaulting to stdin and stdout.
func NewPreviewPrompter(r io.Reader, w io.Writer) *PreviewPrompter {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	return &PreviewPrompter{
		reader: NewLineReader(r),
		writer: w,
	}
}

// Review renders the draft and loops until the user confirms or cancels.
// Title edits are applied to the returned draft.
func (p *PreviewPrompter) Review(ctx context.Context, draft model.CalendarEventDraft, reasons []model.ConfirmationReason) (model.CalendarEventDraft, Decision, error) {
	for {
		if _, err := fmt.Fprintln(p.writer, RenderBox("New event", FormatDraft(draft, reasons))); err != nil {
			return draft, DecisionCancel, fmt.Errorf("failed to write draft card: %w", err)
		}
		if _, err := fmt.Fprintln(p.writer, "  [C] Confirm and add to calendar\n  [T] Edit title\n  [X] Cancel"); err != nil {
			return draft, DecisionCancel, fmt.Errorf("failed to write options: %w", err)
		}

		choice, err := p.promptChoice(ctx, "Choice", []string{"c", "t", "x"})
		if err != nil {
			return draft, DecisionCancel, err
		}

		switch choice {
		case "c":
			return draft, DecisionConfirm, nil
		case "x":
			return draft, DecisionCancel, nil
		case "t":
			title, err := p.promptText(ctx, "New title")
			if err != nil {
				return draft, DecisionCancel, err
			}
			draft.Title = title
		}
	}
}

// OfferUndo announces a directly created event and waits until its undo
// window closes for the user to ask for an undo.
func (p *PreviewPrompter) OfferUndo(ctx context.Context, recent *model.RecentlyCreatedEvent) (bool, error) {
	if recent == nil {
		return false, nil
	}

	msg := fmt.Sprintf("Added %q to your calendar. Type u and press Enter to undo.", recent.Title)
	if _, err := fmt.Fprintln(p.writer, FormatSuccess(msg)); err != nil {
		return false, fmt.Errorf("failed to write undo offer: %w", err)
	}

	ctx, cancel := context.WithDeadline(ctx, recent.ExpiresAt)
	defer cancel()

	line, err := p.reader.ReadLine(ctx)
	switch {
	case errors.Is(err, ErrInputCancelled), errors.Is(err, io.EOF):
		return false, nil
	case err != nil:
		return false, err
	}
	return strings.EqualFold(line, "u"), nil
}

// FormatDraft renders the fields of a draft, one per line.
func FormatDraft(draft model.CalendarEventDraft, reasons []model.ConfirmationReason) string {
	var b strings.Builder
	b.WriteString(BoldStyle.Render(draft.Title))
	b.WriteString("\n")
	b.WriteString(parser.FormatEventRange(draft.StartAt, draft.EndAt))
	fmt.Fprintf(&b, " (%s)", formatMinutes(int(draft.Duration().Minutes())))
	if draft.HasDescription() {
		b.WriteString("\n")
		b.WriteString(SubtleStyle.Render(draft.Description))
	}
	if draft.Recurrence != "" {
		b.WriteString("\n")
		b.WriteString(RepeatIcon + " " + draft.Recurrence)
	}
	if len(reasons) > 0 {
		seen := make(map[model.ConfirmationReason]bool, len(reasons))
		names := make([]string, 0, len(reasons))
		for _, r := range reasons {
			if !seen[r] {
				seen[r] = true
				names = append(names, string(r))
			}
		}
		b.WriteString("\n")
		b.WriteString(WarningStyle.Render("Please check: " + strings.Join(names, ", ")))
	}
	return b.String()
}

func formatMinutes(minutes int) string {
	switch {
	case minutes < 60:
		return fmt.Sprintf("%d min", minutes)
	case minutes%60 == 0:
		return fmt.Sprintf("%d h", minutes/60)
	default:
		return fmt.Sprintf("%d h %d min", minutes/60, minutes%60)
	}
}

func (p *PreviewPrompter) promptChoice(ctx context.Context, prompt string, validChoices []string) (string, error) {
	for {
		if _, err := fmt.Fprint(p.writer, FormatPrompt(prompt)); err != nil {
			return "", fmt.Errorf("failed to write prompt: %w", err)
		}

		input, err := p.readLine(ctx)
		if err != nil {
			return "", err
		}

		choice := strings.ToLower(input)
		for _, valid := range validChoices {
			if choice == valid {
				return choice, nil
			}
		}

		if _, err := fmt.Fprintln(p.writer, FormatError("Invalid choice. Please try again.")); err != nil {
			slog.Warn("Failed to write error message", "error", err)
		}
	}
}

func (p *PreviewPrompter) promptText(ctx context.Context, prompt string) (string, error) {
	for {
		if _, err := fmt.Fprint(p.writer, FormatPrompt(prompt)); err != nil {
			return "", fmt.Errorf("failed to write prompt: %w", err)
		}

		input, err := p.readLine(ctx)
		if err != nil {
			return "", err
		}
		if input != "" {
			return input, nil
		}

		if _, err := fmt.Fprintln(p.writer, FormatError("Value cannot be empty. Please try again.")); err != nil {
			slog.Warn("Failed to write empty value error", "error", err)
		}
	}
}

func (p *PreviewPrompter) readLine(ctx context.Context) (string, error) {
	line, err := p.reader.ReadLine(ctx)
	switch {
	case errors.Is(err, io.EOF):
		return "", ErrInputTerminated
	case errors.Is(err, ErrInputCancelled):
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", err
	}
	return line, err
}
