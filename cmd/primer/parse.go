package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/primer-app/primer/internal/cli"
	"github.com/primer-app/primer/internal/config"
	"github.com/primer-app/primer/internal/ics"
	"github.com/primer-app/primer/internal/model"
	"github.com/primer-app/primer/internal/parser"
)

func parseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse [text]",
		Short: "Show the action plan for a piece of assistant text",
		Long: `Run the intent detector and confidence scorer over assistant text and
print the resulting plan. Nothing is written to the calendar.

Text is read from the arguments, or from stdin when none are given.`,
		Example: `  primer parse "I'll schedule a meeting tomorrow at 2pm for 1 hour"
  echo "Let's do a call sometime next week" | primer parse --json
  primer parse --now 2025-01-15T10:30:00Z --ics - "Create an event for Friday at 9am"`,
		RunE: runParse,
	}

	cmd.Flags().String("now", "", "reference time in RFC 3339 (default: current time)")
	cmd.Flags().String("ics", "", "also write the draft as iCalendar to this file ('-' for stdout)")
	cmd.Flags().Bool("json", false, "print the plan as JSON")
	cmd.Flags().Int("occurrences", 3, "upcoming occurrences to show for repeating events")

	return cmd
}

// planOutput is the JSON shape printed by parse --json.
type planOutput struct {
	StartAt              time.Time                  `json:"start_at"`
	EndAt                time.Time                  `json:"end_at"`
	Action               model.ActionType           `json:"action"`
	Title                string                     `json:"title"`
	Description          string                     `json:"description,omitempty"`
	Recurrence           string                     `json:"recurrence,omitempty"`
	Reason               model.ConfirmationReason   `json:"reason,omitempty"`
	Reasons              []model.ConfirmationReason `json:"reasons,omitempty"`
	ConfidenceScore      float64                    `json:"confidence_score"`
	RequiresConfirmation bool                       `json:"requires_confirmation"`
}

func runParse(cmd *cobra.Command, args []string) error {
	text, err := readText(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}

	now := time.Now()
	if raw, _ := cmd.Flags().GetString("now"); raw != "" {
		now, err = time.Parse(time.RFC3339, raw)
		if err != nil {
			return fmt.Errorf("invalid --now: %w", err)
		}
	}

	p, err := config.LoadParser(viper.GetViper())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	plan := p.Parse(text, now)
	if plan == nil {
		_, err := fmt.Fprintln(out, cli.FormatInfo("No calendar event detected."))
		return err
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(toPlanOutput(plan)); err != nil {
			return fmt.Errorf("failed to encode plan: %w", err)
		}
	} else {
		n, _ := cmd.Flags().GetInt("occurrences")
		if err := printPlan(out, plan, n); err != nil {
			return err
		}
	}

	if path, _ := cmd.Flags().GetString("ics"); path != "" {
		return writeDraftICS(out, path, plan.Payload, now)
	}
	return nil
}

func readText(in io.Reader, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(in)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return "", errors.New("no text given")
	}
	return text, nil
}

func toPlanOutput(plan *model.ActionPlan) planOutput {
	return planOutput{
		Action:               plan.Action,
		Title:                plan.Payload.Title,
		Description:          plan.Payload.Description,
		StartAt:              plan.Payload.StartAt,
		EndAt:                plan.Payload.EndAt,
		Recurrence:           plan.Payload.Recurrence,
		ConfidenceScore:      plan.ConfidenceScore,
		RequiresConfirmation: plan.RequiresConfirmation,
		Reason:               plan.Reason,
		Reasons:              plan.Reasons,
	}
}

func printPlan(w io.Writer, plan *model.ActionPlan, occurrences int) error {
	verdict := cli.FormatSuccess("Would be created directly")
	if plan.RequiresConfirmation {
		verdict = cli.FormatWarning("Needs confirmation")
	}

	body := fmt.Sprintf("%s\n\nConfidence: %.2f\n%s", cli.FormatDraft(plan.Payload, plan.Reasons), plan.ConfidenceScore, verdict)
	if _, err := fmt.Fprintln(w, cli.RenderBox(string(plan.Action), body)); err != nil {
		return fmt.Errorf("failed to write plan: %w", err)
	}

	if plan.Payload.Recurrence == "" || occurrences <= 0 {
		return nil
	}
	times, err := parser.NextOccurrences(plan.Payload, occurrences)
	if err != nil {
		_, werr := fmt.Fprintln(w, cli.FormatWarning("Could not expand recurrence: "+err.Error()))
		return werr
	}
	for _, t := range times {
		if _, err := fmt.Fprintf(w, "  %s %s\n", cli.RepeatIcon, parser.FormatEventRange(t, t.Add(plan.Payload.Duration()))); err != nil {
			return fmt.Errorf("failed to write occurrence: %w", err)
		}
	}
	return nil
}

func writeDraftICS(stdout io.Writer, path string, draft model.CalendarEventDraft, now time.Time) error {
	exporter := ics.NewExporter(func() time.Time { return now })

	if path == "-" {
		return exporter.ExportDrafts(stdout, draft)
	}

	f, err := os.Create(config.ExpandPath(path))
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := exporter.ExportDrafts(f, draft); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	_, err = fmt.Fprintln(stdout, cli.FormatSuccess("Wrote "+path))
	return err
}
