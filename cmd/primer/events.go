package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/primer-app/primer/internal/cli"
	"github.com/primer-app/primer/internal/config"
	"github.com/primer-app/primer/internal/ics"
	"github.com/primer-app/primer/internal/model"
	"github.com/primer-app/primer/internal/parser"
)

func eventsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "List, export and delete calendar events",
	}

	cmd.AddCommand(eventsListCmd())
	cmd.AddCommand(eventsDeleteCmd())
	cmd.AddCommand(eventsExportCmd())

	return cmd
}

func eventsListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List your events",
		RunE:  runEventsList,
	}
	cmd.Flags().Bool("upcoming", false, "only show events that have not ended")
	return cmd
}

func runEventsList(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	events, err := a.calendar.GetEvents(ctx, a.session.UserID)
	if err != nil {
		return describeCalendarError(err)
	}

	if upcoming, _ := cmd.Flags().GetBool("upcoming"); upcoming {
		events = filterUpcoming(events, time.Now())
	}

	out := cmd.OutOrStdout()
	if len(events) == 0 {
		_, err := fmt.Fprintln(out, cli.FormatInfo("No events."))
		return err
	}
	return printEvents(out, events)
}

func filterUpcoming(events []model.CalendarEvent, now time.Time) []model.CalendarEvent {
	kept := events[:0]
	for _, e := range events {
		if e.EndAt.After(now) {
			kept = append(kept, e)
		}
	}
	return kept
}

func printEvents(w io.Writer, events []model.CalendarEvent) error {
	header := lipgloss.NewStyle().Bold(true).PaddingRight(2)
	cell := lipgloss.NewStyle().PaddingRight(2)

	rows := [][]string{{"ID", "WHEN", "TITLE", "SOURCE"}}
	for _, e := range events {
		id := e.ID
		if id == "" {
			id = "(remote)"
		}
		title := e.Title
		if e.Recurrence != "" {
			title += " " + cli.RepeatIcon
		}
		rows = append(rows, []string{id, parser.FormatEventRange(e.StartAt.Local(), e.EndAt.Local()), title, e.CreatedBy})
	}

	widths := make([]int, len(rows[0]))
	for _, row := range rows {
		for i, col := range row {
			widths[i] = max(widths[i], lipgloss.Width(col))
		}
	}

	for i, row := range rows {
		style := cell
		if i == 0 {
			style = header
		}
		cols := make([]string, len(row))
		for j, col := range row {
			cols[j] = style.Width(widths[j] + 2).Render(col)
		}
		if _, err := fmt.Fprintln(w, strings.TrimRight(lipgloss.JoinHorizontal(lipgloss.Top, cols...), " ")); err != nil {
			return fmt.Errorf("failed to write event row: %w", err)
		}
	}
	return nil
}

func eventsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <event-id>",
		Short: "Delete an event from the calendar and the local store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.calendar.DeleteEvent(ctx, a.session.UserID, args[0]); err != nil {
				return describeCalendarError(err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Deleted "+args[0]))
			return err
		},
	}
}

func eventsExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write your events as an iCalendar file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			events, err := a.calendar.GetEvents(ctx, a.session.UserID)
			if err != nil {
				return describeCalendarError(err)
			}

			path, _ := cmd.Flags().GetString("output")
			var w io.Writer = cmd.OutOrStdout()
			if path != "-" {
				f, err := os.Create(config.ExpandPath(path))
				if err != nil {
					return fmt.Errorf("failed to create %s: %w", path, err)
				}
				defer func() { _ = f.Close() }()
				w = f
			}
			return ics.NewExporter(nil).ExportEvents(w, events...)
		},
	}
	cmd.Flags().StringP("output", "o", "-", "output file ('-' for stdout)")
	return cmd
}
