package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/primer-app/primer/internal/cli"
	"github.com/primer-app/primer/internal/common"
	"github.com/primer-app/primer/internal/config"
	"github.com/primer-app/primer/internal/engine"
	"github.com/primer-app/primer/internal/model"
	"github.com/primer-app/primer/internal/parser"
	"github.com/primer-app/primer/internal/preview"
	"github.com/primer-app/primer/internal/tui"
)

func handleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "handle [text]",
		Short: "Act on assistant text: create, preview or ignore",
		Long: `Route assistant text the way the chat surface does.

Confident events are created immediately and can be undone until the undo
window closes. Uncertain events are shown as a draft you can confirm, retitle
or cancel. Text without a calendar event is ignored.`,
		RunE: runHandle,
	}

	cmd.Flags().Duration("undo-window", preview.UndoWindow, "how long a direct creation can be undone")
	cmd.Flags().Bool("tui", false, "review drafts in a full-screen view")

	return cmd
}

func runHandle(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	text, err := readText(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}

	p, err := config.LoadParser(viper.GetViper())
	if err != nil {
		return err
	}

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	undoWindow, _ := cmd.Flags().GetDuration("undo-window")
	controller := preview.NewController(a.calendar, a.session, preview.WithUndoWindow(undoWindow))

	handler := engine.NewWithConfig(controller, engine.Config{
		Parser: p,
		OnEventDetected: func(draft model.CalendarEventDraft, requiresConfirmation bool) {
			slog.Debug("Routing event", "title", draft.Title, "requires_confirmation", requiresConfirmation)
		},
	})

	detected, err := handler.ProcessAIResponseErr(ctx, text)
	if err != nil {
		return describeCalendarError(err)
	}
	if !detected {
		_, err := fmt.Fprintln(out, cli.FormatInfo("No calendar event detected."))
		return err
	}

	prompter := cli.NewPreviewPrompter(cmd.InOrStdin(), out)

	if state := controller.State(); state.IsPreviewVisible && state.Draft != nil {
		_, reasons := parser.Score(*state.Draft, text)
		var (
			edited   model.CalendarEventDraft
			decision cli.Decision
		)
		if useTUI, _ := cmd.Flags().GetBool("tui"); useTUI {
			edited, decision, err = tui.Review(ctx, *state.Draft, reasons, nil, nil)
		} else {
			edited, decision, err = prompter.Review(ctx, *state.Draft, reasons)
		}
		if err != nil {
			controller.HidePreview()
			return err
		}
		if decision == cli.DecisionCancel {
			controller.HidePreview()
			_, err := fmt.Fprintln(out, cli.FormatInfo("Draft discarded."))
			return err
		}

		controller.UpdateDraft(func(d *model.CalendarEventDraft) { d.Title = edited.Title })
		if err := controller.ConfirmEvent(ctx); err != nil {
			return describeCalendarError(err)
		}
		_, err = fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Added %q to your calendar.", edited.Title)))
		return err
	}

	undo, err := prompter.OfferUndo(ctx, controller.RecentlyCreated())
	if err != nil || !undo {
		return err
	}
	if err := controller.UndoRecentEvent(ctx); err != nil {
		return describeCalendarError(err)
	}
	_, err = fmt.Fprintln(out, cli.FormatInfo("Event removed."))
	return err
}

// describeCalendarError turns an expired session into an actionable message.
func describeCalendarError(err error) error {
	if common.IsSessionExpired(err) {
		return common.NewUserError("Google session expired, run 'primer auth google'", err)
	}
	return err
}
