package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/primer-app/primer/internal/cli"
	"github.com/primer-app/primer/internal/config"
	"github.com/primer-app/primer/internal/reminder"
)

func remindCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remind",
		Short: "Notify about upcoming events until interrupted",
		Long: `Poll the calendar and print a notification shortly before each event
starts. Runs until interrupted with Ctrl+C.`,
		RunE: runRemind,
	}

	cmd.Flags().Duration("before", 0, "lead time before an event (default from reminders.before)")
	cmd.Flags().Duration("interval", 0, "poll interval (default from reminders.check_interval)")
	_ = viper.BindPFlag(config.KeyReminderBefore, cmd.Flags().Lookup("before"))
	_ = viper.BindPFlag(config.KeyReminderInterval, cmd.Flags().Lookup("interval"))

	return cmd
}

func runRemind(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()

	cfg, err := config.LoadReminderConfig(viper.GetViper())
	if err != nil {
		return err
	}

	interrupts := cli.NewInterruptHandler(out, "Reminders stopped.")
	ctx, stop := interrupts.HandleInterrupts(cmd.Context())
	defer stop()

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	scheduler := reminder.NewWithConfig(a.calendar, cli.NewTerminalNotifier(out), a.session, cfg)
	if err := scheduler.Start(ctx); err != nil {
		return fmt.Errorf("failed to start reminders: %w", err)
	}
	defer scheduler.Stop()

	msg := fmt.Sprintf("Watching for events starting within %s (checking every %s).", cfg.ReminderBefore, cfg.CheckInterval)
	if _, err := fmt.Fprintln(out, cli.FormatInfo(msg)); err != nil {
		slog.Warn("Failed to write status", "error", err)
	}

	<-ctx.Done()
	return nil
}
