package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/primer-app/primer/internal/model"
	"github.com/primer-app/primer/internal/service"
)

// TerminalNotifier prints notifications to a terminal. Duration is not
// enforced; a printed line stays in the scrollback.
type TerminalNotifier struct {
	writer io.Writer
	mu     sync.Mutex
}

// NewTerminalNotifier creates a notifier writing to w, or stdout when nil.
func NewTerminalNotifier(w io.Writer) *TerminalNotifier {
	if w == nil {
		w = os.Stdout
	}
	return &TerminalNotifier{writer: w}
}

// AddNotification implements service.Notifier.
func (n *TerminalNotifier) AddNotification(_ context.Context, notification model.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if _, err := fmt.Fprintln(n.writer, FormatNotification(notification)); err != nil {
		slog.Warn("Failed to write notification", "title", notification.Title, "error", err)
	}
}

// FormatNotification renders a notification as a styled line with its
// message and action labels.
func FormatNotification(notification model.Notification) string {
	header := notification.Title
	if notification.Message != "" {
		header += ": " + notification.Message
	}

	var line string
	switch notification.Type {
	case model.NotificationSuccess:
		line = FormatSuccess(header)
	case model.NotificationWarning:
		line = FormatWarning(header)
	case model.NotificationError:
		line = FormatError(header)
	default:
		line = InfoStyle.Render(header)
	}

	if len(notification.Actions) == 0 {
		return line
	}
	labels := make([]string, 0, len(notification.Actions))
	for _, action := range notification.Actions {
		labels = append(labels, "["+action.Label+"]")
	}
	return line + " " + SubtleStyle.Render(strings.Join(labels, " "))
}

var _ service.Notifier = (*TerminalNotifier)(nil)
