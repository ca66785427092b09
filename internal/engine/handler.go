// Package engine routes assistant responses that announce calendar events to
// either direct creation or a confirmation preview.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/primer-app/primer/internal/clock"
	"github.com/primer-app/primer/internal/model"
	"github.com/primer-app/primer/internal/parser"
)

// DetectionFunc observes every detected event before it is routed.
type DetectionFunc func(draft model.CalendarEventDraft, requiresConfirmation bool)

// Config holds configuration options for the event handler.
type Config struct {
	OnEventDetected DetectionFunc
	Parser          *parser.Parser
	Clock           clock.Clock
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Parser: parser.New(),
		Clock:  clock.Real{},
	}
}

// EventHandler turns assistant text into calendar actions.
type EventHandler struct {
	previewer       Previewer
	parser          *parser.Parser
	clock           clock.Clock
	onEventDetected DetectionFunc
}

// New creates an event handler with the default configuration.
func New(previewer Previewer) *EventHandler {
	return NewWithConfig(previewer, DefaultConfig())
}

// NewWithConfig creates an event handler with custom configuration.
// Zero-valued fields fall back to their defaults.
func NewWithConfig(previewer Previewer, config Config) *EventHandler {
	defaults := DefaultConfig()
	if config.Parser == nil {
		config.Parser = defaults.Parser
	}
	if config.Clock == nil {
		config.Clock = defaults.Clock
	}
	return &EventHandler{
		previewer:       previewer,
		parser:          config.Parser,
		clock:           config.Clock,
		onEventDetected: config.OnEventDetected,
	}
}

// ProcessAIResponse parses text and routes any detected event. It reports
// whether an event was detected. A failed direct creation is logged; use
// ProcessAIResponseErr to receive it.
func (h *EventHandler) ProcessAIResponse(ctx context.Context, text string) bool {
	detected, err := h.ProcessAIResponseErr(ctx, text)
	if err != nil {
		slog.Error("Direct event creation failed", "error", err)
	}
	return detected
}

// ProcessAIResponseErr is ProcessAIResponse that also returns the error from
// direct creation exactly as the previewer reported it.
func (h *EventHandler) ProcessAIResponseErr(ctx context.Context, text string) (bool, error) {
	plan := h.parser.Parse(text, h.clock.Now())
	if plan == nil {
		return false, nil
	}

	slog.Info("Detected calendar event",
		"title", plan.Payload.Title,
		"confidence", fmt.Sprintf("%.2f", plan.ConfidenceScore),
		"requires_confirmation", plan.RequiresConfirmation,
		"reason", plan.Reason)

	if h.onEventDetected != nil {
		h.onEventDetected(plan.Payload, plan.RequiresConfirmation)
	}

	if plan.RequiresConfirmation {
		h.previewer.ShowPreview(plan.Payload)
		return true, nil
	}

	return true, h.previewer.CreateEventDirect(ctx, plan.Payload)
}

// ShowEventPreview opens the preview for a draft that did not come from
// assistant text.
func (h *EventHandler) ShowEventPreview(draft model.CalendarEventDraft) {
	h.previewer.ShowPreview(draft)
}

// IsCreating reports whether a creation is in flight.
func (h *EventHandler) IsCreating() bool {
	return h.previewer.IsCreating()
}

// HasRecentEvent reports whether a recently created event is being tracked.
func (h *EventHandler) HasRecentEvent() bool {
	return h.previewer.RecentlyCreated() != nil
}

// Now returns the handler's notion of the current time.
func (h *EventHandler) Now() time.Time {
	return h.clock.Now()
}
