// Package parser detects calendar-event intents in assistant text, extracts a
// draft event from it and scores how confidently the draft can be executed
// without asking the user.
package parser

import (
	"log/slog"
	"time"

	"github.com/primer-app/primer/internal/model"
)

// Parser turns free-form text into action plans.
type Parser struct {
	// ConfirmationThreshold is the minimum score for direct execution.
	ConfirmationThreshold float64
}

// New returns a parser using DefaultConfirmationThreshold.
func New() *Parser {
	return &Parser{ConfirmationThreshold: DefaultConfirmationThreshold}
}

// NewWithThreshold returns a parser with a custom confirmation threshold.
// Values outside [0, 1] fall back to the default.
func NewWithThreshold(threshold float64) *Parser {
	if threshold < 0 || threshold > 1 {
		threshold = DefaultConfirmationThreshold
	}
	return &Parser{ConfirmationThreshold: threshold}
}

var defaultParser = New()

// ParseEventIntent parses text with the default parser.
func ParseEventIntent(text string, now time.Time) *model.ActionPlan {
	return defaultParser.Parse(text, now)
}

// Parse returns an action plan for text, or nil when the text does not
// express an intent to create an event.
func (p *Parser) Parse(text string, now time.Time) *model.ActionPlan {
	slog.Debug("Parsing text for event intent", "text", preview(text, 100))

	rule, ok := matchIntent(text)
	if !ok {
		slog.Debug("No event intent detected")
		return nil
	}
	slog.Debug("Event intent detected", "rule", rule)

	draft := ExtractDraft(text, now)
	score, reasons := Score(draft, text)
	requiresConfirmation := score < p.ConfirmationThreshold

	slog.Debug("Scored event draft",
		"title", draft.Title,
		"start_at", draft.StartAt,
		"end_at", draft.EndAt,
		"score", score,
		"reasons", reasons,
		"requires_confirmation", requiresConfirmation)

	plan := &model.ActionPlan{
		Action:               model.ActionCreateEvent,
		Payload:              draft,
		RequiresConfirmation: requiresConfirmation,
		ConfidenceScore:      score,
		Reasons:              reasons,
	}
	if len(reasons) > 0 {
		plan.Reason = reasons[0]
	}
	return plan
}

func preview(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
