package parser

import (
	"time"

	"github.com/primer-app/primer/internal/model"
)

// DefaultConfirmationThreshold is the score below which a plan must be
// confirmed by the user instead of being executed directly.
const DefaultConfirmationThreshold = 0.7

// longDuration is the event length above which a draft looks suspicious.
const longDuration = 240 * time.Minute

// scoreInput is what every penalty rule can look at.
type scoreInput struct {
	text  string
	draft model.CalendarEventDraft
}

// penaltyRule subtracts Penalty from the score when applies is true.
// When dedupe is set the reason is only appended if it is not already
// present; otherwise it is appended unconditionally.
type penaltyRule struct {
	applies func(in scoreInput) bool
	name    string
	reason  model.ConfirmationReason
	penalty float64
	dedupe  bool
}

// penaltyRules are evaluated in order; that order decides which reason is
// reported first.
var penaltyRules = []penaltyRule{
	{
		name:    "no_explicit_time",
		penalty: 0.20,
		reason:  model.ReasonAmbiguousTime,
		applies: func(in scoreInput) bool { return !HasExplicitTime(in.text) },
	},
	{
		name:    "vague_time_words",
		penalty: 0.15,
		reason:  model.ReasonAmbiguousTime,
		dedupe:  true,
		applies: func(in scoreInput) bool {
			return dayPartRe.MatchString(in.text) || vagueRe.MatchString(in.text)
		},
	},
	{
		name:    "next_week_without_day",
		penalty: 0.25,
		reason:  model.ReasonAmbiguousTime,
		applies: func(in scoreInput) bool {
			return nextWeekRe.MatchString(in.text) && !nextDayRe.MatchString(in.text)
		},
	},
	{
		name:    "long_duration",
		penalty: 0.10,
		reason:  model.ReasonLongDuration,
		applies: func(in scoreInput) bool { return in.draft.Duration() > longDuration },
	},
	{
		name:    "recurring",
		penalty: 0.30,
		reason:  model.ReasonRecurring,
		applies: func(in scoreInput) bool { return recurringRe.MatchString(in.text) },
	},
	{
		name:    "guests",
		penalty: 0.15,
		reason:  model.ReasonMultipleGuests,
		applies: func(in scoreInput) bool { return guestsRe.MatchString(in.text) },
	},
}

// Score rates how safe it is to act on draft without asking the user.
// It starts at 1.0, subtracts every applicable penalty and clamps the
// result to [0, 1]. Reasons are returned in rule order.
func Score(draft model.CalendarEventDraft, originalText string) (float64, []model.ConfirmationReason) {
	in := scoreInput{draft: draft, text: originalText}
	score := 1.0
	var reasons []model.ConfirmationReason

	for _, rule := range penaltyRules {
		if !rule.applies(in) {
			continue
		}
		score -= rule.penalty
		if rule.dedupe && containsReason(reasons, rule.reason) {
			continue
		}
		reasons = append(reasons, rule.reason)
	}

	return clamp(score, 0, 1), reasons
}

func containsReason(reasons []model.ConfirmationReason, reason model.ConfirmationReason) bool {
	for _, r := range reasons {
		if r == reason {
			return true
		}
	}
	return false
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
