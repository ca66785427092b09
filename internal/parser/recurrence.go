package parser

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/primer-app/primer/internal/model"
	"github.com/teambition/rrule-go"
)

var (
	dailyRe        = regexp.MustCompile(`(?i)\b(?:daily|every\s+day)\b`)
	monthlyRe      = regexp.MustCompile(`(?i)\b(?:monthly|every\s+month)\b`)
	everyWeekdayRe = regexp.MustCompile(`(?i)\bevery\s+(monday|tuesday|wednesday|thursday|friday|saturday|sunday)\b`)
)

var rruleWeekdays = []rrule.Weekday{rrule.SU, rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR, rrule.SA}

// RecurrenceRule returns an RRULE body for text that asks for a repeating
// event, anchored at start. It returns "" for one-shot events.
func RecurrenceRule(text string, start time.Time) string {
	if !recurringRe.MatchString(text) {
		return ""
	}

	opt := rrule.ROption{Freq: rrule.WEEKLY, Dtstart: start}
	switch {
	case dailyRe.MatchString(text):
		opt.Freq = rrule.DAILY
	case monthlyRe.MatchString(text):
		opt.Freq = rrule.MONTHLY
	default:
		if m := everyWeekdayRe.FindStringSubmatch(text); m != nil {
			opt.Byweekday = []rrule.Weekday{rruleWeekdays[weekdays[strings.ToLower(m[1])]]}
		}
	}

	if _, err := rrule.NewRRule(opt); err != nil {
		slog.Debug("Discarding invalid recurrence", "error", err)
		return ""
	}
	return opt.RRuleString()
}

// NextOccurrences expands the draft's recurrence into the first n start times.
// One-shot drafts yield their single start time.
func NextOccurrences(draft model.CalendarEventDraft, n int) ([]time.Time, error) {
	if n <= 0 {
		return nil, nil
	}
	if draft.Recurrence == "" {
		return []time.Time{draft.StartAt}, nil
	}

	opt, err := rrule.StrToROption(draft.Recurrence)
	if err != nil {
		return nil, fmt.Errorf("invalid recurrence %q: %w", draft.Recurrence, err)
	}
	opt.Dtstart = draft.StartAt
	opt.Count = n

	r, err := rrule.NewRRule(*opt)
	if err != nil {
		return nil, fmt.Errorf("failed to build recurrence: %w", err)
	}
	return r.All(), nil
}
