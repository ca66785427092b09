package parser

import (
	"testing"
	"time"

	"github.com/primer-app/primer/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestScore(t *testing.T) {
	oneHour := model.CalendarEventDraft{StartAt: fixedNow, EndAt: fixedNow.Add(time.Hour)}
	sixHours := model.CalendarEventDraft{StartAt: fixedNow, EndAt: fixedNow.Add(6 * time.Hour)}

	tests := []struct {
		name        string
		text        string
		wantReasons []model.ConfirmationReason
		draft       model.CalendarEventDraft
		wantScore   float64
	}{
		{
			name:      "explicit time only",
			text:      "meeting at 2pm",
			draft:     oneHour,
			wantScore: 1.0,
		},
		{
			name:        "missing time",
			text:        "meeting tomorrow",
			draft:       oneHour,
			wantScore:   0.8,
			wantReasons: []model.ConfirmationReason{model.ReasonAmbiguousTime},
		},
		{
			name:        "day part deduplicates with missing time",
			text:        "meeting in the afternoon",
			draft:       oneHour,
			wantScore:   0.65,
			wantReasons: []model.ConfirmationReason{model.ReasonAmbiguousTime},
		},
		{
			name:        "day part alongside explicit time",
			text:        "meeting this afternoon at 3pm",
			draft:       oneHour,
			wantScore:   0.85,
			wantReasons: []model.ConfirmationReason{model.ReasonAmbiguousTime},
		},
		{
			name:      "next week with weekday is not penalized",
			text:      "meeting next week, next friday at 2pm",
			draft:     oneHour,
			wantScore: 1.0,
		},
		{
			name:        "long duration",
			text:        "workshop at 9am",
			draft:       sixHours,
			wantScore:   0.9,
			wantReasons: []model.ConfirmationReason{model.ReasonLongDuration},
		},
		{
			name:        "guests",
			text:        "sync with Maria at 4pm",
			draft:       oneHour,
			wantScore:   0.85,
			wantReasons: []model.ConfirmationReason{model.ReasonMultipleGuests},
		},
		{
			name:        "recurring",
			text:        "standup daily at 9am",
			draft:       oneHour,
			wantScore:   0.7,
			wantReasons: []model.ConfirmationReason{model.ReasonRecurring},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, reasons := Score(tt.draft, tt.text)
			assert.InDelta(t, tt.wantScore, score, 1e-9)
			assert.Equal(t, tt.wantReasons, reasons)
		})
	}
}

func TestScore_Deterministic(t *testing.T) {
	draft := model.CalendarEventDraft{StartAt: fixedNow, EndAt: fixedNow.Add(time.Hour)}
	text := "weekly sync with the team sometime next week"

	s1, r1 := Score(draft, text)
	s2, r2 := Score(draft, text)
	assert.Equal(t, s1, s2)
	assert.Equal(t, r1, r2)
}

func TestScore_ClampsAtZero(t *testing.T) {
	draft := model.CalendarEventDraft{StartAt: fixedNow, EndAt: fixedNow.Add(10 * time.Hour)}
	score, reasons := Score(draft, "recurring call with guests sometime next week")

	assert.Equal(t, 0.0, score)
	assert.Len(t, reasons, 5)
}
