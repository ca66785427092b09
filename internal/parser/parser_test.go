package parser

import (
	"testing"
	"time"

	"github.com/primer-app/primer/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Wednesday, 10:30.
var fixedNow = time.Date(2025, time.January, 15, 10, 30, 0, 0, time.UTC)

func TestParseEventIntent_NoIntent(t *testing.T) {
	tests := []string{
		"The weather is nice today",
		"",
		"Thanks, that summary was helpful.",
		"Make sure to drink water at 3pm",
	}

	for _, text := range tests {
		t.Run(text, func(t *testing.T) {
			assert.Nil(t, ParseEventIntent(text, fixedNow))
		})
	}
}

func TestParseEventIntent_HighConfidence(t *testing.T) {
	plan := ParseEventIntent("Schedule a meeting tomorrow at 2pm for 1 hour", fixedNow)
	require.NotNil(t, plan)

	assert.Equal(t, model.ActionCreateEvent, plan.Action)
	assert.Equal(t, time.Date(2025, time.January, 16, 14, 0, 0, 0, time.UTC), plan.Payload.StartAt)
	assert.Equal(t, time.Hour, plan.Payload.Duration())
	assert.Equal(t, model.SourceChat, plan.Payload.Source)
	assert.InDelta(t, 1.0, plan.ConfidenceScore, 1e-9)
	assert.False(t, plan.RequiresConfirmation)
	assert.Empty(t, plan.Reason)
	assert.Empty(t, plan.Reasons)
}

func TestParseEventIntent_AmbiguousNextWeek(t *testing.T) {
	plan := ParseEventIntent("Let's do a call sometime next week", fixedNow)
	require.NotNil(t, plan)

	assert.True(t, plan.RequiresConfirmation)
	assert.Equal(t, model.ReasonAmbiguousTime, plan.Reason)
	// The next-week rule appends its reason even when it is already present.
	assert.Equal(t, []model.ConfirmationReason{model.ReasonAmbiguousTime, model.ReasonAmbiguousTime}, plan.Reasons)
	assert.InDelta(t, 0.4, plan.ConfidenceScore, 1e-9)
	assert.Equal(t, time.Date(2025, time.January, 22, 9, 0, 0, 0, time.UTC), plan.Payload.StartAt)
}

func TestParseEventIntent_RecurringWithGuests(t *testing.T) {
	plan := ParseEventIntent("Set up a recurring weekly meeting with the team at 10am", fixedNow)
	require.NotNil(t, plan)

	assert.True(t, plan.RequiresConfirmation)
	assert.LessOrEqual(t, plan.ConfidenceScore, 1.0-0.30-0.15+1e-9)
	assert.True(t, plan.HasReason(model.ReasonRecurring))
	assert.True(t, plan.HasReason(model.ReasonMultipleGuests))
	assert.Equal(t, model.ReasonRecurring, plan.Reason)
	assert.Equal(t, 10, plan.Payload.StartAt.Hour())
	assert.Contains(t, plan.Payload.Recurrence, "FREQ=WEEKLY")
}

func TestParseEventIntent_EveryPenaltyClampsToZero(t *testing.T) {
	text := "Schedule a recurring weekly meeting with the team sometime next week for 5 hours"
	plan := ParseEventIntent(text, fixedNow)
	require.NotNil(t, plan)

	assert.Equal(t, 0.0, plan.ConfidenceScore)
	assert.True(t, plan.RequiresConfirmation)
	assert.Equal(t, []model.ConfirmationReason{
		model.ReasonAmbiguousTime,
		model.ReasonAmbiguousTime,
		model.ReasonLongDuration,
		model.ReasonRecurring,
		model.ReasonMultipleGuests,
	}, plan.Reasons)
}

func TestParseEventIntent_Phrasings(t *testing.T) {
	tests := []string{
		"I'll create a meeting for tomorrow",
		"Let me schedule an event for you",
		"Scheduling a meeting with Ana now",
		"I'd be happy to help you create a meeting",
		"Your meeting has been scheduled for 3pm",
		"I've booked a meeting for Friday",
		"Vou agendar uma reunião amanhã às 15h",
		"Posso marcar um compromisso",
		"Book an urgent follow-up call",
	}

	for _, text := range tests {
		t.Run(text, func(t *testing.T) {
			assert.NotNil(t, ParseEventIntent(text, fixedNow))
		})
	}
}

func TestParser_CustomThreshold(t *testing.T) {
	text := "Let's do a call sometime next week"

	lenient := NewWithThreshold(0.3)
	plan := lenient.Parse(text, fixedNow)
	require.NotNil(t, plan)
	assert.False(t, plan.RequiresConfirmation)
	// The reason is still reported even when no confirmation is needed.
	assert.Equal(t, model.ReasonAmbiguousTime, plan.Reason)

	strict := NewWithThreshold(1.0)
	plan = strict.Parse("Schedule a meeting tomorrow at 2pm for 1 hour", fixedNow)
	require.NotNil(t, plan)
	assert.False(t, plan.RequiresConfirmation, "a perfect score is not below a threshold of 1.0")

	assert.Equal(t, DefaultConfirmationThreshold, NewWithThreshold(1.5).ConfirmationThreshold)
	assert.Equal(t, DefaultConfirmationThreshold, NewWithThreshold(-0.1).ConfirmationThreshold)
}

func TestParseEventIntent_EndAfterStart(t *testing.T) {
	texts := []string{
		"Schedule a meeting tomorrow at 2pm for 1 hour",
		"Schedule a meeting for 0 minutes",
		"Create an event at 11:45pm for 30 min",
		"Book a call tonight at night",
		"Let's do a call sometime next week",
		"Add a reminder for 999 hours",
		"Schedule a meeting for 9999999999 hours",
		"Schedule a meeting for 99999999999999999999 minutes",
		"Schedule a meeting",
	}

	for _, text := range texts {
		t.Run(text, func(t *testing.T) {
			plan := ParseEventIntent(text, fixedNow)
			require.NotNil(t, plan)
			assert.GreaterOrEqual(t, plan.Payload.EndAt.Sub(plan.Payload.StartAt), time.Minute)
		})
	}
}

func TestParseEventIntent_HugeDurationIsCapped(t *testing.T) {
	plan := ParseEventIntent("Schedule a meeting for 9999999999 hours", fixedNow)
	require.NotNil(t, plan)

	assert.Equal(t, time.Duration(MaxDurationMinutes)*time.Minute, plan.Payload.EndAt.Sub(plan.Payload.StartAt))
	assert.True(t, plan.HasReason(model.ReasonLongDuration))
}

func TestParseEventIntent_ScoreAlwaysInRange(t *testing.T) {
	fragments := []string{"", " sometime", " next week", " next friday", " with the team", " every day", " for 6 hours", " at 4pm", " in the evening"}

	// Every combination of fragments appended to a qualifying sentence.
	for mask := 0; mask < 1<<len(fragments); mask++ {
		text := "Schedule a meeting"
		for i, f := range fragments {
			if mask&(1<<i) != 0 {
				text += f
			}
		}
		plan := ParseEventIntent(text, fixedNow)
		require.NotNil(t, plan, text)
		assert.GreaterOrEqual(t, plan.ConfidenceScore, 0.0, text)
		assert.LessOrEqual(t, plan.ConfidenceScore, 1.0, text)
		assert.Equal(t, plan.ConfidenceScore < DefaultConfirmationThreshold, plan.RequiresConfirmation, text)
	}
}
