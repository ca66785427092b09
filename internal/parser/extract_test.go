package parser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestExtractDate(t *testing.T) {
	day := func(d int) time.Time {
		return time.Date(2025, time.January, d, 10, 30, 0, 0, time.UTC)
	}

	tests := []struct {
		want time.Time
		name string
		text string
	}{
		{name: "tomorrow", text: "meet tomorrow", want: day(16)},
		{name: "today", text: "meet today", want: day(15)},
		{name: "next friday", text: "meet next Friday", want: day(17)},
		{name: "next weekday equal to today wraps", text: "meet next wednesday", want: day(22)},
		{name: "next weekday already passed", text: "meet next monday", want: day(20)},
		{name: "this weekday is today", text: "meet this wednesday", want: day(15)},
		{name: "this weekday already passed", text: "meet this monday", want: day(20)},
		{name: "next week", text: "meet next week", want: day(22)},
		{name: "no signal defaults to tomorrow", text: "meet soon", want: day(16)},
		{name: "tomorrow beats next week", text: "tomorrow or next week", want: day(16)},
		{name: "today beats next weekday", text: "today, not next friday", want: day(15)},
		{name: "tomorrow inside a word is ignored", text: "tomorrows", want: day(16)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractDate(tt.text, fixedNow))
		})
	}
}

func TestExtractDate_Idempotent(t *testing.T) {
	texts := []string{"next friday", "this sunday", "tomorrow", "", "next week"}
	for _, text := range texts {
		assert.Equal(t, ExtractDate(text, fixedNow), ExtractDate(text, fixedNow), text)
	}
}

func TestExtractDate_KeepsLocation(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)
	now := time.Date(2025, time.March, 10, 23, 0, 0, 0, loc)

	got := ExtractDate("tomorrow", now)
	assert.Equal(t, loc, got.Location())
	assert.Equal(t, 11, got.Day())
}

func TestExtractTime(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		want   ClockTime
		wantOK bool
	}{
		{name: "at pm", text: "at 2pm", want: ClockTime{Hour: 14}, wantOK: true},
		{name: "at with minutes", text: "at 2:30pm", want: ClockTime{Hour: 14, Minute: 30}, wantOK: true},
		{name: "spaced meridiem", text: "at 4 PM", want: ClockTime{Hour: 16}, wantOK: true},
		{name: "midnight", text: "at 12am", want: ClockTime{Hour: 0}, wantOK: true},
		{name: "noon", text: "at 12pm", want: ClockTime{Hour: 12}, wantOK: true},
		{name: "24 hour clock", text: "starts 14:00", want: ClockTime{Hour: 14}, wantOK: true},
		{name: "bare meridiem", text: "10am works", want: ClockTime{Hour: 10}, wantOK: true},
		{name: "at without meridiem", text: "at 9", want: ClockTime{Hour: 9}, wantOK: true},
		{name: "morning", text: "in the morning", want: ClockTime{Hour: 9}, wantOK: true},
		{name: "afternoon", text: "this afternoon", want: ClockTime{Hour: 14}, wantOK: true},
		{name: "evening", text: "in the evening", want: ClockTime{Hour: 18}, wantOK: true},
		{name: "night", text: "at night", want: ClockTime{Hour: 20}, wantOK: true},
		{name: "explicit beats day part", text: "afternoon at 3:15pm", want: ClockTime{Hour: 15, Minute: 15}, wantOK: true},
		{name: "bare number is not a time", text: "for 3 hours", wantOK: false},
		{name: "invalid meridiem hour skipped", text: "at 13pm", wantOK: false},
		{name: "nothing", text: "whenever works", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractTime(tt.text)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestExtractDuration(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{text: "for 1 hour", want: 60},
		{text: "for 2 hours", want: 120},
		{text: "3hrs", want: 180},
		{text: "30 minutes", want: 30},
		{text: "45 min", want: 45},
		{text: "no duration here", want: DefaultDurationMinutes},
		{text: "for 0 minutes", want: 1},
		{text: "for 9999999999 hours", want: MaxDurationMinutes},
		{text: "for 99999999 minutes", want: MaxDurationMinutes},
		{text: "for 99999999999999999999 minutes", want: MaxDurationMinutes},
		{text: "at 10am", want: DefaultDurationMinutes},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractDuration(tt.text))
		})
	}
}

func TestExtractTitle(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{text: "I'll schedule a meeting called Budget Review tomorrow at 3pm", want: "Budget Review"},
		{text: "Create an event titled 'Launch Party' on Friday", want: "Launch Party"},
		{text: "Schedule a meeting tomorrow at 2pm", want: DefaultTitle},
		{text: "Schedule a meeting", want: DefaultTitle},
		{text: "Book a call x", want: DefaultTitle},
		{text: "Add a reminder dentist checkup", want: "dentist checkup"},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractTitle(tt.text))
		})
	}
}

func TestExtractDescription(t *testing.T) {
	assert.Equal(t, "the Q3 roadmap", ExtractDescription("Schedule a meeting about the Q3 roadmap. Thanks!"))
	assert.Equal(t, "hiring plans", ExtractDescription("Book a call to discuss hiring plans"))
	assert.Equal(t, "", ExtractDescription("Schedule a meeting"))
	assert.Equal(t, "", ExtractDescription("Send the information now"))
}

func TestExtractDraft_Defaults(t *testing.T) {
	draft := ExtractDraft("Schedule a meeting", fixedNow)

	assert.Equal(t, DefaultTitle, draft.Title)
	assert.Equal(t, time.Date(2025, time.January, 16, DefaultHour, 0, 0, 0, time.UTC), draft.StartAt)
	assert.Equal(t, time.Duration(DefaultDurationMinutes)*time.Minute, draft.Duration())
	assert.Empty(t, draft.Recurrence)
}
