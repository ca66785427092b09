// Package model defines the core domain models used throughout the application.
package model

import "time"

// EventSource identifies where a draft originated.
type EventSource string

// Event source constants.
const (
	SourceVoice  EventSource = "voice"
	SourceChat   EventSource = "chat"
	SourceManual EventSource = "manual"
)

// CalendarEventDraft is a proposed event that has not been committed to a calendar.
type CalendarEventDraft struct {
	StartAt     time.Time
	EndAt       time.Time
	Title       string
	Description string
	Source      EventSource
	// Recurrence is an RRULE body (without the "RRULE:" prefix) when the
	// text asked for a repeating event. Empty for one-shot events.
	Recurrence string
}

// Duration returns the length of the drafted event.
func (d CalendarEventDraft) Duration() time.Duration {
	return d.EndAt.Sub(d.StartAt)
}

// HasDescription reports whether a description was extracted or entered.
func (d CalendarEventDraft) HasDescription() bool {
	return d.Description != ""
}

// Normalize rolls EndAt forward by whole days until it is after StartAt.
// Manual edits that put the end time on or before the start time are read as
// an event crossing midnight.
func (d *CalendarEventDraft) Normalize() {
	if d.StartAt.IsZero() || d.EndAt.IsZero() {
		return
	}
	for !d.EndAt.After(d.StartAt) {
		d.EndAt = d.EndAt.AddDate(0, 0, 1)
	}
}
