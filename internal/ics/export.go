// Package ics renders drafts and calendar events as iCalendar documents.
package ics

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/google/uuid"

	"github.com/primer-app/primer/internal/model"
)

// ProductID identifies documents produced by this package.
const ProductID = "-//Primer//Event Export//EN"

// ErrNoEvents is returned when there is nothing to export.
var ErrNoEvents = errors.New("no events to export")

// Exporter writes iCalendar documents. The clock stamps DTSTAMP.
type Exporter struct {
	now func() time.Time
}

// NewExporter creates an exporter. A nil now uses time.Now.
func NewExporter(now func() time.Time) *Exporter {
	if now == nil {
		now = time.Now
	}
	return &Exporter{now: now}
}

// ExportDrafts writes a calendar with one VEVENT per draft. Drafts carry no
// identity, so each one gets a fresh UID.
func (e *Exporter) ExportDrafts(w io.Writer, drafts ...model.CalendarEventDraft) error {
	if len(drafts) == 0 {
		return ErrNoEvents
	}
	cal := e.newCalendar()
	for _, d := range drafts {
		e.addEvent(cal, vevent{
			uid:         uuid.NewString(),
			title:       d.Title,
			description: d.Description,
			start:       d.StartAt,
			end:         d.EndAt,
			recurrence:  d.Recurrence,
		})
	}
	return serialize(cal, w)
}

// ExportEvents writes stored events. The UID is the remote event ID when the
// event has one, so re-importing updates instead of duplicating.
func (e *Exporter) ExportEvents(w io.Writer, events ...model.CalendarEvent) error {
	if len(events) == 0 {
		return ErrNoEvents
	}
	cal := e.newCalendar()
	for _, ev := range events {
		uid := ev.GoogleEventID
		if uid == "" {
			uid = ev.ID
		}
		e.addEvent(cal, vevent{
			uid:         uid,
			title:       ev.Title,
			description: ev.DescriptionOrEmpty(),
			start:       ev.StartAt,
			end:         ev.EndAt,
			recurrence:  ev.Recurrence,
			status:      ev.Status,
		})
	}
	return serialize(cal, w)
}

type vevent struct {
	start       time.Time
	end         time.Time
	uid         string
	title       string
	description string
	recurrence  string
	status      string
}

func (e *Exporter) newCalendar() *ical.Calendar {
	cal := ical.NewCalendar()
	cal.SetProductId(ProductID)
	cal.SetMethod(ical.MethodPublish)
	return cal
}

func (e *Exporter) addEvent(cal *ical.Calendar, v vevent) {
	event := cal.AddEvent(v.uid)
	event.SetDtStampTime(e.now())
	event.SetStartAt(v.start)
	event.SetEndAt(v.end)
	event.SetSummary(v.title)
	if v.description != "" {
		event.SetDescription(v.description)
	}
	if rule := strings.TrimPrefix(v.recurrence, "RRULE:"); rule != "" {
		event.SetProperty(ical.ComponentPropertyRrule, rule)
	}
	switch v.status {
	case model.EventStatusTentative:
		event.SetStatus(ical.ObjectStatusTentative)
	case model.EventStatusCancelled:
		event.SetStatus(ical.ObjectStatusCancelled)
	case model.EventStatusConfirmed:
		event.SetStatus(ical.ObjectStatusConfirmed)
	}
}

func serialize(cal *ical.Calendar, w io.Writer) error {
	if err := cal.SerializeTo(w); err != nil {
		return fmt.Errorf("failed to write calendar: %w", err)
	}
	return nil
}
