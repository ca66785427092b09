// Package testutil provides shared fixtures for tests: an in-memory event
// store, a controllable clock and recording collaborators.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/primer-app/primer/internal/model"
	"github.com/primer-app/primer/internal/storage"
)

// TestDB is a migrated in-memory event store.
type TestDB struct {
	Storage *storage.SQLiteStorage
	t       *testing.T
}

// SetupTestDB creates a migrated in-memory database seeded with events.
// It is closed automatically when the test ends.
//
// Example:
//
//	db := testutil.SetupTestDB(t,
//		testutil.NewEvent("user-1", "Standup", start).Build(),
//	)
func SetupTestDB(t *testing.T, events ...model.CalendarEvent) *TestDB {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	db := &TestDB{Storage: store, t: t}
	for i := range events {
		db.MustSave(&events[i])
	}
	return db
}

// MustSave stores event or fails the test.
func (db *TestDB) MustSave(event *model.CalendarEvent) {
	db.t.Helper()
	if err := db.Storage.SaveEvent(context.Background(), event); err != nil {
		db.t.Fatalf("failed to seed event %q: %v", event.Title, err)
	}
}

// EventBuilder assembles calendar events for tests.
type EventBuilder struct {
	event model.CalendarEvent
}

// NewEvent starts a one-hour event.
func NewEvent(userID, title string, start time.Time) *EventBuilder {
	return &EventBuilder{event: model.CalendarEvent{
		UserID:  userID,
		Title:   title,
		StartAt: start,
		EndAt:   start.Add(time.Hour),
		Status:  model.EventStatusConfirmed,
	}}
}

// WithID sets the local ID.
func (b *EventBuilder) WithID(id string) *EventBuilder {
	b.event.ID = id
	return b
}

// WithGoogleID sets the remote event ID.
func (b *EventBuilder) WithGoogleID(id string) *EventBuilder {
	b.event.GoogleEventID = id
	return b
}

// WithDuration changes the end time.
func (b *EventBuilder) WithDuration(d time.Duration) *EventBuilder {
	b.event.EndAt = b.event.StartAt.Add(d)
	return b
}

// WithDescription sets the description.
func (b *EventBuilder) WithDescription(description string) *EventBuilder {
	b.event.Description = &description
	return b
}

// Build returns the event.
func (b *EventBuilder) Build() model.CalendarEvent {
	return b.event
}
