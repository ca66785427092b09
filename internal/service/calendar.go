package service

import (
	"context"

	"github.com/primer-app/primer/internal/model"
)

// CalendarService is the calendar CRUD surface the core depends on.
// Errors from these calls are returned as-is so callers can inspect them
// for session expiry.
type CalendarService interface {
	GetEvents(ctx context.Context, userID string) ([]model.CalendarEvent, error)
	CreateEvent(ctx context.Context, req model.CreateEventRequest) (*model.CalendarEvent, error)
	UpdateEvent(ctx context.Context, req model.UpdateEventRequest) (*model.CalendarEvent, error)
	DeleteEvent(ctx context.Context, userID, eventID string) error
}

// EventRepository persists calendar events locally.
type EventRepository interface {
	SaveEvent(ctx context.Context, event *model.CalendarEvent) error
	GetEventsByUser(ctx context.Context, userID string) ([]model.CalendarEvent, error)
	GetEventByID(ctx context.Context, id string) (*model.CalendarEvent, error)
	UpdateEvent(ctx context.Context, event *model.CalendarEvent) error
	DeleteEvent(ctx context.Context, id string) error
	Migrate(ctx context.Context) error
	Close() error
}

// Notifier shows notifications to the user.
type Notifier interface {
	AddNotification(ctx context.Context, n model.Notification)
}

// Session identifies the signed-in user and their calendar credentials.
type Session struct {
	UserID      string
	AccessToken string
}

// Valid reports whether both identifiers needed for calendar access are present.
func (s Session) Valid() bool {
	return s.UserID != "" && s.AccessToken != ""
}

// SessionProvider returns the current session.
type SessionProvider interface {
	Session() Session
}

// StaticSession is a SessionProvider that always returns the same session.
type StaticSession Session

// Session implements SessionProvider.
func (s StaticSession) Session() Session {
	return Session(s)
}
