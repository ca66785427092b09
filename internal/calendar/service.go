// Package calendar implements the calendar service on top of the local event
// store and, when connected, Google Calendar.
package calendar

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/primer-app/primer/internal/clock"
	"github.com/primer-app/primer/internal/common"
	"github.com/primer-app/primer/internal/model"
	"github.com/primer-app/primer/internal/service"
)

// CreatedByAgent marks events created from assistant text.
const CreatedByAgent = "agent"

// ErrWrongOwner is returned when a user touches another user's event.
var ErrWrongOwner = errors.New("event does not belong to user")

// Remote is a calendar provider that owns the canonical copy of events.
type Remote interface {
	CreateEvent(ctx context.Context, req model.CreateEventRequest) (*model.CalendarEvent, error)
	ListEvents(ctx context.Context, userID string, from, to time.Time) ([]model.CalendarEvent, error)
	UpdateEvent(ctx context.Context, calendarID, googleEventID string, req model.UpdateEventRequest) (*model.CalendarEvent, error)
	DeleteEvent(ctx context.Context, calendarID, googleEventID string) error
}

// Config holds configuration options for the service.
type Config struct {
	Clock clock.Clock
	// Lookback and Lookahead bound the remote listing around now.
	// Zero leaves that side open.
	Lookback  time.Duration
	Lookahead time.Duration
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Clock:     clock.Real{},
		Lookback:  7 * 24 * time.Hour,
		Lookahead: 90 * 24 * time.Hour,
	}
}

// Service keeps the local store in step with the remote calendar. Without a
// remote it works purely locally.
type Service struct {
	repo      service.EventRepository
	remote    Remote
	clock     clock.Clock
	lookback  time.Duration
	lookahead time.Duration
}

// New creates a service with the default configuration. remote may be nil.
func New(repo service.EventRepository, remote Remote) *Service {
	return NewWithConfig(repo, remote, DefaultConfig())
}

// NewWithConfig creates a service with custom configuration.
func NewWithConfig(repo service.EventRepository, remote Remote, config Config) *Service {
	if config.Clock == nil {
		config.Clock = clock.Real{}
	}
	return &Service{
		repo:      repo,
		remote:    remote,
		clock:     config.Clock,
		lookback:  config.Lookback,
		lookahead: config.Lookahead,
	}
}

// Connected reports whether a remote calendar is configured.
func (s *Service) Connected() bool {
	return s.remote != nil
}

// CreateEvent creates the event remotely first, then stores it locally.
// Remote errors are returned unchanged.
func (s *Service) CreateEvent(ctx context.Context, req model.CreateEventRequest) (*model.CalendarEvent, error) {
	event := &model.CalendarEvent{
		UserID:     req.UserID,
		Title:      req.Title,
		StartAt:    req.StartAt,
		EndAt:      req.EndAt,
		Recurrence: req.Recurrence,
		CreatedBy:  CreatedByAgent,
		Status:     model.EventStatusConfirmed,
	}
	if req.Description != "" {
		description := req.Description
		event.Description = &description
	}
	if req.SourceChatID != "" {
		chatID := req.SourceChatID
		event.SourceChatID = &chatID
	}

	if s.remote != nil {
		created, err := s.remote.CreateEvent(ctx, req)
		if err != nil {
			return nil, err
		}
		event.GoogleEventID = created.GoogleEventID
		event.CalendarID = created.CalendarID
		if created.Status != "" {
			event.Status = created.Status
		}
	}

	if err := s.repo.SaveEvent(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to save created event: %w", err)
	}

	common.LogInfo("Saved calendar event", common.Fields{
		"id":              event.ID,
		"google_event_id": event.GoogleEventID,
		"title":           event.Title,
	})
	return event, nil
}

// GetEvents returns the user's local events plus remote events that are not
// stored locally, ordered by start time. Remote failures other than an
// expired session are logged and the local events are returned.
func (s *Service) GetEvents(ctx context.Context, userID string) ([]model.CalendarEvent, error) {
	events, err := s.repo.GetEventsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load local events: %w", err)
	}
	if s.remote == nil {
		return events, nil
	}

	var from, to time.Time
	now := s.clock.Now()
	if s.lookback > 0 {
		from = now.Add(-s.lookback)
	}
	if s.lookahead > 0 {
		to = now.Add(s.lookahead)
	}

	remoteEvents, err := s.remote.ListEvents(ctx, userID, from, to)
	if err != nil {
		if common.IsSessionExpired(err) {
			return nil, err
		}
		slog.Warn("Failed to list remote events, using local events only", "error", err)
		return events, nil
	}

	known := make(map[string]struct{}, len(events))
	for _, e := range events {
		if e.GoogleEventID != "" {
			known[e.GoogleEventID] = struct{}{}
		}
	}
	for _, e := range remoteEvents {
		if _, ok := known[e.GoogleEventID]; ok {
			continue
		}
		events = append(events, e)
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].StartAt.Before(events[j].StartAt)
	})
	return events, nil
}

// UpdateEvent changes a stored event and its remote copy.
func (s *Service) UpdateEvent(ctx context.Context, req model.UpdateEventRequest) (*model.CalendarEvent, error) {
	event, err := s.ownedEvent(ctx, req.UserID, req.EventID)
	if err != nil {
		return nil, err
	}

	if s.remote != nil && event.GoogleEventID != "" {
		updated, err := s.remote.UpdateEvent(ctx, event.CalendarID, event.GoogleEventID, req)
		if err != nil {
			return nil, err
		}
		if updated.Status != "" {
			event.Status = updated.Status
		}
	}

	event.Title = req.Title
	event.StartAt = req.StartAt
	event.EndAt = req.EndAt
	if req.Description != "" {
		description := req.Description
		event.Description = &description
	} else {
		event.Description = nil
	}

	if err := s.repo.UpdateEvent(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to update local event: %w", err)
	}
	return event, nil
}

// DeleteEvent removes a stored event and its remote copy. A remote copy that
// is already gone does not stop the local delete.
func (s *Service) DeleteEvent(ctx context.Context, userID, eventID string) error {
	event, err := s.ownedEvent(ctx, userID, eventID)
	if err != nil {
		return err
	}

	if s.remote != nil && event.GoogleEventID != "" {
		if err := s.remote.DeleteEvent(ctx, event.CalendarID, event.GoogleEventID); err != nil {
			return err
		}
	}

	if err := s.repo.DeleteEvent(ctx, event.ID); err != nil {
		return fmt.Errorf("failed to delete local event: %w", err)
	}

	slog.Info("Deleted calendar event", "id", event.ID, "title", event.Title)
	return nil
}

func (s *Service) ownedEvent(ctx context.Context, userID, eventID string) (*model.CalendarEvent, error) {
	event, err := s.repo.GetEventByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.UserID != userID {
		return nil, fmt.Errorf("%w: %s", ErrWrongOwner, eventID)
	}
	return event, nil
}

var _ service.CalendarService = (*Service)(nil)
