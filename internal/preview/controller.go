// Package preview holds the draft preview and undo state that sits between
// the event dispatcher and the calendar service.
package preview

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/primer-app/primer/internal/clock"
	"github.com/primer-app/primer/internal/common"
	"github.com/primer-app/primer/internal/model"
	"github.com/primer-app/primer/internal/service"
)

// UndoWindow is how long a directly created event can be undone.
const UndoWindow = 8000 * time.Millisecond

// State is a snapshot of the controller.
type State struct {
	Draft            *model.CalendarEventDraft
	RecentlyCreated  *model.RecentlyCreatedEvent
	Error            string
	IsPreviewVisible bool
	IsCreating       bool
}

// Controller tracks at most one draft under review and at most one recently
// created event that can still be undone. It is safe for concurrent use.
type Controller struct {
	calendar   service.CalendarService
	session    service.SessionProvider
	clock      clock.Clock
	undoTimer  clock.Timer
	state      State
	undoWindow time.Duration
	mu         sync.Mutex
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock replaces the system clock.
func WithClock(c clock.Clock) Option {
	return func(ctrl *Controller) { ctrl.clock = c }
}

// WithUndoWindow overrides UndoWindow.
func WithUndoWindow(d time.Duration) Option {
	return func(ctrl *Controller) {
		if d > 0 {
			ctrl.undoWindow = d
		}
	}
}

// NewController creates a controller that creates and deletes events through
// calendar on behalf of the session's user.
func NewController(calendar service.CalendarService, session service.SessionProvider, opts ...Option) *Controller {
	c := &Controller{
		calendar:   calendar,
		session:    session,
		clock:      clock.Real{},
		undoWindow: UndoWindow,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns a copy of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.state
	if s.Draft != nil {
		d := *s.Draft
		s.Draft = &d
	}
	if s.RecentlyCreated != nil {
		r := *s.RecentlyCreated
		s.RecentlyCreated = &r
	}
	return s
}

// ShowPreview puts draft up for review and clears any previous error.
func (c *Controller) ShowPreview(draft model.CalendarEventDraft) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.Draft = &draft
	c.state.IsPreviewVisible = true
	c.state.Error = ""
}

// HidePreview discards the draft under review.
func (c *Controller) HidePreview() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hidePreviewLocked()
}

func (c *Controller) hidePreviewLocked() {
	c.state.IsPreviewVisible = false
	c.state.Draft = nil
	c.state.Error = ""
}

// UpdateDraft applies edit to the draft under review. An end time that no
// longer follows the start time is moved to the next day. It is a no-op
// without a draft.
func (c *Controller) UpdateDraft(edit func(*model.CalendarEventDraft)) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Draft == nil {
		return
	}
	edit(c.state.Draft)
	c.state.Draft.Normalize()
}

// ClearError resets the error message.
func (c *Controller) ClearError() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Error = ""
}

// IsCreating reports whether a create call is in flight.
func (c *Controller) IsCreating() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.IsCreating
}

// RecentlyCreated returns the event that may still be undone, or nil.
func (c *Controller) RecentlyCreated() *model.RecentlyCreatedEvent {
	return c.State().RecentlyCreated
}

// UndoAvailable reports whether the recent event is still inside its undo window.
func (c *Controller) UndoAvailable() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.RecentlyCreated.UndoAvailable(c.clock.Now())
}

// CreateEventDirect creates draft without review. On success the event
// becomes the undoable recent event. Errors from the calendar service are
// recorded in the state and returned unchanged.
func (c *Controller) CreateEventDirect(ctx context.Context, draft model.CalendarEventDraft) error {
	userID := c.session.Session().UserID
	if userID == "" {
		c.setError(common.ErrNotAuthenticated.Error())
		return common.ErrNotAuthenticated
	}

	c.mu.Lock()
	c.state.IsCreating = true
	c.state.Error = ""
	c.mu.Unlock()

	event, err := c.calendar.CreateEvent(ctx, model.CreateEventRequest{
		UserID:      userID,
		Title:       draft.Title,
		Description: draft.Description,
		StartAt:     draft.StartAt,
		EndAt:       draft.EndAt,
		Recurrence:  draft.Recurrence,
	})

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.IsCreating = false

	if err != nil {
		common.LogError(err, "Failed to create event", common.Fields{"title": draft.Title})
		c.state.Error = err.Error()
		return err
	}

	now := c.clock.Now()
	recent := &model.RecentlyCreatedEvent{
		ID:            event.ID,
		GoogleEventID: event.GoogleEventID,
		Title:         draft.Title,
		CreatedAt:     now,
		ExpiresAt:     now.Add(c.undoWindow),
	}
	c.state.RecentlyCreated = recent

	if c.undoTimer != nil {
		c.undoTimer.Stop()
	}
	c.undoTimer = c.clock.AfterFunc(c.undoWindow, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.state.RecentlyCreated == recent {
			c.state.RecentlyCreated = nil
			c.undoTimer = nil
		}
	})

	slog.Info("Created event", "id", event.ID, "title", draft.Title, "undo_until", recent.ExpiresAt)
	return nil
}

// ConfirmEvent creates the draft under review and closes the preview. When
// creation fails the preview stays open with the error so the user can retry.
func (c *Controller) ConfirmEvent(ctx context.Context) error {
	c.mu.Lock()
	if c.state.Draft == nil {
		c.state.Error = common.ErrNoDraft.Error()
		c.mu.Unlock()
		return common.ErrNoDraft
	}
	draft := *c.state.Draft
	c.mu.Unlock()

	if err := c.CreateEventDirect(ctx, draft); err != nil {
		return err
	}

	c.HidePreview()
	return nil
}

// UndoRecentEvent deletes the recent event. It does nothing when there is
// no recent event or no signed-in user. On failure the recent event is kept
// so the undo can be retried.
func (c *Controller) UndoRecentEvent(ctx context.Context) error {
	userID := c.session.Session().UserID

	c.mu.Lock()
	recent := c.state.RecentlyCreated
	if recent == nil || userID == "" {
		c.mu.Unlock()
		return nil
	}
	if c.undoTimer != nil {
		c.undoTimer.Stop()
		c.undoTimer = nil
	}
	c.mu.Unlock()

	if err := c.calendar.DeleteEvent(ctx, userID, recent.ID); err != nil {
		slog.Error("Failed to undo event", "id", recent.ID, "error", err)
		c.setError(err.Error())
		return err
	}

	c.mu.Lock()
	if c.state.RecentlyCreated == recent {
		c.state.RecentlyCreated = nil
	}
	c.mu.Unlock()

	slog.Info("Undid event", "id", recent.ID, "title", recent.Title)
	return nil
}

func (c *Controller) setError(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Error = msg
}
