// Package reminder notifies the user shortly before their calendar events
// start. It polls the calendar and arms one timer per upcoming event.
package reminder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/primer-app/primer/internal/clock"
	"github.com/primer-app/primer/internal/common"
	"github.com/primer-app/primer/internal/model"
	"github.com/primer-app/primer/internal/service"
	"github.com/robfig/cron/v3"
)

var errAlreadyStarted = errors.New("reminder scheduler already started")

// Reminder policy defaults.
const (
	ReminderBefore       = time.Hour
	CheckInterval        = time.Minute
	NotificationDuration = 30 * time.Second
)

// NotificationTitle heads every reminder.
const NotificationTitle = "📅 Upcoming Event"

// Config holds configuration options for the scheduler.
type Config struct {
	Clock          clock.Clock
	Location       *time.Location
	ReminderBefore time.Duration
	CheckInterval  time.Duration
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Clock:          clock.Real{},
		Location:       time.Local,
		ReminderBefore: ReminderBefore,
		CheckInterval:  CheckInterval,
	}
}

// pendingReminder is an armed timer. Its identity tells a firing timer
// whether it was cancelled in the meantime.
type pendingReminder struct {
	timer clock.Timer
}

// Scheduler tracks which events have a pending reminder and which have
// already been announced. Every event is announced at most once for the
// lifetime of the scheduler.
type Scheduler struct {
	calendar       service.CalendarService
	notifier       service.Notifier
	session        service.SessionProvider
	clock          clock.Clock
	location       *time.Location
	scheduled      map[string]*pendingReminder
	notified       map[string]struct{}
	cron           *cron.Cron
	stop           chan struct{}
	reminderBefore time.Duration
	checkInterval  time.Duration
	mu             sync.Mutex
}

// New creates a scheduler with the default configuration.
func New(calendar service.CalendarService, notifier service.Notifier, session service.SessionProvider) *Scheduler {
	return NewWithConfig(calendar, notifier, session, DefaultConfig())
}

// NewWithConfig creates a scheduler with custom configuration.
// Zero-valued fields fall back to their defaults.
func NewWithConfig(calendar service.CalendarService, notifier service.Notifier, session service.SessionProvider, config Config) *Scheduler {
	defaults := DefaultConfig()
	if config.Clock == nil {
		config.Clock = defaults.Clock
	}
	if config.Location == nil {
		config.Location = defaults.Location
	}
	if config.ReminderBefore <= 0 {
		config.ReminderBefore = defaults.ReminderBefore
	}
	if config.CheckInterval <= 0 {
		config.CheckInterval = defaults.CheckInterval
	}

	return &Scheduler{
		calendar:       calendar,
		notifier:       notifier,
		session:        session,
		clock:          config.Clock,
		location:       config.Location,
		reminderBefore: config.ReminderBefore,
		checkInterval:  config.CheckInterval,
		scheduled:      make(map[string]*pendingReminder),
		notified:       make(map[string]struct{}),
	}
}

// Horizon is how far ahead events are considered.
func (s *Scheduler) Horizon() time.Duration {
	return 2 * s.reminderBefore
}

// Start runs a check immediately and then every check interval until ctx is
// done or Stop is called.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.cron != nil {
		s.mu.Unlock()
		return errAlreadyStarted
	}

	c := cron.New(
		cron.WithLogger(cronLogger{}),
		cron.WithChain(cron.SkipIfStillRunning(cronLogger{})),
	)
	spec := fmt.Sprintf("@every %s", s.checkInterval)
	if _, err := c.AddFunc(spec, func() { s.CheckUpcoming(ctx) }); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to schedule event checks: %w", err)
	}
	stop := make(chan struct{})
	s.cron = c
	s.stop = stop
	s.mu.Unlock()

	slog.Info("Starting reminder scheduler",
		"check_interval", s.checkInterval,
		"reminder_before", s.reminderBefore)

	s.CheckUpcoming(ctx)
	c.Start()

	go func() {
		select {
		case <-ctx.Done():
			s.Stop()
		case <-stop:
		}
	}()
	return nil
}

// Stop ends polling and cancels every pending reminder. Events already
// announced stay announced. It is safe to call more than once.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	c := s.cron
	s.cron = nil
	if s.stop != nil {
		close(s.stop)
		s.stop = nil
	}
	s.mu.Unlock()

	if c != nil {
		<-c.Stop().Done()
	}
	s.CancelAll()
}

// CancelAll cancels every pending reminder.
func (s *Scheduler) CancelAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, pending := range s.scheduled {
		pending.timer.Stop()
		delete(s.scheduled, id)
	}
}

// CheckUpcoming fetches the user's events and schedules reminders for those
// starting within the horizon. Without a valid session it cancels pending
// reminders instead. Fetch errors are logged and the next poll retries.
func (s *Scheduler) CheckUpcoming(ctx context.Context) {
	session := s.session.Session()
	if !session.Valid() {
		s.CancelAll()
		return
	}

	events, err := s.calendar.GetEvents(ctx, session.UserID)
	if err != nil {
		common.LogError(err, "Failed to check events", common.Fields{"user_id": session.UserID})
		return
	}

	now := s.clock.Now()
	limit := now.Add(s.Horizon())
	for _, event := range events {
		if event.StartAt.After(now) && !event.StartAt.After(limit) {
			s.Schedule(ctx, event)
		}
	}
}

// Schedule arms a reminder for event. Events already announced or already
// armed are skipped. When the reminder time has passed but the event has not
// started the user is notified right away. Events whose reminder time lies
// beyond the horizon are left for a later poll. Events with neither a local
// nor a Google ID cannot be tracked and are skipped.
func (s *Scheduler) Schedule(ctx context.Context, event model.CalendarEvent) {
	id := eventKey(event)
	if id == "" {
		slog.Warn("Skipping reminder for event without an ID", "title", event.Title)
		return
	}

	s.mu.Lock()
	if _, ok := s.notified[id]; ok {
		s.mu.Unlock()
		return
	}
	if _, ok := s.scheduled[id]; ok {
		s.mu.Unlock()
		return
	}

	now := s.clock.Now()
	untilReminder := event.StartAt.Add(-s.reminderBefore).Sub(now)

	switch {
	case untilReminder <= 0 && event.StartAt.After(now):
		s.notified[id] = struct{}{}
		s.mu.Unlock()
		s.notify(ctx, event)
		return

	case untilReminder > 0 && untilReminder <= s.Horizon():
		slog.Info("Scheduling reminder",
			"title", event.Title,
			"minutes", math.Round(untilReminder.Minutes()))

		pending := &pendingReminder{}
		pending.timer = s.clock.AfterFunc(untilReminder, func() {
			s.fire(ctx, id, pending, event)
		})
		s.scheduled[id] = pending
	}
	s.mu.Unlock()
}

// Pending returns the number of armed reminders.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.scheduled)
}

// Notified reports whether the event with the given ID was announced.
func (s *Scheduler) Notified(eventID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.notified[eventID]
	return ok
}

func (s *Scheduler) fire(ctx context.Context, id string, pending *pendingReminder, event model.CalendarEvent) {
	s.mu.Lock()
	if s.scheduled[id] != pending {
		// Cancelled after the timer had already started.
		s.mu.Unlock()
		return
	}
	delete(s.scheduled, id)
	if _, ok := s.notified[id]; ok {
		s.mu.Unlock()
		return
	}
	s.notified[id] = struct{}{}
	s.mu.Unlock()

	s.notify(ctx, event)
}

func (s *Scheduler) notify(ctx context.Context, event model.CalendarEvent) {
	timeString := event.StartAt.In(s.location).Format("3:04 PM")
	slog.Info("Triggering reminder", "title", event.Title, "starts_at", timeString)

	s.notifier.AddNotification(ctx, Notification(event.Title, timeString))
}

// Notification builds the reminder shown for an event titled title that
// starts at the already formatted time.
func Notification(title, startsAt string) model.Notification {
	return model.Notification{
		Title:    NotificationTitle,
		Message:  fmt.Sprintf("\"%s\" starts at %s", title, startsAt),
		Type:     model.NotificationInfo,
		Duration: NotificationDuration,
		Actions: []model.NotificationAction{
			{Label: "Dismiss", Variant: "secondary", OnClick: func() {}},
		},
	}
}

// eventKey identifies an event across polls. The Google ID is shared by the
// stored copy and every fetched copy of the same event.
func eventKey(event model.CalendarEvent) string {
	if event.GoogleEventID != "" {
		return event.GoogleEventID
	}
	return event.ID
}

// cronLogger routes cron's internal logging to slog.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...any) {
	slog.Debug("cron: "+msg, keysAndValues...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...any) {
	slog.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
