package testutil

import (
	"context"
	"sync"

	"github.com/primer-app/primer/internal/model"
	"github.com/primer-app/primer/internal/service"
	"github.com/stretchr/testify/mock"
)

// MockCalendarService is a testify mock of service.CalendarService.
type MockCalendarService struct {
	mock.Mock
}

// GetEvents implements service.CalendarService.
func (m *MockCalendarService) GetEvents(ctx context.Context, userID string) ([]model.CalendarEvent, error) {
	args := m.Called(ctx, userID)
	events, _ := args.Get(0).([]model.CalendarEvent)
	return events, args.Error(1)
}

// CreateEvent implements service.CalendarService.
func (m *MockCalendarService) CreateEvent(ctx context.Context, req model.CreateEventRequest) (*model.CalendarEvent, error) {
	args := m.Called(ctx, req)
	event, _ := args.Get(0).(*model.CalendarEvent)
	return event, args.Error(1)
}

// UpdateEvent implements service.CalendarService.
func (m *MockCalendarService) UpdateEvent(ctx context.Context, req model.UpdateEventRequest) (*model.CalendarEvent, error) {
	args := m.Called(ctx, req)
	event, _ := args.Get(0).(*model.CalendarEvent)
	return event, args.Error(1)
}

// DeleteEvent implements service.CalendarService.
func (m *MockCalendarService) DeleteEvent(ctx context.Context, userID, eventID string) error {
	args := m.Called(ctx, userID, eventID)
	return args.Error(0)
}

// RecordingNotifier records every notification it receives.
type RecordingNotifier struct {
	notifications []model.Notification
	mu            sync.Mutex
}

// AddNotification implements service.Notifier.
func (n *RecordingNotifier) AddNotification(_ context.Context, notification model.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notifications = append(n.notifications, notification)
}

// Notifications returns a copy of what was recorded.
func (n *RecordingNotifier) Notifications() []model.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()

	out := make([]model.Notification, len(n.notifications))
	copy(out, n.notifications)
	return out
}

var (
	_ service.CalendarService = (*MockCalendarService)(nil)
	_ service.Notifier        = (*RecordingNotifier)(nil)
)
