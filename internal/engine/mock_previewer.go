package engine

import (
	"context"
	"sync"

	"github.com/primer-app/primer/internal/model"
)

// MockPreviewer is a test implementation of the Previewer interface.
// It records every draft it receives.
type MockPreviewer struct {
	CreateErr error
	recent    *model.RecentlyCreatedEvent
	previewed []model.CalendarEventDraft
	created   []model.CalendarEventDraft
	mu        sync.Mutex
	creating  bool
}

// NewMockPreviewer creates a previewer whose direct creations succeed.
func NewMockPreviewer() *MockPreviewer {
	return &MockPreviewer{}
}

// ShowPreview records the draft.
func (m *MockPreviewer) ShowPreview(draft model.CalendarEventDraft) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.previewed = append(m.previewed, draft)
}

// CreateEventDirect records the draft and returns CreateErr.
func (m *MockPreviewer) CreateEventDirect(_ context.Context, draft model.CalendarEventDraft) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.created = append(m.created, draft)
	if m.CreateErr != nil {
		return m.CreateErr
	}
	m.recent = &model.RecentlyCreatedEvent{Title: draft.Title}
	return nil
}

// IsCreating returns the value set with SetCreating.
func (m *MockPreviewer) IsCreating() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.creating
}

// SetCreating sets the value reported by IsCreating.
func (m *MockPreviewer) SetCreating(creating bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.creating = creating
}

// RecentlyCreated returns the last successful direct creation.
func (m *MockPreviewer) RecentlyCreated() *model.RecentlyCreatedEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.recent
}

// Previewed returns the drafts sent to preview.
func (m *MockPreviewer) Previewed() []model.CalendarEventDraft {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.CalendarEventDraft(nil), m.previewed...)
}

// Created returns the drafts sent to direct creation.
func (m *MockPreviewer) Created() []model.CalendarEventDraft {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.CalendarEventDraft(nil), m.created...)
}
