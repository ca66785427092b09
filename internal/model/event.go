package model

import "time"

// Event status values reported by the calendar provider.
const (
	EventStatusConfirmed = "confirmed"
	EventStatusTentative = "tentative"
	EventStatusCancelled = "cancelled"
)

// CalendarEvent is an event owned by the calendar service.
type CalendarEvent struct {
	StartAt       time.Time  `json:"start_at"`
	EndAt         time.Time  `json:"end_at"`
	CreatedAt     *time.Time `json:"created_at,omitempty"`
	UpdatedAt     *time.Time `json:"updated_at,omitempty"`
	Description   *string    `json:"description"`
	SourceChatID  *string    `json:"source_chat_id,omitempty"`
	ID            string     `json:"id"`
	UserID        string     `json:"user_id"`
	GoogleEventID string     `json:"google_event_id"`
	CalendarID    string     `json:"calendar_id"`
	Title         string     `json:"title"`
	Timezone      string     `json:"timezone"`
	CreatedBy     string     `json:"created_by"`
	Status        string     `json:"status"`
	Recurrence    string     `json:"recurrence,omitempty"`
}

// DescriptionOrEmpty returns the description or an empty string.
func (e CalendarEvent) DescriptionOrEmpty() string {
	if e.Description == nil {
		return ""
	}
	return *e.Description
}

// CreateEventRequest carries the fields needed to create an event.
type CreateEventRequest struct {
	StartAt      time.Time `json:"start_at"`
	EndAt        time.Time `json:"end_at"`
	UserID       string    `json:"user_id"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	SourceChatID string    `json:"source_chat_id,omitempty"`
	Recurrence   string    `json:"recurrence,omitempty"`
}

// UpdateEventRequest carries the editable fields of an existing event.
type UpdateEventRequest struct {
	StartAt     time.Time `json:"start_at"`
	EndAt       time.Time `json:"end_at"`
	UserID      string    `json:"user_id"`
	EventID     string    `json:"event_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
}

// RecentlyCreatedEvent tracks a directly created event while it can still be undone.
type RecentlyCreatedEvent struct {
	CreatedAt     time.Time
	ExpiresAt     time.Time
	ID            string
	GoogleEventID string
	Title         string
}

// UndoAvailable reports whether the undo window is still open at now.
func (r *RecentlyCreatedEvent) UndoAvailable(now time.Time) bool {
	if r == nil {
		return false
	}
	return !now.After(r.ExpiresAt)
}
