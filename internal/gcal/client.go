package gcal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/primer-app/primer/internal/common"
	"github.com/primer-app/primer/internal/model"
	"golang.org/x/oauth2"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// DefaultCalendarID is the calendar new events are written to.
const DefaultCalendarID = "primary"

// Values recorded on events that only exist remotely.
const (
	untitledEvent   = "No Title"
	createdByAgent  = "agent"
	createdByGoogle = "google"
)

// Client creates, lists, updates and deletes events in Google Calendar.
type Client struct {
	service    *calendar.Service
	calendarID string
	retry      common.RetryOptions
}

// NewClient builds a client authorized with token. Refreshed tokens are
// handled by the oauth2 transport.
func NewClient(ctx context.Context, config OAuth2Config, token *oauth2.Token, calendarID string) (*Client, error) {
	httpClient := config.oauthConfig().Client(ctx, token)
	srv, err := calendar.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("unable to create calendar service: %w", err)
	}
	return NewClientFromService(srv, calendarID), nil
}

// NewClientFromService wraps an existing calendar service.
func NewClientFromService(srv *calendar.Service, calendarID string) *Client {
	if calendarID == "" {
		calendarID = DefaultCalendarID
	}
	return &Client{
		service:    srv,
		calendarID: calendarID,
		retry:      common.DefaultRetryOptions(),
	}
}

// SetRetryOptions changes the retry policy for API calls.
func (c *Client) SetRetryOptions(opts common.RetryOptions) {
	c.retry = opts
}

// CalendarID returns the calendar new events are written to.
func (c *Client) CalendarID() string {
	return c.calendarID
}

// CreateEvent inserts an event and returns it as a CalendarEvent carrying
// the Google event ID. The local ID is left empty.
func (c *Client) CreateEvent(ctx context.Context, req model.CreateEventRequest) (*model.CalendarEvent, error) {
	remote := &calendar.Event{
		Summary:     req.Title,
		Description: req.Description,
		Start:       eventDateTime(req.StartAt),
		End:         eventDateTime(req.EndAt),
	}
	if req.Recurrence != "" {
		remote.Recurrence = []string{"RRULE:" + req.Recurrence}
	}

	var created *calendar.Event
	err := c.withRetry(ctx, func() error {
		var err error
		created, err = c.service.Events.Insert(c.calendarID, remote).Context(ctx).Do()
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create google event: %w", err)
	}

	slog.Info("Created google event", "google_event_id", created.Id, "link", created.HtmlLink)

	event, ok := toCalendarEvent(created, req.UserID, c.calendarID, createdByAgent)
	if !ok {
		return nil, fmt.Errorf("google returned event %s without usable times", created.Id)
	}
	event.ID = ""
	event.Recurrence = req.Recurrence
	if req.SourceChatID != "" {
		chatID := req.SourceChatID
		event.SourceChatID = &chatID
	}
	return event, nil
}

// ListEvents returns the user's events from every calendar in their list,
// with recurring events expanded. Zero bounds are left open. A calendar that
// fails to list is logged and skipped.
func (c *Client) ListEvents(ctx context.Context, userID string, from, to time.Time) ([]model.CalendarEvent, error) {
	var calendarIDs []string
	err := c.withRetry(ctx, func() error {
		calendarIDs = calendarIDs[:0]
		return c.service.CalendarList.List().Context(ctx).Pages(ctx, func(page *calendar.CalendarList) error {
			for _, entry := range page.Items {
				calendarIDs = append(calendarIDs, entry.Id)
			}
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list calendars: %w", err)
	}

	var events []model.CalendarEvent
	for _, calendarID := range calendarIDs {
		call := c.service.Events.List(calendarID).SingleEvents(true).OrderBy("startTime")
		if !from.IsZero() {
			call = call.TimeMin(from.Format(time.RFC3339))
		}
		if !to.IsZero() {
			call = call.TimeMax(to.Format(time.RFC3339))
		}

		var items []*calendar.Event
		err := c.withRetry(ctx, func() error {
			items = items[:0]
			return call.Context(ctx).Pages(ctx, func(page *calendar.Events) error {
				items = append(items, page.Items...)
				return nil
			})
		})
		if err != nil {
			if common.IsSessionExpired(err) {
				return nil, fmt.Errorf("failed to list events for calendar %s: %w", calendarID, err)
			}
			slog.Warn("Skipping calendar", "calendar_id", calendarID, "error", err)
			continue
		}

		for _, item := range items {
			event, ok := toCalendarEvent(item, userID, calendarID, createdByGoogle)
			if !ok {
				common.LogDebug("Skipping google event without usable times", common.Fields{"google_event_id": item.Id})
				continue
			}
			events = append(events, *event)
		}
	}

	return events, nil
}

// UpdateEvent patches the title, description and times of a remote event.
func (c *Client) UpdateEvent(ctx context.Context, calendarID, googleEventID string, req model.UpdateEventRequest) (*model.CalendarEvent, error) {
	if calendarID == "" {
		calendarID = c.calendarID
	}
	patch := &calendar.Event{
		Summary:     req.Title,
		Description: req.Description,
		Start:       eventDateTime(req.StartAt),
		End:         eventDateTime(req.EndAt),
	}

	var updated *calendar.Event
	err := c.withRetry(ctx, func() error {
		var err error
		updated, err = c.service.Events.Patch(calendarID, googleEventID, patch).Context(ctx).Do()
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update google event: %w", err)
	}

	event, ok := toCalendarEvent(updated, req.UserID, calendarID, createdByAgent)
	if !ok {
		return nil, fmt.Errorf("google returned event %s without usable times", updated.Id)
	}
	return event, nil
}

// DeleteEvent removes a remote event. An event that is already gone is not
// an error.
func (c *Client) DeleteEvent(ctx context.Context, calendarID, googleEventID string) error {
	if calendarID == "" {
		calendarID = c.calendarID
	}

	err := c.withRetry(ctx, func() error {
		return c.service.Events.Delete(calendarID, googleEventID).Context(ctx).Do()
	})
	if isGone(err) {
		slog.Warn("Event already deleted on Google", "google_event_id", googleEventID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to delete google event: %w", err)
	}
	return nil
}

func (c *Client) withRetry(ctx context.Context, call func() error) error {
	return common.WithRetry(ctx, func() error {
		return classifyError(call())
	}, c.retry)
}

// classifyError tags API errors with the application's sentinels while
// keeping the original message. Network timeouts are marked retryable.
func classifyError(err error) error {
	if err == nil {
		return nil
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &common.RetryableError{Err: err, Retryable: true}
	}

	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return err
	}

	switch {
	case apiErr.Code == http.StatusUnauthorized:
		return fmt.Errorf("%w: %w", common.ErrSessionExpired, err)
	case apiErr.Code == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %w", common.ErrRateLimit, err)
	case apiErr.Code >= http.StatusInternalServerError:
		return fmt.Errorf("%w: %w", common.ErrCalendarUnavailable, err)
	default:
		return err
	}
}

func isGone(err error) bool {
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Code == http.StatusNotFound || apiErr.Code == http.StatusGone
}

func eventDateTime(t time.Time) *calendar.EventDateTime {
	return &calendar.EventDateTime{DateTime: t.Format(time.RFC3339)}
}

// toCalendarEvent maps a Google event. All-day events span from midnight
// UTC on their start date to 23:59:59 UTC on their end date. ok is false
// when either time is missing or unparsable.
func toCalendarEvent(item *calendar.Event, userID, calendarID, createdBy string) (*model.CalendarEvent, bool) {
	startAt, ok := parseEventTime(item.Start, 0, 0, 0)
	if !ok {
		return nil, false
	}
	endAt, ok := parseEventTime(item.End, 23, 59, 59)
	if !ok {
		return nil, false
	}

	title := item.Summary
	if title == "" {
		title = untitledEvent
	}
	now := time.Now().UTC()

	event := &model.CalendarEvent{
		UserID:        userID,
		GoogleEventID: item.Id,
		CalendarID:    calendarID,
		Title:         title,
		StartAt:       startAt,
		EndAt:         endAt,
		Timezone:      "UTC",
		CreatedBy:     createdBy,
		Status:        item.Status,
		CreatedAt:     &now,
		UpdatedAt:     &now,
	}
	if item.Description != "" {
		description := item.Description
		event.Description = &description
	}
	if event.Status == "" {
		event.Status = model.EventStatusConfirmed
	}
	for _, line := range item.Recurrence {
		if rule, found := strings.CutPrefix(line, "RRULE:"); found {
			event.Recurrence = rule
			break
		}
	}
	return event, true
}

func parseEventTime(edt *calendar.EventDateTime, hour, minute, second int) (time.Time, bool) {
	if edt == nil {
		return time.Time{}, false
	}
	if edt.DateTime != "" {
		t, err := time.Parse(time.RFC3339, edt.DateTime)
		if err != nil {
			return time.Time{}, false
		}
		return t.UTC(), true
	}
	if edt.Date != "" {
		d, err := time.Parse(time.DateOnly, edt.Date)
		if err != nil {
			return time.Time{}, false
		}
		return time.Date(d.Year(), d.Month(), d.Day(), hour, minute, second, 0, time.UTC), true
	}
	return time.Time{}, false
}
