// Package storage provides the local persistence layer for calendar events.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/primer-app/primer/internal/model"
)

// Validation errors.
var (
	ErrNilContext       = errors.New("context cannot be nil")
	ErrEmptyString      = errors.New("string parameter cannot be empty")
	ErrNilParameter     = errors.New("parameter cannot be nil")
	ErrInvalidDateRange = errors.New("start date must be before end date")
	ErrInvalidEvent     = errors.New("invalid calendar event")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateEvent checks the fields every stored event must carry.
func validateEvent(event *model.CalendarEvent) error {
	if event == nil {
		return fmt.Errorf("%w: event", ErrNilParameter)
	}
	if event.UserID == "" {
		return fmt.Errorf("%w: missing user ID", ErrInvalidEvent)
	}
	if strings.TrimSpace(event.Title) == "" {
		return fmt.Errorf("%w: missing title", ErrInvalidEvent)
	}
	if event.StartAt.IsZero() || event.EndAt.IsZero() {
		return fmt.Errorf("%w: missing start or end time", ErrInvalidEvent)
	}
	if !event.EndAt.After(event.StartAt) {
		return ErrInvalidDateRange
	}
	return nil
}
