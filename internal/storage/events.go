package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"
	"github.com/primer-app/primer/internal/common"
	"github.com/primer-app/primer/internal/model"
)

// Defaults applied to events saved without these fields.
const (
	DefaultCalendarID = "primary"
	DefaultTimezone   = "UTC"
	DefaultCreatedBy  = "user"
)

const eventColumns = `id, user_id, google_event_id, calendar_id, title, description,
	start_at, end_at, timezone, created_by, source_chat_id, status, recurrence,
	created_at, updated_at`

// SaveEvent inserts event or updates the stored copy. An event whose
// (user, Google event) pair is already stored takes over the stored ID, so
// re-syncing the same remote event never duplicates it. A missing ID is
// generated.
func (s *SQLiteStorage) SaveEvent(ctx context.Context, event *model.CalendarEvent) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateEvent(event); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if event.GoogleEventID != "" {
		var existingID string
		err := tx.QueryRowContext(ctx,
			`SELECT id FROM calendar_events WHERE user_id = ? AND google_event_id = ?`,
			event.UserID, event.GoogleEventID,
		).Scan(&existingID)
		switch {
		case err == nil:
			event.ID = existingID
		case !errors.Is(err, sql.ErrNoRows):
			return fmt.Errorf("failed to look up google event: %w", err)
		}
	}

	applyEventDefaults(event, time.Now().UTC())

	_, err = tx.ExecContext(ctx, `
		INSERT INTO calendar_events (`+eventColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			google_event_id = excluded.google_event_id,
			calendar_id = excluded.calendar_id,
			title = excluded.title,
			description = excluded.description,
			start_at = excluded.start_at,
			end_at = excluded.end_at,
			timezone = excluded.timezone,
			source_chat_id = excluded.source_chat_id,
			status = excluded.status,
			recurrence = excluded.recurrence,
			updated_at = excluded.updated_at`,
		event.ID,
		event.UserID,
		nullString(event.GoogleEventID),
		event.CalendarID,
		event.Title,
		nullStringPtr(event.Description),
		event.StartAt.UTC(),
		event.EndAt.UTC(),
		event.Timezone,
		event.CreatedBy,
		nullStringPtr(event.SourceChatID),
		event.Status,
		event.Recurrence,
		event.CreatedAt.UTC(),
		event.UpdatedAt.UTC(),
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: google event %s is already stored", common.ErrDuplicateEntry, event.GoogleEventID)
	}
	if err != nil {
		return fmt.Errorf("failed to save event: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit event: %w", err)
	}
	return nil
}

// GetEventsByUser returns the user's events ordered by start time.
func (s *SQLiteStorage) GetEventsByUser(ctx context.Context, userID string) ([]model.CalendarEvent, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+eventColumns+`
		FROM calendar_events
		WHERE user_id = ?
		ORDER BY start_at ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var events []model.CalendarEvent
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate events: %w", err)
	}
	return events, nil
}

// GetEventByID returns the stored event or an error wrapping common.ErrNotFound.
func (s *SQLiteStorage) GetEventByID(ctx context.Context, id string) (*model.CalendarEvent, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `SELECT `+eventColumns+` FROM calendar_events WHERE id = ?`, id)
	event, err := scanEvent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("event %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return event, nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}

// UpdateEvent overwrites the editable fields of a stored event.
func (s *SQLiteStorage) UpdateEvent(ctx context.Context, event *model.CalendarEvent) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateEvent(event); err != nil {
		return err
	}
	if err := validateString(event.ID, "id"); err != nil {
		return err
	}

	now := time.Now().UTC()
	result, err := s.db.ExecContext(ctx, `
		UPDATE calendar_events
		SET title = ?, description = ?, start_at = ?, end_at = ?, status = ?, updated_at = ?
		WHERE id = ?`,
		event.Title,
		nullStringPtr(event.Description),
		event.StartAt.UTC(),
		event.EndAt.UTC(),
		event.Status,
		now,
		event.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update event: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("event %s: %w", event.ID, common.ErrNotFound)
	}

	event.UpdatedAt = &now
	return nil
}

// DeleteEvent removes a stored event. Deleting a missing event is not an error.
func (s *SQLiteStorage) DeleteEvent(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, `DELETE FROM calendar_events WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	return nil
}

func applyEventDefaults(event *model.CalendarEvent, now time.Time) {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.CalendarID == "" {
		event.CalendarID = DefaultCalendarID
	}
	if event.Timezone == "" {
		event.Timezone = DefaultTimezone
	}
	if event.CreatedBy == "" {
		event.CreatedBy = DefaultCreatedBy
	}
	if event.Status == "" {
		event.Status = model.EventStatusConfirmed
	}
	if event.CreatedAt == nil {
		event.CreatedAt = &now
	}
	event.UpdatedAt = &now
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (*model.CalendarEvent, error) {
	var (
		event        model.CalendarEvent
		googleID     sql.NullString
		description  sql.NullString
		sourceChatID sql.NullString
		createdAt    sql.NullTime
		updatedAt    sql.NullTime
	)

	err := row.Scan(
		&event.ID,
		&event.UserID,
		&googleID,
		&event.CalendarID,
		&event.Title,
		&description,
		&event.StartAt,
		&event.EndAt,
		&event.Timezone,
		&event.CreatedBy,
		&sourceChatID,
		&event.Status,
		&event.Recurrence,
		&createdAt,
		&updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan event: %w", err)
	}

	event.GoogleEventID = googleID.String
	if description.Valid {
		event.Description = &description.String
	}
	if sourceChatID.Valid {
		event.SourceChatID = &sourceChatID.String
	}
	if createdAt.Valid {
		event.CreatedAt = &createdAt.Time
	}
	if updatedAt.Valid {
		event.UpdatedAt = &updatedAt.Time
	}
	return &event, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullStringPtr(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
