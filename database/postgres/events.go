package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"eventlisting/database"
	"eventlisting/event"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const eventColumns = `id, title, slug, description, overview, image, venue, location, date, time, mode, audience, agenda, organizer, tags, created_at, updated_at`

// EventStore implements event.Store and booking.EventChecker.
type EventStore struct {
	handle *database.Handle[*sql.DB]
}

func NewEventStore(handle *database.Handle[*sql.DB]) *EventStore {
	return &EventStore{handle: handle}
}

func (s *EventStore) InsertEvent(ctx context.Context, e event.Event) (*event.Event, error) {
	db, err := s.handle.Get(ctx)
	if err != nil {
		return nil, err
	}

	query := `INSERT INTO events (id, title, slug, description, overview, image, venue, location, date, time, mode, audience, agenda, organizer, tags, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, now(), now()) RETURNING created_at, updated_at`
	row := db.QueryRowContext(ctx, query, e.ID, e.Title, e.Slug, e.Description, e.Overview, e.Image, e.Venue, e.Location,
		e.Date, e.Time, e.Mode, e.Audience, pq.Array(e.Agenda), e.Organizer, pq.Array(e.Tags))
	if err := row.Scan(&e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, fmt.Errorf("insert: %w", storeError(err))
	}

	return &e, nil
}

// UpdateEvent writes every column of e in one statement.
func (s *EventStore) UpdateEvent(ctx context.Context, e event.Event) (*event.Event, error) {
	db, err := s.handle.Get(ctx)
	if err != nil {
		return nil, err
	}

	query := `UPDATE events SET title = $1, slug = $2, description = $3, overview = $4, image = $5, venue = $6, location = $7, date = $8, time = $9, mode = $10, audience = $11, agenda = $12, organizer = $13, tags = $14, updated_at = now() WHERE id = $15 RETURNING created_at, updated_at`
	row := db.QueryRowContext(ctx, query, e.Title, e.Slug, e.Description, e.Overview, e.Image, e.Venue, e.Location,
		e.Date, e.Time, e.Mode, e.Audience, pq.Array(e.Agenda), e.Organizer, pq.Array(e.Tags), e.ID)
	if err := row.Scan(&e.CreatedAt, &e.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, database.ErrNotFound
		}
		return nil, fmt.Errorf("update: %w", storeError(err))
	}

	return &e, nil
}

func (s *EventStore) GetEvent(ctx context.Context, id uuid.UUID) (*event.Event, error) {
	return s.getOne(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1`, id)
}

func (s *EventStore) GetEventBySlug(ctx context.Context, slug string) (*event.Event, error) {
	return s.getOne(ctx, `SELECT `+eventColumns+` FROM events WHERE slug = $1`, slug)
}

func (s *EventStore) getOne(ctx context.Context, query string, arg any) (*event.Event, error) {
	db, err := s.handle.Get(ctx)
	if err != nil {
		return nil, err
	}

	e, err := scanEvent(db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, database.ErrNotFound
		}
		return nil, fmt.Errorf("scan: %w", storeError(err))
	}
	return e, nil
}

func (s *EventStore) GetEvents(ctx context.Context) ([]event.Event, error) {
	db, err := s.handle.Get(ctx)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + eventColumns + ` FROM events ORDER BY created_at DESC`
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query context: %w", storeError(err))
	}
	defer rows.Close()

	events := []event.Event{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		events = append(events, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", storeError(err))
	}

	return events, nil
}

func (s *EventStore) DeleteEvent(ctx context.Context, id uuid.UUID) error {
	db, err := s.handle.Get(ctx)
	if err != nil {
		return err
	}

	query := `DELETE FROM events WHERE id = $1`
	result, err := db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("exec context: %w", storeError(err))
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return database.ErrNotFound
	}
	return nil
}

func (s *EventStore) EventExists(ctx context.Context, id uuid.UUID) (bool, error) {
	db, err := s.handle.Get(ctx)
	if err != nil {
		return false, err
	}

	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM events WHERE id = $1)`
	if err := db.QueryRowContext(ctx, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("scan: %w", storeError(err))
	}
	return exists, nil
}

func scanEvent(row rowScanner) (*event.Event, error) {
	var e event.Event
	err := row.Scan(&e.ID, &e.Title, &e.Slug, &e.Description, &e.Overview, &e.Image, &e.Venue, &e.Location,
		&e.Date, &e.Time, &e.Mode, &e.Audience, pq.Array(&e.Agenda), &e.Organizer, pq.Array(&e.Tags),
		&e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}
