// Package postgres implements the event and booking record stores on
// PostgreSQL. Slug uniqueness is enforced by a unique index, not by the
// callers.
package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"

	"eventlisting/database"

	"github.com/lib/pq"
)

const uniqueViolation = "23505"

var schema = []string{
	`CREATE TABLE IF NOT EXISTS events (
		id UUID PRIMARY KEY,
		title TEXT NOT NULL,
		slug TEXT NOT NULL,
		description TEXT NOT NULL,
		overview TEXT NOT NULL,
		image TEXT NOT NULL,
		venue TEXT NOT NULL,
		location TEXT NOT NULL,
		date TEXT NOT NULL,
		time TEXT NOT NULL,
		mode TEXT NOT NULL,
		audience TEXT NOT NULL,
		agenda TEXT[] NOT NULL,
		organizer TEXT NOT NULL,
		tags TEXT[] NOT NULL DEFAULT '{}',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS events_slug_key ON events (slug)`,
	// No foreign key: the event check on bookings happens at write time only.
	`CREATE TABLE IF NOT EXISTS bookings (
		id UUID PRIMARY KEY,
		event_id UUID NOT NULL,
		email TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS bookings_event_id_idx ON bookings (event_id)`,
}

// Migrate creates the tables and indexes if they do not exist yet.
func Migrate(ctx context.Context, handle *database.Handle[*sql.DB]) error {
	db, err := handle.Get(ctx)
	if err != nil {
		return err
	}
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("exec context: %w", storeError(err))
		}
	}
	return nil
}

// storeError maps driver errors onto the gateway error kinds.
func storeError(err error) error {
	var pqErr *pq.Error
	switch {
	case errors.As(err, &pqErr) && pqErr.Code == uniqueViolation:
		return fmt.Errorf("%w: %s", database.ErrDuplicateKey, pqErr.Constraint)
	case errors.Is(err, driver.ErrBadConn), errors.Is(err, sql.ErrConnDone):
		return fmt.Errorf("%w: %w", database.ErrConnection, err)
	}
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}
