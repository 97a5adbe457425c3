package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"eventlisting/booking"
	"eventlisting/database"

	"github.com/google/uuid"
)

type BookingStore struct {
	handle *database.Handle[*sql.DB]
}

func NewBookingStore(handle *database.Handle[*sql.DB]) *BookingStore {
	return &BookingStore{handle: handle}
}

func (s *BookingStore) InsertBooking(ctx context.Context, b booking.Booking) (*booking.Booking, error) {
	db, err := s.handle.Get(ctx)
	if err != nil {
		return nil, err
	}

	query := `INSERT INTO bookings (id, event_id, email, created_at, updated_at) VALUES ($1, $2, $3, now(), now()) RETURNING created_at, updated_at`
	if err := db.QueryRowContext(ctx, query, b.ID, b.EventID, b.Email).Scan(&b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, fmt.Errorf("insert: %w", storeError(err))
	}
	return &b, nil
}

func (s *BookingStore) UpdateBooking(ctx context.Context, b booking.Booking) (*booking.Booking, error) {
	db, err := s.handle.Get(ctx)
	if err != nil {
		return nil, err
	}

	query := `UPDATE bookings SET event_id = $1, email = $2, updated_at = now() WHERE id = $3 RETURNING created_at, updated_at`
	if err := db.QueryRowContext(ctx, query, b.EventID, b.Email, b.ID).Scan(&b.CreatedAt, &b.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, database.ErrNotFound
		}
		return nil, fmt.Errorf("update: %w", storeError(err))
	}
	return &b, nil
}

func (s *BookingStore) GetBooking(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	db, err := s.handle.Get(ctx)
	if err != nil {
		return nil, err
	}

	var b booking.Booking
	query := `SELECT id, event_id, email, created_at, updated_at FROM bookings WHERE id = $1`
	row := db.QueryRowContext(ctx, query, id)
	if err := row.Scan(&b.ID, &b.EventID, &b.Email, &b.CreatedAt, &b.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, database.ErrNotFound
		}
		return nil, fmt.Errorf("scan: %w", storeError(err))
	}
	return &b, nil
}

func (s *BookingStore) GetBookingsForEvent(ctx context.Context, eventID uuid.UUID) ([]booking.Booking, error) {
	db, err := s.handle.Get(ctx)
	if err != nil {
		return nil, err
	}

	query := `SELECT id, event_id, email, created_at, updated_at FROM bookings WHERE event_id = $1 ORDER BY created_at`
	rows, err := db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("query context: %w", storeError(err))
	}
	defer rows.Close()

	bookings := []booking.Booking{}
	for rows.Next() {
		var b booking.Booking
		if err := rows.Scan(&b.ID, &b.EventID, &b.Email, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", storeError(err))
	}
	return bookings, nil
}

func (s *BookingStore) DeleteBooking(ctx context.Context, id uuid.UUID) error {
	db, err := s.handle.Get(ctx)
	if err != nil {
		return err
	}

	result, err := db.ExecContext(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("exec context: %w", storeError(err))
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return database.ErrNotFound
	}
	return nil
}
