package booking

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// Store is the record store gateway for bookings. Missing records report
// database.ErrNotFound.
type Store interface {
	InsertBooking(ctx context.Context, b Booking) (*Booking, error)
	UpdateBooking(ctx context.Context, b Booking) (*Booking, error)
	GetBooking(ctx context.Context, id uuid.UUID) (*Booking, error)
	GetBookingsForEvent(ctx context.Context, eventID uuid.UUID) ([]Booking, error)
	DeleteBooking(ctx context.Context, id uuid.UUID) error
}

// EventChecker answers whether an event exists in the event collection.
type EventChecker interface {
	EventExists(ctx context.Context, id uuid.UUID) (bool, error)
}

// Accessor is the write-path entrypoint for bookings.
type Accessor struct {
	store  Store
	events EventChecker
	logger *slog.Logger
}

func NewAccessor(store Store, events EventChecker, logger *slog.Logger) *Accessor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Accessor{
		store:  store,
		events: events,
		logger: logger,
	}
}
