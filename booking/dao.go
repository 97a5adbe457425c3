package booking

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

func (a *Accessor) CreateBooking(ctx context.Context, eventID uuid.UUID, email string) (*Booking, error) {
	b := Booking{EventID: eventID, Email: email}
	if err := a.check(ctx, &b); err != nil {
		return nil, err
	}
	b.ID = uuid.New()

	created, err := a.store.InsertBooking(ctx, b)
	if err != nil {
		return nil, fmt.Errorf("insert booking: %w", err)
	}

	a.logger.InfoContext(ctx, "booking created", "id", created.ID, "event_id", created.EventID)
	return created, nil
}

// UpdateBooking re-runs the same checks as CreateBooking, including the
// event existence lookup, before writing.
func (a *Accessor) UpdateBooking(ctx context.Context, id uuid.UUID, patch Patch) (*Booking, error) {
	prior, err := a.store.GetBooking(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get booking: %w", err)
	}

	next := patch.Apply(*prior)
	if err := a.check(ctx, &next); err != nil {
		return nil, err
	}

	updated, err := a.store.UpdateBooking(ctx, next)
	if err != nil {
		return nil, fmt.Errorf("update booking: %w", err)
	}
	return updated, nil
}

func (a *Accessor) GetBooking(ctx context.Context, id uuid.UUID) (*Booking, error) {
	b, err := a.store.GetBooking(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get booking: %w", err)
	}
	return b, nil
}

func (a *Accessor) GetBookingsForEvent(ctx context.Context, eventID uuid.UUID) ([]Booking, error) {
	bookings, err := a.store.GetBookingsForEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("get bookings for event: %w", err)
	}
	return bookings, nil
}

func (a *Accessor) DeleteBooking(ctx context.Context, id uuid.UUID) error {
	if err := a.store.DeleteBooking(ctx, id); err != nil {
		return fmt.Errorf("delete booking: %w", err)
	}
	return nil
}

// check validates b and then confirms its event exists. The lookup gates this
// write only; later deletion of the event does not touch the booking.
func (a *Accessor) check(ctx context.Context, b *Booking) error {
	if err := b.Validate(); err != nil {
		return fmt.Errorf("validate: %w", err)
	}

	exists, err := a.events.EventExists(ctx, b.EventID)
	if err != nil {
		return fmt.Errorf("event exists: %w", err)
	}
	if !exists {
		return fmt.Errorf("event %s: %w", b.EventID, ErrDanglingReference)
	}
	return nil
}
