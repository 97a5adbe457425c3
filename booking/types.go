package booking

import (
	"errors"
	"time"

	"eventlisting/normalize"

	"github.com/google/uuid"
)

// ErrDanglingReference is returned when a booking names an event that does
// not exist at the time of the write.
var ErrDanglingReference = errors.New("referenced event not found")

type Booking struct {
	ID        uuid.UUID `json:"id"`
	EventID   uuid.UUID `json:"eventId"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Validate normalizes the email in place and checks the event reference is set.
func (b *Booking) Validate() error {
	if b.EventID == uuid.Nil {
		return &normalize.FieldError{Field: "eventId", Err: normalize.ErrFieldRequired}
	}
	email, err := normalize.Email(b.Email)
	if err != nil {
		return err
	}
	b.Email = email
	return nil
}

type Patch struct {
	EventID *uuid.UUID `json:"eventId,omitempty"`
	Email   *string    `json:"email,omitempty"`
}

func (p Patch) Apply(b Booking) Booking {
	if p.EventID != nil {
		b.EventID = *p.EventID
	}
	if p.Email != nil {
		b.Email = *p.Email
	}
	return b
}
