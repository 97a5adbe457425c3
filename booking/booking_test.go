package booking_test

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"testing"
	"time"

	"eventlisting/booking"
	"eventlisting/database"
	"eventlisting/normalize"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	testifymock "github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockStore is a mock implementation of the Store interface
type MockStore struct {
	testifymock.Mock
}

func (m *MockStore) InsertBooking(ctx context.Context, b booking.Booking) (*booking.Booking, error) {
	args := m.Called(ctx, b)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*booking.Booking), args.Error(1)
}

func (m *MockStore) UpdateBooking(ctx context.Context, b booking.Booking) (*booking.Booking, error) {
	args := m.Called(ctx, b)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*booking.Booking), args.Error(1)
}

func (m *MockStore) GetBooking(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*booking.Booking), args.Error(1)
}

func (m *MockStore) GetBookingsForEvent(ctx context.Context, eventID uuid.UUID) ([]booking.Booking, error) {
	args := m.Called(ctx, eventID)
	return args.Get(0).([]booking.Booking), args.Error(1)
}

func (m *MockStore) DeleteBooking(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// MockEventChecker is a mock implementation of the EventChecker interface
type MockEventChecker struct {
	testifymock.Mock
}

func (m *MockEventChecker) EventExists(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestCreateBooking(t *testing.T) {
	eventID := uuid.New()

	t.Run("normalizes email and checks the event", func(t *testing.T) {
		store := new(MockStore)
		events := new(MockEventChecker)
		a := booking.NewAccessor(store, events, discard)

		events.On("EventExists", testifymock.Anything, eventID).Return(true, nil)
		store.On("InsertBooking", testifymock.Anything, testifymock.MatchedBy(func(b booking.Booking) bool {
			return b.EventID == eventID && b.Email == "john.doe@example.com" && b.ID != uuid.Nil
		})).Return(&booking.Booking{ID: uuid.New(), EventID: eventID, Email: "john.doe@example.com"}, nil)

		created, err := a.CreateBooking(t.Context(), eventID, "John.Doe@Example.com ")
		require.NoError(t, err)
		assert.Equal(t, "john.doe@example.com", created.Email)
		assert.Equal(t, eventID, created.EventID)

		events.AssertExpectations(t)
		store.AssertExpectations(t)
	})

	t.Run("dangling reference", func(t *testing.T) {
		store := new(MockStore)
		events := new(MockEventChecker)
		a := booking.NewAccessor(store, events, discard)

		events.On("EventExists", testifymock.Anything, eventID).Return(false, nil)

		_, err := a.CreateBooking(t.Context(), eventID, "john.doe@example.com")
		require.Error(t, err)
		assert.ErrorIs(t, err, booking.ErrDanglingReference)
		store.AssertNotCalled(t, "InsertBooking", testifymock.Anything, testifymock.Anything)
	})

	t.Run("invalid email skips the lookup", func(t *testing.T) {
		store := new(MockStore)
		events := new(MockEventChecker)
		a := booking.NewAccessor(store, events, discard)

		_, err := a.CreateBooking(t.Context(), eventID, "not-an-email")
		assert.ErrorIs(t, err, normalize.ErrInvalidEmail)
		events.AssertNotCalled(t, "EventExists", testifymock.Anything, testifymock.Anything)
		store.AssertNotCalled(t, "InsertBooking", testifymock.Anything, testifymock.Anything)
	})

	t.Run("missing event id", func(t *testing.T) {
		store := new(MockStore)
		events := new(MockEventChecker)
		a := booking.NewAccessor(store, events, discard)

		_, err := a.CreateBooking(t.Context(), uuid.Nil, "john.doe@example.com")
		assert.ErrorIs(t, err, normalize.ErrFieldRequired)
		events.AssertNotCalled(t, "EventExists", testifymock.Anything, testifymock.Anything)
	})

	t.Run("lookup failure", func(t *testing.T) {
		store := new(MockStore)
		events := new(MockEventChecker)
		a := booking.NewAccessor(store, events, discard)

		events.On("EventExists", testifymock.Anything, eventID).Return(false, database.ErrConnection)

		_, err := a.CreateBooking(t.Context(), eventID, "john.doe@example.com")
		assert.ErrorIs(t, err, database.ErrConnection)
		assert.NotErrorIs(t, err, booking.ErrDanglingReference)
		store.AssertNotCalled(t, "InsertBooking", testifymock.Anything, testifymock.Anything)
	})
}

func TestUpdateBooking(t *testing.T) {
	now := time.Now()
	prior := &booking.Booking{
		ID:        uuid.New(),
		EventID:   uuid.New(),
		Email:     "john.doe@example.com",
		CreatedAt: now,
		UpdatedAt: now,
	}

	t.Run("re-checks the event on every save", func(t *testing.T) {
		store := new(MockStore)
		events := new(MockEventChecker)
		a := booking.NewAccessor(store, events, discard)

		newEmail := " JANE@example.com"
		store.On("GetBooking", testifymock.Anything, prior.ID).Return(prior, nil)
		events.On("EventExists", testifymock.Anything, prior.EventID).Return(true, nil)
		store.On("UpdateBooking", testifymock.Anything, testifymock.MatchedBy(func(b booking.Booking) bool {
			return b.ID == prior.ID && b.Email == "jane@example.com"
		})).Return(&booking.Booking{ID: prior.ID, EventID: prior.EventID, Email: "jane@example.com"}, nil)

		updated, err := a.UpdateBooking(t.Context(), prior.ID, booking.Patch{Email: &newEmail})
		require.NoError(t, err)
		assert.Equal(t, "jane@example.com", updated.Email)
		events.AssertExpectations(t)
		store.AssertExpectations(t)
	})

	t.Run("moving to a deleted event fails", func(t *testing.T) {
		store := new(MockStore)
		events := new(MockEventChecker)
		a := booking.NewAccessor(store, events, discard)

		gone := uuid.New()
		store.On("GetBooking", testifymock.Anything, prior.ID).Return(prior, nil)
		events.On("EventExists", testifymock.Anything, gone).Return(false, nil)

		_, err := a.UpdateBooking(t.Context(), prior.ID, booking.Patch{EventID: &gone})
		assert.ErrorIs(t, err, booking.ErrDanglingReference)
		store.AssertNotCalled(t, "UpdateBooking", testifymock.Anything, testifymock.Anything)
	})

	t.Run("missing booking", func(t *testing.T) {
		store := new(MockStore)
		events := new(MockEventChecker)
		a := booking.NewAccessor(store, events, discard)

		id := uuid.New()
		store.On("GetBooking", testifymock.Anything, id).Return(nil, database.ErrNotFound)

		_, err := a.UpdateBooking(t.Context(), id, booking.Patch{})
		assert.ErrorIs(t, err, database.ErrNotFound)
	})
}

func TestGetAndDeleteBookings(t *testing.T) {
	store := new(MockStore)
	events := new(MockEventChecker)
	a := booking.NewAccessor(store, events, discard)

	eventID := uuid.New()
	list := []booking.Booking{{ID: uuid.New(), EventID: eventID, Email: "a@b.co"}}
	store.On("GetBookingsForEvent", testifymock.Anything, eventID).Return(list, nil)
	store.On("DeleteBooking", testifymock.Anything, list[0].ID).Return(sql.ErrConnDone)

	got, err := a.GetBookingsForEvent(t.Context(), eventID)
	require.NoError(t, err)
	assert.Equal(t, list, got)

	err = a.DeleteBooking(t.Context(), list[0].ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "delete booking")
	events.AssertNotCalled(t, "EventExists", testifymock.Anything, testifymock.Anything)
}
