package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"eventlisting/booking"
	"eventlisting/database"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type bookingDoc struct {
	ID        string    `bson:"_id"`
	EventID   string    `bson:"eventId"`
	Email     string    `bson:"email"`
	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

func (d bookingDoc) booking() (*booking.Booking, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("parse id %q: %w", d.ID, err)
	}
	eventID, err := uuid.Parse(d.EventID)
	if err != nil {
		return nil, fmt.Errorf("parse eventId %q: %w", d.EventID, err)
	}
	return &booking.Booking{
		ID:        id,
		EventID:   eventID,
		Email:     d.Email,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}, nil
}

type BookingStore struct {
	collections
}

func NewBookingStore(handle *database.Handle[*mongo.Client], dbName string) *BookingStore {
	return &BookingStore{collections{handle: handle, dbName: dbName, now: time.Now}}
}

func (s *BookingStore) InsertBooking(ctx context.Context, b booking.Booking) (*booking.Booking, error) {
	coll, err := s.collection(ctx, bookingsCollection)
	if err != nil {
		return nil, err
	}

	now := s.stamp()
	b.CreatedAt, b.UpdatedAt = now, now
	doc := bookingDoc{ID: b.ID.String(), EventID: b.EventID.String(), Email: b.Email, CreatedAt: now, UpdatedAt: now}
	if _, err := coll.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert one: %w", storeError(err))
	}
	return &b, nil
}

func (s *BookingStore) UpdateBooking(ctx context.Context, b booking.Booking) (*booking.Booking, error) {
	coll, err := s.collection(ctx, bookingsCollection)
	if err != nil {
		return nil, err
	}

	update := bson.M{"$set": bson.M{
		"eventId":   b.EventID.String(),
		"email":     b.Email,
		"updatedAt": s.stamp(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc bookingDoc
	if err := coll.FindOneAndUpdate(ctx, bson.M{"_id": b.ID.String()}, update, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, database.ErrNotFound
		}
		return nil, fmt.Errorf("find one and update: %w", storeError(err))
	}
	return doc.booking()
}

func (s *BookingStore) GetBooking(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	coll, err := s.collection(ctx, bookingsCollection)
	if err != nil {
		return nil, err
	}

	var doc bookingDoc
	if err := coll.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, database.ErrNotFound
		}
		return nil, fmt.Errorf("find one: %w", storeError(err))
	}
	return doc.booking()
}

func (s *BookingStore) GetBookingsForEvent(ctx context.Context, eventID uuid.UUID) ([]booking.Booking, error) {
	coll, err := s.collection(ctx, bookingsCollection)
	if err != nil {
		return nil, err
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := coll.Find(ctx, bson.M{"eventId": eventID.String()}, opts)
	if err != nil {
		return nil, fmt.Errorf("find: %w", storeError(err))
	}
	defer cursor.Close(ctx)

	var docs []bookingDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("cursor: %w", storeError(err))
	}

	bookings := make([]booking.Booking, 0, len(docs))
	for _, d := range docs {
		b, err := d.booking()
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, nil
}

func (s *BookingStore) DeleteBooking(ctx context.Context, id uuid.UUID) error {
	coll, err := s.collection(ctx, bookingsCollection)
	if err != nil {
		return err
	}

	result, err := coll.DeleteOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return fmt.Errorf("delete one: %w", storeError(err))
	}
	if result.DeletedCount == 0 {
		return database.ErrNotFound
	}
	return nil
}
