// Package mongostore implements the event and booking record stores on
// MongoDB. Documents use the record UUID, in string form, as _id.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"eventlisting/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	eventsCollection   = "events"
	bookingsCollection = "bookings"
)

// EnsureIndexes creates the unique slug index on events and the eventId
// lookup index on bookings.
func EnsureIndexes(ctx context.Context, handle *database.Handle[*mongo.Client], dbName string) error {
	client, err := handle.Get(ctx)
	if err != nil {
		return err
	}
	db := client.Database(dbName)

	_, err = db.Collection(eventsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "slug", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("slug_1"),
	})
	if err != nil {
		return fmt.Errorf("create events index: %w", storeError(err))
	}

	_, err = db.Collection(bookingsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "eventId", Value: 1}},
		Options: options.Index().SetName("eventId_1"),
	})
	if err != nil {
		return fmt.Errorf("create bookings index: %w", storeError(err))
	}
	return nil
}

type collections struct {
	handle *database.Handle[*mongo.Client]
	dbName string
	now    func() time.Time
}

func (c collections) collection(ctx context.Context, name string) (*mongo.Collection, error) {
	client, err := c.handle.Get(ctx)
	if err != nil {
		return nil, err
	}
	return client.Database(c.dbName).Collection(name), nil
}

// stamp is the write time. BSON dates keep milliseconds only.
func (c collections) stamp() time.Time {
	return c.now().UTC().Truncate(time.Millisecond)
}

func storeError(err error) error {
	switch {
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: %w", database.ErrDuplicateKey, err)
	case mongo.IsNetworkError(err), mongo.IsTimeout(err), errors.Is(err, mongo.ErrClientDisconnected):
		return fmt.Errorf("%w: %w", database.ErrConnection, err)
	}
	return err
}
