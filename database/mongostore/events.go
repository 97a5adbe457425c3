package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"eventlisting/database"
	"eventlisting/event"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type eventDoc struct {
	ID          string    `bson:"_id"`
	Title       string    `bson:"title"`
	Slug        string    `bson:"slug"`
	Description string    `bson:"description"`
	Overview    string    `bson:"overview"`
	Image       string    `bson:"image"`
	Venue       string    `bson:"venue"`
	Location    string    `bson:"location"`
	Date        string    `bson:"date"`
	Time        string    `bson:"time"`
	Mode        string    `bson:"mode"`
	Audience    string    `bson:"audience"`
	Agenda      []string  `bson:"agenda"`
	Organizer   string    `bson:"organizer"`
	Tags        []string  `bson:"tags"`
	CreatedAt   time.Time `bson:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt"`
}

func toEventDoc(e event.Event) eventDoc {
	return eventDoc{
		ID:          e.ID.String(),
		Title:       e.Title,
		Slug:        e.Slug,
		Description: e.Description,
		Overview:    e.Overview,
		Image:       e.Image,
		Venue:       e.Venue,
		Location:    e.Location,
		Date:        e.Date,
		Time:        e.Time,
		Mode:        e.Mode,
		Audience:    e.Audience,
		Agenda:      e.Agenda,
		Organizer:   e.Organizer,
		Tags:        e.Tags,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func (d eventDoc) event() (*event.Event, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("parse id %q: %w", d.ID, err)
	}
	tags := d.Tags
	if tags == nil {
		tags = []string{}
	}
	return &event.Event{
		ID:          id,
		Title:       d.Title,
		Slug:        d.Slug,
		Description: d.Description,
		Overview:    d.Overview,
		Image:       d.Image,
		Venue:       d.Venue,
		Location:    d.Location,
		Date:        d.Date,
		Time:        d.Time,
		Mode:        d.Mode,
		Audience:    d.Audience,
		Agenda:      d.Agenda,
		Organizer:   d.Organizer,
		Tags:        tags,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}, nil
}

// EventStore implements event.Store and booking.EventChecker.
type EventStore struct {
	collections
}

func NewEventStore(handle *database.Handle[*mongo.Client], dbName string) *EventStore {
	return &EventStore{collections{handle: handle, dbName: dbName, now: time.Now}}
}

func (s *EventStore) InsertEvent(ctx context.Context, e event.Event) (*event.Event, error) {
	coll, err := s.collection(ctx, eventsCollection)
	if err != nil {
		return nil, err
	}

	now := s.stamp()
	e.CreatedAt, e.UpdatedAt = now, now
	if _, err := coll.InsertOne(ctx, toEventDoc(e)); err != nil {
		return nil, fmt.Errorf("insert one: %w", storeError(err))
	}
	return &e, nil
}

// UpdateEvent sets every field but createdAt and returns the stored result.
func (s *EventStore) UpdateEvent(ctx context.Context, e event.Event) (*event.Event, error) {
	coll, err := s.collection(ctx, eventsCollection)
	if err != nil {
		return nil, err
	}

	update := bson.M{"$set": bson.M{
		"title":       e.Title,
		"slug":        e.Slug,
		"description": e.Description,
		"overview":    e.Overview,
		"image":       e.Image,
		"venue":       e.Venue,
		"location":    e.Location,
		"date":        e.Date,
		"time":        e.Time,
		"mode":        e.Mode,
		"audience":    e.Audience,
		"agenda":      e.Agenda,
		"organizer":   e.Organizer,
		"tags":        e.Tags,
		"updatedAt":   s.stamp(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc eventDoc
	err = coll.FindOneAndUpdate(ctx, bson.M{"_id": e.ID.String()}, update, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, database.ErrNotFound
		}
		return nil, fmt.Errorf("find one and update: %w", storeError(err))
	}
	return doc.event()
}

func (s *EventStore) GetEvent(ctx context.Context, id uuid.UUID) (*event.Event, error) {
	return s.findOne(ctx, bson.M{"_id": id.String()})
}

func (s *EventStore) GetEventBySlug(ctx context.Context, slug string) (*event.Event, error) {
	return s.findOne(ctx, bson.M{"slug": slug})
}

func (s *EventStore) findOne(ctx context.Context, filter bson.M) (*event.Event, error) {
	coll, err := s.collection(ctx, eventsCollection)
	if err != nil {
		return nil, err
	}

	var doc eventDoc
	if err := coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, database.ErrNotFound
		}
		return nil, fmt.Errorf("find one: %w", storeError(err))
	}
	return doc.event()
}

func (s *EventStore) GetEvents(ctx context.Context) ([]event.Event, error) {
	coll, err := s.collection(ctx, eventsCollection)
	if err != nil {
		return nil, err
	}

	cursor, err := coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("find: %w", storeError(err))
	}
	defer cursor.Close(ctx)

	var docs []eventDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("cursor: %w", storeError(err))
	}

	events := make([]event.Event, 0, len(docs))
	for _, d := range docs {
		e, err := d.event()
		if err != nil {
			return nil, err
		}
		events = append(events, *e)
	}
	return events, nil
}

func (s *EventStore) DeleteEvent(ctx context.Context, id uuid.UUID) error {
	coll, err := s.collection(ctx, eventsCollection)
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

func (s *EventStore) EventExists(ctx context.Context, id uuid.UUID) (bool, error) {
	coll, err := s.collection(ctx, eventsCollection)
	if err != nil {
		return false, err
	}

	opts := options.FindOne().SetProjection(bson.M{"_id": 1})
	err = coll.FindOne(ctx, bson.M{"_id": id.String()}, opts).Err()
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return false, nil
	default:
		return false, fmt.Errorf("find one: %w", storeError(err))
	}
}
