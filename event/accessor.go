package event

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/google/uuid"
)

// Store is the record store gateway for events. Lookups of missing records
// and updates of missing records report database.ErrNotFound; a slug that is
// already taken reports database.ErrDuplicateKey.
type Store interface {
	InsertEvent(ctx context.Context, e Event) (*Event, error)
	UpdateEvent(ctx context.Context, e Event) (*Event, error)
	GetEvent(ctx context.Context, id uuid.UUID) (*Event, error)
	GetEventBySlug(ctx context.Context, slug string) (*Event, error)
	GetEvents(ctx context.Context) ([]Event, error)
	DeleteEvent(ctx context.Context, id uuid.UUID) error
}

// Cache holds events by slug. Get returns nil, nil on a miss.
//
// Entries may trail the store by up to their TTL when a write from another
// process lands between a read and its fill.
type Cache interface {
	Get(ctx context.Context, slug string) (*Event, error)
	Set(ctx context.Context, e Event) error
	Delete(ctx context.Context, slug string) error
}

type NopCache struct{}

func (NopCache) Get(context.Context, string) (*Event, error) { return nil, nil }
func (NopCache) Set(context.Context, Event) error            { return nil }
func (NopCache) Delete(context.Context, string) error        { return nil }

type Accessor struct {
	store  Store
	cache  Cache
	logger *slog.Logger

	// evictions counts cache evictions; a slug read that overlaps one does
	// not fill the cache with what it read.
	evictions atomic.Uint64
}

func NewAccessor(store Store, cache Cache, logger *slog.Logger) *Accessor {
	if cache == nil {
		cache = NopCache{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Accessor{
		store:  store,
		cache:  cache,
		logger: logger,
	}
}
