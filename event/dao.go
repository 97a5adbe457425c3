package event

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

func (a *Accessor) CreateEvent(ctx context.Context, e Event) (*Event, error) {
	if err := e.Validate(); err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}

	normalized, err := ApplyPolicy(e, AllChanged())
	if err != nil {
		return nil, fmt.Errorf("normalize: %w", err)
	}
	normalized.ID = uuid.New()

	created, err := a.store.InsertEvent(ctx, normalized)
	if err != nil {
		return nil, fmt.Errorf("insert event: %w", err)
	}

	a.logger.InfoContext(ctx, "event created", "id", created.ID, "slug", created.Slug)
	return created, nil
}

// UpdateEvent applies patch to the stored event. Derived fields are recomputed
// only for sources that differ from the stored snapshot, and the whole record
// is written in one call or not at all.
func (a *Accessor) UpdateEvent(ctx context.Context, id uuid.UUID, patch Patch) (*Event, error) {
	prior, err := a.store.GetEvent(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}

	next := patch.Apply(*prior)
	if err := next.Validate(); err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}

	changed := Diff(*prior, next)
	if changed.Empty() {
		return prior, nil
	}

	normalized, err := ApplyPolicy(next, changed)
	if err != nil {
		return nil, fmt.Errorf("normalize: %w", err)
	}

	updated, err := a.store.UpdateEvent(ctx, normalized)
	if err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}

	a.evict(ctx, prior.Slug)
	a.logger.InfoContext(ctx, "event updated", "id", updated.ID, "slug", updated.Slug)
	return updated, nil
}

func (a *Accessor) GetEvent(ctx context.Context, id uuid.UUID) (*Event, error) {
	e, err := a.store.GetEvent(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	return e, nil
}

func (a *Accessor) GetEventBySlug(ctx context.Context, slug string) (*Event, error) {
	cached, err := a.cache.Get(ctx, slug)
	if err != nil {
		a.logger.WarnContext(ctx, "event cache read failed", "slug", slug, "err", err)
	} else if cached != nil {
		return cached, nil
	}

	seen := a.evictions.Load()
	e, err := a.store.GetEventBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("get event by slug: %w", err)
	}

	if a.evictions.Load() != seen {
		return e, nil
	}
	if err := a.cache.Set(ctx, *e); err != nil {
		a.logger.WarnContext(ctx, "event cache write failed", "slug", slug, "err", err)
	}
	return e, nil
}

func (a *Accessor) GetEvents(ctx context.Context) ([]Event, error) {
	events, err := a.store.GetEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("get events: %w", err)
	}
	return events, nil
}

// DeleteEvent removes the event. Bookings that reference it are left in place.
func (a *Accessor) DeleteEvent(ctx context.Context, id uuid.UUID) error {
	e, err := a.store.GetEvent(ctx, id)
	if err != nil {
		return fmt.Errorf("get event: %w", err)
	}

	if err := a.store.DeleteEvent(ctx, e.ID); err != nil {
		return fmt.Errorf("delete event: %w", err)
	}

	a.evict(ctx, e.Slug)
	a.logger.InfoContext(ctx, "event deleted", "id", e.ID, "slug", e.Slug)
	return nil
}

func (a *Accessor) evict(ctx context.Context, slug string) {
	a.evictions.Add(1)
	if err := a.cache.Delete(ctx, slug); err != nil {
		a.logger.WarnContext(ctx, "event cache evict failed", "slug", slug, "err", err)
	}
}
