package event

import (
	"fmt"
	"slices"

	"eventlisting/normalize"
)

const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldOverview    = "overview"
	FieldImage       = "image"
	FieldVenue       = "venue"
	FieldLocation    = "location"
	FieldDate        = "date"
	FieldTime        = "time"
	FieldMode        = "mode"
	FieldAudience    = "audience"
	FieldAgenda      = "agenda"
	FieldOrganizer   = "organizer"
	FieldTags        = "tags"
)

// Changes is the set of fields a write modifies relative to the stored record.
type Changes struct {
	all    bool
	fields map[string]bool
}

// AllChanged marks every field as modified, as on create.
func AllChanged() Changes {
	return Changes{all: true}
}

// Diff reports the fields whose values differ between the stored snapshot and
// the incoming record.
func Diff(prior, next Event) Changes {
	c := Changes{fields: map[string]bool{}}
	mark := func(field string, changed bool) {
		if changed {
			c.fields[field] = true
		}
	}
	mark(FieldTitle, prior.Title != next.Title)
	mark(FieldDescription, prior.Description != next.Description)
	mark(FieldOverview, prior.Overview != next.Overview)
	mark(FieldImage, prior.Image != next.Image)
	mark(FieldVenue, prior.Venue != next.Venue)
	mark(FieldLocation, prior.Location != next.Location)
	mark(FieldDate, prior.Date != next.Date)
	mark(FieldTime, prior.Time != next.Time)
	mark(FieldMode, prior.Mode != next.Mode)
	mark(FieldAudience, prior.Audience != next.Audience)
	mark(FieldAgenda, !slices.Equal(prior.Agenda, next.Agenda))
	mark(FieldOrganizer, prior.Organizer != next.Organizer)
	mark(FieldTags, !slices.Equal(prior.Tags, next.Tags))
	return c
}

func (c Changes) Has(field string) bool {
	return c.all || c.fields[field]
}

func (c Changes) Empty() bool {
	return !c.all && len(c.fields) == 0
}

// ApplyPolicy recomputes the derived fields of e whose sources changed:
// slug from title, date from date, and time from time or date (a new date
// re-contextualizes the stored time). It works on a copy; on error the
// returned Event is the zero value and nothing should be written.
func ApplyPolicy(e Event, changed Changes) (Event, error) {
	if changed.Has(FieldTitle) {
		e.Slug = normalize.Slug(e.Title)
		if e.Slug == "" {
			return Event{}, &normalize.FieldError{Field: "slug", Err: normalize.ErrFieldRequired}
		}
	}

	if changed.Has(FieldDate) {
		date, err := normalize.Date(e.Date)
		if err != nil {
			return Event{}, fmt.Errorf("date: %w", err)
		}
		e.Date = date
	}

	if changed.Has(FieldTime) || changed.Has(FieldDate) {
		clock, err := normalize.Time(e.Time, normalize.ContextDate(e.Date))
		if err != nil {
			return Event{}, fmt.Errorf("time: %w", err)
		}
		e.Time = clock
	}

	return e, nil
}
