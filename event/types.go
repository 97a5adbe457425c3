package event

import (
	"slices"
	"time"

	"eventlisting/normalize"

	"github.com/google/uuid"
)

type Event struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	Overview    string    `json:"overview"`
	Image       string    `json:"image"`
	Venue       string    `json:"venue"`
	Location    string    `json:"location"`
	Date        string    `json:"date"`
	Time        string    `json:"time"`
	Mode        string    `json:"mode"`
	Audience    string    `json:"audience"`
	Agenda      []string  `json:"agenda"`
	Organizer   string    `json:"organizer"`
	Tags        []string  `json:"tags"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Validate trims every field in place and reports the first one that is
// missing. Slug is derived later and not checked here.
func (e *Event) Validate() error {
	required := []struct {
		name  string
		value *string
	}{
		{"title", &e.Title},
		{"description", &e.Description},
		{"overview", &e.Overview},
		{"image", &e.Image},
		{"venue", &e.Venue},
		{"location", &e.Location},
		{"date", &e.Date},
		{"time", &e.Time},
		{"mode", &e.Mode},
		{"audience", &e.Audience},
		{"organizer", &e.Organizer},
	}
	for _, f := range required {
		v, err := normalize.Required(f.name, *f.value)
		if err != nil {
			return err
		}
		*f.value = v
	}

	agenda, err := normalize.RequiredList("agenda", e.Agenda)
	if err != nil {
		return err
	}
	e.Agenda = agenda
	e.Tags = normalize.TrimList(e.Tags)
	return nil
}

// Patch carries the fields of a partial update. Nil fields are left as stored.
type Patch struct {
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	Overview    *string   `json:"overview,omitempty"`
	Image       *string   `json:"image,omitempty"`
	Venue       *string   `json:"venue,omitempty"`
	Location    *string   `json:"location,omitempty"`
	Date        *string   `json:"date,omitempty"`
	Time        *string   `json:"time,omitempty"`
	Mode        *string   `json:"mode,omitempty"`
	Audience    *string   `json:"audience,omitempty"`
	Agenda      *[]string `json:"agenda,omitempty"`
	Organizer   *string   `json:"organizer,omitempty"`
	Tags        *[]string `json:"tags,omitempty"`
}

// Apply returns a copy of e with the patch's fields set.
func (p Patch) Apply(e Event) Event {
	e.Agenda = slices.Clone(e.Agenda)
	e.Tags = slices.Clone(e.Tags)

	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&e.Title, p.Title)
	set(&e.Description, p.Description)
	set(&e.Overview, p.Overview)
	set(&e.Image, p.Image)
	set(&e.Venue, p.Venue)
	set(&e.Location, p.Location)
	set(&e.Date, p.Date)
	set(&e.Time, p.Time)
	set(&e.Mode, p.Mode)
	set(&e.Audience, p.Audience)
	set(&e.Organizer, p.Organizer)
	if p.Agenda != nil {
		e.Agenda = slices.Clone(*p.Agenda)
	}
	if p.Tags != nil {
		e.Tags = slices.Clone(*p.Tags)
	}
	return e
}
