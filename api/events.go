package api

import (
	"encoding/json"
	"net/http"

	"eventlisting/event"

	"github.com/gorilla/mux"
)

type getEventsResponse struct {
	Events []event.Event `json:"events"`
}

func (a *API) getEvents(w http.ResponseWriter, r *http.Request) {
	events, err := a.events.GetEvents(r.Context())
	if err != nil {
		a.Error(w, r, err)
		return
	}
	a.Response(w, http.StatusOK, getEventsResponse{Events: events})
}

// createEventRequest leaves out the fields the server assigns.
type createEventRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Overview    string   `json:"overview"`
	Image       string   `json:"image"`
	Venue       string   `json:"venue"`
	Location    string   `json:"location"`
	Date        string   `json:"date"`
	Time        string   `json:"time"`
	Mode        string   `json:"mode"`
	Audience    string   `json:"audience"`
	Agenda      []string `json:"agenda"`
	Organizer   string   `json:"organizer"`
	Tags        []string `json:"tags"`
}

func (a *API) createEvent(w http.ResponseWriter, r *http.Request) {
	var req createEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.Response(w, http.StatusBadRequest, "invalid request body")
		return
	}

	evt, err := a.events.CreateEvent(r.Context(), event.Event{
		Title:       req.Title,
		Description: req.Description,
		Overview:    req.Overview,
		Image:       req.Image,
		Venue:       req.Venue,
		Location:    req.Location,
		Date:        req.Date,
		Time:        req.Time,
		Mode:        req.Mode,
		Audience:    req.Audience,
		Agenda:      req.Agenda,
		Organizer:   req.Organizer,
		Tags:        req.Tags,
	})
	if err != nil {
		a.Error(w, r, err)
		return
	}
	a.Response(w, http.StatusCreated, evt)
}

func (a *API) getEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := a.pathID(w, r)
	if !ok {
		return
	}

	evt, err := a.events.GetEvent(r.Context(), id)
	if err != nil {
		a.Error(w, r, err)
		return
	}
	a.Response(w, http.StatusOK, evt)
}

func (a *API) getEventBySlug(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]
	if slug == "" {
		a.Response(w, http.StatusBadRequest, "slug is required")
		return
	}

	evt, err := a.events.GetEventBySlug(r.Context(), slug)
	if err != nil {
		a.Error(w, r, err)
		return
	}
	a.Response(w, http.StatusOK, evt)
}

func (a *API) updateEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := a.pathID(w, r)
	if !ok {
		return
	}

	var patch event.Patch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		a.Response(w, http.StatusBadRequest, "invalid request body")
		return
	}

	evt, err := a.events.UpdateEvent(r.Context(), id, patch)
	if err != nil {
		a.Error(w, r, err)
		return
	}
	a.Response(w, http.StatusOK, evt)
}

func (a *API) deleteEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := a.pathID(w, r)
	if !ok {
		return
	}

	if err := a.events.DeleteEvent(r.Context(), id); err != nil {
		a.Error(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
