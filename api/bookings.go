package api

import (
	"encoding/json"
	"net/http"

	"eventlisting/booking"
)

type getBookingsResponse struct {
	Bookings []booking.Booking `json:"bookings"`
}

func (a *API) getEventBookings(w http.ResponseWriter, r *http.Request) {
	eventID, ok := a.pathID(w, r)
	if !ok {
		return
	}

	bookings, err := a.bookings.GetBookingsForEvent(r.Context(), eventID)
	if err != nil {
		a.Error(w, r, err)
		return
	}
	a.Response(w, http.StatusOK, getBookingsResponse{Bookings: bookings})
}

type createBookingRequest struct {
	Email string `json:"email"`
}

func (a *API) createBooking(w http.ResponseWriter, r *http.Request) {
	eventID, ok := a.pathID(w, r)
	if !ok {
		return
	}

	var req createBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.Response(w, http.StatusBadRequest, "invalid request body")
		return
	}

	b, err := a.bookings.CreateBooking(r.Context(), eventID, req.Email)
	if err != nil {
		a.Error(w, r, err)
		return
	}
	a.Response(w, http.StatusCreated, b)
}

func (a *API) getBooking(w http.ResponseWriter, r *http.Request) {
	id, ok := a.pathID(w, r)
	if !ok {
		return
	}

	b, err := a.bookings.GetBooking(r.Context(), id)
	if err != nil {
		a.Error(w, r, err)
		return
	}
	a.Response(w, http.StatusOK, b)
}

func (a *API) updateBooking(w http.ResponseWriter, r *http.Request) {
	id, ok := a.pathID(w, r)
	if !ok {
		return
	}

	var patch booking.Patch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		a.Response(w, http.StatusBadRequest, "invalid request body")
		return
	}

	b, err := a.bookings.UpdateBooking(r.Context(), id, patch)
	if err != nil {
		a.Error(w, r, err)
		return
	}
	a.Response(w, http.StatusOK, b)
}

func (a *API) deleteBooking(w http.ResponseWriter, r *http.Request) {
	id, ok := a.pathID(w, r)
	if !ok {
		return
	}

	if err := a.bookings.DeleteBooking(r.Context(), id); err != nil {
		a.Error(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
