package api

import (
	"errors"
	"net/http"

	"eventlisting/booking"
	"eventlisting/database"
	"eventlisting/normalize"
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, normalize.ErrFieldRequired),
		errors.Is(err, normalize.ErrInvalidDate),
		errors.Is(err, normalize.ErrInvalidTime),
		errors.Is(err, normalize.ErrInvalidEmail):
		return http.StatusBadRequest
	case errors.Is(err, database.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, database.ErrDuplicateKey):
		return http.StatusConflict
	case errors.Is(err, booking.ErrDanglingReference):
		return http.StatusUnprocessableEntity
	case errors.Is(err, database.ErrConnection):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// Error writes err with the status its kind maps to. Server-side failures
// are logged and their detail withheld from the client.
func (a *API) Error(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		a.logger.ErrorContext(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "err", err)
		a.Response(w, status, http.StatusText(status))
		return
	}
	a.Response(w, status, err.Error())
}
