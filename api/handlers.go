package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"

	"eventlisting/booking"
	"eventlisting/event"

	"github.com/google/uuid"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

type API struct {
	root     *mux.Router
	router   *mux.Router
	events   *event.Accessor
	bookings *booking.Accessor
	limiter  *RateLimiter
	ready    func(ctx context.Context) error
	logger   *slog.Logger
}

// NewAPI wires the accessors into a router mounted under /api. A nil limiter
// leaves booking creation unthrottled.
func NewAPI(events *event.Accessor, bookings *booking.Accessor, limiter *RateLimiter, logger *slog.Logger) *API {
	if logger == nil {
		logger = slog.Default()
	}
	root := mux.NewRouter()
	return &API{
		root:     root,
		router:   root.PathPrefix("/api").Subrouter(),
		events:   events,
		bookings: bookings,
		limiter:  limiter,
		logger:   logger,
	}
}

// Router returns the bare router without middleware.
func (a *API) Router() http.Handler {
	return a.root
}

func (a *API) Handler() http.Handler {
	var h http.Handler = a.root
	h = cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	}).Handler(h)
	h = handlers.RecoveryHandler(handlers.RecoveryLogger(slog.NewLogLogger(a.logger.Handler(), slog.LevelError)))(h)
	// Use Gorilla's built-in logging handler
	return handlers.LoggingHandler(os.Stdout, h)
}

type Response struct {
	Status   int `json:"status"`
	Response any `json:"response"`
}

func (a *API) Response(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(Response{
		Status:   status,
		Response: data,
	})
	if err != nil {
		a.logger.Error("failed to encode response", "err", err)
	}
}

func (a *API) RegisterRoutes() {
	a.router.HandleFunc("/health", a.health).Methods(http.MethodGet)

	a.router.HandleFunc("/events", a.getEvents).Methods(http.MethodGet)
	a.router.HandleFunc("/events", a.createEvent).Methods(http.MethodPost)
	a.router.HandleFunc("/events/slug/{slug}", a.getEventBySlug).Methods(http.MethodGet)
	a.router.HandleFunc("/events/{id}", a.getEvent).Methods(http.MethodGet)
	a.router.HandleFunc("/events/{id}", a.updateEvent).Methods(http.MethodPatch)
	a.router.HandleFunc("/events/{id}", a.deleteEvent).Methods(http.MethodDelete)

	a.router.HandleFunc("/events/{id}/bookings", a.getEventBookings).Methods(http.MethodGet)
	a.router.Handle("/events/{id}/bookings", a.limit(http.HandlerFunc(a.createBooking))).Methods(http.MethodPost)
	a.router.HandleFunc("/bookings/{id}", a.getBooking).Methods(http.MethodGet)
	a.router.HandleFunc("/bookings/{id}", a.updateBooking).Methods(http.MethodPatch)
	a.router.HandleFunc("/bookings/{id}", a.deleteBooking).Methods(http.MethodDelete)
}

func (a *API) limit(next http.Handler) http.Handler {
	if a.limiter == nil {
		return next
	}
	return a.limiter.Limit(next)
}

func (a *API) pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		a.Response(w, http.StatusBadRequest, "invalid ID")
		return uuid.Nil, false
	}
	return id, true
}
