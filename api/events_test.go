package api_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"eventlisting/api"
	"eventlisting/booking"
	"eventlisting/database"
	"eventlisting/database/postgres"
	"eventlisting/event"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	insertEventQuery = `INSERT INTO events (id, title, slug, description, overview, image, venue, location, date, time, mode, audience, agenda, organizer, tags, created_at, updated_at)`
	selectEventQuery = `SELECT id, title, slug, description, overview, image, venue, location, date, time, mode, audience, agenda, organizer, tags, created_at, updated_at FROM events`
	updateEventQuery = `UPDATE events SET title = $1, slug = $2`
)

var eventColumns = []string{"id", "title", "slug", "description", "overview", "image", "venue", "location", "date", "time", "mode", "audience", "agenda", "organizer", "tags", "created_at", "updated_at"}

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func newAPI(handle *database.Handle[*sql.DB], limiter *api.RateLimiter) *api.API {
	events := postgres.NewEventStore(handle)
	a := api.NewAPI(
		event.NewAccessor(events, nil, discard),
		booking.NewAccessor(postgres.NewBookingStore(handle), events, discard),
		limiter,
		discard,
	)
	a.RegisterRoutes()
	return a
}

func setupAPI(t *testing.T, limiter *api.RateLimiter) (*api.API, sqlmock.Sqlmock) {
	t.Helper()
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	handle := database.NewHandle(func(context.Context) (*sql.DB, error) { return db, nil }, nil)
	return newAPI(handle, limiter), dbMock
}

func serve(a *api.API, method, target, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	a.Router().ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) (int, map[string]any) {
	t.Helper()
	var res api.Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&res))
	data, _ := res.Response.(map[string]any)
	return res.Status, data
}

func storedEventRow(id uuid.UUID, title, slug string, now time.Time) *sqlmock.Rows {
	return sqlmock.NewRows(eventColumns).AddRow(id.String(), title, slug, "The biggest React conference",
		"Two days of talks", "/images/event1.png", "Amsterdam RAI", "Amsterdam, NL", "2026-06-10T00:00:00.000Z",
		"09:15", "hybrid", "developers", "{Keynote,Workshops}", "GitNation", "{react}", now, now)
}

const createEventBody = `{
	"title": "  React Summit  ",
	"description": "The biggest React conference",
	"overview": "Two days of talks",
	"image": "/images/event1.png",
	"venue": "Amsterdam RAI",
	"location": "Amsterdam, NL",
	"date": "2026-06-10",
	"time": "9:15 AM",
	"mode": "hybrid",
	"audience": "developers",
	"agenda": ["Keynote", "Workshops"],
	"organizer": "GitNation",
	"tags": ["react"]
}`

func TestEventsAPI(t *testing.T) {
	t.Parallel()

	t.Run("create event", func(t *testing.T) {
		t.Parallel()
		a, dbMock := setupAPI(t, nil)
		now := time.Now().UTC()

		dbMock.ExpectQuery(regexp.QuoteMeta(insertEventQuery)).
			WithArgs(sqlmock.AnyArg(), "React Summit", "react-summit", "The biggest React conference", "Two days of talks",
				"/images/event1.png", "Amsterdam RAI", "Amsterdam, NL", "2026-06-10T00:00:00.000Z", "09:15", "hybrid",
				"developers", pq.Array([]string{"Keynote", "Workshops"}), "GitNation", pq.Array([]string{"react"})).
			WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

		rec := serve(a, http.MethodPost, "/api/events", createEventBody)

		require.NoError(t, dbMock.ExpectationsWereMet())
		assert.Equal(t, http.StatusCreated, rec.Code)
		status, evt := decode(t, rec)
		assert.Equal(t, http.StatusCreated, status)
		assert.Equal(t, "react-summit", evt["slug"])
		assert.Equal(t, "2026-06-10T00:00:00.000Z", evt["date"])
		assert.Equal(t, "09:15", evt["time"])
		assert.NotEmpty(t, evt["id"])
	})

	t.Run("create event invalid body", func(t *testing.T) {
		t.Parallel()
		a, _ := setupAPI(t, nil)

		rec := serve(a, http.MethodPost, "/api/events", "invalid")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("create event missing field", func(t *testing.T) {
		t.Parallel()
		a, dbMock := setupAPI(t, nil)

		rec := serve(a, http.MethodPost, "/api/events", `{"title":"","agenda":["x"]}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		require.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("create event bad time", func(t *testing.T) {
		t.Parallel()
		a, dbMock := setupAPI(t, nil)

		var body map[string]any
		require.NoError(t, json.Unmarshal([]byte(createEventBody), &body))
		body["time"] = "noon-ish"
		raw, _ := json.Marshal(body)

		rec := serve(a, http.MethodPost, "/api/events", string(raw))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		_, _ = decode(t, rec)
		require.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("create event duplicate slug", func(t *testing.T) {
		t.Parallel()
		a, dbMock := setupAPI(t, nil)

		dbMock.ExpectQuery(regexp.QuoteMeta(insertEventQuery)).
			WillReturnError(&pq.Error{Code: "23505", Constraint: "events_slug_key"})

		rec := serve(a, http.MethodPost, "/api/events", createEventBody)
		assert.Equal(t, http.StatusConflict, rec.Code)
		require.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("get event", func(t *testing.T) {
		t.Parallel()
		a, dbMock := setupAPI(t, nil)
		id := uuid.New()

		dbMock.ExpectQuery(regexp.QuoteMeta(selectEventQuery + ` WHERE id = $1`)).
			WithArgs(id).
			WillReturnRows(storedEventRow(id, "React Summit", "react-summit", time.Now()))

		rec := serve(a, http.MethodGet, "/api/events/"+id.String(), "")
		require.NoError(t, dbMock.ExpectationsWereMet())
		assert.Equal(t, http.StatusOK, rec.Code)
		_, evt := decode(t, rec)
		assert.Equal(t, id.String(), evt["id"])
		assert.Equal(t, []any{"Keynote", "Workshops"}, evt["agenda"])
	})

	t.Run("get event not found", func(t *testing.T) {
		t.Parallel()
		a, dbMock := setupAPI(t, nil)

		dbMock.ExpectQuery(regexp.QuoteMeta(selectEventQuery + ` WHERE id = $1`)).
			WillReturnRows(sqlmock.NewRows(eventColumns))

		rec := serve(a, http.MethodGet, "/api/events/"+uuid.NewString(), "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("get event invalid id", func(t *testing.T) {
		t.Parallel()
		a, _ := setupAPI(t, nil)

		rec := serve(a, http.MethodGet, "/api/events/not-a-uuid", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("get event by slug", func(t *testing.T) {
		t.Parallel()
		a, dbMock := setupAPI(t, nil)
		id := uuid.New()

		dbMock.ExpectQuery(regexp.QuoteMeta(selectEventQuery + ` WHERE slug = $1`)).
			WithArgs("react-summit").
			WillReturnRows(storedEventRow(id, "React Summit", "react-summit", time.Now()))

		rec := serve(a, http.MethodGet, "/api/events/slug/react-summit", "")
		require.NoError(t, dbMock.ExpectationsWereMet())
		assert.Equal(t, http.StatusOK, rec.Code)
		_, evt := decode(t, rec)
		assert.Equal(t, "react-summit", evt["slug"])
	})

	t.Run("get events", func(t *testing.T) {
		t.Parallel()
		a, dbMock := setupAPI(t, nil)
		now := time.Now()

		rows := storedEventRow(uuid.New(), "React Summit", "react-summit", now)
		rows.AddRow(uuid.NewString(), "Vue Conf", "vue-conf", "d", "o", "/i.png", "v", "l", "2026-07-01T00:00:00.000Z",
			"10:00", "online", "all", "{Talks}", "VueJS", "{}", now, now)
		dbMock.ExpectQuery(regexp.QuoteMeta(selectEventQuery + ` ORDER BY created_at DESC`)).WillReturnRows(rows)

		rec := serve(a, http.MethodGet, "/api/events", "")
		require.NoError(t, dbMock.ExpectationsWereMet())
		assert.Equal(t, http.StatusOK, rec.Code)
		_, body := decode(t, rec)
		assert.Len(t, body["events"], 2)
	})

	t.Run("update event title regenerates slug", func(t *testing.T) {
		t.Parallel()
		a, dbMock := setupAPI(t, nil)
		id := uuid.New()
		now := time.Now().UTC()

		dbMock.ExpectQuery(regexp.QuoteMeta(selectEventQuery + ` WHERE id = $1`)).
			WithArgs(id).
			WillReturnRows(storedEventRow(id, "React Summit", "react-summit", now))
		dbMock.ExpectQuery(regexp.QuoteMeta(updateEventQuery)).
			WithArgs("React Summit 2026", "react-summit-2026", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
				sqlmock.AnyArg(), sqlmock.AnyArg(), "2026-06-10T00:00:00.000Z", "09:15", sqlmock.AnyArg(), sqlmock.AnyArg(),
				sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), id).
			WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now.Add(time.Minute)))

		rec := serve(a, http.MethodPatch, "/api/events/"+id.String(), `{"title":"React Summit 2026"}`)
		require.NoError(t, dbMock.ExpectationsWereMet())
		assert.Equal(t, http.StatusOK, rec.Code)
		_, evt := decode(t, rec)
		assert.Equal(t, "react-summit-2026", evt["slug"])
	})

	t.Run("update event without changes skips the write", func(t *testing.T) {
		t.Parallel()
		a, dbMock := setupAPI(t, nil)
		id := uuid.New()

		dbMock.ExpectQuery(regexp.QuoteMeta(selectEventQuery + ` WHERE id = $1`)).
			WithArgs(id).
			WillReturnRows(storedEventRow(id, "React Summit", "react-summit", time.Now()))

		rec := serve(a, http.MethodPatch, "/api/events/"+id.String(), `{"title":"React Summit"}`)
		require.NoError(t, dbMock.ExpectationsWereMet())
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("delete event", func(t *testing.T) {
		t.Parallel()
		a, dbMock := setupAPI(t, nil)
		id := uuid.New()

		dbMock.ExpectQuery(regexp.QuoteMeta(selectEventQuery + ` WHERE id = $1`)).
			WithArgs(id).
			WillReturnRows(storedEventRow(id, "React Summit", "react-summit", time.Now()))
		dbMock.ExpectExec(regexp.QuoteMeta(`DELETE FROM events WHERE id = $1`)).
			WithArgs(id).
			WillReturnResult(sqlmock.NewResult(0, 1))

		rec := serve(a, http.MethodDelete, "/api/events/"+id.String(), "")
		require.NoError(t, dbMock.ExpectationsWereMet())
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("store unreachable", func(t *testing.T) {
		t.Parallel()
		handle := database.NewHandle(func(context.Context) (*sql.DB, error) {
			return nil, errors.New("connection refused")
		}, nil)
		a := newAPI(handle, nil)

		rec := serve(a, http.MethodGet, "/api/events", "")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		status, _ := decode(t, rec)
		assert.Equal(t, http.StatusServiceUnavailable, status)
	})
}

func TestHealth(t *testing.T) {
	t.Parallel()

	t.Run("ok", func(t *testing.T) {
		t.Parallel()
		a, _ := setupAPI(t, nil)

		rec := serve(a, http.MethodGet, "/api/health", "")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("store down", func(t *testing.T) {
		t.Parallel()
		a, _ := setupAPI(t, nil)
		a.SetHealthCheck(func(context.Context) error { return database.ErrConnection })

		rec := serve(a, http.MethodGet, "/api/health", "")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("middleware chain", func(t *testing.T) {
		t.Parallel()
		a, _ := setupAPI(t, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		rec := httptest.NewRecorder()
		a.Handler().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	})
}
