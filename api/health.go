package api

import (
	"context"
	"net/http"
)

// SetHealthCheck installs check as the readiness probe behind /health.
func (a *API) SetHealthCheck(check func(ctx context.Context) error) {
	a.ready = check
}

func (a *API) health(w http.ResponseWriter, r *http.Request) {
	if a.ready != nil {
		if err := a.ready(r.Context()); err != nil {
			a.logger.WarnContext(r.Context(), "health check failed", "err", err)
			a.Response(w, http.StatusServiceUnavailable, "store unreachable")
			return
		}
	}
	a.Response(w, http.StatusOK, "OK")
}
