package http

import (
	"net/http"
	"time"

	"github.com/wingbeat/carrier/internal/auth/store"
	"github.com/wingbeat/carrier/pkg/httpx"
)

type systemStatus struct {
	Status  string `json:"status"`
	Uptime  string `json:"uptime"`
	Version string `json:"version"`
}

// LivezHandler reports process liveness. It says nothing about dependencies;
// a live process with a dead database is still live.
func LivezHandler(startTime time.Time, version string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, systemStatus{
			Status:  "ok",
			Uptime:  time.Since(startTime).Round(time.Second).String(),
			Version: version,
		})
	})
}

// ReadyzHandler reports readiness to serve, which includes the store being
// reachable.
func ReadyzHandler(startTime time.Time, version string, st store.Store) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		status := systemStatus{
			Status:  "ok",
			Uptime:  time.Since(startTime).Round(time.Second).String(),
			Version: version,
		}

		if err := st.Ping(r.Context()); err != nil {
			status.Status = "degraded"
			httpx.WriteJSON(w, http.StatusServiceUnavailable, status)
			return
		}

		httpx.WriteJSON(w, http.StatusOK, status)
	})
}
