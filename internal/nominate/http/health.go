package http

import (
	"net/http"
	"time"

	"github.com/aussiebroadwan/nominate/internal/nominate/blob"
	"github.com/aussiebroadwan/nominate/internal/nominate/store"
	"github.com/aussiebroadwan/nominate/pkg/httpx"
	"github.com/aussiebroadwan/nominate/pkg/nominatesdk"
)

// LivezHandler godoc
//
//	@Summary		Health Check Endpoint
//	@Description	Liveness probe; always 200 while the process is serving
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	nominatesdk.HealthResponse	"status, uptime, version"
//	@Router			/livez [get].
func LivezHandler(startTime time.Time, version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, nominatesdk.HealthResponse{
			Status:  "ok",
			Uptime:  time.Since(startTime).String(),
			Version: version,
		})
	}
}

// ReadyzHandler godoc
//
//	@Summary		Readiness Check Endpoint
//	@Description	Readiness probe pinging the record store and the blob store
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	nominatesdk.HealthResponse	"status, uptime, version, checks"
//	@Failure		503	{object}	nominatesdk.HealthResponse	"status, uptime, version, checks - service not ready"
//	@Router			/readyz [get].
func ReadyzHandler(startTime time.Time, version string, st store.Store, blobs blob.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := &nominatesdk.HealthChecks{
			Database:  "ok",
			BlobStore: "ok",
		}
		overallStatus := "ok"
		statusCode := http.StatusOK

		if err := st.Ping(r.Context()); err != nil {
			checks.Database = "error: " + err.Error()
			overallStatus = "degraded"
			statusCode = http.StatusServiceUnavailable
		}
		if err := blobs.Ping(r.Context()); err != nil {
			checks.BlobStore = "error: " + err.Error()
			overallStatus = "degraded"
			statusCode = http.StatusServiceUnavailable
		}

		httpx.WriteJSON(w, statusCode, nominatesdk.HealthResponse{
			Status:  overallStatus,
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  checks,
		})
	}
}
