package api

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/fernwork/taskboard-api/internal/api/shared"
)

// readinessTimeout bounds the database ping so a hung connection pool cannot
// stall the readiness probe.
const readinessTimeout = 2 * time.Second

// HealthHandler serves the liveness and readiness probes.
type HealthHandler struct {
	db *sql.DB
}

// NewHealthHandler creates a HealthHandler backed by the given database pool.
func NewHealthHandler(db *sql.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// Healthz reports process liveness. It always returns 200 while the process
// is able to serve requests at all.
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

// Readyz reports readiness to take traffic: the database must answer a ping.
func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		shared.RespondWithError(w, r, http.StatusServiceUnavailable, "database unavailable")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, map[string]string{"status": "ready"})
}
