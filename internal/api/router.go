package api

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/fernwork/taskboard-api/internal/api/middleware"
	"github.com/fernwork/taskboard-api/internal/service"
	"github.com/fernwork/taskboard-api/internal/store"
)

// RouterDeps carries the dependencies the router wires into handlers.
type RouterDeps struct {
	DB                *sql.DB
	StatusService     service.StatusService
	RecurrenceService service.RecurrenceService
	NotificationStore store.NotificationStore
	Logger            *slog.Logger
}

// NewRouter assembles the HTTP router: trace and recovery middleware, the
// health probes, and the service endpoints called by the frontend layer.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.TraceMiddleware)
	r.Use(chimiddleware.Recoverer)

	health := NewHealthHandler(deps.DB)
	r.Get("/healthz", health.Healthz)
	r.Get("/readyz", health.Readyz)

	tasks := NewTaskHandler(deps.StatusService, deps.Logger)
	recurrences := NewRecurrenceHandler(deps.RecurrenceService, deps.Logger)
	notifications := NewNotificationHandler(deps.NotificationStore, deps.Logger)

	r.Route("/api", func(r chi.Router) {
		r.Post("/tasks/{id}/status", tasks.ChangeStatus)

		r.Post("/recurrences", recurrences.Create)
		r.Put("/recurrences/{id}", recurrences.Update)
		r.Delete("/recurrences/{id}", recurrences.Disable)

		r.Get("/users/{id}/notifications", notifications.ListByUser)
		r.Get("/notifications/{id}", notifications.GetByID)
	})

	return r
}
