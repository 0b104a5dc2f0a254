package rest

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/task-tracker/internal/auth"
	"github.com/frahmantamala/task-tracker/internal/department"
	"github.com/frahmantamala/task-tracker/internal/position"
	"github.com/frahmantamala/task-tracker/internal/task"
	"github.com/frahmantamala/task-tracker/internal/timeentry"
	"github.com/frahmantamala/task-tracker/internal/transport/middleware"
	"github.com/frahmantamala/task-tracker/internal/transport/swagger"
	"github.com/frahmantamala/task-tracker/internal/worker"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

// Handlers groups every HTTP handler the API mounts. A nil handler leaves its routes out.
type Handlers struct {
	Health     *HealthHandler
	Auth       *auth.Handler
	Department *department.Handler
	Position   *position.Handler
	Worker     *worker.Handler
	Task       *task.Handler
	TimeEntry  *timeentry.Handler
}

type RouterOptions struct {
	AllowedOrigins []string
	// OpenAPISpec is served at /openapi.yml and backs the swagger UI when set.
	OpenAPISpec []byte
}

func RegisterAllRoutes(router *chi.Mux, h Handlers, opts RouterOptions, logger *slog.Logger) {
	router.Use(middleware.CORS(opts.AllowedOrigins))
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	if len(opts.OpenAPISpec) > 0 {
		router.Get(swagger.SpecPath, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/yaml")
			_, _ = w.Write(opts.OpenAPISpec)
		})
		router.Handle("/swagger/*", swagger.Handler())
	}

	router.Route("/api", func(r chi.Router) {
		if h.Health != nil {
			r.Get("/health", h.Health.Health)
			r.Get("/ping", h.Health.Ping)
		}

		if h.Auth == nil {
			return
		}

		r.Route("/auth", func(ar chi.Router) {
			ar.Post("/register", h.Auth.Register)
			ar.Post("/login", h.Auth.Login)
			ar.Group(func(pr chi.Router) {
				pr.Use(h.Auth.AuthMiddleware, middleware.UserContext)
				pr.Get("/profile", h.Auth.GetProfile)
				pr.Put("/profile", h.Auth.UpdateProfile)
			})
		})

		// everything below requires a valid bearer token
		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware, middleware.UserContext)

			if h.Department != nil {
				pr.Route("/departments", func(dr chi.Router) {
					dr.Get("/", h.Department.List)
					dr.Post("/", h.Department.Create)
					dr.Get("/{id}", h.Department.GetByID)
					dr.Put("/{id}", h.Department.Update)
					dr.Delete("/{id}", h.Department.Delete)
				})
			}

			if h.Position != nil {
				pr.Route("/positions", func(sr chi.Router) {
					sr.Get("/", h.Position.List)
					sr.Post("/", h.Position.Create)
					sr.Get("/{id}", h.Position.GetByID)
					sr.Put("/{id}", h.Position.Update)
					sr.Delete("/{id}", h.Position.Delete)
				})
			}

			if h.Worker != nil {
				pr.Route("/workers", func(wr chi.Router) {
					wr.Get("/", h.Worker.List)
					wr.Post("/", h.Worker.Create)
					wr.Get("/{id}", h.Worker.GetByID)
					wr.Put("/{id}", h.Worker.Update)
					wr.Delete("/{id}", h.Worker.Delete)
				})
			}

			if h.Task != nil {
				pr.Route("/tasks", func(tr chi.Router) {
					tr.Get("/", h.Task.List)
					tr.Post("/", h.Task.Create)
					tr.Get("/metadata", h.Task.Metadata)
					tr.Get("/statuses", h.Task.Statuses)
					tr.Get("/priorities", h.Task.Priorities)
					tr.Get("/complexities", h.Task.Complexities)
					tr.Get("/{id}", h.Task.GetByID)
					tr.Put("/{id}", h.Task.Update)
					tr.Patch("/{id}/status", h.Task.UpdateStatus)
					tr.Delete("/{id}", h.Task.Delete)
				})
			}

			if h.TimeEntry != nil {
				pr.Route("/time-entries", func(er chi.Router) {
					er.Get("/", h.TimeEntry.List)
					er.Post("/", h.TimeEntry.Create)
					er.Get("/{id}", h.TimeEntry.GetByID)
					er.Put("/{id}", h.TimeEntry.Update)
					er.Delete("/{id}", h.TimeEntry.Delete)
					er.Post("/{id}/stop", h.TimeEntry.Stop)
				})
			}
		})
	})
}
