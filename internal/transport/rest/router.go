package rest

import (
	"database/sql"
	"log/slog"

	"github.com/frahmantamala/epic-crm/internal/auth"
	"github.com/frahmantamala/epic-crm/internal/client"
	"github.com/frahmantamala/epic-crm/internal/contract"
	"github.com/frahmantamala/epic-crm/internal/core/events"
	"github.com/frahmantamala/epic-crm/internal/event"
	"github.com/frahmantamala/epic-crm/internal/transport/middleware"
	"github.com/frahmantamala/epic-crm/internal/user"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

type Handlers struct {
	Auth     *auth.Handler
	User     *user.Handler
	Client   *client.Handler
	Contract *contract.Handler
	Event    *event.Handler
}

// RegisterAllRoutes mounts the API under /api/v1. Every route behind the
// auth middleware still goes through the permission gate in its service.
func RegisterAllRoutes(router *chi.Mux, db *sql.DB, dbComponent string, h Handlers, publisher events.Publisher, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db, dbComponent)

	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID(logger))
	router.Use(middleware.RequestLogger)
	router.Use(middleware.Recovery(logger, publisher))

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		r.Post("/auth/login", h.Auth.Login)

		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)

			pr.Route("/users", func(ur chi.Router) {
				ur.Get("/", h.User.List)
				ur.Get("/me", h.User.GetCurrentUser)
				ur.Get("/{id}", h.User.Get)
				ur.Get("/{id}/cascade", h.User.Cascade)
			})

			pr.Route("/clients", func(cr chi.Router) {
				cr.Get("/", h.Client.List)
				cr.Post("/", h.Client.Create)
				cr.Get("/{id}", h.Client.Get)
				cr.Get("/{id}/cascade", h.Client.Cascade)
			})

			pr.Route("/contracts", func(kr chi.Router) {
				kr.Get("/", h.Contract.List)
				kr.Post("/", h.Contract.Create)
				kr.Get("/{id}", h.Contract.Get)
				kr.Get("/{id}/cascade", h.Contract.Cascade)
			})

			pr.Route("/events", func(er chi.Router) {
				er.Get("/", h.Event.List)
				er.Post("/", h.Event.Create)
				er.Get("/{id}", h.Event.Get)
				er.Get("/{id}/cascade", h.Event.Cascade)
			})
		})
	})
}
