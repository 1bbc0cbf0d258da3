package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ramakrishnanyadav/legalaid-backend/internal/api/handler"
	"github.com/ramakrishnanyadav/legalaid-backend/internal/api/middleware"
	"github.com/ramakrishnanyadav/legalaid-backend/internal/metrics"
)

// RouterDeps holds all dependencies needed by the router.
type RouterDeps struct {
	DBPinger      handler.Pinger
	Version       string
	Resolver      middleware.SessionResolver
	AuthLimiter   *middleware.RateLimiter
	Collector     *metrics.Collector
	Registry      *prometheus.Registry
	Auth          *handler.AuthHandler
	Lawyers       *handler.LawyerHandler
	Cases         *handler.CaseHandler
	Documents     *handler.DocumentHandler
	Consultations *handler.ConsultationHandler
	Notifications *handler.NotificationHandler
}

// NewRouter creates and configures a Chi router with all middleware and routes.
func NewRouter(deps RouterDeps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery)
	r.Use(chimiddleware.Logger)
	r.Use(middleware.Metrics(deps.Collector))

	healthHandler := handler.NewHealthHandler(deps.DBPinger, deps.Version)
	r.Get("/health", healthHandler.Health)
	r.Method(http.MethodGet, "/metrics", metrics.Handler(deps.Registry))

	r.Route("/api", func(r chi.Router) {
		// Credential endpoints are public and rate limited per client.
		r.Group(func(r chi.Router) {
			r.Use(deps.AuthLimiter.Limit)
			r.Post("/auth/register", deps.Auth.Register)
			r.Post("/auth/login", deps.Auth.Login)
			r.Post("/auth/admin/login", deps.Auth.AdminLogin)
		})

		// The lawyer directory is readable without a session.
		r.Get("/lawyers", deps.Lawyers.List)
		r.Get("/lawyers/{id}", deps.Lawyers.GetByID)

		// Everything below requires a resolvable session.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(deps.Resolver))

			r.Post("/auth/logout", deps.Auth.Logout)
			r.Get("/auth/me", deps.Auth.Me)

			r.Route("/cases", func(r chi.Router) {
				r.Post("/", deps.Cases.Submit)
				r.Get("/", deps.Cases.ListMine)
				r.Get("/{id}", deps.Cases.GetByID)
				r.Post("/{id}/analyze", deps.Cases.Analyze)
				r.Get("/{id}/analysis", deps.Cases.GetAnalysis)

				r.Route("/{id}/documents", func(r chi.Router) {
					r.Post("/", deps.Documents.Upload)
					r.Get("/", deps.Documents.List)
					r.Get("/{docId}", deps.Documents.Download)
					r.Delete("/{docId}", deps.Documents.Delete)
				})
			})

			r.Route("/consultations", func(r chi.Router) {
				r.Post("/", deps.Consultations.Create)
				r.Get("/", deps.Consultations.ListMine)
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", deps.Notifications.List)
				r.Get("/stream", deps.Notifications.Stream)
				r.Patch("/{id}/read", deps.Notifications.MarkRead)
				r.Post("/read-all", deps.Notifications.MarkAllRead)
				r.Delete("/{id}", deps.Notifications.Delete)
			})

			// Admin surface sits behind the admin guard on top of Auth.
			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.RequireAdmin(deps.Collector))

				r.Route("/lawyers", func(r chi.Router) {
					r.Post("/", deps.Lawyers.Create)
					r.Patch("/{id}", deps.Lawyers.Update)
					r.Delete("/{id}", deps.Lawyers.Delete)
				})

				r.Route("/cases", func(r chi.Router) {
					r.Get("/", deps.Cases.ListAll)
					r.Patch("/{id}/status", deps.Cases.UpdateStatus)
				})

				r.Route("/consultations", func(r chi.Router) {
					r.Get("/", deps.Consultations.ListAll)
					r.Patch("/{id}", deps.Consultations.Respond)
				})
			})
		})
	})

	return r
}
