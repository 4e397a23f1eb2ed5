// Sessionfeed - DJ Session Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sessionfeed

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/sessionfeed/internal/config"
	"github.com/tomtom215/sessionfeed/internal/logging"
)

// Router wires handlers and middleware into a chi mux.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
	adminAPIKey   string
}

// NewRouter creates a router. The admin routes are only mounted when
// sec.AdminAPIKey is set.
func NewRouter(handler *Handler, sec config.SecurityConfig) *Router {
	return &Router{
		handler:       handler,
		chiMiddleware: NewChiMiddleware(NewChiMiddlewareConfig(sec)),
		adminAPIKey:   sec.AdminAPIKey,
	}
}

// SetupChi builds the HTTP handler.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	r.Use(RequestIDWithLogging())
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS())

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusNotFound, ErrCodeNotFound, "Route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "Method not allowed", nil)
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(APISecurityHeaders())
		r.Use(PrometheusMetrics)
		r.Use(AccessLog)

		r.Route("/health", func(r chi.Router) {
			r.Get("/", router.handler.Health)
			r.Get("/live", router.handler.HealthLive)
			r.Get("/ready", router.handler.HealthReady)
		})

		r.Get("/catalog", router.handler.CatalogInfo)

		r.Route("/sessions", func(r chi.Router) {
			r.Get("/trending", router.handler.TrendingSessions)
			r.Get("/new", router.handler.NewReleases)
			r.Get("/{sessionID}/similar", router.handler.SimilarSessions)
		})
		r.Get("/djs/{djID}/similar", router.handler.SimilarDJs)

		r.Route("/users/{userID}", func(r chi.Router) {
			r.Get("/recommendations/sessions", router.handler.RecommendedSessions)
			r.Get("/recommendations/sessions/scored", router.handler.TopSessions)
			r.Get("/recommendations/djs", router.handler.RecommendedDJs)
			r.Get("/recommendations/djs/scored", router.handler.TopDJs)
			r.Get("/continue-watching", router.handler.ContinueWatching)
			r.Get("/favorite-genres/sessions", router.handler.FavoriteGenreSessions)

			r.Get("/profile", router.handler.GetProfile)
			r.Delete("/profile", router.handler.DeleteProfile)
			r.Post("/views", router.handler.TrackView)
			r.Post("/favorite-djs/{djID}/toggle", router.handler.ToggleFavoriteDJ)
			r.Put("/favorite-genres/{genre}", router.handler.AddFavoriteGenre)
			r.Delete("/favorite-genres/{genre}", router.handler.RemoveFavoriteGenre)
		})

		if router.adminAPIKey != "" {
			r.Route("/admin", func(r chi.Router) {
				r.Use(RequireAPIKey(router.adminAPIKey))
				r.Post("/catalog/reload", router.handler.ReloadCatalog)
			})
		} else {
			logging.Info().Msg("Admin API disabled: no admin API key configured")
		}
	})

	return r
}
