// Trasownik - Map-Based Infrastructure Project Tracking
// Copyright 2026 P. Bartnik (pbartnik)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pbartnik/trasownik

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pbartnik/trasownik/internal/auth"
	"github.com/pbartnik/trasownik/internal/config"
	"github.com/pbartnik/trasownik/internal/middleware"
	"github.com/pbartnik/trasownik/internal/models"
)

// Router wires handlers, auth, and middleware into the HTTP surface.
type Router struct {
	handler        *Handler
	authMiddleware *auth.Middleware
	chiMiddleware  *ChiMiddleware
}

// NewRouter creates the router. The auth middleware is given the JSON
// envelope 401 writer so unauthorized responses match every other error.
func NewRouter(handler *Handler, jwtManager *auth.JWTManager, cfg *config.Config) *Router {
	return &Router{
		handler:        handler,
		authMiddleware: auth.NewMiddleware(jwtManager, respondUnauthorized),
		chiMiddleware:  NewChiMiddleware(&cfg.Security),
	}
}

// chiAuth adapts the http.HandlerFunc-based auth middleware to Chi's
// func(http.Handler) http.Handler shape.
func (router *Router) chiAuth(next http.Handler) http.Handler {
	return router.authMiddleware.Authenticate(next.ServeHTTP)
}

// Setup configures all HTTP routes.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to all routes in order.
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS()) // global so OPTIONS preflight always answered

	// Health endpoints - no auth, permissive rate limit for monitoring.
	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitHealth())
		r.Use(APISecurityHeaders())
		r.Get("/", router.handler.Health)
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
	})

	// Authentication endpoints - unauthenticated, strictly rate limited.
	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(APISecurityHeaders())
		r.Use(middleware.PrometheusMetrics)

		r.With(router.chiMiddleware.RateLimitLogin()).Post("/login", router.handler.Login)
		r.Post("/register", router.handler.Register)
		r.With(router.chiAuth).Get("/me", router.handler.Me)
	})

	// Entity endpoints - all require a valid bearer token. Any
	// authenticated user may edit any point or tunnel; comment routes
	// add their own author check.
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(APISecurityHeaders())
		r.Use(middleware.PrometheusMetrics)
		r.Use(router.chiAuth)

		r.Route("/points", func(r chi.Router) {
			r.Get("/", router.handler.PointsList)
			r.Post("/", router.handler.PointsCreate)
			r.Get("/{id}", router.handler.PointsGet)
			r.Put("/{id}", router.handler.PointsUpdate)
			r.Delete("/{id}", router.handler.PointsDelete)
			router.commentRoutes(r, models.KindPoints)
		})

		r.Route("/tunnels", func(r chi.Router) {
			r.Get("/", router.handler.TunnelsList)
			r.Post("/", router.handler.TunnelsCreate)
			r.Get("/{id}", router.handler.TunnelsGet)
			r.Put("/{id}", router.handler.TunnelsUpdate)
			r.Delete("/{id}", router.handler.TunnelsDelete)
			router.commentRoutes(r, models.KindTunnels)
		})
	})

	// Observability.
	r.Handle("/metrics", promhttp.Handler())

	return r
}

// commentRoutes mounts the journal routes for one entity kind.
func (router *Router) commentRoutes(r chi.Router, kind models.EntityKind) {
	r.Route("/{id}/comments", func(r chi.Router) {
		r.Get("/", router.handler.CommentsList(kind))
		r.Post("/", router.handler.CommentsCreate(kind))
		r.Put("/{commentID}", router.handler.CommentsUpdate(kind))
		r.Delete("/{commentID}", router.handler.CommentsDelete(kind))
	})
}
