// GridWatch - Traffic Count Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gridwatch

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/gridwatch/internal/middleware"
)

// Router wires handlers and middleware into a chi router.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a Router. A nil middleware config uses the defaults.
func NewRouter(handler *Handler, cfg *ChiMiddlewareConfig) *Router {
	return &Router{
		handler:       handler,
		chiMiddleware: NewChiMiddleware(cfg),
	}
}

// Setup builds the HTTP handler.
//
// Routes:
//
//	GET    /api/v1/health            store and dataset health
//	GET    /api/v1/health/live       liveness probe
//	GET    /api/v1/health/ready      readiness probe
//	GET    /api/v1/dashboard/modes   mode selector
//	GET    /api/v1/overview          General Overview
//	POST   /api/v1/overview/reload   invalidate and reload the dataset
//	GET    /api/v1/streets           street selector ("All" first)
//	GET    /api/v1/time-options      hourly time selector
//	POST   /api/v1/detailed          submit a detailed query
//	GET    /api/v1/detailed          re-render the submitted query
//	DELETE /api/v1/detailed          forget the submitted query
//	GET    /metrics                  Prometheus metrics
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()
	h := router.handler
	m := router.chiMiddleware

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(m.CORS())
	r.Use(chimiddleware.Compress(5, "application/json"))

	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(m.RateLimitHealth())
		r.Use(APISecurityHeaders())
		r.Get("/", h.Health)
		r.Get("/live", h.HealthLive)
		r.Get("/ready", h.HealthReady)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(m.RateLimit("api"))
		r.Use(APISecurityHeaders())
		r.Use(middleware.PrometheusMetrics)

		r.Get("/dashboard/modes", h.Modes)
		r.Get("/overview", h.Overview)
		r.With(m.RateLimitReload()).Post("/overview/reload", h.ReloadOverview)
		r.Get("/streets", h.Streets)
		r.Get("/time-options", h.TimeOptions)

		r.Post("/detailed", h.SubmitDetailed)
		r.Get("/detailed", h.GetDetailed)
		r.Delete("/detailed", h.DeleteDetailed)
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
