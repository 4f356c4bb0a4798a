// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package server

import (
	"net/http"
	"time"

	"github.com/MKhiriev/go-web-interface/internal/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// RouterOptions configures the outer router.
type RouterOptions struct {
	// RequestTimeout cancels the request context after the duration.
	// Zero disables it.
	RequestTimeout time.Duration

	// MetricsPath is where Metrics is mounted. Both must be set to serve it.
	MetricsPath string
	Metrics     http.Handler
}

// NewRouter returns the router in front of engine. Every request gets a
// trace ID and a request-scoped logger before it reaches the engine, and
// every path other than the metrics endpoint is served by engine.
func NewRouter(engine http.Handler, opts RouterOptions, logger *logger.Logger) *chi.Mux {
	router := chi.NewRouter()
	router.Use(withTraceID(logger))
	router.Use(withLogging)
	router.Use(middleware.Recoverer)
	if opts.RequestTimeout > 0 {
		router.Use(middleware.Timeout(opts.RequestTimeout))
	}

	if opts.Metrics != nil && opts.MetricsPath != "" {
		router.Method(http.MethodGet, opts.MetricsPath, opts.Metrics)
	}

	router.Handle("/*", engine)

	return router
}
