// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package app assembles the dispatch engine from the configuration: the
// route table, the middleware pipeline in its fixed order, the CORS policy
// and the metrics collector.
package app

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/MKhiriev/go-web-interface/internal/auth"
	"github.com/MKhiriev/go-web-interface/internal/config"
	"github.com/MKhiriev/go-web-interface/internal/cors"
	"github.com/MKhiriev/go-web-interface/internal/dispatch"
	"github.com/MKhiriev/go-web-interface/internal/logger"
	"github.com/MKhiriev/go-web-interface/internal/metrics"
	"github.com/MKhiriev/go-web-interface/internal/middleware"
	"github.com/MKhiriev/go-web-interface/internal/pipeline"
	"github.com/MKhiriev/go-web-interface/internal/roles"
	"github.com/MKhiriev/go-web-interface/internal/route"
	"github.com/MKhiriev/go-web-interface/internal/store"
)

// ErrAuthenticationNotConfigured is returned when routes require a bearer
// token but no token sign key is configured.
var ErrAuthenticationNotConfigured = errors.New("routes require authentication but no token sign key is configured")

// App is the assembled request engine.
type App struct {
	Engine  *dispatch.Engine
	Routes  *route.Table
	Metrics *metrics.Collector
}

// MetricsHandler returns the metrics endpoint, or nil when metrics are off.
func (a *App) MetricsHandler() http.Handler {
	if a.Metrics == nil {
		return nil
	}
	return a.Metrics.Handler()
}

// Build registers controllers and assembles the engine.
//
// Middleware runs in this order: metrics, query string filter,
// authentication, role authorization, multipart parsing. Optional steps are
// installed only when enabled in cfg.
func Build(cfg *config.StructuredConfig, logger *logger.Logger, controllers ...route.Controller) (*App, error) {
	table := route.NewTable(logger)
	if err := table.Register(controllers...); err != nil {
		return nil, fmt.Errorf("error registering routes: %w", err)
	}
	if cfg.Server.APIPrefix != "" {
		if err := table.ApplyPrefix(cfg.Server.APIPrefix); err != nil {
			return nil, fmt.Errorf("error applying route prefix: %w", err)
		}
	}

	a := &App{Routes: table}
	p := pipeline.New()

	if cfg.Metrics.Enabled {
		a.Metrics = metrics.NewCollector(cfg.Metrics.Namespace, table)
		if err := p.Use(a.Metrics.Middleware()); err != nil {
			return nil, err
		}
	}

	if cfg.Security.SQLInjectionCountermeasures {
		if err := p.Use(middleware.NewSQLInjection(cfg.Security.SQLFilterConcurrency)); err != nil {
			return nil, err
		}
	}

	authStep, err := newAuthentication(cfg.Auth, table)
	if err != nil {
		return nil, err
	}
	if err := p.Use(authStep); err != nil {
		return nil, err
	}

	roleOptions, err := roles.NewOptions(cfg.Roles.ClaimField, cfg.Roles.Levels...)
	if err != nil {
		return nil, fmt.Errorf("error building role levels: %w", err)
	}
	if err := p.Use(middleware.NewRoleAuthorization(table, roleOptions, roles.ClaimExtractor{})); err != nil {
		return nil, err
	}

	if cfg.Uploads.Enabled {
		storage, err := store.NewUploadFileStorage(cfg.Uploads.Dir, store.NewUUIDGenerator())
		if err != nil {
			return nil, err
		}
		multipart := middleware.NewMultipart(table, storage, middleware.MultipartOptions{
			MaxMemory: cfg.Uploads.MaxMemory,
			Strict:    cfg.Uploads.Strict,
		})
		if err := p.Use(multipart); err != nil {
			return nil, err
		}
	}

	var opts []dispatch.Option
	if cfg.CORS.Enabled {
		policy, err := newCORSPolicy(cfg.CORS)
		if err != nil {
			return nil, fmt.Errorf("error building CORS policy: %w", err)
		}
		opts = append(opts, dispatch.WithCORS(policy))
	}

	engine, err := dispatch.NewEngine(table, p, logger, opts...)
	if err != nil {
		return nil, err
	}
	a.Engine = engine

	for _, d := range table.Routes() {
		logger.Debug().
			Str("verb", string(d.Verb)).
			Str("path", d.Path).
			Str("handler", d.Controller+"."+d.Handler).
			Bool("auth", d.AuthenticationRequired).
			Str("role", d.RequiredRole).
			Bool("uploads", d.SupportsUpload).
			Msg("route registered")
	}

	return a, nil
}

// newAuthentication returns nil when no route needs a token. A route that
// needs one without a configured key is a startup error.
func newAuthentication(cfg config.Auth, table *route.Table) (pipeline.Middleware, error) {
	if cfg.TokenSignKey == "" {
		for _, d := range table.Routes() {
			if d.AuthenticationRequired {
				return nil, fmt.Errorf("%w: %s", ErrAuthenticationNotConfigured, d.Path)
			}
		}
		return nil, nil
	}

	validator, err := auth.NewJWTValidator(cfg.TokenSignKey, cfg.TokenIssuer)
	if err != nil {
		return nil, err
	}
	return middleware.NewAuthentication(table, validator), nil
}

func newCORSPolicy(cfg config.CORS) (*cors.Policy, error) {
	b := cors.NewPolicyBuilder()

	if len(cfg.AllowedOrigins) == 0 {
		b.AllowAnyOrigin()
	} else {
		b.AllowOrigins(cfg.AllowedOrigins...)
	}
	if len(cfg.AllowedMethods) == 0 {
		b.AllowAnyMethod()
	} else {
		b.AllowMethods(cfg.AllowedMethods...)
	}
	if len(cfg.AllowedHeaders) == 0 {
		b.AllowAnyHeader()
	} else {
		b.AllowHeaders(cfg.AllowedHeaders...)
	}
	if cfg.AllowCredentials {
		b.AllowCredentials()
	}

	return b.Build()
}
