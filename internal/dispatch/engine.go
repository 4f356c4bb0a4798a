// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package dispatch implements the request engine: it owns the per-request
// context, runs the middleware pipeline and, as the pipeline's terminal step,
// matches the route, resolves the handler arguments and invokes the handler.
package dispatch

import (
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/MKhiriev/go-web-interface/internal/codec"
	"github.com/MKhiriev/go-web-interface/internal/cors"
	"github.com/MKhiriev/go-web-interface/internal/httpctx"
	"github.com/MKhiriev/go-web-interface/internal/logger"
	"github.com/MKhiriev/go-web-interface/internal/pipeline"
	"github.com/MKhiriev/go-web-interface/internal/route"
)

// Engine is the http.Handler serving every registered route.
type Engine struct {
	routes   *route.Table
	pipeline *pipeline.Pipeline
	resolver *ParameterResolver
	cors     *cors.Policy
	codec    codec.Codec
	logger   *logger.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithCORS applies policy to every response and answers preflight requests.
func WithCORS(policy *cors.Policy) Option {
	return func(e *Engine) { e.cors = policy }
}

// WithCodec sets the codec used for request contexts.
func WithCodec(c codec.Codec) Option {
	return func(e *Engine) {
		if c != nil {
			e.codec = c
		}
	}
}

// WithResolver replaces the default parameter resolver.
func WithResolver(r *ParameterResolver) Option {
	return func(e *Engine) {
		if r != nil {
			e.resolver = r
		}
	}
}

// NewEngine seals routes and p and installs the route dispatch as the
// pipeline's terminal step. Both must be fully configured beforehand.
func NewEngine(routes *route.Table, p *pipeline.Pipeline, logger *logger.Logger, opts ...Option) (*Engine, error) {
	e := &Engine{
		routes:   routes,
		pipeline: p,
		codec:    codec.Default(),
		logger:   logger,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.resolver == nil {
		e.resolver = NewParameterResolver(e.codec)
	}

	if err := p.SetTerminal(e.dispatch); err != nil {
		return nil, fmt.Errorf("error installing route dispatch: %w", err)
	}
	p.Seal()
	routes.Seal()

	e.logger.Info().
		Int("routes", routes.Len()).
		Int("middlewares", p.Len()).
		Bool("cors", e.cors != nil).
		Msg("dispatch engine ready")

	return e, nil
}

// ServeHTTP runs one request through the pipeline and releases its context.
func (e *Engine) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := httpctx.New(w, r, e.codec)
	defer func() {
		if err := ctx.Close(); err != nil {
			ctx.Logger().Warn().Err(err).Msg("error releasing request resources")
		}
	}()

	w.Header().Set("Cache-Control", "no-cache")

	if e.cors != nil {
		e.cors.Apply(w.Header(), r.Header.Get("Origin"))
		if r.Method == http.MethodOptions {
			_ = ctx.WriteEmpty(http.StatusNoContent)
			return
		}
	}

	defer func() {
		rec := recover()
		if rec == nil {
			return
		}
		if rec == http.ErrAbortHandler {
			panic(rec)
		}
		ctx.Logger().Error().
			Interface("panic", rec).
			Bytes("stack", debug.Stack()).
			Str("path", ctx.Path()).
			Msg("panic escaped the middleware pipeline")
		if !ctx.Written() {
			_ = ctx.WriteText(http.StatusInternalServerError, MsgInternalServerError)
		}
	}()

	e.pipeline.Execute(ctx)
}

func (e *Engine) dispatch(ctx *httpctx.Context) {
	desc, ok := e.routes.Lookup(ctx.Path(), ctx.Method())
	if !ok {
		ctx.Logger().Debug().Str("path", ctx.Path()).Str("method", ctx.Method()).Msg("no matching route")
		_ = ctx.WriteText(http.StatusNotFound, MsgRouteNotFound)
		return
	}

	args, err := e.resolver.Resolve(ctx, desc.RequestType)
	if err != nil {
		e.writeError(ctx, desc, err)
		return
	}

	if err := invokeSafely(ctx, desc, args); err != nil {
		e.writeError(ctx, desc, err)
	}
}

func invokeSafely(ctx *httpctx.Context, desc route.Descriptor, args []any) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			err = fmt.Errorf("%w: %v\n%s", ErrHandlerPanic, rec, debug.Stack())
		}
	}()
	return desc.Invoker.Invoke(ctx, args)
}

func (e *Engine) writeError(ctx *httpctx.Context, desc route.Descriptor, err error) {
	var statusErr *httpctx.StatusError
	if errors.As(err, &statusErr) {
		ctx.Logger().Warn().Err(err).
			Str("controller", desc.Controller).
			Str("handler", desc.Handler).
			Int("status", statusErr.Status).
			Msg("handler rejected request")
		if !ctx.Written() {
			_ = ctx.WriteText(statusErr.Status, statusErr.StatusText())
		}
		return
	}

	ctx.Logger().Error().Err(err).
		Str("controller", desc.Controller).
		Str("handler", desc.Handler).
		Str("path", desc.Path).
		Msg("route execution failed")
	if !ctx.Written() {
		_ = ctx.WriteText(http.StatusInternalServerError, MsgRouteExecution)
	}
}
