// Package pipeline runs a request through an ordered chain of middleware
// followed by a single terminal step.
//
// A pipeline is configured once at startup with Use and SetTerminal, then
// sealed and shared by every request. Each Execute call walks the chain with
// its own cursor: a middleware continues by calling next, short-circuits by
// returning without calling it, or wraps it with work before and after.
package pipeline

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/MKhiriev/go-web-interface/internal/httpctx"
)

// ErrPipelineSealed is returned when the pipeline is configured after Seal.
var ErrPipelineSealed = errors.New("middleware pipeline is sealed")

// Middleware is a cross-cutting request step.
type Middleware interface {
	Handle(ctx *httpctx.Context, next func())
}

// MiddlewareFunc adapts a function to Middleware.
type MiddlewareFunc func(ctx *httpctx.Context, next func())

func (f MiddlewareFunc) Handle(ctx *httpctx.Context, next func()) {
	f(ctx, next)
}

// Terminal is the step run after the last middleware continues.
type Terminal func(ctx *httpctx.Context)

// Pipeline is an ordered middleware chain.
type Pipeline struct {
	mu          sync.Mutex
	middlewares []Middleware
	terminal    Terminal
	sealed      atomic.Bool
}

// New returns an empty pipeline in the building state.
func New() *Pipeline {
	return &Pipeline{}
}

// Use appends middlewares in execution order.
func (p *Pipeline) Use(middlewares ...Middleware) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.sealed.Load() {
		return ErrPipelineSealed
	}
	for _, m := range middlewares {
		if m != nil {
			p.middlewares = append(p.middlewares, m)
		}
	}
	return nil
}

// SetTerminal sets the step run at the end of the chain.
func (p *Pipeline) SetTerminal(t Terminal) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.sealed.Load() {
		return ErrPipelineSealed
	}
	p.terminal = t
	return nil
}

// Seal ends the building state. It is idempotent.
func (p *Pipeline) Seal() {
	p.mu.Lock()
	p.sealed.Store(true)
	p.mu.Unlock()
}

// Len returns the number of middlewares.
func (p *Pipeline) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.middlewares)
}

// Execute runs ctx through the chain. An unsealed pipeline is sealed first.
// A continuation called more than once only advances the first time.
func (p *Pipeline) Execute(ctx *httpctx.Context) {
	if !p.sealed.Load() {
		p.Seal()
	}
	p.step(ctx, 0)
}

func (p *Pipeline) step(ctx *httpctx.Context, index int) {
	if index >= len(p.middlewares) {
		if p.terminal != nil {
			p.terminal(ctx)
		}
		return
	}

	var once sync.Once
	next := func() {
		once.Do(func() { p.step(ctx, index+1) })
	}
	p.middlewares[index].Handle(ctx, next)
}
