// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package httpctx defines the per-request context that travels through the
// middleware pipeline and into handler methods.
//
// A Context owns the request and response handles, the normalized path, a
// mutable copy of the query string, the authenticated claim set, files and
// form parameters produced by multipart parsing, and the request-scoped
// disposables. Close must be called exactly once when the request ends; the
// dispatch engine does this for every request.
package httpctx

import (
	"context"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"sync"

	"github.com/MKhiriev/go-web-interface/internal/codec"
	"github.com/MKhiriev/go-web-interface/internal/logger"
)

// Claims is the verified claim set of an authenticated caller.
type Claims map[string]any

// Param is a single non-file multipart form field.
type Param struct {
	Name  string
	Value string
}

// Context is the state of a single request.
type Context struct {
	Request  *http.Request
	Response http.ResponseWriter

	path  string
	codec codec.Codec

	// mu guards query; the SQL filter removes keys concurrently.
	mu    sync.Mutex
	query url.Values

	claims    Claims
	hasClaims bool

	files     []string
	filesSet  bool
	params    []Param
	paramsSet bool

	disposables Disposables

	status  int
	written bool

	closeOnce sync.Once
	closeErr  error
}

// New creates the context for r. The path is lower-cased and the query string
// copied so that middleware can mutate it. A nil c selects [codec.Default].
func New(w http.ResponseWriter, r *http.Request, c codec.Codec) *Context {
	if c == nil {
		c = codec.Default()
	}

	path := strings.ToLower(r.URL.Path)
	if path == "" {
		path = "/"
	}

	return &Context{
		Request:  r,
		Response: w,
		path:     path,
		codec:    c,
		query:    r.URL.Query(),
	}
}

// Context returns the request's context.Context.
func (c *Context) Context() context.Context {
	return c.Request.Context()
}

// Logger returns the request-scoped logger.
func (c *Context) Logger() *logger.Logger {
	return logger.FromRequest(c.Request)
}

// Codec returns the codec used for bodies of this request.
func (c *Context) Codec() codec.Codec {
	return c.codec
}

// Path returns the lower-cased absolute request path.
func (c *Context) Path() string {
	return c.path
}

// Method returns the request's HTTP verb.
func (c *Context) Method() string {
	return c.Request.Method
}

// ── query ─────────────────────────────────────────────────────────────────────

// Query returns the first value for key.
func (c *Context) Query(key string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.query.Get(key)
}

// QueryValues returns a copy of every value for key.
func (c *Context) QueryValues(key string) []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.query[key])
}

// QueryKeys returns a sorted snapshot of the query keys.
func (c *Context) QueryKeys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys := make([]string, 0, len(c.query))
	for k := range c.query {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// RemoveQuery deletes key from the query. Safe for concurrent use.
func (c *Context) RemoveQuery(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.query.Del(key)
}

// EncodedQuery returns the current query in URL-encoded form.
func (c *Context) EncodedQuery() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.query.Encode()
}

// ── claims ────────────────────────────────────────────────────────────────────

// SetClaims records the caller's claims. It may be called once per request.
func (c *Context) SetClaims(claims Claims) error {
	if c.hasClaims {
		return ErrClaimsAlreadySet
	}
	if claims == nil {
		claims = Claims{}
	}
	c.claims = claims
	c.hasClaims = true
	return nil
}

// Claims returns the caller's claims and whether they were set.
func (c *Context) Claims() (Claims, bool) {
	return c.claims, c.hasClaims
}

// ── multipart results ─────────────────────────────────────────────────────────

// SetFiles records the absolute paths of stored uploads. It may be called once.
func (c *Context) SetFiles(paths []string) error {
	if c.filesSet {
		return ErrFilesAlreadySet
	}
	c.files = slices.Clone(paths)
	c.filesSet = true
	return nil
}

// Files returns the absolute paths of stored uploads.
func (c *Context) Files() []string {
	return slices.Clone(c.files)
}

// SetParams records the non-file form fields. It may be called once.
func (c *Context) SetParams(params []Param) error {
	if c.paramsSet {
		return ErrParamsAlreadySet
	}
	c.params = slices.Clone(params)
	c.paramsSet = true
	return nil
}

// Params returns the non-file form fields in the order they were recorded.
func (c *Context) Params() []Param {
	return slices.Clone(c.params)
}

// ── lifecycle ─────────────────────────────────────────────────────────────────

// Disposables returns the request-scoped resource registry.
func (c *Context) Disposables() *Disposables {
	return &c.disposables
}

// Close releases every disposable. Only the first call has an effect; later
// calls return the first call's result.
func (c *Context) Close() error {
	c.closeOnce.Do(func() {
		c.closeErr = c.disposables.Release()
	})
	return c.closeErr
}
