// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package route holds the immutable route table the dispatch engine matches
// requests against.
//
// Controllers declare their handlers as Definitions. Register turns each one
// into a Descriptor keyed by its lower-cased path; the first registration of
// a path wins and later ones are logged and dropped. An optional prefix is
// applied once, after which Seal freezes the table for concurrent reads.
package route

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"sync"

	"github.com/MKhiriev/go-web-interface/internal/invoke"
	"github.com/MKhiriev/go-web-interface/internal/logger"
)

// Descriptor is the registered metadata of one route.
type Descriptor struct {
	Path       string
	Verb       Verb
	Controller string
	Handler    string

	// RequestType is the body type of the handler, invoke.NoBody when none.
	RequestType reflect.Type
	Invoker     invoke.Invoker

	AuthenticationRequired bool
	RoleRequired           bool
	RequiredRole           string
	SupportsUpload         bool
}

// Table maps normalized paths to descriptors.
//
// Mutations are serialized and rejected once the table is sealed. Lookups
// are intended for a sealed table and then take no locks.
type Table struct {
	mu     sync.Mutex
	routes map[string]Descriptor

	prefix        string
	prefixApplied bool
	sealed        bool

	logger *logger.Logger
}

// NewTable returns an empty, unsealed table.
func NewTable(logger *logger.Logger) *Table {
	return &Table{
		routes: make(map[string]Descriptor),
		logger: logger,
	}
}

// NormalizePath lower-cases path and ensures a single leading slash.
func NormalizePath(path string) string {
	path = strings.ToLower(strings.TrimSpace(path))
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return path
}

// Register adds the definitions of every controller.
//
// A path that is already registered, under any verb, keeps its first
// definition; the duplicate is logged and skipped. Invalid definitions are
// reported in the returned error while the valid ones are still registered.
func (t *Table) Register(controllers ...Controller) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.sealed {
		return ErrTableSealed
	}

	var errs []error
	for _, ctrl := range controllers {
		ctrlName := controllerName(ctrl)

		classAuth := false
		if ac, ok := ctrl.(AuthenticatedController); ok {
			classAuth = ac.RequiresAuthentication()
		}

		for _, def := range ctrl.Routes() {
			desc, err := t.describe(ctrlName, classAuth, def)
			if err != nil {
				errs = append(errs, err)
				continue
			}

			if existing, ok := t.routes[desc.Path]; ok {
				t.logger.Warn().
					Str("path", desc.Path).
					Str("verb", string(desc.Verb)).
					Str("handler", ctrlName+"."+desc.Handler).
					Str("registered_handler", existing.Controller+"."+existing.Handler).
					Msg("duplicate route ignored")
				continue
			}

			t.routes[desc.Path] = desc
		}
	}

	return errors.Join(errs...)
}

func (t *Table) describe(ctrlName string, classAuth bool, def Definition) (Descriptor, error) {
	verb, ok := ParseVerb(string(def.Verb))
	if !ok || strings.TrimSpace(def.Path) == "" || def.Invoker == nil {
		return Descriptor{}, fmt.Errorf("%w: %s %q in %s", ErrInvalidDefinition, def.Verb, def.Path, ctrlName)
	}

	path := NormalizePath(def.Path)
	if t.prefixApplied {
		path = withPrefix(t.prefix, path)
	}

	return Descriptor{
		Path:                   path,
		Verb:                   verb,
		Controller:             ctrlName,
		Handler:                def.Name,
		RequestType:            def.Invoker.RequestType(),
		Invoker:                def.Invoker,
		AuthenticationRequired: classAuth || def.authenticated,
		RoleRequired:           def.role != "",
		RequiredRole:           def.role,
		SupportsUpload:         def.uploads,
	}, nil
}

func controllerName(ctrl Controller) string {
	typ := reflect.TypeOf(ctrl)
	for typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	return typ.Name()
}

// ApplyPrefix re-keys every route under prefix. It may be called once and
// only before Seal. Routes registered afterwards get the prefix as well.
// An empty or "/" prefix leaves paths unchanged.
func (t *Table) ApplyPrefix(prefix string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.sealed {
		return ErrTableSealed
	}
	if t.prefixApplied {
		return ErrPrefixAlreadyApplied
	}

	t.prefix = strings.TrimRight(NormalizePath(prefix), "/")
	t.prefixApplied = true
	if t.prefix == "" {
		return nil
	}

	rekeyed := make(map[string]Descriptor, len(t.routes))
	for path, desc := range t.routes {
		desc.Path = withPrefix(t.prefix, path)
		rekeyed[desc.Path] = desc
	}
	t.routes = rekeyed

	return nil
}

// withPrefix joins prefix and a normalized path. The root path maps to the
// bare prefix.
func withPrefix(prefix, path string) string {
	if path == "/" && prefix != "" {
		return prefix
	}
	return prefix + path
}

// Seal freezes the table. It is idempotent.
func (t *Table) Seal() {
	t.mu.Lock()
	t.sealed = true
	t.mu.Unlock()
}

// Sealed reports whether Seal has been called.
func (t *Table) Sealed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.sealed
}

// Lookup returns the descriptor registered for path when its verb matches
// method. Matching is exact and case-insensitive on the path.
func (t *Table) Lookup(path, method string) (Descriptor, bool) {
	desc, ok := t.routes[strings.ToLower(path)]
	if !ok {
		return Descriptor{}, false
	}

	verb, ok := ParseVerb(method)
	if !ok || verb != desc.Verb {
		return Descriptor{}, false
	}
	return desc, true
}

// IsAuthenticationRequired reports whether path requires a bearer token.
// Unknown paths do not.
func (t *Table) IsAuthenticationRequired(path string) bool {
	return t.routes[strings.ToLower(path)].AuthenticationRequired
}

// RequiredRole returns the role required by path, if any.
func (t *Table) RequiredRole(path string) (string, bool) {
	desc := t.routes[strings.ToLower(path)]
	return desc.RequiredRole, desc.RoleRequired
}

// SupportsUpload reports whether path accepts file uploads.
func (t *Table) SupportsUpload(path string) bool {
	return t.routes[strings.ToLower(path)].SupportsUpload
}

// Len returns the number of registered routes.
func (t *Table) Len() int {
	return len(t.routes)
}

// Routes returns the descriptors sorted by path.
func (t *Table) Routes() []Descriptor {
	out := make([]Descriptor, 0, len(t.routes))
	for _, desc := range t.routes {
		out = append(out, desc)
	}
	slices.SortFunc(out, func(a, b Descriptor) int {
		return strings.Compare(a.Path, b.Path)
	})
	return out
}
