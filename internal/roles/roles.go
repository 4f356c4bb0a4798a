// Package roles ranks named roles by level and decides whether a caller's
// roles satisfy a route's requirement.
//
// Levels follow registration order: the first role added has level 0, the
// next level 1, and so on. A role that was never registered has level 0.
package roles

import (
	"errors"
	"fmt"
	"strings"

	"github.com/MKhiriev/go-web-interface/internal/httpctx"
)

// DefaultClaimField is the claim the default extractor reads roles from.
const DefaultClaimField = "roles"

var (
	// ErrEmptyRole is returned when registering a blank role name.
	ErrEmptyRole = errors.New("empty role name")

	// ErrDuplicateRole is returned when a role is registered twice.
	ErrDuplicateRole = errors.New("role is already registered")
)

// Options is the role hierarchy. It is built at startup and read
// concurrently afterwards.
type Options struct {
	levels     map[string]int
	claimField string
}

// NewOptions registers roles in ascending level order. An empty claimField
// selects DefaultClaimField.
func NewOptions(claimField string, roles ...string) (*Options, error) {
	if strings.TrimSpace(claimField) == "" {
		claimField = DefaultClaimField
	}

	o := &Options{
		levels:     make(map[string]int, len(roles)),
		claimField: claimField,
	}
	for _, r := range roles {
		if err := o.AddRole(r); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// AddRole registers role with the next level.
func (o *Options) AddRole(role string) error {
	role = strings.TrimSpace(role)
	if role == "" {
		return ErrEmptyRole
	}
	if _, ok := o.levels[role]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateRole, role)
	}
	o.levels[role] = len(o.levels)
	return nil
}

// Level returns the level of role, 0 when unregistered.
func (o *Options) Level(role string) int {
	return o.levels[role]
}

// Len returns the number of registered roles.
func (o *Options) Len() int {
	return len(o.levels)
}

// ClaimField returns the claim name roles are read from.
func (o *Options) ClaimField() string {
	return o.claimField
}

// Extractor reads the caller's role names out of a claim set.
type Extractor interface {
	Extract(claims httpctx.Claims, field string) []string
}

// ClaimExtractor reads roles from a single claim holding either a comma
// separated string or a list of strings.
type ClaimExtractor struct{}

func (ClaimExtractor) Extract(claims httpctx.Claims, field string) []string {
	switch v := claims[field].(type) {
	case string:
		return splitRoles(v)
	case []string:
		return compact(v)
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, splitRoles(s)...)
			}
		}
		return out
	default:
		return nil
	}
}

func splitRoles(s string) []string {
	return compact(strings.Split(s, ","))
}

func compact(in []string) []string {
	out := make([]string, 0, len(in))
	for _, r := range in {
		if r = strings.TrimSpace(r); r != "" {
			out = append(out, r)
		}
	}
	return out
}

// Resolver compares caller roles against a required role.
type Resolver struct {
	options *Options
}

// NewResolver returns a Resolver over options.
func NewResolver(options *Options) *Resolver {
	return &Resolver{options: options}
}

// HasRequiredLevel reports whether any of userRoles has a level greater than
// or equal to the level of required.
func (r *Resolver) HasRequiredLevel(userRoles []string, required string) bool {
	if r.options == nil {
		return false
	}

	want := r.options.Level(required)
	for _, role := range userRoles {
		if r.options.Level(role) >= want {
			return true
		}
	}
	return false
}
