// Package cors builds the cross-origin response headers applied to every
// response when CORS is enabled.
package cors

import (
	"errors"
	"net/http"
	"slices"
	"strings"
)

const wildcard = "*"

var (
	// ErrOriginAfterWildcard is returned when a specific origin is added to a
	// policy that already allows any origin.
	ErrOriginAfterWildcard = errors.New("cannot allow specific origins when any origin is allowed")

	// ErrHeaderAfterWildcard is the header counterpart of ErrOriginAfterWildcard.
	ErrHeaderAfterWildcard = errors.New("cannot allow specific headers when any header is allowed")

	// ErrMethodAfterWildcard is the method counterpart of ErrOriginAfterWildcard.
	ErrMethodAfterWildcard = errors.New("cannot allow specific methods when any method is allowed")
)

// Policy is an immutable set of allowed origins, methods and headers.
type Policy struct {
	origins     []string
	methods     []string
	headers     []string
	credentials bool
}

// PolicyBuilder accumulates a Policy. Misuse is recorded and reported by Build.
type PolicyBuilder struct {
	policy Policy
	err    error
}

func NewPolicyBuilder() *PolicyBuilder {
	return &PolicyBuilder{}
}

// AllowAnyOrigin replaces the allowed origins with "*".
func (b *PolicyBuilder) AllowAnyOrigin() *PolicyBuilder {
	b.policy.origins = []string{wildcard}
	return b
}

// AllowOrigins adds specific origins.
func (b *PolicyBuilder) AllowOrigins(origins ...string) *PolicyBuilder {
	b.policy.origins = b.add(b.policy.origins, origins, ErrOriginAfterWildcard)
	return b
}

// AllowAnyHeader replaces the allowed headers with "*".
func (b *PolicyBuilder) AllowAnyHeader() *PolicyBuilder {
	b.policy.headers = []string{wildcard}
	return b
}

// AllowHeaders adds specific request headers.
func (b *PolicyBuilder) AllowHeaders(headers ...string) *PolicyBuilder {
	b.policy.headers = b.add(b.policy.headers, headers, ErrHeaderAfterWildcard)
	return b
}

// AllowAnyMethod replaces the allowed methods with "*".
func (b *PolicyBuilder) AllowAnyMethod() *PolicyBuilder {
	b.policy.methods = []string{wildcard}
	return b
}

// AllowMethods adds specific methods.
func (b *PolicyBuilder) AllowMethods(methods ...string) *PolicyBuilder {
	upper := make([]string, 0, len(methods))
	for _, m := range methods {
		upper = append(upper, strings.ToUpper(m))
	}
	b.policy.methods = b.add(b.policy.methods, upper, ErrMethodAfterWildcard)
	return b
}

// AllowCredentials emits Access-Control-Allow-Credentials: true.
func (b *PolicyBuilder) AllowCredentials() *PolicyBuilder {
	b.policy.credentials = true
	return b
}

func (b *PolicyBuilder) add(current, values []string, wildcardErr error) []string {
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if slices.Contains(current, wildcard) {
			b.err = errors.Join(b.err, wildcardErr)
			return current
		}
		if v == wildcard {
			current = []string{wildcard}
			continue
		}
		if !slices.Contains(current, v) {
			current = append(current, v)
		}
	}
	return current
}

// Build returns the policy, or the first misuse recorded while building.
func (b *PolicyBuilder) Build() (*Policy, error) {
	if b.err != nil {
		return nil, b.err
	}
	p := b.policy
	p.origins = slices.Clone(p.origins)
	p.methods = slices.Clone(p.methods)
	p.headers = slices.Clone(p.headers)
	return &p, nil
}

// Apply writes the CORS headers for a request from origin into h.
//
// With an explicit origin list the request origin is echoed back when it is
// allowed, and no origin header is written otherwise.
func (p *Policy) Apply(h http.Header, origin string) {
	switch {
	case slices.Contains(p.origins, wildcard):
		h.Set("Access-Control-Allow-Origin", wildcard)
	case origin != "" && slices.Contains(p.origins, origin):
		h.Set("Access-Control-Allow-Origin", origin)
		h.Add("Vary", "Origin")
	}

	if len(p.methods) > 0 {
		h.Set("Access-Control-Allow-Methods", strings.Join(p.methods, ", "))
	}
	if len(p.headers) > 0 {
		h.Set("Access-Control-Allow-Headers", strings.Join(p.headers, ", "))
	}
	if p.credentials {
		h.Set("Access-Control-Allow-Credentials", "true")
	}
}
