package route

import (
	"strings"

	"github.com/MKhiriev/go-web-interface/internal/invoke"
)

// Verb is an HTTP method a route can be registered for.
type Verb string

const (
	VerbGet    Verb = "GET"
	VerbPost   Verb = "POST"
	VerbPut    Verb = "PUT"
	VerbDelete Verb = "DELETE"
)

// ParseVerb maps an HTTP method to a Verb. Methods other than GET, POST, PUT
// and DELETE are not routable.
func ParseVerb(method string) (Verb, bool) {
	switch v := Verb(strings.ToUpper(method)); v {
	case VerbGet, VerbPost, VerbPut, VerbDelete:
		return v, true
	default:
		return "", false
	}
}

// Definition is the metadata a controller declares for one handler.
type Definition struct {
	Verb    Verb
	Path    string
	Invoker invoke.Invoker

	// Name identifies the handler in logs. Method invokers supply it.
	Name string

	authenticated bool
	role          string
	uploads       bool
}

// Option configures a Definition.
type Option func(*Definition)

// Authenticated requires a verified bearer token for the route.
func Authenticated() Option {
	return func(d *Definition) { d.authenticated = true }
}

// WithRole requires the caller to hold role, or a role with a higher level.
func WithRole(role string) Option {
	return func(d *Definition) { d.role = role }
}

// AllowUploads lets multipart file parts be stored for the route.
func AllowUploads() Option {
	return func(d *Definition) { d.uploads = true }
}

// Named sets the handler name used in logs.
func Named(name string) Option {
	return func(d *Definition) { d.Name = name }
}

// New builds a Definition.
func New(verb Verb, path string, inv invoke.Invoker, opts ...Option) Definition {
	d := Definition{Verb: verb, Path: path, Invoker: inv}
	if named, ok := inv.(invoke.Named); ok {
		d.Name = named.HandlerName()
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

func Get(path string, inv invoke.Invoker, opts ...Option) Definition {
	return New(VerbGet, path, inv, opts...)
}

func Post(path string, inv invoke.Invoker, opts ...Option) Definition {
	return New(VerbPost, path, inv, opts...)
}

func Put(path string, inv invoke.Invoker, opts ...Option) Definition {
	return New(VerbPut, path, inv, opts...)
}

func Delete(path string, inv invoke.Invoker, opts ...Option) Definition {
	return New(VerbDelete, path, inv, opts...)
}

// Controller groups handler definitions.
type Controller interface {
	Routes() []Definition
}

// AuthenticatedController is implemented by controllers whose every route
// requires authentication.
type AuthenticatedController interface {
	Controller
	RequiresAuthentication() bool
}
