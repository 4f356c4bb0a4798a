// Package invoke turns handler functions and methods into uniform invokers
// the dispatch engine can call with a resolved argument list.
//
// Two forms are supported. Typed and NoArgs wrap plain functions with a
// compile-time checked signature. Method resolves an exported method of a
// controller value by name through reflection; the reflective lookup is
// memoized per (type, method) in a Cache.
package invoke

import (
	"fmt"
	"reflect"

	"github.com/MKhiriev/go-web-interface/internal/httpctx"
)

// NoBody is the request type of handlers that take no body argument.
type NoBody struct{}

var noBodyType = reflect.TypeFor[NoBody]()

// NoBodyType returns the reflect.Type of [NoBody].
func NoBodyType() reflect.Type {
	return noBodyType
}

// Invoker calls a handler with the arguments resolved for a request.
type Invoker interface {
	// RequestType is the type the body is decoded into, or NoBody.
	RequestType() reflect.Type

	// Invoke calls the handler. args is empty for NoBody handlers and holds
	// a single pointer to RequestType otherwise.
	Invoke(ctx *httpctx.Context, args []any) error
}

// Named is implemented by invokers that know the name of the handler they call.
type Named interface {
	HandlerName() string
}

type typed[Req any] struct {
	fn func(*httpctx.Context, *Req) error
}

// Typed wraps fn as an Invoker whose request type is Req.
func Typed[Req any](fn func(ctx *httpctx.Context, req *Req) error) Invoker {
	return typed[Req]{fn: fn}
}

func (t typed[Req]) RequestType() reflect.Type {
	return reflect.TypeFor[Req]()
}

func (t typed[Req]) Invoke(ctx *httpctx.Context, args []any) error {
	if len(args) == 0 && t.RequestType() == noBodyType {
		return t.fn(ctx, new(Req))
	}
	if len(args) != 1 {
		return fmt.Errorf("%w: want 1, got %d", ErrArgumentCount, len(args))
	}
	req, ok := args[0].(*Req)
	if !ok {
		return fmt.Errorf("%w: want %T, got %T", ErrArgumentType, (*Req)(nil), args[0])
	}
	return t.fn(ctx, req)
}

type noArgs struct {
	fn func(*httpctx.Context) error
}

// NoArgs wraps fn as an Invoker with the NoBody request type.
func NoArgs(fn func(ctx *httpctx.Context) error) Invoker {
	return noArgs{fn: fn}
}

func (n noArgs) RequestType() reflect.Type {
	return noBodyType
}

func (n noArgs) Invoke(ctx *httpctx.Context, args []any) error {
	if len(args) != 0 {
		return fmt.Errorf("%w: want 0, got %d", ErrArgumentCount, len(args))
	}
	return n.fn(ctx)
}
