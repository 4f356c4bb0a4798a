package invoke

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/MKhiriev/go-web-interface/internal/httpctx"
)

var (
	contextPtrType = reflect.TypeFor[*httpctx.Context]()
	errorType      = reflect.TypeFor[error]()
)

type methodKey struct {
	typ  reflect.Type
	name string
}

// executor is the validated, receiver-independent part of a handler method.
type executor struct {
	method      reflect.Method
	requestType reflect.Type
}

// Cache memoizes reflective method lookups. It is safe for concurrent use;
// concurrent first lookups of the same key may both build the executor, the
// first stored one wins.
type Cache struct {
	executors sync.Map // methodKey -> *executor
}

// NewCache returns an empty Cache.
func NewCache() *Cache {
	return &Cache{}
}

var defaultCache = NewCache()

// Method resolves the exported method name of receiver through the process
// wide cache. See [Cache.Method].
func Method(receiver any, name string) (Invoker, error) {
	return defaultCache.Method(receiver, name)
}

// MustMethod is Method that panics on error. It is meant for route tables
// declared at startup.
func MustMethod(receiver any, name string) Invoker {
	inv, err := Method(receiver, name)
	if err != nil {
		panic(err)
	}
	return inv
}

// Method returns an Invoker that calls the exported method name on receiver.
// The method must have the signature func(*httpctx.Context) error or
// func(*httpctx.Context, *Req) error.
func (c *Cache) Method(receiver any, name string) (Invoker, error) {
	if receiver == nil {
		return nil, fmt.Errorf("%w: nil receiver", ErrMethodNotFound)
	}

	recv := reflect.ValueOf(receiver)
	exec, err := c.executor(recv.Type(), name)
	if err != nil {
		return nil, err
	}

	return &boundMethod{receiver: recv, exec: exec}, nil
}

// Len returns the number of cached executors.
func (c *Cache) Len() int {
	n := 0
	c.executors.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

func (c *Cache) executor(typ reflect.Type, name string) (*executor, error) {
	key := methodKey{typ: typ, name: name}
	if cached, ok := c.executors.Load(key); ok {
		return cached.(*executor), nil
	}

	exec, err := buildExecutor(typ, name)
	if err != nil {
		return nil, err
	}

	actual, _ := c.executors.LoadOrStore(key, exec)
	return actual.(*executor), nil
}

func buildExecutor(typ reflect.Type, name string) (*executor, error) {
	method, ok := typ.MethodByName(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s", ErrMethodNotFound, typ, name)
	}

	ft := method.Type // receiver is In(0)
	if ft.NumOut() != 1 || ft.Out(0) != errorType {
		return nil, fmt.Errorf("%w: %s.%s must return error", ErrBadSignature, typ, name)
	}
	if ft.NumIn() < 2 || ft.In(1) != contextPtrType {
		return nil, fmt.Errorf("%w: %s.%s first parameter must be %s", ErrBadSignature, typ, name, contextPtrType)
	}

	exec := &executor{method: method, requestType: noBodyType}
	switch ft.NumIn() {
	case 2:
	case 3:
		param := ft.In(2)
		if param.Kind() != reflect.Pointer {
			return nil, fmt.Errorf("%w: %s.%s body parameter must be a pointer", ErrBadSignature, typ, name)
		}
		exec.requestType = param.Elem()
	default:
		return nil, fmt.Errorf("%w: %s.%s takes at most one body parameter", ErrBadSignature, typ, name)
	}

	return exec, nil
}

type boundMethod struct {
	receiver reflect.Value
	exec     *executor
}

func (b *boundMethod) RequestType() reflect.Type {
	return b.exec.requestType
}

func (b *boundMethod) HandlerName() string {
	return b.exec.method.Name
}

func (b *boundMethod) Invoke(ctx *httpctx.Context, args []any) error {
	in := make([]reflect.Value, 0, 3)
	in = append(in, b.receiver, reflect.ValueOf(ctx))

	if b.exec.requestType == noBodyType {
		if len(args) != 0 {
			return fmt.Errorf("%w: want 0, got %d", ErrArgumentCount, len(args))
		}
	} else {
		if len(args) != 1 {
			return fmt.Errorf("%w: want 1, got %d", ErrArgumentCount, len(args))
		}
		arg := reflect.ValueOf(args[0])
		want := reflect.PointerTo(b.exec.requestType)
		if !arg.IsValid() || arg.Type() != want {
			return fmt.Errorf("%w: want %s, got %T", ErrArgumentType, want, args[0])
		}
		in = append(in, arg)
	}

	out := b.exec.method.Func.Call(in)
	if out[0].IsNil() {
		return nil
	}
	return out[0].Interface().(error)
}
