package invoke

import "errors"

var (
	// ErrArgumentCount is returned when an invoker receives the wrong number of arguments.
	ErrArgumentCount = errors.New("wrong number of handler arguments")

	// ErrArgumentType is returned when the argument does not match the request type.
	ErrArgumentType = errors.New("wrong handler argument type")

	// ErrMethodNotFound is returned when the receiver has no exported method of that name.
	ErrMethodNotFound = errors.New("handler method not found")

	// ErrBadSignature is returned when a method does not have the shape
	// func(*httpctx.Context[, *Req]) error.
	ErrBadSignature = errors.New("handler method has unsupported signature")
)
