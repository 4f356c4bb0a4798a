package dispatch

import "errors"

// Response bodies written by the engine.
const (
	MsgRouteNotFound       = "Route not found"
	MsgRouteExecution      = "Internal Server Error: Exception during route execution"
	MsgInternalServerError = "Internal Server Error"
	MsgInvalidBody         = "Bad Request: request body failed validation"
	MsgBodyTooLarge        = "Request Entity Too Large"
)

var (
	// ErrBodyDecode is returned when the request body cannot be decoded into
	// the handler's request type.
	ErrBodyDecode = errors.New("error decoding request body")

	// ErrBodyInvalid is returned when a decoded body fails validation.
	ErrBodyInvalid = errors.New("request body failed validation")

	// ErrBodyTooLarge is returned when the body exceeds the configured limit.
	ErrBodyTooLarge = errors.New("request body too large")

	// ErrHandlerPanic wraps a panic recovered from a handler.
	ErrHandlerPanic = errors.New("handler panicked")
)
