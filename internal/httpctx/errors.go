package httpctx

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrClaimsAlreadySet is returned when claims are assigned to a request
	// context that already carries them.
	ErrClaimsAlreadySet = errors.New("claims are already set for this request")

	// ErrFilesAlreadySet is returned on a second attempt to record uploaded files.
	ErrFilesAlreadySet = errors.New("uploaded files are already set for this request")

	// ErrParamsAlreadySet is returned on a second attempt to record form parameters.
	ErrParamsAlreadySet = errors.New("form parameters are already set for this request")

	// ErrResponseAlreadyWritten is returned when a response is written twice.
	ErrResponseAlreadyWritten = errors.New("response is already written")
)

// StatusError is an error carrying the HTTP status and the client-safe
// message to respond with. Handlers return it to choose a status other than
// 500; the wrapped Err is only logged.
type StatusError struct {
	Status  int
	Message string
	Err     error
}

// NewStatusError returns a *StatusError with no wrapped cause.
func NewStatusError(status int, message string) *StatusError {
	return &StatusError{Status: status, Message: message}
}

func (e *StatusError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%d %s: %v", e.Status, e.Message, e.Err)
	}
	return fmt.Sprintf("%d %s", e.Status, e.Message)
}

func (e *StatusError) Unwrap() error {
	return e.Err
}

// StatusText returns Message, or the standard text for Status when empty.
func (e *StatusError) StatusText() string {
	if e.Message != "" {
		return e.Message
	}
	return http.StatusText(e.Status)
}
