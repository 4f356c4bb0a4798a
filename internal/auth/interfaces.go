// Package auth verifies bearer tokens and turns them into request claims.
package auth

//go:generate mockgen -source=interfaces.go -destination=../mock/validator_mock.go -package=mock

import (
	"context"
	"io"

	"github.com/MKhiriev/go-web-interface/internal/httpctx"
)

// Result is the outcome of a successful token validation.
type Result struct {
	// Claims is the verified claim set.
	Claims httpctx.Claims

	// Credential, when non-nil, is an external resource tied to the token
	// (for example a session handle). It is released when the request ends.
	Credential io.Closer
}

// Validator verifies a raw bearer token.
//
// Implementations may return a Credential together with an error; the
// caller still takes ownership of it.
type Validator interface {
	Validate(ctx context.Context, token string) (Result, error)
}
