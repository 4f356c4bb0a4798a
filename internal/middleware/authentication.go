package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/MKhiriev/go-web-interface/internal/auth"
	"github.com/MKhiriev/go-web-interface/internal/httpctx"
)

const bearerPrefix = "Bearer "

var (
	// ErrMissingBearerToken is logged when the Authorization header is absent,
	// uses another scheme or carries an empty token.
	ErrMissingBearerToken = errors.New("missing bearer token in `Authorization` header")
)

// Authentication verifies the bearer token of routes that require
// authentication and records the resulting claims on the request context.
type Authentication struct {
	routes    RouteInspector
	validator auth.Validator
}

func NewAuthentication(routes RouteInspector, validator auth.Validator) *Authentication {
	return &Authentication{routes: routes, validator: validator}
}

// Handle rejects the request with 401 when the route requires
// authentication and the token is missing or invalid. A credential returned
// by the validator is released with the request whether or not the token
// was accepted.
func (a *Authentication) Handle(ctx *httpctx.Context, next func()) {
	if !a.routes.IsAuthenticationRequired(ctx.Path()) {
		next()
		return
	}

	log := ctx.Logger()

	header := ctx.Request.Header.Get("Authorization")
	if !strings.HasPrefix(header, bearerPrefix) {
		log.Warn().Err(ErrMissingBearerToken).Str("path", ctx.Path()).Send()
		_ = ctx.WriteText(http.StatusUnauthorized, MsgMissingAuthorization)
		return
	}

	token := strings.TrimSpace(header[len(bearerPrefix):])
	if token == "" {
		log.Warn().Err(ErrMissingBearerToken).Str("path", ctx.Path()).Send()
		_ = ctx.WriteText(http.StatusUnauthorized, MsgMissingAuthorization)
		return
	}

	result, err := a.validator.Validate(ctx.Context(), token)
	ctx.Disposables().Add(result.Credential)
	if err != nil {
		log.Warn().Err(err).Str("path", ctx.Path()).Msg("token validation failed")
		_ = ctx.WriteText(http.StatusUnauthorized, MsgInvalidToken)
		return
	}

	if err := ctx.SetClaims(result.Claims); err != nil {
		log.Error().Err(err).Msg("error storing claims")
		_ = ctx.WriteText(http.StatusUnauthorized, MsgInvalidToken)
		return
	}

	next()
}
