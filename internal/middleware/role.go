package middleware

import (
	"net/http"

	"github.com/MKhiriev/go-web-interface/internal/httpctx"
	"github.com/MKhiriev/go-web-interface/internal/roles"
)

// RoleAuthorization enforces the role requirement of a route. It must run
// after Authentication.
//
// Every misconfiguration fails closed with 403: missing role options, an
// empty role hierarchy, or a role-gated route that requires authentication
// but reached this step without claims.
type RoleAuthorization struct {
	routes    RouteInspector
	options   *roles.Options
	extractor roles.Extractor
	resolver  *roles.Resolver
}

// NewRoleAuthorization returns the middleware. A nil extractor selects
// [roles.ClaimExtractor].
func NewRoleAuthorization(routes RouteInspector, options *roles.Options, extractor roles.Extractor) *RoleAuthorization {
	if extractor == nil {
		extractor = roles.ClaimExtractor{}
	}
	return &RoleAuthorization{
		routes:    routes,
		options:   options,
		extractor: extractor,
		resolver:  roles.NewResolver(options),
	}
}

func (m *RoleAuthorization) Handle(ctx *httpctx.Context, next func()) {
	required, ok := m.routes.RequiredRole(ctx.Path())
	if !ok {
		next()
		return
	}

	log := ctx.Logger()

	if m.options == nil {
		log.Error().Str("path", ctx.Path()).Msg("role required but role options are not configured")
		_ = ctx.WriteText(http.StatusForbidden, MsgRolesNotConfigured)
		return
	}

	claims, hasClaims := ctx.Claims()
	if !hasClaims && m.routes.IsAuthenticationRequired(ctx.Path()) {
		log.Error().Str("path", ctx.Path()).Msg("role check reached without authenticated claims")
		_ = ctx.WriteText(http.StatusForbidden, MsgAuthenticationRequired)
		return
	}

	userRoles := m.extractor.Extract(claims, m.options.ClaimField())
	if len(userRoles) == 0 {
		log.Info().Str("path", ctx.Path()).Str("required_role", required).Msg("caller has no roles")
		_ = ctx.WriteText(http.StatusForbidden, MsgNoPermission)
		return
	}

	if m.options.Len() == 0 {
		log.Warn().Str("path", ctx.Path()).Msg("no roles are registered in role options")
		_ = ctx.WriteText(http.StatusForbidden, MsgInsufficientRole)
		return
	}

	if !m.resolver.HasRequiredLevel(userRoles, required) {
		log.Info().
			Str("path", ctx.Path()).
			Str("required_role", required).
			Strs("roles", userRoles).
			Msg("insufficient role level")
		_ = ctx.WriteText(http.StatusForbidden, MsgInsufficientRole)
		return
	}

	next()
}
