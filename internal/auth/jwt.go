// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package auth

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"strings"
	"time"

	"github.com/MKhiriev/go-web-interface/internal/httpctx"
	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrEmptySignKey is returned when a validator or token is built without a key.
	ErrEmptySignKey = errors.New("empty token sign key")

	// ErrInvalidToken wraps every token verification failure.
	ErrInvalidToken = errors.New("invalid token")
)

// JWTValidator verifies HMAC-SHA256 signed JWT tokens.
//
// Validation checks the signature, the signing method, the expiration
// claim (which must be present) and, when configured, the issuer.
type JWTValidator struct {
	signKey []byte
	parser  *jwt.Parser
}

// NewJWTValidator returns a validator for tokens signed with signKey. An
// empty issuer disables the issuer check.
func NewJWTValidator(signKey, issuer string) (*JWTValidator, error) {
	if signKey == "" {
		return nil, ErrEmptySignKey
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}

	return &JWTValidator{
		signKey: []byte(signKey),
		parser:  jwt.NewParser(opts...),
	}, nil
}

// Validate parses token and returns its claims. It never returns a Credential.
func (v *JWTValidator) Validate(ctx context.Context, token string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	claims := jwt.MapClaims{}
	_, err := v.parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return v.signKey, nil
	})
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	return Result{Claims: httpctx.Claims(maps.Clone(claims))}, nil
}

// TokenParams describes a token issued by IssueToken.
type TokenParams struct {
	Issuer    string
	Subject   string
	Roles     []string
	RoleField string
	Duration  time.Duration
}

// IssueToken creates a signed HMAC-SHA256 JWT. Roles are stored as a comma
// separated string under RoleField ("roles" when empty).
func IssueToken(signKey string, params TokenParams) (string, error) {
	if signKey == "" {
		return "", ErrEmptySignKey
	}
	if params.Duration <= 0 {
		return "", errors.New("token duration must be positive")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"iat": jwt.NewNumericDate(now),
		"exp": jwt.NewNumericDate(now.Add(params.Duration)),
	}
	if params.Issuer != "" {
		claims["iss"] = params.Issuer
	}
	if params.Subject != "" {
		claims["sub"] = params.Subject
	}
	if len(params.Roles) > 0 {
		field := params.RoleField
		if field == "" {
			field = "roles"
		}
		claims[field] = strings.Join(params.Roles, ",")
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(signKey))
	if err != nil {
		return "", fmt.Errorf("error occurred during signing JWT token: %w", err)
	}
	return signed, nil
}
