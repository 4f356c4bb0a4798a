package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testKey    = "test-sign-key"
	testIssuer = "go-web-interface"
)

func TestNewJWTValidator_EmptyKey(t *testing.T) {
	v, err := NewJWTValidator("", testIssuer)
	assert.Nil(t, v)
	assert.ErrorIs(t, err, ErrEmptySignKey)
}

func TestValidate_Success(t *testing.T) {
	token, err := IssueToken(testKey, TokenParams{
		Issuer:   testIssuer,
		Subject:  "42",
		Roles:    []string{"user", "admin"},
		Duration: time.Minute,
	})
	require.NoError(t, err)

	v, err := NewJWTValidator(testKey, testIssuer)
	require.NoError(t, err)

	res, err := v.Validate(context.Background(), token)
	require.NoError(t, err)
	assert.Nil(t, res.Credential)
	assert.Equal(t, "42", res.Claims["sub"])
	assert.Equal(t, "user,admin", res.Claims["roles"])
	assert.Equal(t, testIssuer, res.Claims["iss"])
}

func TestValidate_CustomRoleField(t *testing.T) {
	token, err := IssueToken(testKey, TokenParams{
		Roles:     []string{"editor"},
		RoleField: "permissions",
		Duration:  time.Minute,
	})
	require.NoError(t, err)

	v, err := NewJWTValidator(testKey, "")
	require.NoError(t, err)

	res, err := v.Validate(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "editor", res.Claims["permissions"])
	assert.NotContains(t, res.Claims, "roles")
}

func TestValidate_Failures(t *testing.T) {
	valid := func(t *testing.T) string {
		token, err := IssueToken(testKey, TokenParams{Issuer: testIssuer, Duration: time.Minute})
		require.NoError(t, err)
		return token
	}

	tests := []struct {
		name  string
		token func(t *testing.T) string
	}{
		{
			name:  "garbage",
			token: func(*testing.T) string { return "not-a-jwt" },
		},
		{
			name: "wrong key",
			token: func(t *testing.T) string {
				token, err := IssueToken("other-key", TokenParams{Issuer: testIssuer, Duration: time.Minute})
				require.NoError(t, err)
				return token
			},
		},
		{
			name: "wrong issuer",
			token: func(t *testing.T) string {
				token, err := IssueToken(testKey, TokenParams{Issuer: "someone-else", Duration: time.Minute})
				require.NoError(t, err)
				return token
			},
		},
		{
			name: "expired",
			token: func(t *testing.T) string {
				claims := jwt.MapClaims{
					"iss": testIssuer,
					"exp": jwt.NewNumericDate(time.Now().Add(-time.Hour)),
				}
				token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testKey))
				require.NoError(t, err)
				return token
			},
		},
		{
			name: "missing expiration",
			token: func(t *testing.T) string {
				token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"iss": testIssuer}).
					SignedString([]byte(testKey))
				require.NoError(t, err)
				return token
			},
		},
		{
			name: "other signing method",
			token: func(t *testing.T) string {
				claims := jwt.MapClaims{
					"iss": testIssuer,
					"exp": jwt.NewNumericDate(time.Now().Add(time.Hour)),
				}
				token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(testKey))
				require.NoError(t, err)
				return token
			},
		},
		{
			name: "tampered",
			token: func(t *testing.T) string {
				return valid(t) + "x"
			},
		},
	}

	v, err := NewJWTValidator(testKey, testIssuer)
	require.NoError(t, err)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := v.Validate(context.Background(), tt.token(t))
			assert.ErrorIs(t, err, ErrInvalidToken)
			assert.Nil(t, res.Claims)
		})
	}
}

func TestValidate_CancelledContext(t *testing.T) {
	v, err := NewJWTValidator(testKey, "")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = v.Validate(ctx, "anything")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIssueToken_InvalidParams(t *testing.T) {
	_, err := IssueToken("", TokenParams{Duration: time.Minute})
	assert.ErrorIs(t, err, ErrEmptySignKey)

	_, err = IssueToken(testKey, TokenParams{})
	assert.Error(t, err)
}
