// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnv_AllFields(t *testing.T) {
	// Arrange
	envVars := map[string]string{
		"CONFIG": "/path/to/config.json",

		"SERVER_ADDRESS":          "localhost:8080",
		"SERVER_API_PREFIX":       "/api",
		"SERVER_REQUEST_TIMEOUT":  "30s",
		"SERVER_SHUTDOWN_TIMEOUT": "5s",

		"LOG_LEVEL": "warn",

		"AUTH_TOKEN_SIGN_KEY": "jwt_secret",
		"AUTH_TOKEN_ISSUER":   "test_issuer",

		"ROLES_LEVELS":      "user,editor,admin",
		"ROLES_CLAIM_FIELD": "permissions",

		"CORS_ENABLED":           "true",
		"CORS_ALLOWED_ORIGINS":   "https://a.example,https://b.example",
		"CORS_ALLOWED_METHODS":   "GET,POST",
		"CORS_ALLOWED_HEADERS":   "Authorization",
		"CORS_ALLOW_CREDENTIALS": "true",

		"UPLOADS_ENABLED":    "true",
		"UPLOADS_DIR":        "/var/uploads",
		"UPLOADS_MAX_MEMORY": "1048576",
		"UPLOADS_STRICT":     "true",

		"SECURITY_SQL_INJECTION_COUNTERMEASURES": "true",
		"SECURITY_SQL_FILTER_CONCURRENCY":        "4",

		"METRICS_ENABLED":   "true",
		"METRICS_PATH":      "/internal/metrics",
		"METRICS_NAMESPACE": "edge",
	}
	setEnvVars(t, envVars)

	// Act
	cfg := &StructuredConfig{}
	err := parseEnv(cfg)

	// Assert
	require.NoError(t, err)

	assert.Equal(t, "/path/to/config.json", cfg.JSONFilePath)

	assert.Equal(t, "localhost:8080", cfg.Server.HTTPAddress)
	assert.Equal(t, "/api", cfg.Server.APIPrefix)
	assert.Equal(t, 30*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, 5*time.Second, cfg.Server.ShutdownTimeout)

	assert.Equal(t, "warn", cfg.Log.Level)

	assert.Equal(t, "jwt_secret", cfg.Auth.TokenSignKey)
	assert.Equal(t, "test_issuer", cfg.Auth.TokenIssuer)

	assert.Equal(t, []string{"user", "editor", "admin"}, cfg.Roles.Levels)
	assert.Equal(t, "permissions", cfg.Roles.ClaimField)

	assert.True(t, cfg.CORS.Enabled)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, []string{"GET", "POST"}, cfg.CORS.AllowedMethods)
	assert.Equal(t, []string{"Authorization"}, cfg.CORS.AllowedHeaders)
	assert.True(t, cfg.CORS.AllowCredentials)

	assert.True(t, cfg.Uploads.Enabled)
	assert.Equal(t, "/var/uploads", cfg.Uploads.Dir)
	assert.Equal(t, int64(1048576), cfg.Uploads.MaxMemory)
	assert.True(t, cfg.Uploads.Strict)

	assert.True(t, cfg.Security.SQLInjectionCountermeasures)
	assert.Equal(t, 4, cfg.Security.SQLFilterConcurrency)

	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "/internal/metrics", cfg.Metrics.Path)
	assert.Equal(t, "edge", cfg.Metrics.Namespace)
}

func TestParseEnv_EmptyEnv(t *testing.T) {
	setEnvVars(t, nil)

	cfg := &StructuredConfig{}
	require.NoError(t, parseEnv(cfg))

	assert.Equal(t, &StructuredConfig{}, cfg)
}

func TestParseEnv_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{name: "duration", key: "SERVER_REQUEST_TIMEOUT", val: "invalid"},
		{name: "bool", key: "UPLOADS_ENABLED", val: "maybe"},
		{name: "int", key: "SECURITY_SQL_FILTER_CONCURRENCY", val: "many"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setEnvVars(t, map[string]string{tt.key: tt.val})

			err := parseEnv(&StructuredConfig{})
			require.Error(t, err)
			assert.Contains(t, err.Error(), "error getting env configs")
		})
	}
}

func TestParseEnv_DurationFormats(t *testing.T) {
	tests := []struct {
		value    string
		expected time.Duration
	}{
		{value: "1h", expected: time.Hour},
		{value: "30m", expected: 30 * time.Minute},
		{value: "1h30m", expected: 90 * time.Minute},
		{value: "500ms", expected: 500 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			setEnvVars(t, map[string]string{"SERVER_SHUTDOWN_TIMEOUT": tt.value})

			cfg := &StructuredConfig{}
			require.NoError(t, parseEnv(cfg))
			assert.Equal(t, tt.expected, cfg.Server.ShutdownTimeout)
		})
	}
}

func TestParseEnv_TrimsLists(t *testing.T) {
	setEnvVars(t, map[string]string{
		"ROLES_LEVELS":         " user , editor,admin ",
		"CORS_ALLOWED_HEADERS": "Authorization, ,Content-Type",
	})

	cfg := &StructuredConfig{}
	require.NoError(t, parseEnv(cfg))

	assert.Equal(t, []string{"user", "editor", "admin"}, cfg.Roles.Levels)
	assert.Equal(t, []string{"Authorization", "Content-Type"}, cfg.CORS.AllowedHeaders)
	assert.Nil(t, cfg.CORS.AllowedOrigins)
}

// Helpers

var envKeys = []string{
	"CONFIG",
	"SERVER_ADDRESS", "SERVER_API_PREFIX", "SERVER_REQUEST_TIMEOUT", "SERVER_SHUTDOWN_TIMEOUT",
	"LOG_LEVEL",
	"AUTH_TOKEN_SIGN_KEY", "AUTH_TOKEN_ISSUER",
	"ROLES_LEVELS", "ROLES_CLAIM_FIELD",
	"CORS_ENABLED", "CORS_ALLOWED_ORIGINS", "CORS_ALLOWED_METHODS", "CORS_ALLOWED_HEADERS", "CORS_ALLOW_CREDENTIALS",
	"UPLOADS_ENABLED", "UPLOADS_DIR", "UPLOADS_MAX_MEMORY", "UPLOADS_STRICT",
	"SECURITY_SQL_INJECTION_COUNTERMEASURES", "SECURITY_SQL_FILTER_CONCURRENCY",
	"METRICS_ENABLED", "METRICS_PATH", "METRICS_NAMESPACE",
}

func setEnvVars(t *testing.T, vars map[string]string) {
	t.Helper()
	for _, k := range envKeys {
		if _, ok := vars[k]; !ok {
			t.Setenv(k, "")
			require.NoError(t, os.Unsetenv(k))
		}
	}
	for k, v := range vars {
		t.Setenv(k, v)
	}
}
