// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"os"
	"time"
)

// Default values applied to fields that no source set.
const (
	DefaultHTTPAddress     = ":8080"
	DefaultShutdownTimeout = 10 * time.Second
	DefaultMetricsPath     = "/metrics"
	DefaultLogLevel        = "info"
	DefaultRoleClaimField  = "roles"
	DefaultUploadDir       = "uploads"
	DefaultUploadMaxMemory = 32 << 20
	DefaultSQLConcurrency  = 8
)

// StructuredConfig is the top-level configuration container for the
// dispatch server. It aggregates all sub-configurations and is populated by
// merging values from environment variables, command-line flags, and an
// optional JSON file.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env: direct environment variable name for scalar fields.
//   - validate: rules checked by go-playground/validator after merging.
type StructuredConfig struct {
	// Server holds the listen address, the route prefix and shutdown
	// settings of the HTTP listener.
	Server Server `envPrefix:"SERVER_"`

	// Log holds the logger settings.
	Log Log `envPrefix:"LOG_"`

	// Auth holds the bearer token verification settings.
	Auth Auth `envPrefix:"AUTH_"`

	// Roles holds the ordered role hierarchy.
	Roles Roles `envPrefix:"ROLES_"`

	// CORS holds the cross-origin policy. It is applied only when Enabled.
	CORS CORS `envPrefix:"CORS_"`

	// Uploads holds the multipart upload settings.
	Uploads Uploads `envPrefix:"UPLOADS_"`

	// Security holds the query string filter settings.
	Security Security `envPrefix:"SECURITY_"`

	// Metrics holds the Prometheus endpoint settings.
	Metrics Metrics `envPrefix:"METRICS_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// When non-empty, the file is parsed and merged on top of the values
	// already loaded from environment variables and flags.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// Server holds network and timeout settings for the inbound transport layer.
type Server struct {
	// HTTPAddress is the TCP address on which the HTTP server listens,
	// in "host:port" format (e.g. "0.0.0.0:8080").
	// Env: SERVER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// APIPrefix is prepended to every registered route path (e.g. "/api").
	// Env: SERVER_API_PREFIX
	APIPrefix string `env:"API_PREFIX" validate:"omitempty,startswith=/"`

	// RequestTimeout bounds a single inbound request (e.g. "30s", "1m").
	// Zero disables the timeout.
	// Env: SERVER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" validate:"gte=0"`

	// ShutdownTimeout bounds the graceful shutdown.
	// Env: SERVER_SHUTDOWN_TIMEOUT
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" validate:"gte=0"`
}

// Log holds logger settings.
type Log struct {
	// Level is a zerolog level name.
	// Env: LOG_LEVEL
	Level string `env:"LEVEL" validate:"omitempty,oneof=trace debug info warn error fatal panic disabled"`
}

// Auth holds configuration for bearer token verification.
type Auth struct {
	// TokenSignKey is the HMAC key used to verify JWT signatures. When empty
	// no authentication step is installed and authenticated routes are
	// refused.
	// Env: AUTH_TOKEN_SIGN_KEY
	TokenSignKey string `env:"TOKEN_SIGN_KEY" validate:"omitempty,min=8"`

	// TokenIssuer is the expected "iss" claim; empty skips the check.
	// Env: AUTH_TOKEN_ISSUER
	TokenIssuer string `env:"TOKEN_ISSUER"`
}

// Roles holds the role hierarchy. A role's level is its position in Levels.
type Roles struct {
	// Levels lists roles from the lowest to the highest level.
	// Env: ROLES_LEVELS (comma separated)
	Levels []string `env:"LEVELS" envSeparator:"," validate:"unique,dive,required"`

	// ClaimField is the token claim carrying the caller's roles.
	// Env: ROLES_CLAIM_FIELD
	ClaimField string `env:"CLAIM_FIELD"`
}

// CORS holds the cross-origin resource sharing policy.
type CORS struct {
	// Env: CORS_ENABLED
	Enabled bool `env:"ENABLED"`
	// AllowedOrigins lists origins, or "*" for any. Empty allows any.
	// Env: CORS_ALLOWED_ORIGINS
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:","`
	// Env: CORS_ALLOWED_METHODS
	AllowedMethods []string `env:"ALLOWED_METHODS" envSeparator:","`
	// Env: CORS_ALLOWED_HEADERS
	AllowedHeaders []string `env:"ALLOWED_HEADERS" envSeparator:","`
	// Env: CORS_ALLOW_CREDENTIALS
	AllowCredentials bool `env:"ALLOW_CREDENTIALS"`
}

// Uploads holds settings for multipart form handling.
type Uploads struct {
	// Enabled installs the multipart step.
	// Env: UPLOADS_ENABLED
	Enabled bool `env:"ENABLED"`
	// Dir is where uploaded files are stored.
	// Env: UPLOADS_DIR
	Dir string `env:"DIR"`
	// MaxMemory is the part of a form kept in memory before spilling to
	// temporary files.
	// Env: UPLOADS_MAX_MEMORY
	MaxMemory int64 `env:"MAX_MEMORY" validate:"gte=0"`
	// Strict rejects malformed forms and failed uploads instead of
	// continuing without them.
	// Env: UPLOADS_STRICT
	Strict bool `env:"STRICT"`
}

// Security holds settings for the query string filter.
type Security struct {
	// SQLInjectionCountermeasures installs the query string filter.
	// Env: SECURITY_SQL_INJECTION_COUNTERMEASURES
	SQLInjectionCountermeasures bool `env:"SQL_INJECTION_COUNTERMEASURES"`
	// SQLFilterConcurrency bounds the parallel key checks per request.
	// Env: SECURITY_SQL_FILTER_CONCURRENCY
	SQLFilterConcurrency int `env:"SQL_FILTER_CONCURRENCY" validate:"gte=0"`
}

// Metrics holds settings for the Prometheus endpoint.
type Metrics struct {
	// Enabled installs the metrics step and serves Path.
	// Env: METRICS_ENABLED
	Enabled bool `env:"ENABLED"`
	// Path is where the exposition is served.
	// Env: METRICS_PATH
	Path string `env:"PATH" validate:"omitempty,startswith=/"`
	// Namespace prefixes every metric name.
	// Env: METRICS_NAMESPACE
	Namespace string `env:"NAMESPACE"`
}

// GetStructuredConfig loads, merges, and validates the application
// configuration from all available sources in the following priority order
// (last source wins for non-zero fields):
//  1. Environment variables
//  2. Command-line flags (os.Args)
//  3. JSON file (path resolved from sources 1 and 2)
//
// Returns a fully populated *StructuredConfig or an error if any source
// fails to load or the final config fails validation.
func GetStructuredConfig() (*StructuredConfig, error) {
	return Load(os.Args[1:])
}

// Load is GetStructuredConfig with explicit command-line arguments.
func Load(args []string) (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags(args).
		withJSON().
		build()
}

func (cfg *StructuredConfig) applyDefaults() {
	if cfg.Server.HTTPAddress == "" {
		cfg.Server.HTTPAddress = DefaultHTTPAddress
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Roles.ClaimField == "" {
		cfg.Roles.ClaimField = DefaultRoleClaimField
	}
	if cfg.Uploads.Dir == "" {
		cfg.Uploads.Dir = DefaultUploadDir
	}
	if cfg.Uploads.MaxMemory == 0 {
		cfg.Uploads.MaxMemory = DefaultUploadMaxMemory
	}
	if cfg.Security.SQLFilterConcurrency == 0 {
		cfg.Security.SQLFilterConcurrency = DefaultSQLConcurrency
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = DefaultMetricsPath
	}
}

const redactedValue = "[REDACTED]"

// Redacted returns a copy of cfg that is safe to log: secrets are masked.
func (cfg StructuredConfig) Redacted() StructuredConfig {
	if cfg.Auth.TokenSignKey != "" {
		cfg.Auth.TokenSignKey = redactedValue
	}
	return cfg
}
