package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJSON_Success(t *testing.T) {
	// Arrange
	dir := t.TempDir()
	p := filepath.Join(dir, "config.json")

	jsonBody := `{
		"server": {
			"http_address": "localhost:8080",
			"api_prefix": "/api",
			"request_timeout": "30s",
			"shutdown_timeout": 5000000000
		},
		"log": { "level": "error" },
		"auth": { "token_sign_key": "jwt_secret", "token_issuer": "test_issuer" },
		"roles": { "levels": ["user", "admin"], "claim_field": "permissions" },
		"cors": {
			"enabled": true,
			"allowed_origins": ["*"],
			"allowed_methods": ["GET"],
			"allowed_headers": ["Authorization"],
			"allow_credentials": false
		},
		"uploads": { "enabled": true, "dir": "/var/uploads", "max_memory": 1024, "strict": true },
		"security": { "sql_injection_countermeasures": true, "sql_filter_concurrency": 2 },
		"metrics": { "enabled": true, "path": "/m", "namespace": "edge" }
	}`

	require.NoError(t, os.WriteFile(p, []byte(jsonBody), 0o600))

	// Act
	cfg, err := parseJSON(p)

	// Assert
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "localhost:8080", cfg.Server.HTTPAddress)
	assert.Equal(t, "/api", cfg.Server.APIPrefix)
	assert.Equal(t, 30*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, 5*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "error", cfg.Log.Level)
	assert.Equal(t, "jwt_secret", cfg.Auth.TokenSignKey)
	assert.Equal(t, "test_issuer", cfg.Auth.TokenIssuer)
	assert.Equal(t, []string{"user", "admin"}, cfg.Roles.Levels)
	assert.Equal(t, "permissions", cfg.Roles.ClaimField)
	assert.True(t, cfg.CORS.Enabled)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, []string{"GET"}, cfg.CORS.AllowedMethods)
	assert.Equal(t, []string{"Authorization"}, cfg.CORS.AllowedHeaders)
	assert.True(t, cfg.Uploads.Enabled)
	assert.Equal(t, "/var/uploads", cfg.Uploads.Dir)
	assert.Equal(t, int64(1024), cfg.Uploads.MaxMemory)
	assert.True(t, cfg.Uploads.Strict)
	assert.True(t, cfg.Security.SQLInjectionCountermeasures)
	assert.Equal(t, 2, cfg.Security.SQLFilterConcurrency)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "/m", cfg.Metrics.Path)
	assert.Equal(t, "edge", cfg.Metrics.Namespace)
	assert.Empty(t, cfg.JSONFilePath)
}

func TestParseJSON_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "malformed", body: "{not valid json"},
		{name: "bad duration string", body: `{"server": {"request_timeout": "soon"}}`},
		{name: "bad duration type", body: `{"server": {"request_timeout": true}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := filepath.Join(t.TempDir(), "config.json")
			require.NoError(t, os.WriteFile(p, []byte(tt.body), 0o600))

			cfg, err := parseJSON(p)
			assert.Error(t, err)
			assert.Nil(t, cfg)
		})
	}
}

func TestParseJSON_MissingFile(t *testing.T) {
	cfg, err := parseJSON(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading a json file")
	assert.Nil(t, cfg)
}

func TestDuration_MarshalJSON(t *testing.T) {
	data, err := Duration(90 * time.Second).MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"1m30s"`, string(data))
}
