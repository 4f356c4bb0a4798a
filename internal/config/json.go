package config

import (
	"fmt"
	"os"
	"time"

	"github.com/bytedance/sonic"
)

// StructuredJSONConfig is the layout of the JSON configuration file.
type StructuredJSONConfig struct {
	Server struct {
		HTTPAddress     string   `json:"http_address"`
		APIPrefix       string   `json:"api_prefix"`
		RequestTimeout  Duration `json:"request_timeout"`
		ShutdownTimeout Duration `json:"shutdown_timeout"`
	} `json:"server,omitempty"`

	Log struct {
		Level string `json:"level"`
	} `json:"log,omitempty"`

	Auth struct {
		TokenSignKey string `json:"token_sign_key"`
		TokenIssuer  string `json:"token_issuer"`
	} `json:"auth,omitempty"`

	Roles struct {
		Levels     []string `json:"levels"`
		ClaimField string   `json:"claim_field"`
	} `json:"roles,omitempty"`

	CORS struct {
		Enabled          bool     `json:"enabled"`
		AllowedOrigins   []string `json:"allowed_origins"`
		AllowedMethods   []string `json:"allowed_methods"`
		AllowedHeaders   []string `json:"allowed_headers"`
		AllowCredentials bool     `json:"allow_credentials"`
	} `json:"cors,omitempty"`

	Uploads struct {
		Enabled   bool   `json:"enabled"`
		Dir       string `json:"dir"`
		MaxMemory int64  `json:"max_memory"`
		Strict    bool   `json:"strict"`
	} `json:"uploads,omitempty"`

	Security struct {
		SQLInjectionCountermeasures bool `json:"sql_injection_countermeasures"`
		SQLFilterConcurrency        int  `json:"sql_filter_concurrency"`
	} `json:"security,omitempty"`

	Metrics struct {
		Enabled   bool   `json:"enabled"`
		Path      string `json:"path"`
		Namespace string `json:"namespace"`
	} `json:"metrics,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	data, err := os.ReadFile(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}

	var jsonCfg StructuredJSONConfig
	if err := sonic.ConfigStd.Unmarshal(data, &jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		Server: Server{
			HTTPAddress:     jsonCfg.Server.HTTPAddress,
			APIPrefix:       jsonCfg.Server.APIPrefix,
			RequestTimeout:  time.Duration(jsonCfg.Server.RequestTimeout),
			ShutdownTimeout: time.Duration(jsonCfg.Server.ShutdownTimeout),
		},
		Log: Log{
			Level: jsonCfg.Log.Level,
		},
		Auth: Auth{
			TokenSignKey: jsonCfg.Auth.TokenSignKey,
			TokenIssuer:  jsonCfg.Auth.TokenIssuer,
		},
		Roles: Roles{
			Levels:     jsonCfg.Roles.Levels,
			ClaimField: jsonCfg.Roles.ClaimField,
		},
		CORS: CORS{
			Enabled:          jsonCfg.CORS.Enabled,
			AllowedOrigins:   jsonCfg.CORS.AllowedOrigins,
			AllowedMethods:   jsonCfg.CORS.AllowedMethods,
			AllowedHeaders:   jsonCfg.CORS.AllowedHeaders,
			AllowCredentials: jsonCfg.CORS.AllowCredentials,
		},
		Uploads: Uploads{
			Enabled:   jsonCfg.Uploads.Enabled,
			Dir:       jsonCfg.Uploads.Dir,
			MaxMemory: jsonCfg.Uploads.MaxMemory,
			Strict:    jsonCfg.Uploads.Strict,
		},
		Security: Security{
			SQLInjectionCountermeasures: jsonCfg.Security.SQLInjectionCountermeasures,
			SQLFilterConcurrency:        jsonCfg.Security.SQLFilterConcurrency,
		},
		Metrics: Metrics{
			Enabled:   jsonCfg.Metrics.Enabled,
			Path:      jsonCfg.Metrics.Path,
			Namespace: jsonCfg.Metrics.Namespace,
		},
		JSONFilePath: "",
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling
// from strings like "1h", "30s" as well as from nanosecond numbers.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := sonic.ConfigStd.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	case nil:
		return nil
	default:
		return fmt.Errorf("invalid duration %s", b)
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return sonic.ConfigStd.Marshal(time.Duration(d).String())
}
