package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

// parseEnv fills cfg from the environment through the `env` and `envPrefix`
// tags of [StructuredConfig]. Comma separated lists are trimmed so that
// "user, admin" yields two clean role names.
func parseEnv(cfg *StructuredConfig) error {
	if err := env.ParseWithOptions(cfg, env.Options{}); err != nil {
		return fmt.Errorf("error getting env configs: %w", err)
	}

	cfg.Roles.Levels = trimList(cfg.Roles.Levels)
	cfg.CORS.AllowedOrigins = trimList(cfg.CORS.AllowedOrigins)
	cfg.CORS.AllowedMethods = trimList(cfg.CORS.AllowedMethods)
	cfg.CORS.AllowedHeaders = trimList(cfg.CORS.AllowedHeaders)

	return nil
}

func trimList(values []string) []string {
	if values == nil {
		return nil
	}

	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
