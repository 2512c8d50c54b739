// Package config loads the two startup knobs SPEC_FULL.md §6 documents:
// the upstream road-data endpoint and its request timeout. It follows the
// same koanf-based loading shape as the corpus's config.LoadWithEnv,
// simplified to env-only since there is nothing else to configure.
package config

import (
	"strings"
	"time"

	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

// Config holds the routing service's startup configuration.
type Config struct {
	UpstreamURL       string `koanf:"upstream.url"`
	UpstreamTimeoutMS int    `koanf:"upstream.timeout_ms"`
}

// UpstreamTimeout returns the configured timeout as a time.Duration.
func (c Config) UpstreamTimeout() time.Duration {
	return time.Duration(c.UpstreamTimeoutMS) * time.Millisecond
}

const (
	defaultUpstreamTimeoutMS = 30_000
	envPrefix                = "ROUTER_"
)

// Load reads configuration from environment variables:
// ROUTER_UPSTREAM_URL and ROUTER_UPSTREAM_TIMEOUT_MS.
func Load() (Config, error) {
	cfg := Config{UpstreamTimeoutMS: defaultUpstreamTimeoutMS}

	k := koanf.New(".")
	if err := k.Load(env.Provider(envPrefix, env.Opt{
		TransformFunc: func(key, value string) (string, any) {
			trimmed := strings.TrimPrefix(key, envPrefix)
			dotted := strings.ReplaceAll(strings.ToLower(trimmed), "_", ".")
			return dotted, value
		},
	}), nil); err != nil {
		return Config{}, errors.Wrap(err, "load environment configuration")
	}

	if v := k.String("upstream.url"); v != "" {
		cfg.UpstreamURL = v
	}
	if v := k.String("upstream.timeout.ms"); v != "" {
		cfg.UpstreamTimeoutMS = k.Int("upstream.timeout.ms")
	}

	if cfg.UpstreamURL == "" {
		return Config{}, errors.New("ROUTER_UPSTREAM_URL is required")
	}

	return cfg, nil
}
