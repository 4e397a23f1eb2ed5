// Sessionfeed - DJ Session Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sessionfeed

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/tomtom215/sessionfeed/internal/recommend"
)

// DefaultConfigPaths lists the config file locations searched in order.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/sessionfeed/config.yaml",
	"/etc/sessionfeed/config.yml",
}

// ConfigPathEnvVar overrides the config file location.
const ConfigPathEnvVar = "CONFIG_PATH"

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 15 * time.Second,
			Environment:     "development",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Catalog: CatalogConfig{
			Path:              "/data/catalog.json",
			PollInterval:      30 * time.Second,
			MinReloadInterval: 5 * time.Second,
		},
		Profile: ProfileConfig{
			Backend: ProfileBackendBadger,
			Badger: BadgerConfig{
				Path: "/data/profiles",
			},
			Redis: RedisConfig{
				URL:       "redis://localhost:6379/0",
				KeyPrefix: "sessionfeed:profile:",
				Timeout:   2 * time.Second,
			},
			Breaker: BreakerConfig{
				MaxRequests:      1,
				Interval:         time.Minute,
				Timeout:          30 * time.Second,
				FailureThreshold: 5,
			},
		},
		Recommend: *recommend.DefaultConfig(),
		Security: SecurityConfig{
			CORSOrigins:     []string{"*"},
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
		},
	}
}

// LoadWithKoanf layers defaults, the optional YAML file and environment
// variables, then validates the result.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields splits comma-separated env values into string slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) == 0 {
			continue
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

var envMappings = map[string]string{
	"http_host":             "server.host",
	"http_port":             "server.port",
	"http_read_timeout":     "server.read_timeout",
	"http_write_timeout":    "server.write_timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",
	"environment":           "server.environment",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	"catalog_path":                "catalog.path",
	"catalog_poll_interval":       "catalog.poll_interval",
	"catalog_min_reload_interval": "catalog.min_reload_interval",

	"profile_backend":                   "profile.backend",
	"profile_badger_path":               "profile.badger.path",
	"profile_badger_in_memory":          "profile.badger.in_memory",
	"redis_url":                         "profile.redis.url",
	"profile_redis_key_prefix":          "profile.redis.key_prefix",
	"profile_redis_timeout":             "profile.redis.timeout",
	"profile_breaker_max_requests":      "profile.breaker.max_requests",
	"profile_breaker_interval":          "profile.breaker.interval",
	"profile_breaker_timeout":           "profile.breaker.timeout",
	"profile_breaker_failure_threshold": "profile.breaker.failure_threshold",

	"recommend_mmr_lambda":             "recommend.diversity.mmr_lambda",
	"recommend_default_sessions":       "recommend.limits.default_sessions",
	"recommend_default_djs":            "recommend.limits.default_djs",
	"recommend_default_similar":        "recommend.limits.default_similar",
	"recommend_max_limit":              "recommend.limits.max_limit",
	"recommend_parallel_min":           "recommend.parallel.min_candidates",
	"recommend_parallel_workers":       "recommend.parallel.workers",
	"recommend_cache_enabled":          "recommend.cache.enabled",
	"recommend_cache_ttl":              "recommend.cache.ttl",
	"recommend_cache_max_entries":      "recommend.cache.max_entries",
	"recommend_session_novelty":        "recommend.session.novelty",
	"recommend_session_favorite_dj":    "recommend.session.favorite_dj",
	"recommend_session_favorite_genre": "recommend.session.favorite_genre",
	"recommend_dj_featured":            "recommend.dj.featured",

	"cors_origins":        "security.cors_origins",
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",
	"admin_api_key":       "security.admin_api_key",
}

// envTransformFunc maps environment variable names onto config keys.
// Unmapped variables return "" so koanf skips them.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
