// Sessionfeed - DJ Session Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sessionfeed

package config

import (
	"fmt"
	"time"

	"github.com/tomtom215/sessionfeed/internal/recommend"
)

// Config holds all application configuration.
//
// Loading order (Koanf v2):
//  1. Defaults from defaultConfig
//  2. Optional YAML file (CONFIG_PATH, then DefaultConfigPaths)
//  3. Environment variables mapped by envTransformFunc
//
// Example:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    logging.Fatal().Err(err).Msg("config")
//	}
type Config struct {
	Server    ServerConfig     `koanf:"server"`
	Logging   LoggingConfig    `koanf:"logging"`
	Catalog   CatalogConfig    `koanf:"catalog"`
	Profile   ProfileConfig    `koanf:"profile"`
	Recommend recommend.Config `koanf:"recommend"`
	Security  SecurityConfig   `koanf:"security"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	// Environment is development or production. Production requires an
	// explicit CORS origin list.
	Environment string `koanf:"environment"`
}

// Addr returns host:port for http.Server.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LoggingConfig holds logging settings for zerolog.
//
// Environment Variables:
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json, console (default: json)
//   - LOG_CALLER: include caller file:line (default: false)
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// CatalogConfig controls where session and DJ records come from.
//
// Environment Variables:
//   - CATALOG_PATH: JSON or YAML catalog file (required)
//   - CATALOG_POLL_INTERVAL: how often to check the file for changes, 0 disables (default: 30s)
//   - CATALOG_MIN_RELOAD_INTERVAL: minimum spacing between reloads (default: 5s)
type CatalogConfig struct {
	Path              string        `koanf:"path"`
	PollInterval      time.Duration `koanf:"poll_interval"`
	MinReloadInterval time.Duration `koanf:"min_reload_interval"`
}

// Profile store backends.
const (
	ProfileBackendBadger = "badger"
	ProfileBackendRedis  = "redis"
)

// ProfileConfig selects and tunes the user profile store.
type ProfileConfig struct {
	// Backend is badger or redis.
	// Default: badger
	Backend string `koanf:"backend"`

	Badger  BadgerConfig  `koanf:"badger"`
	Redis   RedisConfig   `koanf:"redis"`
	Breaker BreakerConfig `koanf:"breaker"`
}

// BadgerConfig holds the embedded profile store settings.
type BadgerConfig struct {
	// Path is the data directory. Ignored when InMemory is set.
	Path string `koanf:"path"`
	// InMemory keeps profiles in RAM only; they are lost on restart.
	InMemory bool `koanf:"in_memory"`
}

// RedisConfig holds the shared profile store settings.
type RedisConfig struct {
	// URL in redis:// form, parsed with redis.ParseURL.
	URL       string        `koanf:"url"`
	KeyPrefix string        `koanf:"key_prefix"`
	Timeout   time.Duration `koanf:"timeout"`
}

// BreakerConfig tunes the circuit breaker in front of remote profile stores.
type BreakerConfig struct {
	// MaxRequests allowed through while half-open.
	MaxRequests uint32 `koanf:"max_requests"`
	// Interval clears the closed-state counts. 0 never clears.
	Interval time.Duration `koanf:"interval"`
	// Timeout is how long the breaker stays open before probing.
	Timeout time.Duration `koanf:"timeout"`
	// FailureThreshold is the number of consecutive failures that trips it.
	FailureThreshold uint32 `koanf:"failure_threshold"`
}

// SecurityConfig holds API protection settings.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	// AdminAPIKey guards the admin routes. Empty leaves them unmounted.
	AdminAPIKey string `koanf:"admin_api_key"`
}

// Load loads configuration using Koanf.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
