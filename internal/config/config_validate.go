// Sessionfeed - DJ Session Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sessionfeed

package config

import (
	"fmt"
	"net/url"
	"slices"

	"github.com/tomtom215/sessionfeed/internal/logging"
)

// Validate checks that required configuration is present and valid.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	if err := c.validateCatalog(); err != nil {
		return err
	}
	if err := c.validateProfile(); err != nil {
		return err
	}
	if err := c.Recommend.Validate(); err != nil {
		return fmt.Errorf("recommend: %w", err)
	}
	return c.validateSecurity()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.ReadTimeout <= 0 || c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("HTTP read and write timeouts must be positive")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("HTTP_SHUTDOWN_TIMEOUT must be positive, got %s", c.Server.ShutdownTimeout)
	}
	switch c.Server.Environment {
	case "development", "production":
		return nil
	default:
		return fmt.Errorf("ENVIRONMENT must be development or production, got %q", c.Server.Environment)
	}
}

func (c *Config) validateLogging() error {
	if !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("LOG_LEVEL %q is not a valid level", c.Logging.Level)
	}
	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
	return nil
}

func (c *Config) validateCatalog() error {
	if c.Catalog.Path == "" {
		return fmt.Errorf("CATALOG_PATH is required")
	}
	if c.Catalog.PollInterval < 0 {
		return fmt.Errorf("CATALOG_POLL_INTERVAL must not be negative")
	}
	if c.Catalog.MinReloadInterval < 0 {
		return fmt.Errorf("CATALOG_MIN_RELOAD_INTERVAL must not be negative")
	}
	return nil
}

func (c *Config) validateProfile() error {
	switch c.Profile.Backend {
	case ProfileBackendBadger:
		if !c.Profile.Badger.InMemory && c.Profile.Badger.Path == "" {
			return fmt.Errorf("PROFILE_BADGER_PATH is required unless PROFILE_BADGER_IN_MEMORY=true")
		}
		return nil
	case ProfileBackendRedis:
		if err := validateRedisURL(c.Profile.Redis.URL); err != nil {
			return err
		}
		if c.Profile.Redis.Timeout <= 0 {
			return fmt.Errorf("PROFILE_REDIS_TIMEOUT must be positive")
		}
		return c.validateBreaker()
	default:
		return fmt.Errorf("PROFILE_BACKEND must be %s or %s, got %q",
			ProfileBackendBadger, ProfileBackendRedis, c.Profile.Backend)
	}
}

func (c *Config) validateBreaker() error {
	b := c.Profile.Breaker
	if b.FailureThreshold == 0 {
		return fmt.Errorf("PROFILE_BREAKER_FAILURE_THRESHOLD must be at least 1")
	}
	if b.MaxRequests == 0 {
		return fmt.Errorf("PROFILE_BREAKER_MAX_REQUESTS must be at least 1")
	}
	if b.Timeout <= 0 {
		return fmt.Errorf("PROFILE_BREAKER_TIMEOUT must be positive")
	}
	if b.Interval < 0 {
		return fmt.Errorf("PROFILE_BREAKER_INTERVAL must not be negative")
	}
	return nil
}

func validateRedisURL(rawURL string) error {
	if rawURL == "" {
		return fmt.Errorf("REDIS_URL is required when PROFILE_BACKEND=redis")
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("REDIS_URL failed to parse: %w", err)
	}
	if u.Scheme != "redis" && u.Scheme != "rediss" {
		return fmt.Errorf("REDIS_URL scheme must be redis or rediss, got: %s", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("REDIS_URL host is required")
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if !c.Security.RateLimitDisabled {
		if c.Security.RateLimitReqs <= 0 {
			return fmt.Errorf("RATE_LIMIT_REQUESTS must be positive")
		}
		if c.Security.RateLimitWindow <= 0 {
			return fmt.Errorf("RATE_LIMIT_WINDOW must be positive")
		}
	}
	if c.Server.Environment == "production" && slices.Contains(c.Security.CORSOrigins, "*") {
		return fmt.Errorf("CORS_ORIGINS must list explicit origins in production")
	}
	return nil
}
