// Sessionfeed - DJ Session Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sessionfeed

/*
Package config loads Sessionfeed configuration with Koanf v2.

Values are layered: built-in defaults, then an optional YAML file
(CONFIG_PATH, config.yaml, /etc/sessionfeed/config.yaml), then environment
variables. Only mapped environment variables are read, so unrelated
variables never leak into the config tree.

# Sections

  - server: listen address and HTTP timeouts
  - logging: zerolog level and format
  - catalog: catalog file path and reload cadence
  - profile: badger or redis profile store, circuit breaker tuning
  - recommend: scoring weights and engine limits (recommend.Config)
  - security: CORS, rate limiting, admin API key

# Example config.yaml

	catalog:
	  path: /data/catalog.yaml
	profile:
	  backend: redis
	  redis:
	    url: redis://cache:6379/2
	recommend:
	  diversity:
	    mmr_lambda: 0.7
	  session:
	    novelty: 5
*/
package config
