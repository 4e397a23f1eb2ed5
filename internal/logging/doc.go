// Sessionfeed - DJ Session Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sessionfeed

// Package logging provides the zerolog-based structured logger shared by
// every Sessionfeed component.
//
// Call Init once from main with the values from the logging config section:
//
//	logging.Init(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
//
// Handlers log through Ctx so the request and user IDs set by the API
// middleware are attached to every line:
//
//	logging.Ctx(ctx).Warn().Err(err).Msg("profile update failed")
//
// SlogHandler bridges slog-only libraries (sutureslog) onto the same stream.
package logging
