// Sessionfeed - DJ Session Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sessionfeed

// Package catalog loads session and DJ records from a JSON or YAML file and
// publishes them as immutable snapshots.
//
// Each snapshot's Version is the xxhash fingerprint of the raw file, so the
// recommendation engine's affinity memo is invalidated exactly when the file
// content changes. Reload is cheap when nothing changed: the file is hashed
// and compared before it is decoded.
//
// Records are validated with the shared validator. A file with invalid
// records is rejected as a whole and the previous snapshot stays active.
// Duplicate IDs and sessions that reference unknown DJs are logged but
// accepted.
package catalog
