// Sessionfeed - DJ Session Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sessionfeed

// Package validation wraps go-playground/validator v10 with a shared
// instance, json-named fields and messages in the API error format.
//
// Catalog records and request bodies are validated the same way:
//
//	type trackViewRequest struct {
//	    SessionID string `json:"session_id" validate:"required,catalogid"`
//	}
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    respondValidationError(w, verr.ToAPIError())
//	}
//
// The catalogid tag accepts 1-128 characters of letters, digits, '.', '_',
// ':' and '-', starting with a letter or digit, so every ID fits in a single
// URL path segment.
package validation
