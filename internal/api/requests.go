// Sessionfeed - DJ Session Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sessionfeed

package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/tomtom215/sessionfeed/internal/validation"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 64 << 10

// ListRequest carries the optional limit shared by list endpoints.
// Zero selects the engine default; values above the engine maximum are
// clamped by the engine.
type ListRequest struct {
	Limit int `json:"limit" validate:"gte=0"`
}

// SessionListRequest adds the personalised-session switches.
type SessionListRequest struct {
	ListRequest
	ExcludeViewed bool `json:"exclude_viewed"`
	Diversify     bool `json:"diversify"`
}

// UserRequest identifies the user in the path.
type UserRequest struct {
	UserID string `json:"user_id" validate:"required,catalogid"`
}

// ViewRequest is the body of POST /users/{userID}/views.
type ViewRequest struct {
	SessionID string `json:"session_id" validate:"required,catalogid"`
}

// FavoriteDJRequest identifies a DJ to toggle.
type FavoriteDJRequest struct {
	UserID string `json:"user_id" validate:"required,catalogid"`
	DJID   string `json:"dj_id" validate:"required,catalogid"`
}

// FavoriteGenreRequest identifies a genre to add or remove.
type FavoriteGenreRequest struct {
	UserID string `json:"user_id" validate:"required,catalogid"`
	Genre  string `json:"genre" validate:"required,max=64,printascii"`
}

// SimilarRequest identifies the target of a similarity query.
type SimilarRequest struct {
	ID    string `json:"id" validate:"required,catalogid"`
	Limit int    `json:"limit" validate:"gte=0"`
}

// queryError reports a malformed query parameter.
type queryError struct {
	param string
	value string
}

func (e *queryError) Error() string {
	return fmt.Sprintf("invalid value %q for query parameter %q", e.value, e.param)
}

// parseIntQuery parses an integer parameter; absent means def.
func parseIntQuery(r *http.Request, key string, def int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, &queryError{param: key, value: raw}
	}
	return v, nil
}

// parseBoolQuery parses a boolean parameter; absent means def.
func parseBoolQuery(r *http.Request, key string, def bool) (bool, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, &queryError{param: key, value: raw}
	}
	return v, nil
}

// parseListRequest reads ?limit.
func parseListRequest(r *http.Request) (ListRequest, error) {
	limit, err := parseIntQuery(r, "limit", 0)
	return ListRequest{Limit: limit}, err
}

// parseSessionListRequest reads ?limit&exclude_viewed&diversify.
func parseSessionListRequest(r *http.Request) (SessionListRequest, error) {
	list, err := parseListRequest(r)
	if err != nil {
		return SessionListRequest{}, err
	}
	exclude, err := parseBoolQuery(r, "exclude_viewed", false)
	if err != nil {
		return SessionListRequest{}, err
	}
	diversify, err := parseBoolQuery(r, "diversify", false)
	if err != nil {
		return SessionListRequest{}, err
	}
	return SessionListRequest{ListRequest: list, ExcludeViewed: exclude, Diversify: diversify}, nil
}

// decodeJSONBody decodes a single JSON object into dst, rejecting unknown
// fields and trailing data.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is empty")
		}
		return fmt.Errorf("malformed request body: %w", err)
	}
	if dec.More() {
		return errors.New("request body must contain a single JSON object")
	}
	return nil
}

// validateRequest runs the shared validator and converts failures to the
// envelope's error shape.
func validateRequest(v interface{}) *APIError {
	verr := validation.ValidateStruct(v)
	if verr == nil {
		return nil
	}
	apiErr := verr.ToAPIError()
	return &APIError{Code: apiErr.Code, Message: apiErr.Message, Details: apiErr.Details}
}

func urlParam(r *http.Request, key string) string {
	return chi.URLParam(r, key)
}
