// Sessionfeed - DJ Session Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sessionfeed

package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/tomtom215/sessionfeed/internal/catalog"
	"github.com/tomtom215/sessionfeed/internal/profile"
	"github.com/tomtom215/sessionfeed/internal/recommend"
)

// CatalogSource publishes catalog snapshots. *catalog.Store implements it.
type CatalogSource interface {
	Catalog() *recommend.Catalog
	Info() (catalog.Info, error)
	Reload(ctx context.Context) (bool, error)
}

// Handler serves the HTTP API.
type Handler struct {
	engine    *recommend.Engine
	catalog   CatalogSource
	profiles  profile.Store
	version   string
	startTime time.Time
}

// NewHandler creates a handler. version is reported by the health endpoint.
func NewHandler(engine *recommend.Engine, catalog CatalogSource, profiles profile.Store, version string) *Handler {
	return &Handler{
		engine:    engine,
		catalog:   catalog,
		profiles:  profiles,
		version:   version,
		startTime: time.Now(),
	}
}

// respondProfileError maps profile store failures to HTTP.
func respondProfileError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, profile.ErrUnavailable):
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Profile store temporarily unavailable", err)
	case errors.Is(err, profile.ErrConflict):
		respondError(w, r, http.StatusConflict, ErrCodeConflict, "Profile is being updated concurrently, retry", err)
	case errors.Is(err, context.Canceled):
		// Client went away; nothing useful to send.
		return
	default:
		respondError(w, r, http.StatusInternalServerError, ErrCodeProfile, "Failed to access profile", err)
	}
}

// loadProfile validates the user in the path and reads their profile.
// It writes the error response and returns false on failure.
func (h *Handler) loadProfile(w http.ResponseWriter, r *http.Request) (string, *recommend.UserProfile, bool) {
	req := UserRequest{UserID: urlParam(r, "userID")}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, r, http.StatusBadRequest, apiErr)
		return "", nil, false
	}

	p, err := h.profiles.Get(r.Context(), req.UserID)
	if err != nil {
		respondProfileError(w, r, err)
		return "", nil, false
	}
	return req.UserID, &p, true
}

func findSession(c *recommend.Catalog, id string) bool {
	for i := range c.Sessions {
		if c.Sessions[i].ID == id {
			return true
		}
	}
	return false
}

func findDJ(c *recommend.Catalog, id string) bool {
	for i := range c.DJs {
		if c.DJs[i].ID == id {
			return true
		}
	}
	return false
}
