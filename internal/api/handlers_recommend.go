// Sessionfeed - DJ Session Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sessionfeed

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/sessionfeed/internal/recommend"
)

// RecommendedSessions handles GET /api/v1/users/{userID}/recommendations/sessions
//
// Query: limit, exclude_viewed, diversify. Users with no history get the
// trending list.
func (h *Handler) RecommendedSessions(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	req, err := parseSessionListRequest(r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, err.Error(), nil)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, r, http.StatusBadRequest, apiErr)
		return
	}

	_, p, ok := h.loadProfile(w, r)
	if !ok {
		return
	}

	c := h.catalog.Catalog()
	sessions := h.engine.RecommendedSessions(r.Context(), c, p, recommend.SessionOptions{
		Limit:         req.Limit,
		ExcludeViewed: req.ExcludeViewed,
		Diversify:     req.Diversify,
	})
	respondSuccess(w, r, sessions, listMeta(len(sessions), start, c.Version))
}

// TopSessions handles GET /api/v1/users/{userID}/recommendations/sessions/scored
//
// Returns scored candidates with their reasons.
func (h *Handler) TopSessions(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	req, err := parseListRequest(r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, err.Error(), nil)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, r, http.StatusBadRequest, apiErr)
		return
	}

	_, p, ok := h.loadProfile(w, r)
	if !ok {
		return
	}

	c := h.catalog.Catalog()
	scored := h.engine.TopSessionRecommendations(r.Context(), c, p, req.Limit)
	respondSuccess(w, r, scored, listMeta(len(scored), start, c.Version))
}

// RecommendedDJs handles GET /api/v1/users/{userID}/recommendations/djs
func (h *Handler) RecommendedDJs(w http.ResponseWriter, r *http.Request) {
	h.userDJList(w, r, func(c *recommend.Catalog, p *recommend.UserProfile, limit int) interface{} {
		return h.engine.RecommendedDJs(r.Context(), c, p, limit)
	})
}

// TopDJs handles GET /api/v1/users/{userID}/recommendations/djs/scored
func (h *Handler) TopDJs(w http.ResponseWriter, r *http.Request) {
	h.userDJList(w, r, func(c *recommend.Catalog, p *recommend.UserProfile, limit int) interface{} {
		return h.engine.TopDJRecommendations(r.Context(), c, p, limit)
	})
}

func (h *Handler) userDJList(w http.ResponseWriter, r *http.Request, list func(*recommend.Catalog, *recommend.UserProfile, int) interface{}) {
	start := time.Now()

	req, err := parseListRequest(r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, err.Error(), nil)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, r, http.StatusBadRequest, apiErr)
		return
	}

	_, p, ok := h.loadProfile(w, r)
	if !ok {
		return
	}

	c := h.catalog.Catalog()
	var n int
	data := list(c, p, req.Limit)
	switch v := data.(type) {
	case []recommend.DJ:
		n = len(v)
	case []recommend.ScoredDJ:
		n = len(v)
	}
	respondSuccess(w, r, data, listMeta(n, start, c.Version))
}

// ContinueWatching handles GET /api/v1/users/{userID}/continue-watching
func (h *Handler) ContinueWatching(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	req, err := parseListRequest(r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, err.Error(), nil)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, r, http.StatusBadRequest, apiErr)
		return
	}

	_, p, ok := h.loadProfile(w, r)
	if !ok {
		return
	}

	c := h.catalog.Catalog()
	sessions := h.engine.ContinueWatching(p, c, req.Limit)
	respondSuccess(w, r, sessions, listMeta(len(sessions), start, c.Version))
}

// FavoriteGenreSessions handles GET /api/v1/users/{userID}/favorite-genres/sessions
func (h *Handler) FavoriteGenreSessions(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	req, err := parseListRequest(r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, err.Error(), nil)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, r, http.StatusBadRequest, apiErr)
		return
	}

	_, p, ok := h.loadProfile(w, r)
	if !ok {
		return
	}

	c := h.catalog.Catalog()
	sessions := h.engine.SessionsByFavoriteGenres(c, p, req.Limit)
	respondSuccess(w, r, sessions, listMeta(len(sessions), start, c.Version))
}

// TrendingSessions handles GET /api/v1/sessions/trending
//
// Without a limit the full catalog is returned, most viewed first.
func (h *Handler) TrendingSessions(w http.ResponseWriter, r *http.Request) {
	h.catalogList(w, r, h.engine.TrendingSessions)
}

// NewReleases handles GET /api/v1/sessions/new
func (h *Handler) NewReleases(w http.ResponseWriter, r *http.Request) {
	h.catalogList(w, r, h.engine.NewReleases)
}

func (h *Handler) catalogList(w http.ResponseWriter, r *http.Request, list func(*recommend.Catalog) []recommend.Session) {
	start := time.Now()

	req, err := parseListRequest(r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, err.Error(), nil)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, r, http.StatusBadRequest, apiErr)
		return
	}

	c := h.catalog.Catalog()
	sessions := list(c)
	if req.Limit > 0 && req.Limit < len(sessions) {
		sessions = sessions[:req.Limit]
	}
	respondSuccess(w, r, sessions, listMeta(len(sessions), start, c.Version))
}

// SimilarSessions handles GET /api/v1/sessions/{sessionID}/similar
func (h *Handler) SimilarSessions(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	req, ok := parseSimilarRequest(w, r, "sessionID")
	if !ok {
		return
	}

	c := h.catalog.Catalog()
	if !findSession(c, req.ID) {
		respondError(w, r, http.StatusNotFound, ErrCodeNotFound, "Session not found", nil)
		return
	}
	sessions := h.engine.SimilarSessions(req.ID, c, req.Limit)
	respondSuccess(w, r, sessions, listMeta(len(sessions), start, c.Version))
}

// SimilarDJs handles GET /api/v1/djs/{djID}/similar
func (h *Handler) SimilarDJs(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	req, ok := parseSimilarRequest(w, r, "djID")
	if !ok {
		return
	}

	c := h.catalog.Catalog()
	if !findDJ(c, req.ID) {
		respondError(w, r, http.StatusNotFound, ErrCodeNotFound, "DJ not found", nil)
		return
	}
	djs := h.engine.SimilarDJs(req.ID, c, req.Limit)
	respondSuccess(w, r, djs, listMeta(len(djs), start, c.Version))
}

func parseSimilarRequest(w http.ResponseWriter, r *http.Request, param string) (SimilarRequest, bool) {
	limit, err := parseIntQuery(r, "limit", 0)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, err.Error(), nil)
		return SimilarRequest{}, false
	}
	req := SimilarRequest{ID: urlParam(r, param), Limit: limit}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, r, http.StatusBadRequest, apiErr)
		return SimilarRequest{}, false
	}
	return req, true
}
