// Sessionfeed - DJ Session Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sessionfeed

package api

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/tomtom215/sessionfeed/internal/logging"
	"github.com/tomtom215/sessionfeed/internal/profile"
	"github.com/tomtom215/sessionfeed/internal/recommend"
)

// FavoriteDJResult is returned by the toggle endpoint.
type FavoriteDJResult struct {
	DJID     string                `json:"dj_id"`
	Favorite bool                  `json:"favorite"`
	Profile  recommend.UserProfile `json:"profile"`
}

// GetProfile handles GET /api/v1/users/{userID}/profile
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	_, p, ok := h.loadProfile(w, r)
	if !ok {
		return
	}
	respondSuccess(w, r, p, nil)
}

// DeleteProfile handles DELETE /api/v1/users/{userID}/profile
func (h *Handler) DeleteProfile(w http.ResponseWriter, r *http.Request) {
	req := UserRequest{UserID: urlParam(r, "userID")}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, r, http.StatusBadRequest, apiErr)
		return
	}

	if err := h.profiles.Delete(r.Context(), req.UserID); err != nil {
		respondProfileError(w, r, err)
		return
	}
	logging.Ctx(r.Context()).Info().Str("user_id", req.UserID).Msg("Profile deleted")
	w.WriteHeader(http.StatusNoContent)
}

// TrackView handles POST /api/v1/users/{userID}/views
//
// Body: {"session_id": "..."}. The session must exist in the current catalog.
func (h *Handler) TrackView(w http.ResponseWriter, r *http.Request) {
	user := UserRequest{UserID: urlParam(r, "userID")}
	if apiErr := validateRequest(&user); apiErr != nil {
		respondAPIError(w, r, http.StatusBadRequest, apiErr)
		return
	}

	var req ViewRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, err.Error(), nil)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, r, http.StatusBadRequest, apiErr)
		return
	}

	if !findSession(h.catalog.Catalog(), req.SessionID) {
		respondError(w, r, http.StatusNotFound, ErrCodeNotFound, "Session not found", nil)
		return
	}

	updated, err := h.profiles.Update(r.Context(), user.UserID, func(p recommend.UserProfile) recommend.UserProfile {
		return profile.TrackSessionView(p, req.SessionID)
	})
	if err != nil {
		respondProfileError(w, r, err)
		return
	}

	logging.Ctx(r.Context()).Debug().
		Str("user_id", user.UserID).
		Str("session_id", req.SessionID).
		Int("history", len(updated.ViewedSessions)).
		Msg("Session view tracked")
	respondSuccess(w, r, updated, nil)
}

// ToggleFavoriteDJ handles POST /api/v1/users/{userID}/favorite-djs/{djID}/toggle
func (h *Handler) ToggleFavoriteDJ(w http.ResponseWriter, r *http.Request) {
	req := FavoriteDJRequest{UserID: urlParam(r, "userID"), DJID: urlParam(r, "djID")}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, r, http.StatusBadRequest, apiErr)
		return
	}

	// Removing a DJ that has since left the catalog is still allowed.
	var favorite, unknown bool
	updated, err := h.profiles.Update(r.Context(), req.UserID, func(p recommend.UserProfile) recommend.UserProfile {
		next, fav := profile.ToggleFavoriteDJ(p, req.DJID)
		unknown = fav && !findDJ(h.catalog.Catalog(), req.DJID)
		if unknown {
			return p
		}
		favorite = fav
		return next
	})
	if err != nil {
		respondProfileError(w, r, err)
		return
	}
	if unknown {
		respondError(w, r, http.StatusNotFound, ErrCodeNotFound, "DJ not found", nil)
		return
	}

	respondSuccess(w, r, FavoriteDJResult{DJID: req.DJID, Favorite: favorite, Profile: updated}, nil)
}

// AddFavoriteGenre handles PUT /api/v1/users/{userID}/favorite-genres/{genre}
func (h *Handler) AddFavoriteGenre(w http.ResponseWriter, r *http.Request) {
	h.updateGenre(w, r, profile.AddFavoriteGenre)
}

// RemoveFavoriteGenre handles DELETE /api/v1/users/{userID}/favorite-genres/{genre}
func (h *Handler) RemoveFavoriteGenre(w http.ResponseWriter, r *http.Request) {
	h.updateGenre(w, r, profile.RemoveFavoriteGenre)
}

func (h *Handler) updateGenre(w http.ResponseWriter, r *http.Request, apply func(recommend.UserProfile, recommend.Genre) recommend.UserProfile) {
	genre, err := url.PathUnescape(urlParam(r, "genre"))
	if err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "Malformed genre", nil)
		return
	}
	req := FavoriteGenreRequest{
		UserID: urlParam(r, "userID"),
		Genre:  strings.TrimSpace(genre),
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, r, http.StatusBadRequest, apiErr)
		return
	}

	updated, err := h.profiles.Update(r.Context(), req.UserID, func(p recommend.UserProfile) recommend.UserProfile {
		return apply(p, recommend.Genre(req.Genre))
	})
	if err != nil {
		respondProfileError(w, r, err)
		return
	}
	respondSuccess(w, r, updated, nil)
}
