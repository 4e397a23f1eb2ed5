// Sessionfeed - DJ Session Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sessionfeed

package api

import (
	"errors"
	"net/http"

	"github.com/tomtom215/sessionfeed/internal/catalog"
	"github.com/tomtom215/sessionfeed/internal/logging"
)

// ReloadResult is the body of a successful reload.
type ReloadResult struct {
	Changed bool         `json:"changed"`
	Catalog catalog.Info `json:"catalog"`
}

// CatalogInfo handles GET /api/v1/catalog
func (h *Handler) CatalogInfo(w http.ResponseWriter, r *http.Request) {
	info, err := h.catalog.Info()
	if errors.Is(err, catalog.ErrNotLoaded) {
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Catalog not loaded", nil)
		return
	}
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, ErrCodeCatalog, "Failed to read catalog info", err)
		return
	}
	respondSuccess(w, r, info, &Metadata{CatalogVersion: info.Version})
}

// ReloadCatalog handles POST /api/v1/admin/catalog/reload
//
// 429 when called again within the minimum reload interval. A failed
// reload leaves the previous catalog in place and answers 422.
func (h *Handler) ReloadCatalog(w http.ResponseWriter, r *http.Request) {
	changed, err := h.catalog.Reload(r.Context())
	switch {
	case errors.Is(err, catalog.ErrReloadThrottled):
		respondError(w, r, http.StatusTooManyRequests, ErrCodeTooManyRequests, "Catalog was reloaded recently, try again later", nil)
		return
	case err != nil:
		logging.Ctx(r.Context()).Warn().Err(err).Msg("Manual catalog reload failed")
		respondError(w, r, http.StatusUnprocessableEntity, ErrCodeCatalog, "Catalog reload failed: "+sanitizeLogValue(err.Error()), nil)
		return
	}

	info, err := h.catalog.Info()
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, ErrCodeCatalog, "Failed to read catalog info", err)
		return
	}

	logging.Ctx(r.Context()).Info().Bool("changed", changed).Str("version", info.Version).Msg("Manual catalog reload")
	respondSuccess(w, r, ReloadResult{Changed: changed, Catalog: info}, &Metadata{CatalogVersion: info.Version})
}
