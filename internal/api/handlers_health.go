// Sessionfeed - DJ Session Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sessionfeed

package api

import (
	"context"
	"net/http"
	"time"
)

// HealthStatus is the body of GET /api/v1/health.
type HealthStatus struct {
	Status         string   `json:"status"`
	Version        string   `json:"version"`
	CatalogLoaded  bool     `json:"catalog_loaded"`
	CatalogVersion string   `json:"catalog_version,omitempty"`
	ProfileStoreOK bool     `json:"profile_store_ok"`
	Rerankers      []string `json:"rerankers"`
	Uptime         float64  `json:"uptime_seconds"`
}

// healthCheckTimeout bounds the profile store ping.
const healthCheckTimeout = 2 * time.Second

// Health handles GET /api/v1/health
//
// Always 200; Status is "degraded" when the catalog is not loaded or the
// profile store does not answer.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, r, h.healthStatus(r.Context()), nil)
}

// HealthLive handles GET /api/v1/health/live
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, r, map[string]interface{}{
		"alive":  true,
		"uptime": time.Since(h.startTime).Seconds(),
	}, nil)
}

// HealthReady handles GET /api/v1/health/ready
//
// 503 until the catalog is loaded and the profile store answers.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	status := h.healthStatus(r.Context())
	if status.Status != "healthy" {
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Service not ready", nil)
		return
	}
	respondSuccess(w, r, status, nil)
}

func (h *Handler) healthStatus(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    "healthy",
		Version:   h.version,
		Rerankers: h.engine.Rerankers(),
		Uptime:    time.Since(h.startTime).Seconds(),
	}

	if info, err := h.catalog.Info(); err == nil {
		status.CatalogLoaded = true
		status.CatalogVersion = info.Version
	} else {
		status.Status = "degraded"
	}

	pingCtx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()
	status.ProfileStoreOK = h.profiles.Ping(pingCtx) == nil
	if !status.ProfileStoreOK {
		status.Status = "degraded"
	}
	return status
}
