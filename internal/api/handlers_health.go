// GridWatch - Traffic Count Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gridwatch

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/gridwatch/internal/models"
)

const healthPingTimeout = 2 * time.Second

// Health reports store connectivity, dataset state and uptime. It always
// answers 200 so dashboards can show a degraded state.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthPingTimeout)
	defer cancel()

	storeOK := h.status.Ping(ctx) == nil
	health := models.HealthStatus{
		Status:        "healthy",
		Version:       h.version,
		Backend:       h.backend,
		StoreOK:       storeOK,
		DatasetLoaded: h.status.Loaded(),
		Breaker:       h.status.BreakerState(),
		Uptime:        time.Since(h.startTime).Seconds(),
		Timestamp:     time.Now().UTC(),
	}
	if !storeOK {
		health.Status = "degraded"
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status:   models.StatusSuccess,
		Data:     health,
		Metadata: models.Metadata{Timestamp: time.Now().UTC()},
	})
}

// HealthLive is the Kubernetes liveness probe. The process answering is
// enough.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: models.StatusSuccess,
		Data: map[string]interface{}{
			"alive": true,
		},
		Metadata: models.Metadata{Timestamp: time.Now().UTC()},
	})
}

// HealthReady is the Kubernetes readiness probe: 503 until the store
// answers a ping.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthPingTimeout)
	defer cancel()

	if err := h.status.Ping(ctx); err != nil {
		respondJSON(w, http.StatusServiceUnavailable, &models.APIResponse{
			Status: models.StatusError,
			Data: map[string]interface{}{
				"ready":           false,
				"circuit_breaker": h.status.BreakerState(),
			},
			Metadata: models.Metadata{Timestamp: time.Now().UTC()},
			Error: &models.APIError{
				Code:    "not_ready",
				Message: "Row store is not reachable",
			},
		})
		return
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: models.StatusSuccess,
		Data: map[string]interface{}{
			"ready":          true,
			"dataset_loaded": h.status.Loaded(),
		},
		Metadata: models.Metadata{Timestamp: time.Now().UTC()},
	})
}
