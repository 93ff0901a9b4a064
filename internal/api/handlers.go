// GridWatch - Traffic Count Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gridwatch

package api

import (
	"context"
	"time"

	"github.com/tomtom215/gridwatch/internal/dashboard"
)

// StoreStatus reports row store health. *store.Accessor implements it.
type StoreStatus interface {
	Ping(ctx context.Context) error
	BreakerState() string
	Loaded() bool
}

// Handler handles all HTTP API requests.
type Handler struct {
	svc       *dashboard.Service
	status    StoreStatus
	backend   string
	version   string
	startTime time.Time
}

// NewHandler creates a new API handler.
func NewHandler(svc *dashboard.Service, status StoreStatus, backend, version string) *Handler {
	return &Handler{
		svc:       svc,
		status:    status,
		backend:   backend,
		version:   version,
		startTime: time.Now(),
	}
}
