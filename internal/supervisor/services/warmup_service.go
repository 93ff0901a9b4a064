// GridWatch - Traffic Count Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gridwatch

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/thejerf/suture/v4"
)

// Warmer preloads the dataset. *dashboard.Service implements it.
type Warmer interface {
	Warmup(ctx context.Context) error
}

// DefaultWarmupTimeout bounds a single warmup attempt.
const DefaultWarmupTimeout = 5 * time.Minute

// WarmupService loads the full table and street list once at startup so the
// first overview request is a memo hit. A failed attempt returns its error
// and suture restarts the service after its backoff; a successful one
// returns suture.ErrDoNotRestart and the service leaves the tree.
type WarmupService struct {
	warmer  Warmer
	timeout time.Duration
	logger  zerolog.Logger
	name    string
}

// NewWarmupService creates a warmup service. A non-positive timeout uses
// DefaultWarmupTimeout.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewWarmupService(warmer Warmer, timeout time.Duration, logger zerolog.Logger) *WarmupService {
	if timeout <= 0 {
		timeout = DefaultWarmupTimeout
	}
	return &WarmupService{
		warmer:  warmer,
		timeout: timeout,
		logger:  logger.With().Str("service", "dataset-warmup").Logger(),
		name:    "dataset-warmup",
	}
}

// Serve implements suture.Service.
func (s *WarmupService) Serve(ctx context.Context) error {
	warmCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	s.logger.Info().Msg("preloading dataset")

	if err := s.warmer.Warmup(warmCtx); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.logger.Warn().Err(err).Msg("dataset preload failed, will retry")
		return err
	}

	s.logger.Info().Dur("duration", time.Since(start)).Msg("dataset preloaded")
	return suture.ErrDoNotRestart
}

// String returns the service name for logging.
func (s *WarmupService) String() string {
	return s.name
}
