// GridWatch - Traffic Count Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gridwatch

// Package logging provides centralized zerolog-based structured logging for GridWatch.
//
// # Quick Start
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//
//	logging.Info().Int("rows", n).Msg("Dataset loaded")
//	logging.Error().Err(err).Msg("Row store query failed")
//	logging.Ctx(ctx).Info().Str("street", s).Msg("Detailed query submitted")
//
// # Configuration
//
// Level and format come from the logging section of the service config
// (LOG_LEVEL, LOG_FORMAT, LOG_CALLER). JSON is the default; "console" gives
// human-readable output for local development.
//
// # Context
//
// Ctx attaches the request_id and correlation_id stored in the context by the
// HTTP middleware. Sanitize strips control characters from user-supplied
// values before they are logged.
//
// # slog Bridge
//
// NewSlogLogger exposes the zerolog stream as a *slog.Logger for libraries that
// require one, namely the suture supervisor tree via sutureslog.
//
// Always terminate log chains with .Msg() or .Send(); an unterminated event is
// never written.
package logging
