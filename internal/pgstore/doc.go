// GridWatch - Traffic Count Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gridwatch

// Package pgstore is the PostgreSQL row store backend, built on sqlx and
// lib/pq. Statements from the query package use "?" placeholders and are
// rebound to "$n" before execution.
//
// Select it with DATABASE_BACKEND=postgres and POSTGRES_DSN. Integration
// tests start a real server with testcontainers:
//
//	go test -tags integration ./internal/pgstore/...
package pgstore
