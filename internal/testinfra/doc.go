// GridWatch - Traffic Count Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gridwatch

// Package testinfra provides test infrastructure for integration testing with containers.
//
// This package uses testcontainers-go to manage Docker containers for integration tests,
// providing realistic testing environments that closely match production.
//
// # PostgreSQL Container
//
// PostgresContainer starts a disposable PostgreSQL server for the pgstore
// row store backend:
//
//	func TestPostgresRowStore(t *testing.T) {
//	    testinfra.SkipIfNoDocker(t)
//	    ctx := context.Background()
//	    pg, err := testinfra.NewPostgresContainer(ctx)
//	    if err != nil {
//	        t.Fatal(err)
//	    }
//	    defer testinfra.CleanupContainer(t, ctx, pg)
//	    // connect with pg.DSN
//	}
//
// # CI Considerations
//
// These tests require Docker and network access and only build with the
// integration tag:
//
//	go test -tags integration ./internal/pgstore/...
//
// Tests are skipped gracefully if Docker is unavailable.
package testinfra
