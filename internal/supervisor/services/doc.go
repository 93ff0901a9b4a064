// GridWatch - Traffic Count Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gridwatch

/*
Package services provides suture.Service wrappers for GridWatch components.

Each wrapper implements suture's context-aware lifecycle:

	type Service interface {
	    Serve(ctx context.Context) error
	}

HTTPServerService runs the API server and drains in-flight requests on
shutdown within a configurable timeout.

WarmupService preloads the memoized dataset at startup. Failures are
returned so the supervisor retries with backoff; success returns
suture.ErrDoNotRestart.

The detailed view cache (*cache.Cache) implements suture.Service itself
and needs no wrapper.
*/
package services
