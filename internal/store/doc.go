// GridWatch - Traffic Count Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gridwatch

/*
Package store is the read path between the dashboard and the row store.

An Accessor wraps a Source (DuckDB or PostgreSQL) and adds:

  - memoization of the decomposed full table and the street list, keyed by
    store identity and query text, dropped only by Invalidate
  - a sony/gobreaker circuit breaker so an unreachable store fails fast
  - a default per-query deadline when the caller has none
  - load timing through an injectable clockwork.Clock

Every failure is returned as a *DataAccessError. Callers surface it; nothing
here retries. IsUnavailable distinguishes breaker rejections (HTTP 503) from
store failures (HTTP 500).

	acc := store.NewAccessor(src, store.Options{})
	all, err := acc.LoadAll(ctx)
	if err != nil {
	    return err
	}
	views := traffic.ComputeViews(all, 10)
*/
package store
