// GridWatch - Traffic Count Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gridwatch

/*
Package metrics provides Prometheus metrics collection and export for observability.

All collectors are registered with the default registry through promauto at
package initialization, so callers only record values.

# Overview

The package provides metrics for:
  - Row store query performance per backend
  - Dataset loads (duration, rows, unparseable timestamps, memo state)
  - Dashboard requests by mode and result state
  - HTTP request latency and throughput
  - Circuit breaker state transitions
  - Cache hit/miss rates

# Metrics Endpoint

Metrics are exposed at the /metrics endpoint in Prometheus text format:

	curl http://localhost:8501/metrics

# Example Queries

Slow dataset loads:

	histogram_quantile(0.95, rate(gridwatch_dataset_load_duration_seconds_bucket[5m]))

Share of detailed queries returning no data:

	sum(rate(gridwatch_dashboard_requests_total{state="empty"}[5m]))
	  / sum(rate(gridwatch_dashboard_requests_total{mode="detailed"}[5m]))
*/
package metrics
