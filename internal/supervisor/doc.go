// GridWatch - Traffic Count Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gridwatch

/*
Package supervisor runs GridWatch's long-lived services under a suture v4
supervisor tree.

# Tree

	gridwatch (root)
	├── data-layer
	│   ├── dataset-warmup   one-shot preload, retried with backoff
	│   └── cache-detailed   TTL sweeper for derived detailed views
	└── api-layer
	    └── http-server      chi router, graceful drain on shutdown

Each layer restarts its own failing children. A service that keeps
failing pushes only its layer into backoff.

# Logging

Supervisor events (restarts, backoff, timeouts) go through
thejerf/sutureslog into a log/slog logger. cmd/server passes
logging.NewSlogLogger so they land in the zerolog output.

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddDataService(services.NewWarmupService(svc, 0, logging.Logger()))
	tree.AddDataService(viewCache)
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second, logging.Logger()))

	return tree.Serve(ctx)
*/
package supervisor
