// GridWatch - Traffic Count Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gridwatch

/*
Package config loads and validates GridWatch configuration.

Sources are layered, lowest priority first:

 1. Built-in defaults (defaultConfig)
 2. A YAML file: CONFIG_PATH, ./config.yaml, or /etc/gridwatch/config.yaml
 3. Environment variables, after an optional .env file (DOTENV_PATH,
    default ./.env) has been exported without overriding variables that
    are already set

Only environment variables listed in the mapping table are read. Common ones:

	DATABASE_BACKEND     duckdb | postgres           (default duckdb)
	DUCKDB_PATH          DuckDB file                 (default /data/gridwatch.duckdb)
	POSTGRES_DSN         PostgreSQL connection string
	SEED_MOCK_DATA       generate counts into an empty table
	HTTP_PORT            listen port                 (default 3857)
	TOP_N                ranked view size            (default 10)
	PUSHDOWN_FILTERS     filter in SQL instead of in memory
	STATE_STORE          memory | badger             (default memory)
	CORS_ORIGINS         comma-separated origins
	LOG_LEVEL            trace | debug | info | warn | error

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}
*/
package config
