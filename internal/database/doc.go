// GridWatch - Traffic Count Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gridwatch

/*
Package database is the DuckDB row store backend.

DB implements store.Source over vehicle_counts_with_streets. Statements come
from the query subpackage and use "?" placeholders bound by the driver; no
user value is ever formatted into SQL text.

Production databases are opened read-only. With database.seed_mock_data the
database is opened read-write, the table is created if missing and, when
empty, filled with synthetic hourly counts (street names from jaswdr/faker,
sensor locations scattered around a configured center).

	db, err := database.New(&cfg.Database)
	if err != nil {
	    return err
	}
	defer db.Close()
	acc := store.NewAccessor(db, store.Options{})
*/
package database
