// GridWatch - Traffic Count Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gridwatch

/*
Package cache provides the TTL cache used for derived dashboard views.

The full-table memo lives in the store package; this cache only holds
results derived from it, such as rendered detailed views keyed by filter.
Both are cleared together when the user reloads the dataset.

Keys are built with GenerateKey, which hashes the JSON encoding of the
parameters:

	key := cache.GenerateKey("detailed", filter)

Hits, misses, evictions and size are exported as Prometheus metrics labeled
with the cache name.
*/
package cache
