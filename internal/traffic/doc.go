// GridWatch - Traffic Count Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gridwatch

// Package traffic holds the pure query/aggregation pipeline behind the
// GridWatch dashboard.
//
// A load from the row store produces a Table of Observations. Every stage in
// this package consumes a Table and returns a new one (or a small view
// derived from it) without mutating its input:
//
//	raw := traffic.NewTable(rows)
//	decomposed := traffic.Decompose(raw)
//	filtered := traffic.Apply(decomposed, traffic.Filter{
//	    Street: "Main St",
//	    Time:   &traffic.TimeRange{Start: start, End: end},
//	})
//	views := traffic.ComputeViews(filtered, 10)
//
// # Time Decomposition
//
// Decompose derives time-of-day, date, hour and ISO weekday (0 = Monday) from
// the raw timestamp text. Rows whose timestamp cannot be parsed keep null
// derived fields and stay in the table.
//
// # Filter Pipeline
//
// Filter stages (street equality, inclusive time-of-day range, inclusive
// latitude/longitude bounding box) are independent predicates combined with
// AND. A time range whose start is after its end matches nothing: ranges never
// wrap past midnight.
//
// # Aggregation Views
//
// TopStreets, HourlyMeans, TopStreetHourlyMeans and StreetDistribution are the
// four chart views. Top-N ties are broken by street name ascending so results
// are deterministic across loads.
//
// An empty Table is a valid result at every stage and is not an error.
package traffic
