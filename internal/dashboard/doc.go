// GridWatch - Traffic Count Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gridwatch

// Package dashboard builds the two GridWatch pages.
//
// The General Overview loads the full table once through the memoized
// accessor and computes the Top-N streets, hourly means, Top-N hourly series,
// per-street distributions and the marker map. The Detailed Analysis page
// runs the last submitted filter (street, time of day, optional bounding box)
// and returns the filtered rows with their time series and heatmap points.
//
// A view with no rows is reported with state "empty", not as an error. Row
// store failures are returned unchanged as *store.DataAccessError.
package dashboard
