// GridWatch - Traffic Count Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gridwatch

package validation

import (
	"github.com/tomtom215/gridwatch/internal/traffic"
)

// DetailedQueryRequest is the body of POST /api/v1/detailed.
//
// A start_time later than end_time is accepted; it selects no rows.
// Each bounding box axis is optional but needs both bounds.
type DetailedQueryRequest struct {
	Street    string   `json:"street" validate:"max=256"`
	StartTime string   `json:"start_time" validate:"required,timeofday"`
	EndTime   string   `json:"end_time" validate:"required,timeofday"`
	LatMin    *float64 `json:"lat_min,omitempty" validate:"required_with=LatMax,omitempty,latitude"`
	LatMax    *float64 `json:"lat_max,omitempty" validate:"required_with=LatMin,omitempty,latitude"`
	LonMin    *float64 `json:"lon_min,omitempty" validate:"required_with=LonMax,omitempty,longitude"`
	LonMax    *float64 `json:"lon_max,omitempty" validate:"required_with=LonMin,omitempty,longitude"`
}

// Validate runs the struct rules.
func (r *DetailedQueryRequest) Validate() *RequestValidationError {
	return ValidateStruct(r)
}

// Filter converts a validated request into a traffic.Filter. It must only be
// called after Validate succeeds.
func (r *DetailedQueryRequest) Filter() traffic.Filter {
	f := traffic.Filter{
		Street: r.Street,
		Time: &traffic.TimeRange{
			Start: traffic.MustParseTimeOfDay(r.StartTime),
			End:   traffic.MustParseTimeOfDay(r.EndTime),
		},
	}
	if r.LatMin != nil && r.LatMax != nil {
		f.Lat = &traffic.Range{Min: *r.LatMin, Max: *r.LatMax}
	}
	if r.LonMin != nil && r.LonMax != nil {
		f.Lon = &traffic.Range{Min: *r.LonMin, Max: *r.LonMax}
	}
	return f
}

// RequestFromFilter is the inverse of Filter, used to echo a stored query.
func RequestFromFilter(f traffic.Filter) DetailedQueryRequest {
	r := DetailedQueryRequest{Street: f.Street}
	if f.Time != nil {
		r.StartTime = f.Time.Start.String()
		r.EndTime = f.Time.End.String()
	}
	if f.Lat != nil {
		lo, hi := f.Lat.Min, f.Lat.Max
		r.LatMin, r.LatMax = &lo, &hi
	}
	if f.Lon != nil {
		lo, hi := f.Lon.Min, f.Lon.Max
		r.LonMin, r.LonMax = &lo, &hi
	}
	return r
}
