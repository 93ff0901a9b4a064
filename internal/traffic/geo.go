// GridWatch - Traffic Count Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gridwatch

package traffic

import (
	"fmt"
	"html"
	"math"
	"sort"
)

// Point is a WGS84 coordinate.
type Point struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Marker is one map pin with its popup text.
type Marker struct {
	Point
	StreetName string `json:"street_name"`
	Count      int64  `json:"count"`
	Popup      string `json:"popup"`
}

// HeatPoint is one weighted heatmap sample.
type HeatPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Weight    int64   `json:"weight"`
}

// SeriesPoint is one point of the counts-over-time line chart.
type SeriesPoint struct {
	Timestamp  string `json:"timestamp"`
	StreetName string `json:"street_name"`
	Count      int64  `json:"count"`
}

// Bounds is the bounding box of a set of rows.
type Bounds struct {
	Lat Range `json:"lat"`
	Lon Range `json:"lon"`
}

// Center returns the mean coordinate of the rows, used to center the map.
// ok is false for an empty table.
func Center(t Table) (p Point, ok bool) {
	if t.Empty() {
		return Point{}, false
	}
	var lat, lon float64
	for i := range t.rows {
		lat += t.rows[i].Latitude
		lon += t.rows[i].Longitude
	}
	n := float64(len(t.rows))
	return Point{Latitude: lat / n, Longitude: lon / n}, true
}

// BoundsOf returns the min/max latitude and longitude of the rows. It is the
// default bounding box offered for the lat/lon filter. ok is false for an
// empty table.
func BoundsOf(t Table) (b Bounds, ok bool) {
	if t.Empty() {
		return Bounds{}, false
	}
	b = Bounds{
		Lat: Range{Min: math.Inf(1), Max: math.Inf(-1)},
		Lon: Range{Min: math.Inf(1), Max: math.Inf(-1)},
	}
	for i := range t.rows {
		o := t.rows[i]
		b.Lat.Min = math.Min(b.Lat.Min, o.Latitude)
		b.Lat.Max = math.Max(b.Lat.Max, o.Latitude)
		b.Lon.Min = math.Min(b.Lon.Min, o.Longitude)
		b.Lon.Max = math.Max(b.Lon.Max, o.Longitude)
	}
	return b, true
}

// markerPopup renders the popup shown when a marker is clicked.
func markerPopup(street string, count int64) string {
	return fmt.Sprintf("Street: %s<br>Count: %d", html.EscapeString(street), count)
}

// Markers returns one marker per row.
func Markers(t Table) []Marker {
	out := make([]Marker, len(t.rows))
	for i := range t.rows {
		o := t.rows[i]
		out[i] = Marker{
			Point:      Point{Latitude: o.Latitude, Longitude: o.Longitude},
			StreetName: o.StreetName,
			Count:      o.Count,
			Popup:      markerPopup(o.StreetName, o.Count),
		}
	}
	return out
}

// HeatPoints returns one count-weighted sample per row.
func HeatPoints(t Table) []HeatPoint {
	out := make([]HeatPoint, len(t.rows))
	for i := range t.rows {
		out[i] = HeatPoint{
			Latitude:  t.rows[i].Latitude,
			Longitude: t.rows[i].Longitude,
			Weight:    t.rows[i].Count,
		}
	}
	return out
}

// CountSeries returns the (timestamp, count) points in row order.
func CountSeries(t Table) []SeriesPoint {
	out := make([]SeriesPoint, len(t.rows))
	for i := range t.rows {
		out[i] = SeriesPoint{
			Timestamp:  t.rows[i].Timestamp,
			StreetName: t.rows[i].StreetName,
			Count:      t.rows[i].Count,
		}
	}
	return out
}

// DistinctStreets returns the distinct street names, ascending.
func DistinctStreets(t Table) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for i := range t.rows {
		s := t.rows[i].StreetName
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// StreetOptions prepends the AllStreets sentinel to streets.
func StreetOptions(streets []string) []string {
	out := make([]string, 0, len(streets)+1)
	out = append(out, AllStreets)
	return append(out, streets...)
}
