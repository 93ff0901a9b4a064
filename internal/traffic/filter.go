// GridWatch - Traffic Count Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gridwatch

package traffic

// AllStreets is the street selection that disables street filtering.
const AllStreets = "All"

// Range is an inclusive numeric interval.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains reports whether Min <= v <= Max.
func (r Range) Contains(v float64) bool {
	return r.Min <= v && v <= r.Max
}

// TimeRange is an inclusive time-of-day interval. It never wraps past
// midnight: a range with Start after End matches nothing.
type TimeRange struct {
	Start TimeOfDay `json:"start"`
	End   TimeOfDay `json:"end"`
}

// Inverted reports whether Start is after End.
func (r TimeRange) Inverted() bool {
	return r.Start > r.End
}

// Contains reports whether Start <= t <= End.
func (r TimeRange) Contains(t TimeOfDay) bool {
	return r.Start <= t && t <= r.End
}

// Filter is the set of detailed-analysis predicates. Nil or empty members
// are inactive. Active stages are combined with AND.
type Filter struct {
	// Street is an exact, case-sensitive match. "" and AllStreets disable it.
	Street string     `json:"street,omitempty"`
	Time   *TimeRange `json:"time,omitempty"`
	Lat    *Range     `json:"lat,omitempty"`
	Lon    *Range     `json:"lon,omitempty"`
}

// Predicate is a single filter stage.
type Predicate func(Observation) bool

// StreetActive reports whether the street stage filters anything.
func (f Filter) StreetActive() bool {
	return f.Street != "" && f.Street != AllStreets
}

// Stages returns the active predicates. Each stage reads a different column,
// so they may be applied in any order.
func (f Filter) Stages() []Predicate {
	var stages []Predicate
	if f.StreetActive() {
		stages = append(stages, ByStreet(f.Street))
	}
	if f.Time != nil {
		stages = append(stages, ByTimeOfDay(*f.Time))
	}
	if f.Lat != nil {
		stages = append(stages, ByLatitude(*f.Lat))
	}
	if f.Lon != nil {
		stages = append(stages, ByLongitude(*f.Lon))
	}
	return stages
}

// ByStreet matches rows whose street name equals street exactly.
func ByStreet(street string) Predicate {
	return func(o Observation) bool {
		return o.StreetName == street
	}
}

// ByTimeOfDay matches rows whose derived time lies in r. Rows without a
// derived time never match.
func ByTimeOfDay(r TimeRange) Predicate {
	if r.Inverted() {
		return func(Observation) bool { return false }
	}
	return func(o Observation) bool {
		return o.Time != nil && r.Contains(*o.Time)
	}
}

// ByLatitude matches rows whose latitude lies in r.
func ByLatitude(r Range) Predicate {
	return func(o Observation) bool {
		return r.Contains(o.Latitude)
	}
}

// ByLongitude matches rows whose longitude lies in r.
func ByLongitude(r Range) Predicate {
	return func(o Observation) bool {
		return r.Contains(o.Longitude)
	}
}

// Apply runs the filter over t. The result is a subset of t's rows in their
// original order; it may be empty.
func Apply(t Table, f Filter) Table {
	return t.Where(f.Stages()...)
}
