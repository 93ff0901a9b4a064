// GridWatch - Traffic Count Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gridwatch

package traffic

import (
	"github.com/goccy/go-json"
)

// Observation is one row of vehicle_counts_with_streets plus the fields
// derived from its timestamp. Derived fields are nil until Decompose runs, and
// stay nil when the timestamp cannot be parsed.
//
// Coordinates are not range checked; malformed rows pass through untouched.
type Observation struct {
	Timestamp  string  `json:"timestamp" db:"timestamp"`
	StreetName string  `json:"street_name" db:"street_name"`
	Latitude   float64 `json:"latitude" db:"latitude"`
	Longitude  float64 `json:"longitude" db:"longitude"`
	Count      int64   `json:"count" db:"count"`

	Time    *TimeOfDay `json:"time" db:"-"`
	Date    *string    `json:"date" db:"-"`
	Hour    *int       `json:"hour" db:"-"`
	Weekday *int       `json:"weekday" db:"-"`
}

// Decomposed reports whether the derived time fields are populated.
func (o Observation) Decomposed() bool {
	return o.Time != nil
}

// Table is an ordered, immutable sequence of Observations.
// The zero value is an empty table.
type Table struct {
	rows []Observation
}

// NewTable copies rows into a new Table.
func NewTable(rows []Observation) Table {
	if len(rows) == 0 {
		return Table{}
	}
	cp := make([]Observation, len(rows))
	copy(cp, rows)
	return Table{rows: cp}
}

// Len returns the number of rows.
func (t Table) Len() int {
	return len(t.rows)
}

// Empty reports whether the table has no rows. An empty table is the
// "no data" state, not an error.
func (t Table) Empty() bool {
	return len(t.rows) == 0
}

// Row returns the i-th row.
func (t Table) Row(i int) Observation {
	return t.rows[i]
}

// Rows returns a copy of the rows.
func (t Table) Rows() []Observation {
	cp := make([]Observation, len(t.rows))
	copy(cp, t.rows)
	return cp
}

// TotalCount sums the count column.
func (t Table) TotalCount() int64 {
	var total int64
	for i := range t.rows {
		total += t.rows[i].Count
	}
	return total
}

// Where returns the rows for which every predicate holds, preserving order.
func (t Table) Where(preds ...Predicate) Table {
	out := make([]Observation, 0, len(t.rows))
rows:
	for i := range t.rows {
		for _, p := range preds {
			if !p(t.rows[i]) {
				continue rows
			}
		}
		out = append(out, t.rows[i])
	}
	if len(out) == 0 {
		return Table{}
	}
	return Table{rows: out}
}

// MarshalJSON encodes the table as a JSON array of rows. An empty table
// encodes as [] rather than null.
func (t Table) MarshalJSON() ([]byte, error) {
	if len(t.rows) == 0 {
		return []byte("[]"), nil
	}
	return json.Marshal(t.rows)
}

// UnmarshalJSON decodes a JSON array of rows.
func (t *Table) UnmarshalJSON(b []byte) error {
	var rows []Observation
	if err := json.Unmarshal(b, &rows); err != nil {
		return err
	}
	*t = Table{rows: rows}
	return nil
}
