// GridWatch - Traffic Count Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gridwatch

package traffic

import (
	"strings"
	"time"
)

// DateLayout is the format of the derived date field.
const DateLayout = "2006-01-02"

// timestampLayouts are tried in order. Fractional seconds are accepted by
// time.Parse after a seconds field even when the layout omits them.
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339Nano,
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05-07",
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	DateLayout,
}

// ParseTimestamp parses a raw timestamp as stored in the row store.
// The wall clock of the stored value is kept; no zone conversion happens.
func ParseTimestamp(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ISOWeekday maps time.Weekday to 0 = Monday ... 6 = Sunday.
func ISOWeekday(d time.Weekday) int {
	return (int(d) + 6) % 7
}

// DecomposeObservation returns o with time, date, hour and weekday derived
// from its timestamp. Derived fields are recomputed from the raw timestamp
// only, so applying it twice yields identical values.
func DecomposeObservation(o Observation) Observation {
	o.Time, o.Date, o.Hour, o.Weekday = nil, nil, nil, nil

	ts, ok := ParseTimestamp(o.Timestamp)
	if !ok {
		return o
	}

	tod := TimeOfDayOf(ts)
	date := ts.Format(DateLayout)
	hour := ts.Hour()
	weekday := ISOWeekday(ts.Weekday())

	o.Time = &tod
	o.Date = &date
	o.Hour = &hour
	o.Weekday = &weekday
	return o
}

// Decompose derives the time fields for every row. It never fails and never
// drops rows.
func Decompose(t Table) Table {
	if t.Empty() {
		return Table{}
	}
	out := make([]Observation, len(t.rows))
	for i := range t.rows {
		out[i] = DecomposeObservation(t.rows[i])
	}
	return Table{rows: out}
}

// Unparsed returns how many rows have no derived time fields.
func Unparsed(t Table) int {
	n := 0
	for i := range t.rows {
		if !t.rows[i].Decomposed() {
			n++
		}
	}
	return n
}
