// GridWatch - Traffic Count Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gridwatch

package query

import (
	"strings"

	"github.com/tomtom215/gridwatch/internal/traffic"
)

// WhereBuilder constructs SQL WHERE clauses with parameterized arguments.
// Placeholders are always "?"; backends that need another bindvar style
// rebind the finished statement.
//
// Example usage:
//
//	wb := query.NewWhereBuilder(query.DuckDB)
//	wb.AddStreet("Main St")
//	wb.AddTimeOfDayRange(&traffic.TimeRange{Start: start, End: end})
//	whereClause, args := wb.Build()
//	// street_name = ? AND CAST(TRY_CAST("timestamp" AS TIMESTAMP) AS TIME) BETWEEN CAST(? AS TIME) AND CAST(? AS TIME)
type WhereBuilder struct {
	dialect Dialect
	clauses []string
	args    []interface{}
}

// NewWhereBuilder creates a new WhereBuilder for the given dialect.
func NewWhereBuilder(d Dialect) *WhereBuilder {
	return &WhereBuilder{
		dialect: d,
		clauses: []string{},
		args:    []interface{}{},
	}
}

// AddClause adds a raw WHERE clause with its arguments.
// This is useful for custom conditions not covered by helper methods.
//
// Parameters:
//   - clause: SQL condition fragment (e.g., "count >= ?")
//   - args: Arguments to bind to placeholders in the clause
func (wb *WhereBuilder) AddClause(clause string, args ...interface{}) *WhereBuilder {
	wb.clauses = append(wb.clauses, clause)
	wb.args = append(wb.args, args...)
	return wb
}

// AddStreet adds an exact street match. "" and the "All" sentinel are skipped.
func (wb *WhereBuilder) AddStreet(street string) *WhereBuilder {
	if street == "" || street == traffic.AllStreets {
		return wb
	}
	return wb.AddClause(ColumnStreet+" = ?", street)
}

// AddTimeOfDayRange adds an inclusive time-of-day range on the timestamp
// column. Nil is skipped. An inverted range is emitted as-is and matches
// nothing, since BETWEEN does not wrap.
func (wb *WhereBuilder) AddTimeOfDayRange(r *traffic.TimeRange) *WhereBuilder {
	if r == nil {
		return wb
	}
	clause := wb.dialect.TimeOfDay(ColumnTimestamp) + " BETWEEN CAST(? AS TIME) AND CAST(? AS TIME)"
	return wb.AddClause(clause, r.Start.String(), r.End.String())
}

// AddLatitudeRange adds an inclusive latitude range. Nil is skipped.
func (wb *WhereBuilder) AddLatitudeRange(r *traffic.Range) *WhereBuilder {
	if r == nil {
		return wb
	}
	return wb.AddClause(ColumnLatitude+" BETWEEN ? AND ?", r.Min, r.Max)
}

// AddLongitudeRange adds an inclusive longitude range. Nil is skipped.
func (wb *WhereBuilder) AddLongitudeRange(r *traffic.Range) *WhereBuilder {
	if r == nil {
		return wb
	}
	return wb.AddClause(ColumnLongitude+" BETWEEN ? AND ?", r.Min, r.Max)
}

// AddFilter adds every active stage of f.
func (wb *WhereBuilder) AddFilter(f traffic.Filter) *WhereBuilder {
	return wb.AddStreet(f.Street).
		AddTimeOfDayRange(f.Time).
		AddLatitudeRange(f.Lat).
		AddLongitudeRange(f.Lon)
}

// Build constructs the final WHERE clause and returns it with arguments.
// Clauses are joined with "AND". Returns ("1=1", []) if no clauses were added.
func (wb *WhereBuilder) Build() (string, []interface{}) {
	if len(wb.clauses) == 0 {
		return "1=1", []interface{}{}
	}
	return strings.Join(wb.clauses, " AND "), wb.args
}

// BuildWithPrefix returns the WHERE clause with "WHERE " prefix.
func (wb *WhereBuilder) BuildWithPrefix() (string, []interface{}) {
	whereClause, args := wb.Build()
	return "WHERE " + whereClause, args
}

// Count returns the number of clauses added to the builder.
func (wb *WhereBuilder) Count() int {
	return len(wb.clauses)
}

// IsEmpty returns true if no clauses have been added.
func (wb *WhereBuilder) IsEmpty() bool {
	return len(wb.clauses) == 0
}
