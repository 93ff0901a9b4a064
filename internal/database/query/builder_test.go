// GridWatch - Traffic Count Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gridwatch

package query

import (
	"regexp"
	"strings"
	"testing"

	"github.com/tomtom215/gridwatch/internal/traffic"
)

func TestWhereBuilder_Empty(t *testing.T) {
	wb := NewWhereBuilder(DuckDB)

	if !wb.IsEmpty() {
		t.Error("Expected new builder to be empty")
	}

	if wb.Count() != 0 {
		t.Errorf("Expected count 0, got %d", wb.Count())
	}

	whereClause, args := wb.Build()
	if whereClause != "1=1" {
		t.Errorf("Expected '1=1' for empty builder, got %q", whereClause)
	}
	if len(args) != 0 {
		t.Errorf("Expected 0 args, got %d", len(args))
	}
}

func TestWhereBuilder_AddStreet(t *testing.T) {
	tests := []struct {
		street    string
		wantCount int
	}{
		{"", 0},
		{traffic.AllStreets, 0},
		{"Main St", 1},
		{"O'Connell Street; DROP TABLE x", 1},
	}

	for _, tt := range tests {
		wb := NewWhereBuilder(DuckDB).AddStreet(tt.street)
		if wb.Count() != tt.wantCount {
			t.Errorf("AddStreet(%q): count = %d, want %d", tt.street, wb.Count(), tt.wantCount)
			continue
		}
		if tt.wantCount == 0 {
			continue
		}
		clause, args := wb.Build()
		if clause != "street_name = ?" {
			t.Errorf("AddStreet(%q): clause = %q", tt.street, clause)
		}
		if strings.Contains(clause, tt.street) {
			t.Errorf("street value leaked into SQL text: %q", clause)
		}
		if len(args) != 1 || args[0] != tt.street {
			t.Errorf("AddStreet(%q): args = %v", tt.street, args)
		}
	}
}

func TestWhereBuilder_AddTimeOfDayRange(t *testing.T) {
	r := &traffic.TimeRange{Start: traffic.MustParseTimeOfDay("08:00"), End: traffic.MustParseTimeOfDay("17:30:15")}

	tests := []struct {
		dialect Dialect
		want    string
	}{
		{DuckDB, `CAST(TRY_CAST("timestamp" AS TIMESTAMP) AS TIME) BETWEEN CAST(? AS TIME) AND CAST(? AS TIME)`},
		{Postgres, `CASE WHEN CAST("timestamp" AS TEXT) ~ '` + PostgresTimestampPattern +
			`' THEN CAST(CAST(CAST("timestamp" AS TEXT) AS TIMESTAMP) AS TIME) END BETWEEN CAST(? AS TIME) AND CAST(? AS TIME)`},
	}

	for _, tt := range tests {
		t.Run(tt.dialect.String(), func(t *testing.T) {
			clause, args := NewWhereBuilder(tt.dialect).AddTimeOfDayRange(r).Build()
			if clause != tt.want {
				t.Errorf("clause = %q, want %q", clause, tt.want)
			}
			if len(args) != 2 || args[0] != "08:00:00" || args[1] != "17:30:15" {
				t.Errorf("args = %v, want [08:00:00 17:30:15]", args)
			}
		})
	}

	if !NewWhereBuilder(DuckDB).AddTimeOfDayRange(nil).IsEmpty() {
		t.Error("nil time range should be skipped")
	}
}

func TestPostgresTimestampPattern(t *testing.T) {
	if strings.Contains(PostgresTimestampPattern, "?") {
		t.Fatal("pattern must not contain a placeholder character")
	}
	re := regexp.MustCompile(PostgresTimestampPattern)

	accept := []string{
		"2024-01-01 10:00:00",
		"2024-01-01T10:00:00",
		"2024-01-01 10:00:00.123456",
		"2024-01-01T10:00:00Z",
		"2024-01-01T10:00:00+02:00",
		"2024-01-01 10:00:00-07",
		"2024-01-01 10:00",
		"2024-01-01",
	}
	for _, ts := range accept {
		if !re.MatchString(ts) {
			t.Errorf("pattern rejected %q", ts)
		}
		if _, ok := traffic.ParseTimestamp(ts); !ok {
			t.Errorf("ParseTimestamp(%q) failed; pattern and parser disagree", ts)
		}
	}

	reject := []string{
		"",
		"not a timestamp",
		"2024-13-01 10:00:00",
		"2024-01-01 24:00:00",
		"2024-01-01 10:00:00 junk",
		"10:00:00",
	}
	for _, ts := range reject {
		if re.MatchString(ts) {
			t.Errorf("pattern accepted %q", ts)
		}
	}
}

func TestWhereBuilder_AddFilter(t *testing.T) {
	f := traffic.Filter{
		Street: "Oak",
		Time:   &traffic.TimeRange{Start: 0, End: traffic.MustParseTimeOfDay("12:00")},
		Lat:    &traffic.Range{Min: 51.4, Max: 51.6},
		Lon:    &traffic.Range{Min: -0.2, Max: 0.1},
	}

	wb := NewWhereBuilder(DuckDB).AddFilter(f)
	if wb.Count() != 4 {
		t.Fatalf("Expected 4 clauses, got %d", wb.Count())
	}

	whereClause, args := wb.BuildWithPrefix()
	if !strings.HasPrefix(whereClause, "WHERE street_name = ? AND ") {
		t.Errorf("unexpected clause: %q", whereClause)
	}
	if !strings.HasSuffix(whereClause, "latitude BETWEEN ? AND ? AND longitude BETWEEN ? AND ?") {
		t.Errorf("unexpected clause: %q", whereClause)
	}
	if got := strings.Count(whereClause, "?"); got != len(args) {
		t.Errorf("placeholders = %d, args = %d", got, len(args))
	}
	want := []interface{}{"Oak", "00:00:00", "12:00:00", 51.4, 51.6, -0.2, 0.1}
	for i := range want {
		if args[i] != want[i] {
			t.Errorf("arg[%d] = %v, want %v", i, args[i], want[i])
		}
	}
}

func TestWhereBuilder_AddClause(t *testing.T) {
	wb := NewWhereBuilder(Postgres)
	wb.AddClause(`"count" >= ?`, 10)

	whereClause, args := wb.Build()
	if whereClause != `"count" >= ?` {
		t.Errorf("Expected custom clause, got %q", whereClause)
	}
	if len(args) != 1 || args[0] != 10 {
		t.Errorf("Expected [10], got %v", args)
	}
}

func TestDialect_SelectObservations(t *testing.T) {
	duck := DuckDB.SelectAll()
	if !strings.HasPrefix(duck, `SELECT CAST("timestamp" AS VARCHAR) AS "timestamp", street_name,`) {
		t.Errorf("unexpected duckdb projection: %s", duck)
	}
	if strings.Contains(duck, "WHERE") {
		t.Errorf("full-table query should have no WHERE: %s", duck)
	}
	if !strings.HasSuffix(duck, `FROM vehicle_counts_with_streets ORDER BY "timestamp", street_name`) {
		t.Errorf("unexpected duckdb query tail: %s", duck)
	}

	pg := Postgres.SelectObservations("street_name = ?")
	if !strings.Contains(pg, `CAST("timestamp" AS TEXT)`) {
		t.Errorf("postgres projection should cast to TEXT: %s", pg)
	}
	if !strings.Contains(pg, " WHERE street_name = ? ORDER BY") {
		t.Errorf("where clause not placed before ORDER BY: %s", pg)
	}

	if DuckDB.SelectAll() == Postgres.SelectAll() {
		t.Error("dialects should produce different full-table text")
	}
}

func TestDialect_String(t *testing.T) {
	if DuckDB.String() != "duckdb" || Postgres.String() != "postgres" || Dialect(9).String() != "unknown" {
		t.Error("unexpected dialect names")
	}
}
