// GridWatch - Traffic Count Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gridwatch

package pgstore

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"regexp"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/tomtom215/gridwatch/internal/database/query"
	"github.com/tomtom215/gridwatch/internal/logging"
	"github.com/tomtom215/gridwatch/internal/traffic"
)

// Store is the PostgreSQL row store backend. It implements store.Source.
type Store struct {
	db       *sqlx.DB
	identity string
}

// observationRow is the scan target for the observation projection.
type observationRow struct {
	Timestamp  sql.NullString  `db:"timestamp"`
	StreetName sql.NullString  `db:"street_name"`
	Latitude   sql.NullFloat64 `db:"latitude"`
	Longitude  sql.NullFloat64 `db:"longitude"`
	Count      sql.NullInt64   `db:"count"`
}

// Connect opens and pings a PostgreSQL connection pool.
func Connect(ctx context.Context, dsn string) (*Store, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(time.Hour)
	db.SetConnMaxIdleTime(5 * time.Minute)

	s := &Store{db: db, identity: "postgres:" + redactDSN(dsn)}
	logging.Info().Str("store", s.identity).Msg("PostgreSQL row store opened")
	return s, nil
}

var passwordParam = regexp.MustCompile(`password=\S*`)

// redactDSN strips the password from URL or key=value connection strings.
func redactDSN(dsn string) string {
	if u, err := url.Parse(dsn); err == nil && u.Scheme != "" {
		if u.User != nil {
			u.User = url.User(u.User.Username())
		}
		return u.String()
	}
	return passwordParam.ReplaceAllString(dsn, "password=xxxxx")
}

// rebind converts "?" placeholders to PostgreSQL's "$n" form.
func rebind(q string) string {
	return sqlx.Rebind(sqlx.DOLLAR, q)
}

// DB returns the underlying sqlx handle.
func (s *Store) DB() *sqlx.DB {
	return s.db
}

// Identity names this store for memoization. The password is never included.
func (s *Store) Identity() string {
	return s.identity
}

// Dialect returns query.Postgres.
func (s *Store) Dialect() query.Dialect {
	return query.Postgres
}

// Ping checks the connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// QueryObservations rebinds q, runs it and scans the observation projection.
func (s *Store) QueryObservations(ctx context.Context, q string, args ...interface{}) ([]traffic.Observation, error) {
	var rows []observationRow
	if err := s.db.SelectContext(ctx, &rows, rebind(q), args...); err != nil {
		return nil, fmt.Errorf("failed to query observations: %w", err)
	}

	out := make([]traffic.Observation, len(rows))
	for i, r := range rows {
		out[i] = traffic.Observation{
			Timestamp:  r.Timestamp.String,
			StreetName: r.StreetName.String,
			Latitude:   r.Latitude.Float64,
			Longitude:  r.Longitude.Float64,
			Count:      r.Count.Int64,
		}
	}
	return out, nil
}

// QueryStrings rebinds q and returns its single text column. NULLs are skipped.
func (s *Store) QueryStrings(ctx context.Context, q string, args ...interface{}) ([]string, error) {
	var values []sql.NullString
	if err := s.db.SelectContext(ctx, &values, rebind(q), args...); err != nil {
		return nil, fmt.Errorf("failed to query: %w", err)
	}

	out := make([]string, 0, len(values))
	for _, v := range values {
		if v.Valid {
			out = append(out, v.String)
		}
	}
	return out, nil
}
