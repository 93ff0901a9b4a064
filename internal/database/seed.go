// GridWatch - Traffic Count Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gridwatch

package database

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/jaswdr/faker"

	"github.com/tomtom215/gridwatch/internal/config"
	"github.com/tomtom215/gridwatch/internal/logging"
	"github.com/tomtom215/gridwatch/internal/traffic"
)

// SeedOptions controls synthetic data generation.
type SeedOptions struct {
	Days      int
	Streets   int
	CenterLat float64
	CenterLon float64
	// End is the last hour generated; zero means the current hour.
	End time.Time
	// Seed makes the output reproducible; zero picks a time-based seed.
	Seed int64
}

// SeedOptionsFromConfig maps the database config onto SeedOptions.
func SeedOptionsFromConfig(cfg *config.DatabaseConfig) SeedOptions {
	return SeedOptions{
		Days:      cfg.SeedDays,
		Streets:   cfg.SeedStreets,
		CenterLat: cfg.SeedCenterLat,
		CenterLon: cfg.SeedCenterLon,
	}
}

// seedRadius is the spread of generated sensors around the center, in degrees.
const seedRadius = 0.05

// hourlyProfile scales a street's base volume by hour of day: quiet nights,
// a morning peak at 08:00 and an evening peak at 17:00.
var hourlyProfile = [24]float64{
	0.15, 0.10, 0.08, 0.08, 0.12, 0.30,
	0.60, 0.90, 1.00, 0.85, 0.70, 0.70,
	0.75, 0.70, 0.70, 0.80, 0.95, 1.00,
	0.90, 0.70, 0.50, 0.40, 0.30, 0.20,
}

// GenerateObservations builds hourly counts for opts.Streets streets over
// opts.Days days. Each street gets one sensor location near the center.
func GenerateObservations(opts SeedOptions) []traffic.Observation {
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed)) //nolint:gosec // synthetic demo data
	fake := faker.NewWithSeed(rand.NewSource(seed))

	end := opts.End
	if end.IsZero() {
		end = time.Now()
	}
	end = end.UTC().Truncate(time.Hour)
	start := end.Add(-time.Duration(opts.Days*24-1) * time.Hour)

	type sensor struct {
		street   string
		lat, lon float64
		base     int
	}

	seen := make(map[string]bool, opts.Streets)
	sensors := make([]sensor, 0, opts.Streets)
	for len(sensors) < opts.Streets {
		name := fake.Address().StreetName()
		if seen[name] {
			// Fall back to a numbered name once the generator starts repeating.
			name = fmt.Sprintf("%s %d", name, len(sensors)+1)
			if seen[name] {
				continue
			}
		}
		seen[name] = true
		sensors = append(sensors, sensor{
			street: name,
			lat:    opts.CenterLat + (rng.Float64()*2-1)*seedRadius,
			lon:    opts.CenterLon + (rng.Float64()*2-1)*seedRadius,
			base:   fake.IntBetween(40, 400),
		})
	}

	out := make([]traffic.Observation, 0, opts.Days*24*len(sensors))
	for ts := start; !ts.After(end); ts = ts.Add(time.Hour) {
		weekend := ts.Weekday() == time.Saturday || ts.Weekday() == time.Sunday
		for _, s := range sensors {
			volume := float64(s.base) * hourlyProfile[ts.Hour()]
			if weekend {
				volume *= 0.7
			}
			// +-15% noise
			volume *= 0.85 + rng.Float64()*0.3
			out = append(out, traffic.Observation{
				Timestamp:  ts.Format("2006-01-02 15:04:05"),
				StreetName: s.street,
				Latitude:   round6(s.lat),
				Longitude:  round6(s.lon),
				Count:      int64(math.Round(volume)),
			})
		}
	}
	return out
}

func round6(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}

// SeedMockData creates the observation table if needed and fills it with
// synthetic counts. A table that already holds rows is left untouched.
// This is intended for demos and local development only.
func (db *DB) SeedMockData(ctx context.Context, opts SeedOptions) (int, error) {
	if err := db.CreateSchema(ctx); err != nil {
		return 0, err
	}

	existing, err := db.RowCount(ctx)
	if err != nil {
		return 0, err
	}
	if existing > 0 {
		logging.Info().Int64("rows", existing).Msg("Observation table already populated, skipping mock data")
		return 0, nil
	}

	logging.Info().
		Int("days", opts.Days).
		Int("streets", opts.Streets).
		Msg("Seeding database with mock traffic counts...")

	rows := GenerateObservations(opts)
	if err := db.InsertObservations(ctx, rows); err != nil {
		return 0, fmt.Errorf("failed to seed mock data: %w", err)
	}

	logging.Info().Int("rows", len(rows)).Msg("Mock data seeded successfully")
	return len(rows), nil
}
