// GridWatch - Traffic Count Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gridwatch

package traffic

import (
	"sort"
)

// DefaultTopN is the number of streets shown in the Top-N views.
const DefaultTopN = 10

// StreetTotal is one bar of the Top-N streets chart.
type StreetTotal struct {
	StreetName string `json:"street_name"`
	Total      int64  `json:"total"`
}

// HourlyMean is one point of the average-count-by-hour chart.
type HourlyMean struct {
	Hour    int     `json:"hour"`
	Mean    float64 `json:"mean"`
	Samples int     `json:"samples"`
}

// StreetHourMean is one point of a per-street hourly series.
type StreetHourMean struct {
	StreetName string  `json:"street_name"`
	Hour       int     `json:"hour"`
	Mean       float64 `json:"mean"`
}

// StreetCount is one raw sample for a per-street distribution plot.
type StreetCount struct {
	StreetName string `json:"street_name"`
	Count      int64  `json:"count"`
}

// Views bundles the four chart views computed from one table.
type Views struct {
	TopStreets      []StreetTotal    `json:"top_streets"`
	HourlyMeans     []HourlyMean     `json:"hourly_means"`
	TopStreetHourly []StreetHourMean `json:"top_street_hourly"`
	Distribution    []StreetCount    `json:"distribution"`
}

// TopStreets sums count per street and returns the n largest totals, sorted
// by total descending then street name ascending. n <= 0 returns every street.
func TopStreets(t Table, n int) []StreetTotal {
	totals := make(map[string]int64)
	for i := range t.rows {
		totals[t.rows[i].StreetName] += t.rows[i].Count
	}

	out := make([]StreetTotal, 0, len(totals))
	for street, total := range totals {
		out = append(out, StreetTotal{StreetName: street, Total: total})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].StreetName < out[j].StreetName
	})

	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

type meanAcc struct {
	sum float64
	n   int
}

func (a meanAcc) mean() float64 {
	return a.sum / float64(a.n)
}

// HourlyMeans averages count per derived hour, ascending by hour. Hours with
// no rows are absent. Rows without a derived hour are skipped.
func HourlyMeans(t Table) []HourlyMean {
	var acc [24]meanAcc
	for i := range t.rows {
		h := t.rows[i].Hour
		if h == nil || *h < 0 || *h > 23 {
			continue
		}
		acc[*h].sum += float64(t.rows[i].Count)
		acc[*h].n++
	}

	out := make([]HourlyMean, 0, 24)
	for h, a := range acc {
		if a.n == 0 {
			continue
		}
		out = append(out, HourlyMean{Hour: h, Mean: a.mean(), Samples: a.n})
	}
	return out
}

func rankOf(top []StreetTotal) map[string]int {
	rank := make(map[string]int, len(top))
	for i, st := range top {
		rank[st.StreetName] = i
	}
	return rank
}

// TopStreetHourlyMeans averages count per (street, hour) for the streets in
// top, ordered by the street's rank in top and then by hour.
func TopStreetHourlyMeans(t Table, top []StreetTotal) []StreetHourMean {
	rank := rankOf(top)
	acc := make([][24]meanAcc, len(top))
	for i := range t.rows {
		r, ok := rank[t.rows[i].StreetName]
		h := t.rows[i].Hour
		if !ok || h == nil || *h < 0 || *h > 23 {
			continue
		}
		acc[r][*h].sum += float64(t.rows[i].Count)
		acc[r][*h].n++
	}

	var out []StreetHourMean
	for r, hours := range acc {
		for h, a := range hours {
			if a.n == 0 {
				continue
			}
			out = append(out, StreetHourMean{
				StreetName: top[r].StreetName,
				Hour:       h,
				Mean:       a.mean(),
			})
		}
	}
	return out
}

// StreetDistribution returns the raw (street, count) pairs of the rows whose
// street is in top, in row order. Quartiles and outliers are left to the
// chart renderer.
func StreetDistribution(t Table, top []StreetTotal) []StreetCount {
	rank := rankOf(top)
	var out []StreetCount
	for i := range t.rows {
		if _, ok := rank[t.rows[i].StreetName]; !ok {
			continue
		}
		out = append(out, StreetCount{StreetName: t.rows[i].StreetName, Count: t.rows[i].Count})
	}
	return out
}

// ComputeViews computes all four views, sharing one Top-N set.
func ComputeViews(t Table, n int) Views {
	top := TopStreets(t, n)
	return Views{
		TopStreets:      top,
		HourlyMeans:     HourlyMeans(t),
		TopStreetHourly: nonNil(TopStreetHourlyMeans(t, top)),
		Distribution:    nonNil(StreetDistribution(t, top)),
	}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
