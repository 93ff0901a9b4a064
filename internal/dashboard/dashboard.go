// GridWatch - Traffic Count Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gridwatch

package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/jonboulle/clockwork"

	"github.com/tomtom215/gridwatch/internal/cache"
	"github.com/tomtom215/gridwatch/internal/state"
	"github.com/tomtom215/gridwatch/internal/store"
	"github.com/tomtom215/gridwatch/internal/traffic"
)

// Mode identifies one of the two dashboard pages.
type Mode string

const (
	ModeOverview Mode = "overview"
	ModeDetailed Mode = "detailed"
)

// ModeInfo is one entry of the mode selector.
type ModeInfo struct {
	ID    Mode   `json:"id"`
	Label string `json:"label"`
}

// Modes lists the dashboard modes in selector order.
func Modes() []ModeInfo {
	return []ModeInfo{
		{ID: ModeOverview, Label: "General Overview"},
		{ID: ModeDetailed, Label: "Detailed Analysis"},
	}
}

// View states.
const (
	StateOK      = "ok"
	StateEmpty   = "empty"
	StateNoQuery = "no_query"
)

// User-facing messages for the non-ok states.
const (
	MessageNoData  = "No data found for the specified query."
	MessageNoQuery = "No query submitted. Please use the sidebar to submit a query."
)

// ErrStateStore wraps failures of the submitted-query store.
var ErrStateStore = errors.New("submitted query store failed")

// Rows is the memoized read path the dashboard renders from.
// *store.Accessor implements it.
type Rows interface {
	LoadAll(ctx context.Context) (traffic.Table, error)
	Streets(ctx context.Context) ([]string, error)
	LoadFiltered(ctx context.Context, f traffic.Filter, pushdown bool) (traffic.Table, error)
	Invalidate()
	LoadInfo() (store.LoadInfo, bool)
}

// Options configures a Service.
type Options struct {
	TopN     int
	Pushdown bool
	// Cache holds derived detailed views; nil disables caching.
	Cache *cache.Cache
	Clock clockwork.Clock
}

// Service assembles the overview and detailed views. Each call runs one
// synchronous pass of load, filter and aggregate.
type Service struct {
	rows     Rows
	state    state.Store
	cache    *cache.Cache
	clock    clockwork.Clock
	topN     int
	pushdown bool

	// generation is bumped by Reload and scopes detailed cache keys, so a
	// view computed from the previous load is never served afterwards.
	generation atomic.Uint64
}

// New creates a Service.
func New(rows Rows, st state.Store, opts Options) *Service {
	if opts.TopN <= 0 {
		opts.TopN = traffic.DefaultTopN
	}
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	return &Service{
		rows:     rows,
		state:    st,
		cache:    opts.Cache,
		clock:    opts.Clock,
		topN:     opts.TopN,
		pushdown: opts.Pushdown,
	}
}

// TopN returns the configured Top-N size.
func (s *Service) TopN() int {
	return s.topN
}

// Warmup loads the full table and the street list so the first request is
// served from the memo.
func (s *Service) Warmup(ctx context.Context) error {
	if _, err := s.rows.LoadAll(ctx); err != nil {
		return err
	}
	_, err := s.rows.Streets(ctx)
	return err
}

// Streets returns the street selector options: AllStreets followed by the
// distinct street names in ascending order.
func (s *Service) Streets(ctx context.Context) ([]string, error) {
	streets, err := s.rows.Streets(ctx)
	if err != nil {
		return nil, err
	}
	return traffic.StreetOptions(streets), nil
}

// TimeOptions is the hourly start/end selector.
type TimeOptions struct {
	Options      []traffic.TimeOfDay `json:"options"`
	DefaultStart traffic.TimeOfDay   `json:"default_start"`
	DefaultEnd   traffic.TimeOfDay   `json:"default_end"`
}

// HourlyTimeOptions returns "00:00:00" through "23:00:00", defaulting to the
// first and last entries.
func HourlyTimeOptions() TimeOptions {
	opts := traffic.HourlyOptions()
	return TimeOptions{
		Options:      opts,
		DefaultStart: opts[0],
		DefaultEnd:   opts[len(opts)-1],
	}
}

func stateErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrStateStore, op, err)
}
