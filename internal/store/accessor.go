// GridWatch - Traffic Count Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gridwatch

package store

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/singleflight"

	"github.com/tomtom215/gridwatch/internal/database/query"
	"github.com/tomtom215/gridwatch/internal/logging"
	"github.com/tomtom215/gridwatch/internal/metrics"
	"github.com/tomtom215/gridwatch/internal/traffic"
)

// DefaultQueryTimeout applies when the caller's context has no deadline.
const DefaultQueryTimeout = 30 * time.Second

// Source is a row store backend holding vehicle_counts_with_streets.
// Statements use "?" placeholders; a Source rebinds them as its driver needs.
type Source interface {
	// QueryObservations runs a statement projecting the observation columns.
	QueryObservations(ctx context.Context, q string, args ...interface{}) ([]traffic.Observation, error)
	// QueryStrings runs a statement projecting a single text column.
	QueryStrings(ctx context.Context, q string, args ...interface{}) ([]string, error)
	Ping(ctx context.Context) error
	// Identity distinguishes stores for memoization, e.g. "duckdb:/data/x.duckdb".
	Identity() string
	Dialect() query.Dialect
	Close() error
}

// Options configures an Accessor. Zero values fall back to defaults.
type Options struct {
	Clock        clockwork.Clock
	QueryTimeout time.Duration
	Breaker      BreakerSettings
}

// LoadInfo describes the most recent full-table load.
type LoadInfo struct {
	Rows     int       `json:"rows"`
	Unparsed int       `json:"unparsed_timestamps"`
	Seconds  float64   `json:"load_seconds"`
	LoadedAt time.Time `json:"loaded_at"`
}

type memoKey struct {
	identity string
	query    string
}

func (k memoKey) String() string {
	return k.identity + "\x00" + k.query
}

// Accessor is the memoized read path to the row store. The decomposed full
// table and the street list are loaded once per (store identity, query text)
// and kept until Invalidate. Failed loads are not memoized.
//
// mu guards only the memo maps and is never held across a store round-trip.
// Concurrent misses for the same key share one load through loads.
type Accessor struct {
	src     Source
	clock   clockwork.Clock
	timeout time.Duration
	breaker *breaker
	backend string

	loads    singleflight.Group
	lastLoad atomic.Pointer[LoadInfo]

	mu      sync.Mutex
	gen     uint64
	tables  map[memoKey]traffic.Table
	streets map[memoKey][]string
}

// NewAccessor wraps src with memoization and a circuit breaker.
func NewAccessor(src Source, opts Options) *Accessor {
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.QueryTimeout <= 0 {
		opts.QueryTimeout = DefaultQueryTimeout
	}
	if opts.Breaker == (BreakerSettings{}) {
		opts.Breaker = DefaultBreakerSettings()
	}

	backend := src.Dialect().String()
	return &Accessor{
		src:     src,
		clock:   opts.Clock,
		timeout: opts.QueryTimeout,
		breaker: newBreaker("row-store-"+backend, opts.Breaker),
		backend: backend,
		tables:  make(map[memoKey]traffic.Table),
		streets: make(map[memoKey][]string),
	}
}

// Source returns the wrapped backend.
func (a *Accessor) Source() Source {
	return a.src
}

// BreakerState reports the circuit breaker state.
func (a *Accessor) BreakerState() string {
	return a.breaker.State()
}

// Query runs q with bound args and returns the raw rows, undecomposed and
// unmemoized. Every failure is a *DataAccessError.
func (a *Accessor) Query(ctx context.Context, q string, args ...interface{}) (traffic.Table, error) {
	return a.query(ctx, "query", q, args...)
}

func (a *Accessor) query(ctx context.Context, op, q string, args ...interface{}) (traffic.Table, error) {
	ctx, cancel := a.ensureContext(ctx)
	defer cancel()

	start := a.clock.Now()
	t, err := castResult[traffic.Table](a.breaker.execute(func() (any, error) {
		rows, err := a.src.QueryObservations(ctx, q, args...)
		if err != nil {
			return nil, err
		}
		return traffic.NewTable(rows), nil
	}))
	metrics.RecordStoreQuery(a.backend, op, a.clock.Since(start), err)
	if err != nil {
		return traffic.Table{}, wrap(op, err)
	}
	return t, nil
}

// LoadAll returns the decomposed full table, loading it on first use.
func (a *Accessor) LoadAll(ctx context.Context) (traffic.Table, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	key := a.tableKey()

	if t, ok := a.memoTable(key); ok {
		metrics.DatasetLoads.WithLabelValues("memo_hit").Inc()
		return t, nil
	}

	v, err := a.shared(ctx, "load_all", "table:"+key.String(), func() (any, error) {
		return a.loadAll(ctx, key)
	})
	if err != nil {
		return traffic.Table{}, err
	}
	return v.(traffic.Table), nil
}

func (a *Accessor) loadAll(ctx context.Context, key memoKey) (traffic.Table, error) {
	a.mu.Lock()
	t, ok := a.tables[key]
	gen := a.gen
	a.mu.Unlock()
	if ok {
		metrics.DatasetLoads.WithLabelValues("memo_hit").Inc()
		return t, nil
	}

	start := a.clock.Now()
	raw, err := a.query(ctx, "load_all", key.query)
	if err != nil {
		metrics.DatasetLoads.WithLabelValues("error").Inc()
		logging.Ctx(ctx).Error().Err(err).Str("store", a.src.Identity()).Msg("Full table load failed")
		return traffic.Table{}, err
	}
	t = traffic.Decompose(raw)
	elapsed := a.clock.Since(start)

	info := &LoadInfo{
		Rows:     t.Len(),
		Unparsed: traffic.Unparsed(t),
		Seconds:  elapsed.Seconds(),
		LoadedAt: a.clock.Now(),
	}

	// A load that raced an Invalidate is returned to its callers but not kept.
	a.mu.Lock()
	current := a.gen == gen
	if current {
		a.tables[key] = t
		a.lastLoad.Store(info)
	}
	a.mu.Unlock()
	metrics.RecordDatasetLoad(elapsed, info.Rows, info.Unparsed)

	ev := logging.Ctx(ctx).Info().Int("rows", info.Rows).Float64("seconds", info.Seconds)
	if info.Unparsed > 0 {
		ev = ev.Int("unparsed_timestamps", info.Unparsed)
	}
	if !current {
		ev = ev.Bool("discarded", true)
	}
	ev.Msg("Dataset loaded")
	return t, nil
}

// Streets returns the distinct street names in ascending order, memoized
// alongside the full table.
func (a *Accessor) Streets(ctx context.Context) ([]string, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	key := a.streetsKey()

	a.mu.Lock()
	s, ok := a.streets[key]
	a.mu.Unlock()
	if ok {
		return append([]string(nil), s...), nil
	}

	v, err := a.shared(ctx, "streets", "streets:"+key.String(), func() (any, error) {
		return a.loadStreets(ctx, key)
	})
	if err != nil {
		return nil, err
	}
	return append([]string(nil), v.([]string)...), nil
}

func (a *Accessor) loadStreets(ctx context.Context, key memoKey) ([]string, error) {
	a.mu.Lock()
	s, ok := a.streets[key]
	gen := a.gen
	a.mu.Unlock()
	if ok {
		return s, nil
	}

	ctx, cancel := a.ensureContext(ctx)
	defer cancel()

	start := a.clock.Now()
	s, err := castResult[[]string](a.breaker.execute(func() (any, error) {
		return a.src.QueryStrings(ctx, key.query)
	}))
	metrics.RecordStoreQuery(a.backend, "streets", a.clock.Since(start), err)
	if err != nil {
		return nil, wrap("streets", err)
	}
	if s == nil {
		s = []string{}
	}

	a.mu.Lock()
	if a.gen == gen {
		a.streets[key] = s
	}
	a.mu.Unlock()
	return s, nil
}

// shared runs fn once per in-flight key. A caller whose context ends first
// stops waiting; the load itself carries on for the others.
func (a *Accessor) shared(ctx context.Context, op, key string, fn func() (any, error)) (any, error) {
	ch := a.loads.DoChan(key, fn)
	select {
	case res := <-ch:
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, wrap(op, ctx.Err())
	}
}

func (a *Accessor) memoTable(key memoKey) (traffic.Table, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	t, ok := a.tables[key]
	return t, ok
}

func (a *Accessor) tableKey() memoKey {
	return memoKey{identity: a.src.Identity(), query: a.src.Dialect().SelectAll()}
}

func (a *Accessor) streetsKey() memoKey {
	return memoKey{identity: a.src.Identity(), query: a.src.Dialect().SelectStreets()}
}

// LoadFiltered returns the decomposed rows matching f. With pushdown the
// filter is compiled to bound SQL predicates and re-applied in memory to the
// result; otherwise the memoized full table is filtered.
func (a *Accessor) LoadFiltered(ctx context.Context, f traffic.Filter, pushdown bool) (traffic.Table, error) {
	if !pushdown {
		all, err := a.LoadAll(ctx)
		if err != nil {
			return traffic.Table{}, err
		}
		return traffic.Apply(all, f), nil
	}

	d := a.src.Dialect()
	where, args := query.NewWhereBuilder(d).AddFilter(f).Build()
	raw, err := a.query(ctx, "load_filtered", d.SelectObservations(where), args...)
	if err != nil {
		return traffic.Table{}, err
	}
	return traffic.Apply(traffic.Decompose(raw), f), nil
}

// Ping checks the store through the breaker.
func (a *Accessor) Ping(ctx context.Context) error {
	ctx, cancel := a.ensureContext(ctx)
	defer cancel()

	_, err := a.breaker.execute(func() (any, error) {
		return nil, a.src.Ping(ctx)
	})
	return wrap("ping", err)
}

// Invalidate drops every memoized result. The next LoadAll or Streets call
// reads the store again.
func (a *Accessor) Invalidate() {
	a.mu.Lock()
	a.gen++
	a.tables = make(map[memoKey]traffic.Table)
	a.streets = make(map[memoKey][]string)
	a.lastLoad.Store(nil)
	a.mu.Unlock()

	// Loads still in flight finish for their callers; new callers start fresh.
	a.loads.Forget("table:" + a.tableKey().String())
	a.loads.Forget("streets:" + a.streetsKey().String())
	metrics.DatasetInvalidations.Inc()
	logging.Info().Str("store", a.src.Identity()).Msg("Dataset memo invalidated")
}

// LoadInfo returns details of the memoized full-table load, if any. It never
// waits on a load in progress.
func (a *Accessor) LoadInfo() (LoadInfo, bool) {
	info := a.lastLoad.Load()
	if info == nil {
		return LoadInfo{}, false
	}
	return *info, true
}

// Loaded reports whether the full table is memoized.
func (a *Accessor) Loaded() bool {
	return a.lastLoad.Load() != nil
}

func (a *Accessor) ensureContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, a.timeout)
}
