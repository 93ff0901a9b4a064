// GridWatch - Traffic Count Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gridwatch

package dashboard

import (
	"context"

	"github.com/google/uuid"

	"github.com/tomtom215/gridwatch/internal/cache"
	"github.com/tomtom215/gridwatch/internal/logging"
	"github.com/tomtom215/gridwatch/internal/metrics"
	"github.com/tomtom215/gridwatch/internal/state"
	"github.com/tomtom215/gridwatch/internal/traffic"
)

// Detailed is the Detailed Analysis page for one submitted query.
type Detailed struct {
	State   string            `json:"state"`
	Message string            `json:"message,omitempty"`
	Query   *state.Submission `json:"query,omitempty"`
	DetailedData
}

// DetailedData is the part of a detailed view derived from the filter alone,
// which is what the cache holds.
type DetailedData struct {
	RowCount   int                   `json:"row_count"`
	TotalCount int64                 `json:"total_count"`
	Rows       traffic.Table         `json:"rows"`
	Series     []traffic.SeriesPoint `json:"series"`
	HeatPoints []traffic.HeatPoint   `json:"heat_points"`
	Center     *traffic.Point        `json:"center,omitempty"`
	Bounds     *traffic.Bounds       `json:"bounds,omitempty"`
}

type detailedKey struct {
	Filter     traffic.Filter `json:"filter"`
	Pushdown   bool           `json:"pushdown"`
	Generation uint64         `json:"generation"`
}

// Submit stores f as the submitted query and returns its view. cached
// reports whether the view came from the cache.
func (s *Service) Submit(ctx context.Context, f traffic.Filter) (view *Detailed, cached bool, err error) {
	sub := state.Submission{
		ID:          uuid.New().String(),
		Filter:      f,
		SubmittedAt: s.clock.Now().UTC(),
	}
	if err := s.state.Save(ctx, sub); err != nil {
		return nil, false, stateErr("save", err)
	}

	logging.Ctx(ctx).Info().
		Str("query_id", sub.ID).
		Str("street", logging.Sanitize(f.Street)).
		Msg("Detailed query submitted")

	return s.render(ctx, sub)
}

// Current re-runs the last submitted query. With nothing submitted it
// returns the no_query state.
func (s *Service) Current(ctx context.Context) (view *Detailed, cached bool, err error) {
	sub, ok, err := s.state.Load(ctx)
	if err != nil {
		return nil, false, stateErr("load", err)
	}
	if !ok {
		metrics.RecordDashboardRequest(string(ModeDetailed), StateNoQuery)
		return &Detailed{
			State:        StateNoQuery,
			Message:      MessageNoQuery,
			DetailedData: emptyData(),
		}, false, nil
	}
	return s.render(ctx, sub)
}

// Clear forgets the submitted query.
func (s *Service) Clear(ctx context.Context) error {
	if err := s.state.Clear(ctx); err != nil {
		return stateErr("clear", err)
	}
	return nil
}

func (s *Service) render(ctx context.Context, sub state.Submission) (*Detailed, bool, error) {
	data, cached, err := s.compute(ctx, sub.Filter)
	if err != nil {
		metrics.RecordDashboardRequest(string(ModeDetailed), "error")
		return nil, false, err
	}

	view := &Detailed{
		State:        StateOK,
		Query:        &sub,
		DetailedData: data,
	}
	if data.RowCount == 0 {
		view.State = StateEmpty
		view.Message = MessageNoData
	}
	metrics.RecordDashboardRequest(string(ModeDetailed), view.State)
	return view, cached, nil
}

func (s *Service) compute(ctx context.Context, f traffic.Filter) (DetailedData, bool, error) {
	var key string
	if s.cache != nil {
		key = cache.GenerateKey("detailed", detailedKey{
			Filter:     f,
			Pushdown:   s.pushdown,
			Generation: s.generation.Load(),
		})
		if v, ok := s.cache.Get(key); ok {
			if d, ok := v.(DetailedData); ok {
				return d, true, nil
			}
		}
	}

	t, err := s.rows.LoadFiltered(ctx, f, s.pushdown)
	if err != nil {
		return DetailedData{}, false, err
	}

	d := DetailedData{
		RowCount:   t.Len(),
		TotalCount: t.TotalCount(),
		Rows:       t,
		Series:     traffic.CountSeries(t),
		HeatPoints: traffic.HeatPoints(t),
	}
	if c, ok := traffic.Center(t); ok {
		d.Center = &c
	}
	if b, ok := traffic.BoundsOf(t); ok {
		d.Bounds = &b
	}

	if s.cache != nil {
		s.cache.Set(key, d)
	}
	return d, false, nil
}

func emptyData() DetailedData {
	return DetailedData{
		Series:     []traffic.SeriesPoint{},
		HeatPoints: []traffic.HeatPoint{},
	}
}
