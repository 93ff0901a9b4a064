// GridWatch - Traffic Count Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gridwatch

package dashboard

import (
	"context"

	"github.com/tomtom215/gridwatch/internal/logging"
	"github.com/tomtom215/gridwatch/internal/metrics"
	"github.com/tomtom215/gridwatch/internal/store"
	"github.com/tomtom215/gridwatch/internal/traffic"
)

// Overview is the General Overview page.
type Overview struct {
	State      string           `json:"state"`
	Message    string           `json:"message,omitempty"`
	Load       *store.LoadInfo  `json:"load,omitempty"`
	TopN       int              `json:"top_n"`
	RowCount   int              `json:"row_count"`
	TotalCount int64            `json:"total_count"`
	Views      traffic.Views    `json:"views"`
	Markers    []traffic.Marker `json:"markers"`
	Center     *traffic.Point   `json:"center,omitempty"`
	Bounds     *traffic.Bounds  `json:"bounds,omitempty"`
}

// Overview loads the full table (memoized) and computes every overview view.
func (s *Service) Overview(ctx context.Context) (*Overview, error) {
	t, err := s.rows.LoadAll(ctx)
	if err != nil {
		metrics.RecordDashboardRequest(string(ModeOverview), "error")
		return nil, err
	}

	ov := &Overview{
		State:      StateOK,
		TopN:       s.topN,
		RowCount:   t.Len(),
		TotalCount: t.TotalCount(),
		Views:      traffic.ComputeViews(t, s.topN),
		Markers:    traffic.Markers(t),
	}
	if info, ok := s.rows.LoadInfo(); ok {
		ov.Load = &info
	}
	if c, ok := traffic.Center(t); ok {
		ov.Center = &c
	}
	if b, ok := traffic.BoundsOf(t); ok {
		ov.Bounds = &b
	}
	if t.Empty() {
		ov.State = StateEmpty
		ov.Message = MessageNoData
	}

	metrics.RecordDashboardRequest(string(ModeOverview), ov.State)
	return ov, nil
}

// Reload drops the memoized table and every cached view, then reloads.
func (s *Service) Reload(ctx context.Context) (*Overview, error) {
	s.generation.Add(1)
	s.rows.Invalidate()
	if s.cache != nil {
		s.cache.Clear()
	}
	logging.Ctx(ctx).Info().Msg("Dataset reload requested")
	return s.Overview(ctx)
}
