// GridWatch - Traffic Count Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gridwatch

package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/gridwatch/internal/cache"
	"github.com/tomtom215/gridwatch/internal/dashboard"
	"github.com/tomtom215/gridwatch/internal/metrics"
	"github.com/tomtom215/gridwatch/internal/state"
	"github.com/tomtom215/gridwatch/internal/store"
	"github.com/tomtom215/gridwatch/internal/traffic"
)

type fakeRows struct {
	mu     sync.Mutex
	table  traffic.Table
	err    error
	loaded bool
}

func (f *fakeRows) LoadAll(context.Context) (traffic.Table, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return traffic.Table{}, f.err
	}
	f.loaded = true
	return f.table, nil
}

func (f *fakeRows) Streets(context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return traffic.DistinctStreets(f.table), nil
}

func (f *fakeRows) LoadFiltered(_ context.Context, flt traffic.Filter, _ bool) (traffic.Table, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return traffic.Table{}, f.err
	}
	return traffic.Apply(f.table, flt), nil
}

func (f *fakeRows) Invalidate() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loaded = false
}

func (f *fakeRows) LoadInfo() (store.LoadInfo, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return store.LoadInfo{Rows: f.table.Len()}, f.loaded
}

type fakeStatus struct {
	pingErr error
}

func (s fakeStatus) Ping(context.Context) error { return s.pingErr }
func (s fakeStatus) BreakerState() string       { return "closed" }
func (s fakeStatus) Loaded() bool               { return true }

type brokenState struct{}

func (brokenState) Load(context.Context) (state.Submission, bool, error) {
	return state.Submission{}, false, errors.New("disk full")
}
func (brokenState) Save(context.Context, state.Submission) error { return errors.New("disk full") }
func (brokenState) Clear(context.Context) error                  { return errors.New("disk full") }
func (brokenState) Close() error                                 { return nil }

func fixtureRows() *fakeRows {
	rows := []traffic.Observation{
		{Timestamp: "2024-01-01 10:00:00", StreetName: "Main", Latitude: 1, Longitude: 1, Count: 5},
		{Timestamp: "2024-01-01 10:30:00", StreetName: "Main", Latitude: 1, Longitude: 1, Count: 7},
		{Timestamp: "2024-01-01 23:00:00", StreetName: "Oak", Latitude: 2, Longitude: 2, Count: 3},
	}
	return &fakeRows{table: traffic.Decompose(traffic.NewTable(rows))}
}

type testEnv struct {
	rows    *fakeRows
	handler http.Handler
}

func newTestEnv(t *testing.T, rows *fakeRows, st state.Store, status StoreStatus, cfg *ChiMiddlewareConfig) *testEnv {
	t.Helper()
	if st == nil {
		st = state.NewMemoryStore()
	}
	if status == nil {
		status = fakeStatus{}
	}
	if cfg == nil {
		cfg = DefaultChiMiddlewareConfig()
		cfg.RateLimitDisabled = true
	}
	svc := dashboard.New(rows, st, dashboard.Options{
		Cache: cache.New("api-test", time.Minute, clockwork.NewFakeClock()),
	})
	h := NewHandler(svc, status, "duckdb", "test")
	return &testEnv{rows: rows, handler: NewRouter(h, cfg).Setup()}
}

type envelope struct {
	Status   string          `json:"status"`
	Data     json.RawMessage `json:"data"`
	Metadata struct {
		Cached bool `json:"cached"`
	} `json:"metadata"`
	Error *struct {
		Code    string                 `json:"code"`
		Message string                 `json:"message"`
		Details map[string]interface{} `json:"details"`
	} `json:"error"`
}

func (e *testEnv) do(t *testing.T, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	e.handler.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
			t.Fatalf("%s %s: invalid JSON response: %v\n%s", method, path, err, w.Body.String())
		}
	}
	return w, env
}

func decodeData(t *testing.T, env envelope, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(env.Data, v); err != nil {
		t.Fatalf("failed to decode data: %v", err)
	}
}

type viewSummary struct {
	State      string `json:"state"`
	Message    string `json:"message"`
	RowCount   int    `json:"row_count"`
	TotalCount int64  `json:"total_count"`
	Query      *struct {
		ID     string         `json:"id"`
		Filter traffic.Filter `json:"filter"`
	} `json:"query"`
	Form *struct {
		Street    string `json:"street"`
		StartTime string `json:"start_time"`
		EndTime   string `json:"end_time"`
	} `json:"form"`
}

func TestHealthEndpoints(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		pingErr    error
		wantStatus int
	}{
		{"health ok", "/api/v1/health", nil, http.StatusOK},
		{"health degraded still 200", "/api/v1/health", errors.New("down"), http.StatusOK},
		{"live", "/api/v1/health/live", errors.New("down"), http.StatusOK},
		{"ready", "/api/v1/health/ready", nil, http.StatusOK},
		{"not ready", "/api/v1/health/ready", errors.New("down"), http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, fixtureRows(), nil, fakeStatus{pingErr: tt.pingErr}, nil)
			w, _ := env.do(t, http.MethodGet, tt.path, "")
			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
}

func TestHealth_ReportsDegradedStore(t *testing.T) {
	env := newTestEnv(t, fixtureRows(), nil, fakeStatus{pingErr: errors.New("down")}, nil)
	_, resp := env.do(t, http.MethodGet, "/api/v1/health", "")

	var health struct {
		Status  string `json:"status"`
		Backend string `json:"backend"`
		StoreOK bool   `json:"store_connected"`
	}
	decodeData(t, resp, &health)
	if health.Status != "degraded" || health.StoreOK {
		t.Errorf("health = %+v, want degraded and disconnected", health)
	}
	if health.Backend != "duckdb" {
		t.Errorf("backend = %q, want duckdb", health.Backend)
	}
}

func TestModesAndTimeOptions(t *testing.T) {
	env := newTestEnv(t, fixtureRows(), nil, nil, nil)

	_, resp := env.do(t, http.MethodGet, "/api/v1/dashboard/modes", "")
	var modes []dashboard.ModeInfo
	decodeData(t, resp, &modes)
	if len(modes) != 2 || modes[0].Label != "General Overview" || modes[1].Label != "Detailed Analysis" {
		t.Errorf("modes = %+v", modes)
	}

	_, resp = env.do(t, http.MethodGet, "/api/v1/time-options", "")
	var opts struct {
		Options      []string `json:"options"`
		DefaultStart string   `json:"default_start"`
		DefaultEnd   string   `json:"default_end"`
	}
	decodeData(t, resp, &opts)
	if len(opts.Options) != 24 {
		t.Fatalf("len(options) = %d, want 24", len(opts.Options))
	}
	if opts.DefaultStart != "00:00:00" || opts.DefaultEnd != "23:00:00" {
		t.Errorf("defaults = %s..%s, want 00:00:00..23:00:00", opts.DefaultStart, opts.DefaultEnd)
	}
}

func TestOverview(t *testing.T) {
	env := newTestEnv(t, fixtureRows(), nil, nil, nil)
	w, resp := env.do(t, http.MethodGet, "/api/v1/overview", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}

	var ov struct {
		viewSummary
		Views struct {
			TopStreets []traffic.StreetTotal `json:"top_streets"`
		} `json:"views"`
	}
	decodeData(t, resp, &ov)
	if ov.State != dashboard.StateOK || ov.RowCount != 3 || ov.TotalCount != 15 {
		t.Errorf("overview = %+v", ov.viewSummary)
	}
	if len(ov.Views.TopStreets) != 2 || ov.Views.TopStreets[0].StreetName != "Main" || ov.Views.TopStreets[0].Total != 12 {
		t.Errorf("top streets = %+v", ov.Views.TopStreets)
	}
}

func TestOverview_EmptyTable(t *testing.T) {
	env := newTestEnv(t, &fakeRows{}, nil, nil, nil)
	w, resp := env.do(t, http.MethodGet, "/api/v1/overview", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var ov viewSummary
	decodeData(t, resp, &ov)
	if ov.State != dashboard.StateEmpty || ov.Message != dashboard.MessageNoData {
		t.Errorf("overview = %+v, want empty state with no-data message", ov)
	}
}

func TestReloadOverview(t *testing.T) {
	rows := fixtureRows()
	env := newTestEnv(t, rows, nil, nil, nil)
	env.do(t, http.MethodGet, "/api/v1/overview", "")

	w, resp := env.do(t, http.MethodPost, "/api/v1/overview/reload", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var ov viewSummary
	decodeData(t, resp, &ov)
	if ov.RowCount != 3 {
		t.Errorf("row_count = %d, want 3", ov.RowCount)
	}
}

func TestServiceErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "data access error",
			err:        &store.DataAccessError{Op: "load_all", Err: errors.New("no such table: vehicle_counts_with_streets")},
			wantStatus: http.StatusInternalServerError,
			wantCode:   "DATA_ACCESS_ERROR",
		},
		{
			name:       "breaker open",
			err:        &store.DataAccessError{Op: "load_all", Err: gobreaker.ErrOpenState},
			wantStatus: http.StatusServiceUnavailable,
			wantCode:   "STORE_UNAVAILABLE",
		},
		{
			name:       "unexpected",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   "INTERNAL_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, &fakeRows{err: tt.err}, nil, nil, nil)
			for _, path := range []string{"/api/v1/overview", "/api/v1/streets"} {
				w, resp := env.do(t, http.MethodGet, path, "")
				if w.Code != tt.wantStatus {
					t.Errorf("%s: status = %d, want %d", path, w.Code, tt.wantStatus)
				}
				if resp.Error == nil || resp.Error.Code != tt.wantCode {
					t.Fatalf("%s: error = %+v, want code %s", path, resp.Error, tt.wantCode)
				}
			}
		})
	}
}

func TestDataAccessError_SurfacesMessage(t *testing.T) {
	dae := &store.DataAccessError{Op: "load_all", Err: errors.New("no such table")}
	env := newTestEnv(t, &fakeRows{err: dae}, nil, nil, nil)
	_, resp := env.do(t, http.MethodGet, "/api/v1/overview", "")
	if resp.Error == nil || resp.Error.Message != dae.Error() {
		t.Errorf("error = %+v, want message %q", resp.Error, dae.Error())
	}
}

func TestStreets(t *testing.T) {
	env := newTestEnv(t, fixtureRows(), nil, nil, nil)
	_, resp := env.do(t, http.MethodGet, "/api/v1/streets", "")
	var streets []string
	decodeData(t, resp, &streets)
	want := []string{traffic.AllStreets, "Main", "Oak"}
	if strings.Join(streets, ",") != strings.Join(want, ",") {
		t.Errorf("streets = %v, want %v", streets, want)
	}
}

func TestDetailed_Lifecycle(t *testing.T) {
	env := newTestEnv(t, fixtureRows(), nil, nil, nil)

	// Nothing submitted yet.
	w, resp := env.do(t, http.MethodGet, "/api/v1/detailed", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var view viewSummary
	decodeData(t, resp, &view)
	if view.State != dashboard.StateNoQuery || view.Message != dashboard.MessageNoQuery {
		t.Fatalf("initial view = %+v, want no_query", view)
	}

	w, resp = env.do(t, http.MethodPost, "/api/v1/detailed",
		`{"street":"Main","start_time":"10:00:00","end_time":"11:00:00"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("submit status = %d: %s", w.Code, w.Body.String())
	}
	view = viewSummary{}
	decodeData(t, resp, &view)
	if view.State != dashboard.StateOK || view.RowCount != 2 || view.TotalCount != 12 {
		t.Errorf("submitted view = %+v", view)
	}
	if view.Query == nil || view.Query.ID == "" || view.Query.Filter.Street != "Main" {
		t.Errorf("query echo = %+v", view.Query)
	}
	if view.Form == nil || view.Form.StartTime != "10:00:00" || view.Form.EndTime != "11:00:00" {
		t.Errorf("form echo = %+v, want 10:00:00..11:00:00", view.Form)
	}
	if resp.Metadata.Cached {
		t.Error("first submit reported a cache hit")
	}

	// Same query again is served from the view cache.
	_, resp = env.do(t, http.MethodGet, "/api/v1/detailed", "")
	if !resp.Metadata.Cached {
		t.Error("re-render did not report a cache hit")
	}
	view = viewSummary{}
	decodeData(t, resp, &view)
	if view.RowCount != 2 {
		t.Errorf("re-rendered row_count = %d, want 2", view.RowCount)
	}

	w, _ = env.do(t, http.MethodDelete, "/api/v1/detailed", "")
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d, want 204", w.Code)
	}
	_, resp = env.do(t, http.MethodGet, "/api/v1/detailed", "")
	view = viewSummary{}
	decodeData(t, resp, &view)
	if view.State != dashboard.StateNoQuery {
		t.Errorf("state after delete = %q, want no_query", view.State)
	}
}

func TestSubmitDetailed_Filters(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantState string
		wantRows  int
	}{
		{"all streets full day", `{"street":"All","start_time":"00:00:00","end_time":"23:00:00"}`, dashboard.StateOK, 3},
		{"empty street means all", `{"street":"","start_time":"00:00:00","end_time":"23:00:00"}`, dashboard.StateOK, 3},
		{"inverted range selects nothing", `{"street":"All","start_time":"23:00:00","end_time":"01:00:00"}`, dashboard.StateEmpty, 0},
		{"unknown street", `{"street":"Elm","start_time":"00:00:00","end_time":"23:00:00"}`, dashboard.StateEmpty, 0},
		{"bounding box", `{"start_time":"00:00:00","end_time":"23:00:00","lat_min":1.5,"lat_max":2.5,"lon_min":1.5,"lon_max":2.5}`, dashboard.StateOK, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, fixtureRows(), nil, nil, nil)
			w, resp := env.do(t, http.MethodPost, "/api/v1/detailed", tt.body)
			if w.Code != http.StatusOK {
				t.Fatalf("status = %d: %s", w.Code, w.Body.String())
			}
			var view viewSummary
			decodeData(t, resp, &view)
			if view.State != tt.wantState || view.RowCount != tt.wantRows {
				t.Errorf("view = %+v, want state %s with %d rows", view, tt.wantState, tt.wantRows)
			}
			if tt.wantState == dashboard.StateEmpty && view.Message != dashboard.MessageNoData {
				t.Errorf("message = %q, want %q", view.Message, dashboard.MessageNoData)
			}
		})
	}
}

func TestSubmitDetailed_BadRequests(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantCode string
	}{
		{"malformed json", `{"street":`, "INVALID_JSON"},
		{"empty body", ``, "INVALID_JSON"},
		{"unknown field", `{"start_time":"00:00:00","end_time":"01:00:00","color":"red"}`, "INVALID_JSON"},
		{"missing start", `{"end_time":"01:00:00"}`, "VALIDATION_ERROR"},
		{"bad time", `{"start_time":"25:00:00","end_time":"01:00:00"}`, "VALIDATION_ERROR"},
		{"half bounding box", `{"start_time":"00:00:00","end_time":"01:00:00","lat_min":1}`, "VALIDATION_ERROR"},
		{"latitude out of range", `{"start_time":"00:00:00","end_time":"01:00:00","lat_min":-91,"lat_max":0}`, "VALIDATION_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, fixtureRows(), nil, nil, nil)
			w, resp := env.do(t, http.MethodPost, "/api/v1/detailed", tt.body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", w.Code)
			}
			if resp.Error == nil || resp.Error.Code != tt.wantCode {
				t.Errorf("error = %+v, want code %s", resp.Error, tt.wantCode)
			}
		})
	}
}

func TestDetailed_StateStoreFailure(t *testing.T) {
	env := newTestEnv(t, fixtureRows(), brokenState{}, nil, nil)

	cases := []struct{ method, body string }{
		{http.MethodGet, ""},
		{http.MethodPost, `{"start_time":"00:00:00","end_time":"01:00:00"}`},
		{http.MethodDelete, ""},
	}
	for _, c := range cases {
		w, resp := env.do(t, c.method, "/api/v1/detailed", c.body)
		if w.Code != http.StatusInternalServerError {
			t.Errorf("%s: status = %d, want 500", c.method, w.Code)
		}
		if resp.Error == nil || resp.Error.Code != "STATE_ERROR" {
			t.Errorf("%s: error = %+v, want STATE_ERROR", c.method, resp.Error)
		}
	}
}

func TestResponseHeaders(t *testing.T) {
	env := newTestEnv(t, fixtureRows(), nil, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/streets", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w := httptest.NewRecorder()
	env.handler.ServeHTTP(w, req)

	checks := map[string]string{
		"X-Request-ID":           "abc-123",
		"X-Content-Type-Options": "nosniff",
		"X-Frame-Options":        "DENY",
		"Content-Type":           "application/json",
		"Cache-Control":          "private, no-cache",
	}
	for header, want := range checks {
		if got := w.Header().Get(header); got != want {
			t.Errorf("%s = %q, want %q", header, got, want)
		}
	}
	if etag := w.Header().Get("ETag"); !strings.HasPrefix(etag, `W/"`) {
		t.Errorf("ETag = %q, want weak validator", etag)
	}
}

func TestRateLimit(t *testing.T) {
	cfg := DefaultChiMiddlewareConfig()
	cfg.RateLimitRequests = 1
	cfg.RateLimitWindow = time.Minute
	env := newTestEnv(t, fixtureRows(), nil, nil, cfg)

	before := testutil.ToFloat64(metrics.APIRateLimitHits.WithLabelValues("api"))

	w, _ := env.do(t, http.MethodGet, "/api/v1/streets", "")
	if w.Code != http.StatusOK {
		t.Fatalf("first request status = %d, want 200", w.Code)
	}
	w, resp := env.do(t, http.MethodGet, "/api/v1/streets", "")
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("second request status = %d, want 429", w.Code)
	}
	if resp.Error == nil || resp.Error.Code != "RATE_LIMIT_EXCEEDED" {
		t.Errorf("error = %+v, want RATE_LIMIT_EXCEEDED", resp.Error)
	}
	if got := testutil.ToFloat64(metrics.APIRateLimitHits.WithLabelValues("api")); got != before+1 {
		t.Errorf("rate limit hits = %v, want %v", got, before+1)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t, fixtureRows(), nil, nil, nil)
	env.do(t, http.MethodGet, "/api/v1/overview", "")

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	env.handler.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "api_requests_total") {
		t.Error("metrics output missing api_requests_total")
	}
}
