// GridWatch - Traffic Count Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gridwatch

package metrics

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

// TestRecordStoreQuery tests row store query metric recording
func TestRecordStoreQuery(t *testing.T) {
	tests := []struct {
		name      string
		backend   string
		operation string
		duration  time.Duration
		err       error
	}{
		{
			name:      "successful full load",
			backend:   "duckdb",
			operation: "load_all",
			duration:  10 * time.Millisecond,
		},
		{
			name:      "successful filtered query",
			backend:   "postgres",
			operation: "query",
			duration:  5 * time.Millisecond,
		},
		{
			name:      "failed query with short error",
			backend:   "duckdb",
			operation: "streets",
			duration:  100 * time.Millisecond,
			err:       errors.New("connection refused"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			RecordStoreQuery(tt.backend, tt.operation, tt.duration, tt.err)
		})
	}
}

// TestRecordStoreQuery_ErrorTruncation verifies error labels are truncated at 50 chars
func TestRecordStoreQuery_ErrorTruncation(t *testing.T) {
	long := strings.Repeat("c", 100)
	RecordStoreQuery("duckdb", "truncation", time.Millisecond, errors.New(long))

	got := testutil.ToFloat64(StoreQueryErrors.WithLabelValues("duckdb", "truncation", long[:50]))
	if got != 1 {
		t.Errorf("expected truncated error label to be counted once, got %v", got)
	}
}

func TestRecordDatasetLoad(t *testing.T) {
	before := testutil.ToFloat64(DatasetLoads.WithLabelValues("loaded"))

	RecordDatasetLoad(250*time.Millisecond, 1200, 3)

	if got := testutil.ToFloat64(DatasetLoads.WithLabelValues("loaded")); got != before+1 {
		t.Errorf("loads = %v, want %v", got, before+1)
	}
	if got := testutil.ToFloat64(DatasetRows); got != 1200 {
		t.Errorf("rows gauge = %v, want 1200", got)
	}
	if got := testutil.ToFloat64(DatasetUnparsedTimestamps); got != 3 {
		t.Errorf("unparsed gauge = %v, want 3", got)
	}
}

func TestRecordDashboardRequest(t *testing.T) {
	before := testutil.ToFloat64(DashboardRequests.WithLabelValues("detailed", "empty"))
	RecordDashboardRequest("detailed", "empty")
	RecordDashboardRequest("detailed", "empty")

	if got := testutil.ToFloat64(DashboardRequests.WithLabelValues("detailed", "empty")); got != before+2 {
		t.Errorf("requests = %v, want %v", got, before+2)
	}
}

// TestRecordAPIRequest tests API request metric recording
func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/overview", "200"))
	RecordAPIRequest("GET", "/api/v1/overview", "200", 25*time.Millisecond)

	if got := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/overview", "200")); got != before+1 {
		t.Errorf("requests = %v, want %v", got, before+1)
	}
}

func TestTrackActiveRequest(t *testing.T) {
	before := testutil.ToFloat64(APIActiveRequests)
	TrackActiveRequest(true)
	if got := testutil.ToFloat64(APIActiveRequests); got != before+1 {
		t.Errorf("after inc = %v, want %v", got, before+1)
	}
	TrackActiveRequest(false)
	if got := testutil.ToFloat64(APIActiveRequests); got != before {
		t.Errorf("after dec = %v, want %v", got, before)
	}
}

func TestSetAppInfo(t *testing.T) {
	SetAppInfo("1.2.3", "go1.24")
	if got := testutil.ToFloat64(AppInfo.WithLabelValues("1.2.3", "go1.24")); got != 1 {
		t.Errorf("app_info = %v, want 1", got)
	}
}
