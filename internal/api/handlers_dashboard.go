// GridWatch - Traffic Count Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gridwatch

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/gridwatch/internal/dashboard"
	"github.com/tomtom215/gridwatch/internal/logging"
	"github.com/tomtom215/gridwatch/internal/validation"
)

// Modes lists the dashboard modes for the sidebar selector.
func (h *Handler) Modes(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, dashboard.Modes(), time.Now(), false)
}

// Overview renders the General Overview from the memoized full table.
func (h *Handler) Overview(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ov, err := h.svc.Overview(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondSuccess(w, ov, start, false)
}

// ReloadOverview invalidates the memo and renders a fresh overview.
func (h *Handler) ReloadOverview(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ov, err := h.svc.Reload(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondSuccess(w, ov, start, false)
}

// Streets returns the street selector options, "All" first.
func (h *Handler) Streets(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	streets, err := h.svc.Streets(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondSuccess(w, streets, start, false)
}

// TimeOptions returns the hourly start and end time selector.
func (h *Handler) TimeOptions(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, dashboard.HourlyTimeOptions(), time.Now(), false)
}

// detailedResponse adds the sidebar form values of the submitted query so
// clients can restore the inputs that produced the view.
type detailedResponse struct {
	*dashboard.Detailed
	Form *validation.DetailedQueryRequest `json:"form,omitempty"`
}

func newDetailedResponse(view *dashboard.Detailed) detailedResponse {
	resp := detailedResponse{Detailed: view}
	if view.Query != nil {
		form := validation.RequestFromFilter(view.Query.Filter)
		resp.Form = &form
	}
	return resp
}

// SubmitDetailed stores the posted query and renders its Detailed Analysis.
func (h *Handler) SubmitDetailed(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req validation.DetailedQueryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		logging.Ctx(r.Context()).Debug().Str("error", logging.Sanitize(apiErr.Message)).Msg("Rejected detailed query")
		respondErrorDetails(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details, nil)
		return
	}

	view, cached, err := h.svc.Submit(r.Context(), req.Filter())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondSuccess(w, newDetailedResponse(view), start, cached)
}

// GetDetailed re-renders the last submitted query, or the no_query state.
func (h *Handler) GetDetailed(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	view, cached, err := h.svc.Current(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondSuccess(w, newDetailedResponse(view), start, cached)
}

// DeleteDetailed forgets the submitted query.
func (h *Handler) DeleteDetailed(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Clear(r.Context()); err != nil {
		respondServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
