// GridWatch - Traffic Count Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gridwatch

// Package validation provides struct validation using go-playground/validator v10.
//
// A single validator instance is built on first use. It reports fields by
// their JSON names and registers the custom "timeofday" tag, which accepts
// "HH:MM" and "HH:MM:SS".
//
// # Usage
//
//	var req validation.DetailedQueryRequest
//	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
//	    // handle decode error
//	}
//	if verr := req.Validate(); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
//	    return
//	}
//	filter := req.Filter()
//
// # Error Format
//
// Failures are returned as *RequestValidationError. ToAPIError converts them
// to the VALIDATION_ERROR envelope: one error yields its message plus
// field/tag/value details, several errors are joined with "; " and listed
// under details.fields.
package validation
