// GridWatch - Traffic Count Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gridwatch

// Package models defines the HTTP envelope shared by every API endpoint.
//
// Dashboard payloads live with the code that builds them in package
// dashboard; this package only holds the wrapper (APIResponse), its
// metadata, the error body and the health payload.
package models
