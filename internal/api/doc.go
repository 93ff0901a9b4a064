// GridWatch - Traffic Count Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gridwatch

/*
Package api provides the HTTP surface of the GridWatch dashboard.

Every response uses the models.APIResponse envelope. Successful
responses carry the view under "data". Failures carry a code and a
message under "error":

  - VALIDATION_ERROR (400): the detailed query body failed validation
  - INVALID_JSON (400): the body could not be decoded
  - DATA_ACCESS_ERROR (500): the row store failed; the request is not retried
  - STORE_UNAVAILABLE (503): the circuit breaker rejected the call
  - STATE_ERROR (500): the submitted-query store failed
  - RATE_LIMIT_EXCEEDED (429)

An empty filter result is not an error: views come back with state
"empty" and the no-data message.

# Middleware

Global middleware runs in this order: request ID, real IP, panic
recovery, CORS, response compression. The /api/v1 group adds per-IP
rate limiting (go-chi/httprate), security headers and Prometheus
request metrics. Reloads have their own stricter limit.

# Caching

Responses carry a weak ETag and "Cache-Control: private, no-cache".
Detailed views are cached server-side by filter; metadata.cached
reports a hit.
*/
package api
