// Kahani - Hybrid Media Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Srijan272002/Kahani-sub000

/*
Package api exposes the recommendation engine over HTTP using the chi router.

Endpoints:

	GET  /api/v1/recommendations/{userID}?kind=movie&page=1
	POST /api/v1/recommendations/explain
	POST /api/v1/recommendations/{userID}/feedback
	GET  /api/v1/health/live
	GET  /api/v1/health/ready
	GET  /metrics

Every JSON response uses the models.APIResponse envelope. Engine errors map
to HTTP statuses as follows:

  - recommend.ErrInvalidUser: 404 NOT_FOUND
  - validation failures and recommend.ErrInvalidRequest: 400 VALIDATION_ERROR
  - recommend.ErrUpstreamUnavailable: 503 SERVICE_UNAVAILABLE
  - anything else: 500 INTERNAL_ERROR

Middleware stack (outermost first): request ID, access log, real IP, panic
recovery, CORS, then per-group rate limiting (go-chi/httprate), security
headers and Prometheus instrumentation.
*/
package api
