// Kahani - Hybrid Media Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Srijan272002/Kahani-sub000

package recommend

import "errors"

var (
	// ErrUpstreamUnavailable means the catalog or history store failed or
	// timed out. The engine substitutes an empty list for that input.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")

	// ErrInvalidUser means the user id is unknown. It is returned to the
	// caller and never retried.
	ErrInvalidUser = errors.New("invalid user")

	// ErrInvalidRequest means the request failed validation.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrUnknownStrategy means no scorer is registered for a strategy.
	ErrUnknownStrategy = errors.New("unknown strategy")
)
