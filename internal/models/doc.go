// Kahani - Hybrid Media Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Srijan272002/Kahani-sub000

/*
Package models defines the HTTP wire types shared by the API handlers.

Every endpoint answers with the APIResponse envelope:

	{
	  "status": "success",
	  "data": {...},
	  "metadata": {"timestamp": "2026-03-14T20:00:00Z", "query_time_ms": 12, "cached": false}
	}

Errors carry a machine-readable code:

	{
	  "status": "error",
	  "data": null,
	  "metadata": {"timestamp": "2026-03-14T20:00:00Z", "query_time_ms": 0, "cached": false},
	  "error": {"code": "VALIDATION_ERROR", "message": "...", "details": {"field": "kind"}}
	}

Domain types (RankedResult, Explanation and friends) live in the recommend
package and are embedded in the response payloads defined here.
*/
package models
