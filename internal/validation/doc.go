// Kahani - Hybrid Media Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Srijan272002/Kahani-sub000

// Package validation provides struct validation using go-playground/validator v10.
//
// A single validator instance is shared process-wide (it caches struct
// metadata). Field names in errors use the json tag, so API clients see the
// same names they sent. Two custom tags are registered:
//
//   - mediakind: the value parses as a media kind (movie, tv, book or an alias)
//   - strategy: the value names a known recommendation strategy
//
// Example usage:
//
//	type feedbackBody struct {
//	    ItemID string `json:"item_id" validate:"required,max=128"`
//	    Signal string `json:"signal" validate:"required,oneof=positive negative"`
//	}
//
//	if verr := validation.ValidateStruct(&body); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, verr)
//	    return
//	}
package validation
