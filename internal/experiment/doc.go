// Kahani - Hybrid Media Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Srijan272002/Kahani-sub000

// Package experiment decides which scoring strategy a user is served.
//
// Resolution order:
//  1. Per-user overrides from configuration
//  2. The persisted assignment table (database.Store)
//  3. Rollout percentages, bucketed by an xxhash of salt and user id
//  4. No assignment, which the engine treats as hybrid
//
// Bucketing is deterministic: the same user, salt and rollout table always map
// to the same strategy, so a user never flips between strategies across
// requests. Changing the salt reshuffles every user.
package experiment
