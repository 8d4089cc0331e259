// Kahani - Hybrid Media Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Srijan272002/Kahani-sub000

// Package logging provides centralized zerolog-based structured logging for Kahani.
//
// JSON output is the default for production; console output is available for
// development. Request-scoped fields (request_id, user_id) travel on the
// context and are attached by Ctx.
//
// # Quick Start
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//
//	logging.Info().Str("addr", addr).Msg("Server starting")
//	logging.Ctx(ctx).Warn().Str("strategy", "collaborative").Msg("Scorer degraded")
//
// # Component Loggers
//
// Long-lived components take a zerolog.Logger at construction so tests can
// pass zerolog.Nop():
//
//	engine := recommend.NewEngine(cfg, deps, logging.WithComponent("recommend"))
//
// # Supervisor Integration
//
// NewSlogLogger bridges zerolog to log/slog for sutureslog, which reports
// supervisor events (service restarts, backoff) through slog.
//
// # Best Practices
//
// Always terminate log chains with .Msg() or .Send():
//
//	logging.Info().Str("key", "value").Msg("message")  // Correct
//	logging.Info().Str("key", "value")                 // WRONG - log not emitted
package logging
