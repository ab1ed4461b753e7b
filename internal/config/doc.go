// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for slashcmd.
//
// Configuration is a TOML file with sensible defaults, environment variable
// overrides and validation. A .env file in the working directory is loaded
// into the environment before overrides are applied.
//
// # Key Types
//
//   - Config: main configuration structure with all settings
//   - AsyncConfig: deferred command queue settings
//   - RateLimitConfig: per-player command rate limit
//   - ConsoleConfig: interactive console settings
//   - PlayerConfig: a simulated player for the console host
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (SLASHCMD_*), including those set by .env
//   - ~/.slashcmd/config.toml, or the path given with --config
//   - Built-in defaults
//
// # Usage
//
// Load configuration:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Reload on change:
//
//	err := config.Watch(ctx, path, 250*time.Millisecond, func(cfg *config.Config, err error) {
//	    ...
//	})
package config
