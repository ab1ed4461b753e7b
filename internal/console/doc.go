// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package console is a reference host for the command registry: an
// interactive terminal that issues commands as the server console or as
// one of the simulated players from the configuration.
//
// # Key Types
//
//   - Console: registry, builtins, scheduler and output wiring
//   - Directory: the simulated players, rebuilt on config reload
//   - Renderer: severity-aware output styling
//
// An unknown command is followed by a "Did you mean" hint when a visible
// command is within a few edits.
//
// Lines starting with ':' are console directives rather than commands:
//
//	:as <player>   issue commands as a simulated player
//	:as server     issue commands as the console again
//	:who           list simulated players
//	:quit          leave the console
package console
