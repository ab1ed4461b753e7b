// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package sender models whoever or whatever issued a command.
//
// The variant set is closed: the Sender interface is sealed and only the
// types in this package implement it. Use Kind for exhaustive switches.
//
// # Variants
//
//   - Console: the server console, named "Server", always operator
//   - BlockSender: a command block or custom block, never operator
//   - Script: the script engine, named "Script Engine", never operator
//   - PlayerSender: a host player; operator status and level come from the host
//   - Proxied: a caller/callee pair modelling "/execute as"
//
// A Proxied sender reports to its caller (messages, permissions) but acts at
// its callee (location, dimension).
//
// # Usage
//
//	out := sender.NewOutbox()
//	console := sender.NewConsole(registry.Runner(), out)
//	resp, err := console.RunCommand("help")
package sender
