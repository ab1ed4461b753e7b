// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package builtin provides the stock commands every host registers:
// help, execute and say, plus entity selector resolution against the host's
// player directory.
//
// # Usage
//
//	set, err := builtin.Register(registry, directory,
//		builtin.WithBroadcastSink(consoleOutbox),
//	)
package builtin
