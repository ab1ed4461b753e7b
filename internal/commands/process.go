// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import "sync"

var (
	processMu sync.RWMutex
	process   *Registry
)

// Init constructs the process registry, replacing any previous one. It must
// run before Command.Register or Option.Register.
func Init(opts ...RegistryOption) *Registry {
	r := NewRegistry(opts...)
	processMu.Lock()
	process = r
	processMu.Unlock()
	return r
}

// Default returns the process registry, or nil before Init.
func Default() *Registry {
	processMu.RLock()
	defer processMu.RUnlock()
	return process
}

// Teardown discards the process registry.
func Teardown() {
	processMu.Lock()
	process = nil
	processMu.Unlock()
}
