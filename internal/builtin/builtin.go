// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package builtin

import (
	"fmt"
	"math/rand/v2"

	"github.com/jeranaias/slashcmd/internal/commands"
	"github.com/jeranaias/slashcmd/internal/sender"
)

// =============================================================================
// DIRECTORY
// =============================================================================

// Directory lists the players currently known to the host.
type Directory interface {
	Players() []sender.Sender
}

// DirectoryFunc adapts a function to a Directory.
type DirectoryFunc func() []sender.Sender

// Players implements Directory.
func (f DirectoryFunc) Players() []sender.Sender { return f() }

// =============================================================================
// SET
// =============================================================================

// DefaultPageSize is the number of commands per help page.
const DefaultPageSize = 7

// CategoryBuiltin is the help category of the stock commands.
const CategoryBuiltin = "Built-in"

// Set is the registered stock commands and the state they share.
type Set struct {
	registry  *commands.Registry
	directory Directory
	broadcast sender.MessageSink
	pageSize  int
	intn      func(n int) int
}

// Option configures a Set.
type Option func(*Set)

// WithPageSize sets the number of commands per help page.
func WithPageSize(n int) Option {
	return func(s *Set) {
		if n > 0 {
			s.pageSize = n
		}
	}
}

// WithBroadcastSink also delivers say broadcasts to sink, usually the
// console outbox.
func WithBroadcastSink(sink sender.MessageSink) Option {
	return func(s *Set) { s.broadcast = sink }
}

// WithRandom replaces the source used by @r. intn must return a value in
// [0, n).
func WithRandom(intn func(n int) int) Option {
	return func(s *Set) {
		if intn != nil {
			s.intn = intn
		}
	}
}

// Register declares the stock commands and their options on r.
func Register(r *commands.Registry, dir Directory, opts ...Option) (*Set, error) {
	if r == nil {
		return nil, commands.ErrNotInitialized
	}
	if dir == nil {
		dir = DirectoryFunc(func() []sender.Sender { return nil })
	}
	s := &Set{
		registry:  r,
		directory: dir,
		pageSize:  DefaultPageSize,
		intn:      rand.IntN,
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := r.RegisterCommandOption(s.options()...); err != nil {
		return nil, fmt.Errorf("register builtin options: %w", err)
	}
	if err := r.RegisterCommand(s.helpCommand(), s.executeCommand(), s.sayCommand()); err != nil {
		return nil, fmt.Errorf("register builtin commands: %w", err)
	}
	r.Logger().Debug("builtin commands registered", "page_size", s.pageSize)
	return s, nil
}

// Names of the options the stock commands declare.
const (
	OptionCommandName = "CommandName"
	OptionExecuteAs   = "ExecuteAs"
	OptionExecuteRun  = "ExecuteRun"
)

func (s *Set) options() []*commands.Option {
	return []*commands.Option{
		commands.NewDynamicOption(OptionCommandName, commands.ProviderFunc(s.commandNames)),
		commands.NewStaticOption(OptionExecuteAs, "as"),
		commands.NewStaticOption(OptionExecuteRun, "run"),
	}
}

// visible returns the commands s may see, in registration order.
func (s *Set) visible(who sender.Sender) []*commands.Command {
	var out []*commands.Command
	for _, c := range s.registry.CommandList() {
		if c.Hidden() || !who.HasSufficientPermission(c) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// commandNames provides the CommandName option: every visible name and alias.
func (s *Set) commandNames(who sender.Sender) []string {
	var names []string
	for _, c := range s.visible(who) {
		names = append(names, c.Name())
		names = append(names, c.Aliases()...)
	}
	return names
}
