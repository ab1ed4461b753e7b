// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"strings"
	"sync/atomic"

	"github.com/jeranaias/slashcmd/internal/response"
	"github.com/jeranaias/slashcmd/internal/sender"
)

// =============================================================================
// COMMAND DEFINITION
// =============================================================================

// Executor runs a resolved command. Returning an error (or panicking) is
// reported to the sender as a FAILURE; it never reaches the host.
type Executor func(s sender.Sender, args Args, cmd *Command) (response.Response, error)

// DefaultCategory groups commands that do not set one.
const DefaultCategory = "General"

type overloadMode int

const (
	modeNone overloadMode = iota
	modeImplicit
	modeExplicit
)

// Command is a declared slash command. Builder methods record the first
// declaration error on the command and return it for chaining; the error is
// reported by Err and by registration. A registered command is frozen.
type Command struct {
	name           string
	description    string
	aliases        []string
	requiresCheats bool
	permission     int
	category       string
	hidden         bool

	overloads []*Overload
	mode      overloadMode
	executor  Executor

	err    error
	frozen atomic.Bool
}

// New declares a command. Commands require cheats and permission level 0 by
// default.
func New(name, description string, aliases ...string) *Command {
	c := &Command{
		name:           name,
		description:    description,
		requiresCheats: true,
		category:       DefaultCategory,
	}
	if err := validateName(name); err != nil {
		c.fail(declErr(DeclInvalidName, name, "command %s", err))
	}
	if strings.TrimSpace(description) == "" {
		c.fail(declErr(DeclInvalidValue, name, "description must not be empty"))
	}
	c.SetAliases(aliases...)
	return c
}

func (c *Command) fail(err error) {
	if c.err == nil {
		c.err = err
	}
}

// mutable records a freeze violation and reports whether mutation may go on.
func (c *Command) mutable() bool {
	if c.frozen.Load() {
		c.fail(declErr(DeclFrozen, c.name, "command cannot be changed after registration"))
		return false
	}
	return true
}

// =============================================================================
// BUILDER
// =============================================================================

// SetAliases replaces the alias list.
func (c *Command) SetAliases(aliases ...string) *Command {
	if !c.mutable() {
		return c
	}
	seen := make(map[string]bool, len(aliases))
	out := make([]string, 0, len(aliases))
	for _, a := range aliases {
		if err := validateName(a); err != nil {
			c.fail(declErr(DeclInvalidName, c.name, "alias %q: %s", a, err))
			return c
		}
		if a == c.name || seen[a] {
			c.fail(declErr(DeclDuplicateName, c.name, "alias %q repeats a name of this command", a))
			return c
		}
		seen[a] = true
		out = append(out, a)
	}
	c.aliases = out
	return c
}

// SetRequiresCheats sets whether the command needs cheat mode.
func (c *Command) SetRequiresCheats(required bool) *Command {
	if c.mutable() {
		c.requiresCheats = required
	}
	return c
}

// SetPermissionLevel sets the minimum sender level.
func (c *Command) SetPermissionLevel(level int) *Command {
	if !c.mutable() {
		return c
	}
	if level < 0 {
		c.fail(declErr(DeclInvalidValue, c.name, "permission level %d is negative", level))
		return c
	}
	c.permission = level
	return c
}

// SetCategory sets the help grouping.
func (c *Command) SetCategory(category string) *Command {
	if c.mutable() && category != "" {
		c.category = category
	}
	return c
}

// SetHidden hides the command from help and completion.
func (c *Command) SetHidden(hidden bool) *Command {
	if c.mutable() {
		c.hidden = hidden
	}
	return c
}

// SetExecutor sets the function run on a successful resolution.
func (c *Command) SetExecutor(fn Executor) *Command {
	if c.mutable() {
		c.executor = fn
	}
	return c
}

// AddParam appends a parameter to the command's single overload, creating
// it if needed. It conflicts with a command that already has several
// overloads.
func (c *Command) AddParam(p OverloadParam) *Command {
	if !c.mutable() {
		return c
	}
	if len(c.overloads) > 1 {
		c.fail(declErr(DeclOverloadConflict, c.name, "AddParam used on a command with %d overloads", len(c.overloads)))
		return c
	}
	if len(c.overloads) == 0 {
		c.overloads = []*Overload{NewOverload()}
	}
	o := c.overloads[0]
	o.AddParam(p)
	if o.err != nil {
		c.fail(o.err)
		return c
	}
	c.mode = modeImplicit
	return c
}

// SetParams replaces the command's single overload.
func (c *Command) SetParams(params ...OverloadParam) *Command {
	if !c.mutable() {
		return c
	}
	if len(c.overloads) > 1 {
		c.fail(declErr(DeclOverloadConflict, c.name, "SetParams used on a command with %d overloads", len(c.overloads)))
		return c
	}
	o := NewOverload(params...)
	if o.err != nil {
		c.fail(o.err)
		return c
	}
	c.overloads = []*Overload{o}
	c.mode = modeImplicit
	return c
}

// AddOverload appends an overload. It conflicts with parameters declared
// through AddParam or SetParams.
func (c *Command) AddOverload(o *Overload) *Command {
	if !c.mutable() {
		return c
	}
	if c.mode == modeImplicit {
		c.fail(declErr(DeclOverloadConflict, c.name, "AddOverload mixed with AddParam/SetParams"))
		return c
	}
	if o == nil {
		o = NewOverload()
	}
	if o.err != nil {
		c.fail(o.err)
		return c
	}
	c.overloads = append(c.overloads, o)
	c.mode = modeExplicit
	return c
}

// SetOverloads replaces every overload.
func (c *Command) SetOverloads(overloads ...*Overload) *Command {
	if !c.mutable() {
		return c
	}
	if c.mode == modeImplicit {
		c.fail(declErr(DeclOverloadConflict, c.name, "SetOverloads mixed with AddParam/SetParams"))
		return c
	}
	c.overloads = nil
	c.mode = modeNone
	for _, o := range overloads {
		c.AddOverload(o)
	}
	return c
}

// =============================================================================
// ACCESSORS
// =============================================================================

// Name returns the primary name.
func (c *Command) Name() string { return c.name }

// Description returns the help text.
func (c *Command) Description() string { return c.description }

// Aliases returns a copy of the aliases.
func (c *Command) Aliases() []string { return append([]string(nil), c.aliases...) }

// RequiresCheats reports whether cheat mode must be on.
func (c *Command) RequiresCheats() bool { return c.requiresCheats }

// PermissionLevel implements sender.PermissionGated.
func (c *Command) PermissionLevel() int { return c.permission }

// Category returns the help grouping.
func (c *Command) Category() string { return c.category }

// Hidden reports whether the command is left out of help and completion.
func (c *Command) Hidden() bool { return c.hidden }

// Overloads returns the overloads in declaration order.
func (c *Command) Overloads() []*Overload { return append([]*Overload(nil), c.overloads...) }

// Registered reports whether the command has been registered.
func (c *Command) Registered() bool { return c.frozen.Load() }

// Err returns the first declaration error.
func (c *Command) Err() error { return c.err }

// UsageMessage lists every overload, one per line, in declaration order.
func (c *Command) UsageMessage() string {
	if len(c.overloads) == 0 {
		return "/" + c.name
	}
	lines := make([]string, len(c.overloads))
	for i, o := range c.overloads {
		if o.Len() == 0 {
			lines[i] = "/" + c.name
			continue
		}
		lines[i] = "/" + c.name + " " + o.Usage()
	}
	return strings.Join(lines, "\n")
}

// Register adds the command to the process registry.
func (c *Command) Register() error {
	r := Default()
	if r == nil {
		return ErrNotInitialized
	}
	return r.RegisterCommand(c)
}

// MustRegister is like Register but panics on error.
func (c *Command) MustRegister() *Command {
	if err := c.Register(); err != nil {
		panic(err)
	}
	return c
}

// names returns the primary name followed by the aliases.
func (c *Command) names() []string {
	return append([]string{c.name}, c.aliases...)
}
