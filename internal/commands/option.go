// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"strings"

	"github.com/jeranaias/slashcmd/internal/sender"
)

// =============================================================================
// VALUE PROVIDERS
// =============================================================================

// ValueProvider supplies the candidate values of a dynamic option for one
// sender. It is called on every resolution and completion, possibly from
// several goroutines at once.
type ValueProvider interface {
	Values(s sender.Sender) []string
}

// ProviderFunc adapts a function to a ValueProvider.
type ProviderFunc func(s sender.Sender) []string

// Values implements ValueProvider.
func (f ProviderFunc) Values(s sender.Sender) []string {
	return f(s)
}

// =============================================================================
// OPTION
// =============================================================================

// Option is a named vocabulary usable as a parameter type. A static option
// has a fixed value list; a dynamic option computes its values per sender.
type Option struct {
	name     string
	values   []string
	provider ValueProvider
}

// NewStaticOption creates an option with a fixed value list.
func NewStaticOption(name string, values ...string) *Option {
	return &Option{name: name, values: append([]string(nil), values...)}
}

// NewDynamicOption creates an option whose values are computed per sender.
func NewDynamicOption(name string, provider ValueProvider) *Option {
	return &Option{name: name, provider: provider}
}

// Name returns the option name, which is also its parameter type name.
func (o *Option) Name() string { return o.name }

// Dynamic reports whether values are computed per sender.
func (o *Option) Dynamic() bool { return o.provider != nil }

// Candidates returns the acceptable values for s. The returned slice is a
// copy.
func (o *Option) Candidates(s sender.Sender) []string {
	if o.provider != nil {
		return append([]string(nil), o.provider.Values(s)...)
	}
	return append([]string(nil), o.values...)
}

// Register adds the option to the process registry.
func (o *Option) Register() error {
	r := Default()
	if r == nil {
		return ErrNotInitialized
	}
	return r.RegisterCommandOption(o)
}

// match returns the canonical candidate equal to token. Exact matches win
// over case-insensitive ones.
func (o *Option) match(s sender.Sender, token string) (string, bool) {
	candidates := o.Candidates(s)
	for _, c := range candidates {
		if c == token {
			return c, true
		}
	}
	for _, c := range candidates {
		if strings.EqualFold(c, token) {
			return c, true
		}
	}
	return "", false
}

func (o *Option) validate() error {
	if err := validateName(o.name); err != nil {
		return declErr(DeclInvalidName, o.name, "option %s", err)
	}
	if IsPrimitive(ParamType(o.name)) {
		return declErr(DeclInvalidName, o.name, "option name shadows a primitive type")
	}
	if o.provider == nil {
		if len(o.values) == 0 {
			return declErr(DeclInvalidValue, o.name, "static option has no values")
		}
		for _, v := range o.values {
			if v == "" || strings.ContainsFunc(v, isSpace) {
				return declErr(DeclInvalidValue, o.name, "option value %q must be a single non-empty token", v)
			}
		}
	}
	return nil
}
