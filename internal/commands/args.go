// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"fmt"
	"strconv"
)

// Arg is one bound argument.
type Arg struct {
	Name   string
	Type   ParamType
	Value  string   // canonical value, or the joined tokens for multi-token types
	Tokens []string // raw tokens consumed
}

// Args is the ordered list of arguments bound by resolution. Trailing
// optional parameters that were not supplied are absent.
type Args []Arg

// Len returns the number of bound arguments.
func (a Args) Len() int { return len(a) }

// At returns the value at position i, or "" when absent.
func (a Args) At(i int) string {
	if i < 0 || i >= len(a) {
		return ""
	}
	return a[i].Value
}

// Has reports whether position i was bound.
func (a Args) Has(i int) bool {
	return i >= 0 && i < len(a)
}

// Values returns the bound values in order.
func (a Args) Values() []string {
	out := make([]string, len(a))
	for i, arg := range a {
		out[i] = arg.Value
	}
	return out
}

// Int parses the value at position i as an integer.
func (a Args) Int(i int) (int, error) {
	if !a.Has(i) {
		return 0, fmt.Errorf("argument %d missing", i)
	}
	n, err := strconv.Atoi(a[i].Value)
	if err != nil {
		return 0, fmt.Errorf("argument %s: %w", a[i].Name, err)
	}
	return n, nil
}

// Bool parses the value at position i as a boolean.
func (a Args) Bool(i int) (bool, error) {
	if !a.Has(i) {
		return false, fmt.Errorf("argument %d missing", i)
	}
	b, err := strconv.ParseBool(a[i].Value)
	if err != nil {
		return false, fmt.Errorf("argument %s: %w", a[i].Name, err)
	}
	return b, nil
}
