// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"fmt"
	"strings"
)

// =============================================================================
// OVERLOAD PARAMS
// =============================================================================

// OverloadParam is one positional parameter of an overload.
type OverloadParam struct {
	Name     string
	Type     ParamType
	Optional bool
}

// Param declares a required parameter.
func Param(name string, t ParamType) OverloadParam {
	return OverloadParam{Name: name, Type: t}
}

// OptionalParam declares an optional parameter. Optional parameters may only
// be followed by other optional parameters.
func OptionalParam(name string, t ParamType) OverloadParam {
	return OverloadParam{Name: name, Type: t, Optional: true}
}

// Usage renders the parameter as "<name: TYPE>" or "[name: TYPE]".
func (p OverloadParam) Usage() string {
	if p.Optional {
		return fmt.Sprintf("[%s: %s]", p.Name, p.Type)
	}
	return fmt.Sprintf("<%s: %s>", p.Name, p.Type)
}

// =============================================================================
// OVERLOAD
// =============================================================================

// Overload is one accepted argument shape of a command. Declaration errors
// are kept on the overload and surface when it is added to a command.
type Overload struct {
	params []OverloadParam
	err    error
}

// NewOverload declares an overload with the given parameters in order.
func NewOverload(params ...OverloadParam) *Overload {
	o := &Overload{}
	for _, p := range params {
		o.AddParam(p)
	}
	return o
}

// AddParam appends a parameter. A required parameter after an optional one
// is a declaration error.
func (o *Overload) AddParam(p OverloadParam) *Overload {
	if o.err != nil {
		return o
	}
	if err := o.check(p); err != nil {
		o.err = err
		return o
	}
	o.params = append(o.params, p)
	return o
}

func (o *Overload) check(p OverloadParam) error {
	if err := validateName(p.Name); err != nil {
		return declErr(DeclInvalidName, p.Name, "parameter %s", err)
	}
	if p.Type == "" {
		return declErr(DeclUnresolvedType, p.Name, "parameter has no type")
	}
	if !p.Optional && len(o.params) > 0 && o.params[len(o.params)-1].Optional {
		return declErr(DeclParamOrder, p.Name,
			"required parameter %s follows optional parameter %s",
			p.Usage(), o.params[len(o.params)-1].Usage())
	}
	return nil
}

// Params returns a copy of the parameters in declaration order.
func (o *Overload) Params() []OverloadParam {
	return append([]OverloadParam(nil), o.params...)
}

// Len returns the number of parameters.
func (o *Overload) Len() int { return len(o.params) }

// Err returns the first declaration error, if any.
func (o *Overload) Err() error { return o.err }

// Usage renders the parameters separated by spaces.
func (o *Overload) Usage() string {
	parts := make([]string, len(o.params))
	for i, p := range o.params {
		parts[i] = p.Usage()
	}
	return strings.Join(parts, " ")
}
