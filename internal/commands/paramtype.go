// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// =============================================================================
// PARAMETER TYPES
// =============================================================================

// ParamType names a primitive grammar or a registered Option.
type ParamType string

// Primitive parameter types understood by the host.
const (
	TypeInt               ParamType = "INT"
	TypeFloat             ParamType = "VAL"
	TypeRelativeFloat     ParamType = "RVAL"
	TypeWildcardInt       ParamType = "WILDCARDINT"
	TypeBool              ParamType = "Boolean"
	TypeID                ParamType = "ID"
	TypeSelection         ParamType = "SELECTION"
	TypeWildcardSelection ParamType = "WILDCARDSELECTION"
	TypePosition          ParamType = "POSITION"
	TypePositionFloat     ParamType = "POSITION_FLOAT"
	TypeMessage           ParamType = "MESSAGE_ROOT"
	TypeRawText           ParamType = "RAWTEXT"
	TypeJSON              ParamType = "JSON_OBJECT"
	TypeCompareOperator   ParamType = "COMPAREOPERATOR"
	TypeOperator          ParamType = "OPERATOR"
	TypeIntegerRange      ParamType = "FULLINTEGERRANGE"
	TypeBlockStates       ParamType = "BLOCK_STATE_ARRAY"
)

// grammar matches a primitive against the tokens starting at the parameter.
// line is the full command line, used by types that take the rest of it.
type grammar struct {
	match func(line string, toks []Token) (consumed int, value string, ok bool)
	hints []string
}

var (
	idPattern        = regexp.MustCompile(`^[A-Za-z0-9_\-.:]+$`)
	selectorPattern  = regexp.MustCompile(`^@(a|e|p|r|s|initiator)(\[.*\])?$`)
	coordIntPattern  = regexp.MustCompile(`^([~^]-?\d*|-?\d+)$`)
	coordFltPattern  = regexp.MustCompile(`^([~^](-?(\d+\.?\d*|\.\d+))?|-?(\d+\.?\d*|\.\d+))$`)
	intRangePattern  = regexp.MustCompile(`^!?(-?\d+|-?\d+\.\.(-?\d+)?|\.\.-?\d+)$`)
	relFloatPrefixes = "~^"
)

var compareOperators = []string{"<", "<=", "=", ">=", ">"}
var operators = []string{"=", "+=", "-=", "*=", "/=", "%=", "<", ">", "><"}
var selectors = []string{"@a", "@e", "@p", "@r", "@s", "@initiator"}

var primitives = map[ParamType]grammar{
	TypeInt:               single(isInt, nil),
	TypeFloat:             single(isFloat, nil),
	TypeRelativeFloat:     single(isRelativeFloat, []string{"~", "^"}),
	TypeWildcardInt:       single(func(s string) bool { return s == "*" || isInt(s) }, []string{"*"}),
	TypeBool:              single(func(s string) bool { return s == "true" || s == "false" }, []string{"true", "false"}),
	TypeID:                single(idPattern.MatchString, nil),
	TypeSelection:         single(isSelection, selectors),
	TypeWildcardSelection: single(func(s string) bool { return s == "*" || isSelection(s) }, append([]string{"*"}, selectors...)),
	TypePosition:          {match: position(coordIntPattern), hints: []string{"~", "^"}},
	TypePositionFloat:     {match: position(coordFltPattern), hints: []string{"~", "^"}},
	TypeMessage:           {match: restOfLine(nil)},
	TypeRawText:           {match: restOfLine(nil)},
	TypeJSON:              {match: restOfLine(isJSONObject)},
	TypeCompareOperator:   single(oneOf(compareOperators), compareOperators),
	TypeOperator:          single(oneOf(operators), operators),
	TypeIntegerRange:      single(intRangePattern.MatchString, nil),
	TypeBlockStates:       single(func(s string) bool { return strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]") }, []string{"[]"}),
}

// IsPrimitive reports whether t is one of the built-in grammars.
func IsPrimitive(t ParamType) bool {
	_, ok := primitives[t]
	return ok
}

// PrimitiveTypes returns the names of all built-in grammars.
func PrimitiveTypes() []ParamType {
	out := make([]ParamType, 0, len(primitives))
	for t := range primitives {
		out = append(out, t)
	}
	return out
}

// =============================================================================
// GRAMMAR BUILDERS
// =============================================================================

func single(accept func(string) bool, hints []string) grammar {
	return grammar{
		match: func(_ string, toks []Token) (int, string, bool) {
			if len(toks) == 0 || !accept(toks[0].Text) {
				return 0, "", false
			}
			return 1, toks[0].Text, true
		},
		hints: hints,
	}
}

// position consumes three coordinates. Local (^) coordinates cannot be mixed
// with world ones.
func position(coord *regexp.Regexp) func(string, []Token) (int, string, bool) {
	return func(_ string, toks []Token) (int, string, bool) {
		if len(toks) < 3 {
			return 0, "", false
		}
		local := 0
		parts := make([]string, 3)
		for i := 0; i < 3; i++ {
			text := toks[i].Text
			if !coord.MatchString(text) {
				return 0, "", false
			}
			if strings.HasPrefix(text, "^") {
				local++
			}
			parts[i] = text
		}
		if local != 0 && local != 3 {
			return 0, "", false
		}
		return 3, strings.Join(parts, " "), true
	}
}

// restOfLine consumes every remaining token and binds the raw text they span.
func restOfLine(accept func(string) bool) func(string, []Token) (int, string, bool) {
	return func(line string, toks []Token) (int, string, bool) {
		if len(toks) == 0 {
			return 0, "", false
		}
		raw := strings.TrimSpace(line[toks[0].Start:toks[len(toks)-1].End])
		if accept != nil && !accept(raw) {
			return 0, "", false
		}
		return len(toks), raw, true
	}
}

func oneOf(set []string) func(string) bool {
	return func(s string) bool {
		for _, v := range set {
			if s == v {
				return true
			}
		}
		return false
	}
}

// =============================================================================
// TOKEN PREDICATES
// =============================================================================

func isInt(s string) bool {
	_, err := strconv.ParseInt(s, 10, 32)
	return err == nil
}

func isFloat(s string) bool {
	f, err := strconv.ParseFloat(s, 64)
	return err == nil && !math.IsInf(f, 0) && !math.IsNaN(f)
}

func isRelativeFloat(s string) bool {
	if s != "" && strings.ContainsRune(relFloatPrefixes, rune(s[0])) {
		s = s[1:]
		if s == "" {
			return true
		}
	}
	return isFloat(s)
}

func isSelection(s string) bool {
	if strings.HasPrefix(s, "@") {
		return selectorPattern.MatchString(s)
	}
	return s != ""
}

func isJSONObject(s string) bool {
	return strings.HasPrefix(s, "{") && gjson.Valid(s)
}
