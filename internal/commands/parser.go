// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"errors"
	"strings"
	"unicode"
)

// =============================================================================
// TOKENS
// =============================================================================

// Token is one word of a command line. Start and End are byte offsets into
// the line and include any surrounding quotes.
type Token struct {
	Text  string
	Start int
	End   int
}

// Tokenize splits a command line into tokens, respecting quotes.
//
// Single and double quotes group words and are stripped. Inside brackets and
// braces (selector arguments, block states, JSON) whitespace does not split
// and quotes are kept verbatim.
func Tokenize(line string) []Token {
	var tokens []Token
	var current strings.Builder
	var inSingleQuote, inDoubleQuote bool
	depth := 0
	start := -1

	flush := func(end int) {
		if start >= 0 {
			tokens = append(tokens, Token{Text: current.String(), Start: start, End: end})
			current.Reset()
			start = -1
		}
	}
	mark := func(i int) {
		if start < 0 {
			start = i
		}
	}

	for i := 0; i < len(line); i++ {
		char := line[i]
		quoted := inSingleQuote || inDoubleQuote

		switch {
		case depth > 0 && !quoted && (char == '[' || char == '{'):
			depth++
			current.WriteByte(char)

		case depth > 0 && !quoted && (char == ']' || char == '}'):
			depth--
			current.WriteByte(char)

		case depth > 0 && (char == '"' || char == '\''):
			// Nested quotes are kept for the argument's own parser
			if char == '"' && !inSingleQuote {
				inDoubleQuote = !inDoubleQuote
			} else if char == '\'' && !inDoubleQuote {
				inSingleQuote = !inSingleQuote
			}
			current.WriteByte(char)

		case depth > 0:
			if char == '\\' && quoted && i+1 < len(line) {
				current.WriteByte(char)
				i++
				char = line[i]
			}
			current.WriteByte(char)

		case char == '\'' && !inDoubleQuote:
			mark(i)
			inSingleQuote = !inSingleQuote

		case char == '"' && !inSingleQuote:
			mark(i)
			inDoubleQuote = !inDoubleQuote

		case char == '\\' && i+1 < len(line) && quoted:
			next := line[i+1]
			if next == '"' || next == '\'' || next == '\\' {
				current.WriteByte(next)
				i++
			} else {
				current.WriteByte(char)
			}

		case isSpace(rune(char)) && !quoted:
			flush(i)

		case (char == '[' || char == '{') && !quoted:
			mark(i)
			depth++
			current.WriteByte(char)

		default:
			mark(i)
			current.WriteByte(char)
		}
	}

	flush(len(line))
	return tokens
}

// Texts returns the text of each token.
func Texts(toks []Token) []string {
	out := make([]string, len(toks))
	for i, t := range toks {
		out[i] = t.Text
	}
	return out
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// IsCommand returns true if the input appears to be a slash command.
func IsCommand(input string) bool {
	return strings.HasPrefix(strings.TrimSpace(input), "/")
}

// TrimSlash removes surrounding whitespace and one leading slash.
func TrimSlash(input string) string {
	return strings.TrimPrefix(strings.TrimSpace(input), "/")
}

// ExtractCommandName extracts the command name from input without its slash.
// e.g., "/tp @s ~ ~1 ~" -> "tp"
func ExtractCommandName(input string) string {
	input = TrimSlash(input)
	end := strings.IndexFunc(input, unicode.IsSpace)
	if end == -1 {
		return input
	}
	return input[:end]
}

func isSpace(r rune) bool {
	return unicode.IsSpace(r)
}

var (
	errEmptyName = errors.New("name must not be empty")
	errSpaceName = errors.New("name must not contain whitespace or a leading slash")
)

func validateName(name string) error {
	if name == "" {
		return errEmptyName
	}
	if strings.ContainsFunc(name, isSpace) || strings.HasPrefix(name, "/") {
		return errSpaceName
	}
	return nil
}
