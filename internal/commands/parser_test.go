// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"reflect"
	"testing"
)

// =============================================================================
// TOKENIZER TESTS
// =============================================================================

func TestTokenize(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"tp @s ~ ~1 ~", []string{"tp", "@s", "~", "~1", "~"}},
		{`say "hello world"`, []string{"say", "hello world"}},
		{`say 'it\'s'`, []string{"say", "it's"}},
		{"  spaced   out  ", []string{"spaced", "out"}},
		{`execute as @a[name="Steve Jobs",c=1] run say hi`, []string{"execute", "as", `@a[name="Steve Jobs",c=1]`, "run", "say", "hi"}},
		{`tellraw @a {"rawtext":[{"text":"a b"}]}`, []string{"tellraw", "@a", `{"rawtext":[{"text":"a b"}]}`}},
		{`setblock ~ ~ ~ stone ["facing" = "north"]`, []string{"setblock", "~", "~", "~", "stone", `["facing" = "north"]`}},
		{"", nil},
		{"   ", nil},
	}

	for _, tc := range tests {
		got := Texts(Tokenize(tc.input))
		if len(got) == 0 && len(tc.want) == 0 {
			continue
		}
		if !reflect.DeepEqual(got, tc.want) {
			t.Errorf("Tokenize(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestTokenizeOffsets(t *testing.T) {
	line := `say "hello world" now`
	toks := Tokenize(line)
	if len(toks) != 3 {
		t.Fatalf("expected 3 tokens, got %d", len(toks))
	}
	if toks[1].Start != 4 || toks[1].End != 17 {
		t.Errorf("quoted token spans [%d,%d), want [4,17)", toks[1].Start, toks[1].End)
	}
	if got := line[toks[2].Start:toks[2].End]; got != "now" {
		t.Errorf("last token raw text = %q", got)
	}
}

func TestExtractCommandName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"/help", "help"},
		{"tp @s ~ ~ ~", "tp"},
		{"  /say hi  ", "say"},
		{"", ""},
		{"/", ""},
	}

	for _, tc := range tests {
		if got := ExtractCommandName(tc.input); got != tc.want {
			t.Errorf("ExtractCommandName(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestIsCommand(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"/help", true},
		{"  /help", true},
		{"help", false},
		{"", false},
	}

	for _, tc := range tests {
		if got := IsCommand(tc.input); got != tc.want {
			t.Errorf("IsCommand(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}
