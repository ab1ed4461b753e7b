// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"strings"

	"github.com/jeranaias/slashcmd/internal/sender"
)

// =============================================================================
// TYPO SUGGESTIONS
// =============================================================================

// Suggest returns the visible command name or alias closest to name, or ""
// when nothing is near enough. Only commands s may use are considered.
func (r *Registry) Suggest(s sender.Sender, name string) string {
	name = strings.ToLower(TrimSlash(name))
	if len([]rune(name)) < 2 {
		return ""
	}
	if _, ok := r.Lookup(name); ok {
		return ""
	}

	limit := maxEdits(name)
	best, bestDist := "", -1
	for _, cmd := range r.CommandList() {
		if cmd.hidden || (s != nil && !s.HasSufficientPermission(cmd)) {
			continue
		}
		for _, candidate := range append([]string{cmd.name}, cmd.aliases...) {
			d := editDistance(name, strings.ToLower(candidate))
			if d > limit {
				continue
			}
			if bestDist == -1 || d < bestDist || (d == bestDist && candidate < best) {
				best, bestDist = candidate, d
			}
		}
	}
	return best
}

// maxEdits scales the accepted distance with input length so that short
// names only tolerate a single typo.
func maxEdits(name string) int {
	switch n := len([]rune(name)); {
	case n > 8:
		return 3
	case n >= 4:
		return 2
	default:
		return 1
	}
}

// editDistance is the Levenshtein distance over runes, kept to two rows.
func editDistance(a, b string) int {
	s1, s2 := []rune(a), []rune(b)
	if len(s1) == 0 {
		return len(s2)
	}
	if len(s2) == 0 {
		return len(s1)
	}

	prev := make([]int, len(s2)+1)
	curr := make([]int, len(s2)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(s1); i++ {
		curr[0] = i
		for j := 1; j <= len(s2); j++ {
			cost := 1
			if s1[i-1] == s2[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(s2)]
}
