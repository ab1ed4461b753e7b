// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"sort"
	"strings"

	"github.com/jeranaias/slashcmd/internal/sender"
)

// =============================================================================
// COMPLETION
// =============================================================================

// Completion is one tab-completion candidate.
type Completion struct {
	// Value replaces the token being typed
	Value string

	// Display is shown in candidate lists
	Display string

	// Description explains the candidate
	Description string

	// Line is the whole input with Value applied
	Line string

	// Score ranks candidates; higher is better
	Score int
}

// Complete returns ranked completions for input as typed by s. Command names
// are offered while the first word is being typed, then candidates for the
// parameter under the cursor in every overload whose prefix still matches.
func (r *Registry) Complete(s sender.Sender, input string) []Completion {
	slash := ""
	trimmed := strings.TrimLeft(input, " \t")
	if strings.HasPrefix(trimmed, "/") {
		slash = "/"
		trimmed = trimmed[1:]
	}

	toks := Tokenize(trimmed)
	typingNew := trimmed == "" || strings.HasSuffix(trimmed, " ")

	// Still typing the command name?
	if len(toks) == 0 || (len(toks) == 1 && !typingNew) {
		partial := ""
		if len(toks) == 1 {
			partial = toks[0].Text
		}
		return r.completeCommands(s, slash, partial)
	}

	cmd, ok := r.Lookup(toks[0].Text)
	if !ok || cmd.hidden || !s.HasSufficientPermission(cmd) {
		return nil
	}

	done := toks[1:]
	partial := ""
	prefix := slash + trimmed
	if !typingNew {
		last := done[len(done)-1]
		partial = last.Text
		done = done[:len(done)-1]
		prefix = slash + trimmed[:last.Start]
	}

	completions := r.completeParams(s, cmd, trimmed, done, partial)
	for i := range completions {
		completions[i].Line = prefix + completions[i].Value
	}
	return completions
}

// =============================================================================
// COMMAND COMPLETION
// =============================================================================

// completeCommands returns completions for command names.
func (r *Registry) completeCommands(s sender.Sender, slash, partial string) []Completion {
	var completions []Completion

	partial = strings.ToLower(partial)

	for _, cmd := range r.CommandList() {
		if cmd.hidden || !s.HasSufficientPermission(cmd) {
			continue
		}

		// Check main name
		if strings.HasPrefix(strings.ToLower(cmd.name), partial) {
			completions = append(completions, Completion{
				Value:       cmd.name,
				Display:     cmd.name,
				Description: cmd.description,
				Line:        slash + cmd.name + " ",
				Score:       calculateScore(cmd.name, partial),
			})
		}

		// Check aliases
		for _, alias := range cmd.aliases {
			if strings.HasPrefix(strings.ToLower(alias), partial) {
				completions = append(completions, Completion{
					Value:       alias,
					Display:     alias + " -> " + cmd.name,
					Description: cmd.description,
					Line:        slash + alias + " ",
					Score:       calculateScore(alias, partial) - 10, // Slightly lower score for aliases
				})
			}
		}
	}

	sortCompletions(completions)
	return completions
}

// =============================================================================
// PARAMETER COMPLETION
// =============================================================================

// completeParams walks every overload over the finished tokens and collects
// candidates for the parameter that follows them.
func (r *Registry) completeParams(s sender.Sender, cmd *Command, line string, done []Token, partial string) []Completion {
	seen := make(map[string]bool)
	var completions []Completion

	for _, o := range cmd.overloads {
		p, ok := r.nextParam(s, o, line, done)
		if !ok {
			continue
		}
		for _, value := range r.candidates(s, p) {
			if seen[value] || !strings.HasPrefix(strings.ToLower(value), strings.ToLower(partial)) {
				continue
			}
			seen[value] = true
			completions = append(completions, Completion{
				Value:       value,
				Display:     value,
				Description: p.Usage(),
				Score:       calculateScore(value, partial),
			})
		}
	}

	sortCompletions(completions)
	return completions
}

// nextParam matches done against the leading parameters of o and returns
// the parameter the next token would bind to.
func (r *Registry) nextParam(s sender.Sender, o *Overload, line string, done []Token) (OverloadParam, bool) {
	i := 0
	for _, p := range o.params {
		if i == len(done) {
			return p, true
		}
		n, _, ok := r.matchParam(s, p, line, done[i:])
		if !ok || n > len(done)-i {
			return OverloadParam{}, false
		}
		// A rest-of-line parameter swallows whatever follows.
		if i+n == len(done) && isRestOfLine(p.Type) {
			return OverloadParam{}, false
		}
		i += n
	}
	return OverloadParam{}, false
}

// candidates returns the completion vocabulary of a parameter.
func (r *Registry) candidates(s sender.Sender, p OverloadParam) []string {
	if g, ok := primitives[p.Type]; ok {
		return g.hints
	}
	if opt, ok := r.Option(string(p.Type)); ok {
		return opt.Candidates(s)
	}
	return nil
}

func isRestOfLine(t ParamType) bool {
	return t == TypeMessage || t == TypeRawText || t == TypeJSON
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// calculateScore calculates a match score for completion ranking.
// Higher score = better match.
func calculateScore(value, partial string) int {
	value = strings.ToLower(value)
	partial = strings.ToLower(partial)

	score := 100

	// Exact match
	if value == partial {
		return score + 100
	}

	// Prefix match bonus
	if strings.HasPrefix(value, partial) {
		score += 50
		// Bonus for shorter completions
		score += 20 - len(value)
	}

	// Length penalty
	score -= len(value) / 2

	return score
}

// sortCompletions sorts completions by score (descending), then alphabetically.
func sortCompletions(completions []Completion) {
	sort.SliceStable(completions, func(i, j int) bool {
		if completions[i].Score != completions[j].Score {
			return completions[i].Score > completions[j].Score
		}
		return completions[i].Value < completions[j].Value
	})
}
