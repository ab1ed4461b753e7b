// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package builtin

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/jeranaias/slashcmd/internal/sender"
)

// =============================================================================
// SELECTOR
// =============================================================================

// Selector is a parsed entity selector: either a variable such as @a with
// optional filters, or a literal player name.
type Selector struct {
	Variable string // "a", "e", "p", "r", "s", "initiator"; empty for a name
	Name     string // the literal name when Variable is empty

	// Filters from the bracketed argument list.
	NameFilter string
	NameNegate bool
	Count      int // 0 means unset; negative reverses @p ordering
}

// ErrInvalidSelector is returned for a selector that cannot be parsed.
var ErrInvalidSelector = errors.New("invalid selector")

// ParseSelector parses text such as "@p", "@a[name=Steve,c=2]" or "Steve".
func ParseSelector(text string) (Selector, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Selector{}, fmt.Errorf("%w: empty", ErrInvalidSelector)
	}
	if !strings.HasPrefix(text, "@") {
		return Selector{Name: text}, nil
	}

	variable, filters, hasFilters := strings.Cut(text[1:], "[")
	switch variable {
	case "a", "e", "p", "r", "s", "initiator":
	default:
		return Selector{}, fmt.Errorf("%w: unknown variable @%s", ErrInvalidSelector, variable)
	}
	sel := Selector{Variable: variable}
	if !hasFilters {
		return sel, nil
	}
	if !strings.HasSuffix(filters, "]") {
		return Selector{}, fmt.Errorf("%w: unterminated argument list in %q", ErrInvalidSelector, text)
	}

	body := strings.TrimSuffix(filters, "]")
	if strings.TrimSpace(body) == "" {
		return sel, nil
	}
	for _, pair := range strings.Split(body, ",") {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			return Selector{}, fmt.Errorf("%w: expected key=value, got %q", ErrInvalidSelector, strings.TrimSpace(pair))
		}
		key, value = strings.TrimSpace(key), strings.Trim(strings.TrimSpace(value), `"`)
		switch key {
		case "name":
			sel.NameNegate = strings.HasPrefix(value, "!")
			sel.NameFilter = strings.TrimPrefix(value, "!")
		case "c":
			n, err := strconv.Atoi(value)
			if err != nil || n == 0 {
				return Selector{}, fmt.Errorf("%w: c must be a non-zero integer, got %q", ErrInvalidSelector, value)
			}
			sel.Count = n
		default:
			return Selector{}, fmt.Errorf("%w: unknown argument %q", ErrInvalidSelector, key)
		}
	}
	return sel, nil
}

// Resolve parses text and returns the players it selects for who.
func (s *Set) Resolve(who sender.Sender, text string) ([]sender.Sender, error) {
	sel, err := ParseSelector(text)
	if err != nil {
		return nil, err
	}
	return s.resolve(who, sel), nil
}

func (s *Set) resolve(who sender.Sender, sel Selector) []sender.Sender {
	players := s.directory.Players()

	if sel.Variable == "" {
		for _, p := range players {
			if strings.EqualFold(p.Name(), sel.Name) {
				return []sender.Sender{p}
			}
		}
		return nil
	}

	var candidates []sender.Sender
	switch sel.Variable {
	case "s", "initiator":
		if self := actor(who); self != nil {
			candidates = []sender.Sender{self}
		}
	default:
		candidates = append(candidates, players...)
	}

	candidates = filterByName(candidates, sel)

	switch sel.Variable {
	case "p":
		candidates = nearest(who, candidates)
		return limit(candidates, sel.Count, 1)
	case "r":
		s.shuffle(candidates)
		return limit(candidates, sel.Count, 1)
	default:
		return limit(candidates, sel.Count, 0)
	}
}

// actor is the player performing the command: the sender itself, or the
// callee of a proxied sender.
func actor(who sender.Sender) sender.Sender {
	for who != nil {
		switch who.Kind() {
		case sender.KindPlayer:
			return who
		case sender.KindProxied:
			who = who.(*sender.Proxied).Callee()
		default:
			return nil
		}
	}
	return nil
}

func filterByName(in []sender.Sender, sel Selector) []sender.Sender {
	if sel.NameFilter == "" {
		return in
	}
	out := in[:0:0]
	for _, p := range in {
		if strings.EqualFold(p.Name(), sel.NameFilter) != sel.NameNegate {
			out = append(out, p)
		}
	}
	return out
}

// nearest keeps players in the sender's dimension ordered by distance,
// ties broken by name. A negative count reverses the order.
func nearest(who sender.Sender, in []sender.Sender) []sender.Sender {
	origin := who.Location()
	dim := who.Dimension().ID()

	out := make([]sender.Sender, 0, len(in))
	for _, p := range in {
		if p.Dimension().ID() == dim {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		di, dj := out[i].Location().DistanceSquared(origin), out[j].Location().DistanceSquared(origin)
		if di != dj {
			return di < dj
		}
		return out[i].Name() < out[j].Name()
	})
	return out
}

func (s *Set) shuffle(in []sender.Sender) {
	for i := len(in) - 1; i > 0; i-- {
		j := s.intn(i + 1)
		in[i], in[j] = in[j], in[i]
	}
}

// limit applies the c filter. def is the count used when c is unset; 0 means
// no limit. A negative c takes from the end.
func limit(in []sender.Sender, count, def int) []sender.Sender {
	if count == 0 {
		count = def
	}
	switch {
	case count == 0:
		return in
	case count > 0:
		if count < len(in) {
			return in[:count]
		}
		return in
	default:
		n := -count
		if n > len(in) {
			n = len(in)
		}
		out := make([]sender.Sender, 0, n)
		for i := len(in) - 1; i >= len(in)-n; i-- {
			out = append(out, in[i])
		}
		return out
	}
}
