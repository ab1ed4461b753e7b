// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package console

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/jeranaias/slashcmd/internal/config"
	"github.com/jeranaias/slashcmd/internal/util"
)

// =============================================================================
// INPUT HISTORY
// =============================================================================

// historyPath returns the configured history file, or one in the config
// directory.
func historyPath(cfg *config.Config) string {
	if cfg.Console.HistoryFile != "" {
		return cfg.Console.HistoryFile
	}
	dir, err := config.ConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "history")
}

func loadHistory(line *liner.State, path string) {
	if f, err := os.Open(path); err == nil {
		line.ReadHistory(f)
		f.Close()
	}
}

func saveHistory(line *liner.State, path string) error {
	var buf bytes.Buffer
	if _, err := line.WriteHistory(&buf); err != nil {
		return err
	}
	return util.WriteFileAtomic(path, buf.Bytes(), 0o600, 0o700)
}

// =============================================================================
// REPL
// =============================================================================

// Run reads commands until EOF, Ctrl+C, :quit or ctx is done. The scheduler
// runs for the duration.
func (c *Console) Run(ctx context.Context) error {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)
	line.SetCompleter(c.Complete)

	c.mu.Lock()
	history := historyPath(c.cfg)
	c.mu.Unlock()
	loadHistory(line, history)

	c.Start()
	defer func() {
		c.Stop()
		if err := saveHistory(line, history); err != nil {
			c.logger.Warn("could not save history", "path", history, "err", err)
		}
		line.Close()
	}()

	for {
		if ctx.Err() != nil {
			return nil
		}
		input, err := line.Prompt(c.prompt())
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("read input: %w", err)
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		if strings.HasPrefix(input, ":") {
			if quit := c.Directive(input); quit {
				return nil
			}
			continue
		}
		c.Exec(input)
	}
}

func (c *Console) prompt() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.identity == c.server {
		return c.cfg.Console.Prompt
	}
	return c.identity.Name() + c.cfg.Console.Prompt
}

// =============================================================================
// DIRECTIVES
// =============================================================================

var directives = []string{":as", ":who", ":quit", ":exit"}

// Directive handles a console directive line and reports whether the
// console should exit.
func (c *Console) Directive(input string) (quit bool) {
	fields := strings.Fields(input)
	switch fields[0] {
	case ":quit", ":exit":
		return true

	case ":as":
		if len(fields) != 2 {
			c.println(c.renderer.err.Render("Usage: :as <player|server>"))
			return false
		}
		if err := c.SetIdentity(fields[1]); err != nil {
			c.println(c.renderer.err.Render(err.Error()))
			return false
		}
		c.println("Now issuing commands as " + c.Identity().Name())

	case ":who":
		for _, p := range c.directory.Players() {
			loc := p.Location()
			c.println(fmt.Sprintf("%s  level=%d op=%t %s (%.1f, %.1f, %.1f)",
				p.Name(), p.PermissionLevel(), p.IsOp(), p.Dimension().ID(), loc.X, loc.Y, loc.Z))
		}

	default:
		c.println(c.renderer.err.Render("Unknown directive " + fields[0]))
	}
	return false
}

func (c *Console) completeDirective(line string) []string {
	fields := strings.Fields(line)
	if len(fields) == 1 && !strings.HasSuffix(line, " ") {
		var out []string
		for _, d := range directives {
			if strings.HasPrefix(d, fields[0]) {
				out = append(out, d)
			}
		}
		return out
	}
	if fields[0] != ":as" {
		return nil
	}

	partial := ""
	if len(fields) == 2 && !strings.HasSuffix(line, " ") {
		partial = strings.ToLower(fields[1])
	} else if len(fields) > 1 {
		return nil
	}
	var out []string
	for _, name := range append([]string{"server"}, c.playerNames()...) {
		if strings.HasPrefix(strings.ToLower(name), partial) {
			out = append(out, ":as "+name)
		}
	}
	return out
}

func (c *Console) playerNames() []string {
	players := c.directory.Players()
	names := make([]string, len(players))
	for i, p := range players {
		names[i] = p.Name()
	}
	return names
}

func (c *Console) println(s string) {
	c.outMu.Lock()
	defer c.outMu.Unlock()
	fmt.Fprintln(c.out, s)
}
