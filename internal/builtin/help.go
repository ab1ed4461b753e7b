// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package builtin

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/jeranaias/slashcmd/internal/commands"
	"github.com/jeranaias/slashcmd/internal/response"
	"github.com/jeranaias/slashcmd/internal/sender"
)

// =============================================================================
// HELP
// =============================================================================

func (s *Set) helpCommand() *commands.Command {
	return commands.New("help", "Provides help for commands", "?").
		SetRequiresCheats(false).
		SetCategory(CategoryBuiltin).
		SetOverloads(
			commands.NewOverload(commands.Param("command", OptionCommandName)),
			commands.NewOverload(commands.OptionalParam("page", commands.TypeInt)),
		).
		SetExecutor(s.help)
}

func (s *Set) help(who sender.Sender, args commands.Args, _ *commands.Command) (response.Response, error) {
	if args.Has(0) && args[0].Type == commands.ParamType(OptionCommandName) {
		return s.helpFor(args.At(0)), nil
	}

	page := 1
	if args.Has(0) {
		n, err := args.Int(0)
		if err != nil {
			return response.Response{}, err
		}
		page = n
	}
	return response.OK(s.HelpPage(who, page)), nil
}

func (s *Set) helpFor(name string) response.Response {
	cmd, ok := s.registry.Lookup(name)
	if !ok {
		return response.Incorrect("Unknown command: %s", name)
	}

	var b strings.Builder
	b.WriteString(cmd.Name())
	b.WriteString(": ")
	b.WriteString(cmd.Description())
	if aliases := cmd.Aliases(); len(aliases) > 0 {
		b.WriteString("\nAliases: ")
		b.WriteString(strings.Join(aliases, ", "))
	}
	b.WriteString("\nUsage:\n")
	b.WriteString(cmd.UsageMessage())
	return response.OK(b.String())
}

// HelpPage renders one page of the commands who may use. The page number is
// clamped to the available range.
func (s *Set) HelpPage(who sender.Sender, page int) string {
	cmds := s.visible(who)
	pages := (len(cmds) + s.pageSize - 1) / s.pageSize
	if pages == 0 {
		pages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > pages {
		page = pages
	}

	start := (page - 1) * s.pageSize
	end := start + s.pageSize
	if end > len(cmds) {
		end = len(cmds)
	}
	shown := cmds[start:end]

	width := 0
	for _, c := range shown {
		if w := runewidth.StringWidth(c.Name()); w > width {
			width = w
		}
	}

	var b strings.Builder
	b.WriteString(headerLine(page, pages))
	for _, c := range shown {
		b.WriteString("\n/")
		b.WriteString(runewidth.FillRight(c.Name(), width))
		b.WriteString("  ")
		b.WriteString(c.Description())
	}
	if len(shown) == 0 {
		b.WriteString("\nNo commands available")
	}
	return b.String()
}

func headerLine(page, pages int) string {
	return fmt.Sprintf("--- Showing help page %d of %d (/help <page>) ---", page, pages)
}
