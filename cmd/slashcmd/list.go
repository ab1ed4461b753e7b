// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/jeranaias/slashcmd/internal/commands"
)

func newListCommand(flags *globalFlags) *cobra.Command {
	var (
		all   bool
		usage bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List registered commands by category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig(cmd, flags)
			if err != nil {
				return err
			}
			c, _, err := newConsole(cmd, cfg)
			if err != nil {
				return err
			}
			writeCommandList(cmd.OutOrStdout(), c.Registry().CommandList(), all, usage)
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "include hidden commands")
	cmd.Flags().BoolVar(&usage, "usage", false, "show the usage of every overload")
	return cmd
}

// writeCommandList prints commands grouped by category with aligned columns.
func writeCommandList(w io.Writer, cmds []*commands.Command, all, usage bool) {
	byCategory := make(map[string][]*commands.Command)
	var categories []string
	for _, c := range cmds {
		if c.Hidden() && !all {
			continue
		}
		if _, ok := byCategory[c.Category()]; !ok {
			categories = append(categories, c.Category())
		}
		byCategory[c.Category()] = append(byCategory[c.Category()], c)
	}
	sort.Strings(categories)

	nameWidth := 0
	for _, c := range cmds {
		if w := runewidth.StringWidth(label(c)); w > nameWidth {
			nameWidth = w
		}
	}

	for i, category := range categories {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w, category)
		fmt.Fprintln(w, strings.Repeat("-", runewidth.StringWidth(category)))

		group := byCategory[category]
		sort.Slice(group, func(a, b int) bool { return group[a].Name() < group[b].Name() })
		for _, c := range group {
			fmt.Fprintf(w, "  %s  %s  %s\n", runewidth.FillRight(label(c), nameWidth), gates(c), c.Description())
			if usage {
				for _, line := range strings.Split(c.UsageMessage(), "\n") {
					fmt.Fprintf(w, "      %s\n", line)
				}
			}
		}
	}
}

func label(c *commands.Command) string {
	if aliases := c.Aliases(); len(aliases) > 0 {
		return c.Name() + " (" + strings.Join(aliases, ", ") + ")"
	}
	return c.Name()
}

// gates renders the permission level and cheat requirement, e.g. "L1 cheats".
func gates(c *commands.Command) string {
	cheats := "      "
	if c.RequiresCheats() {
		cheats = "cheats"
	}
	return fmt.Sprintf("L%d %s", c.PermissionLevel(), cheats)
}
