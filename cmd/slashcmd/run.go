// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jeranaias/slashcmd/internal/console"
)

// runParams bundles the inputs of the run command so runLines can be tested
// without cobra.
type runParams struct {
	as     string
	lines  []string
	status bool
	out    io.Writer
}

func newRunCommand(flags *globalFlags) *cobra.Command {
	var (
		as     string
		file   string
		status bool
	)

	cmd := &cobra.Command{
		Use:   "run [line...]",
		Short: "Run command lines and exit",
		Long: `Run command lines and exit.

Each argument is one command line. With --file, lines are read from a file
(or stdin for "-"); blank lines and lines starting with # are skipped.
Asynchronous commands are drained before exit. The exit status is non-zero
if any line did not succeed.`,
		Example: `  slashcmd run "help" "say hello"
  slashcmd run --as Steve "tp Steve ~ ~10 ~"
  slashcmd run --file script.mcfunction`,
		RunE: func(cmd *cobra.Command, args []string) error {
			lines := args
			if file != "" {
				fromFile, err := readLines(cmd.InOrStdin(), file)
				if err != nil {
					return err
				}
				lines = append(lines, fromFile...)
			}
			if len(lines) == 0 {
				return fmt.Errorf("no command lines given")
			}

			cfg, _, err := loadConfig(cmd, flags)
			if err != nil {
				return err
			}
			c, _, err := newConsole(cmd, cfg)
			if err != nil {
				return err
			}
			return runLines(c, runParams{as: as, lines: lines, status: status, out: cmd.OutOrStdout()})
		},
	}

	cmd.Flags().StringVar(&as, "as", "", "issue commands as this player")
	cmd.Flags().StringVarP(&file, "file", "f", "", "read command lines from a file, - for stdin")
	cmd.Flags().BoolVar(&status, "status", false, "print the status of every line")
	return cmd
}

// runLines executes p.lines in order and reports how many failed.
func runLines(c *console.Console, p runParams) error {
	if p.as != "" {
		if err := c.SetIdentity(p.as); err != nil {
			return err
		}
	}

	failed := 0
	for _, line := range p.lines {
		resp := c.Exec(line)
		if !resp.Succeeded() {
			failed++
		}
		if p.status {
			fmt.Fprintf(p.out, "%s %s\n", resp.Status, line)
		}
	}
	c.Drain()

	if failed > 0 {
		return fmt.Errorf("%d of %d command(s) did not succeed", failed, len(p.lines))
	}
	return nil
}

// readLines reads command lines from path, or from stdin when path is "-".
func readLines(stdin io.Reader, path string) ([]string, error) {
	r := stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", path, err)
		}
		defer f.Close()
		r = f
	}

	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return lines, nil
}
