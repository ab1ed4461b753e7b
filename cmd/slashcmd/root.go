// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/jeranaias/slashcmd/internal/config"
	"github.com/jeranaias/slashcmd/internal/console"
	"github.com/jeranaias/slashcmd/internal/logging"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
	logLevel   string
	cheats     bool
	color      string
}

func newRootCommand() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:   "slashcmd",
		Short: "Declare, resolve and run slash commands",
		Long: `slashcmd hosts a command registry with typed overloads, permission
and cheat gating, and a per-tick asynchronous queue.

Examples:
  slashcmd console               Interactive console
  slashcmd run "help" "say hi"   Run lines and exit
  slashcmd list                  List registered commands
  slashcmd config init           Write a default config file`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", Version, GitCommit, BuildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&flags.configPath, "config", "c", "", "config file (default ~/.slashcmd/config.toml)")
	pf.StringVar(&flags.logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.BoolVar(&flags.cheats, "cheats", false, "enable cheats regardless of config")
	pf.StringVar(&flags.color, "color", "", "color output: auto, always, never")

	root.AddCommand(
		newConsoleCommand(flags),
		newRunCommand(flags),
		newListCommand(flags),
		newConfigCommand(flags),
	)
	return root
}

// loadConfig loads configuration and applies flag overrides. It returns the
// path the config was (or would be) read from.
func loadConfig(cmd *cobra.Command, flags *globalFlags) (*config.Config, string, error) {
	path := flags.configPath
	var (
		cfg *config.Config
		err error
	)
	if path != "" {
		cfg, err = config.LoadFromPath(path)
	} else {
		if path, err = config.ConfigPath(); err != nil {
			return nil, "", err
		}
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, "", err
	}

	if cmd.Flags().Changed("cheats") {
		cfg.CheatsEnabled = flags.cheats
	}
	if flags.logLevel != "" {
		cfg.Log.Level = flags.logLevel
	}
	if flags.color != "" {
		cfg.Console.Color = flags.color
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", fmt.Errorf("invalid flags: %w", err)
	}
	return cfg, path, nil
}

func newLogger(w io.Writer, cfg *config.Config) (*log.Logger, error) {
	if w == nil {
		w = os.Stderr
	}
	return logging.New(w, logging.Options{
		Level:      cfg.Log.Level,
		Timestamps: cfg.Log.Timestamps,
		Prefix:     "slashcmd",
	})
}

// newConsole builds the console host writing to cmd's stdout.
func newConsole(cmd *cobra.Command, cfg *config.Config) (*console.Console, *log.Logger, error) {
	logger, err := newLogger(cmd.ErrOrStderr(), cfg)
	if err != nil {
		return nil, nil, err
	}
	out := cmd.OutOrStdout()
	c, err := console.New(cfg, logger, out, console.ColorProfile(cfg.Console.Color, out))
	if err != nil {
		return nil, nil, err
	}
	return c, logger, nil
}
