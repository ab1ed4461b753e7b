// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jeranaias/slashcmd/internal/config"
	"github.com/jeranaias/slashcmd/internal/console"
)

func newConsoleCommand(flags *globalFlags) *cobra.Command {
	var (
		as      string
		noWatch bool
	)

	cmd := &cobra.Command{
		Use:   "console",
		Short: "Start the interactive console",
		Long: `Start the interactive console.

Commands are issued as the server console unless --as names a player from
the config. Type :as <player> to switch identity, :who to list players and
:quit to leave. The config file is reloaded when it changes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !console.IsTTY() {
				return errors.New("console requires an interactive terminal; use 'slashcmd run' instead")
			}

			cfg, path, err := loadConfig(cmd, flags)
			if err != nil {
				return err
			}
			c, logger, err := newConsole(cmd, cfg)
			if err != nil {
				return err
			}
			if as != "" {
				if err := c.SetIdentity(as); err != nil {
					return err
				}
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if !noWatch {
				if _, statErr := os.Stat(path); statErr == nil {
					go func() {
						err := config.Watch(ctx, path, config.DefaultDebounce, func(next *config.Config, err error) {
							if err != nil {
								logger.Error("config reload failed", "path", path, "err", err)
								return
							}
							c.Apply(next)
						})
						if err != nil && !errors.Is(err, context.Canceled) {
							logger.Warn("config watcher stopped", "path", path, "err", err)
						}
					}()
				}
			}

			return c.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&as, "as", "", "issue commands as this player")
	cmd.Flags().BoolVar(&noWatch, "no-watch", false, "do not reload the config file on change")
	return cmd
}
