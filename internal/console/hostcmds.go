// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package console

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jeranaias/slashcmd/internal/commands"
	"github.com/jeranaias/slashcmd/internal/response"
	"github.com/jeranaias/slashcmd/internal/sender"
)

// CategoryHost is the help category of console-only commands.
const CategoryHost = "Host"

func (c *Console) hostOptions() []*commands.Option {
	return []*commands.Option{
		commands.NewDynamicOption("Player", commands.ProviderFunc(func(sender.Sender) []string {
			return c.playerNames()
		})),
	}
}

func (c *Console) hostCommands() []*commands.Command {
	return []*commands.Command{
		commands.New("cheats", "Shows or toggles cheat mode").
			SetRequiresCheats(false).
			SetPermissionLevel(sender.LevelOwner).
			SetCategory(CategoryHost).
			AddParam(commands.OptionalParam("enabled", commands.TypeBool)).
			SetExecutor(c.cheats),

		commands.New("async", "Queues a command for the next tick").
			SetRequiresCheats(false).
			SetPermissionLevel(sender.LevelGameDirectors).
			SetCategory(CategoryHost).
			AddParam(commands.Param("command", commands.TypeMessage)).
			SetExecutor(c.async),

		commands.New("tp", "Moves a simulated player", "teleport").
			SetPermissionLevel(sender.LevelGameDirectors).
			SetCategory(CategoryHost).
			SetOverloads(
				commands.NewOverload(
					commands.Param("player", "Player"),
					commands.Param("destination", commands.TypePositionFloat),
				),
				commands.NewOverload(
					commands.Param("player", "Player"),
					commands.Param("target", "Player"),
				),
			).
			SetExecutor(c.teleport),
	}
}

func (c *Console) cheats(_ sender.Sender, args commands.Args, _ *commands.Command) (response.Response, error) {
	if args.Has(0) {
		enabled, err := args.Bool(0)
		if err != nil {
			return response.Response{}, err
		}
		c.registry.SetCheatsEnabled(enabled)
	}
	state := "disabled"
	if c.registry.CheatsEnabled() {
		state = "enabled"
	}
	return response.OK("Cheats are " + state), nil
}

func (c *Console) async(who sender.Sender, args commands.Args, _ *commands.Command) (response.Response, error) {
	task := c.registry.RunCommandAsync(context.Background(), who, args.At(0))
	select {
	case <-task.Done():
		_, err := task.Wait(context.Background())
		return response.Fail("Could not queue command: %v", err), nil
	default:
	}
	c.track(who, task)
	return response.OK("Queued as task " + task.ID()[:8]), nil
}

func (c *Console) teleport(_ sender.Sender, args commands.Args, _ *commands.Command) (response.Response, error) {
	ps, ok := c.directory.Lookup(args.At(0))
	if !ok {
		return response.Incorrect("No player was found"), nil
	}
	p := ps.Player().(*player)

	if args[1].Type == "Player" {
		target, ok := c.directory.Lookup(args.At(1))
		if !ok {
			return response.Incorrect("No player was found"), nil
		}
		p.moveTo(target.Location(), target.Dimension())
		return response.OK(fmt.Sprintf("Teleported %s to %s", p.Name(), target.Name())), nil
	}

	dest, err := resolvePosition(p.Location(), args.At(1))
	if err != nil {
		return response.Response{}, err
	}
	p.moveTo(dest, p.Dimension())
	return response.OK(fmt.Sprintf("Teleported %s to %.2f, %.2f, %.2f", p.Name(), dest.X, dest.Y, dest.Z)), nil
}

// resolvePosition applies a bound POSITION_FLOAT value to origin. Relative
// (~) and local (^) coordinates both offset from origin, since simulated
// players have no facing.
func resolvePosition(origin sender.Vector3, value string) (sender.Vector3, error) {
	parts := strings.Fields(value)
	if len(parts) != 3 {
		return sender.Vector3{}, fmt.Errorf("expected three coordinates, got %q", value)
	}
	base := [3]float64{origin.X, origin.Y, origin.Z}
	var out [3]float64
	for i, part := range parts {
		relative := strings.HasPrefix(part, "~") || strings.HasPrefix(part, "^")
		if relative {
			part = part[1:]
		}
		n := 0.0
		if part != "" {
			f, err := strconv.ParseFloat(part, 64)
			if err != nil {
				return sender.Vector3{}, fmt.Errorf("coordinate %d: %w", i+1, err)
			}
			n = f
		}
		if relative {
			n += base[i]
		}
		out[i] = n
	}
	return sender.Vector3{X: out[0], Y: out[1], Z: out[2]}, nil
}
