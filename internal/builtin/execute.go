// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package builtin

import (
	"errors"

	"github.com/jeranaias/slashcmd/internal/commands"
	"github.com/jeranaias/slashcmd/internal/response"
	"github.com/jeranaias/slashcmd/internal/sender"
)

// =============================================================================
// EXECUTE
// =============================================================================

func (s *Set) executeCommand() *commands.Command {
	return commands.New("execute", "Executes a command on behalf of one or more entities").
		SetPermissionLevel(sender.LevelGameDirectors).
		SetCategory(CategoryBuiltin).
		SetParams(
			commands.Param("subcommand", OptionExecuteAs),
			commands.Param("origin", commands.TypeSelection),
			commands.Param("chainedCommand", OptionExecuteRun),
			commands.Param("command", commands.TypeMessage),
		).
		SetExecutor(s.execute)
}

// execute runs the nested line once per target, as a proxy whose caller is
// the issuer. Each nested response is reported to the issuer.
func (s *Set) execute(who sender.Sender, args commands.Args, _ *commands.Command) (response.Response, error) {
	targets, err := s.Resolve(who, args.At(1))
	if err != nil {
		return response.Syntax("%v", err), nil
	}
	if len(targets) == 0 {
		return response.Incorrect("No targets matched selector"), nil
	}

	line := args.At(3)
	succeeded := 0
	for _, target := range targets {
		proxy, err := sender.NewProxied(who, target)
		if err != nil {
			return response.Response{}, err
		}

		resp, err := proxy.RunCommand(line)
		if resp.Message != "" {
			sev := sender.SeverityInfo
			if resp.Status.IsError() {
				sev = sender.SeverityError
			}
			who.SendMessage(sender.Message{Text: resp.Message, Severity: sev})
		}

		var execErr *commands.CommandExecutionError
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, commands.ErrNestingTooDeep):
			return response.Response{}, err
		case errors.As(err, &execErr):
			// reported above
		default:
			return response.Response{}, err
		}
	}

	if succeeded == 0 {
		return response.Fail("Command failed for all %d targets", len(targets)), nil
	}
	return response.Response{}, nil
}
