// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package commands provides the command model and the dispatch engine.
//
// Commands are declared with a fluent builder, carry one or more overloads
// (argument shapes) and are registered into a Registry. The registry resolves
// a raw command line against the overloads of the named command, gates it on
// permission level and cheat mode, invokes the executor and reports a
// response.Response back to the issuing sender.
//
// # Key Types
//
//   - Command: name, aliases, gating, overloads and executor
//   - Overload / OverloadParam: one argument shape of a command
//   - Option: a named vocabulary of argument values, static or per sender
//   - Registry: the table of commands and options, and the dispatcher
//   - Args: the ordered arguments bound by resolution
//
// # Usage
//
// Declare and register a command:
//
//	cmd := commands.New("party", "Manages a party", "p").
//		AddOverload(commands.NewOverload(
//			commands.Param("create", "PartyCreate"),
//			commands.Param("name", commands.TypeMessage),
//		)).
//		AddOverload(commands.NewOverload(
//			commands.OptionalParam("list", "PartyList"),
//		)).
//		SetExecutor(handleParty)
//	if err := registry.RegisterCommand(cmd); err != nil {
//		return err
//	}
//
// Dispatch a line from the host:
//
//	resp := registry.Dispatch(player, "party create Builders")
package commands
