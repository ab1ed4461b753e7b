// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"strings"
	"sync"

	"github.com/jeranaias/slashcmd/internal/response"
	"github.com/jeranaias/slashcmd/internal/sender"
)

// =============================================================================
// TEST FIXTURES
// =============================================================================

type testPlayer struct {
	name  string
	op    bool
	level int
	loc   sender.Vector3
	dim   sender.Dimension

	mu    sync.Mutex
	inbox []sender.Message
}

func newTestPlayer(name string, level int) *testPlayer {
	return &testPlayer{name: name, level: level, dim: sender.Overworld}
}

func (p *testPlayer) Name() string                { return p.name }
func (p *testPlayer) Location() sender.Vector3    { return p.loc }
func (p *testPlayer) Dimension() sender.Dimension { return p.dim }
func (p *testPlayer) IsOp() bool                  { return p.op }
func (p *testPlayer) PermissionLevel() int        { return p.level }

func (p *testPlayer) SendMessage(msgs ...sender.Message) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.inbox = append(p.inbox, msgs...)
}

func (p *testPlayer) messages() []sender.Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]sender.Message(nil), p.inbox...)
}

// testRegistry returns a registry with cheats on.
func testRegistry(opts ...RegistryOption) *Registry {
	return NewRegistry(append([]RegistryOption{WithCheatsEnabled(true)}, opts...)...)
}

// reply answers with a fixed message.
func reply(msg string) Executor {
	return func(sender.Sender, Args, *Command) (response.Response, error) {
		return response.OK(msg), nil
	}
}

// echo answers with the bound values joined by "|".
func echo(s sender.Sender, args Args, _ *Command) (response.Response, error) {
	return response.OK(strings.Join(args.Values(), "|")), nil
}

// partyCommand builds the two-overload party command. "create" is a keyword
// option so the required parameter never follows an optional one.
func partyCommand(exec Executor) *Command {
	return New("party", "Manages your party", "p").
		AddOverload(NewOverload(
			Param("create", "PartyCreate"),
			Param("name", TypeMessage),
		)).
		AddOverload(NewOverload(
			OptionalParam("list", "PartyList"),
		)).
		SetExecutor(exec)
}

func partyOptions() []*Option {
	return []*Option{
		NewStaticOption("PartyCreate", "create"),
		NewStaticOption("PartyList", "list"),
	}
}
