// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package sender

import (
	"context"

	"github.com/jeranaias/slashcmd/internal/response"
)

// =============================================================================
// CONSOLE
// =============================================================================

// Console is the server console. It is always operator.
type Console struct {
	base
	sink MessageSink
}

// NewConsole creates the console sender. Messages go to sink; a nil sink
// discards them.
func NewConsole(run Runner, sink MessageSink) *Console {
	if sink == nil {
		sink = discardSink{}
	}
	return &Console{base: base{run: run}, sink: sink}
}

func (c *Console) Kind() Kind { return KindConsole }
func (c *Console) Name() string { return ConsoleName }
func (c *Console) Location() Vector3 { return Vector3{} }
func (c *Console) Dimension() Dimension { return Overworld }
func (c *Console) IsOp() bool { return true }
func (c *Console) PermissionLevel() int { return LevelOwner }
func (c *Console) SendMessage(msgs ...Message) { c.sink.Deliver(msgs...) }

func (c *Console) HasSufficientPermission(required PermissionGated) bool {
	return hasSufficientPermission(c, required)
}

func (c *Console) RunCommand(line string) (response.Response, error) {
	return c.runCommand(c, line)
}

func (c *Console) RunCommandAsync(ctx context.Context, line string) Pending {
	return c.runCommandAsync(ctx, c, line)
}

// =============================================================================
// BLOCK
// =============================================================================

// BlockSender is a command block or custom block. It is never operator.
type BlockSender struct {
	base
	block Block
	sink  MessageSink
}

// NewBlock wraps a host block. The block is required.
func NewBlock(run Runner, block Block, sink MessageSink) (*BlockSender, error) {
	if block == nil {
		return nil, ErrNilBlock
	}
	if sink == nil {
		sink = discardSink{}
	}
	return &BlockSender{base: base{run: run}, block: block, sink: sink}, nil
}

// Block returns the wrapped host block.
func (b *BlockSender) Block() Block { return b.block }

func (b *BlockSender) Kind() Kind { return KindBlock }
func (b *BlockSender) Name() string { return b.block.TypeID() }
func (b *BlockSender) Location() Vector3 { return b.block.Location() }
func (b *BlockSender) Dimension() Dimension { return b.block.Dimension() }
func (b *BlockSender) IsOp() bool { return false }
func (b *BlockSender) PermissionLevel() int { return LevelGameDirectors }
func (b *BlockSender) SendMessage(msgs ...Message) { b.sink.Deliver(msgs...) }

func (b *BlockSender) HasSufficientPermission(required PermissionGated) bool {
	return hasSufficientPermission(b, required)
}

func (b *BlockSender) RunCommand(line string) (response.Response, error) {
	return b.runCommand(b, line)
}

func (b *BlockSender) RunCommandAsync(ctx context.Context, line string) Pending {
	return b.runCommandAsync(ctx, b, line)
}

// =============================================================================
// SCRIPT
// =============================================================================

// Script is the script engine. It is never operator.
type Script struct {
	base
	sink MessageSink
}

// NewScript creates the script engine sender.
func NewScript(run Runner, sink MessageSink) *Script {
	if sink == nil {
		sink = discardSink{}
	}
	return &Script{base: base{run: run}, sink: sink}
}

func (s *Script) Kind() Kind { return KindScript }
func (s *Script) Name() string { return ScriptName }
func (s *Script) Location() Vector3 { return Vector3{} }
func (s *Script) Dimension() Dimension { return Overworld }
func (s *Script) IsOp() bool { return false }
func (s *Script) PermissionLevel() int { return LevelGameDirectors }
func (s *Script) SendMessage(msgs ...Message) { s.sink.Deliver(msgs...) }

func (s *Script) HasSufficientPermission(required PermissionGated) bool {
	return hasSufficientPermission(s, required)
}

func (s *Script) RunCommand(line string) (response.Response, error) {
	return s.runCommand(s, line)
}

func (s *Script) RunCommandAsync(ctx context.Context, line string) Pending {
	return s.runCommandAsync(ctx, s, line)
}

// =============================================================================
// PLAYER
// =============================================================================

// PlayerSender adapts a host player. Operator status and permission level
// are queried from the host on every call.
type PlayerSender struct {
	base
	player Player
}

// NewPlayer wraps a host player.
func NewPlayer(run Runner, p Player) *PlayerSender {
	return &PlayerSender{base: base{run: run}, player: p}
}

// Player returns the wrapped host player.
func (p *PlayerSender) Player() Player { return p.player }

func (p *PlayerSender) Kind() Kind { return KindPlayer }
func (p *PlayerSender) Name() string { return p.player.Name() }
func (p *PlayerSender) Location() Vector3 { return p.player.Location() }
func (p *PlayerSender) Dimension() Dimension { return p.player.Dimension() }
func (p *PlayerSender) IsOp() bool { return p.player.IsOp() }
func (p *PlayerSender) PermissionLevel() int { return p.player.PermissionLevel() }
func (p *PlayerSender) SendMessage(msgs ...Message) { p.player.SendMessage(msgs...) }

func (p *PlayerSender) HasSufficientPermission(required PermissionGated) bool {
	return hasSufficientPermission(p, required)
}

func (p *PlayerSender) RunCommand(line string) (response.Response, error) {
	return p.runCommand(p, line)
}

func (p *PlayerSender) RunCommandAsync(ctx context.Context, line string) Pending {
	return p.runCommandAsync(ctx, p, line)
}

// =============================================================================
// PROXIED
// =============================================================================

// Proxied is issued by "/execute as": the caller is the reporting identity,
// the callee is the acting one. Messages and permission checks go to the
// caller; location and dimension come from the callee. The name is the
// callee's, matching what "/execute as X run say" prints.
type Proxied struct {
	caller Sender
	callee Sender
}

// NewProxied pairs a caller with a callee. Both are required.
func NewProxied(caller, callee Sender) (*Proxied, error) {
	if caller == nil || callee == nil {
		return nil, ErrNilSender
	}
	return &Proxied{caller: caller, callee: callee}, nil
}

// Caller returns the reporting identity.
func (p *Proxied) Caller() Sender { return p.caller }

// Callee returns the acting identity.
func (p *Proxied) Callee() Sender { return p.callee }

func (p *Proxied) Kind() Kind { return KindProxied }
func (p *Proxied) Name() string { return p.callee.Name() }
func (p *Proxied) Location() Vector3 { return p.callee.Location() }
func (p *Proxied) Dimension() Dimension { return p.callee.Dimension() }
func (p *Proxied) IsOp() bool { return p.caller.IsOp() }
func (p *Proxied) PermissionLevel() int { return p.caller.PermissionLevel() }
func (p *Proxied) SendMessage(msgs ...Message) { p.caller.SendMessage(msgs...) }

func (p *Proxied) HasSufficientPermission(required PermissionGated) bool {
	return hasSufficientPermission(p, required)
}

func (p *Proxied) runner() Runner { return p.caller.runner() }

func (p *Proxied) RunCommand(line string) (response.Response, error) {
	return base{run: p.runner()}.runCommand(p, line)
}

func (p *Proxied) RunCommandAsync(ctx context.Context, line string) Pending {
	return base{run: p.runner()}.runCommandAsync(ctx, p, line)
}

// Origin unwraps proxies until the original caller is reached.
func Origin(s Sender) Sender {
	for {
		p, ok := s.(*Proxied)
		if !ok {
			return s
		}
		s = p.caller
	}
}
