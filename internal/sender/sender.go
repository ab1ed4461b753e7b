// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package sender

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/jeranaias/slashcmd/internal/response"
)

// =============================================================================
// KINDS AND LEVELS
// =============================================================================

// Kind tags the concrete sender variant.
type Kind int

const (
	KindConsole Kind = iota
	KindBlock
	KindScript
	KindPlayer
	KindProxied
)

// String returns the variant name.
func (k Kind) String() string {
	switch k {
	case KindConsole:
		return "console"
	case KindBlock:
		return "block"
	case KindScript:
		return "script"
	case KindPlayer:
		return "player"
	case KindProxied:
		return "proxied"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Permission levels used by the host.
const (
	LevelAny           = 0
	LevelGameDirectors = 1
	LevelAdmin         = 2
	LevelHost          = 3
	LevelOwner         = 4
)

// Fixed names of the built-in identities.
const (
	ConsoleName = "Server"
	ScriptName  = "Script Engine"
)

// =============================================================================
// HOST TYPES
// =============================================================================

// Vector3 is a position in a dimension.
type Vector3 struct {
	X, Y, Z float64
}

// DistanceSquared returns the squared euclidean distance between v and o.
func (v Vector3) DistanceSquared(o Vector3) float64 {
	dx, dy, dz := v.X-o.X, v.Y-o.Y, v.Z-o.Z
	return dx*dx + dy*dy + dz*dz
}

// Distance returns the euclidean distance between v and o.
func (v Vector3) Distance(o Vector3) float64 {
	return math.Sqrt(v.DistanceSquared(o))
}

// Dimension is an opaque, host-owned dimension reference.
type Dimension interface {
	ID() string
}

// NamedDimension is a Dimension identified only by its id.
type NamedDimension string

// ID implements Dimension.
func (d NamedDimension) ID() string { return string(d) }

const (
	Overworld NamedDimension = "overworld"
	Nether    NamedDimension = "nether"
	TheEnd    NamedDimension = "the_end"
)

// Player is the host's player entity.
type Player interface {
	Name() string
	Location() Vector3
	Dimension() Dimension
	SendMessage(msgs ...Message)
	IsOp() bool
	PermissionLevel() int
}

// Block is the host's block reference.
type Block interface {
	TypeID() string
	Location() Vector3
	Dimension() Dimension
}

// =============================================================================
// SENDER
// =============================================================================

// PermissionGated is anything that requires a permission level to use.
type PermissionGated interface {
	PermissionLevel() int
}

// Pending is an in-flight asynchronous command.
type Pending interface {
	Done() <-chan struct{}
	Wait(ctx context.Context) (response.Response, error)
}

// Runner re-enters the command registry on behalf of a sender.
type Runner interface {
	RunCommand(s Sender, line string) (response.Response, error)
	RunCommandAsync(ctx context.Context, s Sender, line string) Pending
}

// ErrNoRunner is returned when a sender was built without a registry.
var ErrNoRunner = errors.New("sender has no command runner")

// ErrNilSender is returned when a proxy is built with a missing side.
var ErrNilSender = errors.New("proxied sender requires both caller and callee")

// ErrNilBlock is returned when a block sender is built without a block.
var ErrNilBlock = errors.New("block sender requires a block")

// Sender is the capability set shared by every command issuer.
type Sender interface {
	Kind() Kind
	Name() string
	Location() Vector3
	Dimension() Dimension

	// SendMessage enqueues output for the sender without blocking.
	SendMessage(msgs ...Message)
	IsOp() bool
	PermissionLevel() int
	HasSufficientPermission(required PermissionGated) bool

	// RunCommand runs line synchronously with this sender as the issuer.
	RunCommand(line string) (response.Response, error)
	// RunCommandAsync queues line for the next scheduling tick.
	RunCommandAsync(ctx context.Context, line string) Pending

	runner() Runner
}

func hasSufficientPermission(s Sender, required PermissionGated) bool {
	if required == nil {
		return true
	}
	return s.PermissionLevel() >= required.PermissionLevel()
}

// base carries the registry handle shared by all variants.
type base struct {
	run Runner
}

func (b base) runner() Runner { return b.run }

func (b base) runCommand(self Sender, line string) (response.Response, error) {
	if b.run == nil {
		return response.Response{}, ErrNoRunner
	}
	return b.run.RunCommand(self, line)
}

func (b base) runCommandAsync(ctx context.Context, self Sender, line string) Pending {
	if b.run == nil {
		return rejected{err: ErrNoRunner}
	}
	return b.run.RunCommandAsync(ctx, self, line)
}

// rejected is a Pending that already failed.
type rejected struct {
	err error
}

var closedDone = func() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}()

func (r rejected) Done() <-chan struct{} { return closedDone }

func (r rejected) Wait(context.Context) (response.Response, error) {
	return response.Response{}, r.err
}
