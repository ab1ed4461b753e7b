// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package console

import (
	"strings"
	"sync"

	"github.com/jeranaias/slashcmd/internal/config"
	"github.com/jeranaias/slashcmd/internal/sender"
)

// =============================================================================
// SIMULATED PLAYER
// =============================================================================

// player is a host player backed by configuration. Its fields can change on
// reload while the sender wrapping it stays the same.
type player struct {
	mu    sync.RWMutex
	name  string
	op    bool
	level int
	dim   sender.Dimension
	loc   sender.Vector3

	out *sender.Outbox
}

func (p *player) Name() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.name
}

func (p *player) Location() sender.Vector3 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.loc
}

func (p *player) Dimension() sender.Dimension {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.dim
}

func (p *player) IsOp() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.op
}

func (p *player) PermissionLevel() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.level
}

func (p *player) SendMessage(msgs ...sender.Message) { p.out.Deliver(msgs...) }

func (p *player) moveTo(loc sender.Vector3, dim sender.Dimension) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.loc = loc
	p.dim = dim
}

func (p *player) update(pc config.PlayerConfig, defLevel int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.name = pc.Name
	p.op = pc.Op
	p.level = pc.Level(defLevel)
	p.dim = sender.NamedDimension(pc.Dimension)
	p.loc = sender.Vector3{X: pc.X, Y: pc.Y, Z: pc.Z}
}

// =============================================================================
// DIRECTORY
// =============================================================================

// Directory holds the simulated players in configuration order.
type Directory struct {
	run sender.Runner

	mu      sync.RWMutex
	order   []*sender.PlayerSender
	byName  map[string]*player // lowercased name
	senders map[*player]*sender.PlayerSender
}

// NewDirectory creates an empty directory whose players re-enter run.
func NewDirectory(run sender.Runner) *Directory {
	return &Directory{
		run:     run,
		byName:  make(map[string]*player),
		senders: make(map[*player]*sender.PlayerSender),
	}
}

// Apply makes the directory match players. Existing players keep their
// sender and pending output; players no longer listed are dropped.
func (d *Directory) Apply(players []config.PlayerConfig, defLevel int) {
	d.mu.Lock()
	defer d.mu.Unlock()

	byName := make(map[string]*player, len(players))
	order := make([]*sender.PlayerSender, 0, len(players))
	for _, pc := range players {
		key := strings.ToLower(pc.Name)
		p, ok := d.byName[key]
		if !ok {
			p = &player{out: sender.NewOutbox()}
			d.senders[p] = sender.NewPlayer(d.run, p)
		}
		p.update(pc, defLevel)
		byName[key] = p
		order = append(order, d.senders[p])
	}
	for key, p := range d.byName {
		if _, kept := byName[key]; !kept {
			delete(d.senders, p)
		}
	}
	d.byName = byName
	d.order = order
}

// Players implements builtin.Directory.
func (d *Directory) Players() []sender.Sender {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]sender.Sender, len(d.order))
	for i, p := range d.order {
		out[i] = p
	}
	return out
}

// Lookup finds a player by name, ignoring case.
func (d *Directory) Lookup(name string) (*sender.PlayerSender, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	p, ok := d.byName[strings.ToLower(name)]
	if !ok {
		return nil, false
	}
	return d.senders[p], true
}

// Delivery is output drained from one player.
type Delivery struct {
	Player   string
	Messages []sender.Message
}

// Drain removes the pending output of every player, in directory order.
func (d *Directory) Drain() []Delivery {
	d.mu.RLock()
	defer d.mu.RUnlock()
	var out []Delivery
	for _, ps := range d.order {
		p := ps.Player().(*player)
		if msgs := p.out.Drain(); len(msgs) > 0 {
			out = append(out, Delivery{Player: p.Name(), Messages: msgs})
		}
	}
	return out
}
