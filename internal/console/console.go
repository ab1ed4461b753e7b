// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"

	"github.com/jeranaias/slashcmd/internal/builtin"
	"github.com/jeranaias/slashcmd/internal/commands"
	"github.com/jeranaias/slashcmd/internal/config"
	"github.com/jeranaias/slashcmd/internal/logging"
	"github.com/jeranaias/slashcmd/internal/response"
	"github.com/jeranaias/slashcmd/internal/sender"
	"github.com/jeranaias/slashcmd/internal/tasks"
)

// ErrUnknownPlayer is returned when switching to a player that is not
// configured.
var ErrUnknownPlayer = errors.New("unknown player")

// =============================================================================
// CONSOLE
// =============================================================================

// Console wires a registry to a terminal.
type Console struct {
	logger    *log.Logger
	registry  *commands.Registry
	builtins  *builtin.Set
	directory *Directory
	outbox    *sender.Outbox
	server    *sender.Console
	renderer  *Renderer
	scheduler *tasks.Scheduler

	outMu sync.Mutex
	out   io.Writer

	mu       sync.Mutex
	cfg      *config.Config
	identity sender.Sender
	inflight []inflight
}

// inflight is an asynchronous command whose result has not been reported.
type inflight struct {
	who  sender.Sender
	task *tasks.Task
}

// New builds a console from cfg. Output is written to out using the given
// color profile.
func New(cfg *config.Config, logger *log.Logger, out io.Writer, profile termenv.Profile) (*Console, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = logging.Discard()
	}

	opts := []commands.RegistryOption{
		commands.WithLogger(logger),
		commands.WithCheatsEnabled(cfg.CheatsEnabled),
		commands.WithAsyncCapacity(cfg.Async.MaxPendingPerTick),
		commands.WithMaxDepth(cfg.MaxNestingDepth),
	}
	if cfg.RateLimit.PerSecond > 0 {
		opts = append(opts, commands.WithRateLimit(cfg.RateLimit.PerSecond, cfg.RateLimit.Burst))
	}
	reg := commands.NewRegistry(opts...)

	c := &Console{
		logger:    logger,
		registry:  reg,
		directory: NewDirectory(reg.Runner()),
		outbox:    sender.NewOutbox(),
		renderer:  NewRenderer(out, profile),
		out:       out,
		cfg:       cfg,
	}
	c.server = sender.NewConsole(reg.Runner(), c.outbox)
	c.identity = c.server
	c.directory.Apply(cfg.Players, cfg.DefaultPermissionLevel)

	set, err := builtin.Register(reg, c.directory, builtin.WithBroadcastSink(c.outbox))
	if err != nil {
		return nil, err
	}
	c.builtins = set
	if err := reg.RegisterCommandOption(c.hostOptions()...); err != nil {
		return nil, err
	}
	if err := reg.RegisterCommand(c.hostCommands()...); err != nil {
		return nil, err
	}

	interval := time.Duration(cfg.Async.TickIntervalMS) * time.Millisecond
	c.scheduler = tasks.NewScheduler(reg.Queue(), interval)
	c.scheduler.OnTick(func(int) { c.Flush() })

	logger.Debug("console ready", "players", len(cfg.Players), "cheats", cfg.CheatsEnabled, "tick", interval)
	return c, nil
}

// Registry returns the console's command registry.
func (c *Console) Registry() *commands.Registry { return c.registry }

// Directory returns the simulated players.
func (c *Console) Directory() *Directory { return c.directory }

// Server returns the console sender.
func (c *Console) Server() *sender.Console { return c.server }

// Identity returns the sender commands are currently issued as.
func (c *Console) Identity() sender.Sender {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.identity
}

// SetIdentity issues subsequent commands as the named player, or as the
// console for "server" or "console".
func (c *Console) SetIdentity(name string) error {
	var who sender.Sender
	switch strings.ToLower(name) {
	case "server", "console":
		who = c.server
	default:
		p, ok := c.directory.Lookup(name)
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownPlayer, name)
		}
		who = p
	}
	c.mu.Lock()
	c.identity = who
	c.mu.Unlock()
	return nil
}

// Start begins ticking the asynchronous queue.
func (c *Console) Start() { c.scheduler.Start() }

// Stop halts the scheduler, runs whatever is still queued and reports it.
func (c *Console) Stop() {
	c.scheduler.Stop()
	c.Drain()
}

// Drain ticks the queue until it is empty, then flushes output. Work queued
// by the tasks themselves is included, up to the nesting limit.
func (c *Console) Drain() {
	c.mu.Lock()
	rounds := c.cfg.MaxNestingDepth
	c.mu.Unlock()

	for i := 0; i < rounds && c.registry.Queue().Pending() > 0; i++ {
		c.registry.Tick()
	}
	c.Flush()
}

// Exec dispatches line as the current identity and flushes the output.
func (c *Console) Exec(line string) response.Response {
	who := c.Identity()
	resp := c.registry.Dispatch(who, line)
	if resp.Status == response.SyntaxError {
		c.suggest(who, line)
	}
	c.Flush()
	return resp
}

// suggest follows an unknown command with the closest name the issuer may use.
func (c *Console) suggest(who sender.Sender, line string) {
	name := commands.ExtractCommandName(line)
	if _, ok := c.registry.Lookup(name); ok {
		return
	}
	if hint := c.registry.Suggest(who, name); hint != "" {
		who.SendMessage(sender.Text(fmt.Sprintf("Did you mean /%s?", hint)))
	}
}

// Flush reports finished asynchronous commands and writes every pending
// message.
func (c *Console) Flush() {
	c.reportFinished()

	c.outMu.Lock()
	defer c.outMu.Unlock()
	for _, m := range c.outbox.Drain() {
		fmt.Fprintln(c.out, c.renderer.Message(m))
	}
	for _, d := range c.directory.Drain() {
		for _, m := range d.Messages {
			fmt.Fprintln(c.out, c.renderer.PlayerMessage(d.Player, m))
		}
	}
}

func (c *Console) track(who sender.Sender, task *tasks.Task) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inflight = append(c.inflight, inflight{who: who, task: task})
}

// reportFinished sends each finished asynchronous result to its issuer.
func (c *Console) reportFinished() {
	c.mu.Lock()
	var finished []inflight
	pending := c.inflight[:0]
	for _, f := range c.inflight {
		if f.task.Status().Terminal() {
			finished = append(finished, f)
		} else {
			pending = append(pending, f)
		}
	}
	c.inflight = pending
	c.mu.Unlock()

	for _, f := range finished {
		resp, err := f.task.Wait(context.Background())
		var execErr *commands.CommandExecutionError
		switch {
		case err == nil:
			if resp.Message != "" {
				f.who.SendMessage(sender.Text(resp.Message))
			}
		case errors.As(err, &execErr):
			f.who.SendMessage(sender.Error(execErr.Response.Message))
		default:
			f.who.SendMessage(sender.Error(fmt.Sprintf("Async command %q failed: %v", f.task.Label(), err)))
		}
		c.logger.Debug("async command finished", "summary", f.task.Summary())
	}
}

// Apply applies a reloaded configuration. Cheat mode, players and the log
// level change live; queue and limiter settings need a restart.
func (c *Console) Apply(cfg *config.Config) {
	c.mu.Lock()
	old := c.cfg
	c.cfg = cfg
	c.mu.Unlock()

	c.registry.SetCheatsEnabled(cfg.CheatsEnabled)
	c.directory.Apply(cfg.Players, cfg.DefaultPermissionLevel)
	if lvl, err := logging.ParseLevel(cfg.Log.Level); err == nil {
		c.logger.SetLevel(lvl)
	}

	if old.Async != cfg.Async || old.RateLimit != cfg.RateLimit || old.MaxNestingDepth != cfg.MaxNestingDepth {
		c.logger.Warn("some settings take effect after restart", "sections", "async, rate_limit, max_nesting_depth")
	}

	// An identity that was removed falls back to the console.
	if who := c.Identity(); who.Kind() == sender.KindPlayer {
		if _, ok := c.directory.Lookup(who.Name()); !ok {
			_ = c.SetIdentity("server")
		}
	}
	c.logger.Info("config reloaded", "players", len(cfg.Players), "cheats", cfg.CheatsEnabled)
}

// Complete returns full-line completions for the REPL.
func (c *Console) Complete(line string) []string {
	if strings.HasPrefix(line, ":") {
		return c.completeDirective(line)
	}
	completions := c.registry.Complete(c.Identity(), line)
	out := make([]string, 0, len(completions))
	for _, comp := range completions {
		out = append(out, comp.Line)
	}
	return out
}
