// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"context"
	"errors"
	"io"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"github.com/jeranaias/slashcmd/internal/response"
	"github.com/jeranaias/slashcmd/internal/sender"
	"github.com/jeranaias/slashcmd/internal/tasks"
)

// DefaultMaxDepth bounds synchronous re-entry (a command running a command).
const DefaultMaxDepth = 32

// =============================================================================
// COMMAND REGISTRY
// =============================================================================

// Registry holds the registered commands and options and dispatches lines
// against them. It is safe for concurrent use.
type Registry struct {
	mu          sync.RWMutex
	commands    map[string]*Command
	aliases     map[string]*Command
	order       []*Command
	options     map[string]*Option
	optionOrder []*Option

	cheats   atomic.Bool
	logger   *log.Logger
	queue    *tasks.Queue
	limiter  *senderLimiter
	maxDepth int

	depthMu sync.Mutex
	depth   map[sender.Sender]int
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *log.Logger) RegistryOption {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithCheatsEnabled sets the initial cheat mode.
func WithCheatsEnabled(enabled bool) RegistryOption {
	return func(r *Registry) { r.cheats.Store(enabled) }
}

// WithAsyncCapacity sets how many asynchronous runs one tick admits.
func WithAsyncCapacity(n int) RegistryOption {
	return func(r *Registry) { r.queue = tasks.NewQueue(n) }
}

// WithRateLimit limits how fast each player may issue commands. A
// non-positive limit disables limiting.
func WithRateLimit(perSecond float64, burst int) RegistryOption {
	return func(r *Registry) {
		if perSecond <= 0 {
			r.limiter = nil
			return
		}
		r.limiter = newSenderLimiter(rate.Limit(perSecond), burst)
	}
}

// WithMaxDepth bounds synchronous re-entry. A non-positive value selects
// DefaultMaxDepth.
func WithMaxDepth(n int) RegistryOption {
	return func(r *Registry) {
		if n <= 0 {
			n = DefaultMaxDepth
		}
		r.maxDepth = n
	}
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		commands: make(map[string]*Command),
		aliases:  make(map[string]*Command),
		options:  make(map[string]*Option),
		logger:   log.New(io.Discard),
		queue:    tasks.NewQueue(tasks.DefaultMaxPending),
		maxDepth: DefaultMaxDepth,
		depth:    make(map[sender.Sender]int),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Logger returns the registry's logger.
func (r *Registry) Logger() *log.Logger { return r.logger }

// =============================================================================
// REGISTRATION
// =============================================================================

// RegisterCommandOption registers options. The batch is all-or-nothing: on
// any error the registry is unchanged.
func (r *Registry) RegisterCommandOption(opts ...*Option) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	batch := make(map[string]*Option, len(opts))
	var errs []error
	for _, o := range opts {
		if o == nil {
			errs = append(errs, declErr(DeclInvalidValue, "", "nil option"))
			continue
		}
		if err := o.validate(); err != nil {
			errs = append(errs, err)
			continue
		}
		if _, ok := r.options[o.name]; ok {
			errs = append(errs, &DuplicateNameError{Name: o.name, Space: "option"})
			continue
		}
		if _, ok := batch[o.name]; ok {
			errs = append(errs, &DuplicateNameError{Name: o.name, Space: "option"})
			continue
		}
		batch[o.name] = o
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	for _, o := range opts {
		r.options[o.name] = o
		r.optionOrder = append(r.optionOrder, o)
		r.logger.Debug("option registered", "name", o.name, "dynamic", o.Dynamic())
	}
	return nil
}

// RegisterCommand registers commands. Every name and alias must be unused,
// every parameter type must name a primitive or a registered option and
// every command needs an executor. The batch is all-or-nothing.
func (r *Registry) RegisterCommand(cmds ...*Command) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	claimed := make(map[string]string)
	var errs []error
	for _, c := range cmds {
		if err := r.checkCommandLocked(c, claimed); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	for _, c := range cmds {
		if len(c.overloads) == 0 {
			c.overloads = []*Overload{NewOverload()}
		}
		c.frozen.Store(true)
		r.commands[c.name] = c
		for _, a := range c.aliases {
			r.aliases[a] = c
		}
		r.order = append(r.order, c)
		r.logger.Debug("command registered", "name", c.name, "aliases", c.aliases, "overloads", len(c.overloads))
	}
	return nil
}

// checkCommandLocked validates c against the registry and the names already
// claimed by earlier commands of the same batch.
func (r *Registry) checkCommandLocked(c *Command, claimed map[string]string) error {
	if c == nil {
		return declErr(DeclInvalidValue, "", "nil command")
	}
	if c.err != nil {
		return c.err
	}
	if c.frozen.Load() {
		return &DuplicateNameError{Name: c.name, Space: "command", Owner: c.name}
	}
	if c.executor == nil {
		return declErr(DeclMissingExecutor, c.name, "command has no executor")
	}

	for _, n := range c.names() {
		if owner := r.ownerLocked(n); owner != nil {
			return &DuplicateNameError{Name: n, Space: "command", Owner: owner.name}
		}
		if owner, ok := claimed[n]; ok {
			return &DuplicateNameError{Name: n, Space: "command", Owner: owner}
		}
	}

	for _, o := range c.overloads {
		if err := r.checkOverloadLocked(c.name, o); err != nil {
			return err
		}
	}

	for _, n := range c.names() {
		claimed[n] = c.name
	}
	return nil
}

func (r *Registry) checkOverloadLocked(command string, o *Overload) error {
	seenOptional := false
	for _, p := range o.params {
		if p.Optional {
			seenOptional = true
		} else if seenOptional {
			return declErr(DeclParamOrder, command, "required parameter %s follows an optional one", p.Usage())
		}
		if IsPrimitive(p.Type) {
			continue
		}
		if _, ok := r.options[string(p.Type)]; !ok {
			return declErr(DeclUnresolvedType, command, "parameter %s names no primitive or registered option", p.Usage())
		}
	}
	return nil
}

func (r *Registry) ownerLocked(name string) *Command {
	if c, ok := r.commands[name]; ok {
		return c
	}
	return r.aliases[name]
}

// =============================================================================
// LOOKUP
// =============================================================================

// Lookup retrieves a command by name or alias.
func (r *Registry) Lookup(name string) (*Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c := r.ownerLocked(name)
	return c, c != nil
}

// Option retrieves a registered option by name.
func (r *Registry) Option(name string) (*Option, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.options[name]
	return o, ok
}

// CommandList returns every registered command in registration order.
func (r *Registry) CommandList() []*Command {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]*Command(nil), r.order...)
}

// Options returns every registered option in registration order.
func (r *Registry) Options() []*Option {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]*Option(nil), r.optionOrder...)
}

// ByCategory returns the visible commands grouped by category, each group
// sorted by name.
func (r *Registry) ByCategory() map[string][]*Command {
	result := make(map[string][]*Command)
	for _, c := range r.CommandList() {
		if c.hidden {
			continue
		}
		result[c.category] = append(result[c.category], c)
	}
	for _, group := range result {
		sort.Slice(group, func(i, j int) bool { return group[i].name < group[j].name })
	}
	return result
}

// =============================================================================
// CHEATS
// =============================================================================

// SetCheatsEnabled toggles cheat mode.
func (r *Registry) SetCheatsEnabled(enabled bool) {
	if r.cheats.Swap(enabled) != enabled {
		r.logger.Info("cheat mode changed", "enabled", enabled)
	}
}

// CheatsEnabled reports the current cheat mode.
func (r *Registry) CheatsEnabled() bool { return r.cheats.Load() }

// =============================================================================
// ASYNC
// =============================================================================

// Queue returns the asynchronous run queue, for driving it from a Scheduler.
func (r *Registry) Queue() *tasks.Queue { return r.queue }

// Tick runs every asynchronous command queued before the tick began.
func (r *Registry) Tick() int { return r.queue.Tick() }

// RunCommandAsync queues line for the next tick with s as the issuer. The
// returned task is rejected with ErrAsyncQueueFull when this tick's batch is
// full and with a *CommandExecutionError when the command does not succeed.
func (r *Registry) RunCommandAsync(ctx context.Context, s sender.Sender, line string) *tasks.Task {
	task := r.queue.Submit(ctx, line, func(context.Context) (response.Response, error) {
		return r.RunCommand(s, line)
	})
	if errors.Is(taskErr(task), tasks.ErrQueueFull) {
		r.logger.Warn("async command rejected", "id", task.ID(), "line", line, "capacity", r.queue.Capacity())
	}
	return task
}

// taskErr returns the error of an already finished task without blocking.
func taskErr(t *tasks.Task) error {
	select {
	case <-t.Done():
		_, err := t.Wait(context.Background())
		return err
	default:
		return nil
	}
}

// =============================================================================
// RUNNER ADAPTER
// =============================================================================

// Runner returns the registry as the re-entry handle senders are built with.
func (r *Registry) Runner() sender.Runner {
	return registryRunner{r: r}
}

type registryRunner struct {
	r *Registry
}

func (rr registryRunner) RunCommand(s sender.Sender, line string) (response.Response, error) {
	return rr.r.RunCommand(s, line)
}

func (rr registryRunner) RunCommandAsync(ctx context.Context, s sender.Sender, line string) sender.Pending {
	return rr.r.RunCommandAsync(ctx, s, line)
}
