// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package tasks

import (
	"sync"
	"sync/atomic"
	"time"
)

// DefaultTickInterval matches the host's 20 ticks per second.
const DefaultTickInterval = 50 * time.Millisecond

// =============================================================================
// SCHEDULER
// =============================================================================

// Scheduler ticks a queue at a fixed interval on its own goroutine.
type Scheduler struct {
	queue    *Queue
	interval time.Duration
	onTick   func(ran int)

	stop    chan struct{}
	wg      sync.WaitGroup
	started atomic.Bool
	stopped atomic.Bool
}

// NewScheduler creates a scheduler for queue. A non-positive interval selects
// DefaultTickInterval.
func NewScheduler(queue *Queue, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	return &Scheduler{
		queue:    queue,
		interval: interval,
		stop:     make(chan struct{}),
	}
}

// OnTick installs a callback invoked after every tick that ran at least one
// task. It must be set before Start.
func (s *Scheduler) OnTick(fn func(ran int)) {
	s.onTick = fn
}

// Interval returns the tick interval.
func (s *Scheduler) Interval() time.Duration { return s.interval }

// Start begins ticking. Calling Start twice has no effect.
func (s *Scheduler) Start() {
	if !s.started.CompareAndSwap(false, true) {
		return
	}
	s.wg.Add(1)
	go s.loop()
}

// Stop halts ticking and waits for an in-flight tick to finish. Tasks still
// pending stay queued and can be drained with Queue.Tick.
func (s *Scheduler) Stop() {
	if !s.stopped.CompareAndSwap(false, true) {
		return
	}
	close(s.stop)
	s.wg.Wait()
}

func (s *Scheduler) loop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			if s.stopped.Load() {
				return
			}
			if ran := s.queue.Tick(); ran > 0 && s.onTick != nil {
				s.onTick(ran)
			}
		}
	}
}
