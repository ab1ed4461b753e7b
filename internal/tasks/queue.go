// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package tasks

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
)

// DefaultMaxPending is the number of submissions a single tick admits.
const DefaultMaxPending = 128

// ErrQueueFull rejects a submission made while the current batch is full.
var ErrQueueFull = errors.New("async command queue is full for this tick")

// =============================================================================
// QUEUE
// =============================================================================

// Queue holds the batch of tasks waiting for the next tick.
type Queue struct {
	mu         sync.Mutex
	pending    []*Task
	maxPending int

	// tickMu serializes ticks so batches never overlap.
	tickMu sync.Mutex

	submitted atomic.Int64
	rejected  atomic.Int64
	completed atomic.Int64
	ticks     atomic.Int64
}

// Stats is a snapshot of queue counters.
type Stats struct {
	Pending   int
	Submitted int64
	Rejected  int64
	Completed int64
	Ticks     int64
}

// NewQueue creates a queue admitting up to maxPending tasks per tick. A
// non-positive value selects DefaultMaxPending.
func NewQueue(maxPending int) *Queue {
	if maxPending <= 0 {
		maxPending = DefaultMaxPending
	}
	return &Queue{
		pending:    make([]*Task, 0, maxPending),
		maxPending: maxPending,
	}
}

// Capacity returns the per-tick admission limit.
func (q *Queue) Capacity() int { return q.maxPending }

// Pending returns the number of tasks waiting for the next tick.
func (q *Queue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Submit queues run for the next tick. When the batch is already full the
// returned task is failed with ErrQueueFull and run is never called. A
// context that is already done rejects the submission with its error.
func (q *Queue) Submit(ctx context.Context, label string, run RunFunc) *Task {
	q.submitted.Add(1)

	if ctx != nil && ctx.Err() != nil {
		q.rejected.Add(1)
		return Rejected(label, ctx.Err())
	}

	task := newTask(ctx, label, run)

	q.mu.Lock()
	if len(q.pending) >= q.maxPending {
		q.mu.Unlock()
		q.rejected.Add(1)
		task.finish(StatusFailed, task.resp, ErrQueueFull)
		return task
	}
	q.pending = append(q.pending, task)
	q.mu.Unlock()

	return task
}

// Tick runs every task that was pending when the tick began, in submission
// order, and returns how many ran. Tasks submitted during the tick (including
// by the tasks themselves) are left for the next tick.
func (q *Queue) Tick() int {
	q.tickMu.Lock()
	defer q.tickMu.Unlock()

	q.mu.Lock()
	batch := q.pending
	q.pending = make([]*Task, 0, q.maxPending)
	q.mu.Unlock()

	q.ticks.Add(1)
	for _, task := range batch {
		task.execute()
		q.completed.Add(1)
	}
	return len(batch)
}

// Stats returns a snapshot of the queue counters.
func (q *Queue) Stats() Stats {
	return Stats{
		Pending:   q.Pending(),
		Submitted: q.submitted.Load(),
		Rejected:  q.rejected.Load(),
		Completed: q.completed.Load(),
		Ticks:     q.ticks.Load(),
	}
}
