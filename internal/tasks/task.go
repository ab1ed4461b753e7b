// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package tasks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jeranaias/slashcmd/internal/response"
)

// =============================================================================
// TASK STATUS
// =============================================================================

// Status represents the current state of a deferred task.
type Status string

const (
	// StatusQueued indicates the task is waiting for a tick
	StatusQueued Status = "Queued"

	// StatusRunning indicates the task is executing
	StatusRunning Status = "Running"

	// StatusComplete indicates the task produced a response
	StatusComplete Status = "Complete"

	// StatusFailed indicates the task was rejected or returned an error
	StatusFailed Status = "Failed"

	// StatusCanceled indicates the task's context ended before it ran
	StatusCanceled Status = "Canceled"
)

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// Terminal reports whether no further transition is possible.
func (s Status) Terminal() bool {
	return s == StatusComplete || s == StatusFailed || s == StatusCanceled
}

// =============================================================================
// TASK
// =============================================================================

// RunFunc is the work a task performs when its tick arrives.
type RunFunc func(ctx context.Context) (response.Response, error)

// Task is a deferred unit of work. It doubles as the completion handle handed
// back to the submitter.
type Task struct {
	id    string
	label string
	ctx   context.Context
	run   RunFunc

	mu        sync.RWMutex
	status    Status
	queuedAt  time.Time
	startTime time.Time
	endTime   time.Time
	resp      response.Response
	err       error

	done chan struct{}
}

func newTask(ctx context.Context, label string, run RunFunc) *Task {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Task{
		id:       uuid.New().String(),
		label:    label,
		ctx:      ctx,
		run:      run,
		status:   StatusQueued,
		queuedAt: time.Now(),
		done:     make(chan struct{}),
	}
}

// Rejected returns a task that has already failed with err.
func Rejected(label string, err error) *Task {
	t := newTask(context.Background(), label, nil)
	t.finish(StatusFailed, response.Response{}, err)
	return t
}

// ID returns the task's unique identifier.
func (t *Task) ID() string { return t.id }

// Label returns the human-readable description, usually the command line.
func (t *Task) Label() string { return t.label }

// Status returns the current status (thread-safe).
func (t *Task) Status() Status {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.status
}

// Done is closed once the task reaches a terminal status.
func (t *Task) Done() <-chan struct{} { return t.done }

// Wait blocks until the task finishes or ctx ends. A canceled wait does not
// cancel the task itself.
func (t *Task) Wait(ctx context.Context) (response.Response, error) {
	select {
	case <-t.done:
	case <-ctx.Done():
		return response.Response{}, ctx.Err()
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.resp, t.err
}

// Duration returns how long the task has been running or took to complete.
func (t *Task) Duration() time.Duration {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.startTime.IsZero() {
		return 0
	}
	if t.endTime.IsZero() {
		return time.Since(t.startTime)
	}
	return t.endTime.Sub(t.startTime)
}

// Summary returns a one-line summary of the task.
func (t *Task) Summary() string {
	summary := fmt.Sprintf("[%s] %s - %s", t.id[:8], t.label, t.Status())
	if d := t.Duration(); d > 0 {
		summary += fmt.Sprintf(" (%.1fms)", float64(d.Microseconds())/1000)
	}
	return summary
}

// execute runs the task on the ticking goroutine.
func (t *Task) execute() {
	if err := t.ctx.Err(); err != nil {
		t.finish(StatusCanceled, response.Response{}, err)
		return
	}

	t.mu.Lock()
	t.status = StatusRunning
	t.startTime = time.Now()
	t.mu.Unlock()

	var (
		resp response.Response
		err  error
	)
	func() {
		defer func() {
			if p := recover(); p != nil {
				err = fmt.Errorf("task %s panicked: %v", t.id, p)
			}
		}()
		resp, err = t.run(t.ctx)
	}()

	if err != nil {
		t.finish(StatusFailed, resp, err)
		return
	}
	t.finish(StatusComplete, resp, nil)
}

// finish records the outcome once; later calls are ignored.
func (t *Task) finish(status Status, resp response.Response, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.status.Terminal() {
		return
	}
	t.status = status
	t.resp = resp
	t.err = err
	t.endTime = time.Now()
	if t.startTime.IsZero() {
		t.startTime = t.endTime
	}
	close(t.done)
}
