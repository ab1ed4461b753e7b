// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package tasks provides the deferred command queue.
//
// Work submitted to a Queue runs on the next tick, never on the submitting
// call. A tick drains the batch that was pending when it started; anything
// submitted while the tick runs waits for the following one. Each tick admits
// a bounded number of submissions and rejects the rest with ErrQueueFull.
//
// # Key Types
//
//   - Task: one deferred unit of work and its completion handle
//   - Status: task status enumeration (Queued, Running, Complete, Failed, Canceled)
//   - Queue: the per-tick bounded batch
//   - Scheduler: drives Queue.Tick from a ticker
//
// # Usage
//
//	queue := tasks.NewQueue(tasks.DefaultMaxPending)
//	sched := tasks.NewScheduler(queue, 50*time.Millisecond)
//	sched.Start()
//	defer sched.Stop()
//
//	task := queue.Submit(ctx, "say hello", func(ctx context.Context) (response.Response, error) {
//		return registry.RunCommand(console, "say hello")
//	})
//	resp, err := task.Wait(ctx)
package tasks
