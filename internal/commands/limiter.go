// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"sync"

	"golang.org/x/time/rate"

	"github.com/jeranaias/slashcmd/internal/sender"
)

// senderLimiter keeps one token bucket per player. Console, block, script
// and proxied senders are never limited.
type senderLimiter struct {
	mu       sync.Mutex
	limit    rate.Limit
	burst    int
	limiters map[string]*rate.Limiter
}

func newSenderLimiter(limit rate.Limit, burst int) *senderLimiter {
	if burst <= 0 {
		burst = 1
	}
	return &senderLimiter{
		limit:    limit,
		burst:    burst,
		limiters: make(map[string]*rate.Limiter),
	}
}

func (l *senderLimiter) allow(s sender.Sender) bool {
	if s.Kind() != sender.KindPlayer {
		return true
	}
	return l.get(s.Name()).Allow()
}

func (l *senderLimiter) get(name string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	limiter, ok := l.limiters[name]
	if !ok {
		limiter = rate.NewLimiter(l.limit, l.burst)
		l.limiters[name] = limiter
	}
	return limiter
}
