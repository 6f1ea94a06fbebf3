/*
 * MIT License
 *
 * Copyright (c) 2025 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Package worker implements spec.md §4.1's connection worker pool: a bounded
// FIFO queue of work items, drained by at least min and at most max workers,
// elastic workers above min exiting after idling past idleTimeout, new
// workers spawned on demand as items arrive.
package worker

import (
	"context"
	"time"
)

// Item is one unit of work: the full connection lifecycle, as spec.md §4.1
// describes it ("executes the full connection lifecycle, then loops").
type Item func(ctx context.Context)

// Pool is the bounded, elastic worker pool fed by the acceptor.
type Pool interface {
	// Start launches the minimum worker count and the supervising loop.
	Start(ctx context.Context) error

	// Stop drains the queue with a sentinel and waits for every worker to exit.
	Stop(ctx context.Context) error

	// Submit enqueues an item, blocking until a slot is free or ctx is done.
	// It spawns an additional elastic worker if demand warrants one and
	// capacity allows it.
	Submit(ctx context.Context, item Item) error

	// Active returns the current number of running workers.
	Active() int64

	// Queued returns the number of items currently waiting in the queue.
	Queued() int
}

// Config bounds the pool's worker count and idle behavior.
type Config struct {
	Min          int
	Max          int
	QueueDepth   int
	IdleTimeout  time.Duration
}

// New builds a Pool per cfg, clamping Min/Max/QueueDepth to sane positive
// values (Min<=Max, both >=1; QueueDepth>=1; IdleTimeout>0, defaulting to a
// generous 30s as the teacher's ambient stack does for similar idle windows).
func New(cfg Config) Pool {
	if cfg.Max < 1 {
		cfg.Max = 1
	}
	if cfg.Min < 0 {
		cfg.Min = 0
	}
	if cfg.Min > cfg.Max {
		cfg.Min = cfg.Max
	}
	if cfg.QueueDepth < 1 {
		cfg.QueueDepth = 1
	}
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = 30 * time.Second
	}

	return &pool{cfg: cfg}
}
