/*
 * MIT License
 *
 * Copyright (c) 2019 Nicolas JUHEL
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

// Package sem wraps golang.org/x/sync/semaphore.Weighted with a worker count
// cap usable directly as a context.Context, so a bounded pool of request
// handlers can be cancelled the same way any other context-scoped work is.
package sem

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// Sem is a counting semaphore of at most Weighted() concurrent workers. It
// embeds context.Context: cancelling the parent context used at New, or
// calling DeferMain, cancels every worker still registered.
type Sem interface {
	context.Context

	// Weighted returns the maximum number of concurrent workers.
	Weighted() int64

	// NewWorker blocks until a worker slot is free or the context is done.
	NewWorker() error

	// NewWorkerTry acquires a worker slot without blocking, returning false if
	// none is immediately available.
	NewWorkerTry() bool

	// DeferWorker releases one worker slot. Pair with NewWorker/NewWorkerTry.
	DeferWorker()

	// WaitAll blocks until every outstanding worker slot has been released.
	WaitAll() error

	// DeferMain cancels the semaphore's context, unblocking any waiter.
	DeferMain()
}

// New builds a Sem capped at n concurrent workers, derived from ctx.
func New(ctx context.Context, n int64) Sem {
	if n < 1 {
		n = 1
	}

	c, cancel := context.WithCancel(ctx)

	return &sem{
		Context: c,
		cancel:  cancel,
		weight:  n,
		weighted: semaphore.NewWeighted(n),
	}
}
