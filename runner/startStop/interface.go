/*
 * MIT License
 *
 * Copyright (c) 2022 Nicolas JUHEL
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

// Package startStop wraps a pair of start/stop functions into a restartable
// background task with uptime and error tracking, used by the module for every
// long-lived loop (listener accept loop, resolver refresh loop, control server).
package startStop

import (
	"context"
	"time"

	errpool "github.com/nabbar/poundlb/errors/pool"
)

// StartStop runs one start function as a managed background goroutine and
// stops it, on demand, with a paired stop function. Calling Start while
// already running stops the previous instance first.
type StartStop interface {
	// Start launches the start function asynchronously and returns immediately.
	// A nil start function is recorded as an error, visible via ErrorsLast.
	Start(ctx context.Context) error

	// Stop cancels the running instance, waits for it to return, and then
	// invokes the stop function. It is idempotent: calling Stop when not
	// running, or concurrently, is safe and calls the stop function at most once.
	Stop(ctx context.Context) error

	// Restart stops the current instance, if any, and starts a new one.
	Restart(ctx context.Context) error

	// IsRunning reports whether the start function is currently executing.
	IsRunning() bool

	// Uptime returns how long the current instance has been running, or zero
	// when not running.
	Uptime() time.Duration

	// ErrorsLast returns the most recently recorded error, or nil.
	ErrorsLast() error

	// ErrorsList returns every error recorded since the last Start call.
	ErrorsList() []error
}

// New builds a StartStop around the given start/stop functions. Either may be
// nil; calling Start or Stop on a nil function records an error instead of
// panicking.
func New(start, stop func(ctx context.Context) error) StartStop {
	return &runner{
		fnStart: start,
		fnStop:  stop,
		errs:    errpool.New(),
	}
}
