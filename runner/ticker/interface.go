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

// Package ticker wraps a time.Ticker into a restartable background task, used
// by the module for periodic housekeeping: session-table expiry sweeps,
// MATRIX backend DNS re-resolution, and control-server metrics snapshots.
package ticker

import (
	"context"
	"time"
)

// minDuration is the shortest tick interval honored as given; anything
// smaller (including zero and negative) falls back to defaultDuration.
const (
	minDuration     = time.Millisecond
	defaultDuration = time.Second
)

// Ticker runs a function on every tick of an internal time.Ticker until
// stopped or until its context is cancelled.
type Ticker interface {
	// Start launches the ticker loop asynchronously and returns immediately.
	Start(ctx context.Context) error

	// Stop halts the ticker loop and waits for the in-flight tick, if any, to
	// finish. Idempotent.
	Stop(ctx context.Context) error

	// Restart stops the current loop, if any, and starts a new one.
	Restart(ctx context.Context) error

	// IsRunning reports whether the ticker loop is currently active.
	IsRunning() bool

	// Uptime returns how long the current loop has been running, or zero when
	// not running.
	Uptime() time.Duration

	// ErrorsLast returns the most recently recorded error, or nil.
	ErrorsLast() error

	// ErrorsList returns every error recorded since the last Start call.
	ErrorsList() []error
}

// New builds a Ticker that calls fn on every tick of the given duration. A
// duration below minDuration is replaced by defaultDuration. A nil fn is
// tolerated; Start still runs the loop, recording an error per tick.
func New(d time.Duration, fn func(ctx context.Context, tck *time.Ticker) error) Ticker {
	if d < minDuration {
		d = defaultDuration
	}

	return &tick{
		dur: d,
		fn:  fn,
	}
}
