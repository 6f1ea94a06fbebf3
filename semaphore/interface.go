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

// Package semaphore is the module's bounded worker-pool primitive: every
// place that fans requests out to a limited number of goroutines (backend
// health probes, the control CLI's bulk operations, ACME order pipelines)
// goes through a Semaphore instead of its own ad-hoc sync.WaitGroup.
package semaphore

import (
	"context"
	"runtime"

	"github.com/vbauerster/mpb/v8"

	"github.com/nabbar/poundlb/semaphore/bar"
	"github.com/nabbar/poundlb/semaphore/nobar"
	libsem "github.com/nabbar/poundlb/semaphore/sem"
)

// Semaphore is a bounded worker pool, optionally rendering per-worker
// progress bars to a terminal.
type Semaphore interface {
	libsem.Sem

	// GetMPB returns the progress container, or nil if constructed without one.
	GetMPB() *mpb.Progress

	BarBytes(name, msg string, total int64, drop bool, queueAfter *mpb.Bar) *mpb.Bar
	BarNumber(name, msg string, total int64, drop bool, queueAfter *mpb.Bar) *mpb.Bar
	BarTime(name, msg string, total int64, drop bool, queueAfter *mpb.Bar) *mpb.Bar
	BarOpts(total int64, drop bool) *mpb.Bar

	// Clone builds an independent Semaphore sharing the same weight and
	// progress-bar setting, derived from a fresh context.
	Clone(ctx context.Context) Semaphore
}

// New builds a Semaphore capped at n concurrent workers. When progress is
// true, every Bar* call renders onto a shared mpb.Progress container;
// otherwise bar accessors are no-ops and GetMPB returns nil.
func New(ctx context.Context, n int64, progress bool) Semaphore {
	n = SetSimultaneous(n)

	if progress {
		return &withBar{Sem: bar.New(ctx, n), n: n}
	}

	return &withoutBar{Sem: nobar.New(ctx, n), n: n}
}

// MaxSimultaneous returns the default worker cap: four times the number of
// available CPUs, a generous bound for I/O-bound reverse-proxy workers.
func MaxSimultaneous() int {
	return runtime.NumCPU() * 4
}

// SetSimultaneous clamps n into [1, MaxSimultaneous()], returning
// MaxSimultaneous() itself for any non-positive input.
func SetSimultaneous(n int64) int64 {
	max := int64(MaxSimultaneous())

	if n <= 0 {
		return max
	}
	if n > max {
		return max
	}
	return n
}
