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

package startStop

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	errpool "github.com/nabbar/poundlb/errors/pool"
)

type runner struct {
	fnStart func(ctx context.Context) error
	fnStop  func(ctx context.Context) error

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}

	running   atomic.Bool
	startedAt atomic.Int64

	errs errpool.Pool
}

func (r *runner) Start(ctx context.Context) error {
	r.mu.Lock()

	if r.cancel != nil {
		r.stopLocked(ctx)
	}

	r.clearErrors()

	cctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	r.cancel = cancel
	r.done = done
	r.running.Store(true)
	r.startedAt.Store(time.Now().UnixNano())

	fn := r.fnStart
	r.mu.Unlock()

	go r.run(cctx, done, fn)

	return nil
}

func (r *runner) run(ctx context.Context, done chan struct{}, fn func(ctx context.Context) error) {
	defer close(done)
	defer r.finish()
	defer func() {
		if p := recover(); p != nil {
			r.addError(fmt.Errorf("panic in start function: %v", p))
		}
	}()

	if fn == nil {
		r.addError(fmt.Errorf("invalid start function"))
		return
	}

	if err := fn(ctx); err != nil {
		r.addError(err)
	}
}

func (r *runner) finish() {
	r.running.Store(false)
	r.startedAt.Store(0)
}

func (r *runner) Stop(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.stopLocked(ctx)
}

// stopLocked must be called with r.mu held. It cancels the running instance,
// waits for it to return, and invokes the stop function exactly once.
func (r *runner) stopLocked(ctx context.Context) error {
	if r.cancel == nil {
		return nil
	}

	cancel := r.cancel
	done := r.done
	r.cancel = nil
	r.done = nil

	cancel()

	if done != nil {
		select {
		case <-done:
		case <-ctx.Done():
		}
	}

	fn := r.fnStop
	if fn == nil {
		r.addError(fmt.Errorf("invalid stop function"))
		return nil
	}

	if err := r.callStop(ctx, fn); err != nil {
		r.addError(err)
	}

	return nil
}

func (r *runner) callStop(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic in stop function: %v", p)
		}
	}()

	return fn(ctx)
}

func (r *runner) Restart(ctx context.Context) error {
	r.mu.Lock()
	r.stopLocked(ctx)
	r.mu.Unlock()

	return r.Start(ctx)
}

func (r *runner) IsRunning() bool {
	return r.running.Load()
}

func (r *runner) Uptime() time.Duration {
	if !r.running.Load() {
		return 0
	}

	started := r.startedAt.Load()
	if started == 0 {
		return 0
	}

	return time.Since(time.Unix(0, started))
}

func (r *runner) addError(err error) {
	r.errs.Add(err)
}

func (r *runner) clearErrors() {
	r.errs.Clear()
}

func (r *runner) ErrorsLast() error {
	return r.errs.Last()
}

func (r *runner) ErrorsList() []error {
	return r.errs.Slice()
}
