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

package ticker

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	errpool "github.com/nabbar/poundlb/errors/pool"
)

type tick struct {
	dur time.Duration
	fn  func(ctx context.Context, tck *time.Ticker) error

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}

	running   atomic.Bool
	startedAt atomic.Int64

	errsOnce sync.Once
	errs     errpool.Pool
}

func (t *tick) pool() errpool.Pool {
	t.errsOnce.Do(func() {
		t.errs = errpool.New()
	})
	return t.errs
}

func (t *tick) Start(ctx context.Context) error {
	t.mu.Lock()

	if t.cancel != nil {
		t.stopLocked(ctx)
	}

	t.pool().Clear()

	cctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	t.cancel = cancel
	t.done = done
	t.running.Store(true)
	t.startedAt.Store(time.Now().UnixNano())

	t.mu.Unlock()

	go t.loop(cctx, done)

	return nil
}

func (t *tick) loop(ctx context.Context, done chan struct{}) {
	defer close(done)
	defer t.finish()

	tk := time.NewTicker(t.dur)
	defer tk.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-tk.C:
			t.runOnce(ctx, tk)
			if ctx.Err() != nil {
				return
			}
		}
	}
}

func (t *tick) runOnce(ctx context.Context, tk *time.Ticker) {
	defer func() {
		if p := recover(); p != nil {
			t.pool().Add(fmt.Errorf("panic in ticker function: %v", p))
		}
	}()

	if t.fn == nil {
		t.pool().Add(fmt.Errorf("invalid ticker function"))
		return
	}

	if err := t.fn(ctx, tk); err != nil {
		t.pool().Add(err)
	}
}

func (t *tick) finish() {
	t.running.Store(false)
	t.startedAt.Store(0)
}

func (t *tick) Stop(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stopLocked(ctx)
	return nil
}

// stopLocked must be called with t.mu held.
func (t *tick) stopLocked(ctx context.Context) {
	if t.cancel == nil {
		return
	}

	cancel := t.cancel
	done := t.done
	t.cancel = nil
	t.done = nil

	cancel()

	if done != nil {
		select {
		case <-done:
		case <-ctx.Done():
		}
	}
}

func (t *tick) Restart(ctx context.Context) error {
	t.mu.Lock()
	t.stopLocked(ctx)
	t.mu.Unlock()

	return t.Start(ctx)
}

func (t *tick) IsRunning() bool {
	return t.running.Load()
}

func (t *tick) Uptime() time.Duration {
	if !t.running.Load() {
		return 0
	}

	started := t.startedAt.Load()
	if started == 0 {
		return 0
	}

	return time.Since(time.Unix(0, started))
}

func (t *tick) ErrorsLast() error {
	return t.pool().Last()
}

func (t *tick) ErrorsList() []error {
	return t.pool().Slice()
}
