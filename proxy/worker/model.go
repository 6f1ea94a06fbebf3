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

package worker

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nabbar/poundlb/runner/startStop"
	libsem "github.com/nabbar/poundlb/semaphore/sem"
)

type pool struct {
	cfg Config

	ss  startStop.StartStop
	sem libsem.Sem

	queue   chan Item
	active  atomic.Int64
	running atomic.Bool

	runCtx context.Context
	mu     sync.Mutex
}

func (p *pool) Start(ctx context.Context) error {
	if p.ss == nil {
		p.ss = startStop.New(p.doStart, p.doStop)
	}
	return p.ss.Start(ctx)
}

func (p *pool) Stop(ctx context.Context) error {
	if p.ss == nil {
		return nil
	}
	return p.ss.Stop(ctx)
}

func (p *pool) doStart(ctx context.Context) error {
	p.mu.Lock()
	p.runCtx = ctx
	p.queue = make(chan Item, p.cfg.QueueDepth)
	p.sem = libsem.New(ctx, int64(p.cfg.Max))
	p.mu.Unlock()
	p.running.Store(true)

	for i := 0; i < p.cfg.Min; i++ {
		if err := p.sem.NewWorker(); err != nil {
			return err
		}
		p.active.Add(1)
		go p.workerLoop(true)
	}
	return nil
}

func (p *pool) doStop(_ context.Context) error {
	p.running.Store(false)

	p.mu.Lock()
	q := p.queue
	p.mu.Unlock()

	if q != nil {
		close(q)
	}
	if p.sem != nil {
		p.sem.DeferMain()
		return p.sem.WaitAll()
	}
	return nil
}

func (p *pool) Submit(ctx context.Context, item Item) error {
	if !p.running.Load() {
		return ErrorNotRunning.Error(nil)
	}

	p.mu.Lock()
	q := p.queue
	p.mu.Unlock()

	if q == nil {
		return ErrorNotRunning.Error(nil)
	}

	select {
	case q <- item:
		p.maybeSpawn()
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// maybeSpawn launches one additional elastic worker if the pool is below its
// max and a slot is immediately available, per spec.md §4.1's "new workers
// are spawned on demand when active_workers == total_workers < max".
func (p *pool) maybeSpawn() {
	if p.active.Load() >= int64(p.cfg.Max) {
		return
	}
	if p.sem == nil || !p.sem.NewWorkerTry() {
		return
	}
	p.active.Add(1)
	go p.workerLoop(false)
}

func (p *pool) workerLoop(permanent bool) {
	defer func() {
		p.active.Add(-1)
		p.sem.DeferWorker()
	}()

	idle := time.NewTimer(p.cfg.IdleTimeout)
	defer idle.Stop()

	for {
		select {
		case item, ok := <-p.queue:
			if !ok {
				return
			}
			if !idle.Stop() {
				select {
				case <-idle.C:
				default:
				}
			}
			item(p.runCtx)
			idle.Reset(p.cfg.IdleTimeout)
		case <-idle.C:
			if !permanent && p.active.Load() > int64(p.cfg.Min) {
				return
			}
			idle.Reset(p.cfg.IdleTimeout)
		case <-p.runCtx.Done():
			return
		}
	}
}

func (p *pool) Active() int64 { return p.active.Load() }

func (p *pool) Queued() int {
	p.mu.Lock()
	q := p.queue
	p.mu.Unlock()
	if q == nil {
		return 0
	}
	return len(q)
}
