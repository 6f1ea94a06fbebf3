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

package main

import (
	"context"
	"net"
	"sync"

	liblog "github.com/nabbar/poundlb/logger"
	"github.com/nabbar/poundlb/proxy/acceptor"
	"github.com/nabbar/poundlb/proxy/config"
	"github.com/nabbar/poundlb/proxy/listener"
	"github.com/nabbar/poundlb/proxy/metrics"
	"github.com/nabbar/poundlb/proxy/worker"
)

// running is one bound front end: the runtime listener, its worker pool and
// its accept loop, kept together so Stop can unwind them in the right order
// (acceptor first, so no new connection starts after the pool begins
// draining).
type running struct {
	ln  listener.Listener
	acc acceptor.Acceptor
	wp  worker.Pool
}

// supervisor owns every bound front end for one process lifetime. Reload
// swaps the whole set: the previous generation is stopped only after the
// next one is fully bound and accepting, so a bad config (Finalize failing)
// never tears down a listener set that was working.
type supervisor struct {
	mu  sync.Mutex
	log liblog.FuncLog
	col metrics.Collector
	cur []*running
}

func newSupervisor(log liblog.FuncLog, col metrics.Collector) *supervisor {
	return &supervisor{log: log, col: col}
}

func (s *supervisor) getLog() liblog.Logger {
	return s.log()
}

// Start binds and starts every listener in lns. On any failure it unwinds
// everything it already started before returning the error.
func (s *supervisor) Start(ctx context.Context, lns []config.Listener) ([]listener.Listener, error) {
	started := make([]*running, 0, len(lns))

	for _, cl := range lns {
		tcp, err := net.Listen("tcp", cl.Address)
		if err != nil {
			stopAll(ctx, started)
			return nil, ErrorBindListener.Error(err)
		}

		pool := worker.New(cl.Worker)
		if err = pool.Start(ctx); err != nil {
			_ = tcp.Close()
			stopAll(ctx, started)
			return nil, ErrorStartWorkerPool.Error(err)
		}

		acc := acceptor.New(tcp, cl.Runtime, pool)
		if err = acc.Start(ctx); err != nil {
			_ = pool.Stop(ctx)
			_ = tcp.Close()
			stopAll(ctx, started)
			return nil, ErrorStartAcceptor.Error(err)
		}

		s.getLog().Info("listener started", nil, cl.Name, cl.Address)
		started = append(started, &running{ln: cl.Runtime, acc: acc, wp: pool})
	}

	views := make([]listener.Listener, 0, len(started))
	for _, r := range started {
		views = append(views, r.ln)
	}

	s.mu.Lock()
	previous := s.cur
	s.cur = started
	s.mu.Unlock()

	stopAll(ctx, previous)
	return views, nil
}

// Stop tears down every currently-running front end.
func (s *supervisor) Stop(ctx context.Context) {
	s.mu.Lock()
	cur := s.cur
	s.cur = nil
	s.mu.Unlock()

	stopAll(ctx, cur)
}

func stopAll(ctx context.Context, rs []*running) {
	for _, r := range rs {
		if r.acc != nil {
			_ = r.acc.Stop(ctx)
		}
		if r.wp != nil {
			_ = r.wp.Stop(ctx)
		}
	}
}
