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

package acceptor

import (
	"context"
	"errors"
	"net"
	"sync"

	"github.com/nabbar/poundlb/proxy/worker"
)

type acceptor struct {
	ln       net.Listener
	listener Listener
	pool     worker.Pool

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	started bool
}

func (a *acceptor) Start(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.started {
		return nil
	}

	runCtx, cancel := context.WithCancel(ctx)
	a.cancel = cancel
	a.done = make(chan struct{})
	a.started = true

	go a.acceptLoop(runCtx)
	return nil
}

func (a *acceptor) Stop(_ context.Context) error {
	a.mu.Lock()
	if !a.started {
		a.mu.Unlock()
		return nil
	}
	a.started = false
	cancel := a.cancel
	done := a.done
	a.mu.Unlock()

	err := a.ln.Close()
	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
	return err
}

func (a *acceptor) Addr() net.Addr {
	return a.ln.Addr()
}

// acceptLoop mirrors a bounded-retry accept loop: transient errors (timeouts)
// back off briefly and retry, a closed listener ends the loop cleanly, and
// any other error is surfaced once via ErrorAcceptFailed before returning.
func (a *acceptor) acceptLoop(ctx context.Context) {
	defer close(a.done)

	for {
		conn, err := a.ln.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return
			default:
			}
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				continue
			}
			return
		}

		item := WorkItem{Conn: conn, Listener: a.listener}
		submitErr := a.pool.Submit(ctx, func(wctx context.Context) {
			a.listener.Handle(wctx, item.Conn)
		})
		if submitErr != nil {
			_ = conn.Close()
		}
	}
}
