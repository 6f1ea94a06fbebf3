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

// Package acceptor owns listening sockets and turns accepted connections into
// work items for a worker pool, per the connection acceptor described for the
// proxy front end.
package acceptor

import (
	"context"
	"net"

	"github.com/nabbar/poundlb/proxy/worker"
)

// WorkItem is what the acceptor hands to a worker: the raw connection plus
// the listener it arrived on, so the worker can look up the listener's TLS
// contexts, services and timeouts.
type WorkItem struct {
	Conn     net.Conn
	Listener Listener
}

// Listener is the subset of proxy/listener.Listener the acceptor needs: a
// name for logging/metrics and a handler invoked per accepted connection.
type Listener interface {
	Name() string
	Handle(ctx context.Context, conn net.Conn)
}

// Handler receives each accepted connection. Acceptor does not itself drive
// the connection; it only dispatches to the worker pool.
type Handler func(item WorkItem)

// Acceptor binds one listening socket and feeds accepted connections into a
// worker pool via Handler.
type Acceptor interface {
	// Start binds the socket (if not already bound externally) and begins
	// accepting in a background goroutine.
	Start(ctx context.Context) error
	// Stop closes the listening socket and waits for the accept loop to
	// return.
	Stop(ctx context.Context) error
	Addr() net.Addr
}

// New builds an Acceptor around an already-bound net.Listener (TLS or plain;
// SNI/certificate selection lives one layer up in proxy/listener) that feeds
// a bounded worker pool.
func New(ln net.Listener, l Listener, pool worker.Pool) Acceptor {
	return &acceptor{ln: ln, listener: l, pool: pool}
}
