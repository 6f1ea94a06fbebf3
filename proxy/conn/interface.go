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

// Package conn drives a single accepted connection end to end: request
// parsing, listener/service rewrite pipelines, service and backend
// selection, request forwarding, response rewrite, session recording, and
// HTTP/1.1 keep-alive continuation, per the connection lifecycle described
// for the proxy's per-connection state machine.
package conn

import (
	"time"

	"github.com/nabbar/poundlb/proxy/listener"
)

// Config tunes per-connection behavior.
type Config struct {
	MaxLineSize       int
	MaxHeaderLines    int
	ReadHeaderTimeout time.Duration
	IdleTimeout       time.Duration
	DialTimeout       time.Duration
}

// New builds a listener.Driver that implements the full connection
// lifecycle. Passed to proxy/listener.New so each listener's accepted
// connections (post TLS-termination) are handed here.
func New(cfg Config) listener.Driver {
	if cfg.MaxLineSize <= 0 {
		cfg.MaxLineSize = 8192
	}
	if cfg.MaxHeaderLines <= 0 {
		cfg.MaxHeaderLines = 100
	}
	if cfg.ReadHeaderTimeout <= 0 {
		cfg.ReadHeaderTimeout = 30 * time.Second
	}
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = 60 * time.Second
	}
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = 10 * time.Second
	}
	return &driver{cfg: cfg}
}
