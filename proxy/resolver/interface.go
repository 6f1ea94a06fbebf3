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

// Package resolver expands a MATRIX backend's host template into concrete
// addresses, per spec.md §3/§4.5: IMMEDIATE (resolve once, cache forever),
// FIRST (use the first answer), ALL (fan out to every answer), and SRV
// (resolve a service record to host:port pairs). A background loop built on
// runner/ticker re-resolves on RetryInterval and swaps the cached address
// set atomically.
package resolver

import (
	"context"
	"net"
	"time"

	"github.com/nabbar/poundlb/proxy/types"
)

// Target is one resolved address a MATRIX backend may forward to.
type Target struct {
	IP   net.IP
	Port uint16
}

func (t Target) String() string {
	return net.JoinHostPort(t.IP.String(), portString(t.Port))
}

// Querier performs the raw DNS lookups a Resolver needs; the default
// implementation uses github.com/miekg/dns against the system resolv.conf,
// net.Resolver otherwise would hide the record type distinction SRV mode
// needs.
type Querier interface {
	LookupHost(ctx context.Context, family types.AddressFamily, host string) ([]net.IP, error)
	LookupSRV(ctx context.Context, name string) ([]Target, error)
}

// Resolver resolves one MATRIX host template and keeps a cached answer set
// fresh via a background re-resolve loop.
type Resolver interface {
	// Resolve returns the current cached targets, resolving synchronously if
	// the cache is empty.
	Resolve(ctx context.Context) ([]Target, error)

	// StartWatch launches the background re-resolve loop.
	StartWatch(ctx context.Context) error

	// StopWatch halts the background re-resolve loop.
	StopWatch(ctx context.Context) error
}

// New builds a Resolver for host:port under family/mode, using q for lookups
// and re-resolving every interval while watching.
func New(q Querier, host string, port uint16, family types.AddressFamily, mode types.ResolveMode, interval time.Duration) Resolver {
	r := &resolver{
		q:        q,
		host:     host,
		port:     port,
		family:   family,
		mode:     mode,
		interval: interval,
	}
	return r
}
