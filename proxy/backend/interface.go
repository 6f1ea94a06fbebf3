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

// Package backend models the tagged-union forwarding target of a service:
// a live TCP/TLS endpoint, a DNS-expanding matrix template, a reference to a
// named template, or one of the terminal responders (redirect/ACME/error/
// control/metrics).
package backend

import (
	"time"

	"github.com/nabbar/poundlb/certificates"
	"github.com/nabbar/poundlb/proxy/types"
)

// Matrix holds the MATRIX-kind expansion parameters (spec.md §3).
type Matrix struct {
	Host          string
	Port          uint16
	Family        types.AddressFamily
	Mode          types.ResolveMode
	RetryInterval time.Duration
}

// Redirect holds the REDIRECT-kind reply parameters.
type Redirect struct {
	Status   int
	Template string
	HasURI   bool
}

// ACME holds the ACME-kind challenge directory.
type ACME struct {
	Dir string
}

// ErrStatic holds the ERROR-kind static reply.
type ErrStatic struct {
	Status int
	Body   []byte
}

// Backend is one entry of a balancer list or a resolved backend-ref target.
type Backend interface {
	ID() string
	Kind() types.BackendKind
	ServiceName() string

	Priority() uint32
	SetPriority(p uint32)

	Disabled() bool
	SetDisabled(d bool)

	Alive() bool
	SetAlive(a bool)

	// KillBe marks the backend dead after a failed connect attempt, the way
	// a health prober would after an unsuccessful reprobe.
	KillBe()

	Acquire()
	Release()
	RefCount() int64

	// Regular-kind accessors. Zero values for every other kind.
	Address() string
	ConnectTimeout() time.Duration
	ReadTimeout() time.Duration
	ServerName() string
	ClientTLS() certificates.TLSConfig

	Matrix() *Matrix
	Ref() string
	RedirectSpec() *Redirect
	ACMESpec() *ACME
	ErrorSpec() *ErrStatic
}

// RegularSpec bundles the constructor parameters for a REGULAR backend.
type RegularSpec struct {
	Address        string
	ConnectTimeout time.Duration
	ReadTimeout    time.Duration
	ServerName     string
	ClientTLS      certificates.TLSConfig
}

// New builds a Backend of the given kind. Unused spec parameters for a kind
// may be left zero.
func New(id, serviceName string, kind types.BackendKind, priority uint32) *backend {
	b := &backend{
		id:      id,
		service: serviceName,
		kind:    kind,
	}
	b.priority.Store(priority)
	b.alive.Store(true)
	return b
}
