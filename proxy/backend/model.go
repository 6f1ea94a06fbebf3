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

package backend

import (
	"sync/atomic"
	"time"

	"github.com/nabbar/poundlb/certificates"
	"github.com/nabbar/poundlb/proxy/types"
)

type backend struct {
	id      string
	service string
	kind    types.BackendKind

	priority atomic.Uint32
	disabled atomic.Bool
	alive    atomic.Bool
	refcount atomic.Int64

	regular   *RegularSpec
	matrix    *Matrix
	ref       string
	redirect  *Redirect
	acme      *ACME
	errStatic *ErrStatic
}

func (b *backend) ID() string                 { return b.id }
func (b *backend) Kind() types.BackendKind    { return b.kind }
func (b *backend) ServiceName() string        { return b.service }

func (b *backend) Priority() uint32      { return b.priority.Load() }
func (b *backend) SetPriority(p uint32)  { b.priority.Store(p) }

func (b *backend) Disabled() bool       { return b.disabled.Load() }
func (b *backend) SetDisabled(d bool)   { b.disabled.Store(d) }

func (b *backend) Alive() bool     { return b.alive.Load() }
func (b *backend) SetAlive(a bool) { b.alive.Store(a) }

// KillBe marks the backend dead, the way a failed connect or a failed
// reprobe does in the balancer list's maintenance loop.
func (b *backend) KillBe() {
	b.alive.Store(false)
}

func (b *backend) Acquire() { b.refcount.Add(1) }
func (b *backend) Release() {
	if b.refcount.Add(-1) < 0 {
		b.refcount.Store(0)
	}
}
func (b *backend) RefCount() int64 { return b.refcount.Load() }

func (b *backend) Address() string {
	if b.regular == nil {
		return ""
	}
	return b.regular.Address
}

func (b *backend) ConnectTimeout() time.Duration {
	if b.regular == nil {
		return 0
	}
	return b.regular.ConnectTimeout
}

func (b *backend) ReadTimeout() time.Duration {
	if b.regular == nil {
		return 0
	}
	return b.regular.ReadTimeout
}

func (b *backend) ServerName() string {
	if b.regular == nil {
		return ""
	}
	return b.regular.ServerName
}

func (b *backend) ClientTLS() certificates.TLSConfig {
	if b.regular == nil {
		return nil
	}
	return b.regular.ClientTLS
}

func (b *backend) Matrix() *Matrix           { return b.matrix }
func (b *backend) Ref() string               { return b.ref }
func (b *backend) RedirectSpec() *Redirect   { return b.redirect }
func (b *backend) ACMESpec() *ACME           { return b.acme }
func (b *backend) ErrorSpec() *ErrStatic     { return b.errStatic }

// NewRegular builds a REGULAR backend forwarding to a live TCP/TLS endpoint.
func NewRegular(id, serviceName string, priority uint32, spec RegularSpec) *backend {
	b := New(id, serviceName, types.BackendRegular, priority)
	b.regular = &spec
	return b
}

// NewMatrix builds a MATRIX backend expanded by the resolver into a set of
// REGULAR backends sharing this template.
func NewMatrix(id, serviceName string, priority uint32, spec Matrix) *backend {
	b := New(id, serviceName, types.BackendMatrix, priority)
	b.matrix = &spec
	return b
}

// NewRef builds a BACKEND_REF indirection, resolved at config finalize time
// against a named backend template.
func NewRef(id, serviceName string, priority uint32, ref string) *backend {
	b := New(id, serviceName, types.BackendRef, priority)
	b.ref = ref
	return b
}

// NewRedirect builds a terminal REDIRECT backend.
func NewRedirect(id, serviceName string, priority uint32, spec Redirect) *backend {
	b := New(id, serviceName, types.BackendRedirect, priority)
	b.redirect = &spec
	return b
}

// NewACME builds a terminal ACME challenge-responder backend.
func NewACME(id, serviceName string, priority uint32, spec ACME) *backend {
	b := New(id, serviceName, types.BackendACME, priority)
	b.acme = &spec
	return b
}

// NewErrorStatic builds a terminal static-error-reply backend.
func NewErrorStatic(id, serviceName string, priority uint32, spec ErrStatic) *backend {
	b := New(id, serviceName, types.BackendError, priority)
	b.errStatic = &spec
	return b
}
