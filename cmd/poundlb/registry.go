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
	"sync/atomic"

	"github.com/nabbar/poundlb/proxy/listener"
)

// registry is the control.Registry view over whatever listener set is
// currently live. Swap is called once per successful reload so
// proxy/control's admin surface always walks the running topology, never a
// stale one, without taking a lock on the request path.
type registry struct {
	cur atomic.Value // []listener.Listener
}

func newRegistry() *registry {
	r := &registry{}
	r.cur.Store([]listener.Listener(nil))
	return r
}

func (r *registry) Listeners() []listener.Listener {
	return r.cur.Load().([]listener.Listener)
}

func (r *registry) Swap(lns []listener.Listener) {
	r.cur.Store(lns)
}
