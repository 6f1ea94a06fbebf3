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

// Package balancer selects a live backend from a service's normal or
// emergency list, either by RANDOM weighted pick or by interleaved weighted
// round-robin (spec.md §4.5).
package balancer

import (
	"github.com/nabbar/poundlb/proxy/backend"
	"github.com/nabbar/poundlb/proxy/types"
)

// List is a weighted, concurrency-safe set of backends feeding one
// balancing algorithm. A Service owns two: a normal list and an emergency
// list used when the normal list's total priority drops to zero.
type List interface {
	// Add registers a backend and rebuilds the priority bookkeeping.
	Add(b backend.Backend)

	// Remove drops a backend by id and rebuilds the priority bookkeeping.
	Remove(id string)

	// Rebuild recomputes tot_pri/max_pri from the current member set; call
	// after any external mutation of a member's priority/disabled/alive state.
	Rebuild()

	// Select picks one live, enabled backend per the configured algorithm.
	// Returns ErrorEmptyList if the list has no members, ErrorNoBackend if
	// every member is dead or disabled.
	Select() (backend.Backend, error)

	// Get returns a member by id, or nil.
	Get(id string) backend.Backend

	// Backends returns a snapshot slice of every registered member.
	Backends() []backend.Backend

	TotalPriority() uint32
	MaxPriority() uint32
}

// New builds an empty List using the given algorithm.
func New(algo types.BalanceAlgo) List {
	return &list{
		algo: algo,
	}
}
