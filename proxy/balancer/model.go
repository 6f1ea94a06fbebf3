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

package balancer

import (
	"crypto/rand"
	"math/big"
	"sync"
	"sync/atomic"

	"github.com/nabbar/poundlb/proxy/backend"
	"github.com/nabbar/poundlb/proxy/types"
)

type list struct {
	algo types.BalanceAlgo

	mu      sync.RWMutex
	members []backend.Backend

	totPri atomic.Uint32
	maxPri atomic.Uint32
	curPri atomic.Uint32
	rrIdx  atomic.Uint64
}

func (l *list) Add(b backend.Backend) {
	l.mu.Lock()
	l.members = append(l.members, b)
	l.mu.Unlock()
	l.Rebuild()
}

func (l *list) Remove(id string) {
	l.mu.Lock()
	out := l.members[:0]
	for _, b := range l.members {
		if b.ID() != id {
			out = append(out, b)
		}
	}
	l.members = out
	l.mu.Unlock()
	l.Rebuild()
}

// Rebuild recomputes tot_pri (sum of priorities of eligible backends) and
// max_pri (the highest single priority), per spec.md §4.5's health rule:
// a connect failure calls kill_be, which clears alive and rebuilds these.
func (l *list) Rebuild() {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var tot, max uint32
	for _, b := range l.members {
		if !eligible(b) {
			continue
		}
		p := b.Priority()
		tot += p
		if p > max {
			max = p
		}
	}

	l.totPri.Store(tot)
	l.maxPri.Store(max)
	if l.curPri.Load() == 0 || l.curPri.Load() > max {
		l.curPri.Store(max)
	}
}

func eligible(b backend.Backend) bool {
	return b.Alive() && !b.Disabled()
}

func (l *list) Get(id string) backend.Backend {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, b := range l.members {
		if b.ID() == id {
			return b
		}
	}
	return nil
}

func (l *list) Backends() []backend.Backend {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]backend.Backend, len(l.members))
	copy(out, l.members)
	return out
}

func (l *list) TotalPriority() uint32 { return l.totPri.Load() }
func (l *list) MaxPriority() uint32   { return l.maxPri.Load() }

func (l *list) Select() (backend.Backend, error) {
	l.mu.RLock()
	members := make([]backend.Backend, len(l.members))
	copy(members, l.members)
	l.mu.RUnlock()

	if len(members) == 0 {
		return nil, ErrorEmptyList.Error(nil)
	}

	switch l.algo {
	case types.BalanceIWRR:
		return l.selectIWRR(members)
	default:
		return l.selectRandom(members)
	}
}

// selectRandom picks a uniform integer in [0, tot_pri) and walks the member
// list, subtracting priorities until the running sum exceeds the pick.
func (l *list) selectRandom(members []backend.Backend) (backend.Backend, error) {
	tot := l.totPri.Load()
	if tot == 0 {
		return nil, ErrorNoBackend.Error(nil)
	}

	n, err := rand.Int(rand.Reader, big.NewInt(int64(tot)))
	if err != nil {
		return nil, err
	}
	pick := uint32(n.Int64())

	var sum uint32
	for _, b := range members {
		if !eligible(b) {
			continue
		}
		sum += b.Priority()
		if sum > pick {
			return b, nil
		}
	}
	return nil, ErrorNoBackend.Error(nil)
}

// selectIWRR implements interleaved weighted round-robin: a backend is
// eligible this round iff its priority >= cur_pri. A full pass with no
// selection decrements cur_pri, wrapping to max_pri at zero. A rotating
// index spreads consecutive picks across eligible backends.
func (l *list) selectIWRR(members []backend.Backend) (backend.Backend, error) {
	max := l.maxPri.Load()
	if max == 0 {
		return nil, ErrorNoBackend.Error(nil)
	}

	n := len(members)
	for pass := 0; pass < 2; pass++ {
		cur := l.curPri.Load()
		if cur == 0 {
			cur = max
			l.curPri.Store(cur)
		}

		start := int(l.rrIdx.Add(1) - 1)
		for i := 0; i < n; i++ {
			b := members[(start+i)%n]
			if !eligible(b) {
				continue
			}
			if b.Priority() >= cur {
				return b, nil
			}
		}

		next := cur - 1
		l.curPri.Store(next)
		if next == 0 {
			l.curPri.Store(max)
		}
	}

	return nil, ErrorNoBackend.Error(nil)
}
