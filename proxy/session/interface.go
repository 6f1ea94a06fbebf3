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

// Package session implements the per-service session-affinity table of
// spec.md §4.6: a hash map from an affinity key (cookie value, URL param,
// peer IP, ...) to the backend last used for it, with TTL-based expiry
// swept on a periodic tick.
package session

import (
	"context"
	"time"

	"github.com/nabbar/poundlb/proxy/backend"
	"github.com/nabbar/poundlb/runner/ticker"
)

// Entry is one session-table row.
type Entry struct {
	Backend  backend.Backend
	LastUsed time.Time
}

// Table is a concurrency-safe session-affinity map with TTL eviction.
type Table interface {
	// Lookup returns the entry for key if it exists and has not expired,
	// refreshing its LastUsed timestamp. Returns ErrorNotFound/ErrorExpired
	// otherwise.
	Lookup(key string) (backend.Backend, error)

	// Upsert creates or overwrites the entry for key.
	Upsert(key string, b backend.Backend)

	// Delete removes an entry immediately (used when its backend dies).
	Delete(key string)

	Len() int

	// StartSweep launches a periodic eviction loop over the ticker
	// abstraction; interval should be a fraction of the TTL.
	StartSweep(ctx context.Context, interval time.Duration) error
	StopSweep(ctx context.Context) error
}

// New builds a Table with the given entry TTL.
func New(ttl time.Duration) Table {
	t := &table{
		ttl:     ttl,
		entries: make(map[string]Entry),
	}
	t.tick = ticker.New(ttl, t.sweepOnce)
	return t
}
