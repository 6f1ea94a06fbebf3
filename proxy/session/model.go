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

package session

import (
	"context"
	"sync"
	"time"

	"github.com/nabbar/poundlb/proxy/backend"
	"github.com/nabbar/poundlb/runner/ticker"
)

type table struct {
	ttl time.Duration

	mu      sync.Mutex
	entries map[string]Entry

	tick ticker.Ticker
}

func (t *table) Lookup(key string) (backend.Backend, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	e, ok := t.entries[key]
	if !ok {
		return nil, ErrorNotFound.Error(nil)
	}
	if time.Since(e.LastUsed) > t.ttl {
		delete(t.entries, key)
		return nil, ErrorExpired.Error(nil)
	}

	e.LastUsed = time.Now()
	t.entries[key] = e
	return e.Backend, nil
}

func (t *table) Upsert(key string, b backend.Backend) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries[key] = Entry{Backend: b, LastUsed: time.Now()}
}

func (t *table) Delete(key string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.entries, key)
}

func (t *table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}

func (t *table) sweepOnce(_ context.Context, _ *time.Ticker) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := time.Now()
	for k, e := range t.entries {
		if now.Sub(e.LastUsed) > t.ttl {
			delete(t.entries, k)
		}
	}
	return nil
}

func (t *table) StartSweep(ctx context.Context, interval time.Duration) error {
	if interval > 0 {
		t.tick = ticker.New(interval, t.sweepOnce)
	}
	return t.tick.Start(ctx)
}

func (t *table) StopSweep(ctx context.Context) error {
	return t.tick.Stop(ctx)
}
