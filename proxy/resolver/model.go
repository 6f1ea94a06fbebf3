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

package resolver

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/nabbar/poundlb/proxy/types"
	"github.com/nabbar/poundlb/runner/ticker"
)

type resolver struct {
	q        Querier
	host     string
	port     uint16
	family   types.AddressFamily
	mode     types.ResolveMode
	interval time.Duration

	mu      sync.Mutex
	cached  []Target
	tick    ticker.Ticker
	tickMu  sync.Mutex
}

func portString(p uint16) string { return strconv.Itoa(int(p)) }

func (r *resolver) Resolve(ctx context.Context) ([]Target, error) {
	r.mu.Lock()
	cur := r.cached
	r.mu.Unlock()

	if len(cur) > 0 {
		return cur, nil
	}
	return r.refresh(ctx)
}

func (r *resolver) refresh(ctx context.Context) ([]Target, error) {
	targets, err := r.lookup(ctx)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.cached = targets
	r.mu.Unlock()
	return targets, nil
}

func (r *resolver) lookup(ctx context.Context) ([]Target, error) {
	if r.mode == types.ResolveSRV {
		targets, err := r.q.LookupSRV(ctx, r.host)
		if err != nil {
			return nil, ErrorQueryFailed.Error(err)
		}
		if len(targets) == 0 {
			return nil, ErrorNoAddresses.Error(nil)
		}
		return targets, nil
	}

	ips, err := r.q.LookupHost(ctx, r.family, r.host)
	if err != nil {
		return nil, ErrorNoSuchHost.Error(err)
	}
	if len(ips) == 0 {
		return nil, ErrorNoAddresses.Error(nil)
	}

	switch r.mode {
	case types.ResolveFirst:
		ips = ips[:1]
	case types.ResolveImmediate, types.ResolveAll:
		// keep every answer
	}

	targets := make([]Target, 0, len(ips))
	for _, ip := range ips {
		targets = append(targets, Target{IP: ip, Port: r.port})
	}
	return targets, nil
}

func (r *resolver) StartWatch(ctx context.Context) error {
	r.tickMu.Lock()
	if r.tick == nil {
		r.tick = ticker.New(r.interval, func(tctx context.Context, _ *time.Ticker) error {
			_, err := r.refresh(tctx)
			return err
		})
	}
	t := r.tick
	r.tickMu.Unlock()

	if _, err := r.refresh(ctx); err != nil {
		return err
	}
	return t.Start(ctx)
}

func (r *resolver) StopWatch(ctx context.Context) error {
	r.tickMu.Lock()
	t := r.tick
	r.tickMu.Unlock()

	if t == nil {
		return nil
	}
	return t.Stop(ctx)
}
