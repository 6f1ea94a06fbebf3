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

// Package metrics wires the proxy's request, backend and balancer
// observability into Prometheus collectors, exported over /metrics by
// proxy/control's gin.Engine via promhttp.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector records proxy activity into the Prometheus registry it was
// built against. Every method is safe for concurrent use, matching the
// guarantees of the prometheus client vectors it wraps.
type Collector interface {
	// RequestServed records one finished exchange: total count, status
	// class, and latency histogram, labeled by listener and service.
	RequestServed(listener, service string, status int, d time.Duration)

	// BackendState sets the up/down gauge for one backend.
	BackendState(service, backendID string, alive bool)

	// BalancerPick counts one Select() outcome, labeled by the algorithm
	// and the backend chosen, so skew across a weighted pool is visible.
	BalancerPick(service, algo, backendID string)

	// SetQueueDepth reports the worker pool's current backlog.
	SetQueueDepth(listener string, depth float64)

	// Registry exposes the underlying *prometheus.Registry for wiring
	// into promhttp.HandlerFor from proxy/control.
	Registry() *prometheus.Registry
}

// New builds a Collector backed by a fresh, private *prometheus.Registry
// (not prometheus.DefaultRegisterer) so multiple proxy instances in the
// same process never collide on metric names.
func New() Collector {
	return newCollector()
}
