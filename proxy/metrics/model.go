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

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type collector struct {
	reg *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	backendUp       *prometheus.GaugeVec
	balancerPicks   *prometheus.CounterVec
	queueDepth      *prometheus.GaugeVec
}

func newCollector() *collector {
	c := &collector{
		reg: prometheus.NewRegistry(),

		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "poundlb",
			Subsystem: "proxy",
			Name:      "requests_total",
			Help:      "Finished exchanges, labeled by listener, service and status class.",
		}, []string{"listener", "service", "status"}),

		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "poundlb",
			Subsystem: "proxy",
			Name:      "request_duration_seconds",
			Help:      "Time from request line parsed to response fully relayed.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"listener", "service"}),

		backendUp: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "poundlb",
			Subsystem: "proxy",
			Name:      "backend_up",
			Help:      "1 if the backend is alive, 0 otherwise.",
		}, []string{"service", "backend"}),

		balancerPicks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "poundlb",
			Subsystem: "proxy",
			Name:      "balancer_picks_total",
			Help:      "Backend selections made by a service's balancer, labeled by algorithm.",
		}, []string{"service", "algo", "backend"}),

		queueDepth: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "poundlb",
			Subsystem: "proxy",
			Name:      "worker_queue_depth",
			Help:      "Items waiting in a listener's worker pool queue.",
		}, []string{"listener"}),
	}

	c.reg.MustRegister(
		c.requestsTotal,
		c.requestDuration,
		c.backendUp,
		c.balancerPicks,
		c.queueDepth,
	)

	return c
}

func statusClass(status int) string {
	if status < 100 || status > 599 {
		return "other"
	}
	return strconv.Itoa(status/100) + "xx"
}

func (c *collector) RequestServed(listener, service string, status int, d time.Duration) {
	c.requestsTotal.WithLabelValues(listener, service, statusClass(status)).Inc()
	c.requestDuration.WithLabelValues(listener, service).Observe(d.Seconds())
}

func (c *collector) BackendState(service, backendID string, alive bool) {
	v := 0.0
	if alive {
		v = 1.0
	}
	c.backendUp.WithLabelValues(service, backendID).Set(v)
}

func (c *collector) BalancerPick(service, algo, backendID string) {
	c.balancerPicks.WithLabelValues(service, algo, backendID).Inc()
}

func (c *collector) SetQueueDepth(listener string, depth float64) {
	c.queueDepth.WithLabelValues(listener).Set(depth)
}

func (c *collector) Registry() *prometheus.Registry { return c.reg }
