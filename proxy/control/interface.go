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

// Package control exposes the admin HTTP surface over the running proxy's
// listeners, services and backends: read-only enumeration plus the backend
// enable/disable mutators the control plane needs.
package control

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	libgin "github.com/nabbar/poundlb/context/gin"
	"github.com/nabbar/poundlb/proxy/listener"
	"github.com/nabbar/poundlb/proxy/metrics"
)

// ctxKey is the gin.Context key under which each request's GinTonic context
// is stashed by withGinTonic, letting handlers walk a potentially large
// topology with one eye on the client's cancellation instead of running the
// enumeration to completion regardless.
const ctxKey = "poundlb.control.ctx"

// withGinTonic wraps every request's *gin.Context in a context/gin.GinTonic,
// bound to the request's own context so a client disconnecting mid-scan
// cancels the enumeration in foreachListener/foreachService/foreachBackend.
func withGinTonic() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ctxKey, libgin.New(c, nil))
		c.Next()
	}
}

// requestContext returns the context.Context withGinTonic attached to c,
// falling back to c.Request.Context() if the middleware was bypassed (e.g.
// a handler registered outside NewRouter).
func requestContext(c *gin.Context) context.Context {
	if v, ok := c.Get(ctxKey); ok {
		if ctx, ok := v.(context.Context); ok {
			return ctx
		}
	}
	return c.Request.Context()
}

// Registry is the read view over the running topology the admin surface
// walks. It is intentionally the same listener.Listener/listener.Info types
// proxy/acceptor and proxy/conn already use, so control has no parallel
// bookkeeping to keep in sync.
type Registry interface {
	Listeners() []listener.Listener
}

// BackendView is what foreach_backend reports for one backend.
type BackendView struct {
	ID       string `json:"id"`
	Service  string `json:"service"`
	Priority uint32 `json:"priority"`
	Disabled bool   `json:"disabled"`
	Alive    bool   `json:"alive"`
	RefCount int64  `json:"ref_count"`
}

// ServiceView is what foreach_service reports for one service.
type ServiceView struct {
	Name     string        `json:"name"`
	Listener string        `json:"listener"`
	Backends []BackendView `json:"backends"`
}

// ListenerView is what foreach_listener reports for one listener.
type ListenerView struct {
	Name     string        `json:"name"`
	Services []ServiceView `json:"services"`
}

// NewRouter builds the gin.Engine serving the admin surface over reg, plus
// a /metrics endpoint exporting col's registry when col is non-nil.
func NewRouter(reg Registry, col metrics.Collector) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(withGinTonic())

	if col != nil {
		h := promhttp.HandlerFor(col.Registry(), promhttp.HandlerOpts{})
		r.GET("/metrics", gin.WrapH(h))
	}

	r.GET("/listeners", func(c *gin.Context) {
		c.JSON(200, foreachListener(requestContext(c), reg))
	})
	r.GET("/services", func(c *gin.Context) {
		c.JSON(200, foreachService(requestContext(c), reg))
	})
	r.GET("/backends", func(c *gin.Context) {
		c.JSON(200, foreachBackend(requestContext(c), reg))
	})
	r.POST("/backends/:id/enable", func(c *gin.Context) {
		setBackendDisabled(c, reg, false)
	})
	r.POST("/backends/:id/disable", func(c *gin.Context) {
		setBackendDisabled(c, reg, true)
	})

	return r
}
