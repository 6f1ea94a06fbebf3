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

package control

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/nabbar/poundlb/proxy/backend"
	"github.com/nabbar/poundlb/proxy/service"
)

func backendView(b backend.Backend) BackendView {
	return BackendView{
		ID:       b.ID(),
		Service:  b.ServiceName(),
		Priority: b.Priority(),
		Disabled: b.Disabled(),
		Alive:    b.Alive(),
		RefCount: b.RefCount(),
	}
}

func serviceBackends(s service.Service) []BackendView {
	var out []BackendView
	if n := s.Normal(); n != nil {
		for _, b := range n.Backends() {
			out = append(out, backendView(b))
		}
	}
	if e := s.Emergency(); e != nil {
		for _, b := range e.Backends() {
			out = append(out, backendView(b))
		}
	}
	return out
}

// foreachListener walks reg, bailing out as soon as ctx is done so a client
// that disconnects mid-scan doesn't leave the admin goroutine enumerating a
// topology nobody is waiting on anymore.
func foreachListener(ctx context.Context, reg Registry) []ListenerView {
	var out []ListenerView
	for _, l := range reg.Listeners() {
		if ctx.Err() != nil {
			return out
		}
		lv := ListenerView{Name: l.Name()}
		for _, s := range l.Services() {
			lv.Services = append(lv.Services, ServiceView{
				Name:     s.Name(),
				Listener: l.Name(),
				Backends: serviceBackends(s),
			})
		}
		out = append(out, lv)
	}
	return out
}

func foreachService(ctx context.Context, reg Registry) []ServiceView {
	var out []ServiceView
	for _, l := range reg.Listeners() {
		if ctx.Err() != nil {
			return out
		}
		for _, s := range l.Services() {
			out = append(out, ServiceView{
				Name:     s.Name(),
				Listener: l.Name(),
				Backends: serviceBackends(s),
			})
		}
	}
	return out
}

func foreachBackend(ctx context.Context, reg Registry) []BackendView {
	var out []BackendView
	for _, l := range reg.Listeners() {
		if ctx.Err() != nil {
			return out
		}
		for _, s := range l.Services() {
			out = append(out, serviceBackends(s)...)
		}
	}
	return out
}

func findBackend(reg Registry, id string) backend.Backend {
	for _, l := range reg.Listeners() {
		for _, s := range l.Services() {
			if b := lookup(s, id); b != nil {
				return b
			}
		}
	}
	return nil
}

func lookup(s service.Service, id string) backend.Backend {
	if n := s.Normal(); n != nil {
		if b := n.Get(id); b != nil {
			return b
		}
	}
	if e := s.Emergency(); e != nil {
		if b := e.Get(id); b != nil {
			return b
		}
	}
	return nil
}

func setBackendDisabled(c *gin.Context, reg Registry, disabled bool) {
	id := c.Param("id")
	b := findBackend(reg, id)
	if b == nil {
		c.JSON(404, gin.H{"error": ErrorBackendNotFound.Error(nil).Error()})
		return
	}
	b.SetDisabled(disabled)
	c.JSON(200, backendView(b))
}
