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

package service

import (
	"net"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/bits-and-blooms/bitset"

	"github.com/nabbar/poundlb/proxy/backend"
	"github.com/nabbar/poundlb/proxy/balancer"
	"github.com/nabbar/poundlb/proxy/matcher"
	"github.com/nabbar/poundlb/proxy/rewrite"
	"github.com/nabbar/poundlb/proxy/session"
	"github.com/nabbar/poundlb/proxy/types"
)

// service implements Service. mu is the "recursive mutex" spec.md §4.6/§5
// calls for protecting session-table and balancer-list metadata together;
// recursion is avoided by design instead of implemented, since every
// SelectBackend path acquires mu exactly once and never re-enters from
// within a held lock.
type service struct {
	name      string
	cond      matcher.Condition
	rules     []*rewrite.Rule
	respRules []*rewrite.Rule
	normal    balancer.List
	emergency balancer.List
	sess      SessionConfig
	table     session.Table
	suppress  *bitset.BitSet

	forwardedFor string
	trustedIPs   []*net.IPNet

	mu sync.Mutex
}

func newSessionTable(ttl time.Duration) session.Table {
	return session.New(ttl)
}

func newSuppressMask(classes []int) *bitset.BitSet {
	b := bitset.New(6)
	for _, c := range classes {
		if c >= 1 && c <= 5 {
			b.Set(uint(c))
		}
	}
	return b
}

func (s *service) Name() string { return s.name }

func (s *service) Match(req *matcher.Request, scope *matcher.Scope) bool {
	if s.cond == nil {
		return true
	}
	return s.cond.Match(req, scope)
}

func (s *service) Rewrite(mreq *matcher.Request, req *rewrite.Request, scope *matcher.Scope) error {
	for _, r := range s.rules {
		if err := r.Apply(mreq, req, scope); err != nil {
			return err
		}
	}
	return nil
}

func (s *service) RewriteResponse(mreq *matcher.Request, resp *rewrite.Request, scope *matcher.Scope) error {
	for _, r := range s.respRules {
		if err := r.Apply(mreq, resp, scope); err != nil {
			return err
		}
	}
	return nil
}

func (s *service) SelectBackend(sessionKey string) (backend.Backend, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.table != nil && sessionKey != "" {
		if b, err := s.table.Lookup(sessionKey); err == nil && b.Alive() && !b.Disabled() {
			return b, nil
		}
	}

	b, err := s.normal.Select()
	if err != nil && s.emergency != nil {
		b, err = s.emergency.Select()
	}
	if err != nil {
		return nil, ErrorNoBackendAvailable.Error(err)
	}

	if s.table != nil && sessionKey != "" {
		s.table.Upsert(sessionKey, b)
	}
	return b, nil
}

func (s *service) LogSuppressed(status int) bool {
	class := status / 100
	if class < 1 || class > 5 {
		return false
	}
	return s.suppress.Test(uint(class))
}

func (s *service) Normal() balancer.List    { return s.normal }
func (s *service) Emergency() balancer.List { return s.emergency }

func (s *service) SessionCfg() SessionConfig { return s.sess }

func (s *service) ForwardedForHeader() string {
	if s.forwardedFor == "" {
		return "X-Forwarded-For"
	}
	return s.forwardedFor
}

func (s *service) IsTrustedIP(ip net.IP) bool {
	if ip == nil {
		return false
	}
	for _, n := range s.trustedIPs {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}

func equalFold(a, b string) bool {
	return strings.EqualFold(a, b)
}

func cookieValue(cookieHeader, name string) (string, bool) {
	for _, part := range strings.Split(cookieHeader, ";") {
		part = strings.TrimSpace(part)
		k, v, ok := strings.Cut(part, "=")
		if ok && k == name {
			return v, true
		}
	}
	return "", false
}

func queryParamValue(rawQuery, name string) string {
	values, err := url.ParseQuery(rawQuery)
	if err != nil {
		return ""
	}
	vs := values[name]
	if len(vs) == 0 {
		return ""
	}
	return vs[0]
}
