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

// Package service ties a matcher condition, a rewrite pipeline, a pair of
// balancer lists (normal + emergency), and a session table into the single
// routing unit spec.md §3/§4 calls a service: "traverse the listener's
// service list in order; first whose condition evaluates to true wins".
package service

import (
	"net"
	"time"

	"github.com/nabbar/poundlb/proxy/backend"
	"github.com/nabbar/poundlb/proxy/balancer"
	"github.com/nabbar/poundlb/proxy/matcher"
	"github.com/nabbar/poundlb/proxy/rewrite"
	"github.com/nabbar/poundlb/proxy/types"
)

// SessionConfig describes how a service derives its session-affinity key,
// per spec.md §4.6. Name is the cookie/header/param name for the Cookie,
// Header, and Param session types; ignored otherwise.
type SessionConfig struct {
	Type types.SessionType
	Name string
	TTL  time.Duration
}

// SessionKey derives the session-affinity key for req under cfg, or "" if
// cfg's type is SessionNone or the relevant field is absent from req.
func SessionKey(req *matcher.Request, cfg SessionConfig) string {
	switch cfg.Type {
	case types.SessionIP:
		if req.PeerIP == nil {
			return ""
		}
		return req.PeerIP.String()
	case types.SessionBasic:
		return req.BasicUser
	case types.SessionHeader:
		for _, h := range req.Headers {
			if equalFold(h.Name, cfg.Name) {
				return h.Value
			}
		}
		return ""
	case types.SessionCookie:
		for _, h := range req.Headers {
			if !equalFold(h.Name, "Cookie") {
				continue
			}
			if v, ok := cookieValue(h.Value, cfg.Name); ok {
				return v
			}
		}
		return ""
	case types.SessionParam:
		return queryParamValue(req.RawQuery, cfg.Name)
	case types.SessionURL:
		return req.Path
	default:
		return ""
	}
}

// Service is one routing unit: a condition gate, a rewrite pipeline, and a
// backend selector backed by normal/emergency balancer lists plus an
// optional session table.
type Service interface {
	Name() string

	// Match reports whether req satisfies the service's SERVICE_COND.
	Match(req *matcher.Request, scope *matcher.Scope) bool

	// Rewrite runs the service's ordered rewrite rules against req/mreq.
	Rewrite(mreq *matcher.Request, req *rewrite.Request, scope *matcher.Scope) error

	// RewriteResponse runs the service's ordered response-rewrite rules
	// against the backend response, evaluating conditions against mreq (the
	// original request) for consistency with Rewrite.
	RewriteResponse(mreq *matcher.Request, resp *rewrite.Request, scope *matcher.Scope) error

	// SelectBackend picks a backend for sessionKey (as produced by
	// SessionKey; "" when the service has no session affinity configured),
	// consulting the session table first, then the normal list, then the
	// emergency list.
	SelectBackend(sessionKey string) (backend.Backend, error)

	// LogSuppressed reports whether status should be omitted from access
	// logging, per the service's configured suppressed status classes.
	LogSuppressed(status int) bool

	Normal() balancer.List
	Emergency() balancer.List

	// SessionCfg exposes the session-affinity configuration so a caller can
	// derive the key to pass to SelectBackend via SessionKey.
	SessionCfg() SessionConfig

	// ForwardedForHeader names the header the connection driver appends the
	// peer IP to before forwarding; "" means X-Forwarded-For, spec.md §4.2
	// step 15's default.
	ForwardedForHeader() string

	// IsTrustedIP reports whether ip appears in the service's trusted-proxy
	// ACL, per spec.md §3's "trusted-IP ACL" field: a trusted peer's own
	// X-Forwarded-For is extended rather than overwritten.
	IsTrustedIP(ip net.IP) bool
}

// Option customizes a Service built by New beyond its required fields.
type Option func(*service)

// WithResponseRewrite attaches the service's ordered response-rewrite rules,
// applied by proxy/conn to the backend's response headers before they are
// relayed to the client.
func WithResponseRewrite(rules []*rewrite.Rule) Option {
	return func(s *service) { s.respRules = rules }
}

// WithForwardedFor sets the header name used for the client-IP header
// appended on forward, and the trusted-IP ACL that decides whether an
// existing value from the peer is extended or replaced.
func WithForwardedFor(header string, trusted []*net.IPNet) Option {
	return func(s *service) {
		s.forwardedFor = header
		s.trustedIPs = trusted
	}
}

// New builds a Service. suppressClasses holds status-code classes (1..5) to
// silence in access logging; emergency may be nil if the service has no
// fallback list.
func New(name string, cond matcher.Condition, rules []*rewrite.Rule, normal, emergency balancer.List, sess SessionConfig, suppressClasses []int, opts ...Option) Service {
	s := &service{
		name:      name,
		cond:      cond,
		rules:     rules,
		normal:    normal,
		emergency: emergency,
		sess:      sess,
		suppress:  newSuppressMask(suppressClasses),
	}
	if sess.Type != types.SessionNone {
		s.table = newSessionTable(sess.TTL)
	}
	for _, o := range opts {
		o(s)
	}
	return s
}
