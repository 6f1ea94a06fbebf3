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

package rewrite

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/nabbar/poundlb/proxy/matcher"
)

// outHeaderFunc resolves %{name}o lookups against a response header set that
// the caller supplies per-application (the response is not yet known when a
// request-side rule runs); nil means %{name}o never resolves.
type outHeaderFunc func(name string) (string, bool)

type setHeaderOp struct {
	name     string
	tmpl     string
	outHdr   outHeaderFunc
}

// NewSetHeaderOp builds a SET_HEADER op: template-expand tmpl and set it as
// the value of header name, replacing an existing one or appending.
func NewSetHeaderOp(name, tmpl string, outHdr outHeaderFunc) Op {
	return setHeaderOp{name: name, tmpl: tmpl, outHdr: outHdr}
}

func (o setHeaderOp) Apply(req *Request, scope *matcher.Scope) error {
	v := expand(o.tmpl, scope, req.Header, o.outHdr, false)
	req.SetHeader(o.name, v)
	return nil
}

type delHeaderOp struct{ re *regexp.Regexp }

// NewDelHeaderOp builds a DEL_HEADER op from a pre-compiled "Name: value"
// line regex. Use compileRegex-style helpers in the matcher package to build
// the pattern if it needs anchoring/case-insensitivity.
func NewDelHeaderOp(pattern string) (Op, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, ErrorInvalidHeaderPattern.Error(err)
	}
	return delHeaderOp{re: re}, nil
}

func (o delHeaderOp) Apply(req *Request, _ *matcher.Scope) error {
	req.DelHeaderMatching(o.re)
	return nil
}

type urlTarget int

const (
	targetURL urlTarget = iota
	targetPath
	targetQuery
)

type setURLPartOp struct {
	target urlTarget
	tmpl   string
}

// NewSetURLOp builds a SET_URL op.
func NewSetURLOp(tmpl string) Op { return setURLPartOp{target: targetURL, tmpl: tmpl} }

// NewSetPathOp builds a SET_PATH op.
func NewSetPathOp(tmpl string) Op { return setURLPartOp{target: targetPath, tmpl: tmpl} }

// NewSetQueryOp builds a SET_QUERY op.
func NewSetQueryOp(tmpl string) Op { return setURLPartOp{target: targetQuery, tmpl: tmpl} }

func (o setURLPartOp) Apply(req *Request, scope *matcher.Scope) error {
	v := expand(o.tmpl, scope, req.Header, nil, true)
	switch o.target {
	case targetPath:
		req.Path = v
	case targetQuery:
		req.RawQuery = v
	default:
		req.URL = v
	}
	return nil
}

type setQueryParamOp struct {
	name string
	tmpl string
}

// NewSetQueryParamOp builds a SET_QUERY_PARAM op: set (or add) name in the
// query string to the template-expanded, percent-encoded value.
func NewSetQueryParamOp(name, tmpl string) (Op, error) {
	if name == "" {
		return nil, ErrorUnknownQueryParam.Error(nil)
	}
	return setQueryParamOp{name: name, tmpl: tmpl}, nil
}

func (o setQueryParamOp) Apply(req *Request, scope *matcher.Scope) error {
	v := expand(o.tmpl, scope, req.Header, nil, true)

	values, _ := url.ParseQuery(req.RawQuery)
	if values == nil {
		values = url.Values{}
	}
	values.Set(o.name, v)
	req.RawQuery = values.Encode()
	return nil
}

type subRuleOp struct {
	rule *Rule
	mreq func(*Request) *matcher.Request
}

// NewSubRuleOp builds a SUB_RULE op: recurse into rule, deriving the
// matcher.Request view of req via toMatcherReq (the caller's adapter from
// its mutable Request to a read-only matcher.Request snapshot).
func NewSubRuleOp(rule *Rule, toMatcherReq func(*Request) *matcher.Request) Op {
	return subRuleOp{rule: rule, mreq: toMatcherReq}
}

func (o subRuleOp) Apply(req *Request, scope *matcher.Scope) error {
	var mreq *matcher.Request
	if o.mreq != nil {
		mreq = o.mreq(req)
	} else {
		mreq = &matcher.Request{}
	}
	return o.rule.Apply(mreq, req, scope)
}

// RewriteLocation implements spec.md §4.7's Location/Content-Location
// rewrite: if location parses as an absolute URL whose host:port is a known
// backend (per isKnownBackend) and whose path is safe to forward, it is
// rewritten to scheme://originalHost/path, scheme chosen by tls.
func RewriteLocation(location, originalHost string, tls bool, isKnownBackend func(hostport string) bool) (string, bool) {
	u, err := url.Parse(location)
	if err != nil || !u.IsAbs() {
		return location, false
	}
	if isKnownBackend == nil || !isKnownBackend(u.Host) {
		return location, false
	}
	if strings.Contains(u.Path, "..") {
		return location, false
	}

	scheme := "http"
	if tls {
		scheme = "https"
	}

	out := *u
	out.Scheme = scheme
	out.Host = originalHost
	return out.String(), true
}
