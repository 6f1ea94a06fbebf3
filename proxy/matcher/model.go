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

package matcher

import (
	"fmt"
	"net"
	"net/url"
	"regexp"
	"strings"

	"github.com/nabbar/poundlb/proxy/htpasswd"
	"github.com/nabbar/poundlb/proxy/types"
)

type andNode struct{ children []Condition }

func (n andNode) Match(req *Request, scope *Scope) bool {
	for _, c := range n.children {
		if !c.Match(req, scope) {
			return false
		}
	}
	return true
}

type orNode struct{ children []Condition }

func (n orNode) Match(req *Request, scope *Scope) bool {
	for _, c := range n.children {
		if c.Match(req, scope) {
			return true
		}
	}
	return false
}

type notNode struct{ child Condition }

func (n notNode) Match(req *Request, scope *Scope) bool {
	return !n.child.Match(req, scope)
}

type aclNode struct{ nets []*net.IPNet }

func (n aclNode) Match(req *Request, _ *Scope) bool {
	if req.PeerIP == nil {
		return false
	}
	for _, nw := range n.nets {
		if nw.Contains(req.PeerIP) {
			return true
		}
	}
	return false
}

type regexNode struct {
	field Field
	re    *regexp.Regexp
}

func (n regexNode) Match(req *Request, scope *Scope) bool {
	var s string
	switch n.field {
	case FieldPath:
		s = req.Path
	case FieldQuery:
		s = req.RawQuery
	case FieldHost:
		s = req.Host
	default:
		s = req.URL
	}

	m := n.re.FindStringSubmatch(s)
	if m == nil {
		return false
	}
	scope.Submatches = m
	return true
}

type queryParamNode struct {
	name string
	re   *regexp.Regexp
}

func (n queryParamNode) Match(req *Request, scope *Scope) bool {
	values, err := url.ParseQuery(req.RawQuery)
	if err != nil {
		return false
	}
	vs, ok := values[n.name]
	if !ok || len(vs) == 0 {
		return false
	}

	m := n.re.FindStringSubmatch(vs[0])
	if m == nil {
		return false
	}
	scope.Submatches = m
	return true
}

type headerNode struct{ re *regexp.Regexp }

func (n headerNode) Match(req *Request, scope *Scope) bool {
	for _, h := range req.Headers {
		line := h.Name + ": " + h.Value
		if m := n.re.FindStringSubmatch(line); m != nil {
			scope.Submatches = m
			return true
		}
	}
	return false
}

type basicAuthNode struct{ pw htpasswd.File }

func (n basicAuthNode) Match(req *Request, _ *Scope) bool {
	if req.BasicUser == "" {
		return false
	}
	ok, err := n.pw.Verify(req.BasicUser, req.BasicPass)
	return err == nil && ok
}

// compileRegex compiles pattern per kind: POSIX/PCRE compile as-is (Go's
// RE2 engine covers both in practice); EXACT/PREFIX/SUFFIX/CONTAIN are
// quoted literally and anchored, per spec.md §4.4.
func compileRegex(kind types.RegexKind, pattern string) (*regexp.Regexp, error) {
	switch kind {
	case types.RegexExact:
		return regexp.Compile("^" + regexp.QuoteMeta(pattern) + "$")
	case types.RegexPrefix:
		return regexp.Compile("^" + regexp.QuoteMeta(pattern))
	case types.RegexSuffix:
		return regexp.Compile(regexp.QuoteMeta(pattern) + "$")
	case types.RegexContain:
		return regexp.Compile(regexp.QuoteMeta(pattern))
	default:
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, ErrorInvalidRegex.Error(err)
		}
		return re, nil
	}
}

// compileHeaderRegex wraps pattern for HDR matching: multiline,
// case-insensitive, as spec.md §4.4 requires.
func compileHeaderRegex(pattern string) (*regexp.Regexp, error) {
	re, err := regexp.Compile("(?im)" + pattern)
	if err != nil {
		return nil, ErrorInvalidRegex.Error(err)
	}
	return re, nil
}

// LoadConditionFile expands a condition file into an OR node with one
// STRING_MATCH-style leaf per non-blank, non-comment line (spec.md §4.4).
func LoadConditionFile(lines []string, field Field, kind types.RegexKind) (Condition, error) {
	var leaves []Condition
	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		c, err := NewRegexCondition(field, kind, line)
		if err != nil {
			return nil, fmt.Errorf("condition file: %w", err)
		}
		leaves = append(leaves, c)
	}
	return Or(leaves...), nil
}
