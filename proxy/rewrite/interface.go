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

// Package rewrite implements spec.md §4.7: ordered rewrite op-lists guarded
// by a matcher condition, `$N`/`%{name}i`/`%{name}o` template expansion with
// percent-encoding of submatch-derived text, and the Location/Content-Location
// rewrite helper used when forwarding a backend's redirect response.
package rewrite

import (
	"regexp"

	"github.com/nabbar/poundlb/proxy/matcher"
)

// Request is the mutable view of an in-flight request's headers and URL
// components that rewrite ops act on. proxy/conn's request model satisfies
// this by construction; it is intentionally independent of matcher.Request,
// which is a read-only snapshot used purely for condition evaluation.
type Request struct {
	Headers  []matcher.Header
	URL      string
	Path     string
	RawQuery string
}

// Header returns the value of the first header named name, case-insensitive.
func (r *Request) Header(name string) (string, bool) {
	for _, h := range r.Headers {
		if equalFold(h.Name, name) {
			return h.Value, true
		}
	}
	return "", false
}

// SetHeader replaces the first header named name, or appends one if absent.
func (r *Request) SetHeader(name, value string) {
	for i, h := range r.Headers {
		if equalFold(h.Name, name) {
			r.Headers[i].Value = value
			return
		}
	}
	r.Headers = append(r.Headers, matcher.Header{Name: name, Value: value})
}

// DelHeaderMatching removes every header whose "Name: value" line matches re.
func (r *Request) DelHeaderMatching(re *regexp.Regexp) {
	kept := r.Headers[:0]
	for _, h := range r.Headers {
		if re.MatchString(h.Name + ": " + h.Value) {
			continue
		}
		kept = append(kept, h)
	}
	r.Headers = kept
}

func equalFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if 'A' <= ca && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if 'A' <= cb && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}

// Op is one rewrite operation from spec.md §4.7's op-list.
type Op interface {
	Apply(req *Request, scope *matcher.Scope) error
}

// Rule is one rewrite rule: if Condition matches, Then runs; else Else runs.
type Rule struct {
	Condition matcher.Condition
	Then      []Op
	Else      []Op
}

// Apply evaluates the rule's condition against mreq/scope and runs the
// matching op-list against req, in order.
func (r *Rule) Apply(mreq *matcher.Request, req *Request, scope *matcher.Scope) error {
	ops := r.Else
	if r.Condition == nil || r.Condition.Match(mreq, scope) {
		ops = r.Then
	}
	for _, op := range ops {
		if err := op.Apply(req, scope); err != nil {
			return err
		}
	}
	return nil
}
