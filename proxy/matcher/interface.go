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

// Package matcher evaluates the boolean condition tree of spec.md §4.4:
// ACL/URL/PATH/QUERY/QUERY_PARAM/HDR/HOST/BASIC_AUTH/STRING_MATCH leaves
// combined with AND/OR/NOT nodes, short-circuit evaluated against an
// in-flight request's decoded fields.
package matcher

import (
	"net"

	"github.com/nabbar/poundlb/proxy/htpasswd"
	"github.com/nabbar/poundlb/proxy/types"
)

// Header is one parsed request header line, as the matcher needs it.
type Header struct {
	Name  string
	Value string
}

// Request is the subset of an in-flight HTTP request the matcher reads.
// proxy/conn's request model satisfies this by construction.
type Request struct {
	PeerIP     net.IP
	URL        string // decoded request-target
	Path       string
	RawQuery   string
	Host       string
	Headers    []Header
	BasicUser  string
	BasicPass  string
}

// Scope holds the regex submatches of the most recently successful match,
// per spec.md §5's "stack of submatch arrays scoped to nested matcher
// evaluation". Condition evaluates against the top of the caller's stack
// and pushes its own matches onto it.
type Scope struct {
	Submatches []string
}

// Condition is one node of the boolean tree: a leaf test or a combinator.
type Condition interface {
	// Match evaluates the condition against req, reading/writing scope for
	// `$N` template substitution of whichever regex succeeds.
	Match(req *Request, scope *Scope) bool
}

// And builds a short-circuit AND combinator.
func And(children ...Condition) Condition { return andNode{children} }

// Or builds a short-circuit OR combinator.
func Or(children ...Condition) Condition { return orNode{children} }

// Not negates a single condition.
func Not(child Condition) Condition { return notNode{child} }

// NewACL builds an ACL leaf: true if the peer IP falls in any of the CIDRs.
func NewACL(cidrs []string) (Condition, error) {
	nets := make([]*net.IPNet, 0, len(cidrs))
	for _, c := range cidrs {
		_, n, err := net.ParseCIDR(c)
		if err != nil {
			return nil, ErrorInvalidCIDR.Error(err)
		}
		nets = append(nets, n)
	}
	return aclNode{nets}, nil
}

// NewRegexCondition builds any of URL/PATH/QUERY/HOST/STRING_MATCH, all of
// which are "compile a pattern, test it against one derived string". kind
// selects how pattern is compiled (spec.md §4.4: EXACT/PREFIX/SUFFIX/CONTAIN
// are compiled into anchored POSIX patterns).
func NewRegexCondition(field Field, kind types.RegexKind, pattern string) (Condition, error) {
	re, err := compileRegex(kind, pattern)
	if err != nil {
		return nil, err
	}
	return regexNode{field: field, re: re}, nil
}

// Field selects which derived string a regex leaf tests.
type Field int

const (
	FieldURL Field = iota
	FieldPath
	FieldQuery
	FieldHost
)

// NewQueryParam builds a QUERY_PARAM leaf: regex against the value of the
// first query parameter whose name matches exactly.
func NewQueryParam(name string, kind types.RegexKind, pattern string) (Condition, error) {
	re, err := compileRegex(kind, pattern)
	if err != nil {
		return nil, err
	}
	return queryParamNode{name: name, re: re}, nil
}

// NewHeader builds an HDR leaf: multiline, case-insensitive regex against
// every "Name: value" header line; matches if any header matches.
func NewHeader(pattern string) (Condition, error) {
	re, err := compileHeaderRegex(pattern)
	if err != nil {
		return nil, err
	}
	return headerNode{re: re}, nil
}

// NewBasicAuth builds a BASIC_AUTH leaf verifying the extracted credentials
// against an htpasswd-style password file.
func NewBasicAuth(pw htpasswd.File) Condition {
	return basicAuthNode{pw: pw}
}
