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

package logformat

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/nabbar/poundlb/proxy/matcher"
)

func newUUID() string { return uuid.NewString() }

type token func(e Entry) string

type compiled struct {
	tokens []token
}

func (c *compiled) Render(e Entry) string {
	var b strings.Builder
	for _, t := range c.tokens {
		b.WriteString(t(e))
	}
	return b.String()
}

// compileTokens scans format for '%' directives, mirroring the same
// hand-written scanner approach proxy/rewrite uses for its own template
// grammar: this DSL's token set ($N substitution vs access-log fields) is
// unrelated to rewrite's, so sharing one scanner would only couple two
// independent grammars together.
func compileTokens(format string) ([]token, error) {
	var toks []token
	var lit strings.Builder

	flush := func() {
		if lit.Len() == 0 {
			return
		}
		s := lit.String()
		toks = append(toks, func(Entry) string { return s })
		lit.Reset()
	}

	i := 0
	for i < len(format) {
		c := format[i]
		if c != '%' {
			lit.WriteByte(c)
			i++
			continue
		}

		if i+1 >= len(format) {
			return nil, ErrorUnknownToken.Error(nil)
		}

		if format[i+1] == '{' {
			end := strings.IndexByte(format[i+2:], '}')
			if end < 0 || i+2+end+1 >= len(format) {
				return nil, ErrorUnknownToken.Error(nil)
			}
			name := format[i+2 : i+2+end]
			kind := format[i+2+end+1]
			tok, err := scopedToken(name, kind)
			if err != nil {
				return nil, err
			}
			flush()
			toks = append(toks, tok)
			i += 2 + end + 2
			continue
		}

		tok, ok := simpleToken(format[i+1])
		if !ok {
			return nil, ErrorUnknownToken.Error(nil)
		}
		flush()
		toks = append(toks, tok)
		i += 2
	}
	flush()
	return toks, nil
}

func simpleToken(kind byte) (token, bool) {
	switch kind {
	case 'h':
		return func(e Entry) string {
			ip := e.ClientIP
			if e.AnonymizeIP {
				ip = AnonymizeIP(ip)
			}
			if ip == nil {
				return "-"
			}
			return ip.String()
		}, true
	case 'm':
		return func(e Entry) string { return e.Method }, true
	case 'U':
		return func(e Entry) string { return e.Path }, true
	case 'q':
		return func(e Entry) string {
			if e.RawQuery == "" {
				return ""
			}
			return "?" + e.RawQuery
		}, true
	case 'H':
		return func(e Entry) string { return e.Proto }, true
	case 's':
		return func(e Entry) string { return strconv.Itoa(e.Status) }, true
	case 'b':
		return func(e Entry) string { return strconv.FormatInt(e.BytesSent, 10) }, true
	case 'D':
		return func(e Entry) string { return strconv.FormatInt(e.Duration.Microseconds(), 10) }, true
	case 't':
		return func(e Entry) string { return e.Time.Format("[02/Jan/2006:15:04:05 -0700]") }, true
	case 'r':
		return func(e Entry) string {
			return fmt.Sprintf("%s %s%s %s", e.Method, e.Path, rawQuerySuffix(e), e.Proto)
		}, true
	case '%':
		return func(Entry) string { return "%" }, true
	}
	return nil, false
}

func rawQuerySuffix(e Entry) string {
	if e.RawQuery == "" {
		return ""
	}
	return "?" + e.RawQuery
}

// scopedToken handles %{name}kind. kind 'i'/'o' are request/response
// headers, borrowed from the same convention proxy/rewrite's template
// grammar uses. 'N' selects the service/backend-scoped name tokens
// deferred here from proxy/rewrite; 'T' formats the entry's time with a Go
// reference layout named by name.
func scopedToken(name string, kind byte) (token, error) {
	switch kind {
	case 'i':
		return func(e Entry) string { return headerValue(e.ReqHeaders, name) }, nil
	case 'o':
		return func(e Entry) string { return headerValue(e.RespHeaders, name) }, nil
	case 'N':
		switch name {
		case "service":
			return func(e Entry) string { return e.ServiceName }, nil
		case "backend":
			return func(e Entry) string { return e.BackendID }, nil
		case "request":
			return func(e Entry) string { return e.RequestID }, nil
		}
		return nil, ErrorUnknownToken.Error(nil)
	case 'T':
		layout := name
		return func(e Entry) string { return e.Time.Format(layout) }, nil
	}
	return nil, ErrorUnknownToken.Error(nil)
}

func headerValue(hdrs []matcher.Header, name string) string {
	for _, h := range hdrs {
		if strings.EqualFold(h.Name, name) {
			return h.Value
		}
	}
	return "-"
}
