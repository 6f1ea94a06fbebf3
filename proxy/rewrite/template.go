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
	"strconv"
	"strings"

	"github.com/nabbar/poundlb/proxy/matcher"
)

// safeURLByte reports whether b may appear unescaped in a URL-substituted
// template result: alphanumerics plus a small punctuation whitelist, per
// spec.md §4.7's open-redirect/CSRF hardening note.
func safeURLByte(b byte) bool {
	switch {
	case 'a' <= b && b <= 'z', 'A' <= b && b <= 'Z', '0' <= b && b <= '9':
		return true
	case strings.IndexByte("-_.~/", b) >= 0:
		return true
	}
	return false
}

// percentEncode escapes every byte of s that is not in the safe set.
func percentEncode(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if safeURLByte(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		const hex = "0123456789ABCDEF"
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0xf])
	}
	return b.String()
}

// expand substitutes `$N` (Nth submatch of scope, 0 is the whole match),
// `$$` (literal `$`), and `%{name}i`/`%{name}o` (inbound/outbound header
// lookups) into tmpl. When encodeSubmatches is true, every `$N` value is
// percent-encoded before insertion — used for URL/PATH/QUERY targets, per
// spec.md §4.7; header and plain string targets pass false.
func expand(tmpl string, scope *matcher.Scope, inHeader, outHeader func(name string) (string, bool), encodeSubmatches bool) string {
	var b strings.Builder
	i := 0
	for i < len(tmpl) {
		c := tmpl[i]
		if c != '$' && c != '%' {
			b.WriteByte(c)
			i++
			continue
		}

		if c == '$' {
			if i+1 < len(tmpl) && tmpl[i+1] == '$' {
				b.WriteByte('$')
				i += 2
				continue
			}
			j := i + 1
			for j < len(tmpl) && tmpl[j] >= '0' && tmpl[j] <= '9' {
				j++
			}
			if j > i+1 {
				n, _ := strconv.Atoi(tmpl[i+1 : j])
				v := submatch(scope, n)
				if encodeSubmatches {
					v = percentEncode(v)
				}
				b.WriteString(v)
				i = j
				continue
			}
			b.WriteByte(c)
			i++
			continue
		}

		// c == '%'
		if i+1 < len(tmpl) && tmpl[i+1] == '{' {
			end := strings.IndexByte(tmpl[i+2:], '}')
			if end >= 0 && i+2+end+1 < len(tmpl) {
				name := tmpl[i+2 : i+2+end]
				dir := tmpl[i+2+end+1]
				var v string
				var ok bool
				switch dir {
				case 'i':
					if inHeader != nil {
						v, ok = inHeader(name)
					}
				case 'o':
					if outHeader != nil {
						v, ok = outHeader(name)
					}
				}
				if ok {
					if encodeSubmatches {
						v = percentEncode(v)
					}
					b.WriteString(v)
					i = i + 2 + end + 2
					continue
				}
				i = i + 2 + end + 2
				continue
			}
		}
		b.WriteByte(c)
		i++
	}
	return b.String()
}

func submatch(scope *matcher.Scope, n int) string {
	if scope == nil || n < 0 || n >= len(scope.Submatches) {
		return ""
	}
	return scope.Submatches[n]
}
