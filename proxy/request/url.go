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

package request

import (
	"regexp"
	"strings"
)

// DecodedURL is a request-target split into its path and raw (still-encoded)
// query, with the path percent-decoded per spec.md §4.3.
type DecodedURL struct {
	Path     string
	RawQuery string
}

// Target reassembles the full decoded request-target (path plus query, when
// present) — distinct from Path, which is the path component alone.
func (u DecodedURL) Target() string {
	if u.RawQuery == "" {
		return u.Path
	}
	return u.Path + "?" + u.RawQuery
}

// DecodeURL percent-decodes the path component of target and rejects a
// decoded NUL byte, matching spec.md §4.3's "a URL that decodes to contain a
// NUL byte is rejected outright". Malformed escapes (truncated, or invalid
// hex digits) are emitted literally rather than rejected. The query string
// is kept encoded: it is decoded per-parameter, lazily, wherever a
// QUERY_PARAM matcher or rewrite op actually needs a value.
func DecodeURL(target string, allow []*regexp.Regexp) (DecodedURL, error) {
	path, rawQuery, _ := strings.Cut(target, "?")

	decoded := percentDecode(path)
	if strings.ContainsRune(decoded, 0) {
		return DecodedURL{}, ErrorURLRejected.Error(nil)
	}

	if len(allow) > 0 {
		ok := false
		for _, re := range allow {
			if re.MatchString(decoded) {
				ok = true
				break
			}
		}
		if !ok {
			return DecodedURL{}, ErrorURLRejected.Error(nil)
		}
	}

	return DecodedURL{Path: decoded, RawQuery: rawQuery}, nil
}

// percentDecode decodes %XX escapes. A malformed escape — truncated at the
// end of the string, or followed by non-hex digits — is emitted literally
// (the '%' passes through and the following bytes are processed normally on
// the next iterations) rather than rejected.
func percentDecode(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '%' {
			b.WriteByte(c)
			continue
		}
		if i+2 >= len(s) {
			b.WriteByte(c)
			continue
		}
		hi, ok1 := hexVal(s[i+1])
		lo, ok2 := hexVal(s[i+2])
		if !ok1 || !ok2 {
			b.WriteByte(c)
			continue
		}
		b.WriteByte(byte(hi<<4 | lo))
		i += 2
	}
	return b.String()
}

func hexVal(c byte) (int, bool) {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0'), true
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10, true
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10, true
	}
	return 0, false
}
