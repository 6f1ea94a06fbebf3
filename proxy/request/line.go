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
	"strconv"
	"strings"
)

// RequestLine is the parsed "METHOD SP request-target SP HTTP/X.Y" line.
type RequestLine struct {
	Method      string
	Target      string
	ProtoMajor  int
	ProtoMinor  int
}

// ParseRequestLine splits and validates a request line per spec.md §4.3. It
// does not validate the method against any allow-list; that is xHTTP-level
// policy applied by the caller via ErrorMethodNotAllowed.
func ParseRequestLine(line string) (RequestLine, error) {
	parts := strings.SplitN(line, " ", 3)
	if len(parts) != 3 {
		return RequestLine{}, ErrorRequestLineInvalid.Error(nil)
	}

	method, target, proto := parts[0], parts[1], parts[2]
	if method == "" || target == "" {
		return RequestLine{}, ErrorRequestLineInvalid.Error(nil)
	}

	major, minor, ok := parseProto(proto)
	if !ok {
		return RequestLine{}, ErrorRequestLineInvalid.Error(nil)
	}

	return RequestLine{Method: method, Target: target, ProtoMajor: major, ProtoMinor: minor}, nil
}

func parseProto(proto string) (major, minor int, ok bool) {
	const prefix = "HTTP/"
	if !strings.HasPrefix(proto, prefix) {
		return 0, 0, false
	}
	rest := proto[len(prefix):]
	dot := strings.IndexByte(rest, '.')
	if dot < 0 {
		return 0, 0, false
	}
	major, err1 := strconv.Atoi(rest[:dot])
	minor, err2 := strconv.Atoi(rest[dot+1:])
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return major, minor, true
}

// HeaderLine is one raw "Name: value" header before classification.
type HeaderLine struct {
	Name  string
	Value string
}

// ParseHeaderLine splits a header line on the first colon, trimming
// optional whitespace around the value per RFC 7230 §3.2. A line with no
// colon, or an empty name, is syntactically illegal.
func ParseHeaderLine(line string) (HeaderLine, error) {
	colon := strings.IndexByte(line, ':')
	if colon <= 0 {
		return HeaderLine{}, ErrorHeaderIllegal.Error(nil)
	}
	name := line[:colon]
	value := strings.TrimSpace(line[colon+1:])
	if strings.ContainsAny(name, " \t") {
		return HeaderLine{}, ErrorHeaderIllegal.Error(nil)
	}
	return HeaderLine{Name: name, Value: value}, nil
}
