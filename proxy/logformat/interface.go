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

// Package logformat compiles an access-log format string into a renderer for
// one completed request/response exchange: standard Apache-style tokens plus
// the service/backend-scoped extensions (%{service}N, %{backend}N, %{f}T)
// that proxy/rewrite's template grammar defers to here.
package logformat

import (
	"net"
	"time"

	"github.com/nabbar/poundlb/proxy/matcher"
)

// Entry is the data one access-log line is rendered from.
type Entry struct {
	Time         time.Time
	ClientIP     net.IP
	Method       string
	Path         string
	RawQuery     string
	Proto        string
	Status       int
	BytesSent    int64
	Duration     time.Duration
	ReqHeaders   []matcher.Header
	RespHeaders  []matcher.Header
	ServiceName  string
	BackendID    string
	RequestID    string
	AnonymizeIP  bool
}

// Format is a compiled log format string.
type Format interface {
	Render(e Entry) string
}

// Compile parses format once and returns a reusable Format. Unknown %{...}
// tokens fail fast at compile time rather than silently rendering as
// literal text, the same "fail loud on bad config" stance proxy/rewrite
// takes for its own template grammar.
func Compile(format string) (Format, error) {
	toks, err := compileTokens(format)
	if err != nil {
		return nil, err
	}
	return &compiled{tokens: toks}, nil
}

// NewRequestID returns a fresh request-correlation identifier.
func NewRequestID() string {
	return newUUID()
}

// AnonymizeIP zeroes the last octet of an IPv4 address or the last 80 bits
// (last 5 groups) of an IPv6 address, per the access-log anonymization
// requirement.
func AnonymizeIP(ip net.IP) net.IP {
	if ip == nil {
		return nil
	}
	if v4 := ip.To4(); v4 != nil {
		out := make(net.IP, len(v4))
		copy(out, v4)
		out[3] = 0
		return out
	}
	v6 := ip.To16()
	if v6 == nil {
		return ip
	}
	out := make(net.IP, len(v6))
	copy(out, v6)
	for i := 6; i < 16; i++ {
		out[i] = 0
	}
	return out
}
