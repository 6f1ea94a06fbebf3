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

// Package request parses the wire form of an HTTP/1.x request per spec.md
// §4.3: request-line and header-line framing, method/header classification,
// percent-decoding, and the chunked/Content-Length smuggling defense.
package request

import (
	"encoding/base64"
	"net"
	"regexp"
	"strconv"
	"strings"

	"github.com/nabbar/poundlb/proxy/matcher"
	"github.com/nabbar/poundlb/proxy/rewrite"
	"github.com/nabbar/poundlb/proxy/types"
)

// Message is a fully parsed, framing-validated in-flight request.
type Message struct {
	RequestLine
	URL      DecodedURL
	Host     string
	Headers  []HeaderLine
	Chunked  bool
	ContentLength int64 // -1 when absent
}

// Parse assembles a Message from an already-read request line and header
// block, applying header classification and the framing-conflict defense.
// allow is the listener's URL allow-pattern list (nil/empty means "allow
// all").
func Parse(reqLine string, headerLines []string, allow []*regexp.Regexp) (Message, error) {
	rl, err := ParseRequestLine(reqLine)
	if err != nil {
		return Message{}, err
	}

	u, err := DecodeURL(rl.Target, allow)
	if err != nil {
		return Message{}, err
	}

	msg := Message{RequestLine: rl, URL: u, ContentLength: -1}

	var sawChunked, sawContentLength bool
	for _, raw := range headerLines {
		h, herr := ParseHeaderLine(raw)
		if herr != nil {
			return Message{}, herr
		}
		switch types.ClassifyHeader(h.Name) {
		case types.HdrExpect:
			// Expect: 100-continue is never relayed to the backend; this
			// proxy always reads the full request body itself before
			// forwarding, so there is no interim 100 to coordinate.
			continue
		case types.HdrHost:
			msg.Host = h.Value
		case types.HdrTransferEncoding:
			if strings.Contains(strings.ToLower(h.Value), "chunked") {
				sawChunked = true
				msg.Chunked = true
			}
		case types.HdrContentLength:
			if sawContentLength {
				return Message{}, ErrorContentLengthInvalid.Error(nil)
			}
			sawContentLength = true
			n, cerr := strconv.ParseInt(strings.TrimSpace(h.Value), 10, 64)
			if cerr != nil || n < 0 {
				return Message{}, ErrorContentLengthInvalid.Error(cerr)
			}
			msg.ContentLength = n
		}
		msg.Headers = append(msg.Headers, h)
	}

	if sawChunked && sawContentLength {
		return Message{}, ErrorFramingConflict.Error(nil)
	}

	return msg, nil
}

// Header returns the raw value of the first header matching name
// case-insensitively.
func (m Message) Header(name string) (string, bool) {
	for _, h := range m.Headers {
		if strings.EqualFold(h.Name, name) {
			return h.Value, true
		}
	}
	return "", false
}

// BasicAuth extracts and base64-decodes an "Authorization: Basic ..."
// header, splitting "user:pass" on the first colon.
func (m Message) BasicAuth() (user, pass string, ok bool) {
	v, present := m.Header("Authorization")
	if !present {
		return "", "", false
	}
	const prefix = "Basic "
	if !strings.HasPrefix(v, prefix) {
		return "", "", false
	}
	dec, err := base64.StdEncoding.DecodeString(strings.TrimSpace(v[len(prefix):]))
	if err != nil {
		return "", "", false
	}
	u, p, found := strings.Cut(string(dec), ":")
	if !found {
		return "", "", false
	}
	return u, p, true
}

// MatcherRequest projects the Message into the lightweight view
// proxy/matcher evaluates conditions against. peerIP is supplied by the
// connection driver since it is not part of the wire message.
func (m Message) MatcherRequest(peerIP net.IP) matcher.Request {
	hdrs := make([]matcher.Header, 0, len(m.Headers))
	for _, h := range m.Headers {
		hdrs = append(hdrs, matcher.Header{Name: h.Name, Value: h.Value})
	}
	user, pass, _ := m.BasicAuth()

	return matcher.Request{
		PeerIP:    peerIP,
		URL:       m.URL.Target(),
		Path:      m.URL.Path,
		RawQuery:  m.URL.RawQuery,
		Host:      m.Host,
		Headers:   hdrs,
		BasicUser: user,
		BasicPass: pass,
	}
}

// RewriteRequest projects the Message into the mutable view proxy/rewrite
// operations edit in place.
func (m Message) RewriteRequest() rewrite.Request {
	hdrs := make([]matcher.Header, 0, len(m.Headers))
	for _, h := range m.Headers {
		hdrs = append(hdrs, matcher.Header{Name: h.Name, Value: h.Value})
	}
	return rewrite.Request{
		Headers:  hdrs,
		URL:      m.URL.Target(),
		Path:     m.URL.Path,
		RawQuery: m.URL.RawQuery,
	}
}

// ApplyRewritten copies a rewrite.Request's mutated path/query/headers back
// onto the Message so downstream forwarding sees the rewritten values.
func (m *Message) ApplyRewritten(r rewrite.Request) {
	m.URL.Path = r.Path
	m.URL.RawQuery = r.RawQuery
	m.Headers = m.Headers[:0]
	for _, h := range r.Headers {
		m.Headers = append(m.Headers, HeaderLine{Name: h.Name, Value: h.Value})
	}
}
