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

package conn

import (
	"context"
	"crypto/tls"
	"encoding/pem"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nabbar/poundlb/proxy/backend"
	"github.com/nabbar/poundlb/proxy/balancer"
	"github.com/nabbar/poundlb/proxy/listener"
	"github.com/nabbar/poundlb/proxy/matcher"
	"github.com/nabbar/poundlb/proxy/request"
	"github.com/nabbar/poundlb/proxy/rewrite"
	"github.com/nabbar/poundlb/proxy/service"
	"github.com/nabbar/poundlb/proxy/types"
)

type driver struct {
	cfg Config
}

// Serve implements listener.Driver. It drives the connection through as
// many keep-alive requests as the client sends, stopping on parse error,
// a "Connection: close" request or response, or the peer closing first.
func (d *driver) Serve(ctx context.Context, nc net.Conn, info listener.Info) {
	defer func() { _ = nc.Close() }()

	peerCert := peerConnectionState(nc)
	lr := request.NewLineReader(nc, d.cfg.MaxLineSize)

	for {
		if err := nc.SetReadDeadline(deadline(d.cfg.IdleTimeout)); err != nil {
			return
		}

		reqLine, err := lr.ReadLine()
		if err != nil || reqLine == "" {
			return
		}

		if err := nc.SetReadDeadline(deadline(d.cfg.ReadHeaderTimeout)); err != nil {
			return
		}

		headerLines, err := readHeaderLines(lr, d.cfg.MaxHeaderLines)
		if err != nil {
			writeStatusOnly(nc, 400)
			return
		}

		msg, err := request.Parse(reqLine, headerLines, nil)
		if err != nil {
			writeStatusOnly(nc, 400)
			return
		}

		if !info.URLAllowed(msg.URL.Path) {
			writeStatusOnly(nc, 404)
			return
		}
		if max := info.MaxRequestBytes(); max > 0 && msg.ContentLength > max {
			writeStatusOnly(nc, 413)
			return
		}

		keepAlive := d.handleRequest(ctx, nc, lr, info, &msg, peerCert)
		if !keepAlive {
			return
		}
	}
}

// handleRequest runs one request through the rewrite/selection/forwarding
// pipeline and returns whether the connection should stay open for another
// request.
func (d *driver) handleRequest(ctx context.Context, nc net.Conn, lr *request.LineReader, info listener.Info, msg *request.Message, peerCert *tls.ConnectionState) bool {
	peerIP := peerAddrIP(nc.RemoteAddr())
	mreq := msg.MatcherRequest(peerIP)
	rreq := msg.RewriteRequest()
	scope := &matcher.Scope{}

	for _, r := range info.Rewrite() {
		_ = r.Apply(&mreq, &rreq, scope)
	}
	msg.ApplyRewritten(rreq)
	mreq = msg.MatcherRequest(peerIP)

	svc := selectService(info.Services(), &mreq, scope)
	if svc == nil {
		writeStatusOnly(nc, 404)
		return false
	}

	rreq = msg.RewriteRequest()
	_ = svc.Rewrite(&mreq, &rreq, scope)
	msg.ApplyRewritten(rreq)

	key := service.SessionKey(&mreq, svc.SessionCfg())
	be, err := svc.SelectBackend(key)
	if err != nil {
		writeStatusOnly(nc, 503)
		return false
	}

	if be.Kind().IsTerminal() {
		d.serveTerminal(nc, info, be)
		return false
	}

	return d.forward(ctx, nc, lr, info, svc, msg, &mreq, scope, be, peerIP, peerCert)
}

func selectService(svcs []service.Service, mreq *matcher.Request, scope *matcher.Scope) service.Service {
	for _, s := range svcs {
		if s.Match(mreq, scope) {
			return s
		}
	}
	return nil
}

// forward dials the chosen backend, replays the (possibly rewritten)
// request, streams the response back, and reports whether the client
// connection can be kept alive for another request.
func (d *driver) forward(ctx context.Context, nc net.Conn, lr *request.LineReader, info listener.Info, svc service.Service, msg *request.Message, mreq *matcher.Request, scope *matcher.Scope, be backend.Backend, peerIP net.IP, peerCert *tls.ConnectionState) bool {
	be.Acquire()
	defer be.Release()

	dialTimeout := d.cfg.DialTimeout
	if ct := be.ConnectTimeout(); ct > 0 {
		dialTimeout = ct
	}
	bc, err := net.DialTimeout("tcp", be.Address(), dialTimeout)
	if err != nil {
		be.KillBe()
		writeStatusOnly(nc, 502)
		return false
	}
	defer func() { _ = bc.Close() }()

	wantsUpgrade := isUpgrade(msg)
	if err := writeRequest(bc, msg, svc, peerIP, peerCert); err != nil {
		be.KillBe()
		writeStatusOnly(nc, 502)
		return false
	}
	if err := copyRequestBody(bc, lr, msg); err != nil {
		be.KillBe()
		writeStatusOnly(nc, 502)
		return false
	}

	return d.streamResponse(ctx, bc, nc, info, svc, mreq, scope, wantsUpgrade)
}

// tunnel bridges client and backend bidirectionally, used once a 101
// Switching Protocols handshake has actually happened on both sides.
func (d *driver) tunnel(ctx context.Context, a, b net.Conn) bool {
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		_, err := io.Copy(b, a)
		return err
	})
	g.Go(func() error {
		_, err := io.Copy(a, b)
		return err
	})
	_ = g.Wait()
	return false
}

func (d *driver) serveTerminal(nc net.Conn, info listener.Info, be backend.Backend) {
	switch be.Kind() {
	case types.BackendRedirect:
		r := be.RedirectSpec()
		body := fmt.Sprintf("<html><body>Moved to %s</body></html>", r.Template)
		writeSimple(nc, r.Status, "text/html", []byte(body), map[string]string{"Location": r.Template})
	case types.BackendError:
		e := be.ErrorSpec()
		if body, ok := info.ErrorBody(e.Status); ok {
			writeSimple(nc, body.Status, body.ContentType, body.Body, nil)
			return
		}
		writeSimple(nc, e.Status, "text/plain", e.Body, nil)
	default:
		writeStatusOnly(nc, 501)
	}
}

func readHeaderLines(lr *request.LineReader, max int) ([]string, error) {
	var lines []string
	for i := 0; i < max; i++ {
		line, err := lr.ReadLine()
		if err != nil {
			return nil, err
		}
		if line == "" {
			return lines, nil
		}
		lines = append(lines, line)
	}
	return nil, ErrorTooManyHeaders.Error(nil)
}

// writeRequest replays msg onto the backend connection, substituting the
// forwarded-for header (svc.ForwardedForHeader, extended rather than
// replaced when peerIP is in the service's trusted-proxy ACL) and adding
// the X-SSL-* headers describing the client certificate the listener's TLS
// handshake verified, when any.
func writeRequest(w io.Writer, msg *request.Message, svc service.Service, peerIP net.IP, peerCert *tls.ConnectionState) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s HTTP/%d.%d\r\n", msg.Method, requestTarget(msg), msg.ProtoMajor, msg.ProtoMinor)

	xffName := svc.ForwardedForHeader()
	for _, h := range msg.Headers {
		if strings.EqualFold(h.Name, xffName) {
			continue
		}
		fmt.Fprintf(&b, "%s: %s\r\n", h.Name, h.Value)
	}
	if v := forwardedForValue(msg, svc, xffName, peerIP); v != "" {
		fmt.Fprintf(&b, "%s: %s\r\n", xffName, v)
	}
	for _, h := range sslHeaders(peerCert) {
		fmt.Fprintf(&b, "%s: %s\r\n", h.Name, h.Value)
	}

	b.WriteString("\r\n")
	_, err := io.WriteString(w, b.String())
	return err
}

// copyRequestBody relays the request body the client sent after its headers,
// once writeRequest has already put the (rewritten) request line and headers
// on the wire: a declared Content-Length is copied byte-for-byte, a chunked
// body is relayed chunk-by-chunk, and a bodyless request (HEAD, GET with
// neither header) is a no-op.
func copyRequestBody(w io.Writer, lr *request.LineReader, msg *request.Message) error {
	switch {
	case msg.Chunked:
		return copyChunkedBody(w, lr)
	case msg.ContentLength > 0:
		_, err := io.CopyN(w, lr.BodyReader(), msg.ContentLength)
		return err
	}
	return nil
}

// copyChunkedBody relays a chunked request body one chunk at a time: the
// size line, the chunk's raw bytes, and its trailing CRLF, stopping after the
// zero-size terminal chunk and any trailer headers up to the final blank
// line. Reading through lr rather than nc directly keeps the connection's
// byte position in sync with whatever bytes the line reader already buffered
// while reading the request's header block.
func copyChunkedBody(w io.Writer, lr *request.LineReader) error {
	for {
		sizeLine, err := lr.ReadLine()
		if err != nil {
			return err
		}
		if _, err := io.WriteString(w, sizeLine+"\r\n"); err != nil {
			return err
		}

		sizeHex := strings.SplitN(sizeLine, ";", 2)[0]
		n, err := strconv.ParseInt(strings.TrimSpace(sizeHex), 16, 64)
		if err != nil {
			return ErrorChunkSizeInvalid.Error(err)
		}

		if n == 0 {
			for {
				line, err := lr.ReadLine()
				if err != nil {
					return err
				}
				if _, err := io.WriteString(w, line+"\r\n"); err != nil {
					return err
				}
				if line == "" {
					return nil
				}
			}
		}

		if _, err := io.CopyN(w, lr.BodyReader(), n); err != nil {
			return err
		}
		crlf, err := lr.ReadLine()
		if err != nil {
			return err
		}
		if _, err := io.WriteString(w, crlf+"\r\n"); err != nil {
			return err
		}
	}
}

// forwardedForValue computes the value to send for header. A pre-existing
// value from the client is kept and extended only when peerIP is in the
// service's trusted-proxy ACL; otherwise it is replaced outright so an
// untrusted client cannot spoof the chain.
func forwardedForValue(msg *request.Message, svc service.Service, header string, peerIP net.IP) string {
	ip := ""
	if peerIP != nil {
		ip = peerIP.String()
	}
	if existing, ok := msg.Header(header); ok && existing != "" && svc.IsTrustedIP(peerIP) {
		if ip == "" {
			return existing
		}
		return existing + ", " + ip
	}
	return ip
}

// sslHeaders describes the verified client certificate (when the listener's
// clnt_check mode requested one and the peer presented it) the way pound's
// X-SSL-* headers do: cipher, subject DN, issuer DN, validity bounds, serial
// number, and the certificate itself PEM-encoded.
func sslHeaders(cs *tls.ConnectionState) []request.HeaderLine {
	if cs == nil || len(cs.PeerCertificates) == 0 {
		return nil
	}
	crt := cs.PeerCertificates[0]
	pemBlock := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: crt.Raw})
	pemOneLine := strings.ReplaceAll(strings.TrimSpace(string(pemBlock)), "\n", " ")

	return []request.HeaderLine{
		{Name: "X-SSL-cipher", Value: tls.CipherSuiteName(cs.CipherSuite)},
		{Name: "X-SSL-client-DN", Value: crt.Subject.String()},
		{Name: "X-SSL-issuer", Value: crt.Issuer.String()},
		{Name: "X-SSL-notbefore", Value: crt.NotBefore.UTC().Format(time.RFC3339)},
		{Name: "X-SSL-notafter", Value: crt.NotAfter.UTC().Format(time.RFC3339)},
		{Name: "X-SSL-serial", Value: crt.SerialNumber.String()},
		{Name: "X-SSL-certificate", Value: pemOneLine},
	}
}

// peerConnectionState extracts the TLS connection state from nc when the
// listener terminated TLS over it, nil for plaintext listeners. Used after
// the handshake completes to read the client certificate the handshake
// already verified per the listener's ClientAuth/ClientCAs configuration;
// no certificate verification happens here.
func peerConnectionState(nc net.Conn) *tls.ConnectionState {
	type tlsStater interface {
		ConnectionState() tls.ConnectionState
	}
	if tc, ok := nc.(tlsStater); ok {
		cs := tc.ConnectionState()
		return &cs
	}
	return nil
}

func requestTarget(msg *request.Message) string {
	if msg.URL.RawQuery == "" {
		return msg.URL.Path
	}
	return msg.URL.Path + "?" + msg.URL.RawQuery
}

// streamResponse reads the backend's response, skipping interim 1xx
// responses (other than 101, which only arrives when the client itself
// asked to upgrade) until the final status line, then either switches to a
// raw bidirectional tunnel or relays the response through the response
// rewrite pipeline. Reports whether the client connection may be reused.
func (d *driver) streamResponse(ctx context.Context, bc, nc net.Conn, info listener.Info, svc service.Service, mreq *matcher.Request, scope *matcher.Scope, wantsUpgrade bool) bool {
	br := request.NewLineReader(bc, 1<<20)

	for {
		statusLine, status, err := readStatusLine(br)
		if err != nil {
			return false
		}

		headers, herr := readResponseHeaders(br)
		if herr != nil {
			return false
		}

		if status >= 100 && status < 200 {
			if status == 101 && wantsUpgrade {
				if err := writeStatusAndHeaders(nc, statusLine, headers); err != nil {
					return false
				}
				return d.tunnel(ctx, nc, bc)
			}
			// Other interim responses (102 Processing, 103 Early Hints, ...)
			// are not meaningful to this proxy's own HTTP/1.1 client
			// handling; drain them and wait for the final response.
			continue
		}

		isKnownBackend := func(hostport string) bool {
			return backendKnown(svc, hostport)
		}
		rewriteResponseHeaders(svc, mreq, scope, info.IsTLS(), mreq.Host, isKnownBackend, &headers)

		if err := writeStatusAndHeaders(nc, statusLine, headers); err != nil {
			return false
		}

		return relayBody(bc, nc, headers)
	}
}

// relayBody copies the response body per the framing headers declared:
// chunked is copied verbatim to EOF, a declared Content-Length is copied for
// exactly that many bytes, and the keep-alive verdict comes from the
// response's own Connection header. A response with neither — HTTP/1.0-style
// close-delimited framing — has no length the client can rely on either, so
// the body is drained to EOF same as chunked, and the client connection is
// forced closed afterward regardless of any Connection header, since nothing
// marks where a second response would begin.
func relayBody(bc, nc net.Conn, headers []request.HeaderLine) bool {
	keepAlive := true
	var contentLength int64 = -1
	chunked := false
	sawContentLength := false

	for _, h := range headers {
		switch strings.ToLower(h.Name) {
		case "connection":
			if strings.Contains(strings.ToLower(h.Value), "close") {
				keepAlive = false
			}
		case "content-length":
			if n, err := strconv.ParseInt(strings.TrimSpace(h.Value), 10, 64); err == nil {
				contentLength = n
				sawContentLength = true
			}
		case "transfer-encoding":
			if strings.Contains(strings.ToLower(h.Value), "chunked") {
				chunked = true
			}
		}
	}

	switch {
	case chunked:
		_, _ = io.Copy(nc, bc)
	case contentLength > 0:
		_, _ = io.CopyN(nc, bc, contentLength)
	case !sawContentLength:
		_, _ = io.Copy(nc, bc)
		keepAlive = false
	}

	return keepAlive
}

func readStatusLine(br *request.LineReader) (string, int, error) {
	line, err := br.ReadLine()
	if err != nil {
		return "", 0, err
	}
	fields := strings.SplitN(line, " ", 3)
	if len(fields) < 2 {
		return line, 0, nil
	}
	status, _ := strconv.Atoi(strings.TrimSpace(fields[1]))
	return line, status, nil
}

func readResponseHeaders(br *request.LineReader) ([]request.HeaderLine, error) {
	var hdrs []request.HeaderLine
	for {
		line, err := br.ReadLine()
		if err != nil {
			return nil, err
		}
		if line == "" {
			return hdrs, nil
		}
		if h, herr := request.ParseHeaderLine(line); herr == nil {
			hdrs = append(hdrs, h)
		}
	}
}

// rewriteResponseHeaders runs the service's response-rewrite pipeline, then
// rewrites Location/Content-Location so a redirect naming one of the
// service's own backends keeps pointing at this proxy rather than leaking
// the backend's address to the client.
func rewriteResponseHeaders(svc service.Service, mreq *matcher.Request, scope *matcher.Scope, useTLS bool, host string, isKnownBackend func(string) bool, headers *[]request.HeaderLine) {
	resp := rewrite.Request{Headers: toMatcherHeaders(*headers)}
	_ = svc.RewriteResponse(mreq, &resp, scope)

	for i := range resp.Headers {
		name := resp.Headers[i].Name
		if !strings.EqualFold(name, "Location") && !strings.EqualFold(name, "Content-Location") {
			continue
		}
		if rewritten, ok := rewrite.RewriteLocation(resp.Headers[i].Value, host, useTLS, isKnownBackend); ok {
			resp.Headers[i].Value = rewritten
		}
	}

	out := make([]request.HeaderLine, 0, len(resp.Headers))
	for _, h := range resp.Headers {
		out = append(out, request.HeaderLine{Name: h.Name, Value: h.Value})
	}
	*headers = out
}

func toMatcherHeaders(hdrs []request.HeaderLine) []matcher.Header {
	out := make([]matcher.Header, 0, len(hdrs))
	for _, h := range hdrs {
		out = append(out, matcher.Header{Name: h.Name, Value: h.Value})
	}
	return out
}

func backendKnown(svc service.Service, hostport string) bool {
	for _, list := range []balancer.List{svc.Normal(), svc.Emergency()} {
		if list == nil {
			continue
		}
		for _, be := range list.Backends() {
			if be.Address() == hostport {
				return true
			}
		}
	}
	return false
}

func writeStatusAndHeaders(nc net.Conn, statusLine string, headers []request.HeaderLine) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\r\n", statusLine)
	for _, h := range headers {
		fmt.Fprintf(&b, "%s: %s\r\n", h.Name, h.Value)
	}
	b.WriteString("\r\n")
	_, err := io.WriteString(nc, b.String())
	return err
}

func deadline(d time.Duration) time.Time {
	return time.Now().Add(d)
}

func isUpgrade(msg *request.Message) bool {
	v, ok := msg.Header("Upgrade")
	return ok && v != ""
}

func peerAddrIP(a net.Addr) net.IP {
	if tcp, ok := a.(*net.TCPAddr); ok {
		return tcp.IP
	}
	host, _, err := net.SplitHostPort(a.String())
	if err != nil {
		return nil
	}
	return net.ParseIP(host)
}
