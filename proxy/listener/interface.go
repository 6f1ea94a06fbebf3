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

// Package listener binds TLS contexts, service attachment order, request
// size/URL limits and per-status error bodies to a single front-end address,
// and dispatches each accepted connection to a Driver.
package listener

import (
	"context"
	"crypto/tls"
	"net"
	"regexp"
	"time"

	"github.com/nabbar/poundlb/certificates"
	"github.com/nabbar/poundlb/proxy/rewrite"
	"github.com/nabbar/poundlb/proxy/service"
)

// CertContext binds a named TLS configuration to the server-name / SAN glob
// patterns it should be selected for during the SNI handshake.
type CertContext struct {
	ServerNames []string
	TLS         certificates.TLSConfig
}

// ErrorBody overrides the response body served for a given status code
// produced internally by the listener or by a BackendKind.ERROR backend.
type ErrorBody struct {
	Status      int
	ContentType string
	Body        []byte
}

// Config describes one front-end listening address.
type Config struct {
	Name    string
	Address string

	UseTLS bool
	Certs  []CertContext

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	MaxRequestBytes int64
	URLAllow        []*regexp.Regexp

	Services        []service.Service
	Rewrite         []*rewrite.Rule
	ResponseRewrite []*rewrite.Rule

	ErrorBodies map[int]ErrorBody
}

// Driver drives a single accepted, already-TLS-terminated connection end to
// end against the owning listener's attached services.
type Driver interface {
	Serve(ctx context.Context, conn net.Conn, l Info)
}

// Info is the read-only view of a listener a Driver needs: service lookup in
// attachment order, request limits, and error-body overrides.
type Info interface {
	Name() string
	MaxRequestBytes() int64
	URLAllowed(url string) bool
	Services() []service.Service
	Rewrite() []*rewrite.Rule
	ResponseRewrite() []*rewrite.Rule
	ErrorBody(status int) (ErrorBody, bool)

	// IsTLS reports whether the listener terminates TLS, used to decide the
	// scheme a rewritten Location/Content-Location header should carry.
	IsTLS() bool
}

// Listener is what proxy/acceptor.Listener requires: a name and a per-
// connection handler. TLS handshake (when UseTLS) happens here, then the
// plaintext (or now-decrypted) conn is handed to the Driver.
type Listener interface {
	Info
	Handle(ctx context.Context, conn net.Conn)
}

// New builds a Listener from Config and a Driver. If cfg.UseTLS, a
// *tls.Config is synthesized with GetConfigForClient doing SNI-based
// selection over cfg.Certs (first matching glob wins, first entry is the
// default) and returning that context's whole per-SNI *tls.Config —
// including any ClientAuth/ClientCAs the clnt_check mode set, so the
// standard library's handshake itself enforces client-certificate
// verification; no manual verification is performed here.
func New(cfg Config, drv Driver) (Listener, error) {
	l := &listener{cfg: cfg, drv: drv}
	if cfg.UseTLS {
		if len(cfg.Certs) == 0 {
			return nil, ErrorNoCertContext.Error(nil)
		}
		l.tlsConfig = &tls.Config{
			GetConfigForClient: l.getConfigForClient,
		}
	}
	return l, nil
}
