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

package listener

import (
	"context"
	"crypto/tls"
	"net"
	"path"
	"strings"

	"github.com/nabbar/poundlb/proxy/rewrite"
	"github.com/nabbar/poundlb/proxy/service"
)

type listener struct {
	cfg       Config
	drv       Driver
	tlsConfig *tls.Config
}

func (l *listener) Name() string { return l.cfg.Name }

func (l *listener) MaxRequestBytes() int64 { return l.cfg.MaxRequestBytes }

func (l *listener) URLAllowed(url string) bool {
	if len(l.cfg.URLAllow) == 0 {
		return true
	}
	for _, re := range l.cfg.URLAllow {
		if re.MatchString(url) {
			return true
		}
	}
	return false
}

func (l *listener) Services() []service.Service { return l.cfg.Services }

func (l *listener) Rewrite() []*rewrite.Rule { return l.cfg.Rewrite }

func (l *listener) ResponseRewrite() []*rewrite.Rule { return l.cfg.ResponseRewrite }

func (l *listener) IsTLS() bool { return l.cfg.UseTLS }

func (l *listener) ErrorBody(status int) (ErrorBody, bool) {
	b, ok := l.cfg.ErrorBodies[status]
	return b, ok
}

// Handle terminates TLS (if configured) then hands the connection to the
// Driver. SNI selection happens inside getCertificate, invoked by the
// standard library's TLS handshake itself.
func (l *listener) Handle(ctx context.Context, conn net.Conn) {
	if l.tlsConfig != nil {
		conn = tls.Server(conn, l.tlsConfig)
	}
	l.drv.Serve(ctx, conn, l)
}

// getConfigForClient picks the CertContext whose ServerNames glob-match the
// handshake's SNI name, first match wins; falls back to the first
// configured context (the "default vhost") when nothing matches or SNI is
// absent, mirroring the server-name-then-default selection order. The
// returned *tls.Config is the CertContext's own — built by
// certificates.TLSConfig.TLS, which already carries ClientAuth/ClientCAs
// when the clnt_check mode requires client verification.
func (l *listener) getConfigForClient(hello *tls.ClientHelloInfo) (*tls.Config, error) {
	cc := l.selectCertContext(hello.ServerName)
	cfg := cc.TLS.TLS(hello.ServerName)
	if cfg.GetCertificate == nil && len(cfg.Certificates) == 0 {
		return nil, ErrorNoCertContext.Error(nil)
	}
	return cfg, nil
}

func (l *listener) selectCertContext(serverName string) CertContext {
	serverName = strings.ToLower(serverName)
	for _, cc := range l.cfg.Certs {
		for _, pattern := range cc.ServerNames {
			if matchServerName(strings.ToLower(pattern), serverName) {
				return cc
			}
		}
	}
	return l.cfg.Certs[0]
}

func matchServerName(pattern, name string) bool {
	if pattern == name {
		return true
	}
	ok, err := path.Match(pattern, name)
	return err == nil && ok
}
