/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
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

package certificates

import (
	"crypto/tls"
	"io"

	tlsaut "github.com/nabbar/poundlb/certificates/auth"
	tlscas "github.com/nabbar/poundlb/certificates/ca"
	tlscrt "github.com/nabbar/poundlb/certificates/certs"
	tlscpr "github.com/nabbar/poundlb/certificates/cipher"
	tlscrv "github.com/nabbar/poundlb/certificates/curves"
	tlsvrs "github.com/nabbar/poundlb/certificates/tlsversion"
)

// config is the concrete TLSConfig. Its fields hold the parsed wrapper types
// (tlscrt.Cert, tlscas.Cert, ...) rather than raw stdlib types, each
// individual concern (root CA, client CA, cert pairs, curves) implemented in
// its own file; this file carries version/cipher/randomness settings plus
// the pieces that read across all of them: TlsConfig, Clone, Config.
type config struct {
	rand                  io.Reader
	cert                  []tlscrt.Cert
	cipherList            []tlscpr.Cipher
	curveList             []tlscrv.Curves
	caRoot                []tlscas.Cert
	clientAuth            tlsaut.ClientAuth
	clientCA              []tlscas.Cert
	tlsMinVersion         tlsvrs.Version
	tlsMaxVersion         tlsvrs.Version
	dynSizingDisabled     bool
	ticketSessionDisabled bool
}

func (c *config) RegisterRand(rand io.Reader) {
	c.rand = rand
}

func (c *config) SetVersionMin(v tlsvrs.Version) {
	c.tlsMinVersion = v
}

func (c *config) GetVersionMin() tlsvrs.Version {
	return c.tlsMinVersion
}

func (c *config) SetVersionMax(v tlsvrs.Version) {
	c.tlsMaxVersion = v
}

func (c *config) GetVersionMax() tlsvrs.Version {
	return c.tlsMaxVersion
}

func (c *config) SetCipherList(ciph []tlscpr.Cipher) {
	c.cipherList = make([]tlscpr.Cipher, 0)
	c.AddCiphers(ciph...)
}

func (c *config) AddCiphers(ciph ...tlscpr.Cipher) {
	c.cipherList = append(c.cipherList, ciph...)
}

func (c *config) GetCiphers() []tlscpr.Cipher {
	res := make([]tlscpr.Cipher, 0)

	for _, i := range c.cipherList {
		if tlscpr.Check(i.Uint16()) {
			res = append(res, i)
		}
	}

	return res
}

func (c *config) SetDynamicSizingDisabled(flag bool) {
	c.dynSizingDisabled = flag
}

func (c *config) SetSessionTicketDisabled(flag bool) {
	c.ticketSessionDisabled = flag
}

// TlsConfig builds a *tls.Config from the current settings. ClientAuth and
// ClientCAs are only set when a client-auth mode beyond NoClientCert was
// requested, leaving the standard library's handshake to enforce
// verification once they are present.
func (c *config) TlsConfig(serverName string) *tls.Config {
	/* #nosec */
	cnf := &tls.Config{
		InsecureSkipVerify: false,
		Rand:               c.rand,
	}

	if serverName != "" {
		cnf.ServerName = serverName
	}

	if c.ticketSessionDisabled {
		cnf.SessionTicketsDisabled = true
	}

	if c.dynSizingDisabled {
		cnf.DynamicRecordSizingDisabled = true
	}

	if c.tlsMinVersion != tlsvrs.VersionUnknown {
		cnf.MinVersion = c.tlsMinVersion.TLS()
	}

	if c.tlsMaxVersion != tlsvrs.VersionUnknown {
		cnf.MaxVersion = c.tlsMaxVersion.TLS()
	}

	if len(c.cipherList) > 0 {
		cnf.PreferServerCipherSuites = true
		cs := make([]uint16, 0, len(c.cipherList))
		for _, ci := range c.cipherList {
			cs = append(cs, ci.Uint16())
		}
		cnf.CipherSuites = cs
	}

	if len(c.curveList) > 0 {
		cv := make([]tls.CurveID, 0, len(c.curveList))
		for _, cu := range c.curveList {
			cv = append(cv, tls.CurveID(cu.Uint16()))
		}
		cnf.CurvePreferences = cv
	}

	if len(c.caRoot) > 0 {
		cnf.RootCAs = c.GetRootCAPool()
	}

	if len(c.cert) > 0 {
		cnf.Certificates = c.GetCertificatePair()
	}

	if c.clientAuth != tlsaut.NoClientCert {
		cnf.ClientAuth = tls.ClientAuthType(c.clientAuth)
		if len(c.clientCA) > 0 {
			cnf.ClientCAs = c.GetClientCAPool()
		}
	}

	return cnf
}

// TLS is an alias of TlsConfig kept for the TLSConfig interface's two
// historical entry points.
func (c *config) TLS(serverName string) *tls.Config {
	return c.TlsConfig(serverName)
}

func (c *config) Clone() TLSConfig {
	return &config{
		rand:                  c.rand,
		cert:                  append(make([]tlscrt.Cert, 0), c.cert...),
		cipherList:            append(make([]tlscpr.Cipher, 0), c.cipherList...),
		curveList:             append(make([]tlscrv.Curves, 0), c.curveList...),
		caRoot:                append(make([]tlscas.Cert, 0), c.caRoot...),
		clientAuth:            c.clientAuth,
		clientCA:              append(make([]tlscas.Cert, 0), c.clientCA...),
		tlsMinVersion:         c.tlsMinVersion,
		tlsMaxVersion:         c.tlsMaxVersion,
		dynSizingDisabled:     c.dynSizingDisabled,
		ticketSessionDisabled: c.ticketSessionDisabled,
	}
}

func (c *config) certifList() []tlscrt.Certif {
	res := make([]tlscrt.Certif, 0, len(c.cert))
	for _, crt := range c.cert {
		res = append(res, crt.Model())
	}
	return res
}

func (c *config) Config() *Config {
	return &Config{
		CurveList:            append(make([]tlscrv.Curves, 0), c.curveList...),
		CipherList:           append(make([]tlscpr.Cipher, 0), c.cipherList...),
		RootCA:               append(make([]tlscas.Cert, 0), c.caRoot...),
		ClientCA:             append(make([]tlscas.Cert, 0), c.clientCA...),
		Certs:                c.certifList(),
		VersionMin:           c.tlsMinVersion,
		VersionMax:           c.tlsMaxVersion,
		AuthClient:           c.clientAuth,
		DynamicSizingDisable: c.dynSizingDisabled,
		SessionTicketDisable: c.ticketSessionDisabled,
	}
}

func asStruct(cfg TLSConfig) *config {
	if c, ok := cfg.(*config); ok {
		return c
	}

	return nil
}
