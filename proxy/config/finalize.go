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

package config

import (
	"net"
	"regexp"
	"strings"
	"time"

	tlsaut "github.com/nabbar/poundlb/certificates/auth"

	"github.com/nabbar/poundlb/certificates"
	"github.com/nabbar/poundlb/proxy/backend"
	"github.com/nabbar/poundlb/proxy/balancer"
	"github.com/nabbar/poundlb/proxy/listener"
	"github.com/nabbar/poundlb/proxy/service"
	"github.com/nabbar/poundlb/proxy/types"
	"github.com/nabbar/poundlb/proxy/worker"
)

// Listener is one finalized, ready-to-bind front end: the runtime
// listener.Listener plus the worker pool sizing cmd/poundlb binds a
// net.Listener and proxy/acceptor around.
type Listener struct {
	Name    string
	Address string
	UseTLS  bool
	Runtime listener.Listener
	Worker  worker.Config
}

func balanceAlgo(s string) (types.BalanceAlgo, error) {
	switch strings.ToUpper(s) {
	case "", "RANDOM":
		return types.BalanceRandom, nil
	case "IWRR":
		return types.BalanceIWRR, nil
	default:
		return 0, ErrorUnknownBalanceAlgo.Error(nil)
	}
}

func sessionType(s string) (types.SessionType, error) {
	switch strings.ToUpper(s) {
	case "", "NONE":
		return types.SessionNone, nil
	case "IP":
		return types.SessionIP, nil
	case "COOKIE":
		return types.SessionCookie, nil
	case "URL":
		return types.SessionURL, nil
	case "PARAM":
		return types.SessionParam, nil
	case "BASIC":
		return types.SessionBasic, nil
	case "HEADER":
		return types.SessionHeader, nil
	default:
		return 0, ErrorUnknownSessionType.Error(nil)
	}
}

func addressFamily(s string) (types.AddressFamily, error) {
	switch strings.ToUpper(s) {
	case "", "ANY":
		return types.FamilyAny, nil
	case "IPV4":
		return types.FamilyIPv4, nil
	case "IPV6":
		return types.FamilyIPv6, nil
	default:
		return 0, ErrorUnknownFamily.Error(nil)
	}
}

func resolveMode(s string) (types.ResolveMode, error) {
	switch strings.ToUpper(s) {
	case "", "IMMEDIATE":
		return types.ResolveImmediate, nil
	case "FIRST":
		return types.ResolveFirst, nil
	case "ALL":
		return types.ResolveAll, nil
	case "SRV":
		return types.ResolveSRV, nil
	default:
		return 0, ErrorUnknownResolveMode.Error(nil)
	}
}

// clientAuthMode maps the four named clnt_check modes onto the certificates
// package's ClientAuth wrapper. Deliberately stricter than
// certificates/auth.Parse's loose substring matching: the proxy's own config
// field names exactly these four values, nothing else.
func clientAuthMode(s string) (tlsaut.ClientAuth, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return tlsaut.NoClientCert, nil
	case "optional":
		return tlsaut.VerifyClientCertIfGiven, nil
	case "required":
		return tlsaut.RequireAndVerifyClientCert, nil
	case "requested":
		return tlsaut.RequestClientCert, nil
	default:
		return 0, ErrorUnknownClientAuth.Error(nil)
	}
}

// parseTrustedIPs turns a service's trusted_ips entries (bare IPs or CIDRs)
// into the *net.IPNet set IsTrustedIP matches the forwarding peer against.
func parseTrustedIPs(entries []string) []*net.IPNet {
	out := make([]*net.IPNet, 0, len(entries))
	for _, e := range entries {
		if _, n, err := net.ParseCIDR(e); err == nil {
			out = append(out, n)
			continue
		}
		ip := net.ParseIP(e)
		if ip == nil {
			continue
		}
		bits := 32
		if ip.To4() == nil {
			bits = 128
		}
		out = append(out, &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)})
	}
	return out
}

func backendKind(s string) (types.BackendKind, error) {
	switch strings.ToUpper(s) {
	case "REGULAR":
		return types.BackendRegular, nil
	case "MATRIX":
		return types.BackendMatrix, nil
	case "BACKEND_REF":
		return types.BackendRef, nil
	case "REDIRECT":
		return types.BackendRedirect, nil
	case "ACME":
		return types.BackendACME, nil
	case "ERROR":
		return types.BackendError, nil
	case "CONTROL":
		return types.BackendControl, nil
	case "METRICS":
		return types.BackendMetrics, nil
	default:
		return 0, ErrorUnknownBackendKind.Error(nil)
	}
}

// buildBackend builds one Backend from spec under serviceName. BACKEND_REF
// entries are resolved against templates here, per spec.md §3's "resolved
// at configuration-finalize time" — the reference's own priority/disabled
// flags win over the template's, since those describe this backend's
// membership in this particular list, not the template itself.
func buildBackend(spec BackendSpec, serviceName string, templates map[string]BackendSpec) (backend.Backend, error) {
	kind, err := backendKind(spec.Kind)
	if err != nil {
		return nil, err
	}

	if kind == types.BackendRef {
		tmpl, ok := templates[spec.Ref]
		if !ok {
			return nil, ErrorUnresolvedBackendRef.Error(nil)
		}
		if strings.EqualFold(tmpl.Kind, "BACKEND_REF") {
			return nil, ErrorUnresolvedBackendRef.Error(nil)
		}
		resolved := tmpl
		resolved.ID = spec.ID
		resolved.Priority = spec.Priority
		resolved.Disabled = spec.Disabled
		return buildBackend(resolved, serviceName, templates)
	}

	switch kind {
	case types.BackendRegular:
		clientTLS, err := buildClientTLS(spec.ClientTLS)
		if err != nil {
			return nil, err
		}
		b := backend.NewRegular(spec.ID, serviceName, spec.Priority, backend.RegularSpec{
			Address:        spec.Address,
			ConnectTimeout: spec.ConnectTimeout,
			ReadTimeout:    spec.ReadTimeout,
			ServerName:     spec.ServerName,
			ClientTLS:      clientTLS,
		})
		b.SetDisabled(spec.Disabled)
		return b, nil

	case types.BackendMatrix:
		family, err := addressFamily(spec.Family)
		if err != nil {
			return nil, err
		}
		mode, err := resolveMode(spec.ResolveMode)
		if err != nil {
			return nil, err
		}
		b := backend.NewMatrix(spec.ID, serviceName, spec.Priority, backend.Matrix{
			Host:          spec.Host,
			Port:          spec.Port,
			Family:        family,
			Mode:          mode,
			RetryInterval: spec.RetryInterval,
		})
		b.SetDisabled(spec.Disabled)
		return b, nil

	case types.BackendRedirect:
		b := backend.NewRedirect(spec.ID, serviceName, spec.Priority, backend.Redirect{
			Status:   spec.RedirectStatus,
			Template: spec.RedirectTemplate,
			HasURI:   spec.RedirectHasURI,
		})
		b.SetDisabled(spec.Disabled)
		return b, nil

	case types.BackendACME:
		b := backend.NewACME(spec.ID, serviceName, spec.Priority, backend.ACME{Dir: spec.ACMEDir})
		b.SetDisabled(spec.Disabled)
		return b, nil

	case types.BackendError:
		b := backend.NewErrorStatic(spec.ID, serviceName, spec.Priority, backend.ErrStatic{
			Status: spec.ErrorStatus,
			Body:   []byte(spec.ErrorBody),
		})
		b.SetDisabled(spec.Disabled)
		return b, nil

	case types.BackendControl:
		b := backend.New(spec.ID, serviceName, types.BackendControl, spec.Priority)
		b.SetDisabled(spec.Disabled)
		return b, nil

	case types.BackendMetrics:
		b := backend.New(spec.ID, serviceName, types.BackendMetrics, spec.Priority)
		b.SetDisabled(spec.Disabled)
		return b, nil
	}

	return nil, ErrorUnknownBackendKind.Error(nil)
}

func buildBalancerList(specs []BackendSpec, serviceName string, algo types.BalanceAlgo, templates map[string]BackendSpec) (balancer.List, error) {
	if len(specs) == 0 {
		return nil, nil
	}
	list := balancer.New(algo)
	for _, s := range specs {
		b, err := buildBackend(s, serviceName, templates)
		if err != nil {
			return nil, err
		}
		list.Add(b)
	}
	list.Rebuild()
	return list, nil
}

func buildService(spec ServiceSpec, templates map[string]BackendSpec) (service.Service, error) {
	cond, err := buildCondition(spec.Condition)
	if err != nil {
		return nil, err
	}
	rules, err := buildRewriteRules(spec.Rewrite)
	if err != nil {
		return nil, err
	}
	respRules, err := buildRewriteRules(spec.ResponseRewrite)
	if err != nil {
		return nil, err
	}
	algo, err := balanceAlgo(spec.BalanceAlgo)
	if err != nil {
		return nil, err
	}
	normal, err := buildBalancerList(spec.Normal, spec.Name, algo, templates)
	if err != nil {
		return nil, err
	}
	emergency, err := buildBalancerList(spec.Emergency, spec.Name, algo, templates)
	if err != nil {
		return nil, err
	}
	sessType, err := sessionType(spec.Session.Type)
	if err != nil {
		return nil, err
	}

	return service.New(spec.Name, cond, rules, normal, emergency, service.SessionConfig{
		Type: sessType,
		Name: spec.Session.Name,
		TTL:  spec.Session.TTL,
	}, spec.SuppressLogClasses,
		service.WithResponseRewrite(respRules),
		service.WithForwardedFor(spec.ForwardedForHeader, parseTrustedIPs(spec.TrustedIPs)),
	), nil
}

// buildCertContext also wires the listener-side clnt_check mode: setting
// SetClientAuth/AddClientCAFile here is enough, since certificates.TLSConfig
// already folds ClientAuth/ClientCAs into the *tls.Config its TLS method
// returns, and proxy/listener now serves that whole config per-SNI via
// GetConfigForClient — crypto/tls's own handshake does the verification.
func buildCertContext(spec CertSpec) (listener.CertContext, error) {
	tc := certificates.New()
	if err := tc.AddCertificatePairFile(spec.KeyFile, spec.CertFile); err != nil {
		return listener.CertContext{}, ErrorLoadTLSCert.Error(err)
	}
	for _, ca := range spec.RootCAFiles {
		if err := tc.AddRootCAFile(ca); err != nil {
			return listener.CertContext{}, ErrorLoadTLSCert.Error(err)
		}
	}

	mode, err := clientAuthMode(spec.ClientAuth)
	if err != nil {
		return listener.CertContext{}, err
	}
	tc.SetClientAuth(mode)
	for _, ca := range spec.ClientCAFiles {
		if err := tc.AddClientCAFile(ca); err != nil {
			return listener.CertContext{}, ErrorLoadClientCA.Error(err)
		}
	}

	return listener.CertContext{ServerNames: spec.ServerNames, TLS: tc}, nil
}

func buildErrorBodies(specs []ErrorBodySpec) map[int]listener.ErrorBody {
	if len(specs) == 0 {
		return nil
	}
	out := make(map[int]listener.ErrorBody, len(specs))
	for _, s := range specs {
		out[s.Status] = listener.ErrorBody{
			Status:      s.Status,
			ContentType: s.ContentType,
			Body:        []byte(s.Body),
		}
	}
	return out
}

func compileGlobList(patterns []string) ([]*regexp.Regexp, error) {
	if len(patterns) == 0 {
		return nil, nil
	}
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, ErrorInvalidURLAllow.Error(err)
		}
		out = append(out, re)
	}
	return out, nil
}

func workerConfig(spec WorkerSpec) worker.Config {
	return worker.Config{
		Min:         spec.Min,
		Max:         spec.Max,
		QueueDepth:  spec.QueueDepth,
		IdleTimeout: spec.IdleTimeout,
	}
}

func defaultIdleTimeout(d time.Duration) time.Duration {
	if d <= 0 {
		return 60 * time.Second
	}
	return d
}

// Finalize builds the runtime listener set from a decoded Tree, resolving
// every BACKEND_REF against tree.Templates and compiling every regex/URL
// pattern once up front. drv drives each accepted, TLS-terminated connection
// (proxy/conn.New's Driver, normally).
func Finalize(tree *Tree, drv listener.Driver) ([]Listener, error) {
	if len(tree.Listeners) == 0 {
		return nil, ErrorNoListeners.Error(nil)
	}

	out := make([]Listener, 0, len(tree.Listeners))

	for _, ls := range tree.Listeners {
		svcs := make([]service.Service, 0, len(ls.Services))
		for _, ss := range ls.Services {
			svc, err := buildService(ss, tree.Templates)
			if err != nil {
				return nil, err
			}
			svcs = append(svcs, svc)
		}

		rules, err := buildRewriteRules(ls.Rewrite)
		if err != nil {
			return nil, err
		}

		respRules, err := buildRewriteRules(ls.ResponseRewrite)
		if err != nil {
			return nil, err
		}

		urlAllow, err := compileGlobList(ls.URLAllow)
		if err != nil {
			return nil, err
		}

		cfg := listener.Config{
			Name:    ls.Name,
			Address: ls.Address,

			UseTLS: ls.UseTLS,

			ReadTimeout:  ls.ReadTimeout,
			WriteTimeout: ls.WriteTimeout,
			IdleTimeout:  defaultIdleTimeout(ls.IdleTimeout),

			MaxRequestBytes: ls.MaxRequestBytes,
			URLAllow:        urlAllow,

			Services:        svcs,
			Rewrite:         rules,
			ResponseRewrite: respRules,

			ErrorBodies: buildErrorBodies(ls.Errors),
		}

		if ls.UseTLS {
			certs := make([]listener.CertContext, 0, len(ls.Certs))
			for _, cs := range ls.Certs {
				cc, err := buildCertContext(cs)
				if err != nil {
					return nil, err
				}
				certs = append(certs, cc)
			}
			cfg.Certs = certs
		}

		ln, err := listener.New(cfg, drv)
		if err != nil {
			return nil, err
		}

		out = append(out, Listener{
			Name:    ls.Name,
			Address: ls.Address,
			UseTLS:  ls.UseTLS,
			Runtime: ln,
			Worker:  workerConfig(ls.Worker),
		})
	}

	return out, nil
}
