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

package resolver

import (
	"context"
	"net"

	"github.com/miekg/dns"

	"github.com/nabbar/poundlb/proxy/types"
)

// miekgQuerier is the default Querier, issuing A/AAAA/SRV queries against a
// configured set of resolver addresses via github.com/miekg/dns.
type miekgQuerier struct {
	client  *dns.Client
	servers []string
}

// NewSystemQuerier builds a Querier from /etc/resolv.conf.
func NewSystemQuerier() (Querier, error) {
	cfg, err := dns.ClientConfigFromFile("/etc/resolv.conf")
	if err != nil {
		return nil, ErrorQueryFailed.Error(err)
	}
	servers := make([]string, 0, len(cfg.Servers))
	for _, s := range cfg.Servers {
		servers = append(servers, net.JoinHostPort(s, cfg.Port))
	}
	return NewQuerier(servers), nil
}

// NewQuerier builds a Querier against an explicit list of "host:port"
// resolver addresses.
func NewQuerier(servers []string) Querier {
	return &miekgQuerier{client: new(dns.Client), servers: servers}
}

func (q *miekgQuerier) LookupHost(ctx context.Context, family types.AddressFamily, host string) ([]net.IP, error) {
	var ips []net.IP

	if family != types.FamilyIPv6 {
		a, err := q.query(ctx, host, dns.TypeA)
		if err != nil {
			return nil, err
		}
		for _, rr := range a {
			if rec, ok := rr.(*dns.A); ok {
				ips = append(ips, rec.A)
			}
		}
	}

	if family != types.FamilyIPv4 {
		aaaa, err := q.query(ctx, host, dns.TypeAAAA)
		if err != nil && len(ips) == 0 {
			return nil, err
		}
		for _, rr := range aaaa {
			if rec, ok := rr.(*dns.AAAA); ok {
				ips = append(ips, rec.AAAA)
			}
		}
	}

	return ips, nil
}

func (q *miekgQuerier) LookupSRV(ctx context.Context, name string) ([]Target, error) {
	answers, err := q.query(ctx, name, dns.TypeSRV)
	if err != nil {
		return nil, err
	}

	var targets []Target
	for _, rr := range answers {
		srv, ok := rr.(*dns.SRV)
		if !ok {
			continue
		}
		ips, err := q.LookupHost(ctx, types.FamilyAny, srv.Target)
		if err != nil || len(ips) == 0 {
			continue
		}
		for _, ip := range ips {
			targets = append(targets, Target{IP: ip, Port: srv.Port})
		}
	}
	return targets, nil
}

func (q *miekgQuerier) query(ctx context.Context, name string, qtype uint16) ([]dns.RR, error) {
	m := new(dns.Msg)
	m.SetQuestion(dns.Fqdn(name), qtype)
	m.RecursionDesired = true

	var lastErr error
	for _, server := range q.servers {
		in, _, err := q.client.ExchangeContext(ctx, m, server)
		if err != nil {
			lastErr = err
			continue
		}
		if in.Rcode != dns.RcodeSuccess {
			lastErr = ErrorQueryFailed.Error(nil)
			continue
		}
		return in.Answer, nil
	}
	if lastErr == nil {
		lastErr = ErrorQueryFailed.Error(nil)
	}
	return nil, lastErr
}
