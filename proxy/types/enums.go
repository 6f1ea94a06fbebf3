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

package types

// BalanceAlgo selects how a Service picks among live backends (spec.md §4.5).
type BalanceAlgo int

const (
	BalanceRandom BalanceAlgo = iota
	BalanceIWRR
)

func (b BalanceAlgo) String() string {
	if b == BalanceIWRR {
		return "IWRR"
	}
	return "RANDOM"
}

// SessionType selects the key a Service uses for session affinity (spec.md §3).
type SessionType int

const (
	SessionNone SessionType = iota
	SessionIP
	SessionCookie
	SessionURL
	SessionParam
	SessionBasic
	SessionHeader
)

// BackendKind is the tag of the Backend sum type (spec.md §3).
type BackendKind int

const (
	BackendRegular BackendKind = iota
	BackendMatrix
	BackendRef
	BackendRedirect
	BackendACME
	BackendError
	BackendControl
	BackendMetrics
)

// IsTerminal reports whether a backend kind produces its reply locally
// instead of forwarding to a live TCP endpoint (spec.md §4.2 step 11).
func (k BackendKind) IsTerminal() bool {
	switch k {
	case BackendRedirect, BackendACME, BackendError, BackendControl, BackendMetrics:
		return true
	default:
		return false
	}
}

// RegexKind is the matching mode of a condition or rewrite regex (spec.md §4.4).
type RegexKind int

const (
	RegexPOSIX RegexKind = iota
	RegexPCRE
	RegexExact
	RegexPrefix
	RegexSuffix
	RegexContain
)

// ResolveMode is the MATRIX backend expansion strategy (spec.md §3).
type ResolveMode int

const (
	ResolveImmediate ResolveMode = iota
	ResolveFirst
	ResolveAll
	ResolveSRV
)

// ClientCertMode is the TLS client-certificate verification policy (spec.md §6).
type ClientCertMode int

const (
	ClientCertNone           ClientCertMode = 0
	ClientCertOptionalVerify ClientCertMode = 1
	ClientCertRequireVerify  ClientCertMode = 2
	ClientCertRequestOnly    ClientCertMode = 3 // "ask but don't verify"
)

// AddressFamily distinguishes IPv4 from IPv6 peers, mirroring resolve()'s
// {addrs, ttl} contract (spec.md §1).
type AddressFamily int

const (
	FamilyAny AddressFamily = iota
	FamilyIPv4
	FamilyIPv6
)
