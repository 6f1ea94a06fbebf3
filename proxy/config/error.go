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

import "github.com/nabbar/poundlb/errors"

const (
	ErrorReadConfig errors.CodeError = iota + errors.MinPkgProxyConfig
	ErrorDecodeConfig
	ErrorValidateConfig
	ErrorUnknownBackendKind
	ErrorUnknownRegexKind
	ErrorUnknownResolveMode
	ErrorUnknownFamily
	ErrorUnknownSessionType
	ErrorUnknownBalanceAlgo
	ErrorUnresolvedBackendRef
	ErrorDuplicateBackendTemplate
	ErrorNoListeners
	ErrorLoadTLSCert
	ErrorLoadBasicAuthFile
	ErrorInvalidURLAllow
	ErrorUnknownClientAuth
	ErrorLoadClientCA
)

func init() {
	errors.RegisterIdFctMessage(ErrorReadConfig, getMessage)
}

func getMessage(code errors.CodeError) string {
	switch code {
	case ErrorReadConfig:
		return "reading the configuration file"
	case ErrorDecodeConfig:
		return "decoding the configuration tree"
	case ErrorValidateConfig:
		return "validating the decoded configuration"
	case ErrorUnknownBackendKind:
		return "unknown backend kind"
	case ErrorUnknownRegexKind:
		return "unknown regex kind"
	case ErrorUnknownResolveMode:
		return "unknown matrix resolve mode"
	case ErrorUnknownFamily:
		return "unknown address family"
	case ErrorUnknownSessionType:
		return "unknown session affinity type"
	case ErrorUnknownBalanceAlgo:
		return "unknown balancing algorithm"
	case ErrorUnresolvedBackendRef:
		return "backend_ref does not name a known backend template"
	case ErrorDuplicateBackendTemplate:
		return "duplicate named backend template"
	case ErrorNoListeners:
		return "configuration tree has no listeners"
	case ErrorLoadTLSCert:
		return "loading a listener TLS certificate pair"
	case ErrorLoadBasicAuthFile:
		return "loading a basic-auth password file"
	case ErrorInvalidURLAllow:
		return "compiling a listener's URL allow-pattern"
	case ErrorUnknownClientAuth:
		return "unknown TLS client-auth mode"
	case ErrorLoadClientCA:
		return "loading a listener client CA file"
	}
	return ""
}
