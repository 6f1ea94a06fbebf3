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

import "github.com/nabbar/poundlb/errors"

const (
	ErrorBackendDial errors.CodeError = iota + errors.MinPkgProxyConn
	ErrorBackendUnreachable
	ErrorTerminalUnsupported
	ErrorTooManyHeaders
	ErrorChunkSizeInvalid
)

func init() {
	errors.RegisterIdFctMessage(ErrorBackendDial, getMessage)
}

func getMessage(code errors.CodeError) string {
	switch code {
	case ErrorBackendDial:
		return "failed to dial the selected backend"
	case ErrorBackendUnreachable:
		return "backend connection failed after acquiring a reference"
	case ErrorTerminalUnsupported:
		return "terminal backend kind is not handled by this responder"
	case ErrorTooManyHeaders:
		return "request has more header lines than the configured maximum"
	case ErrorChunkSizeInvalid:
		return "chunked request body has a malformed chunk-size line"
	}
	return ""
}
