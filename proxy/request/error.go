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

package request

import "github.com/nabbar/poundlb/errors"

const (
	ErrorLineTooLong errors.CodeError = iota + errors.MinPkgProxyRequest
	ErrorLineMalformed
	ErrorRequestLineInvalid
	ErrorHeaderIllegal
	ErrorFramingConflict
	ErrorContentLengthInvalid
	ErrorURLRejected
	ErrorMethodNotAllowed
)

func init() {
	errors.RegisterIdFctMessage(ErrorLineTooLong, getMessage)
}

func getMessage(code errors.CodeError) string {
	switch code {
	case ErrorLineTooLong:
		return "request line exceeds the configured buffer size"
	case ErrorLineMalformed:
		return "malformed line: bare CR, CR not followed by LF, or illegal control character"
	case ErrorRequestLineInvalid:
		return "request line does not match 'METHOD SP URL SP HTTP/X.Y'"
	case ErrorHeaderIllegal:
		return "header line is syntactically invalid"
	case ErrorFramingConflict:
		return "both Content-Length and Transfer-Encoding: chunked present"
	case ErrorContentLengthInvalid:
		return "multiple or non-numeric Content-Length values"
	case ErrorURLRejected:
		return "decoded URL contains a NUL byte or does not match the allow-pattern"
	case ErrorMethodNotAllowed:
		return "method not allowed at the configured xHTTP level"
	}
	return ""
}
