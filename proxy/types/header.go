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

import "strings"

// HeaderCode classifies a parsed header line (spec.md §4.3).
type HeaderCode int

const (
	HdrOther HeaderCode = iota
	HdrIllegal
	HdrConnection
	HdrUpgrade
	HdrTransferEncoding
	HdrContentLength
	HdrExpect
	HdrAuthorization
	HdrHost
	HdrDestination
	HdrUserAgent
	HdrReferer
	HdrCookie
	HdrSetCookie
	HdrLocation
	HdrContentLocation
)

// headerTable is keyed case-insensitively on the header name.
var headerTable = map[string]HeaderCode{
	"connection":         HdrConnection,
	"upgrade":            HdrUpgrade,
	"transfer-encoding":  HdrTransferEncoding,
	"content-length":     HdrContentLength,
	"expect":             HdrExpect,
	"authorization":      HdrAuthorization,
	"host":               HdrHost,
	"destination":        HdrDestination,
	"user-agent":         HdrUserAgent,
	"referer":            HdrReferer,
	"cookie":             HdrCookie,
	"set-cookie":         HdrSetCookie,
	"location":           HdrLocation,
	"content-location":   HdrContentLocation,
}

// ClassifyHeader returns the classification code for a header name. Names not
// present in the fixed table but otherwise well-formed classify as HdrOther;
// the caller is responsible for classifying a syntactically invalid header
// line as HdrIllegal before ever calling ClassifyHeader.
func ClassifyHeader(name string) HeaderCode {
	if c, ok := headerTable[strings.ToLower(name)]; ok {
		return c
	}
	return HdrOther
}
