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

package main

import (
	libver "github.com/nabbar/poundlb/version"
)

// build-time metadata, overridden via -ldflags "-X main.release=... -X main.build=... -X main.date=...".
var (
	release = "dev"
	build   = "none"
	date    = "unknown"
)

// appVersion is rooted one directory above this package (cmd/poundlb ->
// module root), the same numSubPackage convention libver.NewVersion's own
// tests exercise for a binary living under a cmd/ subdirectory.
func appVersion() libver.Version {
	return libver.NewVersion(
		libver.License_MIT,
		"poundlb",
		"TLS-terminating reverse proxy and load balancer",
		date,
		build,
		release,
		"Nicolas JUHEL",
		"poundlb",
		appVersion,
		2,
	)
}
