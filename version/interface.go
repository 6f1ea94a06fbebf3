/*
 * MIT License
 *
 * Copyright (c) 2024 Nicolas JUHEL
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

// Package version builds a single immutable descriptor of a binary's build
// metadata (package name, release, build hash, author, license) and renders
// it as the header/info/license text cmd/poundlb's --version and --license
// flags print, in the same instance-based, no-global-state style as the
// cobra package it is normally paired with.
package version

import (
	"time"

	"github.com/nabbar/poundlb/errors"
)

// License identifies one of the license texts this package can render.
type License uint8

const (
	License_MIT License = iota
	License_Apache_v2
	License_GNU_GPL_v3
	License_GNU_Affero_GPL_v3
	License_GNU_Lesser_GPL_v3
	License_Mozilla_PL_v2
	License_Unlicense
	License_Creative_Common_Zero_v1
	License_Creative_Common_Attribution_v4_int
	License_Creative_Common_Attribution_Share_Alike_v4_int
	License_SIL_Open_Font_1_1
)

// Version describes one built binary's identity: what it is, which release
// of it this is, who built it and under what license it ships.
type Version interface {
	GetPackage() string
	GetDescription() string
	GetBuild() string
	GetRelease() string
	GetAuthor() string
	GetPrefix() string
	GetDate() string
	GetTime() time.Time
	GetAppId() string
	GetRootPackagePath() string

	// GetHeader returns the one-line banner printed before any command runs.
	GetHeader() string
	// GetInfo returns the multi-line `--version` output.
	GetInfo() string

	GetLicenseName() string
	GetLicenseLegal(extra ...License) string
	GetLicenseBoiler(extra ...License) string
	GetLicenseFull(extra ...License) string

	PrintInfo()
	PrintLicense(extra ...License)

	// CheckGo reports whether the running go runtime satisfies requiredVersion
	// under operator (">=", ">", "<=", "<", "=", "~>"), as a
	// github.com/hashicorp/go-version constraint string.
	CheckGo(requiredVersion, operator string) errors.Error
}

// NewVersion builds a Version. sample is any value of a type declared in the
// package this Version should be rooted at; numSubPackage walks that many
// directories up sample's package path to compute GetRootPackagePath.
func NewVersion(lic License, pkg, description, date, build, release, author, prefix string, sample any, numSubPackage int) Version {
	return newVersion(lic, pkg, description, date, build, release, author, prefix, sample, numSubPackage)
}
