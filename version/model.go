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

package version

import (
	"fmt"
	"reflect"
	"runtime"
	"strings"
	"time"
)

type vers struct {
	lic  License
	pkg  string
	desc string
	date time.Time
	bld  string
	rel  string
	auth string
	pfx  string
	root string
}

func newVersion(lic License, pkg, description, date, build, release, author, prefix string, sample any, numSubPackage int) *vers {
	path := reflect.TypeOf(sample).PkgPath()
	root := rootPackagePath(path, numSubPackage)

	if pkg == "" || strings.EqualFold(pkg, "noname") {
		pkg = packageNameFromPath(path)
	}

	return &vers{
		lic:  lic,
		pkg:  pkg,
		desc: description,
		date: parseDate(date),
		bld:  build,
		rel:  release,
		auth: author,
		pfx:  strings.ToUpper(prefix),
		root: root,
	}
}

func parseDate(s string) time.Time {
	for _, layout := range []string{time.RFC3339, time.RFC3339Nano} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Now()
}

func packageNameFromPath(path string) string {
	parts := strings.Split(path, "/")
	return parts[len(parts)-1]
}

func rootPackagePath(path string, numSubPackage int) string {
	parts := strings.Split(path, "/")
	for i := 0; i < numSubPackage && len(parts) > 1; i++ {
		parts = parts[:len(parts)-1]
	}
	return strings.Join(parts, "/")
}

func (v *vers) GetPackage() string     { return v.pkg }
func (v *vers) GetDescription() string { return v.desc }
func (v *vers) GetBuild() string       { return v.bld }
func (v *vers) GetRelease() string     { return v.rel }
func (v *vers) GetPrefix() string      { return v.pfx }
func (v *vers) GetTime() time.Time     { return v.date }
func (v *vers) GetRootPackagePath() string { return v.root }

func (v *vers) GetAuthor() string {
	return fmt.Sprintf("%s (source available at %s)", v.auth, v.root)
}

func (v *vers) GetDate() string {
	return v.date.Format("2006-01-02 15:04:05 MST")
}

func (v *vers) GetAppId() string {
	return fmt.Sprintf("%s-%s-%s (Runtime: %s/%s)", v.pkg, v.rel, v.bld, runtime.GOOS, runtime.GOARCH)
}

func (v *vers) GetHeader() string {
	return fmt.Sprintf("%s %s (build %s)", v.pkg, v.rel, v.bld)
}

func (v *vers) GetInfo() string {
	return fmt.Sprintf(
		"%s - %s\nRelease: %s\nBuild: %s\nDate: %s\nAuthor: %s\nLicense: %s\n",
		v.pkg, v.desc, v.rel, v.bld, v.GetDate(), v.GetAuthor(), v.GetLicenseName(),
	)
}

func (v *vers) PrintInfo() {
	fmt.Println(v.GetInfo())
}

func (v *vers) PrintLicense(extra ...License) {
	fmt.Println(v.GetLicenseFull(extra...))
}
