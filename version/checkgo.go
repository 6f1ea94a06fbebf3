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
	"runtime"
	"strings"

	goversion "github.com/hashicorp/go-version"

	"github.com/nabbar/poundlb/errors"
)

// CheckGo reports whether the running go runtime satisfies
// "<operator> <requiredVersion>" as a hashicorp/go-version constraint.
func (v *vers) CheckGo(requiredVersion, operator string) errors.Error {
	if requiredVersion == "" || operator == "" {
		return ErrorParamEmpty.Error(nil)
	}

	cst, err := goversion.NewConstraint(fmt.Sprintf("%s %s", operator, requiredVersion))
	if err != nil {
		return ErrorGoVersionInit.Error(err)
	}

	runtimeVersion := strings.TrimPrefix(runtime.Version(), "go")
	rv, err := goversion.NewVersion(runtimeVersion)
	if err != nil {
		return ErrorGoVersionRuntime.Error(err)
	}

	if !cst.Check(rv) {
		return ErrorGoVersionConstraint.Error(nil)
	}

	return nil
}
