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
	"fmt"
	"os"

	spfcbr "github.com/spf13/cobra"

	"github.com/nabbar/poundlb/proxy/config"
	"github.com/nabbar/poundlb/proxy/conn"
)

func newCheckCommand() *spfcbr.Command {
	return &spfcbr.Command{
		Use:   "check",
		Short: "validate a configuration file without serving traffic",
		Example: "poundlb check --config /etc/poundlb/poundlb.json",
		RunE: func(_ *spfcbr.Command, _ []string) error {
			return runCheck()
		},
	}
}

func runCheck() error {
	if flagConfig == "" {
		return ErrorLoadConfig.Error(nil)
	}

	tree, err := config.Load(flagConfig)
	if err != nil {
		fmt.Fprintln(os.Stderr, "FAIL:", err.Error())
		return ErrorLoadConfig.Error(err)
	}

	lns, err := config.Finalize(tree, conn.New(conn.Config{}))
	if err != nil {
		fmt.Fprintln(os.Stderr, "FAIL:", err.Error())
		return ErrorFinalizeConfig.Error(err)
	}

	fmt.Printf("OK: %d listener(s), %d backend template(s)\n", len(lns), len(tree.Templates))
	for _, l := range lns {
		fmt.Printf("  - %-20s %-24s tls=%v\n", l.Name, l.Address, l.UseTLS)
	}
	return nil
}
