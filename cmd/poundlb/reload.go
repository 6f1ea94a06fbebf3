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
	"strconv"
	"strings"
	"syscall"

	spfcbr "github.com/spf13/cobra"
)

var flagPidFile string

func newReloadCommand() *spfcbr.Command {
	cmd := &spfcbr.Command{
		Use:     "reload",
		Short:   "signal a running poundlb process to reload its configuration",
		Example: "poundlb reload --pid-file /var/run/poundlb.pid",
		RunE: func(_ *spfcbr.Command, _ []string) error {
			return runReload()
		},
	}
	cmd.Flags().StringVar(&flagPidFile, "pid-file", "/var/run/poundlb.pid", "pid file written by the running serve process")
	return cmd
}

func runReload() error {
	raw, err := os.ReadFile(flagPidFile)
	if err != nil {
		return ErrorReadPidFile.Error(err)
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(raw)))
	if err != nil {
		return ErrorReadPidFile.Error(err)
	}

	if err = syscall.Kill(pid, syscall.SIGHUP); err != nil {
		return ErrorSendSignal.Error(err)
	}

	fmt.Printf("sent SIGHUP to pid %d\n", pid)
	return nil
}

func writePidFile(path string) error {
	if err := os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())), 0o644); err != nil {
		return ErrorWritePidFile.Error(err)
	}
	return nil
}
