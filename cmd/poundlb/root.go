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

// Command poundlb is the TLS-terminating reverse proxy and load balancer
// binary: a spf13/cobra tree (serve, check, reload, init, version) wiring
// proxy/config's decode+finalize pipeline into proxy/acceptor, proxy/worker,
// proxy/control and proxy/metrics.
package main

import (
	"context"
	"fmt"
	"os"

	libcbr "github.com/nabbar/poundlb/cobra"
	liblog "github.com/nabbar/poundlb/logger"
	libvpr "github.com/nabbar/poundlb/viper"
)

var (
	flagConfig  string
	flagVerbose int
)

func newRootContext() context.Context {
	return context.Background()
}

func buildApp() libcbr.Cobra {
	ctx := newRootContext()
	app := libcbr.New()

	app.SetVersion(appVersion())
	app.SetLogger(func() liblog.Logger {
		return liblog.New(ctx)
	})
	app.SetViper(func() libvpr.Viper {
		return libvpr.New(ctx, nil)
	})
	app.Init()

	if err := app.SetFlagConfig(true, &flagConfig); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
	app.SetFlagVerbose(true, &flagVerbose)

	app.AddCommandCompletion()
	app.AddCommandPrintErrorCode(func(item, value string) {
		fmt.Printf("%-40s %s\n", item, value)
	})

	app.AddCommand(newServeCommand(app))
	app.AddCommand(newCheckCommand())
	app.AddCommand(newReloadCommand())
	app.AddCommand(newVersionCommand())
	app.AddCommand(newInitCommand(app))

	return app
}

func main() {
	app := buildApp()
	if err := app.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}
