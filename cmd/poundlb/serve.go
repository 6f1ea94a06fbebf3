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
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	spfcbr "github.com/spf13/cobra"

	libcbr "github.com/nabbar/poundlb/cobra"
	liblog "github.com/nabbar/poundlb/logger"
	loglvl "github.com/nabbar/poundlb/logger/level"
	"github.com/nabbar/poundlb/proxy/config"
	"github.com/nabbar/poundlb/proxy/conn"
	"github.com/nabbar/poundlb/proxy/control"
	"github.com/nabbar/poundlb/proxy/metrics"
)

var flagControlAddr string

func newServeCommand(app libcbr.Cobra) *spfcbr.Command {
	cmd := app.NewCommand("serve", "run the proxy", "load the configuration, bind every listener and serve traffic until signaled", "", "--config /etc/poundlb/poundlb.json")
	cmd.Flags().StringVar(&flagControlAddr, "control", "", "admin HTTP surface bind address (disabled if empty)")
	cmd.Flags().StringVar(&flagPidFile, "pid-file", "/var/run/poundlb.pid", "pid file written for the 'reload' command to signal")
	cmd.RunE = func(_ *spfcbr.Command, _ []string) error {
		return runServe(context.Background(), liblog.New(context.Background()))
	}
	return cmd
}

// runServe loads the configuration, binds every listener, and blocks until
// SIGINT/SIGTERM. SIGHUP re-loads and re-finalizes the configuration and
// swaps the running listener set, the same signal pound itself reloads on;
// a write to the config file does the same through fsnotify.
func runServe(ctx context.Context, log liblog.Logger) error {
	if flagConfig == "" {
		return ErrorLoadConfig.Error(nil)
	}

	if flagPidFile != "" {
		if err := writePidFile(flagPidFile); err != nil {
			return err
		}
		defer func() { _ = os.Remove(flagPidFile) }()
	}

	drv := conn.New(conn.Config{})
	col := metrics.New()
	reg := newRegistry()
	sup := newSupervisor(func() liblog.Logger { return log }, col)

	apply := func(lns []config.Listener, err error) {
		if err != nil {
			log.CheckError(loglvl.ErrorLevel, loglvl.NilLevel, "loading configuration", err)
			return
		}
		views, serr := sup.Start(ctx, lns)
		if serr != nil {
			log.CheckError(loglvl.ErrorLevel, loglvl.NilLevel, "starting listener set", serr)
			return
		}
		reg.Swap(views)
		log.Info("configuration applied", nil, len(views))
	}

	tree, err := config.Load(flagConfig)
	if err != nil {
		return ErrorLoadConfig.Error(err)
	}
	lns, err := config.Finalize(tree, drv)
	if err != nil {
		return ErrorFinalizeConfig.Error(err)
	}
	apply(lns, nil)

	watcher, err := config.Watch(flagConfig, drv, apply)
	if err != nil {
		log.CheckError(loglvl.WarnLevel, loglvl.NilLevel, "starting configuration watch", err)
	} else {
		defer func() { _ = watcher.Stop() }()
	}

	var ctrlSrv *http.Server
	if flagControlAddr != "" {
		ctrlSrv = &http.Server{Addr: flagControlAddr, Handler: control.NewRouter(reg, col)}
		go func() {
			if e := ctrlSrv.ListenAndServe(); e != nil && e != http.ErrServerClosed {
				log.CheckError(loglvl.ErrorLevel, loglvl.NilLevel, "control plane HTTP server", e)
			}
		}()
		log.Info("control plane listening", nil, flagControlAddr)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	for {
		switch s := <-sig; s {
		case syscall.SIGHUP:
			log.Info("reload requested", nil)
			tree, err = config.Load(flagConfig)
			if err != nil {
				apply(nil, ErrorLoadConfig.Error(err))
				continue
			}
			lns, err = config.Finalize(tree, drv)
			apply(lns, err)

		default:
			log.Info("shutting down", nil, s.String())
			sup.Stop(ctx)
			if ctrlSrv != nil {
				sctx, cancel := context.WithTimeout(ctx, 5*time.Second)
				_ = ctrlSrv.Shutdown(sctx)
				cancel()
			}
			return nil
		}
	}
}
