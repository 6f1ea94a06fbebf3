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

import "github.com/nabbar/poundlb/errors"

const (
	ErrorLoadConfig errors.CodeError = iota + errors.MinPkgCmdPoundlb
	ErrorFinalizeConfig
	ErrorBindListener
	ErrorStartAcceptor
	ErrorStartWorkerPool
	ErrorWritePidFile
	ErrorReadPidFile
	ErrorSendSignal
	ErrorWriteSkeleton
)

func init() {
	errors.RegisterIdFctMessage(ErrorLoadConfig, getMessage)
}

func getMessage(code errors.CodeError) string {
	switch code {
	case ErrorLoadConfig:
		return "loading the configuration file"
	case ErrorFinalizeConfig:
		return "finalizing the configuration tree into runtime listeners"
	case ErrorBindListener:
		return "binding a listener's network address"
	case ErrorStartAcceptor:
		return "starting a listener's accept loop"
	case ErrorStartWorkerPool:
		return "starting a listener's worker pool"
	case ErrorWritePidFile:
		return "writing the pid file"
	case ErrorReadPidFile:
		return "reading the pid file"
	case ErrorSendSignal:
		return "signaling the running process"
	case ErrorWriteSkeleton:
		return "writing the generated configuration skeleton"
	}
	return ""
}
