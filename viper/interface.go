/*
 * MIT License
 *
 * Copyright (c) 2022 Nicolas JUHEL
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

// Package viper wraps spf13/viper behind an instance-based interface, in the
// same no-global-state style as the cobra package it is normally paired
// with: every poundlb command gets its own Viper rather than reaching for
// viper's package-level default instance.
package viper

import (
	"context"
	"io"
	"time"

	liblog "github.com/nabbar/poundlb/logger"
	loglvl "github.com/nabbar/poundlb/logger/level"
	spfvpr "github.com/spf13/viper"
)

// Viper exposes the subset of spf13/viper's functionality poundlb's
// commands need, plus the home-directory/default-config/remote-provider
// conveniences cobra's --configure flow relies on.
type Viper interface {
	// Viper returns the underlying spf13/viper instance for callers that
	// need the raw API (BindPFlag, WatchConfig, and so on).
	Viper() *spfvpr.Viper

	GetBool(key string) bool
	GetString(key string) string
	GetInt(key string) int
	GetInt32(key string) int32
	GetInt64(key string) int64
	GetUint(key string) uint
	GetUint16(key string) uint16
	GetUint32(key string) uint32
	GetUint64(key string) uint64
	GetFloat64(key string) float64
	GetDuration(key string) time.Duration
	GetTime(key string) time.Time
	GetIntSlice(key string) []int
	GetStringSlice(key string) []string
	GetStringMap(key string) map[string]interface{}
	GetStringMapString(key string) map[string]string
	GetStringMapStringSlice(key string) map[string][]string

	// SetHomeBaseName sets the file basename (without extension) SetConfigFile
	// looks for under the user's home directory when called with an empty path.
	SetHomeBaseName(name string)
	// SetEnvVarsPrefix sets the prefix Config uses when binding environment
	// variables automatically.
	SetEnvVarsPrefix(prefix string)
	// SetDefaultConfig registers a fallback config source Config reads from
	// when the configured file cannot be read.
	SetDefaultConfig(fct func() io.Reader)

	SetRemoteProvider(provider string)
	SetRemoteEndpoint(endpoint string)
	SetRemotePath(path string)
	SetRemoteSecureKey(key string)
	SetRemoteModel(model interface{})
	SetRemoteReloadFunc(fct func())

	// SetConfigFile points viper at path. If path is empty, the config file
	// is derived from the home directory and the base name set by
	// SetHomeBaseName.
	SetConfigFile(path string) error
	// Config loads the configured source: the explicit/derived file, or the
	// registered remote provider, falling back to the default config on
	// failure. lvlKO/lvlOK control how the outcome is logged.
	Config(lvlKO, lvlOK loglvl.Level) error

	// HookRegister adds a mapstructure decode hook, applied by Unmarshal,
	// UnmarshalKey and UnmarshalExact.
	HookRegister(hook interface{})
	// HookReset clears every hook registered so far.
	HookReset()

	Unmarshal(rawVal interface{}) error
	UnmarshalKey(key string, rawVal interface{}) error
	UnmarshalExact(rawVal interface{}) error

	// Unset clears each given key by overriding it to nil; Get* calls for
	// that key (and, for a section key, everything nested under it) then
	// fall through to their zero value.
	Unset(keys ...string) error
}

// New builds a Viper wrapping a fresh spf13/viper instance. log may be nil,
// in which case a background logger is created lazily from ctx.
func New(ctx context.Context, log liblog.FuncLog) Viper {
	return newViper(ctx, log)
}
