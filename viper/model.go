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

package viper

import (
	"context"
	"io"
	"sync"
	"time"

	libmap "github.com/go-viper/mapstructure/v2"
	liblog "github.com/nabbar/poundlb/logger"
	spfvpr "github.com/spf13/viper"
)

type vpr struct {
	mu  sync.RWMutex
	ctx context.Context
	log liblog.FuncLog
	raw *spfvpr.Viper

	baseName  string
	envPrefix string
	defConfig func() io.Reader

	remoteProvider  string
	remoteEndpoint  string
	remotePath      string
	remoteSecureKey string
	remoteModel     interface{}
	remoteReload    func()

	hooks []libmap.DecodeHookFunc
}

func newViper(ctx context.Context, log liblog.FuncLog) *vpr {
	if log == nil {
		log = func() liblog.Logger {
			return liblog.New(ctx)
		}
	}
	return &vpr{
		ctx: ctx,
		log: log,
		raw: spfvpr.New(),
	}
}

func (v *vpr) getLog() liblog.Logger {
	return v.log()
}

func (v *vpr) Viper() *spfvpr.Viper {
	return v.raw
}

func (v *vpr) GetBool(key string) bool                                { return v.raw.GetBool(key) }
func (v *vpr) GetString(key string) string                            { return v.raw.GetString(key) }
func (v *vpr) GetInt(key string) int                                  { return v.raw.GetInt(key) }
func (v *vpr) GetInt32(key string) int32                              { return v.raw.GetInt32(key) }
func (v *vpr) GetInt64(key string) int64                              { return v.raw.GetInt64(key) }
func (v *vpr) GetUint(key string) uint                                { return v.raw.GetUint(key) }
func (v *vpr) GetUint16(key string) uint16                            { return v.raw.GetUint16(key) }
func (v *vpr) GetUint32(key string) uint32                            { return v.raw.GetUint32(key) }
func (v *vpr) GetUint64(key string) uint64                            { return v.raw.GetUint64(key) }
func (v *vpr) GetFloat64(key string) float64                          { return v.raw.GetFloat64(key) }
func (v *vpr) GetDuration(key string) time.Duration                   { return v.raw.GetDuration(key) }
func (v *vpr) GetTime(key string) time.Time                           { return v.raw.GetTime(key) }
func (v *vpr) GetIntSlice(key string) []int                           { return v.raw.GetIntSlice(key) }
func (v *vpr) GetStringSlice(key string) []string                     { return v.raw.GetStringSlice(key) }
func (v *vpr) GetStringMap(key string) map[string]interface{}         { return v.raw.GetStringMap(key) }
func (v *vpr) GetStringMapString(key string) map[string]string        { return v.raw.GetStringMapString(key) }
func (v *vpr) GetStringMapStringSlice(key string) map[string][]string { return v.raw.GetStringMapStringSlice(key) }

func (v *vpr) SetHomeBaseName(name string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.baseName = name
}

func (v *vpr) SetEnvVarsPrefix(prefix string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.envPrefix = prefix
}

func (v *vpr) SetDefaultConfig(fct func() io.Reader) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.defConfig = fct
}

func (v *vpr) SetRemoteProvider(provider string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.remoteProvider = provider
}

func (v *vpr) SetRemoteEndpoint(endpoint string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.remoteEndpoint = endpoint
}

func (v *vpr) SetRemotePath(path string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.remotePath = path
}

func (v *vpr) SetRemoteSecureKey(key string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.remoteSecureKey = key
}

func (v *vpr) SetRemoteModel(model interface{}) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.remoteModel = model
}

func (v *vpr) SetRemoteReloadFunc(fct func()) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.remoteReload = fct
}
