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
	libmap "github.com/go-viper/mapstructure/v2"
	spfvpr "github.com/spf13/viper"
)

func (v *vpr) HookRegister(hook interface{}) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.hooks = append(v.hooks, hook)
}

func (v *vpr) HookReset() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.hooks = nil
}

func (v *vpr) decodeOpts() []spfvpr.DecoderConfigOption {
	v.mu.RLock()
	hooks := make([]libmap.DecodeHookFunc, len(v.hooks))
	copy(hooks, v.hooks)
	v.mu.RUnlock()

	if len(hooks) == 0 {
		return nil
	}

	return []spfvpr.DecoderConfigOption{spfvpr.DecodeHook(libmap.ComposeDecodeHookFunc(hooks...))}
}

func (v *vpr) Unmarshal(rawVal interface{}) error {
	return v.raw.Unmarshal(rawVal, v.decodeOpts()...)
}

func (v *vpr) UnmarshalKey(key string, rawVal interface{}) error {
	if !v.raw.IsSet(key) {
		return ErrorParamMissing.Error(nil)
	}
	return v.raw.UnmarshalKey(key, rawVal, v.decodeOpts()...)
}

func (v *vpr) UnmarshalExact(rawVal interface{}) error {
	return v.raw.UnmarshalExact(rawVal, v.decodeOpts()...)
}
