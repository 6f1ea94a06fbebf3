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
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"

	loglvl "github.com/nabbar/poundlb/logger/level"
)

func (v *vpr) SetConfigFile(path string) error {
	if path != "" {
		v.raw.SetConfigFile(path)
		return nil
	}

	v.mu.RLock()
	base := v.baseName
	v.mu.RUnlock()

	if base == "" {
		return ErrorBasePathNotFound.Error(nil)
	}

	home, err := homedir.Dir()
	if err != nil {
		return ErrorHomePathNotFound.Error(err)
	}

	v.raw.SetConfigFile(filepath.Join(home, "."+strings.ToLower(base)+".json"))
	return nil
}

func (v *vpr) Config(lvlKO, lvlOK loglvl.Level) error {
	v.mu.RLock()
	prefix := v.envPrefix
	provider := v.remoteProvider
	v.mu.RUnlock()

	v.raw.AutomaticEnv()
	if prefix != "" {
		v.raw.SetEnvPrefix(prefix)
	}
	v.raw.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if provider != "" {
		err := v.configRemote()
		v.getLog().CheckError(lvlKO, lvlOK, "loading remote configuration", err)
		return err
	}

	err := v.raw.ReadInConfig()
	if err == nil {
		v.getLog().CheckError(lvlKO, lvlOK, "loading configuration file", nil)
		return nil
	}

	v.mu.RLock()
	def := v.defConfig
	v.mu.RUnlock()

	if def == nil {
		e := ErrorConfigRead.Error(err)
		v.getLog().CheckError(lvlKO, lvlOK, "loading configuration file", e)
		return e
	}

	if uerr := v.raw.ReadConfig(def()); uerr != nil {
		e := ErrorConfigReadDefault.Error(uerr)
		v.getLog().CheckError(lvlKO, lvlOK, "loading default configuration", e)
		return e
	}

	e := ErrorConfigIsDefault.Error(err)
	v.getLog().CheckError(lvlKO, lvlOK, "loading default configuration", e)
	return e
}

func (v *vpr) configRemote() error {
	v.mu.RLock()
	provider := v.remoteProvider
	endpoint := v.remoteEndpoint
	path := v.remotePath
	secure := v.remoteSecureKey
	model := v.remoteModel
	reload := v.remoteReload
	v.mu.RUnlock()

	var err error
	if secure != "" {
		err = v.raw.AddSecureRemoteProvider(provider, endpoint, path, secure)
		if err != nil {
			return ErrorRemoteProviderSecure.Error(err)
		}
	} else {
		err = v.raw.AddRemoteProvider(provider, endpoint, path)
		if err != nil {
			return ErrorRemoteProvider.Error(err)
		}
	}

	if err = v.raw.ReadRemoteConfig(); err != nil {
		return ErrorRemoteProviderRead.Error(err)
	}

	if model != nil {
		if err = v.raw.Unmarshal(model); err != nil {
			return ErrorRemoteProviderMarshall.Error(err)
		}
	}

	if reload != nil {
		reload()
	}

	return nil
}
