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

package config

import (
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/nabbar/poundlb/proxy/listener"
)

// Watcher watches a configuration file and re-parses it on every write,
// handing the caller a fresh Load+Finalize result. It does not itself swap
// any running listener in; onChange owns quiescing the worker pool and
// installing the new set, per spec.md §5's reload note.
type Watcher struct {
	w *fsnotify.Watcher
}

// Watch starts watching path. onChange is called once per debounced burst
// of write events with the result of Load(path) then Finalize(tree, drv).
func Watch(path string, drv listener.Driver, onChange func([]Listener, error)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, ErrorReadConfig.Error(err)
	}
	if err = fw.Add(path); err != nil {
		_ = fw.Close()
		return nil, ErrorReadConfig.Error(err)
	}

	wt := &Watcher{w: fw}
	go wt.loop(path, drv, onChange)
	return wt, nil
}

func (wt *Watcher) loop(path string, drv listener.Driver, onChange func([]Listener, error)) {
	var pending *time.Timer

	fire := func() {
		tree, err := Load(path)
		if err != nil {
			onChange(nil, err)
			return
		}
		lns, err := Finalize(tree, drv)
		onChange(lns, err)
	}

	for {
		select {
		case ev, ok := <-wt.w.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if pending != nil {
				pending.Stop()
			}
			pending = time.AfterFunc(250*time.Millisecond, fire)

		case _, ok := <-wt.w.Errors:
			if !ok {
				return
			}
		}
	}
}

// Stop halts the watch loop and releases the underlying inotify handle.
func (wt *Watcher) Stop() error {
	return wt.w.Close()
}
