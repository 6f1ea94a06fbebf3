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

// Package htpasswd verifies BASIC_AUTH credentials against an Apache
// htpasswd-style password file (spec.md §4.4's BASIC_AUTH matcher leaf),
// supporting bcrypt, APR1-MD5, and {SHA} hash formats.
package htpasswd

import (
	"bufio"
	"io"
	"strings"
	"sync"
)

// File is an in-memory, reloadable htpasswd password file.
type File interface {
	// Verify reports whether password matches the stored hash for user.
	Verify(user, password string) (bool, error)

	// Load replaces the in-memory table with the contents read from r —
	// one "user:hash" line per entry, blank/comment lines skipped.
	Load(r io.Reader) error

	Len() int
}

// New builds an empty File; call Load to populate it.
func New() File {
	return &file{entries: make(map[string]string)}
}

type file struct {
	mu      sync.RWMutex
	entries map[string]string
}

func (f *file) Load(r io.Reader) error {
	entries := make(map[string]string)

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		idx := strings.IndexByte(line, ':')
		if idx < 0 {
			return ErrorMalformedLine.Error(nil)
		}

		user := line[:idx]
		hash := line[idx+1:]
		if user == "" || hash == "" {
			return ErrorMalformedLine.Error(nil)
		}
		entries[user] = hash
	}
	if err := sc.Err(); err != nil {
		return err
	}

	f.mu.Lock()
	f.entries = entries
	f.mu.Unlock()
	return nil
}

func (f *file) Verify(user, password string) (bool, error) {
	f.mu.RLock()
	hash, ok := f.entries[user]
	f.mu.RUnlock()

	if !ok {
		return false, ErrorUserNotFound.Error(nil)
	}

	return verifyHash(hash, password)
}

func (f *file) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.entries)
}
