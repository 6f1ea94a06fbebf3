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

package request

import (
	"io"

	libsiz "github.com/nabbar/poundlb/size"

	"github.com/nabbar/poundlb/ioutils/delim"
)

// LineReader reads CRLF-terminated lines off a connection, applying the
// framing hygiene rules of spec.md §4.3: a bare CR, a CR not immediately
// followed by LF, or a non-tab control character inside the line is a
// protocol error; a line longer than the configured buffer is reported as
// "too long" once it has been flushed to the next LF so the stream stays
// byte-aligned for whatever request/response follows.
type LineReader struct {
	d   delim.BufferDelim
	max int
}

// NewLineReader wraps r (typically a net.Conn) with a '\n'-delimited reader
// capped at maxLine bytes per line, built on the same ioutils/delim primitive
// the rest of the module uses for framed reads.
func NewLineReader(r io.ReadCloser, maxLine int) *LineReader {
	return &LineReader{
		d:   delim.New(r, '\n', libsiz.Size(maxLine)),
		max: maxLine,
	}
}

// ReadLine returns the next line with its trailing CRLF/LF stripped.
func (l *LineReader) ReadLine() (string, error) {
	raw, err := l.d.ReadBytes()
	if err != nil && len(raw) == 0 {
		return "", err
	}

	if l.max > 0 && len(raw) > l.max {
		l.discardToLF()
		return "", ErrorLineTooLong.Error(err)
	}

	line, lerr := sanitizeLine(raw)
	if lerr != nil {
		return "", lerr
	}

	if err != nil && err != io.EOF {
		return line, err
	}
	return line, nil
}

// BodyReader exposes the same buffered stream ReadLine draws from as a plain
// io.Reader, picking up exactly where the last line left off — for reading a
// request/response body by byte count once the header block is done, instead
// of by line.
func (l *LineReader) BodyReader() io.Reader {
	return l.d
}

// discardToLF consumes bytes until the next LF so an over-long line does not
// desynchronize the remainder of the stream.
func (l *LineReader) discardToLF() {
	for {
		b, err := l.d.ReadBytes()
		if err != nil {
			return
		}
		if len(b) > 0 && b[len(b)-1] == '\n' {
			return
		}
	}
}

// sanitizeLine strips a trailing LF and, if present, a trailing CR, and
// rejects bare CR, CR-not-LF, and non-tab control bytes within the line body.
func sanitizeLine(raw []byte) (string, error) {
	if len(raw) == 0 {
		return "", nil
	}

	if raw[len(raw)-1] == '\n' {
		raw = raw[:len(raw)-1]
	}

	for i, b := range raw {
		switch {
		case b == '\r':
			if i != len(raw)-1 {
				return "", ErrorLineMalformed.Error(nil)
			}
		case b < 0x20 && b != '\t':
			return "", ErrorLineMalformed.Error(nil)
		case b == 0x7f:
			return "", ErrorLineMalformed.Error(nil)
		}
	}

	if len(raw) > 0 && raw[len(raw)-1] == '\r' {
		raw = raw[:len(raw)-1]
	}

	return string(raw), nil
}
