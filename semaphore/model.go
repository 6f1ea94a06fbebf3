/*
 * MIT License
 *
 * Copyright (c) 2019 Nicolas JUHEL
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

package semaphore

import (
	"context"

	"github.com/vbauerster/mpb/v8"

	"github.com/nabbar/poundlb/semaphore/bar"
	"github.com/nabbar/poundlb/semaphore/nobar"
)

type withBar struct {
	bar.Sem
	n int64
}

func (w *withBar) Clone(ctx context.Context) Semaphore {
	return New(ctx, w.n, true)
}

type withoutBar struct {
	nobar.Sem
	n int64
}

func (w *withoutBar) GetMPB() *mpb.Progress {
	return nil
}

func (w *withoutBar) BarBytes(_, _ string, _ int64, _ bool, _ *mpb.Bar) *mpb.Bar { return nil }
func (w *withoutBar) BarNumber(_, _ string, _ int64, _ bool, _ *mpb.Bar) *mpb.Bar { return nil }
func (w *withoutBar) BarTime(_, _ string, _ int64, _ bool, _ *mpb.Bar) *mpb.Bar   { return nil }
func (w *withoutBar) BarOpts(_ int64, _ bool) *mpb.Bar                            { return nil }

func (w *withoutBar) Clone(ctx context.Context) Semaphore {
	return New(ctx, w.n, false)
}
