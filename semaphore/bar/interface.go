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

// Package bar implements the progress-bar worker-pool strategy: a
// semaphore/sem.Sem paired with an mpb.Progress container, used when control
// CLI commands run interactively (e.g. a bulk backend health probe).
package bar

import (
	"context"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	libsem "github.com/nabbar/poundlb/semaphore/sem"
)

// Sem is the progress-bar worker pool: GetMPB exposes the underlying
// container so callers can add their own bars alongside the built-in helpers.
type Sem interface {
	libsem.Sem

	GetMPB() *mpb.Progress

	BarBytes(name, msg string, total int64, drop bool, queueAfter *mpb.Bar) *mpb.Bar
	BarNumber(name, msg string, total int64, drop bool, queueAfter *mpb.Bar) *mpb.Bar
	BarTime(name, msg string, total int64, drop bool, queueAfter *mpb.Bar) *mpb.Bar
	BarOpts(total int64, drop bool) *mpb.Bar
}

func New(ctx context.Context, n int64) Sem {
	return &bar{
		Sem: libsem.New(ctx, n),
		pgb: mpb.NewWithContext(ctx, mpb.WithWidth(60)),
	}
}

type bar struct {
	libsem.Sem
	pgb *mpb.Progress
}

func (b *bar) GetMPB() *mpb.Progress {
	return b.pgb
}

func (b *bar) barOptions(name, msg string, drop bool, queueAfter *mpb.Bar) []mpb.BarOption {
	opts := []mpb.BarOption{
		mpb.PrependDecorators(decor.Name(name), decor.Name(msg)),
	}

	if drop {
		opts = append(opts, mpb.BarRemoveOnComplete())
	}

	if queueAfter != nil {
		opts = append(opts, mpb.BarQueueAfter(queueAfter, false))
	}

	return opts
}

func (b *bar) BarBytes(name, msg string, total int64, drop bool, queueAfter *mpb.Bar) *mpb.Bar {
	opts := b.barOptions(name, msg, drop, queueAfter)
	opts = append(opts,
		mpb.AppendDecorators(decor.CountersKibiByte("% .2f / % .2f")),
	)
	return b.pgb.AddBar(total, opts...)
}

func (b *bar) BarNumber(name, msg string, total int64, drop bool, queueAfter *mpb.Bar) *mpb.Bar {
	opts := b.barOptions(name, msg, drop, queueAfter)
	opts = append(opts,
		mpb.AppendDecorators(decor.CountersNoUnit("%d / %d")),
	)
	return b.pgb.AddBar(total, opts...)
}

func (b *bar) BarTime(name, msg string, total int64, drop bool, queueAfter *mpb.Bar) *mpb.Bar {
	opts := b.barOptions(name, msg, drop, queueAfter)
	opts = append(opts,
		mpb.AppendDecorators(decor.Elapsed(decor.ET_STYLE_GO)),
	)
	return b.pgb.AddBar(total, opts...)
}

func (b *bar) BarOpts(total int64, drop bool) *mpb.Bar {
	return b.BarNumber("task", "running", total, drop, nil)
}
