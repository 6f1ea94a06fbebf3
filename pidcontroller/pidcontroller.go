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

// Package pidcontroller generates a non-linear step sequence between two
// float64 bounds using a discrete PID loop, used by duration.RangeTo/RangeCtxTo
// to space out retry/backoff durations instead of a flat linear ramp.
package pidcontroller

import "context"

// maxSteps bounds the sequence length so a badly tuned rate can't spin forever.
const maxSteps = 256

// Controller holds the proportional/integral/derivative rates for one
// RangeCtx/Range call; it carries no state between calls.
type Controller struct {
	rateP float64
	rateI float64
	rateD float64
}

// New builds a Controller from its three rate coefficients.
func New(rateP, rateI, rateD float64) *Controller {
	return &Controller{rateP: rateP, rateI: rateI, rateD: rateD}
}

// Range generates the step sequence from start to end.
func (c *Controller) Range(start, end float64) []float64 {
	return c.RangeCtx(context.Background(), start, end)
}

// RangeCtx generates the step sequence from start to end, stopping early if
// ctx is done. Each step moves current toward end by an amount driven by the
// proportional error plus accumulated integral and derivative terms, so the
// sequence closes in quickly at first and eases in near the target.
func (c *Controller) RangeCtx(ctx context.Context, start, end float64) []float64 {
	var (
		out      = []float64{start}
		current  = start
		integral float64
		prevErr  float64
		rising   = end >= start
	)

	for i := 0; i < maxSteps; i++ {
		select {
		case <-ctx.Done():
			return out
		default:
		}

		errv := end - current
		if (rising && errv <= 0) || (!rising && errv >= 0) {
			break
		}

		integral += errv
		derivative := errv - prevErr
		prevErr = errv

		step := c.rateP*errv + c.rateI*integral + c.rateD*derivative
		if step == 0 {
			break
		}

		next := current + step
		if (rising && next >= end) || (!rising && next <= end) {
			break
		}

		current = next
		out = append(out, current)
	}

	return append(out, end)
}
