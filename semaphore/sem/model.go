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

package sem

import (
	"context"

	"golang.org/x/sync/semaphore"
)

type sem struct {
	context.Context

	cancel   context.CancelFunc
	weight   int64
	weighted *semaphore.Weighted
}

func (s *sem) Weighted() int64 {
	return s.weight
}

func (s *sem) NewWorker() error {
	return s.weighted.Acquire(s.Context, 1)
}

func (s *sem) NewWorkerTry() bool {
	return s.weighted.TryAcquire(1)
}

func (s *sem) DeferWorker() {
	s.weighted.Release(1)
}

// WaitAll reclaims the full weight, blocking until every outstanding worker
// has called DeferWorker, then immediately releases it back.
func (s *sem) WaitAll() error {
	if err := s.weighted.Acquire(context.Background(), s.weight); err != nil {
		return err
	}
	s.weighted.Release(s.weight)
	return nil
}

func (s *sem) DeferMain() {
	s.cancel()
}
