/*
 * MIT License
 *
 * Copyright (c) 2026 Nguyen Thanh Phuong
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
 */

package probe

import "sync"

// collectParallel fans fn out over ids on at most workers goroutines and
// gathers the successful results into an identity-keyed map. It joins all
// workers before returning, so reconciliation always sees a complete reading
// set, never a partial one.
//
// fn returning false means the entity is absent; it is simply left out of
// the result, which reconciliation treats as missing.
func collectParallel[K comparable, S any](ids []K, workers int, fn func(K) (S, bool)) map[K]S {
	if workers < 1 {
		workers = 1
	}

	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		sem = make(chan struct{}, workers)
	)

	readings := make(map[K]S, len(ids))

	for _, id := range ids {
		wg.Add(1)
		sem <- struct{}{}

		go func(id K) {
			defer wg.Done()
			defer func() { <-sem }()

			sample, ok := fn(id)
			if !ok {
				return
			}

			mu.Lock()
			readings[id] = sample
			mu.Unlock()
		}(id)
	}

	wg.Wait()
	return readings
}
