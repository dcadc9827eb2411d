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

import (
	"sync"
	"time"
)

// MinimumCPUUpdateInterval is the shortest interval between two accepted
// samples of a CPU-time-bearing family. Below it the elapsed time is too
// small for the counter deltas to be meaningful.
const MinimumCPUUpdateInterval = 200 * time.Millisecond

// defaultMinIntervals maps each rate-bearing family to its minimum
// inter-sample interval. Families absent from the map are never gated.
var defaultMinIntervals = map[EntityKind]time.Duration{
	KindCPU:       MinimumCPUUpdateInterval,
	KindProcesses: MinimumCPUUpdateInterval,
	KindDisks:     100 * time.Millisecond,
	KindNetworks:  100 * time.Millisecond,
}

// SampleClock tracks, per metric family, the timestamp of the previous
// accepted sample and enforces the family's minimum inter-sample interval.
type SampleClock struct {
	mu          sync.Mutex
	last        map[EntityKind]time.Time
	minInterval map[EntityKind]time.Duration
}

// NewSampleClock creates a SampleClock with the default per-family intervals.
func NewSampleClock() *SampleClock {
	intervals := make(map[EntityKind]time.Duration, len(defaultMinIntervals))
	for kind, d := range defaultMinIntervals {
		intervals[kind] = d
	}

	return &SampleClock{
		last:        make(map[EntityKind]time.Time),
		minInterval: intervals,
	}
}

// ShouldSample reports whether enough time has passed since the family's
// previous accepted sample. On true it records now as the new baseline; on
// false nothing changes, so the next call compares against the same baseline.
func (c *SampleClock) ShouldSample(kind EntityKind, now time.Time) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	min := c.minInterval[kind]
	if last, ok := c.last[kind]; ok && min > 0 && now.Sub(last) < min {
		return false
	}

	c.last[kind] = now
	return true
}

// LastSampled returns the timestamp of the family's previous accepted sample,
// or the zero time if the family has never been sampled.
func (c *SampleClock) LastSampled(kind EntityKind) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last[kind]
}
