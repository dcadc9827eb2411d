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
	"testing"
	"time"
)

func TestSampleClockGating(t *testing.T) {
	c := NewSampleClock()
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	if !c.ShouldSample(KindCPU, t0) {
		t.Fatal("first sample rejected")
	}

	// Within the minimum interval: rejected, baseline unchanged.
	if c.ShouldSample(KindCPU, t0.Add(50*time.Millisecond)) {
		t.Error("sample accepted within minimum interval")
	}
	if got := c.LastSampled(KindCPU); !got.Equal(t0) {
		t.Errorf("LastSampled = %v after rejection, want unchanged %v", got, t0)
	}

	// Past the minimum interval: accepted, baseline advances.
	t1 := t0.Add(MinimumCPUUpdateInterval)
	if !c.ShouldSample(KindCPU, t1) {
		t.Error("sample rejected past minimum interval")
	}
	if got := c.LastSampled(KindCPU); !got.Equal(t1) {
		t.Errorf("LastSampled = %v, want %v", got, t1)
	}
}

func TestSampleClockFamiliesAreIndependent(t *testing.T) {
	c := NewSampleClock()
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	if !c.ShouldSample(KindCPU, t0) {
		t.Fatal("first CPU sample rejected")
	}
	// A rejected CPU sample must not affect the process family.
	c.ShouldSample(KindCPU, t0.Add(10*time.Millisecond))
	if !c.ShouldSample(KindProcesses, t0.Add(10*time.Millisecond)) {
		t.Error("process family gated by CPU family state")
	}
}

func TestSampleClockUngatedFamily(t *testing.T) {
	c := NewSampleClock()
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	// Families without a minimum interval always sample.
	for i := 0; i < 3; i++ {
		if !c.ShouldSample(KindUsers, t0.Add(time.Duration(i)*time.Millisecond)) {
			t.Fatalf("ungated family rejected at call %d", i)
		}
	}
}
