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

package metrics

import (
	"math"
	"testing"
	"time"
)

const tolerance = 0.00001

func TestCalculateUsagePercent(t *testing.T) {
	tests := []struct {
		name     string
		prev     float64
		curr     float64
		elapsed  time.Duration
		cores    int
		expected float64
	}{
		{
			name: "Aggregate over one second",
			prev: 100, curr: 150, elapsed: 1 * time.Second, cores: 1,
			// 100 * (150-100) / 1 = 5000 (50 cores' worth of CPU time)
			expected: 5000.0,
		},
		{
			name: "Normalized by core count",
			prev: 100, curr: 150, elapsed: 1 * time.Second, cores: 50,
			expected: 100.0,
		},
		{
			name: "Fractional usage",
			prev: 10, curr: 10.5, elapsed: 2 * time.Second, cores: 1,
			expected: 25.0,
		},
		{
			name: "Zero elapsed",
			prev: 100, curr: 150, elapsed: 0, cores: 1,
			expected: 0.0,
		},
		{
			name: "Negative elapsed",
			prev: 100, curr: 150, elapsed: -1 * time.Second, cores: 1,
			expected: 0.0,
		},
		{
			name: "Counter went backwards",
			prev: 150, curr: 100, elapsed: 1 * time.Second, cores: 1,
			expected: 0.0,
		},
		{
			name: "No change",
			prev: 100, curr: 100, elapsed: 1 * time.Second, cores: 1,
			expected: 0.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateUsagePercent(tt.prev, tt.curr, tt.elapsed, tt.cores)
			if math.Abs(got-tt.expected) > tolerance {
				t.Errorf("CalculateUsagePercent() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestCalculateRate(t *testing.T) {
	tests := []struct {
		name     string
		prev     uint64
		curr     uint64
		elapsed  time.Duration
		expected float64
	}{
		{
			name: "Bytes per second",
			prev: 1000, curr: 3000, elapsed: 2 * time.Second,
			expected: 1000.0,
		},
		{
			name: "Sub-second interval",
			prev: 0, curr: 500, elapsed: 500 * time.Millisecond,
			expected: 1000.0,
		},
		{
			name: "Zero elapsed",
			prev: 0, curr: 500, elapsed: 0,
			expected: 0.0,
		},
		{
			name: "Counter reset",
			prev: 5000, curr: 100, elapsed: 1 * time.Second,
			expected: 0.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateRate(tt.prev, tt.curr, tt.elapsed)
			if math.Abs(got-tt.expected) > tolerance {
				t.Errorf("CalculateRate() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestCalculateCPUUsage(t *testing.T) {
	tests := []struct {
		name     string
		prev     CPUSample
		current  CPUSample
		expected float64
	}{
		{
			name:    "Normal usage",
			prev:    CPUSample{Busy: 150, Total: 950},
			current: CPUSample{Busy: 175, Total: 985},
			// 100 * 25 / 35 = 71.42857...
			expected: 71.42857142857143,
		},
		{
			name:     "Idle machine",
			prev:     CPUSample{Busy: 150, Total: 950},
			current:  CPUSample{Busy: 150, Total: 985},
			expected: 0.0,
		},
		{
			name:     "No counter movement",
			prev:     CPUSample{Busy: 150, Total: 950},
			current:  CPUSample{Busy: 150, Total: 950},
			expected: 0.0,
		},
		{
			name:     "Capped at 100",
			prev:     CPUSample{Busy: 100, Total: 950},
			current:  CPUSample{Busy: 200, Total: 1000},
			expected: 100.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateCPUUsage(tt.prev, tt.current)
			if math.Abs(got-tt.expected) > tolerance {
				t.Errorf("CalculateCPUUsage() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestCalculateUsedPercent(t *testing.T) {
	tests := []struct {
		name     string
		used     uint64
		total    uint64
		expected float64
	}{
		{name: "Half used", used: 512, total: 1024, expected: 50.0},
		{name: "Zero total", used: 512, total: 0, expected: 0.0},
		{name: "Fully used", used: 1024, total: 1024, expected: 100.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateUsedPercent(tt.used, tt.total)
			if math.Abs(got-tt.expected) > tolerance {
				t.Errorf("CalculateUsedPercent() = %v, want %v", got, tt.expected)
			}
		})
	}
}
