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

import "time"

// CalculateUsagePercent calculates a usage percentage from two readings of a
// monotonic time counter (e.g. cumulative CPU seconds of a process).
// Formula: 100 × Δcounter / elapsed, divided by cores when cores > 1 for a
// per-core-normalized figure.
//
// Returns 0 when elapsed is not positive or the counter went backwards.
func CalculateUsagePercent(prevCounter, currCounter float64, elapsed time.Duration, cores int) float64 {
	seconds := elapsed.Seconds()
	if seconds <= 0 {
		return 0.0
	}

	delta := currCounter - prevCounter
	if delta < 0 {
		return 0.0
	}

	usage := 100.0 * delta / seconds
	if cores > 1 {
		usage /= float64(cores)
	}

	return usage
}

// CalculateRate calculates a per-second rate from two readings of a monotonic
// event counter (bytes transferred, operations completed).
//
// Returns 0 when elapsed is not positive or the counter went backwards
// (e.g. after a counter reset).
func CalculateRate(prevCount, currCount uint64, elapsed time.Duration) float64 {
	seconds := elapsed.Seconds()
	if seconds <= 0 {
		return 0.0
	}

	if currCount < prevCount {
		return 0.0
	}

	return float64(currCount-prevCount) / seconds
}

// CalculateCPUUsage calculates CPU utilization percentage from two CPU time
// samples. Formula: 100 × ΔBusy / ΔTotal.
//
// Using the counter total rather than wall-clock elapsed keeps the figure in
// [0, 100] for both per-core and machine-aggregated samples.
func CalculateCPUUsage(prev, current CPUSample) float64 {
	deltaTotal := current.Total - prev.Total
	if deltaTotal <= 0 {
		return 0.0
	}

	deltaBusy := current.Busy - prev.Busy
	if deltaBusy <= 0 {
		return 0.0
	}

	usage := 100.0 * deltaBusy / deltaTotal
	if usage > 100.0 {
		usage = 100.0
	}

	return usage
}

// CalculateUsedPercent calculates an instantaneous used/total percentage.
// Returns 0 when total is zero.
func CalculateUsedPercent(used, total uint64) float64 {
	if total == 0 {
		return 0.0
	}

	return 100.0 * float64(used) / float64(total)
}
