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

import "github.com/phuonguno98/unosys/pkg/metrics"

// Source is the capability source consumed by the engine: the
// platform-specific component that performs the actual OS queries and yields
// one fresh immutable reading per entity.
//
// Sources never surface errors to the engine. An entity that cannot be read
// is simply absent from the returned set, which reconciliation treats the
// same as a vanished entity; a single unreadable field leaves the record's
// prior value (and presence flag) untouched. Timeouts and retries against
// the OS are the source's own business.
type Source interface {
	// Supported reports whether the source can query the running platform.
	// An unsupported source still satisfies the contract by returning empty
	// sets everywhere.
	Supported() bool

	// CoreCount returns the number of logical CPU cores, or 0 when unknown.
	CoreCount() int

	// ProcessIDs lists the identities of all running processes, best effort.
	ProcessIDs() []int32

	// ProcessSample reads one process. prev, when non-nil, carries the
	// record's previous sample so unrequested optional fields keep their
	// values and presence flags. ok is false when the process is absent.
	ProcessSample(pid int32, kind ProcessRefreshKind, prev *metrics.ProcessSample) (sample metrics.ProcessSample, ok bool)

	// CPUSamples reads per-core CPU counters plus the machine-wide aggregate
	// under the TotalCPUKey identity.
	CPUSamples(kind CPURefreshKind) map[string]metrics.CPUSample

	// MemorySample reads machine-wide memory counters. ok is false when
	// nothing could be read.
	MemorySample(kind MemoryRefreshKind) (sample metrics.MemorySample, ok bool)

	// DiskSamples reads all disk devices, keyed by device name.
	DiskSamples() map[string]metrics.DiskSample

	// NetSamples reads all network interfaces, keyed by interface name.
	NetSamples() map[string]metrics.NetSample

	// SensorSamples reads all temperature sensors, keyed by sensor label.
	SensorSamples() map[string]metrics.SensorSample

	// UserSamples reads logged-in users, keyed by user name.
	UserSamples() map[string]metrics.UserSample
}

// TotalCPUKey is the identity of the machine-wide aggregate CPU record kept
// in the CPU registry next to the per-core records.
const TotalCPUKey = "total"

// MemoryKey is the identity of the single machine-wide memory record.
const MemoryKey = "memory"

// emptySource is the degraded source used when no capability source is
// available for the running platform: every query yields nothing, so the
// engine exposes empty registries and zero global metrics instead of failing.
type emptySource struct{}

func (emptySource) Supported() bool      { return false }
func (emptySource) CoreCount() int       { return 0 }
func (emptySource) ProcessIDs() []int32  { return nil }
func (emptySource) ProcessSample(int32, ProcessRefreshKind, *metrics.ProcessSample) (metrics.ProcessSample, bool) {
	return metrics.ProcessSample{}, false
}
func (emptySource) CPUSamples(CPURefreshKind) map[string]metrics.CPUSample { return nil }
func (emptySource) MemorySample(MemoryRefreshKind) (metrics.MemorySample, bool) {
	return metrics.MemorySample{}, false
}
func (emptySource) DiskSamples() map[string]metrics.DiskSample     { return nil }
func (emptySource) NetSamples() map[string]metrics.NetSample       { return nil }
func (emptySource) SensorSamples() map[string]metrics.SensorSample { return nil }
func (emptySource) UserSamples() map[string]metrics.UserSample     { return nil }
