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

// Package metrics defines the immutable sample types read from the operating
// system and the pure functions that turn two consecutive samples plus elapsed
// time into derived figures (usage percentages, transfer rates).
//
// Samples are never mutated after creation; derivation never fails and never
// returns NaN. A missing previous sample always yields zero, meaning
// "no data yet", not "idle".
package metrics

import "time"

// CPUSample is one point-in-time reading of a logical CPU's time counters.
// Busy and Total are cumulative seconds since boot.
type CPUSample struct {
	Busy         float64
	Total        float64
	FrequencyMHz float64
}

// CPUMetrics holds figures derived from two CPUSamples.
type CPUMetrics struct {
	UsagePercent float64 // Share of non-idle time between the two samples
}

// MemorySample is one point-in-time reading of machine-wide memory counters.
type MemorySample struct {
	Total     uint64
	Available uint64
	Used      uint64
	Free      uint64
	SwapTotal uint64
	SwapUsed  uint64
	SwapFree  uint64
}

// MemoryMetrics holds figures derived from a MemorySample.
type MemoryMetrics struct {
	UsedPercent     float64
	SwapUsedPercent float64
}

// ProcessSample is one point-in-time reading of a single process.
//
// CPUTime, ReadBytes and WriteBytes are monotonic counters; the rest are
// instantaneous values. Optional fields carry a presence flag so that a
// caller-requested update policy can distinguish "never fetched" from
// "fetched, possibly empty".
type ProcessSample struct {
	Name       string
	Status     string
	CreateTime int64 // Unix milliseconds

	CPUTime    float64 // Cumulative user+system CPU seconds
	RSS        uint64
	VMS        uint64
	ReadBytes  uint64
	WriteBytes uint64

	// Optional fields, each guarded by a presence flag.
	Exe        string
	ExeSet     bool
	Cwd        string
	CwdSet     bool
	Cmdline    []string
	CmdlineSet bool
	Environ    []string
	EnvironSet bool
	Username   string
	UserSet    bool
}

// ProcessMetrics holds figures derived from two ProcessSamples.
type ProcessMetrics struct {
	CPUUsagePercent  float64
	ReadBytesPerSec  float64
	WriteBytesPerSec float64
}

// DiskSample is one point-in-time reading of a disk device: I/O counters plus
// space figures for its mount point.
type DiskSample struct {
	Mountpoint string
	Filesystem string

	ReadBytes  uint64
	WriteBytes uint64
	ReadCount  uint64
	WriteCount uint64

	TotalSpace uint64
	FreeSpace  uint64
}

// DiskMetrics holds figures derived from two DiskSamples.
type DiskMetrics struct {
	ReadBytesPerSec  float64
	WriteBytesPerSec float64
	ReadOpsPerSec    float64
	WriteOpsPerSec   float64
}

// NetSample is one point-in-time reading of a network interface's counters.
type NetSample struct {
	MacAddress string

	BytesSent   uint64
	BytesRecv   uint64
	PacketsSent uint64
	PacketsRecv uint64
	ErrorsIn    uint64
	ErrorsOut   uint64
}

// NetMetrics holds figures derived from two NetSamples.
type NetMetrics struct {
	RecvBytesPerSec   float64
	SentBytesPerSec   float64
	RecvPacketsPerSec float64
	SentPacketsPerSec float64
}

// SensorSample is one point-in-time reading of a temperature sensor.
type SensorSample struct {
	TemperatureC float64
	HighC        float64
	CriticalC    float64
}

// UserSample describes one logged-in user session.
type UserSample struct {
	Terminal string
	Host     string
	Started  int64 // Unix seconds
}

// Snapshot is a flattened machine-wide view of derived metrics at one
// instant, consumed by the CSV exporter and the watch command.
type Snapshot struct {
	Timestamp    time.Time
	CPU          float64 // Aggregate CPU usage percentage
	Memory       float64 // Memory used percentage
	Disks        map[string]DiskMetrics
	Networks     map[string]NetMetrics
	ProcessCount int
}
