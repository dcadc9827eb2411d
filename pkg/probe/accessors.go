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
	"sort"
	"strings"

	"github.com/phuonguno98/unosys/pkg/metrics"
)

// All accessors return value copies taken under the read lock, so callers
// hold a consistent committed view no matter what later refreshes do.

// CPUInfo is a read-only view of one CPU record.
type CPUInfo struct {
	Name    string
	Sample  metrics.CPUSample
	Metrics metrics.CPUMetrics
}

// ProcessInfo is a read-only view of one process record.
type ProcessInfo struct {
	PID     int32
	Sample  metrics.ProcessSample
	Metrics metrics.ProcessMetrics
	Gone    bool
}

// DiskInfo is a read-only view of one disk record.
type DiskInfo struct {
	Device  string
	Sample  metrics.DiskSample
	Metrics metrics.DiskMetrics
}

// NetInfo is a read-only view of one network interface record.
type NetInfo struct {
	Name    string
	Sample  metrics.NetSample
	Metrics metrics.NetMetrics
}

// SensorInfo is a read-only view of one temperature sensor record.
type SensorInfo struct {
	Label  string
	Sample metrics.SensorSample
}

// UserInfo is a read-only view of one logged-in user record.
type UserInfo struct {
	Name   string
	Sample metrics.UserSample
}

// GlobalCPUUsage returns the machine-wide CPU usage percentage, or 0 before
// two accepted CPU samples exist.
func (s *System) GlobalCPUUsage() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.cpus.Get(TotalCPUKey)
	if !ok {
		return 0.0
	}
	return rec.Derived().UsagePercent
}

// CPUs returns the per-core records, sorted by name. The aggregate record is
// excluded; use GlobalCPUUsage for it.
func (s *System) CPUs() []CPUInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	infos := make([]CPUInfo, 0, s.cpus.Len())
	s.cpus.Each(func(name string, rec *Record[metrics.CPUSample, metrics.CPUMetrics]) bool {
		if name != TotalCPUKey {
			infos = append(infos, CPUInfo{Name: name, Sample: rec.Current(), Metrics: rec.Derived()})
		}
		return true
	})

	sort.Slice(infos, func(i, j int) bool {
		// cpu2 before cpu10
		if len(infos[i].Name) != len(infos[j].Name) {
			return len(infos[i].Name) < len(infos[j].Name)
		}
		return infos[i].Name < infos[j].Name
	})
	return infos
}

// Memory returns the machine-wide memory sample and its derived metrics.
// Both are zero before the first memory refresh.
func (s *System) Memory() (metrics.MemorySample, metrics.MemoryMetrics) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.memory.Get(MemoryKey)
	if !ok {
		return metrics.MemorySample{}, metrics.MemoryMetrics{}
	}
	return rec.Current(), rec.Derived()
}

// Processes returns all process records, gone ones included, sorted by pid.
func (s *System) Processes() []ProcessInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	infos := make([]ProcessInfo, 0, s.processes.Len())
	s.processes.Each(func(pid int32, rec *Record[metrics.ProcessSample, metrics.ProcessMetrics]) bool {
		infos = append(infos, ProcessInfo{PID: pid, Sample: rec.Current(), Metrics: rec.Derived(), Gone: rec.Gone()})
		return true
	})

	sort.Slice(infos, func(i, j int) bool { return infos[i].PID < infos[j].PID })
	return infos
}

// Process returns the record for one pid.
func (s *System) Process(pid int32) (ProcessInfo, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.processes.Get(pid)
	if !ok {
		return ProcessInfo{}, false
	}
	return ProcessInfo{PID: pid, Sample: rec.Current(), Metrics: rec.Derived(), Gone: rec.Gone()}, true
}

// ProcessCount returns the number of process records, gone ones included,
// without materializing the sorted Processes slice.
func (s *System) ProcessCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.processes.Len()
}

// Disks returns all disk records, sorted by device name.
func (s *System) Disks() []DiskInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	infos := make([]DiskInfo, 0, s.disks.Len())
	s.disks.Each(func(device string, rec *Record[metrics.DiskSample, metrics.DiskMetrics]) bool {
		infos = append(infos, DiskInfo{Device: device, Sample: rec.Current(), Metrics: rec.Derived()})
		return true
	})

	sort.Slice(infos, func(i, j int) bool { return infos[i].Device < infos[j].Device })
	return infos
}

// Networks returns all network interface records, sorted by name.
func (s *System) Networks() []NetInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	infos := make([]NetInfo, 0, s.networks.Len())
	s.networks.Each(func(name string, rec *Record[metrics.NetSample, metrics.NetMetrics]) bool {
		infos = append(infos, NetInfo{Name: name, Sample: rec.Current(), Metrics: rec.Derived()})
		return true
	})

	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}

// Sensors returns all temperature sensor records, sorted by label.
func (s *System) Sensors() []SensorInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	infos := make([]SensorInfo, 0, s.sensors.Len())
	s.sensors.Each(func(label string, rec *Record[metrics.SensorSample, struct{}]) bool {
		infos = append(infos, SensorInfo{Label: label, Sample: rec.Current()})
		return true
	})

	sort.Slice(infos, func(i, j int) bool { return infos[i].Label < infos[j].Label })
	return infos
}

// Users returns all logged-in user records, sorted by name.
func (s *System) Users() []UserInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	infos := make([]UserInfo, 0, s.users.Len())
	s.users.Each(func(name string, rec *Record[metrics.UserSample, struct{}]) bool {
		infos = append(infos, UserInfo{Name: name, Sample: rec.Current()})
		return true
	})

	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}

// Snapshot flattens the committed state into one machine-wide view, filtered
// by the include/exclude lists (empty include means everything). Used by the
// CSV exporter and the watch command.
func (s *System) Snapshot(includeDisks, excludeDisks, includeNets, excludeNets []string) *metrics.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := &metrics.Snapshot{
		Timestamp: s.now(),
		Disks:     make(map[string]metrics.DiskMetrics),
		Networks:  make(map[string]metrics.NetMetrics),
	}

	if rec, ok := s.cpus.Get(TotalCPUKey); ok {
		snap.CPU = rec.Derived().UsagePercent
	}
	if rec, ok := s.memory.Get(MemoryKey); ok {
		snap.Memory = rec.Derived().UsedPercent
	}

	s.disks.Each(func(device string, rec *Record[metrics.DiskSample, metrics.DiskMetrics]) bool {
		if shouldMonitor(device, includeDisks, excludeDisks) {
			snap.Disks[device] = rec.Derived()
		}
		return true
	})

	s.networks.Each(func(name string, rec *Record[metrics.NetSample, metrics.NetMetrics]) bool {
		if shouldMonitor(name, includeNets, excludeNets) {
			snap.Networks[name] = rec.Derived()
		}
		return true
	})

	snap.ProcessCount = s.processes.Len()
	return snap
}

// shouldMonitor applies include/exclude filters to a device name. Exclusion
// wins; an empty include list admits everything.
func shouldMonitor(name string, include, exclude []string) bool {
	for _, excluded := range exclude {
		if strings.EqualFold(excluded, name) {
			return false
		}
	}

	if len(include) == 0 {
		return true
	}

	for _, included := range include {
		if strings.EqualFold(included, name) {
			return true
		}
	}
	return false
}
