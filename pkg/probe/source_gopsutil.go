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
	"fmt"
	"log/slog"
	"runtime"
	"strings"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/net"
	"github.com/shirou/gopsutil/v3/process"

	"github.com/phuonguno98/unosys/pkg/metrics"
)

// Dependency injection points for testing
var (
	cpuTimes       = cpu.Times
	cpuInfo        = cpu.Info
	cpuCounts      = cpu.Counts
	vmStat         = mem.VirtualMemory
	swapStat       = mem.SwapMemory
	diskPartitions = disk.Partitions
	diskUsage      = disk.Usage
	diskIOCounters = disk.IOCounters
	netIOCounters  = net.IOCounters
	netInterfaces  = net.Interfaces
	sensorTemps    = host.SensorsTemperatures
	hostUsers      = host.Users
	processPids    = process.Pids
)

// gopsutilSource reads OS counters through gopsutil. All errors degrade to
// absent data; nothing here ever propagates a failure into a refresh call.
type gopsutilSource struct {
	logger *slog.Logger
	cores  int
}

// NewGopsutilSource creates the default capability source backed by gopsutil.
func NewGopsutilSource(logger *slog.Logger) Source {
	cores, err := cpuCounts(true)
	if err != nil {
		logger.Debug("Failed to count CPU cores", "error", err)
		cores = 0
	}

	return &gopsutilSource{
		logger: logger,
		cores:  cores,
	}
}

// Supported reports whether gopsutil has a working backend for this OS.
func (g *gopsutilSource) Supported() bool {
	switch runtime.GOOS {
	case "linux", "windows", "darwin", "freebsd", "openbsd", "solaris":
		return true
	default:
		return false
	}
}

// CoreCount returns the logical core count detected at startup.
func (g *gopsutilSource) CoreCount() int { return g.cores }

// ProcessIDs lists the PIDs of all running processes, best effort.
func (g *gopsutilSource) ProcessIDs() []int32 {
	pids, err := processPids()
	if err != nil {
		g.logger.Debug("Failed to list processes", "error", err)
		return nil
	}
	return pids
}

// ProcessSample reads one process, honoring the per-field update policies.
// Fields that fail to read keep the previous sample's value and presence
// flag, so a persistently unreadable field is not busy-retried by
// OnlyIfNotSet any differently from one merely not yet fetched.
func (g *gopsutilSource) ProcessSample(pid int32, kind ProcessRefreshKind, prev *metrics.ProcessSample) (metrics.ProcessSample, bool) {
	p, err := process.NewProcess(pid)
	if err != nil {
		return metrics.ProcessSample{}, false
	}

	var sample metrics.ProcessSample
	if prev != nil {
		sample = *prev
	}

	if name, err := p.Name(); err == nil {
		sample.Name = name
	}
	if statuses, err := p.Status(); err == nil {
		sample.Status = strings.Join(statuses, ",")
	}
	if prev == nil {
		if created, err := p.CreateTime(); err == nil {
			sample.CreateTime = created
		}
	}

	if kind.CPU() {
		if times, err := p.Times(); err == nil {
			sample.CPUTime = times.User + times.System
		}
	}

	if kind.Memory() {
		if mi, err := p.MemoryInfo(); err == nil && mi != nil {
			sample.RSS = mi.RSS
			sample.VMS = mi.VMS
		}
	}

	if kind.DiskIO() {
		if io, err := p.IOCounters(); err == nil && io != nil {
			sample.ReadBytes = io.ReadBytes
			sample.WriteBytes = io.WriteBytes
		}
	}

	if kind.Exe().NeedsUpdate(sample.ExeSet) {
		if exe, err := p.Exe(); err == nil {
			sample.Exe = exe
			sample.ExeSet = true
		}
	}

	if kind.Cwd().NeedsUpdate(sample.CwdSet) {
		if cwd, err := p.Cwd(); err == nil {
			sample.Cwd = cwd
			sample.CwdSet = true
		}
	}

	if kind.Cmdline().NeedsUpdate(sample.CmdlineSet) {
		if cmdline, err := p.CmdlineSlice(); err == nil {
			sample.Cmdline = cmdline
			sample.CmdlineSet = true
		}
	}

	if kind.Environ().NeedsUpdate(sample.EnvironSet) {
		if environ, err := p.Environ(); err == nil {
			sample.Environ = environ
			sample.EnvironSet = true
		}
	}

	if kind.User().NeedsUpdate(sample.UserSet) {
		if username, err := p.Username(); err == nil {
			sample.Username = username
			sample.UserSet = true
		}
	}

	return sample, true
}

// cpuSampleFromTimes folds a gopsutil times row into busy/total counters.
// Guest time is excluded: on Linux it is already accounted inside User.
func cpuSampleFromTimes(t cpu.TimesStat) metrics.CPUSample {
	total := t.User + t.System + t.Idle + t.Nice + t.Iowait + t.Irq + t.Softirq + t.Steal
	return metrics.CPUSample{
		Busy:  total - t.Idle - t.Iowait,
		Total: total,
	}
}

// CPUSamples reads per-core counters plus the machine aggregate.
func (g *gopsutilSource) CPUSamples(kind CPURefreshKind) map[string]metrics.CPUSample {
	samples := make(map[string]metrics.CPUSample)

	if kind.Usage() {
		if times, err := cpuTimes(false); err == nil && len(times) > 0 {
			samples[TotalCPUKey] = cpuSampleFromTimes(times[0])
		} else if err != nil {
			g.logger.Debug("Failed to read aggregate CPU times", "error", err)
		}

		if times, err := cpuTimes(true); err == nil {
			for i := range times {
				samples[times[i].CPU] = cpuSampleFromTimes(times[i])
			}
		} else {
			g.logger.Debug("Failed to read per-core CPU times", "error", err)
		}
	}

	if kind.Frequency() {
		infos, err := cpuInfo()
		if err != nil {
			g.logger.Debug("Failed to read CPU frequency", "error", err)
			return samples
		}

		var sum float64
		for i := range infos {
			key := fmt.Sprintf("cpu%d", infos[i].CPU)
			s := samples[key]
			s.FrequencyMHz = infos[i].Mhz
			samples[key] = s
			sum += infos[i].Mhz
		}

		if len(infos) > 0 {
			s := samples[TotalCPUKey]
			s.FrequencyMHz = sum / float64(len(infos))
			samples[TotalCPUKey] = s
		}
	}

	return samples
}

// MemorySample reads machine-wide RAM and swap counters.
func (g *gopsutilSource) MemorySample(kind MemoryRefreshKind) (metrics.MemorySample, bool) {
	var sample metrics.MemorySample
	ok := false

	if kind.RAM() {
		if vm, err := vmStat(); err == nil && vm != nil {
			sample.Total = vm.Total
			sample.Available = vm.Available
			sample.Used = vm.Used
			sample.Free = vm.Free
			ok = true
		} else if err != nil {
			g.logger.Debug("Failed to read virtual memory", "error", err)
		}
	}

	if kind.Swap() {
		if swap, err := swapStat(); err == nil && swap != nil {
			sample.SwapTotal = swap.Total
			sample.SwapUsed = swap.Used
			sample.SwapFree = swap.Free
			ok = true
		} else if err != nil {
			g.logger.Debug("Failed to read swap memory", "error", err)
		}
	}

	return sample, ok
}

// normalizeDeviceName strips the /dev/ prefix so partition devices and I/O
// counter keys compare equal.
func normalizeDeviceName(name string) string {
	return strings.TrimPrefix(name, "/dev/")
}

// DiskSamples reads every mounted partition, keyed by device name, with I/O
// counters overlaid where the OS reports them.
func (g *gopsutilSource) DiskSamples() map[string]metrics.DiskSample {
	partitions, err := diskPartitions(false)
	if err != nil {
		g.logger.Debug("Failed to list disk partitions", "error", err)
		return nil
	}

	counters, err := diskIOCounters()
	if err != nil {
		g.logger.Debug("Failed to read disk I/O counters", "error", err)
		counters = nil
	}

	samples := make(map[string]metrics.DiskSample, len(partitions))
	for _, partition := range partitions {
		device := normalizeDeviceName(partition.Device)
		if _, dup := samples[device]; dup {
			continue
		}

		sample := metrics.DiskSample{
			Mountpoint: partition.Mountpoint,
			Filesystem: partition.Fstype,
		}

		if usage, err := diskUsage(partition.Mountpoint); err == nil && usage != nil {
			sample.TotalSpace = usage.Total
			sample.FreeSpace = usage.Free
		}

		if counter, ok := counters[device]; ok {
			sample.ReadBytes = counter.ReadBytes
			sample.WriteBytes = counter.WriteBytes
			sample.ReadCount = counter.ReadCount
			sample.WriteCount = counter.WriteCount
		}

		samples[device] = sample
	}

	return samples
}

// NetSamples reads every network interface, keyed by interface name.
func (g *gopsutilSource) NetSamples() map[string]metrics.NetSample {
	counters, err := netIOCounters(true)
	if err != nil {
		g.logger.Debug("Failed to read network I/O counters", "error", err)
		return nil
	}

	macs := make(map[string]string)
	if ifaces, err := netInterfaces(); err == nil {
		for _, iface := range ifaces {
			macs[iface.Name] = iface.HardwareAddr
		}
	}

	samples := make(map[string]metrics.NetSample, len(counters))
	for _, counter := range counters {
		samples[counter.Name] = metrics.NetSample{
			MacAddress:  macs[counter.Name],
			BytesSent:   counter.BytesSent,
			BytesRecv:   counter.BytesRecv,
			PacketsSent: counter.PacketsSent,
			PacketsRecv: counter.PacketsRecv,
			ErrorsIn:    counter.Errin,
			ErrorsOut:   counter.Errout,
		}
	}

	return samples
}

// SensorSamples reads temperature sensors, keyed by sensor label.
func (g *gopsutilSource) SensorSamples() map[string]metrics.SensorSample {
	temps, err := sensorTemps()
	if err != nil {
		g.logger.Debug("Failed to read temperature sensors", "error", err)
		return nil
	}

	samples := make(map[string]metrics.SensorSample, len(temps))
	for _, t := range temps {
		if t.SensorKey == "" {
			continue
		}
		samples[t.SensorKey] = metrics.SensorSample{
			TemperatureC: t.Temperature,
			HighC:        t.High,
			CriticalC:    t.Critical,
		}
	}

	return samples
}

// UserSamples reads logged-in users, keyed by user name.
func (g *gopsutilSource) UserSamples() map[string]metrics.UserSample {
	users, err := hostUsers()
	if err != nil {
		g.logger.Debug("Failed to list users", "error", err)
		return nil
	}

	samples := make(map[string]metrics.UserSample, len(users))
	for _, u := range users {
		if u.User == "" {
			continue
		}
		if _, dup := samples[u.User]; dup {
			continue
		}
		samples[u.User] = metrics.UserSample{
			Terminal: u.Terminal,
			Host:     u.Host,
			Started:  int64(u.Started),
		}
	}

	return samples
}
