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

// Package probe turns repeated one-shot OS readings into stable, comparable
// derived metrics. It reconciles each new reading set against previous state
// (entities appear, disappear and reuse identities between samples), diffs
// monotonic counters and derives usage percentages and transfer rates.
//
// The System facade composes one identity-keyed registry per entity kind
// (CPUs, memory, processes, disks, network interfaces, sensors, users), a
// sample clock enforcing minimum inter-sample intervals, and a capability
// source performing the actual platform queries. Refresh calls never fail;
// everything the OS cannot answer surfaces as missing or zero data.
package probe

import (
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/phuonguno98/unosys/pkg/metrics"
)

// System is the engine facade. It is safe for concurrent use: refreshes are
// serialized, readers only ever observe fully-committed registry state.
type System struct {
	mu     sync.RWMutex
	src    Source
	clock  *SampleClock
	logger *slog.Logger
	now    func() time.Time

	workers      int
	normalizeCPU bool
	coreCount    int

	cpus      *Registry[string, metrics.CPUSample, metrics.CPUMetrics]
	memory    *Registry[string, metrics.MemorySample, metrics.MemoryMetrics]
	processes *Registry[int32, metrics.ProcessSample, metrics.ProcessMetrics]
	disks     *Registry[string, metrics.DiskSample, metrics.DiskMetrics]
	networks  *Registry[string, metrics.NetSample, metrics.NetMetrics]
	sensors   *Registry[string, metrics.SensorSample, struct{}]
	users     *Registry[string, metrics.UserSample, struct{}]
}

// Option configures a System.
type Option func(*System)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *System) { s.logger = logger }
}

// WithSource replaces the default gopsutil-backed capability source.
func WithSource(src Source) Option {
	return func(s *System) { s.src = src }
}

// WithWorkers bounds the worker pool used to enumerate processes in
// parallel. Defaults to the number of logical CPUs.
func WithWorkers(n int) Option {
	return func(s *System) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithNormalizedCPU divides per-process CPU usage by the core count, yielding
// a per-core-normalized figure instead of the aggregate one.
func WithNormalizedCPU() Option {
	return func(s *System) { s.normalizeCPU = true }
}

// NewSystem creates a System with empty registries. It never fails: on an
// unsupported platform the engine degrades to empty registries and zero
// global metrics. Use one of the refresh methods to load data.
func NewSystem(opts ...Option) *System {
	s := &System{
		clock:   NewSampleClock(),
		logger:  slog.Default(),
		now:     time.Now,
		workers: runtime.NumCPU(),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.src == nil {
		s.src = NewGopsutilSource(s.logger)
	}
	if !s.src.Supported() {
		s.logger.Warn("Platform not supported, metrics will be empty")
		s.src = emptySource{}
	}
	s.coreCount = s.src.CoreCount()

	s.cpus = NewRegistry[string](func(prev, curr metrics.CPUSample, _ time.Duration) metrics.CPUMetrics {
		return metrics.CPUMetrics{UsagePercent: metrics.CalculateCPUUsage(prev, curr)}
	})

	s.memory = NewRegistry[string](func(_, curr metrics.MemorySample, _ time.Duration) metrics.MemoryMetrics {
		return metrics.MemoryMetrics{
			UsedPercent:     metrics.CalculateUsedPercent(curr.Used, curr.Total),
			SwapUsedPercent: metrics.CalculateUsedPercent(curr.SwapUsed, curr.SwapTotal),
		}
	})

	s.processes = NewRegistry[int32](func(prev, curr metrics.ProcessSample, elapsed time.Duration) metrics.ProcessMetrics {
		cores := 1
		if s.normalizeCPU && s.coreCount > 1 {
			cores = s.coreCount
		}
		return metrics.ProcessMetrics{
			CPUUsagePercent:  metrics.CalculateUsagePercent(prev.CPUTime, curr.CPUTime, elapsed, cores),
			ReadBytesPerSec:  metrics.CalculateRate(prev.ReadBytes, curr.ReadBytes, elapsed),
			WriteBytesPerSec: metrics.CalculateRate(prev.WriteBytes, curr.WriteBytes, elapsed),
		}
	})

	s.disks = NewRegistry[string](func(prev, curr metrics.DiskSample, elapsed time.Duration) metrics.DiskMetrics {
		return metrics.DiskMetrics{
			ReadBytesPerSec:  metrics.CalculateRate(prev.ReadBytes, curr.ReadBytes, elapsed),
			WriteBytesPerSec: metrics.CalculateRate(prev.WriteBytes, curr.WriteBytes, elapsed),
			ReadOpsPerSec:    metrics.CalculateRate(prev.ReadCount, curr.ReadCount, elapsed),
			WriteOpsPerSec:   metrics.CalculateRate(prev.WriteCount, curr.WriteCount, elapsed),
		}
	})

	s.networks = NewRegistry[string](func(prev, curr metrics.NetSample, elapsed time.Duration) metrics.NetMetrics {
		return metrics.NetMetrics{
			RecvBytesPerSec:   metrics.CalculateRate(prev.BytesRecv, curr.BytesRecv, elapsed),
			SentBytesPerSec:   metrics.CalculateRate(prev.BytesSent, curr.BytesSent, elapsed),
			RecvPacketsPerSec: metrics.CalculateRate(prev.PacketsRecv, curr.PacketsRecv, elapsed),
			SentPacketsPerSec: metrics.CalculateRate(prev.PacketsSent, curr.PacketsSent, elapsed),
		}
	})

	s.sensors = NewRegistry[string](func(_, _ metrics.SensorSample, _ time.Duration) struct{} {
		return struct{}{}
	})

	s.users = NewRegistry[string](func(_, _ metrics.UserSample, _ time.Duration) struct{} {
		return struct{}{}
	})

	return s
}

// Supported reports whether a capability source exists for this platform.
func (s *System) Supported() bool { return s.src.Supported() }

// CoreCount returns the number of logical CPU cores, or 0 when unknown.
func (s *System) CoreCount() int { return s.coreCount }

// Refresh refreshes every entity kind the given specification wants. It
// never returns an error: whatever the platform cannot answer is exposed as
// missing or zero data.
func (s *System) Refresh(kind RefreshKind) {
	if c, ok := kind.CPU(); ok {
		s.RefreshCPU(c)
	}
	if m, ok := kind.Memory(); ok {
		s.RefreshMemory(m)
	}
	if p, ok := kind.Processes(); ok {
		s.RefreshProcesses(p, nil, false)
	}
	if kind.Wants(KindDisks) {
		s.RefreshDisks()
	}
	if kind.Wants(KindNetworks) {
		s.RefreshNetworks()
	}
	if kind.Wants(KindSensors) {
		s.RefreshSensors()
	}
	if kind.Wants(KindUsers) {
		s.RefreshUsers()
	}
}

// RefreshAll refreshes everything.
func (s *System) RefreshAll() { s.Refresh(Everything()) }

// RefreshCPU refreshes the per-core and aggregate CPU records.
//
// Usage refreshes are gated by the minimum CPU sampling interval: below it,
// only newly-appeared cores are admitted and committed state is untouched.
// A frequency-only refresh patches frequencies in place without disturbing
// the counter baseline.
func (s *System) RefreshCPU(kind CPURefreshKind) {
	if !kind.Usage() && !kind.Frequency() {
		return
	}

	now := s.now()
	readings := s.src.CPUSamples(kind)
	if len(readings) == 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !kind.Usage() {
		// Frequency only: existing records keep their counters and usage.
		unseen := make(map[string]metrics.CPUSample)
		for id, sample := range readings {
			mhz := sample.FrequencyMHz
			patched := s.cpus.Patch(id, func(curr metrics.CPUSample) metrics.CPUSample {
				curr.FrequencyMHz = mhz
				return curr
			})
			if !patched {
				unseen[id] = sample
			}
		}
		if len(unseen) > 0 {
			s.cpus.Reconcile(unseen, now, ReconcileOptions[string]{AdmitOnly: true})
		}
		return
	}

	if !kind.Frequency() {
		// Carry the last known frequency forward; it was not requested.
		for id, sample := range readings {
			if rec, ok := s.cpus.Get(id); ok {
				sample.FrequencyMHz = rec.Current().FrequencyMHz
				readings[id] = sample
			}
		}
	}

	admitOnly := !s.clock.ShouldSample(KindCPU, now)
	report := s.cpus.Reconcile(readings, now, ReconcileOptions[string]{AdmitOnly: admitOnly})
	s.logger.Debug("CPU refresh", "inserted", report.Inserted, "updated", report.Updated, "coalesced", admitOnly)
}

// RefreshMemory refreshes the machine-wide memory record. RAM and swap are
// fetched independently; whichever half is not requested keeps its previous
// values.
func (s *System) RefreshMemory(kind MemoryRefreshKind) {
	if !kind.RAM() && !kind.Swap() {
		return
	}

	now := s.now()
	sample, ok := s.src.MemorySample(kind)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if rec, exists := s.memory.Get(MemoryKey); exists {
		prev := rec.Current()
		if !kind.RAM() {
			sample.Total = prev.Total
			sample.Available = prev.Available
			sample.Used = prev.Used
			sample.Free = prev.Free
		}
		if !kind.Swap() {
			sample.SwapTotal = prev.SwapTotal
			sample.SwapUsed = prev.SwapUsed
			sample.SwapFree = prev.SwapFree
		}
	}

	s.clock.ShouldSample(KindMemory, now)
	s.memory.Reconcile(map[string]metrics.MemorySample{MemoryKey: sample}, now, ReconcileOptions[string]{})
}

// RefreshProcesses refreshes processes per the given specification.
//
// pids, when non-nil, limits the refresh to that subset: records outside it
// are left completely undisturbed, and only subset members can be reported
// missing. retainGone keeps records of vanished processes, flagged gone,
// until a later non-retaining refresh or PurgeGoneProcesses.
//
// Enumeration fans out over a bounded worker pool and joins before
// reconciliation, so the registry always commits a complete reading set.
// Returns the number of records inserted or updated.
func (s *System) RefreshProcesses(kind ProcessRefreshKind, pids []int32, retainGone bool) int {
	now := s.now()

	ids := pids
	if ids == nil {
		ids = s.src.ProcessIDs()
	}

	admitOnly := !s.clock.ShouldSample(KindProcesses, now)

	readings := collectParallel(ids, s.workers, func(pid int32) (metrics.ProcessSample, bool) {
		return s.src.ProcessSample(pid, kind, s.liveProcessSample(pid))
	})

	s.mu.Lock()
	defer s.mu.Unlock()

	report := s.processes.Reconcile(readings, now, ReconcileOptions[int32]{
		RetainRemoved: retainGone,
		AdmitOnly:     admitOnly,
		Scope:         pids,
	})
	s.logger.Debug("Process refresh",
		"inserted", report.Inserted,
		"updated", report.Updated,
		"removed", report.Removed,
		"retained", report.Retained,
		"coalesced", admitOnly,
	)

	return report.Inserted + report.Updated
}

// liveProcessSample returns a copy of the committed sample for pid, or nil
// when the record is absent or gone. A gone record's sample is deliberately
// not reused: a reappearing pid is a new process.
func (s *System) liveProcessSample(pid int32) *metrics.ProcessSample {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.processes.Get(pid)
	if !ok || rec.Gone() {
		return nil
	}

	curr := rec.Current()
	return &curr
}

// PurgeGoneProcesses drops all process records flagged gone and returns how
// many were removed.
func (s *System) PurgeGoneProcesses() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.processes.Purge()
}

// RefreshDisks refreshes all disk records.
func (s *System) RefreshDisks() {
	now := s.now()
	readings := s.src.DiskSamples()

	s.mu.Lock()
	defer s.mu.Unlock()

	admitOnly := !s.clock.ShouldSample(KindDisks, now)
	s.disks.Reconcile(readings, now, ReconcileOptions[string]{AdmitOnly: admitOnly})
}

// RefreshNetworks refreshes all network interface records.
func (s *System) RefreshNetworks() {
	now := s.now()
	readings := s.src.NetSamples()

	s.mu.Lock()
	defer s.mu.Unlock()

	admitOnly := !s.clock.ShouldSample(KindNetworks, now)
	s.networks.Reconcile(readings, now, ReconcileOptions[string]{AdmitOnly: admitOnly})
}

// RefreshSensors refreshes all temperature sensor records.
func (s *System) RefreshSensors() {
	now := s.now()
	readings := s.src.SensorSamples()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.clock.ShouldSample(KindSensors, now)
	s.sensors.Reconcile(readings, now, ReconcileOptions[string]{})
}

// RefreshUsers refreshes all logged-in user records.
func (s *System) RefreshUsers() {
	now := s.now()
	readings := s.src.UserSamples()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.clock.ShouldSample(KindUsers, now)
	s.users.Reconcile(readings, now, ReconcileOptions[string]{})
}
