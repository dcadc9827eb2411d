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

// EntityKind identifies one metric family tracked by the engine.
type EntityKind int

// Entity kinds, one per registry.
const (
	KindCPU EntityKind = iota
	KindMemory
	KindProcesses
	KindDisks
	KindNetworks
	KindSensors
	KindUsers
)

// String returns a stable lowercase name for the kind, used in logs.
func (k EntityKind) String() string {
	switch k {
	case KindCPU:
		return "cpu"
	case KindMemory:
		return "memory"
	case KindProcesses:
		return "processes"
	case KindDisks:
		return "disks"
	case KindNetworks:
		return "networks"
	case KindSensors:
		return "sensors"
	case KindUsers:
		return "users"
	default:
		return "unknown"
	}
}

// UpdateKind is the update policy for one optional process field.
type UpdateKind int

const (
	// UpdateNever leaves the field's prior value untouched.
	UpdateNever UpdateKind = iota
	// UpdateAlways forces a refetch on every refresh.
	UpdateAlways
	// UpdateOnlyIfNotSet fetches only while the field's presence flag is
	// unset, avoiding repeated expensive lookups such as resolving an
	// executable path.
	UpdateOnlyIfNotSet
)

// NeedsUpdate reports whether a field guarded by this policy should be
// fetched, given whether the field is already set on the record.
func (u UpdateKind) NeedsUpdate(isSet bool) bool {
	switch u {
	case UpdateAlways:
		return true
	case UpdateOnlyIfNotSet:
		return !isSet
	default:
		return false
	}
}

// CPURefreshKind selects which CPU information to refresh.
// The zero value refreshes nothing.
type CPURefreshKind struct {
	usage     bool
	frequency bool
}

// CPUNothing returns a CPURefreshKind refreshing nothing.
func CPUNothing() CPURefreshKind { return CPURefreshKind{} }

// CPUEverything returns a CPURefreshKind refreshing usage and frequency.
func CPUEverything() CPURefreshKind {
	return CPURefreshKind{usage: true, frequency: true}
}

// WithUsage returns a copy that also refreshes CPU time counters.
func (k CPURefreshKind) WithUsage() CPURefreshKind {
	k.usage = true
	return k
}

// WithFrequency returns a copy that also refreshes CPU frequency.
func (k CPURefreshKind) WithFrequency() CPURefreshKind {
	k.frequency = true
	return k
}

// Usage reports whether CPU time counters are refreshed.
func (k CPURefreshKind) Usage() bool { return k.usage }

// Frequency reports whether CPU frequency is refreshed.
func (k CPURefreshKind) Frequency() bool { return k.frequency }

// MemoryRefreshKind selects which memory information to refresh.
// The zero value refreshes nothing.
type MemoryRefreshKind struct {
	ram  bool
	swap bool
}

// MemoryNothing returns a MemoryRefreshKind refreshing nothing.
func MemoryNothing() MemoryRefreshKind { return MemoryRefreshKind{} }

// MemoryEverything returns a MemoryRefreshKind refreshing RAM and swap.
func MemoryEverything() MemoryRefreshKind {
	return MemoryRefreshKind{ram: true, swap: true}
}

// WithRAM returns a copy that also refreshes RAM counters.
func (k MemoryRefreshKind) WithRAM() MemoryRefreshKind {
	k.ram = true
	return k
}

// WithSwap returns a copy that also refreshes swap counters.
func (k MemoryRefreshKind) WithSwap() MemoryRefreshKind {
	k.swap = true
	return k
}

// RAM reports whether RAM counters are refreshed.
func (k MemoryRefreshKind) RAM() bool { return k.ram }

// Swap reports whether swap counters are refreshed.
func (k MemoryRefreshKind) Swap() bool { return k.swap }

// ProcessRefreshKind selects which process information to refresh. Counter
// fields are plain wants-flags; optional expensive fields each carry an
// UpdateKind policy. The zero value refreshes nothing.
type ProcessRefreshKind struct {
	cpu    bool
	memory bool
	diskIO bool

	exe     UpdateKind
	cwd     UpdateKind
	cmdline UpdateKind
	environ UpdateKind
	user    UpdateKind
}

// ProcessNothing returns a ProcessRefreshKind refreshing nothing.
func ProcessNothing() ProcessRefreshKind { return ProcessRefreshKind{} }

// ProcessEverything returns a ProcessRefreshKind refreshing all fields, with
// every optional field policy set to UpdateAlways.
func ProcessEverything() ProcessRefreshKind {
	return ProcessRefreshKind{
		cpu:     true,
		memory:  true,
		diskIO:  true,
		exe:     UpdateAlways,
		cwd:     UpdateAlways,
		cmdline: UpdateAlways,
		environ: UpdateAlways,
		user:    UpdateAlways,
	}
}

// WithCPU returns a copy that also refreshes CPU time counters.
func (k ProcessRefreshKind) WithCPU() ProcessRefreshKind {
	k.cpu = true
	return k
}

// WithMemory returns a copy that also refreshes memory counters.
func (k ProcessRefreshKind) WithMemory() ProcessRefreshKind {
	k.memory = true
	return k
}

// WithDiskIO returns a copy that also refreshes disk I/O counters.
func (k ProcessRefreshKind) WithDiskIO() ProcessRefreshKind {
	k.diskIO = true
	return k
}

// WithExe returns a copy with the given policy for the executable path.
func (k ProcessRefreshKind) WithExe(u UpdateKind) ProcessRefreshKind {
	k.exe = u
	return k
}

// WithCwd returns a copy with the given policy for the working directory.
func (k ProcessRefreshKind) WithCwd(u UpdateKind) ProcessRefreshKind {
	k.cwd = u
	return k
}

// WithCmdline returns a copy with the given policy for the command line.
func (k ProcessRefreshKind) WithCmdline(u UpdateKind) ProcessRefreshKind {
	k.cmdline = u
	return k
}

// WithEnviron returns a copy with the given policy for the environment.
func (k ProcessRefreshKind) WithEnviron(u UpdateKind) ProcessRefreshKind {
	k.environ = u
	return k
}

// WithUser returns a copy with the given policy for the owning user name.
func (k ProcessRefreshKind) WithUser(u UpdateKind) ProcessRefreshKind {
	k.user = u
	return k
}

// CPU reports whether CPU time counters are refreshed.
func (k ProcessRefreshKind) CPU() bool { return k.cpu }

// Memory reports whether memory counters are refreshed.
func (k ProcessRefreshKind) Memory() bool { return k.memory }

// DiskIO reports whether disk I/O counters are refreshed.
func (k ProcessRefreshKind) DiskIO() bool { return k.diskIO }

// Exe returns the update policy for the executable path.
func (k ProcessRefreshKind) Exe() UpdateKind { return k.exe }

// Cwd returns the update policy for the working directory.
func (k ProcessRefreshKind) Cwd() UpdateKind { return k.cwd }

// Cmdline returns the update policy for the command line.
func (k ProcessRefreshKind) Cmdline() UpdateKind { return k.cmdline }

// Environ returns the update policy for the environment.
func (k ProcessRefreshKind) Environ() UpdateKind { return k.environ }

// User returns the update policy for the owning user name.
func (k ProcessRefreshKind) User() UpdateKind { return k.user }

// RefreshKind names which entity kinds a Refresh call updates, carrying the
// per-kind sub-specification where one exists. The zero value refreshes
// nothing; use Nothing() and Everything() as composition bases.
type RefreshKind struct {
	cpu       bool
	cpuKind   CPURefreshKind
	memory    bool
	memKind   MemoryRefreshKind
	processes bool
	procKind  ProcessRefreshKind
	disks     bool
	networks  bool
	sensors   bool
	users     bool
}

// Nothing returns a RefreshKind refreshing nothing.
func Nothing() RefreshKind { return RefreshKind{} }

// Everything returns a RefreshKind refreshing all entity kinds with their
// everything-presets.
func Everything() RefreshKind {
	return RefreshKind{
		cpu:       true,
		cpuKind:   CPUEverything(),
		memory:    true,
		memKind:   MemoryEverything(),
		processes: true,
		procKind:  ProcessEverything(),
		disks:     true,
		networks:  true,
		sensors:   true,
		users:     true,
	}
}

// WithCPU returns a copy that also refreshes CPUs per the given sub-kind.
func (k RefreshKind) WithCPU(c CPURefreshKind) RefreshKind {
	k.cpu = true
	k.cpuKind = c
	return k
}

// WithMemory returns a copy that also refreshes memory per the given sub-kind.
func (k RefreshKind) WithMemory(m MemoryRefreshKind) RefreshKind {
	k.memory = true
	k.memKind = m
	return k
}

// WithProcesses returns a copy that also refreshes processes per the given
// sub-kind.
func (k RefreshKind) WithProcesses(p ProcessRefreshKind) RefreshKind {
	k.processes = true
	k.procKind = p
	return k
}

// WithDisks returns a copy that also refreshes disks.
func (k RefreshKind) WithDisks() RefreshKind {
	k.disks = true
	return k
}

// WithNetworks returns a copy that also refreshes network interfaces.
func (k RefreshKind) WithNetworks() RefreshKind {
	k.networks = true
	return k
}

// WithSensors returns a copy that also refreshes temperature sensors.
func (k RefreshKind) WithSensors() RefreshKind {
	k.sensors = true
	return k
}

// WithUsers returns a copy that also refreshes logged-in users.
func (k RefreshKind) WithUsers() RefreshKind {
	k.users = true
	return k
}

// CPU returns the CPU sub-kind and whether CPUs are refreshed at all.
func (k RefreshKind) CPU() (CPURefreshKind, bool) { return k.cpuKind, k.cpu }

// Memory returns the memory sub-kind and whether memory is refreshed at all.
func (k RefreshKind) Memory() (MemoryRefreshKind, bool) { return k.memKind, k.memory }

// Processes returns the process sub-kind and whether processes are refreshed
// at all.
func (k RefreshKind) Processes() (ProcessRefreshKind, bool) { return k.procKind, k.processes }

// Wants reports whether the given entity kind is refreshed.
func (k RefreshKind) Wants(kind EntityKind) bool {
	switch kind {
	case KindCPU:
		return k.cpu
	case KindMemory:
		return k.memory
	case KindProcesses:
		return k.processes
	case KindDisks:
		return k.disks
	case KindNetworks:
		return k.networks
	case KindSensors:
		return k.sensors
	case KindUsers:
		return k.users
	default:
		return false
	}
}
