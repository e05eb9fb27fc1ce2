// Package sysinfo reports system and process memory for admission decisions.
//
// The scheduler consumes memory readings through the MemorySource interface
// so tests can substitute fixed values and the frozen-snapshot mode can
// replay a startup reading.
package sysinfo

import (
	"fmt"
	"os"
	"runtime"
	"sync"

	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/process"
)

const bytesPerMB = 1024.0 * 1024.0

// MemorySource reports memory readings on demand.
type MemorySource interface {
	// AvailableMB returns system-available memory in megabytes.
	AvailableMB() (float64, error)
	// ProcessUsageMB returns the current process's resident memory in megabytes.
	ProcessUsageMB() (float64, error)
}

// HostSource reads live memory data from the operating system.
type HostSource struct {
	pid int32
}

// NewHostSource creates a MemorySource bound to the current process.
func NewHostSource() *HostSource {
	return &HostSource{pid: int32(os.Getpid())}
}

// AvailableMB returns system-available memory in megabytes.
func (h *HostSource) AvailableMB() (float64, error) {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return 0, fmt.Errorf("read virtual memory: %w", err)
	}
	return float64(vm.Available) / bytesPerMB, nil
}

// ProcessUsageMB returns this process's resident set size in megabytes.
func (h *HostSource) ProcessUsageMB() (float64, error) {
	proc, err := process.NewProcess(h.pid)
	if err != nil {
		return 0, fmt.Errorf("open process %d: %w", h.pid, err)
	}
	info, err := proc.MemoryInfo()
	if err != nil {
		return 0, fmt.Errorf("read process memory: %w", err)
	}
	return float64(info.RSS) / bytesPerMB, nil
}

// FrozenSource captures one reading from the underlying source on first use
// and replays it for the rest of the run. This reproduces the original
// behavior of sampling system data once at startup; prefer the live
// HostSource unless run-for-run compatibility matters.
type FrozenSource struct {
	src MemorySource

	onceAvail sync.Once
	availMB   float64
	availErr  error

	onceProc sync.Once
	procMB   float64
	procErr  error
}

// Freeze wraps src so each reading is taken once and then replayed.
func Freeze(src MemorySource) *FrozenSource {
	return &FrozenSource{src: src}
}

// AvailableMB returns the first available-memory reading, captured lazily.
func (f *FrozenSource) AvailableMB() (float64, error) {
	f.onceAvail.Do(func() {
		f.availMB, f.availErr = f.src.AvailableMB()
	})
	return f.availMB, f.availErr
}

// ProcessUsageMB returns the first process-memory reading, captured lazily.
func (f *FrozenSource) ProcessUsageMB() (float64, error) {
	f.onceProc.Do(func() {
		f.procMB, f.procErr = f.src.ProcessUsageMB()
	})
	return f.procMB, f.procErr
}

// StaticSource returns fixed readings. Test double.
type StaticSource struct {
	// AvailMB is returned by AvailableMB.
	AvailMB float64
	// ProcMB is returned by ProcessUsageMB.
	ProcMB float64
	// Err, when set, is returned by both methods.
	Err error
}

// AvailableMB implements MemorySource.
func (s *StaticSource) AvailableMB() (float64, error) { return s.AvailMB, s.Err }

// ProcessUsageMB implements MemorySource.
func (s *StaticSource) ProcessUsageMB() (float64, error) { return s.ProcMB, s.Err }

// Overview summarizes the host for the startup banner.
type Overview struct {
	CPUCores    int
	AvailableGB float64
	OS          string
}

// HostOverview collects banner information. Errors degrade to zero values
// rather than failing startup.
func HostOverview() Overview {
	o := Overview{
		CPUCores: runtime.NumCPU(),
		OS:       runtime.GOOS,
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		o.AvailableGB = float64(vm.Available) / (bytesPerMB * 1024.0)
	}
	return o
}
