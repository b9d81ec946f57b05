// Package sysmon samples host CPU, memory and load for the live views.
package sysmon

import (
	"fmt"
	"runtime"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/load"
	"github.com/shirou/gopsutil/v4/mem"
)

// Stats is one snapshot of host resource usage.
type Stats struct {
	CPUPercent float64 // 0.0 .. 100.0
	MemPercent float64 // 0.0 .. 100.0
	Load1      float64
	CPUs       int
}

// Sampler produces Stats.
type Sampler interface {
	Sample() Stats
}

// SamplerFunc adapts a function to Sampler.
type SamplerFunc func() Stats

// Sample calls f.
func (f SamplerFunc) Sample() Stats { return f() }

// Host samples the machine the program runs on.
var Host Sampler = SamplerFunc(Sample)

// Sample collects a snapshot. CPU uses interval=0, i.e. the delta since the
// previous call. Fields that cannot be read stay zero.
func Sample() Stats {
	s := Stats{CPUs: runtime.NumCPU()}
	if pcts, err := cpu.Percent(0, false); err == nil && len(pcts) > 0 {
		s.CPUPercent = pcts[0]
	}
	if vmem, err := mem.VirtualMemory(); err == nil && vmem != nil {
		s.MemPercent = vmem.UsedPercent
	}
	if avg, err := load.Avg(); err == nil && avg != nil {
		s.Load1 = avg.Load1
	}
	return s
}

// String renders s for a status line.
func (s Stats) String() string {
	return fmt.Sprintf("CPU %5.1f%%  MEM %5.1f%%  LOAD %.2f/%d", s.CPUPercent, s.MemPercent, s.Load1, s.CPUs)
}
