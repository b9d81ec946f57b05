package tui

import (
	"time"

	"github.com/agbru/threadrace/internal/metrics"
	"github.com/agbru/threadrace/internal/race"
	"github.com/agbru/threadrace/internal/sysmon"
)

// FrameMsg carries a monitor frame into the program.
type FrameMsg struct {
	Frame      race.Frame
	Generation uint64
}

// FinishMsg announces a racer crossing the line.
type FinishMsg struct {
	Finish     race.Finish
	Generation uint64
}

// RaceDoneMsg is sent when a race run returns.
type RaceDoneMsg struct {
	Report     race.Report
	Err        error
	Generation uint64
}

// ContextCancelledMsg is sent when the run context ends.
type ContextCancelledMsg struct {
	Err        error
	Generation uint64
}

// TickMsg drives the stats sampling.
type TickMsg time.Time

// SysStatsMsg carries a host sample.
type SysStatsMsg sysmon.Stats

// RuntimeMsg carries a Go runtime sample.
type RuntimeMsg metrics.RuntimeSnapshot
