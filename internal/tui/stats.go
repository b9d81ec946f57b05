package tui

import (
	"fmt"
	"strings"

	"github.com/agbru/threadrace/internal/metrics"
	"github.com/agbru/threadrace/internal/sysmon"
)

var sparklineChars = [8]rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

const cpuHistory = 30

// StatsModel shows host load and Go runtime figures under the lanes.
type StatsModel struct {
	sys     sysmon.Stats
	rt      metrics.RuntimeSnapshot
	cpu     []float64
	visible bool
	width   int
}

// NewStatsModel returns a visible, empty panel.
func NewStatsModel() StatsModel {
	return StatsModel{visible: true}
}

// UpdateSys records a host sample.
func (s *StatsModel) UpdateSys(st sysmon.Stats) {
	s.sys = st
	s.cpu = append(s.cpu, st.CPUPercent)
	if len(s.cpu) > cpuHistory {
		s.cpu = s.cpu[len(s.cpu)-cpuHistory:]
	}
}

// UpdateRuntime records a runtime sample.
func (s *StatsModel) UpdateRuntime(rt metrics.RuntimeSnapshot) { s.rt = rt }

// Toggle shows or hides the panel.
func (s *StatsModel) Toggle() { s.visible = !s.visible }

// SetWidth updates the available width.
func (s *StatsModel) SetWidth(w int) { s.width = w }

// sparkline maps percentages in [0,100] to block glyphs.
func sparkline(values []float64) string {
	var b strings.Builder
	for _, v := range values {
		idx := int(v / 100 * float64(len(sparklineChars)-1))
		idx = min(max(idx, 0), len(sparklineChars)-1)
		b.WriteRune(sparklineChars[idx])
	}
	return b.String()
}

// View renders the panel, or nothing when hidden.
func (s StatsModel) View() string {
	if !s.visible {
		return ""
	}
	line1 := fmt.Sprintf("%s  %s", s.sys.String(), sparklineStyle.Render(sparkline(s.cpu)))
	line2 := dimStyle.Render(fmt.Sprintf("heap %s · goroutines %d · gc %d",
		formatBytes(s.rt.HeapAlloc), s.rt.Goroutines, s.rt.NumGC))
	return panelStyle.Width(max(s.width-2, 0)).Render(line1 + "\n" + line2)
}

func formatBytes(b uint64) string {
	switch {
	case b >= 1<<30:
		return fmt.Sprintf("%.1f GB", float64(b)/(1<<30))
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}
