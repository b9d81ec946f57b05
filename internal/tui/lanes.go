package tui

import (
	"fmt"
	"strings"

	"github.com/agbru/threadrace/internal/format"
	"github.com/agbru/threadrace/internal/race"
)

const (
	laneNameWidth = 18
	// laneChrome is the room taken by name, percent, rank and borders.
	laneChrome   = laneNameWidth + 20
	minLaneWidth = 10
)

// LanesModel renders one progress lane per racer plus the finish log.
type LanesModel struct {
	positions []race.Position
	finishes  []race.Finish
	width     int
}

// SetPositions replaces the table with the latest frame.
func (l *LanesModel) SetPositions(p []race.Position) { l.positions = p }

// AddFinish appends to the finish log.
func (l *LanesModel) AddFinish(f race.Finish) { l.finishes = append(l.finishes, f) }

// SetFinishes replaces the finish log with the authoritative ledger.
func (l *LanesModel) SetFinishes(f []race.Finish) { l.finishes = f }

// Reset clears everything for a rerun.
func (l *LanesModel) Reset() {
	l.positions = nil
	l.finishes = nil
}

// SetWidth updates the available width.
func (l *LanesModel) SetWidth(w int) { l.width = w }

func (l LanesModel) barWidth() int {
	return max(l.width-laneChrome, minLaneWidth)
}

func (l LanesModel) rankOf(name string) int {
	for _, f := range l.finishes {
		if f.Racer.Name == name {
			return f.Rank
		}
	}
	return 0
}

// View renders the lanes panel.
func (l LanesModel) View() string {
	var b strings.Builder
	bw := l.barWidth()
	for i, p := range l.positions {
		filled := int(format.Clamp(p.Progress, 0, 100) / 100 * float64(bw))
		bar := laneStyle(i).Render(strings.Repeat(string(format.FilledCell), filled)) +
			emptyCellStyle.Render(strings.Repeat(string(format.EmptyCell), bw-filled))

		rank := ""
		if r := l.rankOf(p.Racer.Name); r > 0 {
			rank = finishStyle.Render(fmt.Sprintf(" #%d", r))
		}
		fmt.Fprintf(&b, "%-*s %s %s%s\n", laneNameWidth, p.Racer.Name, bar, format.FormatPercent(p.Progress), rank)
	}

	if len(l.finishes) > 0 {
		b.WriteString("\n")
		for _, f := range l.finishes {
			b.WriteString(finishStyle.Render(fmt.Sprintf("🎉 %s finished in position %d (%s)",
				f.Racer.Name, f.Rank, format.FormatExecutionDuration(f.Elapsed))))
			b.WriteString("\n")
		}
	}

	return panelStyle.Width(max(l.width-2, 0)).Render(strings.TrimRight(b.String(), "\n"))
}
