package cli

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/agbru/threadrace/internal/format"
	"github.com/agbru/threadrace/internal/race"
	"github.com/agbru/threadrace/internal/ui"
)

const (
	// clearScreen moves the cursor home and clears the display.
	clearScreen = "\033[H\033[2J"

	nameColumn     = 16
	laneLabelWidth = nameColumn + 16
	minTrackWidth  = 10
	maxTrackWidth  = 80
)

var racerEmoji = []string{"⚡", "💨", "🚀", "⭐", "💫", "🏃"}

// RacerEmoji returns the lane emoji of r.
func RacerEmoji(r race.Racer) string {
	i := r.ID - 1
	if i < 0 {
		i = -i
	}
	return racerEmoji[i%len(racerEmoji)]
}

// TrackRenderer draws the live race on a console. It implements
// race.Renderer; Render and Finish may be called from different goroutines.
type TrackRenderer struct {
	mu        sync.Mutex
	out       io.Writer
	title     string
	width     int
	clear     bool
	announced []race.Finish
}

// NewTrackRenderer builds a renderer writing to out. When clear is set every
// frame redraws the screen; otherwise frames are appended.
func NewTrackRenderer(out io.Writer, title string, width int, clear bool) *TrackRenderer {
	if width <= 0 {
		width = 50
	}
	return &TrackRenderer{out: out, title: title, width: width, clear: clear}
}

// Render draws one frame.
func (t *TrackRenderer) Render(frame race.Frame) {
	t.mu.Lock()
	defer t.mu.Unlock()

	var b strings.Builder
	if t.clear {
		b.WriteString(clearScreen)
	}
	fmt.Fprintf(&b, "%s🏁 %s 🏁%s   %s⏱  %s%s\n\n",
		ui.ColorBold(), t.title, ui.ColorReset(),
		ui.ColorCyan(), format.FormatExecutionDuration(frame.Elapsed), ui.ColorReset())

	for _, p := range frame.Positions {
		emoji := RacerEmoji(p.Racer)
		color := ui.ColorYellow()
		suffix := ""
		if p.Progress >= 100 {
			color = ui.ColorGreen()
			suffix = " 🏆"
		}
		fmt.Fprintf(&b, "%s %-*s |%s%s%s| %s%s\n",
			emoji, nameColumn, p.Racer.Name,
			color, format.ProgressBar(p.Progress, t.width, ""), ui.ColorReset(),
			format.FormatPercent(p.Progress), suffix)
	}

	if len(t.announced) > 0 {
		b.WriteString("\n")
		for _, f := range t.announced {
			fmt.Fprintf(&b, "🎉 %s finished in position %d!\n", f.Racer.Name, f.Rank)
		}
	}
	if frame.Final {
		b.WriteString("\n")
	}
	io.WriteString(t.out, b.String())
}

// Finish records an announcement shown under the track from the next frame on.
func (t *TrackRenderer) Finish(f race.Finish) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.announced = append(t.announced, f)
}

var _ race.Renderer = (*TrackRenderer)(nil)
