package cli

import (
	"io"

	"github.com/mattn/go-isatty"
)

// fdWriter is implemented by *os.File.
type fdWriter interface {
	Fd() uintptr
}

// IsTerminal reports whether w writes to an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(fdWriter)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// TrackWidth picks the bar width for w. A positive configured width wins;
// otherwise the bar fills the terminal minus the lane label, between
// minTrackWidth and maxTrackWidth cells. Non-terminals get fallback.
func TrackWidth(w io.Writer, configured, fallback int) int {
	if configured > 0 {
		return configured
	}
	f, ok := w.(fdWriter)
	if !ok {
		return fallback
	}
	cols, ok := terminalColumns(f.Fd())
	if !ok {
		return fallback
	}
	width := cols - laneLabelWidth
	switch {
	case width < minTrackWidth:
		return minTrackWidth
	case width > maxTrackWidth:
		return maxTrackWidth
	}
	return width
}
