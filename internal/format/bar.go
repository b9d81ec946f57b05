package format

import (
	"fmt"
	"strings"
)

// Track glyphs.
const (
	FilledCell = '█'
	EmptyCell  = '░'
)

// ProgressBar renders a bar of the given width for a percentage in [0,100].
// Values outside the range are clamped. The marker, when non-empty, replaces
// the first empty cell so the runner sits at the head of its bar.
func ProgressBar(percent float64, width int, marker string) string {
	if width <= 0 {
		return ""
	}
	percent = Clamp(percent, 0, 100)
	filled := int(percent / 100 * float64(width))

	var b strings.Builder
	b.Grow(width * 3)
	b.WriteString(strings.Repeat(string(FilledCell), filled))
	empty := width - filled
	if marker != "" && empty > 0 {
		b.WriteString(marker)
		empty--
	}
	b.WriteString(strings.Repeat(string(EmptyCell), empty))
	return b.String()
}

// FormatPercent renders a percentage right-aligned with one decimal, e.g. " 42.5%".
func FormatPercent(percent float64) string {
	return fmt.Sprintf("%5.1f%%", Clamp(percent, 0, 100))
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
