package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/agbru/threadrace/internal/hive"
	"github.com/agbru/threadrace/internal/ui"
)

var statusEmoji = map[hive.Status]string{
	hive.Idle:       "💤",
	hive.Flying:     "✈️ ",
	hive.Collecting: "🌸",
	hive.Returning:  "🔙",
	hive.Depositing: "🍯",
	hive.Resting:    "😴",
}

// StatusEmoji returns the icon for a bee phase.
func StatusEmoji(s hive.Status) string {
	if e, ok := statusEmoji[s]; ok {
		return e
	}
	return "🐝"
}

// HiveRenderer draws hive frames on a console.
type HiveRenderer struct {
	mu    sync.Mutex
	out   io.Writer
	clear bool
}

// NewHiveRenderer builds a renderer writing to out.
func NewHiveRenderer(out io.Writer, clear bool) *HiveRenderer {
	return &HiveRenderer{out: out, clear: clear}
}

// Render draws one frame.
func (h *HiveRenderer) Render(frame hive.Frame) {
	h.mu.Lock()
	defer h.mu.Unlock()

	var b strings.Builder
	if h.clear {
		b.WriteString(clearScreen)
	}
	fmt.Fprintf(&b, "%s🐝 THE BUSY HIVE 🐝%s\n", ui.ColorBold(), ui.ColorReset())
	fmt.Fprintf(&b, "%s🍯 Nectar stored: %d%s\n\n", ui.ColorYellow(), frame.Total, ui.ColorReset())
	for _, bee := range frame.Bees {
		line := fmt.Sprintf("%s %-8s %-11s trips: %d", StatusEmoji(bee.Status), bee.Name, bee.Status, bee.Trips)
		if bee.Carrying > 0 {
			line += fmt.Sprintf("  carrying %d", bee.Carrying)
		}
		b.WriteString(line + "\n")
	}
	b.WriteString("\n")
	io.WriteString(h.out, b.String())
}

// PrintHiveSummary prints the per-bee contributions and the total.
func PrintHiveSummary(out io.Writer, s hive.Summary) {
	if s.Interrupted {
		fmt.Fprintf(out, "\n%s🐝 Hive closed! Simulation ended. 🐝%s\n", ui.ColorCyan(), ui.ColorReset())
	}
	names := make([]string, 0, len(s.Trips))
	for name := range s.Trips {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return beeIndex(names[i]) < beeIndex(names[j]) })

	fmt.Fprintf(out, "\n%sHive summary%s\n", ui.ColorUnderline(), ui.ColorReset())
	for _, name := range names {
		fmt.Fprintf(out, "  🐝 %-8s %3d nectar in %d trips\n", name, s.Contributions[name], s.Trips[name])
	}
	fmt.Fprintf(out, "\n🍯 Total nectar: %d\n", s.Total)
}

// beeIndex orders "Bee 2" before "Bee 10".
func beeIndex(name string) int {
	var n int
	if _, err := fmt.Sscanf(name, "Bee %d", &n); err != nil {
		return 1 << 30
	}
	return n
}
