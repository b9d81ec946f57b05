package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/agbru/threadrace/internal/format"
	"github.com/agbru/threadrace/internal/race"
	"github.com/agbru/threadrace/internal/ui"
)

// Medal returns the banner for a rank.
func Medal(rank int) string {
	switch rank {
	case 1:
		return "🥇"
	case 2:
		return "🥈"
	case 3:
		return "🥉"
	default:
		return "🏃"
	}
}

// PrintResults prints the ranked summary of a race.
func PrintResults(out io.Writer, title string, report race.Report) {
	rule := strings.Repeat("═", 50)
	fmt.Fprintf(out, "\n%s%s%s\n", ui.ColorPrimary(), rule, ui.ColorReset())
	fmt.Fprintf(out, "%s🏆 %s RESULTS 🏆%s\n", ui.ColorBold(), strings.ToUpper(title), ui.ColorReset())
	fmt.Fprintf(out, "%s%s%s\n\n", ui.ColorPrimary(), rule, ui.ColorReset())

	if len(report.Finishes) == 0 {
		fmt.Fprintf(out, "%sNo racers finished!%s\n", ui.ColorRed(), ui.ColorReset())
	}
	for _, f := range report.Finishes {
		fmt.Fprintf(out, "%s %d. %-*s %s (planned %s)\n",
			Medal(f.Rank), f.Rank, nameColumn, f.Racer.Name,
			format.FormatExecutionDuration(f.Elapsed),
			format.FormatExecutionDuration(f.Planned))
	}

	if w, ok := report.Winner(); ok {
		fmt.Fprintf(out, "\n%s🎊 Congratulations to %s, the winner! 🎊%s\n", ui.ColorGreen(), w.Racer.Name, ui.ColorReset())
	}
	fmt.Fprintf(out, "\nRacers finished: %d/%d\n", len(report.Finishes), report.Racers)
	fmt.Fprintf(out, "Total race time: %s\n", format.FormatExecutionDuration(report.Elapsed))
}

// PrintFarewell closes a successful session.
func PrintFarewell(out io.Writer) {
	fmt.Fprintf(out, "\n%sThanks for watching the thread race! 👋%s\n", ui.ColorCyan(), ui.ColorReset())
}
