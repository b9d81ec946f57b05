package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/agbru/threadrace/internal/race"
	"github.com/agbru/threadrace/internal/ui"
)

// CountdownFrom is the first number of the pre-race countdown.
const CountdownFrom = 3

// Countdown prints the banner, counts down and prints GO. It returns early
// with ctx.Err() when interrupted.
func Countdown(ctx context.Context, out io.Writer, title string, tick time.Duration, clock race.Clock) error {
	fmt.Fprintf(out, "\n%s🏁 %s 🏁%s\n", ui.ColorBold(), title, ui.ColorReset())
	fmt.Fprintln(out, "Get ready...")
	for n := CountdownFrom; n > 0; n-- {
		fmt.Fprintf(out, "%s%d...%s\n", ui.ColorYellow(), n, ui.ColorReset())
		if err := clock.Sleep(ctx, tick); err != nil {
			return err
		}
	}
	fmt.Fprintf(out, "%s🏁 GO! 🏁%s\n", ui.ColorGreen(), ui.ColorReset())
	return nil
}

// PrintLineup lists the racers before the start.
func PrintLineup(out io.Writer, racers []race.Racer) {
	fmt.Fprintf(out, "\n%sRacers on the grid:%s\n", ui.ColorUnderline(), ui.ColorReset())
	for _, r := range racers {
		fmt.Fprintf(out, "  %s #%-3d %s\n", RacerEmoji(r), r.ID, r.Name)
	}
}
