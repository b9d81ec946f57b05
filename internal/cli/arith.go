package cli

import (
	"fmt"
	"io"

	"github.com/agbru/threadrace/internal/arith"
	"github.com/agbru/threadrace/internal/format"
)

// ArithPresenter prints timestamped calculation events. Calls are
// serialized by arith.Run.
type ArithPresenter struct {
	Out io.Writer
}

var opLabels = map[arith.Op]string{
	arith.Addition:       "Addition",
	arith.Multiplication: "Multiplication",
}

// Report implements arith.Reporter.
func (p ArithPresenter) Report(e arith.Event) {
	label := opLabels[e.Op]
	switch e.Kind {
	case arith.Started:
		fmt.Fprintf(p.Out, "[%s] ⚙️  %s started...\n", format.FormatClock(e.At), label)
	case arith.Completed:
		fmt.Fprintf(p.Out, "[%s] ✅ %s result: %s\n", format.FormatClock(e.At), label, e.Result)
	}
}

// PrintArithResult prints the joined results.
func PrintArithResult(out io.Writer, res arith.Result) {
	fmt.Fprintf(out, "\nBoth calculations finished in %s (%s backend)\n",
		format.FormatExecutionDuration(res.Elapsed), arith.Backend)
	fmt.Fprintf(out, "  Sum:     %s\n", res.Sum)
	fmt.Fprintf(out, "  Product: %s\n", res.Product)
}

var _ arith.Reporter = ArithPresenter{}
