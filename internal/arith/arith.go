// Package arith runs the parallel addition and multiplication demo: two
// goroutines each simulate a slow calculation on the same operands and the
// caller joins both.
package arith

import (
	"context"
	"math/big"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	apperrors "github.com/agbru/threadrace/internal/errors"
	"github.com/agbru/threadrace/internal/logging"
)

// DefaultDelay is how long each calculation pretends to take.
const DefaultDelay = 3 * time.Second

// Op names a calculation.
type Op string

const (
	Addition       Op = "addition"
	Multiplication Op = "multiplication"
)

// Kind tells whether an event marks the start or the end of a calculation.
type Kind int

const (
	Started Kind = iota
	Completed
)

// Event is reported by each calculation goroutine.
type Event struct {
	At     time.Time
	Op     Op
	Kind   Kind
	Result *big.Int
}

// Reporter receives events from both goroutines; implementations must be
// safe for concurrent use.
type Reporter interface {
	Report(e Event)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(Event)

// Report calls f(e).
func (f ReporterFunc) Report(e Event) { f(e) }

// Result holds both outcomes.
type Result struct {
	Sum     *big.Int
	Product *big.Int
	Elapsed time.Duration
}

// Options tune Run.
type Options struct {
	Delay  time.Duration
	Now    func() time.Time
	Logger logging.Logger
}

// Run computes a+b and a*b concurrently and waits for both.
func Run(ctx context.Context, a, b *big.Int, opts Options, reporter Reporter) (Result, error) {
	if a == nil || b == nil {
		return Result{}, apperrors.ValidationError{Field: "operands", Message: "both operands are required"}
	}
	if opts.Delay < 0 {
		return Result{}, apperrors.ValidationError{Field: "delay", Message: "must not be negative"}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = logging.Nop{}
	}

	// Events are serialized so each reporter call sees a complete line.
	var mu sync.Mutex
	report := func(e Event) {
		mu.Lock()
		defer mu.Unlock()
		reporter.Report(e)
	}

	start := opts.Now()
	var res Result
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		r, err := calculate(gctx, Addition, opts, report, func() *big.Int { return new(big.Int).Add(a, b) })
		res.Sum = r
		return err
	})
	g.Go(func() error {
		r, err := calculate(gctx, Multiplication, opts, report, func() *big.Int { return multiply(a, b) })
		res.Product = r
		return err
	})
	if err := g.Wait(); err != nil {
		opts.Logger.Error("arithmetic aborted", err)
		return Result{}, err
	}
	res.Elapsed = opts.Now().Sub(start)
	opts.Logger.Debug("arithmetic done", logging.Duration("elapsed", res.Elapsed))
	return res, nil
}

func calculate(ctx context.Context, op Op, opts Options, report func(Event), compute func() *big.Int) (*big.Int, error) {
	report(Event{At: opts.Now(), Op: op, Kind: Started})

	timer := time.NewTimer(opts.Delay)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	result := compute()
	report(Event{At: opts.Now(), Op: op, Kind: Completed, Result: new(big.Int).Set(result)})
	return result, nil
}
