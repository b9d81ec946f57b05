package race

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestLedgerRanks_PropertyBased checks that, whatever the number of racers
// and whichever of them reach the line before the stop flag, the ledger holds
// at most N records ranked 1..k without gaps.
func TestLedgerRanks_PropertyBased(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("ranks form 1..k with k <= N", prop.ForAll(
		func(n int, finishers int) bool {
			racers := make([]Racer, n)
			for i := range racers {
				racers[i] = Racer{Name: fmt.Sprintf("r%d", i), ID: i}
			}
			tr := NewTrack(racers, time.Now())
			if finishers > n {
				finishers = n
			}

			var wg sync.WaitGroup
			for _, r := range racers[:finishers] {
				wg.Add(1)
				go func() {
					defer wg.Done()
					tr.SetProgress(r.Name, 100)
					tr.RegisterFinish(r, 0, 0)
				}()
			}
			wg.Wait()
			tr.Stop()
			// Late arrivals after the stop flag must be refused.
			for _, r := range racers[finishers:] {
				tr.SetProgress(r.Name, 100)
				if _, ok := tr.RegisterFinish(r, 0, 0); ok {
					return false
				}
			}

			results := tr.Results()
			if len(results) != finishers || len(results) > n {
				return false
			}
			for i, f := range results {
				if f.Rank != i+1 {
					return false
				}
			}
			return true
		},
		gen.IntRange(1, 12),
		gen.IntRange(0, 12),
	))

	properties.TestingRun(t)
}

// TestProgressMonotonic_PropertyBased feeds arbitrary progress sequences and
// checks that every sample is at least the previous one.
func TestProgressMonotonic_PropertyBased(t *testing.T) {
	properties := gopter.NewProperties(gopter.DefaultTestParameters())

	properties.Property("samples never decrease", prop.ForAll(
		func(values []float64) bool {
			tr := NewTrack([]Racer{{Name: "solo"}}, time.Now())
			last := 0.0
			for _, v := range values {
				tr.SetProgress("solo", v)
				got := tr.Progress("solo")
				if got < last || got > 100 {
					return false
				}
				last = got
			}
			return true
		},
		gen.SliceOf(gen.Float64Range(-50, 150)),
	))

	properties.TestingRun(t)
}
