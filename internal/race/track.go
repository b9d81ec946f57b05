package race

import (
	"sync"
	"sync/atomic"
	"time"
)

// Position is one racer's progress, in percent.
type Position struct {
	Racer    Racer
	Progress float64
}

// Finish is one entry of the results ledger.
type Finish struct {
	Racer Racer
	// Rank is the 1-based finishing order.
	Rank int
	// Elapsed is measured from the start of the run to the finish line.
	Elapsed time.Duration
	// Planned is the nominal race time the racer was given.
	Planned time.Duration
}

// Track is the state shared by the racers and the monitor of one run.
type Track struct {
	started time.Time

	posMu     sync.Mutex
	order     []Racer
	positions map[string]float64

	ledgerMu sync.Mutex
	finishes []Finish
	finished map[string]struct{}

	stopped  atomic.Bool
	stopOnce sync.Once
	done     chan struct{}
}

// NewTrack returns a track with every racer at 0 and an empty ledger.
func NewTrack(racers []Racer, started time.Time) *Track {
	t := &Track{
		started:   started,
		order:     append([]Racer(nil), racers...),
		positions: make(map[string]float64, len(racers)),
		finished:  make(map[string]struct{}, len(racers)),
		done:      make(chan struct{}),
	}
	for _, r := range racers {
		t.positions[r.Name] = 0
	}
	return t
}

// Started returns the time the run began.
func (t *Track) Started() time.Time { return t.started }

// SetProgress records a racer's progress. Progress never moves backwards and
// is clamped to 100; unknown racers are ignored. It reports whether the
// stored value changed.
func (t *Track) SetProgress(name string, progress float64) bool {
	if progress > 100 {
		progress = 100
	}
	t.posMu.Lock()
	defer t.posMu.Unlock()

	current, ok := t.positions[name]
	if !ok || progress <= current {
		return false
	}
	t.positions[name] = progress
	return true
}

// Progress returns a racer's current progress.
func (t *Track) Progress(name string) float64 {
	t.posMu.Lock()
	defer t.posMu.Unlock()
	return t.positions[name]
}

// Snapshot copies the position table in roster order.
func (t *Track) Snapshot() []Position {
	t.posMu.Lock()
	defer t.posMu.Unlock()

	out := make([]Position, len(t.order))
	for i, r := range t.order {
		out[i] = Position{Racer: r, Progress: t.positions[r.Name]}
	}
	return out
}

// RegisterFinish appends a finish record for r. The record is refused when
// the racer has not reached 100, when the stop flag is already set, or when r
// is already in the ledger.
func (t *Track) RegisterFinish(r Racer, elapsed, planned time.Duration) (Finish, bool) {
	// Position lock is released before the ledger lock is taken.
	if t.Progress(r.Name) < 100 {
		return Finish{}, false
	}

	t.ledgerMu.Lock()
	defer t.ledgerMu.Unlock()

	if t.Stopped() {
		return Finish{}, false
	}
	if _, dup := t.finished[r.Name]; dup {
		return Finish{}, false
	}
	f := Finish{Racer: r, Rank: len(t.finishes) + 1, Elapsed: elapsed, Planned: planned}
	t.finishes = append(t.finishes, f)
	t.finished[r.Name] = struct{}{}
	return f, true
}

// Results copies the ledger in rank order.
func (t *Track) Results() []Finish {
	t.ledgerMu.Lock()
	defer t.ledgerMu.Unlock()
	return append([]Finish(nil), t.finishes...)
}

// Stop sets the stop flag. Only the first call has an effect.
func (t *Track) Stop() {
	t.stopOnce.Do(func() {
		t.stopped.Store(true)
		close(t.done)
	})
}

// Stopped reports whether the stop flag is set.
func (t *Track) Stopped() bool { return t.stopped.Load() }

// Done is closed when the stop flag is set.
func (t *Track) Done() <-chan struct{} { return t.done }
