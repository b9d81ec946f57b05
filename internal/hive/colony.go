package hive

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	apperrors "github.com/agbru/threadrace/internal/errors"
	"github.com/agbru/threadrace/internal/logging"
	"github.com/agbru/threadrace/internal/race"
)

const (
	DefaultBees            = 4
	DefaultPhaseMin        = 1 * time.Second
	DefaultPhaseMax        = 2 * time.Second
	DefaultMonitorInterval = 500 * time.Millisecond
	// MaxDrops is the most nectar a bee collects on one trip.
	MaxDrops = 5
)

// Settings controls a colony run.
type Settings struct {
	Bees int
	// Trips is the number of deposits per bee; 0 runs until cancelled.
	Trips           int
	PhaseMin        time.Duration
	PhaseMax        time.Duration
	MonitorInterval time.Duration
}

// DefaultSettings returns the settings used by the hive mode.
func DefaultSettings() Settings {
	return Settings{
		Bees:            DefaultBees,
		PhaseMin:        DefaultPhaseMin,
		PhaseMax:        DefaultPhaseMax,
		MonitorInterval: DefaultMonitorInterval,
	}
}

// Validate reports the first invalid field.
func (s Settings) Validate() error {
	switch {
	case s.Bees < 1:
		return apperrors.ValidationError{Field: "bees", Message: "must be at least 1"}
	case s.Trips < 0:
		return apperrors.ValidationError{Field: "trips", Message: "must not be negative"}
	case s.PhaseMin < 0 || s.PhaseMax < s.PhaseMin:
		return apperrors.ValidationError{Field: "phase", Message: fmt.Sprintf("invalid range [%s, %s]", s.PhaseMin, s.PhaseMax)}
	case s.MonitorInterval <= 0:
		return apperrors.ValidationError{Field: "monitor-interval", Message: "must be positive"}
	}
	return nil
}

// BeeNames returns "Bee 1".."Bee n".
func BeeNames(n int) []string {
	names := make([]string, n)
	for i := range names {
		names[i] = fmt.Sprintf("Bee %d", i+1)
	}
	return names
}

// Renderer displays hive frames. It is only called from the monitor goroutine.
type Renderer interface {
	Render(frame Frame)
}

// Recorder receives deposit telemetry from bee goroutines.
type Recorder interface {
	Deposited(bee string, amount, total int)
}

// NopRenderer discards frames.
type NopRenderer struct{}

func (NopRenderer) Render(Frame) {}

// NopRecorder discards telemetry.
type NopRecorder struct{}

func (NopRecorder) Deposited(string, int, int) {}

// Source supplies the randomness of a foraging trip.
type Source interface {
	// Drops returns how much nectar is collected on one trip.
	Drops() int
	// Phase returns how long one phase lasts.
	Phase() time.Duration
}

// RandomSource draws drops in [1, MaxDrops] and phases in [min, max].
type RandomSource struct {
	mu       sync.Mutex
	rng      *rand.Rand
	min, max time.Duration
}

// NewRandomSource builds a source. A zero seed draws a random one.
func NewRandomSource(s Settings, seed uint64) *RandomSource {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return &RandomSource{rng: rand.New(rand.NewPCG(seed, ^seed)), min: s.PhaseMin, max: s.PhaseMax}
}

func (r *RandomSource) Drops() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return 1 + r.rng.IntN(MaxDrops)
}

func (r *RandomSource) Phase() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.min + time.Duration(r.rng.Float64()*float64(r.max-r.min))
}

// Summary is the outcome of a colony run.
type Summary struct {
	Total         int
	Contributions map[string]int
	Trips         map[string]int
	Elapsed       time.Duration
	// Interrupted is set when the run ended through cancellation.
	Interrupted bool
}

// Colony runs the bees against one hive.
type Colony struct {
	settings Settings
	renderer Renderer
	recorder Recorder
	source   Source
	clock    race.Clock
	logger   logging.Logger
}

// Option configures a Colony.
type Option func(*Colony)

func WithRenderer(r Renderer) Option     { return func(c *Colony) { c.renderer = r } }
func WithRecorder(r Recorder) Option     { return func(c *Colony) { c.recorder = r } }
func WithSource(s Source) Option         { return func(c *Colony) { c.source = s } }
func WithClock(cl race.Clock) Option     { return func(c *Colony) { c.clock = cl } }
func WithLogger(l logging.Logger) Option { return func(c *Colony) { c.logger = l } }

// NewColony builds a colony with defaults for unset collaborators.
func NewColony(settings Settings, opts ...Option) *Colony {
	c := &Colony{settings: settings}
	for _, opt := range opts {
		opt(c)
	}
	if c.renderer == nil {
		c.renderer = NopRenderer{}
	}
	if c.recorder == nil {
		c.recorder = NopRecorder{}
	}
	if c.source == nil {
		c.source = NewRandomSource(settings, 0)
	}
	if c.clock == nil {
		c.clock = race.SystemClock{}
	}
	if c.logger == nil {
		c.logger = logging.Nop{}
	}
	return c
}

// Run forages until ctx is cancelled or every bee made its trips.
// Cancellation is a normal end: the summary is marked Interrupted and the
// error is nil. Nectar carried by a bee when cancelled is never deposited.
func (c *Colony) Run(ctx context.Context) (Summary, error) {
	if err := c.settings.Validate(); err != nil {
		return Summary{}, err
	}
	names := BeeNames(c.settings.Bees)
	hive := NewHive(names)
	start := c.clock.Now()

	var stopped atomic.Bool
	stop := make(chan struct{})
	var stopOnce sync.Once
	halt := func() {
		stopOnce.Do(func() {
			stopped.Store(true)
			close(stop)
		})
	}

	// A failed monitor aborts the bees through this cancel.
	runCtx, abort := context.WithCancel(ctx)
	defer abort()

	var monitorErr error
	monitorDone := make(chan struct{})
	go func() {
		defer close(monitorDone)
		defer func() {
			if v := recover(); v != nil {
				monitorErr = apperrors.RaceError{Racer: "monitor", Cause: apperrors.PanicError(v)}
				abort()
			}
		}()
		ticker := time.NewTicker(c.settings.MonitorInterval)
		defer ticker.Stop()
		for {
			final := stopped.Load()
			frame := hive.Frame()
			frame.Final = final
			c.renderer.Render(frame)
			if final {
				return
			}
			select {
			case <-ticker.C:
			case <-stop:
			}
		}
	}()
	defer func() {
		halt()
		<-monitorDone
	}()

	c.logger.Debug("hive opened", logging.Int("bees", len(names)))

	g, gctx := errgroup.WithContext(runCtx)
	for _, name := range names {
		g.Go(func() error { return c.forage(gctx, hive, name) })
	}
	err := g.Wait()

	halt()
	<-monitorDone
	if monitorErr != nil {
		err = monitorErr
	}

	summary := Summary{
		Total:         hive.Total(),
		Contributions: hive.Contributions(),
		Trips:         make(map[string]int, len(names)),
		Elapsed:       c.clock.Now().Sub(start),
	}
	for _, b := range hive.Frame().Bees {
		summary.Trips[b.Name] = b.Trips
	}

	if err != nil && apperrors.IsContextError(err) && ctx.Err() != nil {
		summary.Interrupted = true
		err = nil
	}
	if err != nil {
		c.logger.Error("hive aborted", err)
	} else {
		c.logger.Info("hive closed", logging.Int("total", summary.Total))
	}
	return summary, err
}

// forage runs one bee's trip cycle.
func (c *Colony) forage(ctx context.Context, hive *Hive, bee string) (err error) {
	defer func() {
		if v := recover(); v != nil {
			err = apperrors.RaceError{Racer: bee, Cause: apperrors.PanicError(v)}
		}
	}()
	defer hive.SetStatus(bee, Idle, 0)

	for trip := 0; c.settings.Trips == 0 || trip < c.settings.Trips; trip++ {
		hive.SetStatus(bee, Flying, 0)
		if err := c.clock.Sleep(ctx, c.source.Phase()); err != nil {
			return err
		}

		drops := c.source.Drops()
		hive.SetStatus(bee, Collecting, drops)
		if err := c.clock.Sleep(ctx, c.source.Phase()); err != nil {
			return err
		}

		hive.SetStatus(bee, Returning, drops)
		if err := c.clock.Sleep(ctx, c.source.Phase()); err != nil {
			return err
		}

		hive.SetStatus(bee, Depositing, drops)
		total := hive.Deposit(bee, drops)
		hive.CompleteTrip(bee)
		c.recorder.Deposited(bee, drops, total)

		hive.SetStatus(bee, Resting, 0)
		if err := c.clock.Sleep(ctx, c.source.Phase()); err != nil {
			return err
		}
	}
	return nil
}
