//go:generate mockgen -source=driver.go -destination=mocks/mock_race.go -package=mocks

package race

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	apperrors "github.com/agbru/threadrace/internal/errors"
	"github.com/agbru/threadrace/internal/logging"
)

const tracerName = "github.com/agbru/threadrace/internal/race"

// Renderer displays the race. Render is called from the monitor goroutine,
// Finish from racer goroutines, so implementations must be safe for
// concurrent use.
type Renderer interface {
	Render(frame Frame)
	Finish(f Finish)
}

// Recorder receives race telemetry.
type Recorder interface {
	RaceStarted(racers int)
	Step(racer string, progress float64)
	Finished(f Finish)
	RaceEnded(elapsed time.Duration, err error)
}

// NopRenderer discards frames.
type NopRenderer struct{}

func (NopRenderer) Render(Frame)  {}
func (NopRenderer) Finish(Finish) {}

// NopRecorder discards telemetry.
type NopRecorder struct{}

func (NopRecorder) RaceStarted(int)                {}
func (NopRecorder) Step(string, float64)           {}
func (NopRecorder) Finished(Finish)                {}
func (NopRecorder) RaceEnded(time.Duration, error) {}

// Report is the outcome of one Run.
type Report struct {
	// Finishes is the results ledger in rank order.
	Finishes []Finish
	// Final is the position table after every racer was joined.
	Final   []Position
	Racers  int
	Elapsed time.Duration
}

// Winner returns the rank 1 finisher, if any.
func (r Report) Winner() (Finish, bool) {
	if len(r.Finishes) == 0 {
		return Finish{}, false
	}
	return r.Finishes[0], true
}

// Driver coordinates the fan-out: one goroutine per racer plus a monitor.
type Driver struct {
	settings Settings
	renderer Renderer
	recorder Recorder
	pacer    Pacer
	clock    Clock
	logger   logging.Logger
}

// Option configures a Driver.
type Option func(*Driver)

// WithRenderer sets the display.
func WithRenderer(r Renderer) Option { return func(d *Driver) { d.renderer = r } }

// WithRecorder sets the telemetry sink.
func WithRecorder(r Recorder) Option { return func(d *Driver) { d.recorder = r } }

// WithPacer overrides the random pacer.
func WithPacer(p Pacer) Option { return func(d *Driver) { d.pacer = p } }

// WithClock overrides the wall clock.
func WithClock(c Clock) Option { return func(d *Driver) { d.clock = c } }

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option { return func(d *Driver) { d.logger = l } }

// NewDriver builds a driver. Unset collaborators default to no-ops, the
// system clock and a randomly seeded pacer.
func NewDriver(settings Settings, opts ...Option) *Driver {
	d := &Driver{settings: settings}
	for _, opt := range opts {
		opt(d)
	}
	if d.renderer == nil {
		d.renderer = NopRenderer{}
	}
	if d.recorder == nil {
		d.recorder = NopRecorder{}
	}
	if d.pacer == nil {
		d.pacer = NewRandomPacer(settings, 0)
	}
	if d.clock == nil {
		d.clock = SystemClock{}
	}
	if d.logger == nil {
		d.logger = logging.Nop{}
	}
	return d
}

// Run races the given roster on a fresh track and returns the report once
// every racer has been joined and the monitor has drawn its final frame.
// The report is filled even when err is non-nil.
func (d *Driver) Run(ctx context.Context, racers []Racer) (report Report, err error) {
	if err := d.settings.Validate(); err != nil {
		return Report{}, err
	}
	if err := ValidateRoster(racers); err != nil {
		return Report{}, err
	}

	ctx, span := otel.Tracer(tracerName).Start(ctx, "race.Run")
	defer span.End()
	span.SetAttributes(
		attribute.Int("race.racers", len(racers)),
		attribute.Int("race.steps", d.settings.Steps),
	)

	if d.settings.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.settings.Timeout)
		defer cancel()
	}

	// A failed monitor aborts the racers through this cancel.
	ctx, abort := context.WithCancel(ctx)
	defer abort()

	start := d.clock.Now()
	track := NewTrack(racers, start)
	var monitorErr error
	monitorDone := make(chan struct{})
	go func() {
		defer close(monitorDone)
		if monitorErr = NewMonitor(track, d.renderer, d.settings.MonitorInterval, d.clock).Run(); monitorErr != nil {
			abort()
		}
	}()
	// Runs on every exit path, panics included, so the monitor always ends.
	defer func() {
		track.Stop()
		<-monitorDone
	}()

	d.recorder.RaceStarted(len(racers))
	d.logger.Debug("race started", logging.Int("racers", len(racers)))

	g, gctx := errgroup.WithContext(ctx)
	for _, r := range racers {
		g.Go(func() error { return d.runRacer(gctx, track, r) })
	}
	err = g.Wait()

	track.Stop()
	<-monitorDone
	if monitorErr != nil {
		err = monitorErr
	}

	report = Report{
		Finishes: track.Results(),
		Final:    track.Snapshot(),
		Racers:   len(racers),
		Elapsed:  d.clock.Now().Sub(start),
	}
	if err != nil && errors.Is(err, context.DeadlineExceeded) && d.settings.Timeout > 0 {
		err = apperrors.TimeoutError{Operation: "race", Limit: d.settings.Timeout}
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		d.logger.Error("race aborted", err, logging.Int("finished", len(report.Finishes)))
	} else {
		d.logger.Info("race completed",
			logging.Int("finished", len(report.Finishes)),
			logging.Duration("elapsed", report.Elapsed))
	}
	d.recorder.RaceEnded(report.Elapsed, err)
	return report, err
}

// runRacer advances one racer from 0 to 100 and records its finish.
func (d *Driver) runRacer(ctx context.Context, track *Track, r Racer) (err error) {
	defer func() {
		if v := recover(); v != nil {
			err = apperrors.RaceError{Racer: r.Name, Cause: apperrors.PanicError(v)}
		}
	}()

	planned := d.pacer.Plan(r)
	steps := d.settings.Steps
	stepTime := planned / time.Duration(steps)

	for step := 0; step <= steps; step++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		progress := float64(step) / float64(steps) * 100
		track.SetProgress(r.Name, progress)
		d.recorder.Step(r.Name, progress)
		if step == steps {
			break
		}
		pause := time.Duration(float64(stepTime) * d.pacer.Jitter())
		if err := d.clock.Sleep(ctx, pause); err != nil {
			return err
		}
	}

	f, ok := track.RegisterFinish(r, d.clock.Now().Sub(track.Started()), planned)
	if !ok {
		return nil
	}
	d.renderer.Finish(f)
	d.recorder.Finished(f)
	d.logger.Debug("racer finished",
		logging.String("racer", r.Name),
		logging.Int("rank", f.Rank),
		logging.Duration("elapsed", f.Elapsed))
	return nil
}
