package race_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"

	apperrors "github.com/agbru/threadrace/internal/errors"
	"github.com/agbru/threadrace/internal/race"
	"github.com/agbru/threadrace/internal/race/mocks"
)

const unit = 60 * time.Millisecond

func testSettings() race.Settings {
	s := race.DefaultSettings()
	s.Steps = 3
	s.MinDuration = unit
	s.MaxDuration = 3 * unit
	s.MonitorInterval = 5 * time.Millisecond
	return s
}

func threeRacers() []race.Racer {
	return []race.Racer{
		{Name: "Slow", ID: 1},
		{Name: "Medium", ID: 2},
		{Name: "Fast", ID: 3},
	}
}

// Fast finishes in 1 unit, Medium in 2, Slow in 3.
func fixedPacer() race.FixedPacer {
	return race.FixedPacer{Durations: map[string]time.Duration{
		"Fast":   unit,
		"Medium": 2 * unit,
		"Slow":   3 * unit,
	}}
}

// progressLog records every frame and fails on any backwards move.
type progressLog struct {
	mu       sync.Mutex
	last     map[string]float64
	backward []string
	frames   int
	final    int
}

func newProgressLog() *progressLog { return &progressLog{last: map[string]float64{}} }

func (p *progressLog) Render(f race.Frame) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.frames++
	if f.Final {
		p.final++
	}
	for _, pos := range f.Positions {
		if pos.Progress < p.last[pos.Racer.Name] {
			p.backward = append(p.backward, pos.Racer.Name)
		}
		p.last[pos.Racer.Name] = pos.Progress
	}
}

func (p *progressLog) Finish(race.Finish) {}

func TestDriver_FixedDurationsFinishInOrder(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)

	renderer := mocks.NewMockRenderer(ctrl)
	recorder := mocks.NewMockRecorder(ctrl)

	var mu sync.Mutex
	var announced []string
	renderer.EXPECT().Render(gomock.Any()).AnyTimes()
	renderer.EXPECT().Finish(gomock.Any()).Times(3).Do(func(f race.Finish) {
		mu.Lock()
		announced = append(announced, f.Racer.Name)
		mu.Unlock()
	})
	recorder.EXPECT().RaceStarted(3)
	recorder.EXPECT().Step(gomock.Any(), gomock.Any()).Times(3 * 4)
	recorder.EXPECT().Finished(gomock.Any()).Times(3)
	recorder.EXPECT().RaceEnded(gomock.Any(), nil)

	d := race.NewDriver(testSettings(),
		race.WithRenderer(renderer),
		race.WithRecorder(recorder),
		race.WithPacer(fixedPacer()))

	report, err := d.Run(context.Background(), threeRacers())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	want := []string{"Fast", "Medium", "Slow"}
	if len(report.Finishes) != 3 {
		t.Fatalf("ledger length = %d, want 3", len(report.Finishes))
	}
	for i, f := range report.Finishes {
		if f.Racer.Name != want[i] || f.Rank != i+1 {
			t.Errorf("finish %d = %s rank %d, want %s rank %d", i, f.Racer.Name, f.Rank, want[i], i+1)
		}
	}
	mu.Lock()
	defer mu.Unlock()
	for i, name := range announced {
		if name != want[i] {
			t.Errorf("announcement %d = %s, want %s", i, name, want[i])
		}
	}
	if w, ok := report.Winner(); !ok || w.Racer.Name != "Fast" {
		t.Errorf("Winner() = %+v, %v", w, ok)
	}
	for _, p := range report.Final {
		if p.Progress != 100 {
			t.Errorf("%s final progress = %v", p.Racer.Name, p.Progress)
		}
	}
}

func TestDriver_ProgressIsMonotonicAndFinalFrameDrawn(t *testing.T) {
	t.Parallel()
	log := newProgressLog()
	d := race.NewDriver(testSettings(), race.WithRenderer(log), race.WithPacer(fixedPacer()))

	if _, err := d.Run(context.Background(), threeRacers()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	log.mu.Lock()
	defer log.mu.Unlock()
	if len(log.backward) > 0 {
		t.Errorf("progress moved backwards for %v", log.backward)
	}
	if log.final != 1 {
		t.Errorf("final frames = %d, want 1", log.final)
	}
	for name, p := range log.last {
		if p != 100 {
			t.Errorf("%s last rendered progress = %v, want 100", name, p)
		}
	}
}

func TestDriver_RerunStartsFromFreshState(t *testing.T) {
	t.Parallel()
	d := race.NewDriver(testSettings(), race.WithPacer(fixedPacer()))

	first, err := d.Run(context.Background(), threeRacers())
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := d.Run(context.Background(), threeRacers())
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	for name, report := range map[string]race.Report{"first": first, "second": second} {
		if len(report.Finishes) != 3 {
			t.Errorf("%s run: ledger length = %d, want 3", name, len(report.Finishes))
		}
		for i, f := range report.Finishes {
			if f.Rank != i+1 {
				t.Errorf("%s run: rank %d at index %d", name, f.Rank, i)
			}
		}
	}

	// A smaller roster afterwards sees neither the old ledger nor old lanes.
	sprint, err := d.Run(context.Background(), race.SprintRoster()[:1])
	if err != nil {
		t.Fatalf("sprint run: %v", err)
	}
	if len(sprint.Finishes) != 1 || sprint.Finishes[0].Rank != 1 {
		t.Errorf("sprint ledger = %+v", sprint.Finishes)
	}
	if len(sprint.Final) != 1 || sprint.Final[0].Racer.Name != race.SprintRoster()[0].Name {
		t.Errorf("sprint table = %+v", sprint.Final)
	}
}

func TestDriver_CancellationBeforeAnyFinish(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	renderer := mocks.NewMockRenderer(ctrl)

	var mu sync.Mutex
	var finalSeen bool
	renderer.EXPECT().Render(gomock.Any()).AnyTimes().Do(func(f race.Frame) {
		if f.Final {
			mu.Lock()
			finalSeen = true
			mu.Unlock()
		}
	})
	renderer.EXPECT().Finish(gomock.Any()).Times(0)

	s := testSettings()
	d := race.NewDriver(s,
		race.WithRenderer(renderer),
		race.WithPacer(race.FixedPacer{Default: time.Hour}))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	report, err := d.Run(ctx, race.DefaultRoster())
	if err == nil {
		t.Fatal("expected a context error")
	}
	if !apperrors.IsContextError(err) {
		t.Errorf("error = %v, want a context error", err)
	}
	if len(report.Finishes) != 0 {
		t.Errorf("ledger = %+v, want empty", report.Finishes)
	}
	mu.Lock()
	defer mu.Unlock()
	if !finalSeen {
		t.Error("monitor never observed the stop flag")
	}
}

func TestDriver_TimeoutIsReportedAsTimeoutError(t *testing.T) {
	t.Parallel()
	s := testSettings()
	s.Timeout = 40 * time.Millisecond
	d := race.NewDriver(s, race.WithPacer(race.FixedPacer{Default: time.Hour}))

	_, err := d.Run(context.Background(), threeRacers())
	var te apperrors.TimeoutError
	if !errors.As(err, &te) {
		t.Fatalf("error = %v, want TimeoutError", err)
	}
	if te.Limit != s.Timeout {
		t.Errorf("Limit = %v, want %v", te.Limit, s.Timeout)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Error("TimeoutError should unwrap to DeadlineExceeded")
	}
}

type panickyPacer struct {
	race.FixedPacer
	victim string
}

func (p panickyPacer) Plan(r race.Racer) time.Duration {
	if r.Name == p.victim {
		panic("engine failure")
	}
	return p.FixedPacer.Plan(r)
}

func TestDriver_RacerPanicBecomesRaceError(t *testing.T) {
	t.Parallel()
	d := race.NewDriver(testSettings(), race.WithPacer(panickyPacer{
		FixedPacer: fixedPacer(),
		victim:     "Medium",
	}))

	report, err := d.Run(context.Background(), threeRacers())
	var re apperrors.RaceError
	if !errors.As(err, &re) {
		t.Fatalf("error = %v, want RaceError", err)
	}
	if re.Racer != "Medium" {
		t.Errorf("Racer = %q, want Medium", re.Racer)
	}
	for _, f := range report.Finishes {
		if f.Racer.Name == "Medium" {
			t.Error("the panicking racer must not appear in the ledger")
		}
	}
}

// brokenRenderer panics on its first frame.
type brokenRenderer struct{}

func (brokenRenderer) Render(race.Frame)  { panic("terminal gone") }
func (brokenRenderer) Finish(race.Finish) {}

func TestDriver_RendererPanicAbortsRace(t *testing.T) {
	t.Parallel()
	d := race.NewDriver(testSettings(),
		race.WithRenderer(brokenRenderer{}),
		race.WithPacer(race.FixedPacer{Default: time.Hour}))

	done := make(chan error, 1)
	go func() {
		_, err := d.Run(context.Background(), threeRacers())
		done <- err
	}()

	select {
	case err := <-done:
		var re apperrors.RaceError
		if !errors.As(err, &re) {
			t.Fatalf("error = %v, want RaceError", err)
		}
		if re.Racer != "monitor" {
			t.Errorf("Racer = %q, want monitor", re.Racer)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("race kept running after the renderer panicked")
	}
}

func TestDriver_RejectsInvalidInput(t *testing.T) {
	t.Parallel()
	bad := testSettings()
	bad.Steps = 0

	tests := []struct {
		name     string
		settings race.Settings
		racers   []race.Racer
	}{
		{"invalid settings", bad, threeRacers()},
		{"empty roster", testSettings(), nil},
		{"duplicate names", testSettings(), []race.Racer{{Name: "A"}, {Name: "A"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := race.NewDriver(tt.settings).Run(context.Background(), tt.racers)
			var ve apperrors.ValidationError
			if !errors.As(err, &ve) {
				t.Errorf("error = %v, want ValidationError", err)
			}
		})
	}
}
