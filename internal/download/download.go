// Package download simulates file downloads fanned out to a bounded worker
// pool and joined before returning.
package download

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/go-pkgz/pool"

	apperrors "github.com/agbru/threadrace/internal/errors"
	"github.com/agbru/threadrace/internal/logging"
	"github.com/agbru/threadrace/internal/race"
)

// DefaultDelay is the simulated transfer time of one file.
const DefaultDelay = 2 * time.Second

// DefaultFiles is the file list of the download mode.
func DefaultFiles() []string {
	return []string{"file1.mp3", "file2.mp3", "file3.mp3"}
}

// Reporter receives progress from pool workers; it must be safe for
// concurrent use.
type Reporter interface {
	Started(file string, at time.Time)
	Completed(file string, at time.Time, took time.Duration)
}

// NopReporter discards progress.
type NopReporter struct{}

func (NopReporter) Started(string, time.Time)                  {}
func (NopReporter) Completed(string, time.Time, time.Duration) {}

// Options tune Run.
type Options struct {
	Delay time.Duration
	// Workers bounds concurrency; 0 means one worker per file.
	Workers int
	Logger  logging.Logger
	// Clock defaults to the wall clock.
	Clock race.Clock
}

// FileResult is the outcome of one file.
type FileResult struct {
	File     string
	Started  time.Time
	Finished time.Time
	Err      error
}

// Report is the outcome of a Run, results in submission order.
type Report struct {
	Results   []FileResult
	Processed int
	Elapsed   time.Duration
}

type job struct {
	index int
	file  string
}

// Run downloads every file through a worker pool and waits for all of them.
func Run(ctx context.Context, files []string, opts Options, reporter Reporter) (Report, error) {
	if len(files) == 0 {
		return Report{}, apperrors.ValidationError{Field: "files", Message: "at least one file is required"}
	}
	for _, f := range files {
		if strings.TrimSpace(f) == "" {
			return Report{}, apperrors.ValidationError{Field: "files", Message: "file names must not be blank"}
		}
	}
	if opts.Delay < 0 {
		return Report{}, apperrors.ValidationError{Field: "delay", Message: "must not be negative"}
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = len(files)
	}
	if opts.Logger == nil {
		opts.Logger = logging.Nop{}
	}
	if reporter == nil {
		reporter = NopReporter{}
	}
	clock := opts.Clock
	if clock == nil {
		clock = race.SystemClock{}
	}

	var mu sync.Mutex
	results := make([]FileResult, len(files))

	p := pool.New[job](workers, pool.WorkerFunc[job](func(wctx context.Context, j job) error {
		res := FileResult{File: j.file, Started: clock.Now()}
		reporter.Started(j.file, res.Started)

		res.Err = apperrors.WrapError(clock.Sleep(wctx, opts.Delay), "download %s", j.file)
		res.Finished = clock.Now()

		mu.Lock()
		results[j.index] = res
		mu.Unlock()

		if res.Err != nil {
			return res.Err
		}
		reporter.Completed(j.file, res.Finished, res.Finished.Sub(res.Started))
		return nil
	})).
		WithContinueOnError().
		WithPoolCompleteFn(func(context.Context) error {
			opts.Logger.Debug("download workers drained", logging.Int("workers", workers))
			return nil
		})

	start := clock.Now()
	if err := p.Go(ctx); err != nil {
		return Report{}, apperrors.WrapError(err, "start download pool")
	}
	for i, f := range files {
		p.Submit(job{index: i, file: f})
	}
	closeErr := p.Close(ctx)

	stats := p.Metrics().GetStats()
	mu.Lock()
	snapshot := slices.Clone(results)
	mu.Unlock()
	report := Report{
		Results:   snapshot,
		Processed: stats.Processed,
		Elapsed:   clock.Now().Sub(start),
	}
	if err := ctx.Err(); err != nil {
		opts.Logger.Error("downloads interrupted", err, logging.Int("processed", report.Processed))
		return report, err
	}
	var failed []error
	for _, r := range snapshot {
		if r.Err != nil {
			failed = append(failed, r.Err)
		}
	}
	if len(failed) > 0 {
		err := errors.Join(failed...)
		opts.Logger.Error("downloads failed", err, logging.Int("failed", len(failed)))
		return report, err
	}
	if closeErr != nil {
		return report, apperrors.WrapError(closeErr, "download pool")
	}
	opts.Logger.Info("downloads completed",
		logging.Int("files", len(files)),
		logging.Duration("elapsed", report.Elapsed))
	return report, nil
}
