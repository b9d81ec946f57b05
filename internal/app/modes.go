package app

import (
	"context"
	"io"

	"github.com/agbru/threadrace/internal/arith"
	"github.com/agbru/threadrace/internal/cli"
	"github.com/agbru/threadrace/internal/download"
	apperrors "github.com/agbru/threadrace/internal/errors"
	"github.com/agbru/threadrace/internal/hive"
)

// withTimeout bounds ctx by the configured timeout, if any.
func (a *Application) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.Config.Timeout > 0 {
		return context.WithTimeout(ctx, a.Config.Timeout)
	}
	return context.WithCancel(ctx)
}

// runHive runs the colony until every bee completed its trips or the user
// interrupts. An interrupt is a normal end.
func (a *Application) runHive(ctx context.Context, out io.Writer) int {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	settings := a.Config.HiveSettings()
	var renderer hive.Renderer = hive.NopRenderer{}
	if !a.Config.Quiet {
		renderer = cli.NewHiveRenderer(out, a.animated)
	}

	colony := hive.NewColony(settings,
		hive.WithRenderer(renderer),
		hive.WithRecorder(a.hiveRec),
		hive.WithSource(hive.NewRandomSource(settings, a.Config.Seed)),
		hive.WithClock(a.clock),
		hive.WithLogger(a.logger),
	)
	summary, err := colony.Run(ctx)
	if err != nil {
		return apperrors.HandleRunError(err, summary.Elapsed, out)
	}
	cli.PrintHiveSummary(out, summary)
	return apperrors.ExitSuccess
}

// runArith runs the addition and the multiplication side by side.
func (a *Application) runArith(ctx context.Context, out io.Writer) int {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	x, y, err := a.Config.Operands()
	if err != nil {
		return apperrors.HandleRunError(err, 0, out)
	}
	res, err := arith.Run(ctx, x, y, arith.Options{
		Delay:  a.Config.ArithDelay,
		Logger: a.logger,
	}, cli.ArithPresenter{Out: out})
	if err != nil {
		return apperrors.HandleRunError(err, res.Elapsed, out)
	}
	cli.PrintArithResult(out, res)
	return apperrors.ExitSuccess
}

// runDownload runs the simulated downloads on the worker pool.
func (a *Application) runDownload(ctx context.Context, out io.Writer) int {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	files := a.Config.FileList()
	presenter := cli.NewDownloadPresenter(out, len(files), a.animated)
	presenter.Begin()
	report, err := download.Run(ctx, files, download.Options{
		Delay:   a.Config.DownloadDelay,
		Workers: a.Config.Workers,
		Logger:  a.logger,
		Clock:   a.clock,
	}, presenter)
	presenter.End()
	if err != nil {
		return apperrors.HandleRunError(err, report.Elapsed, out)
	}
	cli.PrintDownloadReport(out, report)
	return apperrors.ExitSuccess
}
