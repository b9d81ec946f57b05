package app

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/agbru/threadrace/internal/cli"
	"github.com/agbru/threadrace/internal/config"
	apperrors "github.com/agbru/threadrace/internal/errors"
	"github.com/agbru/threadrace/internal/race"
	"github.com/agbru/threadrace/internal/tui"
)

const (
	mainTitle   = "Thread Race"
	sprintTitle = "Sprint Race"

	mainPrompt   = "Press Enter to begin the main race..."
	sprintPrompt = "Press Enter to start the sprint race..."
	sprintAsk    = "Would you like to run a sprint race?"

	countdownTick = time.Second
)

// runRaces runs the main race followed by the optional sprint, or the sprint
// alone in sprint mode.
func (a *Application) runRaces(ctx context.Context, out io.Writer) int {
	prompter := cli.NewPrompter(a.In, out)

	if a.Config.Mode == config.ModeSprint {
		if code := a.runOneRace(ctx, out, prompter, sprintTitle, sprintPrompt, race.SprintRoster()); code != apperrors.ExitSuccess {
			return code
		}
		a.farewell(out)
		return apperrors.ExitSuccess
	}

	if code := a.runOneRace(ctx, out, prompter, mainTitle, mainPrompt, race.DefaultRoster()); code != apperrors.ExitSuccess {
		return code
	}

	sprint := a.Config.Sprint
	if !sprint && a.Config.Interactive {
		var err error
		if sprint, err = prompter.Confirm(ctx, sprintAsk); err != nil {
			return apperrors.HandleRunError(err, 0, out)
		}
	}
	if sprint {
		if code := a.runOneRace(ctx, out, prompter, sprintTitle, sprintPrompt, race.SprintRoster()); code != apperrors.ExitSuccess {
			return code
		}
	}
	a.farewell(out)
	return apperrors.ExitSuccess
}

func (a *Application) farewell(out io.Writer) {
	if !a.Config.Quiet {
		cli.PrintFarewell(out)
	}
}

// runOneRace shows the line-up and countdown, drives one race on a fresh
// track and prints the results.
func (a *Application) runOneRace(ctx context.Context, out io.Writer, prompter *cli.Prompter, title, prompt string, roster []race.Racer) int {
	if a.Config.Interactive {
		// Closed input just skips the wait.
		if err := prompter.WaitForEnter(ctx, prompt); err != nil && !errors.Is(err, io.EOF) {
			return apperrors.HandleRunError(err, 0, out)
		}
	}

	if !a.Config.Quiet {
		cli.PrintLineup(out, roster)
		if !a.Config.NoCountdown {
			if err := cli.Countdown(ctx, out, title, countdownTick, a.clock); err != nil {
				return apperrors.HandleRunError(err, 0, out)
			}
		}
	}

	var renderer race.Renderer = race.NopRenderer{}
	if !a.Config.Quiet {
		width := cli.TrackWidth(out, a.Config.TrackWidth, config.DefaultTrackWidth)
		renderer = cli.NewTrackRenderer(out, title, width, a.animated)
	}

	report, err := a.newDriver(renderer).Run(ctx, roster)
	if err != nil {
		if len(report.Finishes) > 0 && !a.Config.Quiet {
			cli.PrintResults(out, title, report)
		}
		return apperrors.HandleRunError(err, report.Elapsed, out)
	}

	cli.PrintResults(out, title, report)
	return apperrors.ExitSuccess
}

func (a *Application) newDriver(renderer race.Renderer) *race.Driver {
	settings := a.Config.RaceSettings()
	return race.NewDriver(settings,
		race.WithRenderer(renderer),
		race.WithRecorder(a.raceRec),
		race.WithPacer(race.NewRandomPacer(settings, a.Config.Seed)),
		race.WithClock(a.clock),
		race.WithLogger(a.logger),
	)
}

// runTUI runs the race of the configured mode in the full-screen view. The
// results of the last completed race are printed once the view closes.
func (a *Application) runTUI(ctx context.Context, out io.Writer) int {
	title, roster := mainTitle, race.DefaultRoster()
	if a.Config.Mode == config.ModeSprint {
		title, roster = sprintTitle, race.SprintRoster()
	}

	res := tui.Run(ctx, func(ctx context.Context, r race.Renderer) (race.Report, error) {
		return a.newDriver(r).Run(ctx, roster)
	}, title, Version)

	if res.Err != nil {
		return apperrors.HandleRunError(res.Err, res.Report.Elapsed, out)
	}
	if res.Done {
		cli.PrintResults(out, title, res.Report)
	}
	return res.ExitCode
}
