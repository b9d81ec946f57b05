package tui

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	apperrors "github.com/agbru/threadrace/internal/errors"
	"github.com/agbru/threadrace/internal/metrics"
	"github.com/agbru/threadrace/internal/race"
	"github.com/agbru/threadrace/internal/sysmon"
)

// statsInterval is the cadence of host and runtime sampling.
const statsInterval = 500 * time.Millisecond

// RaceFunc runs one race, rendering through r. The model calls it once per
// generation, each time with a fresh context.
type RaceFunc func(ctx context.Context, r race.Renderer) (race.Report, error)

// ExecutionState holds the run-related fields of a session.
type ExecutionState struct {
	ctx        context.Context
	cancel     context.CancelFunc
	generation uint64
	done       bool
	exitCode   int
	report     race.Report
	err        error
}

// Model is the root bubbletea model of the live race view.
type Model struct {
	header HeaderModel
	lanes  LanesModel
	stats  StatsModel
	footer FooterModel
	keymap KeyMap

	ExecutionState

	width     int
	height    int
	parentCtx context.Context
	raceFn    RaceFunc
	sampler   sysmon.Sampler
	ref       *programRef
}

// NewModel creates a model that will run raceFn once started.
func NewModel(parentCtx context.Context, raceFn RaceFunc, title, version string) Model {
	ctx, cancel := context.WithCancel(parentCtx)
	km := DefaultKeyMap()
	return Model{
		header:    NewHeaderModel(title, version),
		stats:     NewStatsModel(),
		footer:    NewFooterModel(km),
		keymap:    km,
		parentCtx: parentCtx,
		raceFn:    raceFn,
		sampler:   sysmon.Host,
		ref:       &programRef{},
		ExecutionState: ExecutionState{
			ctx:      ctx,
			cancel:   cancel,
			exitCode: apperrors.ExitSuccess,
		},
	}
}

// Init returns the initial commands.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(),
		startRaceCmd(m.ref, m.ctx, m.raceFn, m.generation),
		watchContextCmd(m.ctx, m.generation),
	)
}

// Update handles all incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.header.SetWidth(m.width)
		m.lanes.SetWidth(m.width)
		m.stats.SetWidth(m.width)
		m.footer.SetWidth(m.width)
		return m, nil

	case FrameMsg:
		if msg.Generation != m.generation {
			return m, nil
		}
		m.lanes.SetPositions(msg.Frame.Positions)
		m.header.SetElapsed(msg.Frame.Elapsed)
		return m, nil

	case FinishMsg:
		if msg.Generation != m.generation {
			return m, nil
		}
		m.lanes.AddFinish(msg.Finish)
		return m, nil

	case RaceDoneMsg:
		if msg.Generation != m.generation {
			return m, nil
		}
		m.done = true
		m.report = msg.Report
		m.err = msg.Err
		m.exitCode = exitCodeFor(msg.Err)
		if msg.Report.Final != nil {
			m.lanes.SetPositions(msg.Report.Final)
		}
		m.lanes.SetFinishes(msg.Report.Finishes)
		m.header.SetElapsed(msg.Report.Elapsed)
		m.header.SetDone(msg.Err != nil)
		m.footer.SetDone(true, msg.Err != nil)
		return m, nil

	case ContextCancelledMsg:
		if msg.Generation != m.generation {
			return m, nil
		}
		// The parent context ended (signal). A rerun cancel bumps the
		// generation first, so it never reaches here.
		if m.parentCtx.Err() == nil {
			return m, nil
		}
		m.done = true
		m.err = msg.Err
		m.exitCode = exitCodeFor(msg.Err)
		m.header.SetDone(true)
		m.footer.SetDone(true, true)
		return m, tea.Quit

	case TickMsg:
		if m.done {
			return m, nil
		}
		return m, tea.Batch(sampleSysStatsCmd(m.sampler), sampleRuntimeCmd(), tickCmd())

	case SysStatsMsg:
		m.stats.UpdateSys(sysmon.Stats(msg))
		return m, nil

	case RuntimeMsg:
		m.stats.UpdateRuntime(metrics.RuntimeSnapshot(msg))
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		if m.cancel != nil {
			m.cancel()
		}
		if !m.done {
			m.exitCode = apperrors.ExitErrorCanceled
			m.err = context.Canceled
		}
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Stats):
		m.stats.Toggle()
		return m, nil

	case key.Matches(msg, m.keymap.Rerun):
		if !m.done {
			return m, nil
		}
		if m.cancel != nil {
			m.cancel()
		}
		m.generation++
		ctx, cancel := context.WithCancel(m.parentCtx)
		m.ctx = ctx
		m.cancel = cancel

		m.header.Reset()
		m.lanes.Reset()
		m.footer.SetDone(false, false)
		m.done = false
		m.err = nil
		m.report = race.Report{}
		m.exitCode = apperrors.ExitSuccess

		return m, tea.Batch(
			tickCmd(),
			startRaceCmd(m.ref, m.ctx, m.raceFn, m.generation),
			watchContextCmd(m.ctx, m.generation),
		)
	}
	return m, nil
}

// View renders the whole screen.
func (m Model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}
	parts := []string{m.header.View(), m.lanes.View()}
	if s := m.stats.View(); s != "" {
		parts = append(parts, s)
	}
	parts = append(parts, m.footer.View())
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// Result is what a TUI session produced.
type Result struct {
	Report   race.Report
	Err      error
	ExitCode int
	// Done reports whether the last race returned before the program exited.
	Done bool
}

// Run starts the program in the alternate screen and blocks until the user
// quits or ctx ends.
func Run(ctx context.Context, raceFn RaceFunc, title, version string) Result {
	initTUIStyles()

	model := NewModel(ctx, raceFn, title, version)
	defer model.cancel()

	p := tea.NewProgram(model, tea.WithAltScreen())
	model.ref.SetProgram(p)

	finalModel, err := p.Run()
	if err != nil {
		return Result{Err: err, ExitCode: apperrors.ExitErrorGeneric}
	}

	m, ok := finalModel.(Model)
	if !ok {
		return Result{ExitCode: apperrors.ExitSuccess}
	}
	m.cancel()
	return Result{Report: m.report, Err: m.err, ExitCode: m.exitCode, Done: m.done}
}

func exitCodeFor(err error) int {
	switch {
	case err == nil:
		return apperrors.ExitSuccess
	case errors.Is(err, context.DeadlineExceeded):
		return apperrors.ExitErrorTimeout
	case errors.Is(err, context.Canceled):
		return apperrors.ExitErrorCanceled
	default:
		return apperrors.ExitErrorGeneric
	}
}

// startRaceCmd runs the race in a command goroutine and reports its outcome.
func startRaceCmd(ref *programRef, ctx context.Context, raceFn RaceFunc, gen uint64) tea.Cmd {
	return func() tea.Msg {
		report, err := raceFn(ctx, bridgeRenderer{ref: ref, generation: gen})
		return RaceDoneMsg{Report: report, Err: err, Generation: gen}
	}
}

// watchContextCmd waits for the run context to end.
func watchContextCmd(ctx context.Context, gen uint64) tea.Cmd {
	return func() tea.Msg {
		<-ctx.Done()
		return ContextCancelledMsg{Err: ctx.Err(), Generation: gen}
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(statsInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func sampleSysStatsCmd(s sysmon.Sampler) tea.Cmd {
	return func() tea.Msg {
		return SysStatsMsg(s.Sample())
	}
}

func sampleRuntimeCmd() tea.Cmd {
	return func() tea.Msg {
		return RuntimeMsg(metrics.ReadRuntime())
	}
}
