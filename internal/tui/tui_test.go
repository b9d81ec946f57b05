package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	apperrors "github.com/agbru/threadrace/internal/errors"
	"github.com/agbru/threadrace/internal/race"
	"github.com/agbru/threadrace/internal/sysmon"
)

func noopRace(ctx context.Context, r race.Renderer) (race.Report, error) {
	return race.Report{}, nil
}

func newTestModel(t *testing.T) Model {
	t.Helper()
	m := NewModel(context.Background(), noopRace, "Thread Race", "v1.0.0")
	t.Cleanup(func() { m.cancel() })
	return m
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return nm, cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func testPositions(progress ...float64) []race.Position {
	out := make([]race.Position, len(progress))
	for i, p := range progress {
		out[i] = race.Position{Racer: race.DefaultRoster()[i], Progress: p}
	}
	return out
}

func TestDefaultKeyMap(t *testing.T) {
	km := DefaultKeyMap()
	tests := []struct {
		name    string
		msg     tea.KeyMsg
		binding key.Binding
	}{
		{"q quits", runes("q"), km.Quit},
		{"ctrl+c quits", tea.KeyMsg{Type: tea.KeyCtrlC}, km.Quit},
		{"esc quits", tea.KeyMsg{Type: tea.KeyEsc}, km.Quit},
		{"r reruns", runes("r"), km.Rerun},
		{"s toggles stats", runes("s"), km.Stats},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !key.Matches(tt.msg, tt.binding) {
				t.Errorf("%q does not match %v", tt.msg.String(), tt.binding.Keys())
			}
		})
	}
}

func TestProgramRefWithoutProgram(t *testing.T) {
	ref := &programRef{}
	ref.Send(FrameMsg{})

	b := bridgeRenderer{ref: ref, generation: 3}
	b.Render(race.Frame{Positions: testPositions(10)})
	b.Finish(race.Finish{Racer: race.DefaultRoster()[0], Rank: 1})
}

func TestModelFramesAndFinishes(t *testing.T) {
	m := newTestModel(t)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})

	m, _ = update(t, m, FrameMsg{
		Frame: race.Frame{Positions: testPositions(40, 75, 100), Elapsed: 2 * time.Second},
	})
	if got := len(m.lanes.positions); got != 3 {
		t.Fatalf("lanes = %d, want 3", got)
	}
	if m.header.elapsed != 2*time.Second {
		t.Errorf("elapsed = %v", m.header.elapsed)
	}

	m, _ = update(t, m, FinishMsg{Finish: race.Finish{Racer: race.DefaultRoster()[2], Rank: 1}})
	if len(m.lanes.finishes) != 1 {
		t.Fatalf("finishes = %d, want 1", len(m.lanes.finishes))
	}

	view := m.View()
	if !strings.Contains(view, race.DefaultRoster()[2].Name) {
		t.Errorf("view missing racer name:\n%s", view)
	}
	if !strings.Contains(view, "finished in position 1") {
		t.Errorf("view missing finish line:\n%s", view)
	}
}

func TestModelIgnoresStaleGeneration(t *testing.T) {
	m := newTestModel(t)
	m.generation = 2

	m, _ = update(t, m, FrameMsg{Frame: race.Frame{Positions: testPositions(50)}, Generation: 1})
	if m.lanes.positions != nil {
		t.Error("stale frame was applied")
	}
	m, _ = update(t, m, FinishMsg{Finish: race.Finish{Rank: 1}, Generation: 1})
	if m.lanes.finishes != nil {
		t.Error("stale finish was applied")
	}
	m, _ = update(t, m, RaceDoneMsg{Generation: 1})
	if m.done {
		t.Error("stale done message ended the session")
	}
}

func TestModelRaceDone(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"success", nil, apperrors.ExitSuccess},
		{"timeout", apperrors.TimeoutError{Operation: "race", Limit: time.Second}, apperrors.ExitErrorTimeout},
		{"canceled", context.Canceled, apperrors.ExitErrorCanceled},
		{"racer failure", apperrors.RaceError{Racer: "X", Cause: errors.New("boom")}, apperrors.ExitErrorGeneric},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestModel(t)
			report := race.Report{
				Finishes: []race.Finish{{Racer: race.DefaultRoster()[0], Rank: 1}},
				Final:    testPositions(100),
				Racers:   1,
			}
			m, cmd := update(t, m, RaceDoneMsg{Report: report, Err: tt.err})
			if cmd != nil {
				t.Error("done should not quit by itself")
			}
			if !m.done || m.exitCode != tt.wantCode {
				t.Errorf("done=%v exit=%d, want true/%d", m.done, m.exitCode, tt.wantCode)
			}
			if len(m.lanes.finishes) != 1 {
				t.Errorf("ledger not applied")
			}
		})
	}
}

func TestModelQuitCancelsRun(t *testing.T) {
	m := newTestModel(t)
	ctx := m.ctx

	m, cmd := update(t, m, runes("q"))
	if !isQuit(cmd) {
		t.Fatal("q should quit")
	}
	if ctx.Err() == nil {
		t.Error("run context not cancelled")
	}
	if m.exitCode != apperrors.ExitErrorCanceled {
		t.Errorf("exit = %d, want %d", m.exitCode, apperrors.ExitErrorCanceled)
	}
}

func TestModelQuitAfterDoneKeepsExitCode(t *testing.T) {
	m := newTestModel(t)
	m, _ = update(t, m, RaceDoneMsg{})
	m, cmd := update(t, m, runes("q"))
	if !isQuit(cmd) {
		t.Fatal("q should quit")
	}
	if m.exitCode != apperrors.ExitSuccess {
		t.Errorf("exit = %d, want 0", m.exitCode)
	}
}

func TestModelRerun(t *testing.T) {
	m := newTestModel(t)

	m, cmd := update(t, m, runes("r"))
	if cmd != nil || m.generation != 0 {
		t.Fatal("rerun must wait for the current race")
	}

	m, _ = update(t, m, FrameMsg{Frame: race.Frame{Positions: testPositions(100)}})
	m, _ = update(t, m, RaceDoneMsg{Report: race.Report{Finishes: []race.Finish{{Rank: 1}}}})
	oldCtx := m.ctx

	m, cmd = update(t, m, runes("r"))
	if cmd == nil {
		t.Fatal("rerun returned no command")
	}
	if m.generation != 1 {
		t.Errorf("generation = %d, want 1", m.generation)
	}
	if m.done || m.lanes.positions != nil || m.lanes.finishes != nil {
		t.Error("state not reset")
	}
	if oldCtx.Err() == nil {
		t.Error("previous context not cancelled")
	}
	if m.ctx.Err() != nil {
		t.Error("new context already cancelled")
	}
}

func TestModelParentCancellationQuits(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	m := NewModel(parent, noopRace, "Thread Race", "dev")
	defer m.cancel()

	m, cmd := update(t, m, ContextCancelledMsg{Err: context.Canceled})
	if cmd != nil {
		t.Fatal("cancellation of the run context alone must not quit")
	}

	cancel()
	m, cmd = update(t, m, ContextCancelledMsg{Err: context.Canceled})
	if !isQuit(cmd) {
		t.Fatal("parent cancellation should quit")
	}
	if m.exitCode != apperrors.ExitErrorCanceled {
		t.Errorf("exit = %d, want %d", m.exitCode, apperrors.ExitErrorCanceled)
	}
}

func TestModelStats(t *testing.T) {
	m := newTestModel(t)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 90, Height: 20})
	m, _ = update(t, m, SysStatsMsg(sysmon.Stats{CPUPercent: 50, MemPercent: 20, Load1: 1.5, CPUs: 4}))
	if len(m.stats.cpu) != 1 {
		t.Fatalf("cpu history = %d, want 1", len(m.stats.cpu))
	}
	if !strings.Contains(m.View(), "CPU") {
		t.Error("stats panel not rendered")
	}

	m, _ = update(t, m, runes("s"))
	if strings.Contains(m.View(), "goroutines") {
		t.Error("stats panel still visible after toggle")
	}
}

func TestModelTickStopsWhenDone(t *testing.T) {
	m := newTestModel(t)
	m.sampler = sysmon.SamplerFunc(func() sysmon.Stats { return sysmon.Stats{CPUs: 1} })

	_, cmd := update(t, m, TickMsg(time.Now()))
	if cmd == nil {
		t.Error("tick while racing should schedule sampling")
	}

	m, _ = update(t, m, RaceDoneMsg{})
	_, cmd = update(t, m, TickMsg(time.Now()))
	if cmd != nil {
		t.Error("tick after done should not reschedule")
	}
}

func TestStartRaceCmdTagsGeneration(t *testing.T) {
	ref := &programRef{}
	want := race.Report{Racers: 2}
	fn := func(ctx context.Context, r race.Renderer) (race.Report, error) {
		if br, ok := r.(bridgeRenderer); !ok || br.generation != 7 {
			t.Errorf("renderer = %#v", r)
		}
		return want, nil
	}
	msg := startRaceCmd(ref, context.Background(), fn, 7)()
	done, ok := msg.(RaceDoneMsg)
	if !ok {
		t.Fatalf("msg = %T", msg)
	}
	if done.Generation != 7 || done.Report.Racers != 2 {
		t.Errorf("done = %+v", done)
	}
}

func TestSparkline(t *testing.T) {
	got := sparkline([]float64{0, 50, 100, 150, -5})
	if want := "▁▄██▁"; got != want {
		t.Errorf("sparkline = %q, want %q", got, want)
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   uint64
		want string
	}{
		{512, "512 B"},
		{2048, "2.0 KB"},
		{3 << 20, "3.0 MB"},
		{5 << 30, "5.0 GB"},
	}
	for _, tt := range tests {
		if got := formatBytes(tt.in); got != tt.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
