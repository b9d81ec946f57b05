package app

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	apperrors "github.com/agbru/threadrace/internal/errors"
)

var fastRace = []string{
	"--steps", "3",
	"--min-duration", "15ms",
	"--max-duration", "30ms",
	"--interval", "5ms",
	"--no-countdown",
	"--no-color",
	"--seed", "42",
}

func newApp(t *testing.T, input string, args ...string) *Application {
	t.Helper()
	return newAppWithInput(t, strings.NewReader(input), args...)
}

func newAppWithInput(t *testing.T, in io.Reader, args ...string) *Application {
	t.Helper()
	var errBuf bytes.Buffer
	a, err := New(append([]string{"threadrace"}, args...), &errBuf, WithInput(in))
	if err != nil {
		t.Fatalf("New(%v): %v (stderr: %s)", args, err, errBuf.String())
	}
	return a
}

// syncBuffer lets the test read output while Run writes from another goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func run(t *testing.T, a *Application) (int, string) {
	t.Helper()
	var out bytes.Buffer
	code := a.Run(context.Background(), &out)
	return code, out.String()
}

func TestNewErrors(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		wantCode   int
		wantStderr string
	}{
		{"help", []string{"--help"}, apperrors.ExitSuccess, "Usage"},
		{"unknown flag", []string{"--nope"}, apperrors.ExitErrorConfig, "flag provided but not defined"},
		{"unknown mode", []string{"--mode", "bogus"}, apperrors.ExitErrorConfig, "Configuration error"},
		{"bad steps", []string{"--steps", "0"}, apperrors.ExitErrorConfig, "Configuration error"},
		{"stray args", []string{"extra"}, apperrors.ExitErrorConfig, "unexpected arguments"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var errBuf bytes.Buffer
			_, err := New(append([]string{"threadrace"}, tt.args...), &errBuf)
			if err == nil {
				t.Fatal("expected an error")
			}
			if got := InitErrorCode(err, &errBuf); got != tt.wantCode {
				t.Errorf("code = %d, want %d", got, tt.wantCode)
			}
			if !strings.Contains(errBuf.String(), tt.wantStderr) {
				t.Errorf("stderr %q does not contain %q", errBuf.String(), tt.wantStderr)
			}
		})
	}
}

func TestRunMainRace(t *testing.T) {
	a := newApp(t, "", fastRace...)
	code, out := run(t, a)
	if code != apperrors.ExitSuccess {
		t.Fatalf("code = %d, output:\n%s", code, out)
	}
	for _, want := range []string{"Racers on the grid", "THREAD RACE RESULTS", "Racers finished: 5/5", "Thanks for watching"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
	if strings.Contains(out, "SPRINT") {
		t.Error("sprint ran without being requested")
	}
}

func TestRunQuietRace(t *testing.T) {
	a := newApp(t, "", append(fastRace, "-q", "--sprint")...)
	code, out := run(t, a)
	if code != apperrors.ExitSuccess {
		t.Fatalf("code = %d", code)
	}
	if strings.Contains(out, "Racers on the grid") || strings.Contains(out, "finished in position") {
		t.Errorf("quiet mode printed live output:\n%s", out)
	}
	if !strings.Contains(out, "THREAD RACE RESULTS") || !strings.Contains(out, "Racers finished: 3/3") {
		t.Errorf("results missing:\n%s", out)
	}
}

func TestRunInteractiveSprint(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantSprint bool
	}{
		{"accepts", "\ny\n\n", true},
		{"declines", "\nn\n", false},
		{"closed input", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newApp(t, tt.input, append(fastRace, "-i")...)
			code, out := run(t, a)
			if code != apperrors.ExitSuccess {
				t.Fatalf("code = %d, output:\n%s", code, out)
			}
			if !strings.Contains(out, mainPrompt) {
				t.Error("main prompt not shown")
			}
			if got := strings.Contains(out, "SPRINT RACE RESULTS"); got != tt.wantSprint {
				t.Errorf("sprint ran = %v, want %v", got, tt.wantSprint)
			}
		})
	}
}

func TestRunInterruptedAtPrompt(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"main race prompt", ""},
		{"sprint question", "\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pr, pw := io.Pipe()
			defer pw.Close()
			if tt.input != "" {
				go func() { _, _ = io.WriteString(pw, tt.input) }()
			}

			a := newAppWithInput(t, pr, append(fastRace, "-i", "-q")...)
			ctx, cancel := context.WithCancel(context.Background())
			var out syncBuffer
			done := make(chan int, 1)
			go func() { done <- a.Run(ctx, &out) }()

			time.Sleep(100 * time.Millisecond)
			cancel()

			select {
			case code := <-done:
				if code != apperrors.ExitErrorCanceled {
					t.Errorf("code = %d, want %d", code, apperrors.ExitErrorCanceled)
				}
				if !strings.Contains(out.String(), "Race interrupted!") {
					t.Errorf("missing interrupt message:\n%s", out.String())
				}
			case <-time.After(2 * time.Second):
				t.Fatalf("Run still blocked after interrupt; output:\n%s", out.String())
			}
		})
	}
}

func TestRunSprintMode(t *testing.T) {
	a := newApp(t, "", append(fastRace, "--mode", "sprint")...)
	code, out := run(t, a)
	if code != apperrors.ExitSuccess {
		t.Fatalf("code = %d", code)
	}
	if !strings.Contains(out, "Alpha Sprint") || strings.Contains(out, "THREAD RACE RESULTS") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestRunRaceCancelled(t *testing.T) {
	a := newApp(t, "", "--min-duration", "5s", "--max-duration", "6s", "--no-countdown", "-q")
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	var out bytes.Buffer
	code := a.Run(ctx, &out)
	if code != apperrors.ExitErrorTimeout && code != apperrors.ExitErrorCanceled {
		t.Fatalf("code = %d, output:\n%s", code, out.String())
	}
}

func TestRunRaceTimeout(t *testing.T) {
	a := newApp(t, "", "--min-duration", "5s", "--max-duration", "6s", "--no-countdown", "-q", "--timeout", "30ms")
	code, out := run(t, a)
	if code != apperrors.ExitErrorTimeout {
		t.Fatalf("code = %d, output:\n%s", code, out)
	}
	if !strings.Contains(out, "deadline exceeded") {
		t.Errorf("missing timeout message:\n%s", out)
	}
}

func TestRunHive(t *testing.T) {
	a := newApp(t, "", "--mode", "hive", "--bees", "2", "--trips", "1",
		"--phase-min", "1ms", "--phase-max", "2ms", "--interval", "5ms", "-q")
	code, out := run(t, a)
	if code != apperrors.ExitSuccess {
		t.Fatalf("code = %d, output:\n%s", code, out)
	}
	if !strings.Contains(out, "Total nectar") || !strings.Contains(out, "Bee 2") {
		t.Errorf("summary missing:\n%s", out)
	}
}

func TestRunHiveInterrupted(t *testing.T) {
	a := newApp(t, "", "--mode", "hive", "--phase-min", "1s", "--phase-max", "2s", "-q")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	var out bytes.Buffer
	if code := a.Run(ctx, &out); code != apperrors.ExitSuccess {
		t.Fatalf("code = %d", code)
	}
	if !strings.Contains(out.String(), "Hive closed!") {
		t.Errorf("missing closing banner:\n%s", out.String())
	}
}

func TestRunArith(t *testing.T) {
	a := newApp(t, "", "--mode", "arith", "-a", "123456789012345678901234567890", "-b", "2", "--arith-delay", "1ms")
	code, out := run(t, a)
	if code != apperrors.ExitSuccess {
		t.Fatalf("code = %d", code)
	}
	for _, want := range []string{"123456789012345678901234567892", "246913578024691357802469135780"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %s:\n%s", want, out)
		}
	}
}

func TestRunDownload(t *testing.T) {
	a := newApp(t, "", "--mode", "download", "--files", "a.mp3,b.mp3", "--download-delay", "1ms", "--workers", "1")
	code, out := run(t, a)
	if code != apperrors.ExitSuccess {
		t.Fatalf("code = %d", code)
	}
	if !strings.Contains(out, "Downloading a.mp3") || !strings.Contains(out, "2 file(s)") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestRunWithMetricsServer(t *testing.T) {
	a := newApp(t, "", append(fastRace, "-q", "--metrics-addr", "127.0.0.1:0")...)
	if code, out := run(t, a); code != apperrors.ExitSuccess {
		t.Fatalf("code = %d, output:\n%s", code, out)
	}
}

func TestRunCompletion(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish"} {
		t.Run(shell, func(t *testing.T) {
			a := newApp(t, "", "--completion", shell)
			code, out := run(t, a)
			if code != apperrors.ExitSuccess || !strings.Contains(out, "threadrace") {
				t.Errorf("code = %d, output:\n%s", code, out)
			}
		})
	}
	a := newApp(t, "", "--completion", "tcsh")
	var out, errBuf bytes.Buffer
	a.ErrWriter = &errBuf
	if code := a.Run(context.Background(), &out); code != apperrors.ExitErrorConfig {
		t.Errorf("unsupported shell code = %d", code)
	}
}

func TestVersion(t *testing.T) {
	tests := []struct {
		args []string
		want bool
	}{
		{[]string{"--version"}, true},
		{[]string{"-V"}, true},
		{[]string{"--mode", "hive", "-version"}, true},
		{[]string{"--mode", "race"}, false},
		{nil, false},
	}
	for _, tt := range tests {
		if got := HasVersionFlag(tt.args); got != tt.want {
			t.Errorf("HasVersionFlag(%v) = %v, want %v", tt.args, got, tt.want)
		}
	}

	var buf bytes.Buffer
	PrintVersion(&buf)
	if buf.String() != "threadrace "+Version+"\n" {
		t.Errorf("PrintVersion = %q", buf.String())
	}
}
