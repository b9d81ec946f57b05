// Package config parses the command line, environment and optional dotenv
// file into an AppConfig.
package config

import (
	"flag"
	"fmt"
	"io"
	"math/big"
	"slices"
	"strings"
	"time"

	"github.com/joho/godotenv"

	apperrors "github.com/agbru/threadrace/internal/errors"
	"github.com/agbru/threadrace/internal/hive"
	"github.com/agbru/threadrace/internal/race"
	"github.com/agbru/threadrace/internal/ui"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "THREADRACE_"

// Modes.
const (
	ModeRace     = "race"
	ModeSprint   = "sprint"
	ModeHive     = "hive"
	ModeArith    = "arith"
	ModeDownload = "download"
)

// Modes lists the accepted --mode values.
var Modes = []string{ModeRace, ModeSprint, ModeHive, ModeArith, ModeDownload}

// DefaultTrackWidth is the number of cells of a console progress bar.
const DefaultTrackWidth = 50

// AppConfig is the resolved configuration of one invocation.
type AppConfig struct {
	Mode string

	// Race
	Steps           int
	MinDuration     time.Duration
	MaxDuration     time.Duration
	JitterMin       float64
	JitterMax       float64
	MonitorInterval time.Duration
	Timeout         time.Duration
	TrackWidth      int
	NoCountdown     bool
	Sprint          bool
	Seed            uint64

	// Hive
	Bees     int
	Trips    int
	PhaseMin time.Duration
	PhaseMax time.Duration

	// Arith
	A          string
	B          string
	ArithDelay time.Duration

	// Download
	Files         string
	DownloadDelay time.Duration
	Workers       int

	// Presentation and plumbing
	Interactive bool
	Quiet       bool
	NoColor     bool
	Theme       string
	TUI         bool
	LogLevel    string
	MetricsAddr string
	EnvFile     string
	Completion  string
}

// ParseConfig parses args (without the program name). Usage and flag syntax
// errors are printed to errWriter by the flag package; --help yields
// flag.ErrHelp.
func ParseConfig(programName string, args []string, errWriter io.Writer) (AppConfig, error) {
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errWriter)

	rs := race.DefaultSettings()
	hs := hive.DefaultSettings()
	cfg := AppConfig{}

	fs.StringVar(&cfg.Mode, "mode", ModeRace, "Simulation to run: "+strings.Join(Modes, ", "))
	fs.IntVar(&cfg.Steps, "steps", rs.Steps, "Progress steps per racer")
	fs.DurationVar(&cfg.MinDuration, "min-duration", rs.MinDuration, "Shortest planned race time")
	fs.DurationVar(&cfg.MaxDuration, "max-duration", rs.MaxDuration, "Longest planned race time")
	fs.Float64Var(&cfg.JitterMin, "jitter-min", rs.JitterMin, "Lower bound of the per-step speed factor")
	fs.Float64Var(&cfg.JitterMax, "jitter-max", rs.JitterMax, "Upper bound of the per-step speed factor")
	fs.DurationVar(&cfg.MonitorInterval, "interval", rs.MonitorInterval, "Display refresh interval")
	fs.DurationVar(&cfg.Timeout, "timeout", 0, "Abort the run after this long (0 = no limit)")
	fs.IntVar(&cfg.TrackWidth, "width", DefaultTrackWidth, "Progress bar width in cells (0 = fit terminal)")
	fs.BoolVar(&cfg.NoCountdown, "no-countdown", false, "Skip the 3-2-1 countdown")
	fs.BoolVar(&cfg.Sprint, "sprint", false, "Run the bonus sprint after the main race")
	fs.Uint64Var(&cfg.Seed, "seed", 0, "Random seed (0 = random)")

	fs.IntVar(&cfg.Bees, "bees", hs.Bees, "Number of bees in the hive")
	fs.IntVar(&cfg.Trips, "trips", 0, "Deposits per bee (0 = until interrupted)")
	fs.DurationVar(&cfg.PhaseMin, "phase-min", hs.PhaseMin, "Shortest bee phase")
	fs.DurationVar(&cfg.PhaseMax, "phase-max", hs.PhaseMax, "Longest bee phase")

	fs.StringVar(&cfg.A, "a", "10", "First arithmetic operand")
	fs.StringVar(&cfg.B, "b", "5", "Second arithmetic operand")
	fs.DurationVar(&cfg.ArithDelay, "arith-delay", 3*time.Second, "Simulated calculation time")

	fs.StringVar(&cfg.Files, "files", "file1.mp3,file2.mp3,file3.mp3", "Comma-separated files to download")
	fs.DurationVar(&cfg.DownloadDelay, "download-delay", 2*time.Second, "Simulated transfer time per file")
	fs.IntVar(&cfg.Workers, "workers", 0, "Download pool size (0 = one per file)")

	fs.BoolVar(&cfg.Interactive, "interactive", false, "Prompt before each race")
	fs.BoolVar(&cfg.Interactive, "i", false, "Prompt before each race (shorthand)")
	fs.BoolVar(&cfg.Quiet, "quiet", false, "Only print the final results")
	fs.BoolVar(&cfg.Quiet, "q", false, "Only print the final results (shorthand)")
	fs.BoolVar(&cfg.NoColor, "no-color", false, "Disable colored output")
	fs.StringVar(&cfg.Theme, "theme", ui.DarkTheme.Name, "Color theme: "+strings.Join(ui.ThemeNames, ", "))
	fs.BoolVar(&cfg.TUI, "tui", false, "Full-screen live view")
	fs.StringVar(&cfg.LogLevel, "log-level", "warn", "Log level: debug, info, warn, error")
	fs.StringVar(&cfg.MetricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address")
	fs.StringVar(&cfg.EnvFile, "env-file", "", "Load THREADRACE_* variables from this dotenv file")
	fs.StringVar(&cfg.Completion, "completion", "", "Print a completion script: bash, zsh, fish")

	if err := fs.Parse(args); err != nil {
		return AppConfig{}, err
	}
	if fs.NArg() > 0 {
		return AppConfig{}, apperrors.NewConfigError("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}

	if cfg.EnvFile != "" {
		if err := godotenv.Load(cfg.EnvFile); err != nil {
			return AppConfig{}, apperrors.NewConfigError("cannot load env file %q: %v", cfg.EnvFile, err)
		}
	}
	applyEnvOverrides(&cfg, fs)

	if err := cfg.Validate(); err != nil {
		return AppConfig{}, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints.
func (c AppConfig) Validate() error {
	if c.Completion != "" {
		return nil
	}
	if !slices.Contains(Modes, c.Mode) {
		return apperrors.NewConfigError("unknown mode %q (accepted: %s)", c.Mode, strings.Join(Modes, ", "))
	}
	if _, ok := ui.LookupTheme(c.Theme); !ok {
		return apperrors.NewConfigError("unknown theme %q (accepted: %s)", c.Theme, strings.Join(ui.ThemeNames, ", "))
	}
	if c.TrackWidth < 0 {
		return apperrors.ValidationError{Field: "width", Message: "must not be negative"}
	}
	if c.Workers < 0 {
		return apperrors.ValidationError{Field: "workers", Message: "must not be negative"}
	}
	switch c.Mode {
	case ModeRace, ModeSprint:
		return c.RaceSettings().Validate()
	case ModeHive:
		return c.HiveSettings().Validate()
	case ModeArith:
		_, _, err := c.Operands()
		return err
	case ModeDownload:
		if len(c.FileList()) == 0 {
			return apperrors.ValidationError{Field: "files", Message: "at least one file is required"}
		}
	}
	return nil
}

// RaceSettings converts the race flags.
func (c AppConfig) RaceSettings() race.Settings {
	return race.Settings{
		Steps:           c.Steps,
		MinDuration:     c.MinDuration,
		MaxDuration:     c.MaxDuration,
		JitterMin:       c.JitterMin,
		JitterMax:       c.JitterMax,
		MonitorInterval: c.MonitorInterval,
		Timeout:         c.Timeout,
	}
}

// HiveSettings converts the hive flags.
func (c AppConfig) HiveSettings() hive.Settings {
	return hive.Settings{
		Bees:            c.Bees,
		Trips:           c.Trips,
		PhaseMin:        c.PhaseMin,
		PhaseMax:        c.PhaseMax,
		MonitorInterval: c.MonitorInterval,
	}
}

// Operands parses -a and -b as arbitrary-precision integers.
func (c AppConfig) Operands() (*big.Int, *big.Int, error) {
	a, ok := new(big.Int).SetString(strings.TrimSpace(c.A), 10)
	if !ok {
		return nil, nil, apperrors.ValidationError{Field: "a", Message: fmt.Sprintf("%q is not an integer", c.A)}
	}
	b, ok := new(big.Int).SetString(strings.TrimSpace(c.B), 10)
	if !ok {
		return nil, nil, apperrors.ValidationError{Field: "b", Message: fmt.Sprintf("%q is not an integer", c.B)}
	}
	return a, b, nil
}

// FileList splits --files, dropping blanks.
func (c AppConfig) FileList() []string {
	var files []string
	for _, f := range strings.Split(c.Files, ",") {
		if f = strings.TrimSpace(f); f != "" {
			files = append(files, f)
		}
	}
	return files
}
