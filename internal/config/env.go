package config

import (
	"flag"
	"os"
	"strconv"
	"strings"
	"time"
)

// isFlagSet checks if a flag was explicitly set on the command line.
func isFlagSet(fs *flag.FlagSet, name string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

// isFlagSetAny checks if any of the aliased flags was explicitly set.
func isFlagSetAny(fs *flag.FlagSet, names ...string) bool {
	for _, name := range names {
		if isFlagSet(fs, name) {
			return true
		}
	}
	return false
}

// envOverride maps an env key (without the THREADRACE_ prefix) to the flag
// name(s) it shadows and a function applying the value.
type envOverride struct {
	envKey string
	flags  []string
	apply  func(*AppConfig, string)
}

func intOverride(dst func(*AppConfig) *int) func(*AppConfig, string) {
	return func(c *AppConfig, v string) {
		if parsed, err := strconv.Atoi(v); err == nil {
			*dst(c) = parsed
		}
	}
}

func durationOverride(dst func(*AppConfig) *time.Duration) func(*AppConfig, string) {
	return func(c *AppConfig, v string) {
		if parsed, err := time.ParseDuration(v); err == nil {
			*dst(c) = parsed
		}
	}
}

func boolOverride(dst func(*AppConfig) *bool) func(*AppConfig, string) {
	return func(c *AppConfig, v string) {
		p := dst(c)
		*p = parseBoolEnv(v, *p)
	}
}

// envOverrides is the declarative table of environment overrides. Invalid
// values are ignored and the flag default stays in place.
var envOverrides = []envOverride{
	// Numeric
	{"STEPS", []string{"steps"}, intOverride(func(c *AppConfig) *int { return &c.Steps })},
	{"WIDTH", []string{"width"}, intOverride(func(c *AppConfig) *int { return &c.TrackWidth })},
	{"BEES", []string{"bees"}, intOverride(func(c *AppConfig) *int { return &c.Bees })},
	{"TRIPS", []string{"trips"}, intOverride(func(c *AppConfig) *int { return &c.Trips })},
	{"WORKERS", []string{"workers"}, intOverride(func(c *AppConfig) *int { return &c.Workers })},
	{"SEED", []string{"seed"}, func(c *AppConfig, v string) {
		if parsed, err := strconv.ParseUint(v, 10, 64); err == nil {
			c.Seed = parsed
		}
	}},
	{"JITTER_MIN", []string{"jitter-min"}, func(c *AppConfig, v string) {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			c.JitterMin = parsed
		}
	}},
	{"JITTER_MAX", []string{"jitter-max"}, func(c *AppConfig, v string) {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			c.JitterMax = parsed
		}
	}},

	// Durations
	{"MIN_DURATION", []string{"min-duration"}, durationOverride(func(c *AppConfig) *time.Duration { return &c.MinDuration })},
	{"MAX_DURATION", []string{"max-duration"}, durationOverride(func(c *AppConfig) *time.Duration { return &c.MaxDuration })},
	{"INTERVAL", []string{"interval"}, durationOverride(func(c *AppConfig) *time.Duration { return &c.MonitorInterval })},
	{"TIMEOUT", []string{"timeout"}, durationOverride(func(c *AppConfig) *time.Duration { return &c.Timeout })},
	{"PHASE_MIN", []string{"phase-min"}, durationOverride(func(c *AppConfig) *time.Duration { return &c.PhaseMin })},
	{"PHASE_MAX", []string{"phase-max"}, durationOverride(func(c *AppConfig) *time.Duration { return &c.PhaseMax })},
	{"ARITH_DELAY", []string{"arith-delay"}, durationOverride(func(c *AppConfig) *time.Duration { return &c.ArithDelay })},
	{"DOWNLOAD_DELAY", []string{"download-delay"}, durationOverride(func(c *AppConfig) *time.Duration { return &c.DownloadDelay })},

	// Strings
	{"MODE", []string{"mode"}, func(c *AppConfig, v string) { c.Mode = v }},
	{"FILES", []string{"files"}, func(c *AppConfig, v string) { c.Files = v }},
	{"LOG_LEVEL", []string{"log-level"}, func(c *AppConfig, v string) { c.LogLevel = v }},
	{"THEME", []string{"theme"}, func(c *AppConfig, v string) { c.Theme = v }},
	{"METRICS_ADDR", []string{"metrics-addr"}, func(c *AppConfig, v string) { c.MetricsAddr = v }},

	// Booleans
	{"NO_COUNTDOWN", []string{"no-countdown"}, boolOverride(func(c *AppConfig) *bool { return &c.NoCountdown })},
	{"SPRINT", []string{"sprint"}, boolOverride(func(c *AppConfig) *bool { return &c.Sprint })},
	{"INTERACTIVE", []string{"interactive", "i"}, boolOverride(func(c *AppConfig) *bool { return &c.Interactive })},
	{"QUIET", []string{"quiet", "q"}, boolOverride(func(c *AppConfig) *bool { return &c.Quiet })},
	{"NO_COLOR", []string{"no-color"}, boolOverride(func(c *AppConfig) *bool { return &c.NoColor })},
	{"TUI", []string{"tui"}, boolOverride(func(c *AppConfig) *bool { return &c.TUI })},
}

// parseBoolEnv accepts "true", "1", "yes" as true and "false", "0", "no" as
// false (case-insensitive). Anything else yields defaultVal.
func parseBoolEnv(val string, defaultVal bool) bool {
	switch strings.ToLower(val) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	}
	return defaultVal
}

// applyEnvOverrides applies THREADRACE_* values for every flag that was not
// set on the command line: CLI flags > environment > defaults.
func applyEnvOverrides(config *AppConfig, fs *flag.FlagSet) {
	for _, o := range envOverrides {
		if isFlagSetAny(fs, o.flags...) {
			continue
		}
		if val := os.Getenv(EnvPrefix + o.envKey); val != "" {
			o.apply(config, val)
		}
	}
}
