package race

import (
	"time"

	apperrors "github.com/agbru/threadrace/internal/errors"
)

// Default race parameters.
const (
	DefaultSteps           = 20
	DefaultMinDuration     = 3 * time.Second
	DefaultMaxDuration     = 8 * time.Second
	DefaultJitterMin       = 0.7
	DefaultJitterMax       = 1.3
	DefaultMonitorInterval = 300 * time.Millisecond
)

// Settings tunes one fan-out.
type Settings struct {
	// Steps is the number of progress updates between 0 and 100.
	Steps int
	// MinDuration and MaxDuration bound the race time drawn for each racer.
	MinDuration time.Duration
	MaxDuration time.Duration
	// JitterMin and JitterMax bound the per-step latency multiplier.
	JitterMin float64
	JitterMax float64
	// MonitorInterval is the render cadence.
	MonitorInterval time.Duration
	// Timeout bounds the whole run; zero means no limit.
	Timeout time.Duration
}

// DefaultSettings returns the stock race parameters.
func DefaultSettings() Settings {
	return Settings{
		Steps:           DefaultSteps,
		MinDuration:     DefaultMinDuration,
		MaxDuration:     DefaultMaxDuration,
		JitterMin:       DefaultJitterMin,
		JitterMax:       DefaultJitterMax,
		MonitorInterval: DefaultMonitorInterval,
	}
}

// Validate checks the settings for consistency.
func (s Settings) Validate() error {
	switch {
	case s.Steps < 1:
		return apperrors.ValidationError{Field: "steps", Message: "must be at least 1"}
	case s.MinDuration <= 0:
		return apperrors.ValidationError{Field: "min-duration", Message: "must be positive"}
	case s.MaxDuration < s.MinDuration:
		return apperrors.ValidationError{Field: "max-duration", Message: "must not be below min-duration"}
	case s.JitterMin <= 0 || s.JitterMax < s.JitterMin:
		return apperrors.ValidationError{Field: "jitter", Message: "need 0 < jitter-min <= jitter-max"}
	case s.MonitorInterval <= 0:
		return apperrors.ValidationError{Field: "monitor-interval", Message: "must be positive"}
	case s.Timeout < 0:
		return apperrors.ValidationError{Field: "timeout", Message: "must not be negative"}
	}
	return nil
}
