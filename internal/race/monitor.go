package race

import (
	"time"

	apperrors "github.com/agbru/threadrace/internal/errors"
)

// Frame is what the monitor hands to a Renderer on every cycle.
type Frame struct {
	Positions []Position
	Elapsed   time.Duration
	// Final is set on the frame rendered after the stop flag was observed.
	Final bool
}

// Monitor polls a Track at a fixed cadence and renders a copy of it.
type Monitor struct {
	track    *Track
	renderer Renderer
	interval time.Duration
	clock    Clock
}

// NewMonitor builds a monitor for track.
func NewMonitor(track *Track, renderer Renderer, interval time.Duration, clock Clock) *Monitor {
	return &Monitor{track: track, renderer: renderer, interval: interval, clock: clock}
}

// Run renders frames until the stop flag has been seen and one frame has
// been rendered after it. Rendering happens outside every lock. A panicking
// Renderer ends the loop and is returned as a RaceError.
func (m *Monitor) Run() (err error) {
	defer func() {
		if v := recover(); v != nil {
			err = apperrors.RaceError{Racer: "monitor", Cause: apperrors.PanicError(v)}
		}
	}()
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		stopped := m.track.Stopped()
		m.renderer.Render(Frame{
			Positions: m.track.Snapshot(),
			Elapsed:   m.clock.Now().Sub(m.track.Started()),
			Final:     stopped,
		})
		if stopped {
			return nil
		}
		select {
		case <-ticker.C:
		case <-m.track.Done():
		}
	}
}
