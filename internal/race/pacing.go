package race

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"
)

// Pacer decides how fast racers go.
type Pacer interface {
	// Plan returns the nominal total race time for r.
	Plan(r Racer) time.Duration
	// Jitter returns the multiplier applied to one nominal step.
	Jitter() float64
}

// Clock abstracts time so tests can shorten or observe sleeps.
type Clock interface {
	Now() time.Time
	// Sleep blocks for d or until ctx is done, returning ctx.Err() in that case.
	Sleep(ctx context.Context, d time.Duration) error
}

// SystemClock is the wall clock.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time { return time.Now() }

// Sleep waits for d or for ctx cancellation.
func (SystemClock) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RandomPacer draws race times uniformly in [MinDuration, MaxDuration] and
// step jitter uniformly in [JitterMin, JitterMax]. It is safe for concurrent use.
type RandomPacer struct {
	mu       sync.Mutex
	rng      *rand.Rand
	minD     time.Duration
	maxD     time.Duration
	jitterLo float64
	jitterHi float64
}

// NewRandomPacer builds a pacer from the settings. A zero seed draws a
// random one.
func NewRandomPacer(s Settings, seed uint64) *RandomPacer {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return &RandomPacer{
		rng:      rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		minD:     s.MinDuration,
		maxD:     s.MaxDuration,
		jitterLo: s.JitterMin,
		jitterHi: s.JitterMax,
	}
}

// Plan draws a total race time.
func (p *RandomPacer) Plan(Racer) time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	span := float64(p.maxD - p.minD)
	return p.minD + time.Duration(p.rng.Float64()*span)
}

// Jitter draws a step multiplier.
func (p *RandomPacer) Jitter() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.jitterLo + p.rng.Float64()*(p.jitterHi-p.jitterLo)
}

// FixedPacer gives every racer a fixed race time and no jitter.
type FixedPacer struct {
	Durations map[string]time.Duration
	// Default is used for racers missing from Durations.
	Default time.Duration
}

// Plan returns the configured duration for r.
func (p FixedPacer) Plan(r Racer) time.Duration {
	if d, ok := p.Durations[r.Name]; ok {
		return d
	}
	return p.Default
}

// Jitter always returns 1.
func (FixedPacer) Jitter() float64 { return 1 }
