// Package race runs a fan-out of racer goroutines over a shared, lock-guarded
// track and a monitor goroutine that polls and renders it.
//
// A Driver owns one Track per Run call. The track exposes two independent
// regions, each behind its own mutex: the position table (SetProgress,
// Snapshot) and the results ledger (RegisterFinish, Results). No goroutine
// ever holds both locks. The stop flag is set once the driver has joined
// every racer; the monitor renders one last frame after observing it and
// exits.
package race
