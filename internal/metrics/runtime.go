package metrics

import "runtime"

// RuntimeSnapshot holds a point-in-time reading of the Go runtime.
type RuntimeSnapshot struct {
	HeapAlloc  uint64 // bytes in use by the program
	Sys        uint64 // bytes obtained from the OS
	NumGC      uint32
	Goroutines int
}

// ReadRuntime samples the runtime. It stops the world briefly, so callers
// should not invoke it more than a few times per second.
func ReadRuntime() RuntimeSnapshot {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return RuntimeSnapshot{
		HeapAlloc:  m.HeapAlloc,
		Sys:        m.Sys,
		NumGC:      m.NumGC,
		Goroutines: runtime.NumGoroutine(),
	}
}
