package hive

import (
	"maps"
	"sync"
)

// Status is the phase a bee is currently in.
type Status string

const (
	Idle       Status = "idle"
	Flying     Status = "flying"
	Collecting Status = "collecting"
	Returning  Status = "returning"
	Depositing Status = "depositing"
	Resting    Status = "resting"
)

// BeeState is the observable state of one bee.
type BeeState struct {
	Name     string
	Status   Status
	Carrying int
	Trips    int
}

// Frame is a consistent copy of the hive handed to renderers.
type Frame struct {
	Total int
	Bees  []BeeState
	Final bool
}

// Hive holds the shared nectar total and the bee status board. The two
// regions have separate mutexes and no method holds both.
type Hive struct {
	nectarMu      sync.Mutex
	total         int
	contributions map[string]int

	statusMu sync.Mutex
	order    []string
	states   map[string]BeeState
}

// NewHive returns an empty hive for the named bees.
func NewHive(bees []string) *Hive {
	h := &Hive{
		contributions: make(map[string]int, len(bees)),
		order:         append([]string(nil), bees...),
		states:        make(map[string]BeeState, len(bees)),
	}
	for _, b := range bees {
		h.states[b] = BeeState{Name: b, Status: Idle}
	}
	return h
}

// Deposit adds amount to the total on behalf of bee and returns the new total.
func (h *Hive) Deposit(bee string, amount int) int {
	h.nectarMu.Lock()
	defer h.nectarMu.Unlock()
	h.total += amount
	h.contributions[bee] += amount
	return h.total
}

// Total returns the committed nectar.
func (h *Hive) Total() int {
	h.nectarMu.Lock()
	defer h.nectarMu.Unlock()
	return h.total
}

// Contributions returns a copy of the per-bee committed amounts.
func (h *Hive) Contributions() map[string]int {
	h.nectarMu.Lock()
	defer h.nectarMu.Unlock()
	return maps.Clone(h.contributions)
}

// SetStatus updates the board entry for bee. Unknown bees are ignored.
func (h *Hive) SetStatus(bee string, status Status, carrying int) {
	h.statusMu.Lock()
	defer h.statusMu.Unlock()
	st, ok := h.states[bee]
	if !ok {
		return
	}
	st.Status = status
	st.Carrying = carrying
	h.states[bee] = st
}

// CompleteTrip increments the trip counter of bee and returns it.
func (h *Hive) CompleteTrip(bee string) int {
	h.statusMu.Lock()
	defer h.statusMu.Unlock()
	st, ok := h.states[bee]
	if !ok {
		return 0
	}
	st.Trips++
	h.states[bee] = st
	return st.Trips
}

// Frame copies the total, then the board.
func (h *Hive) Frame() Frame {
	total := h.Total()

	h.statusMu.Lock()
	bees := make([]BeeState, len(h.order))
	for i, name := range h.order {
		bees[i] = h.states[name]
	}
	h.statusMu.Unlock()

	return Frame{Total: total, Bees: bees}
}
