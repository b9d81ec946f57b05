package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/agbru/threadrace/internal/race"
)

// programRef is a shared reference to the tea.Program. bubbletea copies the
// model on every Update, so the pointer must survive copies for the race
// goroutines to reach the program.
type programRef struct {
	mu      sync.RWMutex
	program *tea.Program
}

// SetProgram sets the program reference.
func (r *programRef) SetProgram(p *tea.Program) {
	r.mu.Lock()
	r.program = p
	r.mu.Unlock()
}

// Send forwards msg to the program, if one is attached.
func (r *programRef) Send(msg tea.Msg) {
	r.mu.RLock()
	p := r.program
	r.mu.RUnlock()
	if p != nil {
		p.Send(msg)
	}
}

// bridgeRenderer implements race.Renderer by turning frames and finishes
// into program messages tagged with the run generation.
type bridgeRenderer struct {
	ref        *programRef
	generation uint64
}

var _ race.Renderer = bridgeRenderer{}

func (b bridgeRenderer) Render(frame race.Frame) {
	b.ref.Send(FrameMsg{Frame: frame, Generation: b.generation})
}

func (b bridgeRenderer) Finish(f race.Finish) {
	b.ref.Send(FinishMsg{Finish: f, Generation: b.generation})
}
