package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/threadrace/internal/format"
)

// HeaderModel renders the top bar: title, version, elapsed race time, status.
type HeaderModel struct {
	title   string
	version string
	elapsed time.Duration
	done    bool
	failed  bool
	width   int
}

// NewHeaderModel creates a header.
func NewHeaderModel(title, version string) HeaderModel {
	return HeaderModel{title: title, version: version}
}

// SetElapsed updates the race clock from the latest frame.
func (h *HeaderModel) SetElapsed(d time.Duration) { h.elapsed = d }

// SetDone freezes the status.
func (h *HeaderModel) SetDone(failed bool) {
	h.done = true
	h.failed = failed
}

// Reset clears the clock and status for a rerun.
func (h *HeaderModel) Reset() {
	h.elapsed = 0
	h.done = false
	h.failed = false
}

// SetWidth updates the available width.
func (h *HeaderModel) SetWidth(w int) { h.width = w }

// View renders the header.
func (h HeaderModel) View() string {
	titleText := "🏁 " + h.title
	if h.version != "" && h.version != "dev" {
		titleText += " " + h.version
	}

	status := statusRunStyle.Render("RACING")
	switch {
	case h.done && h.failed:
		status = errorStyle.Render("STOPPED")
	case h.done:
		status = statusDoneStyle.Render("FINISHED")
	}

	left := titleStyle.Render(titleText) +
		dimStyle.Render(" | ") +
		elapsedStyle.Render(fmt.Sprintf("Elapsed: %s", format.FormatExecutionDuration(h.elapsed))) +
		dimStyle.Render(" | ") + status

	gap := max(h.width-2-lipgloss.Width(left), 0)
	return headerStyle.Width(max(h.width, 0)).Render(left + strings.Repeat(" ", gap))
}
