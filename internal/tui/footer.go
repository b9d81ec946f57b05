package tui

import (
	"github.com/charmbracelet/bubbles/key"
)

// FooterModel renders the key help line.
type FooterModel struct {
	keymap KeyMap
	done   bool
	failed bool
	width  int
}

// NewFooterModel creates a footer for the given bindings.
func NewFooterModel(km KeyMap) FooterModel {
	return FooterModel{keymap: km}
}

// SetDone switches the help line to its post-race form.
func (f *FooterModel) SetDone(done, failed bool) {
	f.done = done
	f.failed = failed
}

// SetWidth updates the available width.
func (f *FooterModel) SetWidth(w int) { f.width = w }

func helpEntry(b key.Binding) string {
	h := b.Help()
	return footerKeyStyle.Render(h.Key) + dimStyle.Render(" "+h.Desc)
}

// View renders the footer.
func (f FooterModel) View() string {
	line := helpEntry(f.keymap.Quit) + "  " + helpEntry(f.keymap.Stats)
	if f.done {
		line += "  " + helpEntry(f.keymap.Rerun)
	}
	switch {
	case f.done && f.failed:
		line += "  " + errorStyle.Render("race stopped")
	case f.done:
		line += "  " + statusDoneStyle.Render("race complete")
	}
	return " " + line
}
