package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/threadrace/internal/ui"
)

// Styles are rebuilt from the ui theme by initTUIStyles.
var (
	panelStyle      lipgloss.Style
	headerStyle     lipgloss.Style
	titleStyle      lipgloss.Style
	dimStyle        lipgloss.Style
	elapsedStyle    lipgloss.Style
	finishStyle     lipgloss.Style
	errorStyle      lipgloss.Style
	emptyCellStyle  lipgloss.Style
	footerKeyStyle  lipgloss.Style
	statusRunStyle  lipgloss.Style
	statusDoneStyle lipgloss.Style
	sparklineStyle  lipgloss.Style
	laneStyles      []lipgloss.Style
)

func init() {
	initTUIStyles()
}

// initTUIStyles rebuilds all styles from the current ui theme. Run calls it
// again after the theme was initialized from the flags.
func initTUIStyles() {
	t := ui.GetCurrentTUITheme()

	panelStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Foreground(t.Text)
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(t.Accent).Padding(0, 1)
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(t.Accent)
	dimStyle = lipgloss.NewStyle().Foreground(t.Dim)
	elapsedStyle = lipgloss.NewStyle().Foreground(t.Accent)
	finishStyle = lipgloss.NewStyle().Foreground(t.Success).Bold(true)
	errorStyle = lipgloss.NewStyle().Foreground(t.Error).Bold(true)
	emptyCellStyle = lipgloss.NewStyle().Foreground(t.Dim)
	footerKeyStyle = lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	statusRunStyle = lipgloss.NewStyle().Foreground(t.Warning).Bold(true)
	statusDoneStyle = lipgloss.NewStyle().Foreground(t.Success).Bold(true)
	sparklineStyle = lipgloss.NewStyle().Foreground(t.Warning)

	laneStyles = laneStyles[:0]
	for i := range max(len(t.Lanes), 1) {
		laneStyles = append(laneStyles, lipgloss.NewStyle().Foreground(t.LaneColor(i)))
	}
}

func laneStyle(i int) lipgloss.Style {
	if i < 0 {
		i = -i
	}
	return laneStyles[i%len(laneStyles)]
}
