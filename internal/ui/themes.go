package ui

import (
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines a color scheme for console output.
// Each field contains an ANSI escape code for the corresponding color category.
type Theme struct {
	// Name is the identifier of the theme.
	Name string
	// Primary is the main accent color (track borders, banners).
	Primary string
	// Secondary is used for less prominent elements (empty lane cells).
	Secondary string
	// Success marks finishers and completed work.
	Success string
	// Warning is used for countdown digits and timeouts.
	Warning string
	// Error indicates failures.
	Error string
	// Info is used for racer names and timestamps.
	Info string
	// Bold is the escape code for bold text.
	Bold string
	// Underline is the escape code for underlined text.
	Underline string
	// Reset clears all formatting.
	Reset string
}

var (
	// DarkTheme is optimized for dark terminal backgrounds.
	DarkTheme = Theme{
		Name:      "dark",
		Primary:   "\033[38;5;208m", // Orange
		Secondary: "\033[38;5;245m", // Grey
		Success:   "\033[38;5;82m",  // Bright green
		Warning:   "\033[38;5;220m", // Yellow
		Error:     "\033[38;5;196m", // Red
		Info:      "\033[38;5;39m",  // Bright blue
		Bold:      "\033[1m",
		Underline: "\033[4m",
		Reset:     "\033[0m",
	}

	// LightTheme is optimized for light terminal backgrounds.
	LightTheme = Theme{
		Name:      "light",
		Primary:   "\033[38;5;130m", // Brown-orange
		Secondary: "\033[38;5;240m", // Dark grey
		Success:   "\033[38;5;28m",  // Dark green
		Warning:   "\033[38;5;136m", // Dark yellow
		Error:     "\033[38;5;124m", // Dark red
		Info:      "\033[38;5;27m",  // Dark blue
		Bold:      "\033[1m",
		Underline: "\033[4m",
		Reset:     "\033[0m",
	}

	// NoColorTheme disables all color output.
	NoColorTheme = Theme{Name: "none"}

	currentTheme = DarkTheme
	themeMutex   sync.RWMutex
)

// TUITheme defines lipgloss colors for the full-screen race view.
type TUITheme struct {
	Text    lipgloss.TerminalColor
	Border  lipgloss.TerminalColor
	Accent  lipgloss.TerminalColor
	Success lipgloss.TerminalColor
	Warning lipgloss.TerminalColor
	Error   lipgloss.TerminalColor
	Dim     lipgloss.TerminalColor
	// Lanes cycles across racers so adjacent lanes differ.
	Lanes []lipgloss.TerminalColor
}

var (
	// DarkTUITheme is the default full-screen palette.
	DarkTUITheme = TUITheme{
		Text:    lipgloss.Color("#E0E0E0"),
		Border:  lipgloss.Color("#FF6600"),
		Accent:  lipgloss.Color("#FF8C00"),
		Success: lipgloss.Color("#9ece6a"),
		Warning: lipgloss.Color("#FFB347"),
		Error:   lipgloss.Color("#FF4444"),
		Dim:     lipgloss.Color("#666666"),
		Lanes: []lipgloss.TerminalColor{
			lipgloss.Color("#F7D154"),
			lipgloss.Color("#7DCFFF"),
			lipgloss.Color("#FF7A93"),
			lipgloss.Color("#9ece6a"),
			lipgloss.Color("#BB9AF7"),
		},
	}

	// LightTUITheme suits light terminal backgrounds.
	LightTUITheme = TUITheme{
		Text:    lipgloss.Color("#1F1F1F"),
		Border:  lipgloss.Color("#A0522D"),
		Accent:  lipgloss.Color("#B35900"),
		Success: lipgloss.Color("#2E7D32"),
		Warning: lipgloss.Color("#8D6E00"),
		Error:   lipgloss.Color("#B71C1C"),
		Dim:     lipgloss.Color("#8A8A8A"),
		Lanes: []lipgloss.TerminalColor{
			lipgloss.Color("#8D6E00"),
			lipgloss.Color("#0057B8"),
			lipgloss.Color("#C2185B"),
			lipgloss.Color("#2E7D32"),
			lipgloss.Color("#6A1B9A"),
		},
	}

	// NoColorTUITheme renders with the terminal's default colors.
	NoColorTUITheme = TUITheme{
		Text:    lipgloss.NoColor{},
		Border:  lipgloss.NoColor{},
		Accent:  lipgloss.NoColor{},
		Success: lipgloss.NoColor{},
		Warning: lipgloss.NoColor{},
		Error:   lipgloss.NoColor{},
		Dim:     lipgloss.NoColor{},
		Lanes:   []lipgloss.TerminalColor{lipgloss.NoColor{}},
	}
)

// LaneColor returns the lane color for the racer at index i.
func (t TUITheme) LaneColor(i int) lipgloss.TerminalColor {
	if len(t.Lanes) == 0 {
		return t.Text
	}
	if i < 0 {
		i = -i
	}
	return t.Lanes[i%len(t.Lanes)]
}

// GetCurrentTUITheme returns the full-screen palette matching the active theme.
func GetCurrentTUITheme() TUITheme {
	themeMutex.RLock()
	defer themeMutex.RUnlock()

	switch currentTheme.Name {
	case NoColorTheme.Name:
		return NoColorTUITheme
	case LightTheme.Name:
		return LightTUITheme
	}
	return DarkTUITheme
}

// GetCurrentTheme returns the currently active theme.
func GetCurrentTheme() Theme {
	themeMutex.RLock()
	defer themeMutex.RUnlock()
	return currentTheme
}

// SetCurrentTheme replaces the active theme; tests use it to restore state.
func SetCurrentTheme(t Theme) {
	themeMutex.Lock()
	defer themeMutex.Unlock()
	currentTheme = t
}

// ThemeNames lists the names accepted by LookupTheme.
var ThemeNames = []string{DarkTheme.Name, LightTheme.Name, NoColorTheme.Name}

// LookupTheme returns the theme with the given name.
func LookupTheme(name string) (Theme, bool) {
	switch name {
	case DarkTheme.Name:
		return DarkTheme, true
	case LightTheme.Name:
		return LightTheme, true
	case NoColorTheme.Name:
		return NoColorTheme, true
	}
	return Theme{}, false
}

// InitTheme selects the named theme, unless colors are disabled by the
// --no-color flag or the NO_COLOR environment variable
// (https://no-color.org/). Unknown names select the dark theme.
func InitTheme(name string, noColor bool) {
	themeMutex.Lock()
	defer themeMutex.Unlock()

	if _, exists := os.LookupEnv("NO_COLOR"); noColor || exists {
		currentTheme = NoColorTheme
		return
	}
	t, ok := LookupTheme(name)
	if !ok {
		t = DarkTheme
	}
	currentTheme = t
}
