package ui

// Color accessors read the active theme on every call so a theme switch is
// picked up by renderers that are already running.

func ColorPrimary() string   { return GetCurrentTheme().Primary }
func ColorSecondary() string { return GetCurrentTheme().Secondary }
func ColorGreen() string     { return GetCurrentTheme().Success }
func ColorYellow() string    { return GetCurrentTheme().Warning }
func ColorRed() string       { return GetCurrentTheme().Error }
func ColorCyan() string      { return GetCurrentTheme().Info }
func ColorBold() string      { return GetCurrentTheme().Bold }
func ColorUnderline() string { return GetCurrentTheme().Underline }
func ColorReset() string     { return GetCurrentTheme().Reset }
