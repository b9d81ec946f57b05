// Package ui holds the console color themes shared by the line-oriented
// renderer (ANSI escape codes) and the full-screen view (lipgloss colors).
// The active theme honors the NO_COLOR convention.
package ui
