// Package ui holds the color themes shared by the CLI report and the TUI
// dashboard. The CLI side uses raw ANSI escape codes; the dashboard side
// uses lipgloss colors. Both honor --no-color and NO_COLOR.
package ui
