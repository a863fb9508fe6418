// Package ui colors terminal output with lipgloss.
//
// A [Palette] styles headers, status messages and track lines; track lines take the color of
// their match indicator. Colors degrade to plain text when the output is not a terminal.
package ui
