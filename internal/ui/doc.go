// Package ui holds the color themes shared by the command-line output and the
// dashboard. CLI code reads ANSI sequences through the Color* accessors;
// dashboard code reads lipgloss colors from the TUI theme.
package ui
