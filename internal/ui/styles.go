// Package ui holds the terminal styles of the shell.
package ui

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Color palette
// - Success (green): completed actions
// - Failure (red): rejected commands and errors
// - Muted (gray): prompts, rules, hints

var (
	// Success style for the [+] marker of completed actions
	Success = lipgloss.NewStyle().Foreground(lipgloss.Color("#A6E3A1")).Bold(true)

	// Failure style for the [-] marker of rejected commands
	Failure = lipgloss.NewStyle().Foreground(lipgloss.Color("#F38BA8")).Bold(true)

	// Muted style for prompts and secondary info
	Muted = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086"))
)

// IsTerminal reports whether w is a terminal. Output written elsewhere
// (pipes, files, buffers) stays unstyled.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
