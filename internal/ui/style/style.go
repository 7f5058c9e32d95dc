// Package style holds the palette and level icons used by the pretty log handler.
package style

import "github.com/charmbracelet/lipgloss"

var (
	Iris   = lipgloss.Color("#8B5CF6")
	Slate  = lipgloss.Color("#667085")
	Red    = lipgloss.Color("#D93025")
	Yellow = lipgloss.Color("#F59E0B")
)

// Level icons.
const (
	Cross   = "✗"
	Warning = "!"
	Tilde   = "~"
)
