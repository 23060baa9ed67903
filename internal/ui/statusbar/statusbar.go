package statusbar

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/hourglassdev/hourglass/internal/types"
	"github.com/hourglassdev/hourglass/internal/ui/styles"
)

// StatusBar represents the status bar at the bottom of the TUI
type StatusBar struct {
	mode   types.Mode
	state  string
	width  int
	styles *styles.Styles
}

// New creates a new StatusBar with the given mode, session state label,
// width, and styles
func New(mode types.Mode, state string, width int, styles *styles.Styles) StatusBar {
	return StatusBar{
		mode:   mode,
		state:  state,
		width:  width,
		styles: styles,
	}
}

// Render renders the status bar as a string
func (sb StatusBar) Render() string {
	// Mode badge
	modeBadge := sb.styles.StatusMode.Render(" " + sb.mode.String() + " ")

	separator := sb.styles.StatusHint.Render(" │ ")

	parts := []string{modeBadge}
	if sb.state != "" {
		parts = append(parts, separator, sb.styles.StatusHint.Render(sb.state))
	}
	if hints := GetHints(sb.mode); hints != "" {
		parts = append(parts, separator, sb.styles.StatusHint.Render(hints))
	}

	content := lipgloss.JoinHorizontal(lipgloss.Left, parts...)

	// Apply status bar style and fill width
	return sb.styles.StatusBar.Width(sb.width).Render(content)
}
