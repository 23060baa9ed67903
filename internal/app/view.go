package app

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/hourglassdev/hourglass/internal/ui/grid"
	"github.com/hourglassdev/hourglass/internal/ui/statusbar"
	"github.com/hourglassdev/hourglass/internal/ui/toast"
)

// View renders the application
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	mainView := grid.Render(m.tasks, m.cfg, m.cursor, m.mode, m.editBuffer, m.styles)

	sb := statusbar.New(m.mode, string(m.session.State()), m.width, m.styles)
	view := lipgloss.JoinVertical(lipgloss.Left, mainView, sb.Render())

	// If overlay is open, render it on top (centered)
	if !m.overlayStack.IsEmpty() {
		current := m.overlayStack.Current()
		overlayView := current.View()
		overlayWidth, overlayHeight := current.Size()

		if title := current.Title(); title != "" {
			titleView := m.styles.OverlayTitle.Render(title)
			overlayView = lipgloss.JoinVertical(lipgloss.Left, titleView, overlayView)
		}
		overlayView = m.styles.Overlay.
			Width(overlayWidth).
			Height(overlayHeight).
			Render(overlayView)

		centered := lipgloss.Place(
			m.width,
			m.height,
			lipgloss.Center,
			lipgloss.Center,
			overlayView,
		)

		view = lipgloss.JoinVertical(lipgloss.Left, view, centered)
	}

	// Render toasts in the bottom-right corner
	if len(m.toasts) > 0 {
		renderer := toast.New(m.styles)
		if toastView := renderer.Render(m.toasts, m.width); toastView != "" {
			view = lipgloss.JoinVertical(lipgloss.Left, view, toastView)
		}
	}

	return view
}
