package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/hourglassdev/hourglass/internal/domain"
)

// Styles holds all the UI styles
type Styles struct {
	// Grid
	Grid         lipgloss.Style
	HeaderCell   lipgloss.Style
	TaskName     lipgloss.Style
	TaskComplete lipgloss.Style
	Cell         lipgloss.Style
	CellCursor   lipgloss.Style
	CellEditing  lipgloss.Style

	// Daily totals row
	TotalFree lipgloss.Style
	TotalFull lipgloss.Style
	TotalOver lipgloss.Style

	// Badges
	PriorityBadge func(p domain.Priority) lipgloss.Style

	// Status bar
	StatusBar  lipgloss.Style
	StatusMode lipgloss.Style
	StatusHint lipgloss.Style

	// Overlays
	Overlay        lipgloss.Style
	OverlayTitle   lipgloss.Style
	MenuItem       lipgloss.Style
	MenuItemActive lipgloss.Style
	MenuKey        lipgloss.Style
	Footer         lipgloss.Style

	// Toasts
	ToastInfo    lipgloss.Style
	ToastSuccess lipgloss.Style
	ToastWarning lipgloss.Style
	ToastError   lipgloss.Style
}

// New creates a new Styles instance with Catppuccin Macchiato theme
func New() *Styles {
	return &Styles{
		Grid: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(Surface1).
			Padding(0, 1),

		HeaderCell: lipgloss.NewStyle().
			Foreground(Subtext0).
			Bold(true),

		TaskName: lipgloss.NewStyle().
			Foreground(Text),

		TaskComplete: lipgloss.NewStyle().
			Foreground(Green),

		Cell: lipgloss.NewStyle().
			Foreground(Text),

		CellCursor: lipgloss.NewStyle().
			Foreground(Base).
			Background(Lavender).
			Bold(true),

		CellEditing: lipgloss.NewStyle().
			Foreground(Base).
			Background(Blue).
			Bold(true),

		TotalFree: lipgloss.NewStyle().
			Foreground(Blue),

		TotalFull: lipgloss.NewStyle().
			Foreground(Green).
			Bold(true),

		TotalOver: lipgloss.NewStyle().
			Foreground(Red).
			Bold(true),

		PriorityBadge: func(p domain.Priority) lipgloss.Style {
			return lipgloss.NewStyle().
				Foreground(Base).
				Background(PriorityColors[p]).
				Padding(0, 1).
				Bold(true)
		},

		StatusBar: lipgloss.NewStyle().
			Background(Surface0).
			Foreground(Subtext0).
			Padding(0, 1),

		StatusMode: lipgloss.NewStyle().
			Background(Blue).
			Foreground(Base).
			Bold(true).
			Padding(0, 1),

		StatusHint: lipgloss.NewStyle().
			Foreground(Overlay1),

		Overlay: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(Surface2).
			Background(Base).
			Padding(1, 2),

		OverlayTitle: lipgloss.NewStyle().
			Foreground(Text).
			Bold(true).
			MarginBottom(1),

		MenuItem: lipgloss.NewStyle().
			Foreground(Text),

		MenuItemActive: lipgloss.NewStyle().
			Foreground(Blue).
			Bold(true),

		MenuKey: lipgloss.NewStyle().
			Foreground(Yellow).
			Bold(true),

		Footer: lipgloss.NewStyle().
			Foreground(Subtext0).
			MarginTop(1),

		ToastInfo: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(Blue).
			Foreground(Blue).
			Padding(0, 1),

		ToastSuccess: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(Green).
			Foreground(Green).
			Padding(0, 1),

		ToastWarning: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(Yellow).
			Foreground(Yellow).
			Padding(0, 1),

		ToastError: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(Red).
			Foreground(Red).
			Padding(0, 1),
	}
}
