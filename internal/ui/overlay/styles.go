package overlay

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/hourglassdev/hourglass/internal/ui/styles"
)

// Styles holds all overlay-specific styles
type Styles struct {
	// Overlay is the base overlay container style
	Overlay lipgloss.Style
	// Title is the overlay title style
	Title lipgloss.Style
	// Label is the style for form field labels
	Label lipgloss.Style
	// LabelActive is the style for the focused form field label
	LabelActive lipgloss.Style
	// MenuItem is the default menu item style
	MenuItem lipgloss.Style
	// MenuItemActive is the highlighted/selected menu item style
	MenuItemActive lipgloss.Style
	// MenuItemDisabled is the disabled menu item style
	MenuItemDisabled lipgloss.Style
	// MenuKey is the style for keybinding hints
	MenuKey lipgloss.Style
	// Separator is the style for divider lines
	Separator lipgloss.Style
	// Footer is the style for overlay footer text
	Footer lipgloss.Style
	// Warning is the style for overflow and over-capacity callouts
	Warning lipgloss.Style
	// Success is the style for positive confirmations
	Success lipgloss.Style
	// Detail is the style for secondary detail lines
	Detail lipgloss.Style
}

// New creates a new Styles instance using the Catppuccin Macchiato theme
func New() *Styles {
	return &Styles{
		Overlay: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(styles.Surface2).
			Background(styles.Base).
			Padding(1, 2),

		Title: lipgloss.NewStyle().
			Foreground(styles.Text).
			Bold(true).
			MarginBottom(1),

		Label: lipgloss.NewStyle().
			Foreground(styles.Subtext1),

		LabelActive: lipgloss.NewStyle().
			Foreground(styles.Blue).
			Bold(true),

		MenuItem: lipgloss.NewStyle().
			Foreground(styles.Text),

		MenuItemActive: lipgloss.NewStyle().
			Foreground(styles.Blue).
			Bold(true),

		MenuItemDisabled: lipgloss.NewStyle().
			Foreground(styles.Overlay0),

		MenuKey: lipgloss.NewStyle().
			Foreground(styles.Yellow).
			Bold(true),

		Separator: lipgloss.NewStyle().
			Foreground(styles.Surface1),

		Footer: lipgloss.NewStyle().
			Foreground(styles.Subtext0).
			MarginTop(1),

		Warning: lipgloss.NewStyle().
			Foreground(styles.Peach).
			Bold(true),

		Success: lipgloss.NewStyle().
			Foreground(styles.Green).
			Bold(true),

		Detail: lipgloss.NewStyle().
			Foreground(styles.Overlay1),
	}
}
