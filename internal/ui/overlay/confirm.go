package overlay

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// ConfirmDialog is a confirmation dialog overlay with Yes/No options
type ConfirmDialog struct {
	title    string
	message  string
	styles   *Styles
	selected bool // true = Yes, false = No
}

// ConfirmResult represents the result of a confirmation dialog
type ConfirmResult struct {
	Confirmed bool
}

// NewConfirmDialog creates a new confirmation dialog with the given title and message
func NewConfirmDialog(title, message string) *ConfirmDialog {
	return &ConfirmDialog{
		title:    title,
		message:  message,
		styles:   New(),
		selected: false, // Default to No
	}
}

// Init initializes the dialog
func (c *ConfirmDialog) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (c *ConfirmDialog) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "y", "Y":
			return c, func() tea.Msg {
				return SelectionMsg{Key: "yes", Value: ConfirmResult{Confirmed: true}}
			}

		case "n", "N", "esc":
			return c, func() tea.Msg {
				return SelectionMsg{Key: "no", Value: ConfirmResult{Confirmed: false}}
			}

		case "enter":
			return c, func() tea.Msg {
				key := "no"
				if c.selected {
					key = "yes"
				}
				return SelectionMsg{Key: key, Value: ConfirmResult{Confirmed: c.selected}}
			}

		case "left", "h":
			c.selected = false
			return c, nil

		case "right", "l", "tab":
			c.selected = true
			return c, nil
		}
	}

	return c, nil
}

// View renders the dialog
func (c *ConfirmDialog) View() string {
	var b strings.Builder

	if c.message != "" {
		b.WriteString(c.styles.MenuItem.Render(c.message))
		b.WriteString("\n\n")
	}

	yesStyle := c.styles.MenuItem
	noStyle := c.styles.MenuItem
	if c.selected {
		yesStyle = c.styles.MenuItemActive
	} else {
		noStyle = c.styles.MenuItemActive
	}

	b.WriteString(yesStyle.Render("[Y] Yes"))
	b.WriteString("    ")
	b.WriteString(noStyle.Render("[N] No"))
	b.WriteString("\n\n")
	b.WriteString(c.styles.Footer.Render("← → / Tab: Switch • Enter: Confirm • Esc: Cancel"))

	return b.String()
}

// Title returns the dialog title
func (c *ConfirmDialog) Title() string {
	return c.title
}

// Size returns the dialog dimensions
func (c *ConfirmDialog) Size() (width, height int) {
	messageLines := len(strings.Split(c.message, "\n"))
	return 60, messageLines + 6
}
