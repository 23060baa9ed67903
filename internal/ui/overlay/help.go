package overlay

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// HelpOverlay shows the keybinding reference
type HelpOverlay struct {
	styles *Styles
}

// NewHelpOverlay creates a new help overlay
func NewHelpOverlay() *HelpOverlay {
	return &HelpOverlay{styles: New()}
}

// Init initializes the overlay
func (h *HelpOverlay) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (h *HelpOverlay) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "q", "?":
			return h, func() tea.Msg { return CloseOverlayMsg{} }
		}
	}
	return h, nil
}

type helpEntry struct {
	key  string
	desc string
}

type helpSection struct {
	header  string
	entries []helpEntry
}

var helpSections = []helpSection{
	{
		header: "Grid",
		entries: []helpEntry{
			{"h/j/k/l, arrows", "Move between cells"},
			{"Enter, i", "Edit the selected cell"},
			{"x", "Clear the selected cell"},
			{"Space", "Toggle done for the selected cell"},
		},
	},
	{
		header: "Tasks",
		entries: []helpEntry{
			{"a", "Add tasks"},
			{"d", "Delete the selected task"},
			{"p", "Cycle the selected task's priority"},
		},
	},
	{
		header: "Schedule",
		entries: []helpEntry{
			{"c", "Change the planning window"},
			{"f", "Auto-fill unscheduled hours"},
			{"v", "Validate the schedule"},
			{"C", "Commit the schedule"},
		},
	},
	{
		header: "General",
		entries: []helpEntry{
			{"?", "Toggle this help"},
			{"q, Ctrl+C", "Quit"},
		},
	},
}

// View renders the overlay
func (h *HelpOverlay) View() string {
	var b strings.Builder

	for i, section := range helpSections {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(h.styles.LabelActive.Render(section.header))
		b.WriteString("\n")
		for _, e := range section.entries {
			b.WriteString("  ")
			b.WriteString(h.styles.MenuKey.Render(padRight(e.key, 18)))
			b.WriteString(h.styles.MenuItem.Render(e.desc))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(h.styles.Footer.Render("Esc: close"))

	return b.String()
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

// Title returns the overlay title
func (h *HelpOverlay) Title() string {
	return "Keyboard Reference"
}

// Size returns the overlay dimensions
func (h *HelpOverlay) Size() (width, height int) {
	lines := 0
	for _, s := range helpSections {
		lines += len(s.entries) + 2
	}
	return 56, lines + 4
}
