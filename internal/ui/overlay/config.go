package overlay

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hourglassdev/hourglass/internal/domain"
)

// ConfigConfirmedMsg is emitted when the planning window is confirmed
type ConfigConfirmedMsg struct {
	TotalDays   int
	HoursPerDay int
}

// ConfigOverlay provides a form to set the planning window
type ConfigOverlay struct {
	days       textinput.Model
	hours      textinput.Model
	focusIndex int
	styles     *Styles
}

const (
	focusDays = iota
	focusHours
	focusConfirm
)

// NewConfigOverlay creates a config overlay seeded with the current settings
func NewConfigOverlay(cfg domain.SchedulerConfig) *ConfigOverlay {
	days := textinput.New()
	days.CharLimit = 3
	days.Width = 4
	days.SetValue(strconv.Itoa(cfg.TotalDays))
	days.Focus()

	hours := textinput.New()
	hours.CharLimit = 2
	hours.Width = 4
	hours.SetValue(strconv.Itoa(cfg.HoursPerDay))

	return &ConfigOverlay{
		days:   days,
		hours:  hours,
		styles: New(),
	}
}

// Init initializes the overlay
func (c *ConfigOverlay) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages
func (c *ConfigOverlay) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return c, func() tea.Msg { return CloseOverlayMsg{} }

		case "tab", "shift+tab":
			if msg.String() == "tab" {
				c.focusIndex = (c.focusIndex + 1) % 3
			} else {
				c.focusIndex = (c.focusIndex - 1 + 3) % 3
			}
			c.days.Blur()
			c.hours.Blur()
			switch c.focusIndex {
			case focusDays:
				c.days.Focus()
			case focusHours:
				c.hours.Focus()
			}
			return c, nil

		case "enter", "ctrl+s":
			if c.focusIndex == focusConfirm || msg.String() == "ctrl+s" {
				return c, c.submit()
			}
		}
	}

	var cmd tea.Cmd
	switch c.focusIndex {
	case focusDays:
		c.days, cmd = c.days.Update(msg)
	case focusHours:
		c.hours, cmd = c.hours.Update(msg)
	}
	return c, cmd
}

// submit parses the inputs and emits a ConfigConfirmedMsg. Out of range
// values are clamped by the store, not rejected here.
func (c *ConfigOverlay) submit() tea.Cmd {
	days, err := strconv.Atoi(strings.TrimSpace(c.days.Value()))
	if err != nil {
		return nil
	}
	hours, err := strconv.Atoi(strings.TrimSpace(c.hours.Value()))
	if err != nil {
		return nil
	}

	return func() tea.Msg { return ConfigConfirmedMsg{TotalDays: days, HoursPerDay: hours} }
}

// View renders the form
func (c *ConfigOverlay) View() string {
	var b strings.Builder

	renderField := func(focused bool, label, view string) {
		if focused {
			b.WriteString(c.styles.LabelActive.Render(label))
		} else {
			b.WriteString(c.styles.Label.Render(label))
		}
		b.WriteString("  ")
		b.WriteString(view)
		b.WriteString("\n\n")
	}

	renderField(c.focusIndex == focusDays, "Days to plan:      ", c.days.View())
	renderField(c.focusIndex == focusHours, fmt.Sprintf("Hours per day (%d-%d):", domain.MinHoursPerDay, domain.MaxHoursPerDay), c.hours.View())

	confirmStyle := c.styles.MenuItem
	if c.focusIndex == focusConfirm {
		confirmStyle = c.styles.MenuItemActive
	}
	b.WriteString(confirmStyle.Render("[ Start Planning ]"))
	b.WriteString("\n")

	hints := []string{
		c.styles.MenuKey.Render("Tab") + " " + c.styles.Footer.Render("Switch fields"),
		c.styles.MenuKey.Render("Ctrl+S") + " " + c.styles.Footer.Render("Confirm"),
		c.styles.MenuKey.Render("Esc") + " " + c.styles.Footer.Render("Cancel"),
	}
	b.WriteString(c.styles.Footer.Render(strings.Join(hints, " • ")))

	return b.String()
}

// Title returns the overlay title
func (c *ConfigOverlay) Title() string {
	return "Planning Window"
}

// Size returns the overlay dimensions
func (c *ConfigOverlay) Size() (width, height int) {
	return 48, 11
}
