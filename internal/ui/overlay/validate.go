package overlay

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hourglassdev/hourglass/internal/domain"
)

// RepairChoice identifies a schedule repair action
type RepairChoice string

const (
	RepairTrim         RepairChoice = "trim"
	RepairRedistribute RepairChoice = "redistribute"
	RepairRaiseCap     RepairChoice = "raise-cap"
	RepairAddOneDay    RepairChoice = "add-day"
	RepairAddDays      RepairChoice = "add-days"
	RepairCapToFit     RepairChoice = "cap-to-fit"
	RepairDistribute   RepairChoice = "distribute"
)

// RepairChosenMsg is emitted when the user picks a repair
type RepairChosenMsg struct {
	Choice RepairChoice
}

// repairOption is a single entry in the repair menu
type repairOption struct {
	key    string
	choice RepairChoice
	label  string
}

// ValidateOverlay explains a validation failure and offers repairs
type ValidateOverlay struct {
	result  domain.ValidationResult
	options []repairOption
	cursor  int
	styles  *Styles
}

// NewValidateOverlay creates an overlay for the given validation failure.
// daysToAdd and capToFit come from the session's repair helpers.
func NewValidateOverlay(result domain.ValidationResult, daysToAdd, capToFit int) *ValidateOverlay {
	var options []repairOption
	switch result.Kind {
	case domain.ValidationOverCapacity:
		over := result.TotalHours - result.MaxHours
		options = []repairOption{
			{"m", RepairRedistribute, fmt.Sprintf("Move %dh to later days, lowest priority first", over)},
			{"t", RepairTrim, fmt.Sprintf("Trim %dh off, lowest priority first", over)},
			{"r", RepairRaiseCap, fmt.Sprintf("Raise the daily limit to %dh", result.TotalHours)},
			{"a", RepairAddOneDay, "Add another day to the window"},
		}
	case domain.ValidationUnderScheduled:
		options = []repairOption{
			{"f", RepairDistribute, fmt.Sprintf("Fill %dh into free slots automatically", result.Missing)},
			{"a", RepairAddDays, fmt.Sprintf("Add %d more days", daysToAdd)},
			{"c", RepairCapToFit, fmt.Sprintf("Raise the daily limit to %dh", capToFit)},
		}
	}

	return &ValidateOverlay{
		result:  result,
		options: options,
		styles:  New(),
	}
}

// Init initializes the overlay
func (v *ValidateOverlay) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (v *ValidateOverlay) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return v, func() tea.Msg { return CloseOverlayMsg{} }

		case "up", "k":
			v.cursor = (v.cursor - 1 + len(v.options)) % len(v.options)
			return v, nil

		case "down", "j":
			v.cursor = (v.cursor + 1) % len(v.options)
			return v, nil

		case "enter":
			return v, v.choose(v.options[v.cursor].choice)
		}

		for _, opt := range v.options {
			if msg.String() == opt.key {
				return v, v.choose(opt.choice)
			}
		}
	}

	return v, nil
}

func (v *ValidateOverlay) choose(choice RepairChoice) tea.Cmd {
	return func() tea.Msg { return RepairChosenMsg{Choice: choice} }
}

// View renders the overlay
func (v *ValidateOverlay) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Warning.Render(v.result.Message()))
	b.WriteString("\n\n")

	for i, opt := range v.options {
		style := v.styles.MenuItem
		prefix := "  "
		if i == v.cursor {
			style = v.styles.MenuItemActive
			prefix = "> "
		}
		b.WriteString(prefix)
		b.WriteString(v.styles.MenuKey.Render("[" + opt.key + "]"))
		b.WriteString(" ")
		b.WriteString(style.Render(opt.label))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	hints := []string{
		v.styles.MenuKey.Render("j/k") + " " + v.styles.Footer.Render("Move"),
		v.styles.MenuKey.Render("Enter") + " " + v.styles.Footer.Render("Apply"),
		v.styles.MenuKey.Render("Esc") + " " + v.styles.Footer.Render("Fix by hand"),
	}
	b.WriteString(v.styles.Footer.Render(strings.Join(hints, " • ")))

	return b.String()
}

// Title returns the overlay title
func (v *ValidateOverlay) Title() string {
	if v.result.Kind == domain.ValidationOverCapacity {
		return "Day Over Capacity"
	}
	return "Hours Still Unscheduled"
}

// Size returns the overlay dimensions
func (v *ValidateOverlay) Size() (width, height int) {
	return 64, len(v.options) + 9
}
