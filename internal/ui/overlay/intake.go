package overlay

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hourglassdev/hourglass/internal/domain"
	"github.com/hourglassdev/hourglass/internal/session"
)

// IntakeSubmittedMsg is emitted when the intake form is submitted
type IntakeSubmittedMsg struct {
	Rows []session.IntakeRow
}

// intakeField identifies the focused field within a row
type intakeField int

const (
	fieldName intakeField = iota
	fieldHours
	fieldPriority
)

// intakeRow holds the inputs for a single task row
type intakeRow struct {
	name     textinput.Model
	hours    textinput.Model
	priority domain.Priority
}

// IntakeOverlay provides a form to enter the initial set of tasks
type IntakeOverlay struct {
	rows     []intakeRow
	rowIndex int
	field    intakeField
	styles   *Styles
}

// NewIntakeOverlay creates an intake overlay seeded with the given rows
func NewIntakeOverlay(rows []session.IntakeRow) *IntakeOverlay {
	o := &IntakeOverlay{styles: New()}
	for _, r := range rows {
		o.rows = append(o.rows, newIntakeRow(r))
	}
	if len(o.rows) == 0 {
		o.rows = append(o.rows, newIntakeRow(session.IntakeRow{Priority: domain.PriorityMedium}))
	}
	o.rows[0].name.Focus()
	return o
}

func newIntakeRow(r session.IntakeRow) intakeRow {
	name := textinput.New()
	name.Placeholder = "Task name..."
	name.CharLimit = 120
	name.Width = 32
	name.SetValue(r.Name)

	hours := textinput.New()
	hours.Placeholder = "0"
	hours.CharLimit = 4
	hours.Width = 4
	if r.HoursNeeded > 0 {
		hours.SetValue(strconv.Itoa(r.HoursNeeded))
	}

	pri := r.Priority
	if pri == "" {
		pri = domain.PriorityMedium
	}

	return intakeRow{name: name, hours: hours, priority: pri}
}

// Init initializes the overlay
func (o *IntakeOverlay) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages
func (o *IntakeOverlay) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return o, func() tea.Msg { return CloseOverlayMsg{} }

		case "ctrl+s":
			return o, o.submit()

		case "ctrl+n":
			o.rows = append(o.rows, newIntakeRow(session.IntakeRow{Priority: domain.PriorityMedium}))
			o.focusField(len(o.rows)-1, fieldName)
			return o, nil

		case "tab", "enter":
			o.focusNext()
			return o, nil

		case "shift+tab":
			o.focusPrev()
			return o, nil

		case "up":
			if o.rowIndex > 0 {
				o.focusField(o.rowIndex-1, o.field)
			}
			return o, nil

		case "down":
			if o.rowIndex < len(o.rows)-1 {
				o.focusField(o.rowIndex+1, o.field)
			}
			return o, nil
		}

		// Priority selection when the priority field is focused
		if o.field == fieldPriority {
			switch msg.String() {
			case "1", "l":
				o.rows[o.rowIndex].priority = domain.PriorityLow
				return o, nil
			case "2", "m":
				o.rows[o.rowIndex].priority = domain.PriorityMedium
				return o, nil
			case "3", "h":
				o.rows[o.rowIndex].priority = domain.PriorityHigh
				return o, nil
			}
			return o, nil
		}
	}

	// Update the focused input
	var cmd tea.Cmd
	row := &o.rows[o.rowIndex]
	switch o.field {
	case fieldName:
		row.name, cmd = row.name.Update(msg)
	case fieldHours:
		row.hours, cmd = row.hours.Update(msg)
	}
	return o, cmd
}

// focusNext advances focus to the next field, wrapping across rows
func (o *IntakeOverlay) focusNext() {
	if o.field < fieldPriority {
		o.focusField(o.rowIndex, o.field+1)
		return
	}
	o.focusField((o.rowIndex+1)%len(o.rows), fieldName)
}

// focusPrev moves focus to the previous field, wrapping across rows
func (o *IntakeOverlay) focusPrev() {
	if o.field > fieldName {
		o.focusField(o.rowIndex, o.field-1)
		return
	}
	o.focusField((o.rowIndex-1+len(o.rows))%len(o.rows), fieldPriority)
}

func (o *IntakeOverlay) focusField(row int, field intakeField) {
	o.rows[o.rowIndex].name.Blur()
	o.rows[o.rowIndex].hours.Blur()
	o.rowIndex = row
	o.field = field
	switch field {
	case fieldName:
		o.rows[row].name.Focus()
	case fieldHours:
		o.rows[row].hours.Focus()
	}
}

// submit collects the filled rows and emits an IntakeSubmittedMsg
func (o *IntakeOverlay) submit() tea.Cmd {
	var rows []session.IntakeRow
	for _, r := range o.rows {
		name := strings.TrimSpace(r.name.Value())
		hours, _ := strconv.Atoi(strings.TrimSpace(r.hours.Value()))
		rows = append(rows, session.IntakeRow{
			Name:        name,
			HoursNeeded: hours,
			Priority:    r.priority,
		})
	}

	filled := false
	for _, r := range rows {
		if r.Name != "" && r.HoursNeeded > 0 {
			filled = true
			break
		}
	}
	if !filled {
		return nil // Nothing to schedule yet
	}

	return func() tea.Msg { return IntakeSubmittedMsg{Rows: rows} }
}

// View renders the form
func (o *IntakeOverlay) View() string {
	var b strings.Builder

	header := fmt.Sprintf("%-34s %-6s %s", "Task", "Hours", "Priority")
	b.WriteString(o.styles.Detail.Render(header))
	b.WriteString("\n")

	for i := range o.rows {
		r := &o.rows[i]

		marker := "  "
		if i == o.rowIndex {
			marker = o.styles.MenuItemActive.Render("> ")
		}
		b.WriteString(marker)
		b.WriteString(r.name.View())
		b.WriteString("  ")
		b.WriteString(r.hours.View())
		b.WriteString("  ")
		b.WriteString(o.renderPriority(i))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(o.styles.Separator.Render(strings.Repeat("─", 56)))
	b.WriteString("\n")

	hints := []string{
		o.styles.MenuKey.Render("Tab") + " " + o.styles.Footer.Render("Next field"),
		o.styles.MenuKey.Render("Ctrl+N") + " " + o.styles.Footer.Render("Add row"),
		o.styles.MenuKey.Render("Ctrl+S") + " " + o.styles.Footer.Render("Done"),
		o.styles.MenuKey.Render("Esc") + " " + o.styles.Footer.Render("Cancel"),
	}
	b.WriteString(o.styles.Footer.Render(strings.Join(hints, " • ")))

	return b.String()
}

// renderPriority renders the priority selector for a row
func (o *IntakeOverlay) renderPriority(row int) string {
	choices := []struct {
		key string
		pri domain.Priority
	}{
		{"l", domain.PriorityLow},
		{"m", domain.PriorityMedium},
		{"h", domain.PriorityHigh},
	}

	focused := row == o.rowIndex && o.field == fieldPriority

	var parts []string
	for _, c := range choices {
		style := o.styles.MenuItem
		indicator := " "
		if c.pri == o.rows[row].priority {
			indicator = "●"
			if focused {
				style = o.styles.MenuItemActive
			}
		}
		parts = append(parts, style.Render(fmt.Sprintf("[%s%s]", indicator, c.key)))
	}

	return strings.Join(parts, " ")
}

// Title returns the overlay title
func (o *IntakeOverlay) Title() string {
	return "What do you need to get done?"
}

// Size returns the overlay dimensions
func (o *IntakeOverlay) Size() (width, height int) {
	return 64, len(o.rows) + 8
}
