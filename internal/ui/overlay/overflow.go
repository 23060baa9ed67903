package overlay

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hourglassdev/hourglass/internal/domain"
	"github.com/hourglassdev/hourglass/internal/session"
)

// OverflowChoice identifies a resolution for an overflow decision
type OverflowChoice string

const (
	ChoiceDistribute OverflowChoice = "distribute"
	ChoiceAddDays    OverflowChoice = "add-days"
	ChoiceRaiseCap   OverflowChoice = "raise-cap"
	ChoiceDrop       OverflowChoice = "drop"
)

// OverflowResolvedMsg is emitted when the user picks a resolution
type OverflowResolvedMsg struct {
	Choice OverflowChoice
}

// overflowOption is a single entry in the resolution menu
type overflowOption struct {
	key     string
	choice  OverflowChoice
	label   string
	enabled bool
}

// OverflowOverlay presents the resolutions for a clamped cell edit
type OverflowOverlay struct {
	decision session.OverflowDecision
	options  []overflowOption
	cursor   int
	styles   *Styles
}

// NewOverflowOverlay creates an overlay for the given pending decision
func NewOverflowOverlay(d session.OverflowDecision) *OverflowOverlay {
	planned := domain.PlanTotal(d.Plan)

	distLabel := fmt.Sprintf("Distribute %dh across later days", planned)
	if planned < d.Overflow {
		distLabel = fmt.Sprintf("Distribute %dh across later days (%dh still unplaced)", planned, d.Overflow-planned)
	}

	options := []overflowOption{
		{"d", ChoiceDistribute, distLabel, planned > 0},
		{"a", ChoiceAddDays, "Extend the planning window", true},
		{"r", ChoiceRaiseCap, fmt.Sprintf("Raise the daily limit to %dh on %s", d.Available+d.Overflow, d.Day.Display), d.Available+d.Overflow <= domain.MaxHoursPerDay},
		{"x", ChoiceDrop, fmt.Sprintf("Keep just %dh, drop the rest", d.SetTo), true},
	}

	// Start the cursor on the first enabled option
	cursor := 0
	for i, o := range options {
		if o.enabled {
			cursor = i
			break
		}
	}

	return &OverflowOverlay{
		decision: d,
		options:  options,
		cursor:   cursor,
		styles:   New(),
	}
}

// Init initializes the overlay
func (o *OverflowOverlay) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (o *OverflowOverlay) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			// Escaping keeps the clamped value, same as dropping
			return o, o.resolve(ChoiceDrop)

		case "up", "k":
			o.moveCursor(-1)
			return o, nil

		case "down", "j":
			o.moveCursor(1)
			return o, nil

		case "enter":
			opt := o.options[o.cursor]
			if opt.enabled {
				return o, o.resolve(opt.choice)
			}
			return o, nil
		}

		for _, opt := range o.options {
			if msg.String() == opt.key && opt.enabled {
				return o, o.resolve(opt.choice)
			}
		}
	}

	return o, nil
}

// moveCursor moves the cursor skipping disabled options
func (o *OverflowOverlay) moveCursor(delta int) {
	n := len(o.options)
	for i := 0; i < n; i++ {
		o.cursor = (o.cursor + delta + n) % n
		if o.options[o.cursor].enabled {
			return
		}
	}
}

func (o *OverflowOverlay) resolve(choice OverflowChoice) tea.Cmd {
	return func() tea.Msg { return OverflowResolvedMsg{Choice: choice} }
}

// View renders the overlay
func (o *OverflowOverlay) View() string {
	var b strings.Builder
	d := o.decision

	b.WriteString(o.styles.Warning.Render(
		fmt.Sprintf("%s doesn't fit on %s", d.TaskName, d.Day.Display)))
	b.WriteString("\n\n")

	b.WriteString(o.styles.Detail.Render(
		fmt.Sprintf("You asked for %dh but only %dh fit. Set to %dh, %dh left over.",
			d.Attempted, d.Available, d.SetTo, d.Overflow)))
	b.WriteString("\n\n")

	if len(d.Plan) > 0 {
		b.WriteString(o.styles.Detail.Render("Later days with room:"))
		b.WriteString("\n")
		for _, e := range d.Plan {
			b.WriteString(o.styles.MenuItem.Render(
				fmt.Sprintf("  %s  +%dh", e.Display, e.Assign)))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	for i, opt := range o.options {
		style := o.styles.MenuItem
		keyStyle := o.styles.MenuKey
		prefix := "  "
		switch {
		case !opt.enabled:
			style = o.styles.MenuItemDisabled
			keyStyle = o.styles.MenuItemDisabled
		case i == o.cursor:
			style = o.styles.MenuItemActive
			prefix = "> "
		}
		b.WriteString(prefix)
		b.WriteString(keyStyle.Render("[" + opt.key + "]"))
		b.WriteString(" ")
		b.WriteString(style.Render(opt.label))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	hints := []string{
		o.styles.MenuKey.Render("j/k") + " " + o.styles.Footer.Render("Move"),
		o.styles.MenuKey.Render("Enter") + " " + o.styles.Footer.Render("Choose"),
		o.styles.MenuKey.Render("Esc") + " " + o.styles.Footer.Render("Keep clamped value"),
	}
	b.WriteString(o.styles.Footer.Render(strings.Join(hints, " • ")))

	return b.String()
}

// Title returns the overlay title
func (o *OverflowOverlay) Title() string {
	return "Not Enough Room"
}

// Size returns the overlay dimensions
func (o *OverflowOverlay) Size() (width, height int) {
	return 64, len(o.decision.Plan) + 14
}
