// Package grid renders the planner grid: one row per task, one column per
// day in the planning window, plus a daily totals row.
package grid

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/hourglassdev/hourglass/internal/capacity"
	"github.com/hourglassdev/hourglass/internal/domain"
	"github.com/hourglassdev/hourglass/internal/types"
	"github.com/hourglassdev/hourglass/internal/ui/styles"
)

const (
	nameWidth = 22
	cellWidth = 7
)

// Cursor identifies the selected cell as task row and day column
type Cursor struct {
	Row int
	Col int
}

// Clamp returns the cursor constrained to a grid of rows x cols
func (c Cursor) Clamp(rows, cols int) Cursor {
	if c.Row > rows-1 {
		c.Row = rows - 1
	}
	if c.Row < 0 {
		c.Row = 0
	}
	if c.Col > cols-1 {
		c.Col = cols - 1
	}
	if c.Col < 0 {
		c.Col = 0
	}
	return c
}

// Render renders the planner grid. editValue is shown in the cursor cell
// while mode is ModeEdit.
func Render(
	tasks []domain.Task,
	cfg domain.SchedulerConfig,
	cursor Cursor,
	mode types.Mode,
	editValue string,
	s *styles.Styles,
) string {
	days := domain.DateRange(cfg)
	totals := capacity.DailyTotals(tasks)

	var rows []string
	rows = append(rows, renderHeader(days, s))
	for i, task := range tasks {
		rows = append(rows, renderTaskRow(task, days, i, cursor, mode, editValue, s))
	}
	rows = append(rows, renderTotals(days, totals, cfg.HoursPerDay, s))

	body := strings.Join(rows, "\n")
	return s.Grid.Render(body)
}

// renderHeader renders the column headers
func renderHeader(days []domain.PlanDay, s *styles.Styles) string {
	var b strings.Builder
	b.WriteString(s.HeaderCell.Render(pad("Task", nameWidth)))
	b.WriteString(s.HeaderCell.Render(pad("Left", cellWidth)))
	for _, day := range days {
		b.WriteString(s.HeaderCell.Render(pad(day.Display, cellWidth)))
	}
	return b.String()
}

// renderTaskRow renders one task's name, remaining hours, and day cells
func renderTaskRow(
	task domain.Task,
	days []domain.PlanDay,
	row int,
	cursor Cursor,
	mode types.Mode,
	editValue string,
	s *styles.Styles,
) string {
	var b strings.Builder

	badge := s.PriorityBadge(task.Priority).Render(strings.ToUpper(task.Priority.String()[:1]))
	nameStyle := s.TaskName
	if task.IsFullyScheduled() {
		nameStyle = s.TaskComplete
	}
	name := truncate(task.Name, nameWidth-4)
	b.WriteString(badge)
	b.WriteString(" ")
	b.WriteString(nameStyle.Render(pad(name, nameWidth-4)))
	b.WriteString(" ")

	remaining := task.RemainingHours()
	remText := fmt.Sprintf("%d/%d", task.ScheduledHours(), task.HoursNeeded)
	remStyle := s.Cell
	if remaining == 0 {
		remStyle = s.TotalFull
	}
	b.WriteString(remStyle.Render(pad(remText, cellWidth)))

	for _, day := range days {
		b.WriteString(renderCell(task, day, row, cursor, mode, editValue, s))
	}

	return b.String()
}

// renderCell renders a single task x day cell
func renderCell(
	task domain.Task,
	day domain.PlanDay,
	row int,
	cursor Cursor,
	mode types.Mode,
	editValue string,
	s *styles.Styles,
) string {
	under := cursor.Row == row && cursor.Col == day.Index

	if under && mode == types.ModeEdit {
		return s.CellEditing.Render(pad(editValue+"_", cellWidth))
	}

	hours := task.Schedule[day.Date]
	text := "·"
	if hours > 0 {
		text = fmt.Sprintf("%dh", hours)
		if _, done := task.Completions[day.Date]; done {
			text = "✓" + text
		}
	}

	style := s.Cell
	if under {
		style = s.CellCursor
	}
	return style.Render(pad(text, cellWidth))
}

// renderTotals renders the per-day totals row with capacity coloring
func renderTotals(days []domain.PlanDay, totals map[string]int, maxHours int, s *styles.Styles) string {
	var b strings.Builder
	b.WriteString(s.HeaderCell.Render(pad("Total", nameWidth)))
	b.WriteString(pad("", cellWidth))
	for _, day := range days {
		total := totals[day.Date]
		text := fmt.Sprintf("%d/%d", total, maxHours)
		style := s.TotalFree
		switch {
		case total > maxHours:
			style = s.TotalOver
		case total == maxHours:
			style = s.TotalFull
		}
		b.WriteString(style.Render(pad(text, cellWidth)))
	}
	return b.String()
}

func pad(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return text + strings.Repeat(" ", width-w)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 1 {
		return s[:maxLen]
	}
	return s[:maxLen-1] + "…"
}
