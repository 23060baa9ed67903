package app

import (
	"strconv"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hourglassdev/hourglass/internal/domain"
	"github.com/hourglassdev/hourglass/internal/session"
	"github.com/hourglassdev/hourglass/internal/store"
	"github.com/hourglassdev/hourglass/internal/types"
	"github.com/hourglassdev/hourglass/internal/ui/overlay"
)

// handleKey dispatches a key press to the current mode
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.mode {
	case types.ModeEdit:
		return m.handleEditMode(msg)
	default:
		return m.handleBrowseMode(msg)
	}
}

// handleBrowseMode handles grid navigation and top-level actions
func (m Model) handleBrowseMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit

	case "h", "left":
		m.cursor.Col--
		m.cursor = m.cursor.Clamp(len(m.tasks), m.cfg.TotalDays)
		return m, nil

	case "l", "right":
		m.cursor.Col++
		m.cursor = m.cursor.Clamp(len(m.tasks), m.cfg.TotalDays)
		return m, nil

	case "k", "up":
		m.cursor.Row--
		m.cursor = m.cursor.Clamp(len(m.tasks), m.cfg.TotalDays)
		return m, nil

	case "j", "down":
		m.cursor.Row++
		m.cursor = m.cursor.Clamp(len(m.tasks), m.cfg.TotalDays)
		return m, nil

	case "enter", "i":
		task := m.selectedTask()
		if task == nil {
			return m, nil
		}
		m.mode = types.ModeEdit
		if hours := task.Schedule[m.selectedDay().Date]; hours > 0 {
			m.editBuffer = strconv.Itoa(hours)
		} else {
			m.editBuffer = ""
		}
		return m, nil

	case "x":
		return m.applyEdit(0)

	case " ":
		return m.toggleCompletion()

	case "a":
		return m, m.overlayStack.Push(overlay.NewIntakeOverlay(nil))

	case "d":
		task := m.selectedTask()
		if task == nil {
			return m, nil
		}
		m.confirm = confirmDeleteTask
		m.confirmID = task.ID
		return m, m.overlayStack.Push(overlay.NewConfirmDialog(
			"Delete Task", "Delete \""+task.Name+"\" and its scheduled hours?"))

	case "p":
		return m.cyclePriority()

	case "c":
		return m, m.overlayStack.Push(overlay.NewConfigOverlay(m.cfg))

	case "f":
		return m.autoFill()

	case "v":
		return m.validate()

	case "C":
		return m.commit()

	case "?":
		return m, m.overlayStack.Push(overlay.NewHelpOverlay())
	}

	return m, nil
}

// handleEditMode collects digits for the cell under the cursor
func (m Model) handleEditMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = types.ModeBrowse
		m.editBuffer = ""
		return m, nil

	case "enter":
		hours := 0
		if m.editBuffer != "" {
			hours, _ = strconv.Atoi(m.editBuffer)
		}
		m.mode = types.ModeBrowse
		m.editBuffer = ""
		return m.applyEdit(hours)

	case "backspace":
		if len(m.editBuffer) > 0 {
			m.editBuffer = m.editBuffer[:len(m.editBuffer)-1]
		}
		return m, nil
	}

	if len(msg.Runes) == 1 && msg.Runes[0] >= '0' && msg.Runes[0] <= '9' && len(m.editBuffer) < 3 {
		m.editBuffer += string(msg.Runes)
	}
	return m, nil
}

// applyEdit routes a cell edit through the session, opening the overflow
// decision overlay when the request did not fully fit
func (m Model) applyEdit(hours int) (tea.Model, tea.Cmd) {
	task := m.selectedTask()
	if task == nil {
		return m, nil
	}

	decision, err := m.session.EditCell(task.ID, m.cursor.Col, hours)
	if err != nil {
		m.addToast(ToastError, err.Error())
		return m, nil
	}
	m.refresh()

	if decision == nil {
		return m, nil
	}
	m.mode = types.ModeDecide
	return m, m.overlayStack.Push(overlay.NewOverflowOverlay(*decision))
}

// toggleCompletion flips the done state for the cell under the cursor
func (m Model) toggleCompletion() (tea.Model, tea.Cmd) {
	task := m.selectedTask()
	if task == nil {
		return m, nil
	}
	day := m.selectedDay()
	if task.Schedule[day.Date] == 0 {
		return m, nil
	}

	_, done := task.Completions[day.Date]
	if err := m.store.SetCompletion(task.ID, day.Date, !done); err != nil {
		m.addToast(ToastError, err.Error())
		return m, nil
	}
	m.refresh()
	return m, nil
}

// cyclePriority rotates the selected task low -> medium -> high
func (m Model) cyclePriority() (tea.Model, tea.Cmd) {
	task := m.selectedTask()
	if task == nil {
		return m, nil
	}

	next := task.Priority.Next()
	m.store.UpsertTask(store.TaskPatch{ID: task.ID, Priority: &next})
	m.refresh()
	m.addToast(ToastInfo, task.Name+" is now "+next.String()+" priority")
	return m, nil
}

// autoFill validates and, when hours are missing, fills them into free slots
func (m Model) autoFill() (tea.Model, tea.Cmd) {
	result := m.session.Validate()
	if result.Valid {
		m.addToast(ToastInfo, "Nothing to fill, schedule is complete")
		return m, nil
	}
	if result.Kind != domain.ValidationUnderScheduled {
		return m, m.pushValidateOverlay(result)
	}

	after, err := m.session.RepairAutoDistributeMissing()
	if err != nil {
		m.addToast(ToastError, err.Error())
		return m, nil
	}
	m.refresh()
	if after.Valid {
		m.addToast(ToastSuccess, "Unscheduled hours placed")
		return m, nil
	}
	return m, m.pushValidateOverlay(after)
}

// validate runs full-schedule validation and opens the repair menu on failure
func (m Model) validate() (tea.Model, tea.Cmd) {
	result := m.session.Validate()
	if result.Valid {
		m.addToast(ToastSuccess, "Schedule is valid")
		return m, nil
	}
	return m, m.pushValidateOverlay(result)
}

// commit validates first, then asks for confirmation
func (m Model) commit() (tea.Model, tea.Cmd) {
	if m.session.State() == session.StateCommitted {
		m.addToast(ToastInfo, "Schedule already committed")
		return m, nil
	}

	result := m.session.Validate()
	if !result.Valid {
		return m, m.pushValidateOverlay(result)
	}

	m.confirm = confirmCommit
	return m, m.overlayStack.Push(overlay.NewConfirmDialog(
		"Commit Schedule", "Lock in the current schedule?"))
}
