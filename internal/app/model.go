// Package app contains the main application model and TEA implementation.
package app

import (
	"log/slog"
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hourglassdev/hourglass/internal/domain"
	"github.com/hourglassdev/hourglass/internal/session"
	"github.com/hourglassdev/hourglass/internal/store"
	"github.com/hourglassdev/hourglass/internal/types"
	"github.com/hourglassdev/hourglass/internal/ui/grid"
	"github.com/hourglassdev/hourglass/internal/ui/overlay"
	"github.com/hourglassdev/hourglass/internal/ui/styles"
)

// Re-export Toast type and constants for convenience
type Toast = types.Toast
type ToastLevel = types.ToastLevel

const (
	ToastInfo    = types.ToastInfo
	ToastSuccess = types.ToastSuccess
	ToastWarning = types.ToastWarning
	ToastError   = types.ToastError
)

// confirmAction identifies what a pending confirm dialog applies to
type confirmAction int

const (
	confirmNone confirmAction = iota
	confirmDeleteTask
	confirmCommit
)

// tickMsg drives periodic housekeeping such as toast expiry
type tickMsg time.Time

// Model is the main application state
type Model struct {
	// Core data, snapshotted from the store after every mutation
	tasks []domain.Task
	cfg   domain.SchedulerConfig

	store   *store.TaskStore
	session *session.Session

	// Grid state
	cursor     grid.Cursor
	mode       types.Mode
	editBuffer string

	// UI state
	overlayStack *overlay.Stack
	toasts       []Toast
	confirm      confirmAction
	confirmID    string

	// Terminal size
	width  int
	height int

	// Styles
	styles *styles.Styles

	// Logger
	logger *slog.Logger
}

// New creates a new application model over a loaded task store
func New(ts *store.TaskStore, logger *slog.Logger) Model {
	if logger == nil {
		logger = slog.Default()
	}

	return Model{
		tasks:        ts.Tasks(),
		cfg:          ts.Config(),
		store:        ts,
		session:      session.New(ts, logger),
		mode:         types.ModeBrowse,
		overlayStack: overlay.NewStack(),
		toasts:       []Toast{},
		styles:       styles.New(),
		logger:       logger,
	}
}

// Init returns the initial command for the application
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickEvery(time.Second)}
	if m.session.State() == session.StateIntake {
		cmds = append(cmds, m.overlayStack.Push(overlay.NewIntakeOverlay(m.session.Rows())))
	}
	return tea.Batch(cmds...)
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		m.expireToasts()
		return m, tickEvery(time.Second)

	case tea.KeyMsg:
		// If overlay is open, route to overlay stack
		if !m.overlayStack.IsEmpty() {
			return m.handleOverlayKey(msg)
		}
		return m.handleKey(msg)

	// Overlay messages
	case overlay.CloseOverlayMsg:
		m.overlayStack.Pop()
		if m.mode == types.ModeDecide && m.session.Pending() == nil {
			m.mode = types.ModeBrowse
		}
		return m, nil

	case overlay.IntakeSubmittedMsg:
		return m.handleIntakeSubmitted(msg)

	case overlay.ConfigConfirmedMsg:
		return m.handleConfigConfirmed(msg)

	case overlay.OverflowResolvedMsg:
		return m.handleOverflowResolved(msg)

	case overlay.RepairChosenMsg:
		return m.handleRepairChosen(msg)

	case overlay.SelectionMsg:
		return m.handleSelection(msg)
	}

	return m, nil
}

// handleOverlayKey forwards a key press to the open overlay
func (m Model) handleOverlayKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	return m, m.overlayStack.Update(msg)
}

// handleIntakeSubmitted routes submitted rows either through the intake
// workflow or, once planning has started, straight into the store
func (m Model) handleIntakeSubmitted(msg overlay.IntakeSubmittedMsg) (tea.Model, tea.Cmd) {
	m.overlayStack.Pop()

	if m.session.State() == session.StateIntake {
		for i, row := range msg.Rows {
			if i >= len(m.session.Rows()) {
				m.session.AddRows(1)
			}
			m.session.SetRow(i, row)
		}
		if err := m.session.Finalize(); err != nil {
			m.addToast(ToastError, err.Error())
			return m, nil
		}
		return m, m.overlayStack.Push(overlay.NewConfigOverlay(m.cfg))
	}

	// Mid-planning additions go directly into the store
	added := 0
	for _, row := range msg.Rows {
		if row.Name == "" || row.HoursNeeded <= 0 {
			continue
		}
		r := row
		m.store.UpsertTask(store.TaskPatch{
			Name:        &r.Name,
			HoursNeeded: &r.HoursNeeded,
			Priority:    &r.Priority,
		})
		added++
	}
	m.refresh()
	if added > 0 {
		m.addToast(ToastSuccess, "Added "+strconv.Itoa(added)+" task(s)")
	}
	return m, nil
}

// handleConfigConfirmed applies the planning window, either finishing the
// intake workflow or adjusting it mid-planning
func (m Model) handleConfigConfirmed(msg overlay.ConfigConfirmedMsg) (tea.Model, tea.Cmd) {
	m.overlayStack.Pop()

	if m.session.State() == session.StateConfiguring {
		if err := m.session.ConfirmConfig(msg.TotalDays, msg.HoursPerDay); err != nil {
			m.addToast(ToastError, err.Error())
			return m, nil
		}
		m.refresh()
		m.addToast(ToastSuccess, "Planning started")
		return m, nil
	}

	m.store.UpdateConfig(store.ConfigPatch{
		TotalDays:   &msg.TotalDays,
		HoursPerDay: &msg.HoursPerDay,
	})
	m.refresh()
	m.addToast(ToastInfo, "Planning window updated")
	return m, nil
}

// handleOverflowResolved applies the chosen overflow resolution
func (m Model) handleOverflowResolved(msg overlay.OverflowResolvedMsg) (tea.Model, tea.Cmd) {
	m.overlayStack.Pop()

	var err error
	switch msg.Choice {
	case overlay.ChoiceDistribute:
		err = m.session.ResolveAutoDistribute()
	case overlay.ChoiceAddDays:
		err = m.session.ResolveAddDays()
	case overlay.ChoiceRaiseCap:
		err = m.session.ResolveRaiseDailyCap()
	case overlay.ChoiceDrop:
		err = m.session.ResolveDropOverflow()
	}

	m.mode = types.ModeBrowse
	if err != nil {
		m.addToast(ToastError, err.Error())
		return m, nil
	}
	m.refresh()

	switch msg.Choice {
	case overlay.ChoiceDistribute:
		m.addToast(ToastSuccess, "Overflow distributed")
	case overlay.ChoiceAddDays:
		m.addToast(ToastInfo, "Planning window extended to "+strconv.Itoa(m.cfg.TotalDays)+" days")
	case overlay.ChoiceRaiseCap:
		m.addToast(ToastInfo, "Daily limit raised to "+strconv.Itoa(m.cfg.HoursPerDay)+"h")
	case overlay.ChoiceDrop:
		m.addToast(ToastWarning, "Overflow dropped")
	}
	return m, nil
}

// handleRepairChosen applies the chosen validation repair and keeps the
// repair loop going until the schedule validates
func (m Model) handleRepairChosen(msg overlay.RepairChosenMsg) (tea.Model, tea.Cmd) {
	m.overlayStack.Pop()

	var (
		result   domain.ValidationResult
		leftover int
		err      error
	)

	switch msg.Choice {
	case overlay.RepairTrim:
		result, err = m.session.RepairTrimDay()
	case overlay.RepairRedistribute:
		result, leftover, err = m.session.RepairRedistributeDay()
	case overlay.RepairRaiseCap:
		result, err = m.session.RepairRaiseCapToDayTotal()
	case overlay.RepairAddOneDay:
		result, err = m.session.RepairAddDay()
	case overlay.RepairAddDays:
		result, err = m.session.RepairAddMissingDays()
	case overlay.RepairCapToFit:
		result, err = m.session.RepairSetDailyCapToFit()
	case overlay.RepairDistribute:
		result, err = m.session.RepairAutoDistributeMissing()
	}

	if err != nil {
		m.addToast(ToastError, err.Error())
		return m, nil
	}
	m.refresh()
	if leftover > 0 {
		m.addToast(ToastWarning, strconv.Itoa(leftover)+"h could not be moved")
	}

	if result.Valid {
		m.addToast(ToastSuccess, "Schedule is valid")
		return m, nil
	}
	return m, m.pushValidateOverlay(result)
}

// handleSelection resolves a pending confirm dialog
func (m Model) handleSelection(msg overlay.SelectionMsg) (tea.Model, tea.Cmd) {
	m.overlayStack.Pop()

	action := m.confirm
	id := m.confirmID
	m.confirm = confirmNone
	m.confirmID = ""

	result, ok := msg.Value.(overlay.ConfirmResult)
	if !ok || !result.Confirmed {
		return m, nil
	}

	switch action {
	case confirmDeleteTask:
		m.store.DeleteTask(id)
		m.refresh()
		m.addToast(ToastInfo, "Task deleted")

	case confirmCommit:
		if err := m.session.Commit(); err != nil {
			m.addToast(ToastError, err.Error())
			return m, nil
		}
		m.addToast(ToastSuccess, "Schedule committed")
	}
	return m, nil
}

// pushValidateOverlay opens the repair menu for a failed validation
func (m Model) pushValidateOverlay(result domain.ValidationResult) tea.Cmd {
	return m.overlayStack.Push(overlay.NewValidateOverlay(result, m.session.MissingDays(), m.session.NeededDailyCap()))
}

// refresh re-snapshots store state and keeps the cursor in bounds
func (m *Model) refresh() {
	m.tasks = m.store.Tasks()
	m.cfg = m.store.Config()
	if len(m.tasks) > 0 {
		m.cursor = m.cursor.Clamp(len(m.tasks), m.cfg.TotalDays)
	} else {
		m.cursor = grid.Cursor{}
	}
}

// selectedTask returns the task under the cursor, or nil
func (m *Model) selectedTask() *domain.Task {
	if m.cursor.Row < 0 || m.cursor.Row >= len(m.tasks) {
		return nil
	}
	return &m.tasks[m.cursor.Row]
}

// selectedDay returns the window day under the cursor
func (m *Model) selectedDay() domain.PlanDay {
	days := domain.DateRange(m.cfg)
	if m.cursor.Col >= 0 && m.cursor.Col < len(days) {
		return days[m.cursor.Col]
	}
	return domain.PlanDay{}
}

// addToast appends a toast with the default lifetime for its level
func (m *Model) addToast(level ToastLevel, message string) {
	lifetime := 3 * time.Second
	if level == ToastError {
		lifetime = 8 * time.Second
	}
	m.toasts = append(m.toasts, Toast{
		Level:   level,
		Message: message,
		Expires: time.Now().Add(lifetime),
	})
}

// expireToasts drops toasts past their expiry
func (m *Model) expireToasts() {
	now := time.Now()
	kept := m.toasts[:0]
	for _, t := range m.toasts {
		if t.Expires.After(now) {
			kept = append(kept, t)
		}
	}
	m.toasts = kept
}

// tickEvery schedules a tick after the given duration
func tickEvery(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
