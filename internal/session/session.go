// Package session implements the interactive planning workflow as an
// explicit state machine: Intake -> Configuring -> Planning -> Validating ->
// Committed. It coordinates the task store and the capacity engine and
// resolves every ambiguity (which repair to apply, what to do with overflow)
// through an explicit caller decision, never a silent heuristic.
package session

import (
	"errors"
	"log/slog"
	"time"

	"github.com/hourglassdev/hourglass/internal/capacity"
	"github.com/hourglassdev/hourglass/internal/domain"
	"github.com/hourglassdev/hourglass/internal/store"
)

// State identifies where the planning workflow currently is.
type State string

const (
	StateIntake      State = "intake"
	StateConfiguring State = "configuring"
	StatePlanning    State = "planning"
	StateValidating  State = "validating"
	StateCommitted   State = "committed"
)

// Sentinel errors
var (
	ErrNoTasksEntered    = errors.New("at least one task with a name and hours is required")
	ErrWrongState        = errors.New("not allowed in this state")
	ErrNoPendingOverflow = errors.New("no pending overflow decision")
	ErrNotValidated      = errors.New("schedule has not passed validation")
)

// IntakeRow is one task row collected during intake.
type IntakeRow struct {
	Name        string
	HoursNeeded int
	Priority    domain.Priority
}

// filled reports whether the row describes a schedulable task.
func (r IntakeRow) filled() bool {
	return r.Name != "" && r.HoursNeeded > 0
}

// OverflowDecision is surfaced when a cell edit could not be fully admitted.
// The clamped value is already committed; the overflow waits for one of the
// four resolutions and is never discarded without consent.
type OverflowDecision struct {
	TaskID    string
	TaskName  string
	Attempted int
	SetTo     int
	Available int
	Overflow  int
	Day       domain.PlanDay
	Plan      []domain.PlanEntry
}

// Session drives the planning workflow over a TaskStore.
type Session struct {
	store  *store.TaskStore
	logger *slog.Logger

	state   State
	rows    []IntakeRow
	pending *OverflowDecision
	lastVal *domain.ValidationResult
}

// New creates a session. When the store already holds tasks the session
// opens directly in Planning; otherwise it starts at intake with three
// blank rows.
func New(ts *store.TaskStore, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Session{store: ts, logger: logger, state: StateIntake}
	if len(ts.Tasks()) > 0 {
		s.state = StatePlanning
	} else {
		s.rows = make([]IntakeRow, 3)
		for i := range s.rows {
			s.rows[i].Priority = domain.PriorityMedium
		}
	}
	return s
}

// State returns the current workflow state.
func (s *Session) State() State { return s.state }

// Rows returns the intake rows.
func (s *Session) Rows() []IntakeRow { return s.rows }

// Pending returns the unresolved overflow decision, if any.
func (s *Session) Pending() *OverflowDecision { return s.pending }

// LastValidation returns the most recent validation result, if any.
func (s *Session) LastValidation() *domain.ValidationResult { return s.lastVal }

// AddRows appends n blank intake rows.
func (s *Session) AddRows(n int) {
	for i := 0; i < n; i++ {
		s.rows = append(s.rows, IntakeRow{Priority: domain.PriorityMedium})
	}
}

// SetRow replaces an intake row.
func (s *Session) SetRow(i int, row IntakeRow) {
	if i >= 0 && i < len(s.rows) {
		if row.Priority == "" {
			row.Priority = domain.PriorityMedium
		}
		s.rows[i] = row
	}
}

// Finalize leaves intake once at least one row is filled.
func (s *Session) Finalize() error {
	if s.state != StateIntake {
		return ErrWrongState
	}
	for _, r := range s.rows {
		if r.filled() {
			s.state = StateConfiguring
			return nil
		}
	}
	return ErrNoTasksEntered
}

// ConfirmConfig sets the planning window, turns every filled intake row into
// a stored task with an empty schedule, and enters Planning. Out-of-range
// values are clamped by the store.
func (s *Session) ConfirmConfig(totalDays, hoursPerDay int) error {
	if s.state != StateConfiguring {
		return ErrWrongState
	}
	start := time.Now().Format(domain.DateFormat)
	s.store.UpdateConfig(store.ConfigPatch{
		TotalDays:   &totalDays,
		HoursPerDay: &hoursPerDay,
		StartDate:   &start,
	})
	for _, r := range s.rows {
		if !r.filled() {
			continue
		}
		row := r
		s.store.UpsertTask(store.TaskPatch{
			Name:        &row.Name,
			HoursNeeded: &row.HoursNeeded,
			Priority:    &row.Priority,
		})
	}
	s.rows = nil
	s.state = StatePlanning
	s.logger.Info("intake finalized", "totalDays", totalDays, "hoursPerDay", hoursPerDay)
	return nil
}

// EditCell requests setting a task's hours for a window day. The admitted
// value is committed immediately; if the request exceeded free capacity the
// returned decision carries the overflow and a distribution plan for it.
// Editing after commit drops the session back to Planning.
func (s *Session) EditCell(taskID string, dayIndex, requested int) (*OverflowDecision, error) {
	if s.state != StatePlanning && s.state != StateValidating && s.state != StateCommitted {
		return nil, ErrWrongState
	}
	days := domain.DateRange(s.store.Config())
	if dayIndex < 0 || dayIndex >= len(days) {
		return nil, errors.New("day index outside planning window")
	}
	day := days[dayIndex]

	tasks := s.store.Tasks()
	cfg := s.store.Config()
	edit, err := capacity.ClampEdit(tasks, cfg, taskID, day.Date, requested)
	if err != nil {
		return nil, err
	}
	if err := s.store.SetScheduleHours(taskID, day.Date, edit.Clamped); err != nil {
		return nil, err
	}
	s.state = StatePlanning
	s.lastVal = nil

	if edit.Overflow == 0 {
		s.pending = nil
		return nil, nil
	}

	if requested < 0 {
		requested = 0
	}
	var name string
	for _, t := range tasks {
		if t.ID == taskID {
			name = t.Name
			break
		}
	}
	plan := capacity.BuildDistributionPlan(s.store.Tasks(), cfg, day.Index, edit.Overflow)
	s.pending = &OverflowDecision{
		TaskID:    taskID,
		TaskName:  name,
		Attempted: requested,
		SetTo:     edit.Clamped,
		// Overflow implies the clamp hit the capacity bound, so the admitted
		// value is exactly what was available.
		Available: edit.Clamped,
		Overflow:  edit.Overflow,
		Day:       day,
		Plan:      plan,
	}
	s.logger.Info("edit overflowed", "task", taskID, "date", day.Date, "overflow", edit.Overflow, "planDays", len(plan))
	return s.pending, nil
}

// ResolveAutoDistribute commits the pending plan, adding each entry's hours
// on top of any existing allocation for that date.
func (s *Session) ResolveAutoDistribute() error {
	d := s.pending
	if d == nil {
		return ErrNoPendingOverflow
	}
	current := map[string]int{}
	for _, t := range s.store.Tasks() {
		if t.ID == d.TaskID {
			current = t.Schedule
			break
		}
	}
	for _, p := range d.Plan {
		if err := s.store.SetScheduleHours(d.TaskID, p.Date, current[p.Date]+p.Assign); err != nil {
			return err
		}
	}
	s.logger.Info("overflow auto-distributed", "task", d.TaskID, "hours", domain.PlanTotal(d.Plan))
	s.pending = nil
	return nil
}

// ResolveAddDays grows the window by enough days to hold the overflow the
// plan could not place, at least one.
func (s *Session) ResolveAddDays() error {
	d := s.pending
	if d == nil {
		return ErrNoPendingOverflow
	}
	cfg := s.store.Config()
	remaining := d.Overflow - domain.PlanTotal(d.Plan)
	needDays := 1
	if remaining > 0 {
		needDays = (remaining + cfg.HoursPerDay - 1) / cfg.HoursPerDay
	}
	total := cfg.TotalDays + needDays
	s.store.UpdateConfig(store.ConfigPatch{TotalDays: &total})
	s.logger.Info("window extended for overflow", "addedDays", needDays)
	s.pending = nil
	return nil
}

// ResolveRaiseDailyCap raises hoursPerDay to what would have admitted the
// original request, capped at 24 by the store.
func (s *Session) ResolveRaiseDailyCap() error {
	d := s.pending
	if d == nil {
		return ErrNoPendingOverflow
	}
	desired := d.Available + d.Overflow
	if cur := s.store.Config().HoursPerDay; desired < cur {
		desired = cur
	}
	s.store.UpdateConfig(store.ConfigPatch{HoursPerDay: &desired})
	s.logger.Info("daily cap raised for overflow", "hoursPerDay", desired)
	s.pending = nil
	return nil
}

// ResolveDropOverflow keeps the clamped value and discards the overflow. The
// task stays under-scheduled unless revisited.
func (s *Session) ResolveDropOverflow() error {
	if s.pending == nil {
		return ErrNoPendingOverflow
	}
	s.logger.Info("overflow dropped", "task", s.pending.TaskID, "hours", s.pending.Overflow)
	s.pending = nil
	return nil
}

// Validate runs full-schedule validation and moves the session to
// Validating while failures remain.
func (s *Session) Validate() domain.ValidationResult {
	result := capacity.Validate(s.store.Tasks(), s.store.Config())
	s.lastVal = &result
	if !result.Valid {
		s.state = StateValidating
		s.logger.Info("validation failed", "kind", string(result.Kind))
	}
	return result
}

// Commit finalizes the schedule. Validation must have passed; committed is a
// milestone, not a freeze, and later edits reopen Planning.
func (s *Session) Commit() error {
	if s.lastVal == nil || !s.lastVal.Valid {
		return ErrNotValidated
	}
	s.state = StateCommitted
	s.logger.Info("schedule committed")
	return nil
}
