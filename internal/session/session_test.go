package session

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hourglassdev/hourglass/internal/capacity"
	"github.com/hourglassdev/hourglass/internal/domain"
	"github.com/hourglassdev/hourglass/internal/store"
)

// memStore is an in-memory PersistentStore for tests
type memStore struct {
	data map[string]string
}

func (m *memStore) Get(key string) (string, bool) {
	v, ok := m.data[key]
	return v, ok
}

func (m *memStore) Set(key, value string) error {
	m.data[key] = value
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestStore() *store.TaskStore {
	return store.New(&memStore{data: make(map[string]string)}, testLogger())
}

// plannedSession runs intake -> configuring -> planning with the given rows.
func plannedSession(t *testing.T, totalDays, hoursPerDay int, rows ...IntakeRow) (*Session, *store.TaskStore) {
	t.Helper()
	ts := newTestStore()
	s := New(ts, testLogger())
	for i, r := range rows {
		if i >= len(s.Rows()) {
			s.AddRows(1)
		}
		s.SetRow(i, r)
	}
	require.NoError(t, s.Finalize())
	require.NoError(t, s.ConfirmConfig(totalDays, hoursPerDay))
	return s, ts
}

func taskID(t *testing.T, ts *store.TaskStore, name string) string {
	t.Helper()
	for _, task := range ts.Tasks() {
		if task.Name == name {
			return task.ID
		}
	}
	t.Fatalf("no task named %q", name)
	return ""
}

func TestNewSessionStates(t *testing.T) {
	t.Run("empty store starts at intake with three rows", func(t *testing.T) {
		s := New(newTestStore(), testLogger())

		assert.Equal(t, StateIntake, s.State())
		require.Len(t, s.Rows(), 3)
		assert.Equal(t, domain.PriorityMedium, s.Rows()[0].Priority)
	})

	t.Run("populated store opens in planning", func(t *testing.T) {
		ts := newTestStore()
		name := "existing"
		hours := 4
		ts.UpsertTask(store.TaskPatch{Name: &name, HoursNeeded: &hours})

		s := New(ts, testLogger())

		assert.Equal(t, StatePlanning, s.State())
	})
}

func TestFinalizeRequiresFilledRow(t *testing.T) {
	s := New(newTestStore(), testLogger())

	assert.ErrorIs(t, s.Finalize(), ErrNoTasksEntered)

	s.SetRow(0, IntakeRow{Name: "only name"}) // hours missing
	assert.ErrorIs(t, s.Finalize(), ErrNoTasksEntered)

	s.SetRow(0, IntakeRow{Name: "study", HoursNeeded: 5})
	require.NoError(t, s.Finalize())
	assert.Equal(t, StateConfiguring, s.State())

	assert.ErrorIs(t, s.Finalize(), ErrWrongState)
}

func TestConfirmConfigCreatesTasks(t *testing.T) {
	s, ts := plannedSession(t, 5, 6,
		IntakeRow{Name: "alpha", HoursNeeded: 10, Priority: domain.PriorityHigh},
		IntakeRow{Name: "", HoursNeeded: 3}, // unfilled, skipped
		IntakeRow{Name: "beta", HoursNeeded: 4},
	)

	assert.Equal(t, StatePlanning, s.State())
	tasks := ts.Tasks()
	require.Len(t, tasks, 2)
	assert.Equal(t, "alpha", tasks[0].Name)
	assert.Equal(t, domain.PriorityHigh, tasks[0].Priority)
	assert.Empty(t, tasks[0].Schedule)
	assert.Equal(t, domain.PriorityMedium, tasks[1].Priority)

	cfg := ts.Config()
	assert.Equal(t, 5, cfg.TotalDays)
	assert.Equal(t, 6, cfg.HoursPerDay)
}

func TestEditCellWithinCapacity(t *testing.T) {
	s, ts := plannedSession(t, 7, 8, IntakeRow{Name: "alpha", HoursNeeded: 10})
	id := taskID(t, ts, "alpha")

	decision, err := s.EditCell(id, 0, 5)

	require.NoError(t, err)
	assert.Nil(t, decision, "no overflow, no decision")
	date := domain.DateRange(ts.Config())[0].Date
	assert.Equal(t, 5, ts.Tasks()[0].Schedule[date])
}

func TestEditCellOverflow(t *testing.T) {
	s, ts := plannedSession(t, 7, 8, IntakeRow{Name: "alpha", HoursNeeded: 10})
	id := taskID(t, ts, "alpha")
	days := domain.DateRange(ts.Config())

	_, err := s.EditCell(id, 0, 8)
	require.NoError(t, err)

	decision, err := s.EditCell(id, 0, 13)
	require.NoError(t, err)
	require.NotNil(t, decision)
	assert.Equal(t, 13, decision.Attempted)
	assert.Equal(t, 8, decision.SetTo)
	assert.Equal(t, 8, decision.Available)
	assert.Equal(t, 5, decision.Overflow)
	require.Len(t, decision.Plan, 1)
	assert.Equal(t, days[1].Date, decision.Plan[0].Date)
	assert.Equal(t, 5, decision.Plan[0].Assign)
	assert.Same(t, decision, s.Pending())
}

func TestResolveAutoDistribute(t *testing.T) {
	s, ts := plannedSession(t, 7, 8, IntakeRow{Name: "alpha", HoursNeeded: 10})
	id := taskID(t, ts, "alpha")
	days := domain.DateRange(ts.Config())

	_, err := s.EditCell(id, 0, 13)
	require.NoError(t, err)
	require.NotNil(t, s.Pending())

	require.NoError(t, s.ResolveAutoDistribute())

	assert.Nil(t, s.Pending())
	schedule := ts.Tasks()[0].Schedule
	assert.Equal(t, 8, schedule[days[0].Date])
	assert.Equal(t, 5, schedule[days[1].Date])
	assert.True(t, s.Validate().Valid)
}

func TestResolveAddDays(t *testing.T) {
	// A 1-day window: nothing later to plan into, so the whole overflow is
	// unaddressed and the window must grow by ceil(4/8) = 1 day.
	s, ts := plannedSession(t, 1, 8, IntakeRow{Name: "alpha", HoursNeeded: 12})
	id := taskID(t, ts, "alpha")

	decision, err := s.EditCell(id, 0, 12)
	require.NoError(t, err)
	require.NotNil(t, decision)
	assert.Empty(t, decision.Plan)

	require.NoError(t, s.ResolveAddDays())

	assert.Equal(t, 2, ts.Config().TotalDays)
	assert.Nil(t, s.Pending())
}

func TestResolveRaiseDailyCap(t *testing.T) {
	s, ts := plannedSession(t, 7, 8, IntakeRow{Name: "alpha", HoursNeeded: 12})
	id := taskID(t, ts, "alpha")

	_, err := s.EditCell(id, 0, 12)
	require.NoError(t, err)
	require.NotNil(t, s.Pending())

	require.NoError(t, s.ResolveRaiseDailyCap())

	// Raised to available + overflow: exactly enough to admit the request.
	assert.Equal(t, 12, ts.Config().HoursPerDay)
	assert.Nil(t, s.Pending())
}

func TestResolveDropOverflow(t *testing.T) {
	s, ts := plannedSession(t, 7, 8, IntakeRow{Name: "alpha", HoursNeeded: 12})
	id := taskID(t, ts, "alpha")
	date := domain.DateRange(ts.Config())[0].Date

	_, err := s.EditCell(id, 0, 12)
	require.NoError(t, err)

	require.NoError(t, s.ResolveDropOverflow())

	assert.Nil(t, s.Pending())
	assert.Equal(t, 8, ts.Tasks()[0].Schedule[date], "clamped value stands")

	assert.ErrorIs(t, s.ResolveDropOverflow(), ErrNoPendingOverflow)
}

func TestCapacityInvariantAcrossEdits(t *testing.T) {
	s, ts := plannedSession(t, 7, 8,
		IntakeRow{Name: "alpha", HoursNeeded: 20},
		IntakeRow{Name: "beta", HoursNeeded: 15},
	)
	a := taskID(t, ts, "alpha")
	b := taskID(t, ts, "beta")

	edits := []struct {
		id        string
		day       int
		requested int
	}{
		{a, 0, 6}, {b, 0, 6}, {a, 1, 8}, {b, 1, 3}, {a, 0, 10}, {b, 2, 20},
	}
	for _, e := range edits {
		_, err := s.EditCell(e.id, e.day, e.requested)
		require.NoError(t, err)
		if s.Pending() != nil {
			require.NoError(t, s.ResolveDropOverflow())
		}
	}

	cfg := ts.Config()
	for date, total := range capacity.DailyTotals(ts.Tasks()) {
		assert.LessOrEqualf(t, total, cfg.HoursPerDay, "day %s over capacity", date)
	}
}

func TestValidateAndRepairOverCapacity(t *testing.T) {
	s, ts := plannedSession(t, 7, 8,
		IntakeRow{Name: "low", HoursNeeded: 6, Priority: domain.PriorityLow},
		IntakeRow{Name: "high", HoursNeeded: 10, Priority: domain.PriorityHigh},
	)
	low := taskID(t, ts, "low")
	high := taskID(t, ts, "high")
	days := domain.DateRange(ts.Config())

	// Force an over-capacity day behind the session's back, the way an
	// external writer could.
	require.NoError(t, ts.SetScheduleHours(low, days[0].Date, 6))
	require.NoError(t, ts.SetScheduleHours(high, days[0].Date, 6))

	result := s.Validate()
	require.False(t, result.Valid)
	assert.Equal(t, domain.ValidationOverCapacity, result.Kind)
	assert.Equal(t, StateValidating, s.State())

	result, leftover, err := s.RepairRedistributeDay()
	require.NoError(t, err)
	assert.Zero(t, leftover)
	assert.False(t, result.Valid, "still under-scheduled")
	assert.Equal(t, domain.ValidationUnderScheduled, result.Kind)

	result, err = s.RepairAutoDistributeMissing()
	require.NoError(t, err)
	assert.True(t, result.Valid)
	assert.Equal(t, StatePlanning, s.State())

	require.NoError(t, s.Commit())
	assert.Equal(t, StateCommitted, s.State())
}

func TestValidateAndRepairUnderScheduled(t *testing.T) {
	s, ts := plannedSession(t, 2, 8, IntakeRow{Name: "alpha", HoursNeeded: 20})

	result := s.Validate()
	require.False(t, result.Valid)
	require.Equal(t, domain.ValidationUnderScheduled, result.Kind)
	assert.Equal(t, 20, result.Missing)

	// 20h missing at 8h/day needs 3 extra days.
	assert.Equal(t, 3, s.MissingDays())
	result, err := s.RepairAddMissingDays()
	require.NoError(t, err)
	assert.Equal(t, 5, ts.Config().TotalDays)
	assert.False(t, result.Valid, "days added but hours still unplaced")

	result, err = s.RepairAutoDistributeMissing()
	require.NoError(t, err)
	assert.True(t, result.Valid)
}

func TestRepairSetDailyCapToFit(t *testing.T) {
	s, ts := plannedSession(t, 4, 2, IntakeRow{Name: "alpha", HoursNeeded: 10})

	result := s.Validate()
	require.Equal(t, domain.ValidationUnderScheduled, result.Kind)

	// ceil(10 needed / 4 days) = 3 hours per day.
	assert.Equal(t, 3, s.NeededDailyCap())
	_, err := s.RepairSetDailyCapToFit()
	require.NoError(t, err)
	assert.Equal(t, 3, ts.Config().HoursPerDay)
}

func TestRepairTrimDay(t *testing.T) {
	s, ts := plannedSession(t, 7, 8,
		IntakeRow{Name: "low", HoursNeeded: 6, Priority: domain.PriorityLow},
		IntakeRow{Name: "high", HoursNeeded: 6, Priority: domain.PriorityHigh},
	)
	low := taskID(t, ts, "low")
	high := taskID(t, ts, "high")
	days := domain.DateRange(ts.Config())
	require.NoError(t, ts.SetScheduleHours(low, days[0].Date, 5))
	require.NoError(t, ts.SetScheduleHours(high, days[0].Date, 6))

	result := s.Validate()
	require.Equal(t, domain.ValidationOverCapacity, result.Kind)

	_, err := s.RepairTrimDay()
	require.NoError(t, err)

	tasks := ts.Tasks()
	assert.Equal(t, 2, tasks[0].Schedule[days[0].Date], "low trimmed first")
	assert.Equal(t, 6, tasks[1].Schedule[days[0].Date], "high untouched")
}

func TestRepairsRejectWrongState(t *testing.T) {
	s, _ := plannedSession(t, 7, 8, IntakeRow{Name: "alpha", HoursNeeded: 4})

	_, err := s.RepairTrimDay()
	assert.ErrorIs(t, err, ErrWrongState)
	_, _, err = s.RepairRedistributeDay()
	assert.ErrorIs(t, err, ErrWrongState)
	_, err = s.RepairAutoDistributeMissing()
	assert.ErrorIs(t, err, ErrWrongState)
}

func TestCommitRequiresValidation(t *testing.T) {
	s, _ := plannedSession(t, 7, 8, IntakeRow{Name: "alpha", HoursNeeded: 4})

	assert.ErrorIs(t, s.Commit(), ErrNotValidated)
}

func TestCommittedIsReenterable(t *testing.T) {
	s, ts := plannedSession(t, 7, 8, IntakeRow{Name: "alpha", HoursNeeded: 4})
	id := taskID(t, ts, "alpha")

	_, err := s.EditCell(id, 0, 4)
	require.NoError(t, err)
	require.True(t, s.Validate().Valid)
	require.NoError(t, s.Commit())
	require.Equal(t, StateCommitted, s.State())

	_, err = s.EditCell(id, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, StatePlanning, s.State())
}

func TestEditCellErrors(t *testing.T) {
	s, ts := plannedSession(t, 3, 8, IntakeRow{Name: "alpha", HoursNeeded: 4})
	id := taskID(t, ts, "alpha")

	_, err := s.EditCell("unknown", 0, 2)
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)

	_, err = s.EditCell(id, 3, 2)
	assert.Error(t, err, "day index outside window")

	_, err = s.EditCell(id, -1, 2)
	assert.Error(t, err)
}

func TestSessionStateRejectsOutOfOrderCalls(t *testing.T) {
	s := New(newTestStore(), testLogger())

	require.ErrorIs(t, s.ConfirmConfig(7, 8), ErrWrongState)

	_, err := s.EditCell("any", 0, 1)
	assert.ErrorIs(t, err, ErrWrongState)
}

func TestValidationFailureIsNotAnError(t *testing.T) {
	s, _ := plannedSession(t, 7, 8, IntakeRow{Name: "alpha", HoursNeeded: 4})

	result := s.Validate()

	assert.False(t, result.Valid)
	assert.NotEmpty(t, result.Message())
}
