package session

import (
	"github.com/hourglassdev/hourglass/internal/capacity"
	"github.com/hourglassdev/hourglass/internal/domain"
	"github.com/hourglassdev/hourglass/internal/store"
)

// Repair actions for a failed validation. Each applies one capacity-engine
// strategy or config change, then re-validates, so callers can loop until
// the schedule is valid.

func (s *Session) overCapacityFailure() *domain.ValidationResult {
	if s.state != StateValidating || s.lastVal == nil || s.lastVal.Kind != domain.ValidationOverCapacity {
		return nil
	}
	return s.lastVal
}

func (s *Session) underScheduledFailure() *domain.ValidationResult {
	if s.state != StateValidating || s.lastVal == nil || s.lastVal.Kind != domain.ValidationUnderScheduled {
		return nil
	}
	return s.lastVal
}

// RepairTrimDay trims the offending day down to the daily cap, lowest
// priority tasks first.
func (s *Session) RepairTrimDay() (domain.ValidationResult, error) {
	v := s.overCapacityFailure()
	if v == nil {
		return domain.ValidationResult{}, ErrWrongState
	}
	trimmed := capacity.TrimDayToLimit(s.store.Tasks(), s.store.Config(), v.Date)
	s.store.ReplaceTasks(trimmed)
	s.logger.Info("over-capacity day trimmed", "date", v.Date)
	return s.revalidate(), nil
}

// RepairRedistributeDay moves the offending day's excess into later free
// slots. The leftover that found no slot is returned; it stays on the day
// and keeps the validation failing until another repair handles it.
func (s *Session) RepairRedistributeDay() (domain.ValidationResult, int, error) {
	v := s.overCapacityFailure()
	if v == nil {
		return domain.ValidationResult{}, 0, ErrWrongState
	}
	moved, leftover := capacity.RedistributeDay(s.store.Tasks(), s.store.Config(), v.Date)
	s.store.ReplaceTasks(moved)
	s.logger.Info("over-capacity day redistributed", "date", v.Date, "leftover", leftover)
	return s.revalidate(), leftover, nil
}

// RepairRaiseCapToDayTotal raises hoursPerDay to the offending day's total.
func (s *Session) RepairRaiseCapToDayTotal() (domain.ValidationResult, error) {
	v := s.overCapacityFailure()
	if v == nil {
		return domain.ValidationResult{}, ErrWrongState
	}
	s.store.UpdateConfig(store.ConfigPatch{HoursPerDay: &v.TotalHours})
	return s.revalidate(), nil
}

// RepairAddDay grows the window by one day.
func (s *Session) RepairAddDay() (domain.ValidationResult, error) {
	if s.overCapacityFailure() == nil {
		return domain.ValidationResult{}, ErrWrongState
	}
	total := s.store.Config().TotalDays + 1
	s.store.UpdateConfig(store.ConfigPatch{TotalDays: &total})
	return s.revalidate(), nil
}

// MissingDays returns how many days an under-scheduled failure needs at the
// current daily cap.
func (s *Session) MissingDays() int {
	v := s.underScheduledFailure()
	if v == nil {
		return 0
	}
	perDay := s.store.Config().HoursPerDay
	return (v.Missing + perDay - 1) / perDay
}

// NeededDailyCap returns the hoursPerDay that would fit the total needed
// hours into the current window.
func (s *Session) NeededDailyCap() int {
	v := s.underScheduledFailure()
	if v == nil {
		return 0
	}
	days := s.store.Config().TotalDays
	return (v.TotalNeeded + days - 1) / days
}

// RepairAddMissingDays grows the window by enough days to hold the missing
// hours at the current daily cap.
func (s *Session) RepairAddMissingDays() (domain.ValidationResult, error) {
	v := s.underScheduledFailure()
	if v == nil {
		return domain.ValidationResult{}, ErrWrongState
	}
	total := s.store.Config().TotalDays + s.MissingDays()
	s.store.UpdateConfig(store.ConfigPatch{TotalDays: &total})
	s.logger.Info("window extended for missing hours", "totalDays", total, "missing", v.Missing)
	return s.revalidate(), nil
}

// RepairSetDailyCapToFit sets hoursPerDay to the value that fits the total
// needed hours into the current window.
func (s *Session) RepairSetDailyCapToFit() (domain.ValidationResult, error) {
	if s.underScheduledFailure() == nil {
		return domain.ValidationResult{}, ErrWrongState
	}
	needed := s.NeededDailyCap()
	s.store.UpdateConfig(store.ConfigPatch{HoursPerDay: &needed})
	return s.revalidate(), nil
}

// RepairAutoDistributeMissing fills each task's remaining hours into free
// window capacity. Tasks may stay under-scheduled when the window is full;
// the returned result reports that.
func (s *Session) RepairAutoDistributeMissing() (domain.ValidationResult, error) {
	if s.underScheduledFailure() == nil {
		return domain.ValidationResult{}, ErrWrongState
	}
	filled := capacity.AutoDistributeMissing(s.store.Tasks(), s.store.Config())
	s.store.ReplaceTasks(filled)
	s.logger.Info("missing hours auto-distributed")
	return s.revalidate(), nil
}

func (s *Session) revalidate() domain.ValidationResult {
	result := capacity.Validate(s.store.Tasks(), s.store.Config())
	s.lastVal = &result
	if result.Valid {
		s.state = StatePlanning
	}
	return result
}
