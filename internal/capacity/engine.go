// Package capacity implements the pure scheduling math: daily totals,
// capacity-clamped edits, overflow distribution planning, full-schedule
// validation, and the repair strategies offered when validation fails.
//
// Every function reads (tasks, config) and returns derived values or new
// task slices. Nothing here mutates its inputs.
package capacity

import (
	"sort"

	"github.com/hourglassdev/hourglass/internal/domain"
)

// DailyTotals sums scheduled hours per date across all tasks.
func DailyTotals(tasks []domain.Task) map[string]int {
	totals := make(map[string]int)
	for _, t := range tasks {
		for date, hours := range t.Schedule {
			totals[date] += hours
		}
	}
	return totals
}

// FreeCapacity returns the hours still available on a date under the daily
// cap. Never negative, even if the day is over capacity.
func FreeCapacity(tasks []domain.Task, cfg domain.SchedulerConfig, date string) int {
	free := cfg.HoursPerDay - DailyTotals(tasks)[date]
	if free < 0 {
		return 0
	}
	return free
}

// Edit is the admission-control result for a single cell edit.
type Edit struct {
	// Clamped is the value actually admitted for the cell.
	Clamped int
	// Overflow is the requested excess the caller must resolve explicitly.
	Overflow int
}

// ClampEdit computes the admitted hours for setting taskID's allocation on
// date to requested. Capacity is evaluated excluding the task's own current
// contribution, so re-entering the same value is always admitted. A single
// edit can never push a day over capacity; any excess becomes Overflow.
func ClampEdit(tasks []domain.Task, cfg domain.SchedulerConfig, taskID, date string, requested int) (Edit, error) {
	if requested < 0 {
		requested = 0
	}

	var current int
	found := false
	for _, t := range tasks {
		if t.ID == taskID {
			current = t.Schedule[date]
			found = true
			break
		}
	}
	if !found {
		return Edit{}, domain.ErrTaskNotFound
	}

	otherTotal := DailyTotals(tasks)[date] - current
	if otherTotal < 0 {
		otherTotal = 0
	}
	available := cfg.HoursPerDay - otherTotal
	if available < 0 {
		available = 0
	}

	clamped := requested
	if clamped > available {
		clamped = available
	}
	return Edit{Clamped: clamped, Overflow: requested - clamped}, nil
}

// BuildDistributionPlan walks the window strictly after startIndexExclusive
// and greedily fills free capacity with the overflow hours. The plan is
// advisory; it may not absorb everything if later days are full.
func BuildDistributionPlan(tasks []domain.Task, cfg domain.SchedulerConfig, startIndexExclusive, overflow int) []domain.PlanEntry {
	totals := DailyTotals(tasks)
	var plan []domain.PlanEntry
	remaining := overflow
	for _, day := range domain.DateRange(cfg) {
		if remaining <= 0 {
			break
		}
		if day.Index <= startIndexExclusive {
			continue
		}
		free := cfg.HoursPerDay - totals[day.Date]
		if free <= 0 {
			continue
		}
		assign := free
		if assign > remaining {
			assign = remaining
		}
		plan = append(plan, domain.PlanEntry{
			Index:   day.Index,
			Date:    day.Date,
			Display: day.Display,
			Assign:  assign,
		})
		remaining -= assign
	}
	return plan
}

// Validate checks the whole schedule. Over-capacity days are reported first,
// earliest date winning, so repeated validation is deterministic. Only then
// is the total scheduled volume checked against the total needed.
func Validate(tasks []domain.Task, cfg domain.SchedulerConfig) domain.ValidationResult {
	totals := DailyTotals(tasks)

	dates := make([]string, 0, len(totals))
	for date := range totals {
		dates = append(dates, date)
	}
	sort.Strings(dates) // ISO dates sort chronologically

	for _, date := range dates {
		if totals[date] > cfg.HoursPerDay {
			return domain.ValidationResult{
				Kind:       domain.ValidationOverCapacity,
				Date:       date,
				TotalHours: totals[date],
				MaxHours:   cfg.HoursPerDay,
			}
		}
	}

	totalNeeded := 0
	for _, t := range tasks {
		totalNeeded += t.HoursNeeded
	}
	totalScheduled := 0
	for _, hours := range totals {
		totalScheduled += hours
	}
	if totalScheduled < totalNeeded {
		return domain.ValidationResult{
			Kind:           domain.ValidationUnderScheduled,
			TotalNeeded:    totalNeeded,
			TotalScheduled: totalScheduled,
			Missing:        totalNeeded - totalScheduled,
		}
	}

	return domain.ValidationResult{Valid: true}
}
