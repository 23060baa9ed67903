package capacity

import (
	"sort"

	"github.com/hourglassdev/hourglass/internal/domain"
)

// byRepairOrder returns the indexes of tasks scheduled on date, ordered by
// ascending priority weight. The sort is stable: equal priorities keep the
// original task order, so repairs are deterministic.
func byRepairOrder(tasks []domain.Task, date string) []int {
	var idx []int
	for i, t := range tasks {
		if t.Schedule[date] > 0 {
			idx = append(idx, i)
		}
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return tasks[idx[a]].Priority.Weight() < tasks[idx[b]].Priority.Weight()
	})
	return idx
}

// setHours applies the delete-on-zero rule for a schedule key.
func setHours(t *domain.Task, date string, hours int) {
	if hours > 0 {
		t.Schedule[date] = hours
	} else {
		delete(t.Schedule, date)
	}
}

// TrimDayToLimit returns a copy of tasks with the given day's total reduced
// to the daily cap by removing hours from the lowest-priority tasks first.
func TrimDayToLimit(tasks []domain.Task, cfg domain.SchedulerConfig, date string) []domain.Task {
	out := domain.CloneTasks(tasks)
	over := DailyTotals(out)[date] - cfg.HoursPerDay
	if over <= 0 {
		return out
	}

	for _, i := range byRepairOrder(out, date) {
		if over <= 0 {
			break
		}
		current := out[i].Schedule[date]
		cut := current
		if cut > over {
			cut = over
		}
		setHours(&out[i], date, current-cut)
		over -= cut
	}
	return out
}

// RedistributeDay returns a copy of tasks with the given day's excess moved
// into later days' free capacity, lowest-priority tasks first. Hours are
// never moved to earlier days. The leftover excess that found no free slot
// is returned so the caller can report it rather than drop it.
func RedistributeDay(tasks []domain.Task, cfg domain.SchedulerConfig, date string) ([]domain.Task, int) {
	out := domain.CloneTasks(tasks)
	totals := DailyTotals(out)
	excess := totals[date] - cfg.HoursPerDay
	if excess <= 0 {
		return out, 0
	}

	days := domain.DateRange(cfg)
	dayIndex := -1
	for _, d := range days {
		if d.Date == date {
			dayIndex = d.Index
			break
		}
	}

	for _, i := range byRepairOrder(out, date) {
		if excess <= 0 {
			break
		}
		scheduledToday := out[i].Schedule[date]
		for j := dayIndex + 1; j < len(days) && excess > 0 && scheduledToday > 0; j++ {
			target := days[j].Date
			free := cfg.HoursPerDay - totals[target]
			if free <= 0 {
				continue
			}
			move := free
			if move > scheduledToday {
				move = scheduledToday
			}
			if move > excess {
				move = excess
			}
			setHours(&out[i], date, scheduledToday-move)
			scheduledToday -= move
			setHours(&out[i], target, out[i].Schedule[target]+move)
			totals[target] += move
			excess -= move
		}
	}
	return out, excess
}

// AutoDistributeMissing returns a copy of tasks with each task's remaining
// hours assigned into the window's free capacity, filling the earliest free
// day first. The loop runs to a fixed point: every pass either assigns at
// least one hour or stops, so termination follows from the decreasing
// unassigned total. Tasks may remain under-scheduled if the window is full.
func AutoDistributeMissing(tasks []domain.Task, cfg domain.SchedulerConfig) []domain.Task {
	out := domain.CloneTasks(tasks)
	days := domain.DateRange(cfg)
	totals := DailyTotals(out)

	remaining := make([]int, len(out))
	for i, t := range out {
		remaining[i] = t.RemainingHours()
	}

	for {
		any := false
		for i := range out {
			if remaining[i] <= 0 {
				continue
			}
			for _, day := range days {
				free := cfg.HoursPerDay - totals[day.Date]
				if free <= 0 {
					continue
				}
				assign := free
				if assign > remaining[i] {
					assign = remaining[i]
				}
				setHours(&out[i], day.Date, out[i].Schedule[day.Date]+assign)
				totals[day.Date] += assign
				remaining[i] -= assign
				any = true
				break
			}
		}
		if !any {
			return out
		}
	}
}
