package capacity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hourglassdev/hourglass/internal/domain"
)

func TestTrimDayToLimit(t *testing.T) {
	t.Run("trims lowest priority first", func(t *testing.T) {
		cfg := testConfig()
		cfg.HoursPerDay = 7
		tasks := []domain.Task{
			task("low", 10, domain.PriorityLow, map[string]int{day1: 2}),
			task("high", 10, domain.PriorityHigh, map[string]int{day1: 3}),
			task("med", 10, domain.PriorityMedium, map[string]int{day1: 4}),
		}

		// 9h scheduled, 7h cap: the 2h overshoot comes entirely out of low.
		out := TrimDayToLimit(tasks, cfg, day1)

		assert.NotContains(t, out[0].Schedule, day1, "low fully trimmed, key deleted")
		assert.Equal(t, 3, out[1].Schedule[day1], "high untouched")
		assert.Equal(t, 4, out[2].Schedule[day1], "medium untouched")
		assert.Equal(t, 7, DailyTotals(out)[day1])
	})

	t.Run("walks up the priority order when needed", func(t *testing.T) {
		cfg := testConfig()
		cfg.HoursPerDay = 4
		tasks := []domain.Task{
			task("low", 10, domain.PriorityLow, map[string]int{day1: 2}),
			task("high", 10, domain.PriorityHigh, map[string]int{day1: 3}),
			task("med", 10, domain.PriorityMedium, map[string]int{day1: 4}),
		}

		out := TrimDayToLimit(tasks, cfg, day1)

		assert.NotContains(t, out[0].Schedule, day1)
		assert.Equal(t, 3, out[1].Schedule[day1], "high only touched last")
		assert.Equal(t, 1, out[2].Schedule[day1])
		assert.Equal(t, 4, DailyTotals(out)[day1])
	})

	t.Run("equal priorities trim in original order", func(t *testing.T) {
		cfg := testConfig()
		cfg.HoursPerDay = 5
		tasks := []domain.Task{
			task("first", 10, domain.PriorityMedium, map[string]int{day1: 4}),
			task("second", 10, domain.PriorityMedium, map[string]int{day1: 4}),
		}

		out := TrimDayToLimit(tasks, cfg, day1)

		assert.Equal(t, 1, out[0].Schedule[day1])
		assert.Equal(t, 4, out[1].Schedule[day1])
	})

	t.Run("does not mutate the input", func(t *testing.T) {
		cfg := testConfig()
		tasks := []domain.Task{
			task("a", 10, domain.PriorityLow, map[string]int{day1: 12}),
		}

		TrimDayToLimit(tasks, cfg, day1)

		assert.Equal(t, 12, tasks[0].Schedule[day1])
	})
}

func TestRedistributeDay(t *testing.T) {
	t.Run("moves excess into later free slots", func(t *testing.T) {
		cfg := testConfig()
		tasks := []domain.Task{
			task("low", 10, domain.PriorityLow, map[string]int{day1: 6}),
			task("high", 10, domain.PriorityHigh, map[string]int{day1: 6}),
		}

		out, leftover := RedistributeDay(tasks, cfg, day1)

		assert.Zero(t, leftover)
		assert.Equal(t, 8, DailyTotals(out)[day1])
		// Excess of 4 moved from the low-priority task first.
		assert.Equal(t, 2, out[0].Schedule[day1])
		assert.Equal(t, 4, out[0].Schedule[day2])
		assert.Equal(t, 6, out[1].Schedule[day1], "high priority untouched")
	})

	t.Run("never moves hours to earlier days", func(t *testing.T) {
		cfg := testConfig()
		tasks := []domain.Task{
			task("a", 20, domain.PriorityMedium, map[string]int{day3: 12}),
		}

		out, leftover := RedistributeDay(tasks, cfg, day3)

		assert.Zero(t, leftover)
		assert.NotContains(t, out[0].Schedule, day1)
		assert.NotContains(t, out[0].Schedule, day2)
		assert.Equal(t, 4, out[0].Schedule[day4])
	})

	t.Run("reports leftover when the rest of the window is full", func(t *testing.T) {
		cfg := domain.SchedulerConfig{TotalDays: 2, HoursPerDay: 8, StartDate: "2026-03-02"}
		tasks := []domain.Task{
			task("a", 20, domain.PriorityMedium, map[string]int{day1: 11, day2: 8}),
		}

		out, leftover := RedistributeDay(tasks, cfg, day1)

		assert.Equal(t, 3, leftover)
		assert.Equal(t, 11, out[0].Schedule[day1], "stuck excess stays rather than vanishing")
	})
}

func TestAutoDistributeMissing(t *testing.T) {
	t.Run("fills remaining hours from the first free day", func(t *testing.T) {
		cfg := testConfig()
		tasks := []domain.Task{
			task("a", 10, domain.PriorityMedium, map[string]int{day1: 4}),
			task("b", 6, domain.PriorityMedium, nil),
		}

		out := AutoDistributeMissing(tasks, cfg)

		result := Validate(out, cfg)
		assert.True(t, result.Valid)
		assert.GreaterOrEqual(t, out[0].ScheduledHours(), 10)
		assert.GreaterOrEqual(t, out[1].ScheduledHours(), 6)
		for date, total := range DailyTotals(out) {
			assert.LessOrEqualf(t, total, cfg.HoursPerDay, "day %s over capacity", date)
		}
	})

	t.Run("terminates with tasks still short when the window is full", func(t *testing.T) {
		cfg := domain.SchedulerConfig{TotalDays: 2, HoursPerDay: 4, StartDate: "2026-03-02"}
		tasks := []domain.Task{
			task("a", 20, domain.PriorityMedium, nil),
		}

		out := AutoDistributeMissing(tasks, cfg)

		assert.Equal(t, 8, out[0].ScheduledHours(), "total free capacity is 2 days x 4h")
		result := Validate(out, cfg)
		require.False(t, result.Valid)
		assert.Equal(t, domain.ValidationUnderScheduled, result.Kind)
		assert.Equal(t, 12, result.Missing)
	})

	t.Run("already satisfied tasks are untouched", func(t *testing.T) {
		cfg := testConfig()
		tasks := []domain.Task{
			task("a", 5, domain.PriorityMedium, map[string]int{day1: 5}),
		}

		out := AutoDistributeMissing(tasks, cfg)

		assert.Equal(t, map[string]int{day1: 5}, out[0].Schedule)
	})
}

// The worked end-to-end scenario: an 8h day already held by the task itself,
// a 13h request, and auto-distribution of the 5h overflow into day 2.
func TestOverflowScenario(t *testing.T) {
	cfg := testConfig()
	tasks := []domain.Task{
		task("a", 10, domain.PriorityMedium, map[string]int{day1: 8}),
	}

	edit, err := ClampEdit(tasks, cfg, "a", day1, 13)
	require.NoError(t, err)
	assert.Equal(t, 8, edit.Clamped)
	assert.Equal(t, 5, edit.Overflow)

	plan := BuildDistributionPlan(tasks, cfg, 0, edit.Overflow)
	require.Len(t, plan, 1)
	assert.Equal(t, day2, plan[0].Date)
	assert.Equal(t, 5, plan[0].Assign)

	tasks[0].Schedule[day2] = plan[0].Assign
	result := Validate(tasks, cfg)
	assert.True(t, result.Valid)
}
