package domain

import "time"

// DateFormat is the ISO date layout used for schedule keys and the window
// start. Other local modules read the same persisted documents, so this
// layout is a wire contract.
const DateFormat = "2006-01-02"

const (
	// MinHoursPerDay and MaxHoursPerDay bound the daily capacity cap.
	MinHoursPerDay = 1
	MaxHoursPerDay = 24
)

// SchedulerConfig describes the planning window and the shared daily
// capacity cap.
type SchedulerConfig struct {
	TotalDays   int    `json:"totalDays"`
	HoursPerDay int    `json:"hoursPerDay"`
	StartDate   string `json:"startDate"`
}

// DefaultConfig returns the config used when nothing has been persisted yet:
// a one-week window starting today with an 8 hour daily cap.
func DefaultConfig() SchedulerConfig {
	return SchedulerConfig{
		TotalDays:   7,
		HoursPerDay: 8,
		StartDate:   time.Now().Format(DateFormat),
	}
}

// Clamp normalizes the config in place: totalDays >= 1, hoursPerDay within
// [1,24], startDate defaulting to today when unset or malformed. Invalid
// fields are clamped, never rejected.
func (c *SchedulerConfig) Clamp() {
	if c.TotalDays < 1 {
		c.TotalDays = 1
	}
	if c.HoursPerDay < MinHoursPerDay {
		c.HoursPerDay = MinHoursPerDay
	}
	if c.HoursPerDay > MaxHoursPerDay {
		c.HoursPerDay = MaxHoursPerDay
	}
	if _, err := time.Parse(DateFormat, c.StartDate); err != nil {
		c.StartDate = time.Now().Format(DateFormat)
	}
}

// PlanDay is one day of the planning window.
type PlanDay struct {
	Index   int
	Date    string
	Display string
}

// DateRange returns the contiguous window of TotalDays dates starting at
// StartDate, 0-indexed.
func DateRange(cfg SchedulerConfig) []PlanDay {
	start, err := time.Parse(DateFormat, cfg.StartDate)
	if err != nil {
		start = time.Now()
	}
	days := make([]PlanDay, 0, cfg.TotalDays)
	for i := 0; i < cfg.TotalDays; i++ {
		d := start.AddDate(0, 0, i)
		days = append(days, PlanDay{
			Index:   i,
			Date:    d.Format(DateFormat),
			Display: d.Format("Jan 2"),
		})
	}
	return days
}
