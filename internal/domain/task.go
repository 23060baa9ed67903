package domain

// Task represents a unit of work with an estimated hour budget spread
// across the planning window.
type Task struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	HoursNeeded int               `json:"hoursNeeded"`
	Priority    Priority          `json:"priority"`
	Schedule    map[string]int    `json:"schedule"`
	Completions map[string]string `json:"completions,omitempty"`
	CreatedAt   string            `json:"createdAt,omitempty"`
}

// Priority represents task priority, used only as a tie-break when
// automated repairs decide which task to trim or move first.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Weight returns the numeric ordering used by repair strategies.
// Lower weight is trimmed/moved first.
func (p Priority) Weight() int {
	switch p {
	case PriorityLow:
		return 1
	case PriorityHigh:
		return 3
	default:
		return 2
	}
}

// String returns the display string
func (p Priority) String() string {
	return string(p)
}

// Next returns the next priority in the low -> medium -> high cycle.
func (p Priority) Next() Priority {
	switch p {
	case PriorityLow:
		return PriorityMedium
	case PriorityMedium:
		return PriorityHigh
	default:
		return PriorityLow
	}
}

// ParsePriority normalizes a priority string, defaulting to medium.
func ParsePriority(s string) Priority {
	switch Priority(s) {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return Priority(s)
	default:
		return PriorityMedium
	}
}

// ScheduledHours returns the total hours currently allocated across all days.
func (t Task) ScheduledHours() int {
	sum := 0
	for _, h := range t.Schedule {
		sum += h
	}
	return sum
}

// RemainingHours returns the hours still unscheduled. Never negative.
func (t Task) RemainingHours() int {
	remain := t.HoursNeeded - t.ScheduledHours()
	if remain < 0 {
		return 0
	}
	return remain
}

// IsFullyScheduled reports whether the task has at least its needed hours
// allocated.
func (t Task) IsFullyScheduled() bool {
	return t.ScheduledHours() >= t.HoursNeeded
}

// Clone returns a deep copy of the task. Schedule and completion maps are
// copied so mutations on the clone never leak back.
func (t Task) Clone() Task {
	c := t
	c.Schedule = make(map[string]int, len(t.Schedule))
	for date, hours := range t.Schedule {
		c.Schedule[date] = hours
	}
	if t.Completions != nil {
		c.Completions = make(map[string]string, len(t.Completions))
		for date, ts := range t.Completions {
			c.Completions[date] = ts
		}
	}
	return c
}

// CloneTasks deep-copies a task list.
func CloneTasks(tasks []Task) []Task {
	out := make([]Task, len(tasks))
	for i, t := range tasks {
		out[i] = t.Clone()
	}
	return out
}
