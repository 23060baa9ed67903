package domain

import "fmt"

// ValidationKind classifies a failed schedule validation.
type ValidationKind string

const (
	ValidationOverCapacity   ValidationKind = "overCapacity"
	ValidationUnderScheduled ValidationKind = "underScheduled"
)

// ValidationResult is the outcome of a full-schedule validation. A failed
// result is a normal value the caller must present repair options for, not
// an error.
type ValidationResult struct {
	Valid bool
	Kind  ValidationKind

	// Set when Kind is overCapacity: the chronologically first offending day.
	Date       string
	TotalHours int
	MaxHours   int

	// Set when Kind is underScheduled.
	TotalNeeded    int
	TotalScheduled int
	Missing        int
}

// Message returns the user-facing summary for a failed validation.
func (r ValidationResult) Message() string {
	switch r.Kind {
	case ValidationOverCapacity:
		return fmt.Sprintf("%s has %dh scheduled, but the daily limit is %dh", r.Date, r.TotalHours, r.MaxHours)
	case ValidationUnderScheduled:
		return fmt.Sprintf("need %dh total, but only %dh scheduled (missing %dh)", r.TotalNeeded, r.TotalScheduled, r.Missing)
	default:
		return ""
	}
}

// PlanEntry is one step of a distribution plan: add Assign hours to the task
// on Date. Plans are advisory; nothing is applied until the user confirms.
type PlanEntry struct {
	Index   int
	Date    string
	Display string
	Assign  int
}

// PlanTotal sums the hours a plan would place.
func PlanTotal(plan []PlanEntry) int {
	total := 0
	for _, p := range plan {
		total += p.Assign
	}
	return total
}
