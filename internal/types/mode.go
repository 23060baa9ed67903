// Package types contains shared types used across the application.
package types

// Mode represents the current interaction mode of the planner grid
type Mode int

const (
	ModeBrowse Mode = iota
	ModeEdit
	ModeDecide
)

// String returns the string representation of the mode
func (m Mode) String() string {
	switch m {
	case ModeBrowse:
		return "BROWSE"
	case ModeEdit:
		return "EDIT"
	case ModeDecide:
		return "DECIDE"
	default:
		return "UNKNOWN"
	}
}
