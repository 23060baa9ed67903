package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors
var (
	ErrTaskNotFound = errors.New("task not found")
)

// StoreError represents a failure from a task store operation
type StoreError struct {
	Op     string // Operation: "upsert", "schedule", "completion", etc.
	TaskID string // Optional: specific task ID
	Err    error  // Underlying error
}

func (e *StoreError) Error() string {
	if e.TaskID != "" {
		return fmt.Sprintf("store %s [%s]: %v", e.Op, e.TaskID, e.Err)
	}
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}
