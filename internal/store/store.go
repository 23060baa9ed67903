// Package store owns the canonical task list and scheduler config, and
// persists every mutation to a PersistentStore as the same two JSON
// documents other local modules read: unifiedTasks and unifiedConfig.
//
// Persistence is best-effort. Write failures are logged and the
// in-memory state stays authoritative for the session; the next successful
// write carries the change.
package store

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hourglassdev/hourglass/internal/domain"
)

// Document keys in the persistent store.
const (
	KeyTasks  = "unifiedTasks"
	KeyConfig = "unifiedConfig"
)

// PersistentStore abstracts the key-value blob store holding the two
// documents. Get reports absence via the bool; Set replaces the whole value.
type PersistentStore interface {
	Get(key string) (string, bool)
	Set(key, value string) error
}

// CompletionEvent notifies collaborating views that a day's completion flag
// changed for a task.
type CompletionEvent struct {
	TaskID    string
	Date      string
	Completed bool
}

// TaskPatch carries the fields of an upsert. Nil pointers leave the existing
// value untouched; on create they fall back to defaults.
type TaskPatch struct {
	ID          string
	Name        *string
	HoursNeeded *int
	Priority    *domain.Priority
	Schedule    map[string]int
}

// ConfigPatch carries a partial config update. Each supplied field is
// clamped to its valid range rather than rejected.
type ConfigPatch struct {
	TotalDays   *int
	HoursPerDay *int
	StartDate   *string
}

// TaskStore is the single owner of the canonical Task list and
// SchedulerConfig.
type TaskStore struct {
	store  PersistentStore
	logger *slog.Logger
	tasks  []domain.Task
	config domain.SchedulerConfig
	subs   []func(CompletionEvent)
}

// New creates a TaskStore with empty state and the default config. Call
// Load to pick up previously persisted documents.
func New(ps PersistentStore, logger *slog.Logger) *TaskStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskStore{
		store:  ps,
		logger: logger,
		config: domain.DefaultConfig(),
	}
}

// Load reads both documents from the persistent store. A missing or
// malformed document falls back to the empty list / default config; Load
// never fails. It is also the reload path when an external writer changes
// the persisted documents (last writer wins, no merge).
func (s *TaskStore) Load() {
	s.tasks = nil
	s.config = domain.DefaultConfig()

	if raw, ok := s.store.Get(KeyTasks); ok {
		var tasks []domain.Task
		if err := json.Unmarshal([]byte(raw), &tasks); err != nil {
			s.logger.Warn("discarding malformed task document", "error", err)
		} else {
			for i := range tasks {
				if tasks[i].Schedule == nil {
					tasks[i].Schedule = make(map[string]int)
				}
				tasks[i].Priority = domain.ParsePriority(string(tasks[i].Priority))
			}
			s.tasks = tasks
		}
	}

	if raw, ok := s.store.Get(KeyConfig); ok {
		var cfg domain.SchedulerConfig
		if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
			s.logger.Warn("discarding malformed config document", "error", err)
		} else {
			cfg.Clamp()
			s.config = cfg
		}
	}

	s.logger.Info("loaded state", "tasks", len(s.tasks), "totalDays", s.config.TotalDays, "hoursPerDay", s.config.HoursPerDay)
}

// Tasks returns a deep-copied snapshot of the task list.
func (s *TaskStore) Tasks() []domain.Task {
	return domain.CloneTasks(s.tasks)
}

// Config returns the current scheduler config.
func (s *TaskStore) Config() domain.SchedulerConfig {
	return s.config
}

// UpsertTask merges the patch into the task with a matching ID, or creates a
// new task with defaults when no ID matches. Returns the resulting task.
func (s *TaskStore) UpsertTask(patch TaskPatch) domain.Task {
	for i := range s.tasks {
		if s.tasks[i].ID != patch.ID {
			continue
		}
		t := &s.tasks[i]
		if patch.Name != nil {
			t.Name = *patch.Name
		}
		if patch.HoursNeeded != nil {
			t.HoursNeeded = *patch.HoursNeeded
		}
		if patch.Priority != nil {
			t.Priority = *patch.Priority
		}
		if patch.Schedule != nil {
			t.Schedule = patch.Schedule
		}
		s.persist()
		return t.Clone()
	}

	task := domain.Task{
		ID:          patch.ID,
		Priority:    domain.PriorityMedium,
		Schedule:    map[string]int{},
		Completions: map[string]string{},
		CreatedAt:   time.Now().Format(time.RFC3339),
	}
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	if patch.Name != nil {
		task.Name = *patch.Name
	}
	if patch.HoursNeeded != nil {
		task.HoursNeeded = *patch.HoursNeeded
	}
	if patch.Priority != nil {
		task.Priority = *patch.Priority
	}
	if patch.Schedule != nil {
		task.Schedule = patch.Schedule
	}
	s.tasks = append(s.tasks, task)
	s.logger.Info("task created", "id", task.ID, "name", task.Name)
	s.persist()
	return task.Clone()
}

// DeleteTask removes a task. Deleting an unknown ID is a no-op.
func (s *TaskStore) DeleteTask(id string) {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			s.persist()
			return
		}
	}
}

// SetScheduleHours sets the task's allocation for a date. Zero or negative
// hours delete the schedule key; a key never holds a value <= 0.
func (s *TaskStore) SetScheduleHours(taskID, date string, hours int) error {
	t := s.find(taskID)
	if t == nil {
		return &domain.StoreError{Op: "schedule", TaskID: taskID, Err: domain.ErrTaskNotFound}
	}
	if hours > 0 {
		t.Schedule[date] = hours
	} else {
		delete(t.Schedule, date)
	}
	s.persist()
	return nil
}

// SetCompletion marks or clears a task's completion for a date and notifies
// subscribers. Completion is orthogonal to the schedule.
func (s *TaskStore) SetCompletion(taskID, date string, completed bool) error {
	t := s.find(taskID)
	if t == nil {
		return &domain.StoreError{Op: "completion", TaskID: taskID, Err: domain.ErrTaskNotFound}
	}
	if t.Completions == nil {
		t.Completions = make(map[string]string)
	}
	if completed {
		t.Completions[date] = time.Now().Format(time.RFC3339)
	} else {
		delete(t.Completions, date)
	}
	s.persist()
	s.notify(CompletionEvent{TaskID: taskID, Date: date, Completed: completed})
	return nil
}

// ReplaceTasks swaps in a repaired task list wholesale, as produced by the
// capacity engine's repair helpers.
func (s *TaskStore) ReplaceTasks(tasks []domain.Task) {
	s.tasks = domain.CloneTasks(tasks)
	s.persist()
}

// UpdateConfig shallow-merges the patch into the config, clamping each
// supplied field to its valid range.
func (s *TaskStore) UpdateConfig(patch ConfigPatch) domain.SchedulerConfig {
	if patch.TotalDays != nil {
		s.config.TotalDays = *patch.TotalDays
	}
	if patch.HoursPerDay != nil {
		s.config.HoursPerDay = *patch.HoursPerDay
	}
	if patch.StartDate != nil {
		s.config.StartDate = *patch.StartDate
	}
	s.config.Clamp()
	s.persist()
	return s.config
}

// SubscribeCompletions registers a callback for completion changes.
func (s *TaskStore) SubscribeCompletions(fn func(CompletionEvent)) {
	s.subs = append(s.subs, fn)
}

func (s *TaskStore) notify(ev CompletionEvent) {
	for _, fn := range s.subs {
		fn(ev)
	}
}

func (s *TaskStore) find(id string) *domain.Task {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return &s.tasks[i]
		}
	}
	return nil
}

func (s *TaskStore) persist() {
	tasks, err := json.Marshal(s.tasks)
	if err != nil {
		s.logger.Error("failed to marshal tasks", "error", err)
		return
	}
	if err := s.store.Set(KeyTasks, string(tasks)); err != nil {
		s.logger.Warn("failed to persist tasks", "error", err)
	}

	cfg, err := json.Marshal(s.config)
	if err != nil {
		s.logger.Error("failed to marshal config", "error", err)
		return
	}
	if err := s.store.Set(KeyConfig, string(cfg)); err != nil {
		s.logger.Warn("failed to persist config", "error", err)
	}
}
