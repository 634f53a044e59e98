package domain

import "time"

type Task struct {
	ID          int64
	Title       string
	Description string
	Status      TaskStatus
	Team        string
	Assignee    string
	CreatedBy   string
	CreatedAt   time.Time
}

// IsAssigned reports whether the task has an assignee.
func (t *Task) IsAssigned() bool {
	return t.Assignee != ""
}

// TaskInput carries the caller-supplied fields of a new task.
type TaskInput struct {
	Title       string
	Description string
	Team        string
	Assignee    string
	CreatedBy   string
}
