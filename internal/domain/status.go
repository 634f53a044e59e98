package domain

import (
	"fmt"
	"strings"
)

type TaskStatus string

const (
	StatusToDo       TaskStatus = "To Do"
	StatusInProgress TaskStatus = "In Progress"
	StatusDone       TaskStatus = "Done"
)

// BoardColumns is the left-to-right column order of a task board.
var BoardColumns = []TaskStatus{StatusToDo, StatusInProgress, StatusDone}

func (s TaskStatus) Valid() bool {
	switch s {
	case StatusToDo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// Next returns the column to the right, staying put on the last column.
func (s TaskStatus) Next() TaskStatus {
	for i, c := range BoardColumns {
		if c == s && i < len(BoardColumns)-1 {
			return BoardColumns[i+1]
		}
	}
	return s
}

// Prev returns the column to the left, staying put on the first column.
func (s TaskStatus) Prev() TaskStatus {
	for i, c := range BoardColumns {
		if c == s && i > 0 {
			return BoardColumns[i-1]
		}
	}
	return s
}

// ParseTaskStatus accepts canonical names and the snake/kebab spellings
// ("todo", "in_progress", "in-progress", "done").
func ParseTaskStatus(s string) (TaskStatus, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer("-", "", "_", "", " ", "").Replace(key)
	switch key {
	case "todo":
		return StatusToDo, nil
	case "inprogress", "doing":
		return StatusInProgress, nil
	case "done":
		return StatusDone, nil
	}
	return "", fmt.Errorf("unknown status %q: %w", s, ErrInvalidInput)
}
