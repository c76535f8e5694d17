package models

import "fmt"

// TaskStatus is a closed enumeration. Values arrive as free-form strings on
// the wire and must go through ParseTaskStatus — handlers never assign raw
// strings to this type.
type TaskStatus string

const (
	StatusTodo       TaskStatus = "todo"
	StatusInProgress TaskStatus = "in_progress"
	StatusBlocked    TaskStatus = "blocked"
	StatusDone       TaskStatus = "done"
	StatusCancelled  TaskStatus = "cancelled"
)

// TaskPriority is a closed enumeration, parsed the same way as TaskStatus.
type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityNormal TaskPriority = "normal"
	PriorityHigh   TaskPriority = "high"
	PriorityUrgent TaskPriority = "urgent"
)

// ParseTaskStatus validates s against the task_status enum.
func ParseTaskStatus(s string) (TaskStatus, error) {
	switch TaskStatus(s) {
	case StatusTodo, StatusInProgress, StatusBlocked, StatusDone, StatusCancelled:
		return TaskStatus(s), nil
	}
	return "", fmt.Errorf("invalid status %q", s)
}

// ParseTaskPriority validates s against the task_priority enum.
func ParseTaskPriority(s string) (TaskPriority, error) {
	switch TaskPriority(s) {
	case PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent:
		return TaskPriority(s), nil
	}
	return "", fmt.Errorf("invalid priority %q", s)
}
