package models

import (
	"time"

	"github.com/google/uuid"
)

// TaskFilter narrows a task listing. Nil fields impose no constraint; set
// fields combine with logical AND.
type TaskFilter struct {
	Status     *TaskStatus
	AssigneeID *uuid.UUID
	TagID      *uuid.UUID
}

// TaskCreate carries a validated create request into the repository.
// Status and Priority are already parsed; defaults (todo/normal) are applied
// by the handler before this struct is built.
type TaskCreate struct {
	Title       string
	Description *string
	Status      TaskStatus
	Priority    TaskPriority
	DueAt       *time.Time
	CreatedBy   uuid.UUID
	AssigneeIDs []uuid.UUID
	TagIDs      []uuid.UUID
}

// TaskPatch carries a partial update. Nil means "leave the field alone".
//
// AssigneeIDs and TagIDs are pointers to slices to keep the three-way
// convention expressible: nil pointer = no change, pointer to empty slice =
// clear all associations, pointer to non-empty slice = replace the set
// wholesale. Collapsing nil and empty here would make "leave assignees alone"
// and "remove everyone" indistinguishable.
type TaskPatch struct {
	Title       *string
	Description *string
	Status      *TaskStatus
	Priority    *TaskPriority
	DueAt       *time.Time
	AssigneeIDs *[]uuid.UUID
	TagIDs      *[]uuid.UUID
}

// NextCompletedAt resolves the completed_at column for a status change.
// Moving to done stamps now once and is idempotent on re-patch; moving
// anywhere else clears the timestamp unconditionally.
func NextCompletedAt(next TaskStatus, current *time.Time, now time.Time) *time.Time {
	if next == StatusDone {
		if current != nil {
			return current
		}
		return &now
	}
	return nil
}
