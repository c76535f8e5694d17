package models

import (
	"time"

	"github.com/google/uuid"
)

// Department groups users and roles. Name is unique across the org.
type Department struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// Role is a job function within a department. (department_id, name) is unique,
// so "Developer" can exist in Engineering and in Data as two distinct rows.
type Role struct {
	ID           uuid.UUID `json:"id"`
	DepartmentID uuid.UUID `json:"department_id"`
	Name         string    `json:"name"`
}

// User is a person who can create tasks, be assigned to them, and upload
// attachments. ReportsTo is a self-referential manager link.
type User struct {
	ID           uuid.UUID  `json:"id"`
	FirstName    string     `json:"first_name"`
	LastName     *string    `json:"last_name,omitempty"`
	Email        string     `json:"email"`
	DepartmentID uuid.UUID  `json:"department_id"`
	RoleID       uuid.UUID  `json:"role_id"`
	ReportsTo    *uuid.UUID `json:"reports_to,omitempty"`
}

// Task is the read representation returned by every task endpoint.
//
// AssigneeIDs and TagIDs are flattened id sets, not nested objects — clients
// resolve them against the lookup endpoints. The repository always populates
// them as non-nil slices so they serialize to [] rather than null.
type Task struct {
	ID          uuid.UUID    `json:"id"`
	Title       string       `json:"title"`
	Description *string      `json:"description"`
	Status      TaskStatus   `json:"status"`
	Priority    TaskPriority `json:"priority"`
	CreatedAt   time.Time    `json:"created_at"`
	DueAt       *time.Time   `json:"due_at"`
	CompletedAt *time.Time   `json:"completed_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
	CreatedBy   uuid.UUID    `json:"created_by"`
	AssigneeIDs []uuid.UUID  `json:"assignee_ids"`
	TagIDs      []uuid.UUID  `json:"tag_ids"`
}

// Tag is a free-form label attached to tasks. Name is unique.
type Tag struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// Attachment is file metadata for a task. The bytes themselves live in the
// storage backend under StorageKey; the key is internal and never serialized
// in list responses (the presign response carries it separately).
//
// UploaderID is nullable: there is no authentication layer, so it is recorded
// as null today and set-null on user delete at the schema level.
type Attachment struct {
	ID          uuid.UUID  `json:"id"`
	TaskID      uuid.UUID  `json:"task_id"`
	UploaderID  *uuid.UUID `json:"uploader_id,omitempty"`
	Filename    string     `json:"filename"`
	ContentType *string    `json:"content_type"`
	SizeBytes   *int64     `json:"size_bytes"`
	StorageKey  string     `json:"-"`
	CreatedAt   time.Time  `json:"created_at"`
}
