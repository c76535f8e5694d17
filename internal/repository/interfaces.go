package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/lalith-99/taskhub/internal/models"
)

// Every method takes context.Context first: queries are cancelled when the
// HTTP request that spawned them goes away.
//
// Not-found convention: Get/Patch return nil, nil and Delete returns
// false, nil when the row doesn't exist. Handlers translate that to 404;
// a non-nil error always means something actually went wrong.

// ErrUnknownAssignee and ErrUnknownTag signal that a supplied id set did not
// fully resolve against the users/tags tables (unknown ids, or duplicates
// masking an invalid one). Handlers map them to 400.
var (
	ErrUnknownAssignee = errors.New("one or more assignee_ids are invalid")
	ErrUnknownTag      = errors.New("one or more tag_ids are invalid")
)

// TaskRepository is the task query/update engine.
type TaskRepository interface {
	// List returns tasks matching all set filter fields, newest first, with
	// assignee/tag id sets embedded. Returns an empty slice, never nil.
	List(ctx context.Context, filter models.TaskFilter) ([]models.Task, error)

	// GetByID returns a single task. Returns nil, nil if not found.
	GetByID(ctx context.Context, id uuid.UUID) (*models.Task, error)

	// Create persists the task plus its join rows atomically. Supplied
	// assignee/tag ids must all resolve or nothing is written.
	Create(ctx context.Context, in models.TaskCreate) (*models.Task, error)

	// Patch applies a partial update. Nil fields are untouched; the
	// assignee/tag pointers follow the nil/empty/non-empty convention
	// (no change / clear / replace). Returns nil, nil if the task is gone.
	Patch(ctx context.Context, id uuid.UUID, patch models.TaskPatch) (*models.Task, error)

	// Delete removes the task; join rows cascade. Reports whether a row
	// was actually deleted.
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

// AttachmentRepository persists attachment metadata. Coordination with the
// storage backend (best-effort object deletion, presign ordering) lives in
// the handler, not here.
type AttachmentRepository interface {
	Create(ctx context.Context, att models.Attachment) (*models.Attachment, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Attachment, error)
	ListByTask(ctx context.Context, taskID uuid.UUID) ([]models.Attachment, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

// LookupRepository serves the read-only reference lists clients use to
// resolve ids.
type LookupRepository interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	ListTags(ctx context.Context) ([]models.Tag, error)
	ListDepartments(ctx context.Context) ([]models.Department, error)
	ListRoles(ctx context.Context) ([]models.Role, error)
}
