package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lalith-99/taskhub/internal/models"
	"github.com/lalith-99/taskhub/internal/repository"
)

type TaskStore struct {
	pool *pgxpool.Pool
}

func NewTaskStore(pool *pgxpool.Pool) *TaskStore {
	return &TaskStore{pool: pool}
}

const taskColumns = `id, title, description, status, priority, created_at, due_at, completed_at, updated_at, created_by`

// querier is satisfied by both *pgxpool.Pool and pgx.Tx, so association loads
// can run inside or outside a transaction.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func scanTask(row pgx.Row, t *models.Task) error {
	return row.Scan(
		&t.ID,
		&t.Title,
		&t.Description,
		&t.Status,
		&t.Priority,
		&t.CreatedAt,
		&t.DueAt,
		&t.CompletedAt,
		&t.UpdatedAt,
		&t.CreatedBy,
	)
}

func (s *TaskStore) List(ctx context.Context, filter models.TaskFilter) ([]models.Task, error) {
	query := `SELECT t.` + strings.ReplaceAll(taskColumns, ", ", ", t.") + ` FROM tasks t`

	var (
		where []string
		args  []any
	)
	if filter.AssigneeID != nil {
		query += ` JOIN task_assignees ta ON ta.task_id = t.id`
		args = append(args, *filter.AssigneeID)
		where = append(where, fmt.Sprintf("ta.user_id = $%d", len(args)))
	}
	if filter.TagID != nil {
		query += ` JOIN task_tags tt ON tt.task_id = t.id`
		args = append(args, *filter.TagID)
		where = append(where, fmt.Sprintf("tt.tag_id = $%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		where = append(where, fmt.Sprintf("t.status = $%d::task_status", len(args)))
	}
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY t.created_at DESC"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]models.Task, 0)
	for rows.Next() {
		var t models.Task
		if err := scanTask(rows, &t); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tasks: %w", err)
	}

	if err := loadAssociations(ctx, s.pool, tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (s *TaskStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	var t models.Task
	err := scanTask(s.pool.QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id), &t)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get task: %w", err)
	}

	tasks := []models.Task{t}
	if err := loadAssociations(ctx, s.pool, tasks); err != nil {
		return nil, err
	}
	return &tasks[0], nil
}

func (s *TaskStore) Create(ctx context.Context, in models.TaskCreate) (*models.Task, error) {
	assignees := distinctUUIDs(in.AssigneeIDs)
	tags := distinctUUIDs(in.TagIDs)

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := checkAssignees(ctx, tx, assignees); err != nil {
		return nil, err
	}
	if err := checkTags(ctx, tx, tags); err != nil {
		return nil, err
	}

	// created_at/updated_at come from the server clock; completed_at follows
	// the status coupling from the start, so a task created as done is
	// immediately consistent.
	completedAt := models.NextCompletedAt(in.Status, nil, time.Now().UTC())

	var t models.Task
	err = scanTask(tx.QueryRow(ctx, `
		INSERT INTO tasks (id, title, description, status, priority, created_at, due_at, completed_at, updated_at, created_by)
		VALUES (uuid_generate_v4(), $1, $2, $3::task_status, $4::task_priority, now(), $5, $6, now(), $7)
		RETURNING `+taskColumns,
		in.Title, in.Description, string(in.Status), string(in.Priority), in.DueAt, completedAt, in.CreatedBy,
	), &t)
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}

	if err := replaceAssignees(ctx, tx, t.ID, assignees, false); err != nil {
		return nil, err
	}
	if err := replaceTags(ctx, tx, t.ID, tags, false); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	t.AssigneeIDs = assignees
	t.TagIDs = tags
	return &t, nil
}

func (s *TaskStore) Patch(ctx context.Context, id uuid.UUID, patch models.TaskPatch) (*models.Task, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var t models.Task
	err = scanTask(tx.QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1 FOR UPDATE`, id), &t)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get task for update: %w", err)
	}

	if patch.Title != nil {
		t.Title = *patch.Title
	}
	if patch.Description != nil {
		t.Description = patch.Description
	}
	if patch.DueAt != nil {
		t.DueAt = patch.DueAt
	}
	if patch.Status != nil {
		t.Status = *patch.Status
		t.CompletedAt = models.NextCompletedAt(t.Status, t.CompletedAt, time.Now().UTC())
	}
	if patch.Priority != nil {
		t.Priority = *patch.Priority
	}

	err = tx.QueryRow(ctx, `
		UPDATE tasks
		SET title = $2, description = $3, status = $4::task_status, priority = $5::task_priority,
		    due_at = $6, completed_at = $7, updated_at = now()
		WHERE id = $1
		RETURNING updated_at`,
		id, t.Title, t.Description, string(t.Status), string(t.Priority), t.DueAt, t.CompletedAt,
	).Scan(&t.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}

	// nil pointer = leave the set alone; empty/non-empty = replace wholesale.
	if patch.AssigneeIDs != nil {
		assignees := distinctUUIDs(*patch.AssigneeIDs)
		if err := checkAssignees(ctx, tx, assignees); err != nil {
			return nil, err
		}
		if err := replaceAssignees(ctx, tx, id, assignees, true); err != nil {
			return nil, err
		}
	}
	if patch.TagIDs != nil {
		tags := distinctUUIDs(*patch.TagIDs)
		if err := checkTags(ctx, tx, tags); err != nil {
			return nil, err
		}
		if err := replaceTags(ctx, tx, id, tags, true); err != nil {
			return nil, err
		}
	}

	tasks := []models.Task{t}
	if err := loadAssociations(ctx, tx, tasks); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return &tasks[0], nil
}

func (s *TaskStore) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete task: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// checkAssignees fails with ErrUnknownAssignee unless every distinct id
// resolves to a user row.
func checkAssignees(ctx context.Context, q querier, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	var n int
	if err := q.QueryRow(ctx, `SELECT count(*) FROM users WHERE id = ANY($1)`, ids).Scan(&n); err != nil {
		return fmt.Errorf("check assignees: %w", err)
	}
	if n != len(ids) {
		return repository.ErrUnknownAssignee
	}
	return nil
}

func checkTags(ctx context.Context, q querier, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	var n int
	if err := q.QueryRow(ctx, `SELECT count(*) FROM tags WHERE id = ANY($1)`, ids).Scan(&n); err != nil {
		return fmt.Errorf("check tags: %w", err)
	}
	if n != len(ids) {
		return repository.ErrUnknownTag
	}
	return nil
}

func replaceAssignees(ctx context.Context, tx pgx.Tx, taskID uuid.UUID, ids []uuid.UUID, clearFirst bool) error {
	if clearFirst {
		if _, err := tx.Exec(ctx, `DELETE FROM task_assignees WHERE task_id = $1`, taskID); err != nil {
			return fmt.Errorf("clear assignees: %w", err)
		}
	}
	if len(ids) == 0 {
		return nil
	}
	_, err := tx.Exec(ctx, `
		INSERT INTO task_assignees (task_id, user_id, assigned_at)
		SELECT $1, unnest($2::uuid[]), now()`, taskID, ids)
	if err != nil {
		return fmt.Errorf("insert assignees: %w", err)
	}
	return nil
}

func replaceTags(ctx context.Context, tx pgx.Tx, taskID uuid.UUID, ids []uuid.UUID, clearFirst bool) error {
	if clearFirst {
		if _, err := tx.Exec(ctx, `DELETE FROM task_tags WHERE task_id = $1`, taskID); err != nil {
			return fmt.Errorf("clear tags: %w", err)
		}
	}
	if len(ids) == 0 {
		return nil
	}
	_, err := tx.Exec(ctx, `
		INSERT INTO task_tags (task_id, tag_id)
		SELECT $1, unnest($2::uuid[])`, taskID, ids)
	if err != nil {
		return fmt.Errorf("insert tags: %w", err)
	}
	return nil
}

// loadAssociations fills AssigneeIDs and TagIDs for every task in one batch
// per join table, initializing them to empty (not nil) slices.
func loadAssociations(ctx context.Context, q querier, tasks []models.Task) error {
	if len(tasks) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(tasks))
	index := make(map[uuid.UUID]*models.Task, len(tasks))
	for i := range tasks {
		tasks[i].AssigneeIDs = []uuid.UUID{}
		tasks[i].TagIDs = []uuid.UUID{}
		ids[i] = tasks[i].ID
		index[tasks[i].ID] = &tasks[i]
	}

	rows, err := q.Query(ctx, `
		SELECT task_id, user_id FROM task_assignees
		WHERE task_id = ANY($1)
		ORDER BY assigned_at, user_id`, ids)
	if err != nil {
		return fmt.Errorf("load assignees: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var taskID, userID uuid.UUID
		if err := rows.Scan(&taskID, &userID); err != nil {
			return fmt.Errorf("scan assignee: %w", err)
		}
		index[taskID].AssigneeIDs = append(index[taskID].AssigneeIDs, userID)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate assignees: %w", err)
	}

	rows, err = q.Query(ctx, `
		SELECT task_id, tag_id FROM task_tags
		WHERE task_id = ANY($1)
		ORDER BY tag_id`, ids)
	if err != nil {
		return fmt.Errorf("load tags: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var taskID, tagID uuid.UUID
		if err := rows.Scan(&taskID, &tagID); err != nil {
			return fmt.Errorf("scan tag: %w", err)
		}
		index[taskID].TagIDs = append(index[taskID].TagIDs, tagID)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate tags: %w", err)
	}
	return nil
}
