package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lalith-99/taskhub/internal/models"
)

type AttachmentStore struct {
	pool *pgxpool.Pool
}

func NewAttachmentStore(pool *pgxpool.Pool) *AttachmentStore {
	return &AttachmentStore{pool: pool}
}

const attachmentColumns = `id, task_id, uploader_id, filename, content_type, size_bytes, storage_key, created_at`

func scanAttachment(row pgx.Row, a *models.Attachment) error {
	return row.Scan(
		&a.ID,
		&a.TaskID,
		&a.UploaderID,
		&a.Filename,
		&a.ContentType,
		&a.SizeBytes,
		&a.StorageKey,
		&a.CreatedAt,
	)
}

func (s *AttachmentStore) Create(ctx context.Context, att models.Attachment) (*models.Attachment, error) {
	var out models.Attachment
	err := scanAttachment(s.pool.QueryRow(ctx, `
		INSERT INTO attachments (id, task_id, uploader_id, filename, content_type, size_bytes, storage_key, created_at)
		VALUES (uuid_generate_v4(), $1, $2, $3, $4, $5, $6, now())
		RETURNING `+attachmentColumns,
		att.TaskID, att.UploaderID, att.Filename, att.ContentType, att.SizeBytes, att.StorageKey,
	), &out)
	if err != nil {
		return nil, fmt.Errorf("insert attachment: %w", err)
	}
	return &out, nil
}

func (s *AttachmentStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Attachment, error) {
	var a models.Attachment
	err := scanAttachment(s.pool.QueryRow(ctx,
		`SELECT `+attachmentColumns+` FROM attachments WHERE id = $1`, id), &a)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get attachment: %w", err)
	}
	return &a, nil
}

func (s *AttachmentStore) ListByTask(ctx context.Context, taskID uuid.UUID) ([]models.Attachment, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+attachmentColumns+` FROM attachments
		WHERE task_id = $1
		ORDER BY created_at DESC`, taskID)
	if err != nil {
		return nil, fmt.Errorf("list attachments: %w", err)
	}
	defer rows.Close()

	attachments := make([]models.Attachment, 0)
	for rows.Next() {
		var a models.Attachment
		if err := scanAttachment(rows, &a); err != nil {
			return nil, fmt.Errorf("scan attachment: %w", err)
		}
		attachments = append(attachments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate attachments: %w", err)
	}
	return attachments, nil
}

func (s *AttachmentStore) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM attachments WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete attachment: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
