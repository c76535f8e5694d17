package api

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lalith-99/taskhub/internal/models"
	"github.com/lalith-99/taskhub/internal/repository"
	"github.com/lalith-99/taskhub/internal/storage"
	"go.uber.org/zap"
)

// AttachmentHandler coordinates attachment metadata with the storage backend.
// The two are not transactional: presign inserts the row before any bytes
// exist, and delete removes the row even when object deletion fails.
type AttachmentHandler struct {
	attachments repository.AttachmentRepository
	tasks       repository.TaskRepository
	backend     storage.Backend
	local       *storage.Local // non-nil only when the local backend is active
	keyPrefix   string
	expires     time.Duration
	logger      *zap.Logger
}

func NewAttachmentHandler(
	attachments repository.AttachmentRepository,
	tasks repository.TaskRepository,
	backend storage.Backend,
	local *storage.Local,
	keyPrefix string,
	expires time.Duration,
	logger *zap.Logger,
) *AttachmentHandler {
	return &AttachmentHandler{
		attachments: attachments,
		tasks:       tasks,
		backend:     backend,
		local:       local,
		keyPrefix:   keyPrefix,
		expires:     expires,
		logger:      logger,
	}
}

type presignUploadRequest struct {
	Filename    string  `json:"filename" binding:"required"`
	ContentType *string `json:"content_type"`
	SizeBytes   *int64  `json:"size_bytes"`
}

type presignUploadResponse struct {
	AttachmentID uuid.UUID         `json:"attachment_id"`
	Key          string            `json:"key"`
	UploadURL    string            `json:"upload_url"`
	Fields       map[string]string `json:"fields"`
	Method       string            `json:"method"`
}

type presignDownloadResponse struct {
	URL       string `json:"url"`
	ExpiresIn int    `json:"expires_in"`
}

type uploadDirectResponse struct {
	AttachmentID uuid.UUID `json:"attachment_id"`
	Key          string    `json:"key"`
}

// ensureTask resolves the task or writes a 404/500 and reports false.
func (h *AttachmentHandler) ensureTask(c *gin.Context, taskID uuid.UUID) bool {
	task, err := h.tasks.GetByID(c.Request.Context(), taskID)
	if err != nil {
		h.logger.Error("failed to get task", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "failed to get task")
		return false
	}
	if task == nil {
		respondError(c, http.StatusNotFound, "Task not found")
		return false
	}
	return true
}

// PresignUpload handles POST /attachments/tasks/:task_id/presign-upload
//
// The metadata row is inserted before the client uploads any bytes, so an
// abandoned upload leaves an orphan row and key. There is no reconciliation
// job for those.
func (h *AttachmentHandler) PresignUpload(c *gin.Context) {
	taskID, err := uuid.Parse(c.Param("task_id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid task id")
		return
	}

	var req presignUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	if !h.ensureTask(c, taskID) {
		return
	}

	key := storage.ObjectKey(h.keyPrefix, taskID, req.Filename)
	att, err := h.attachments.Create(c.Request.Context(), models.Attachment{
		TaskID:      taskID,
		UploaderID:  nil, // no auth layer; recorded as anonymous
		Filename:    req.Filename,
		ContentType: req.ContentType,
		SizeBytes:   req.SizeBytes,
		StorageKey:  key,
	})
	if err != nil {
		h.logger.Error("failed to create attachment", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "failed to create attachment")
		return
	}

	contentType := ""
	if req.ContentType != nil {
		contentType = *req.ContentType
	}
	uploadURL, fields, err := h.backend.PresignUpload(c.Request.Context(), key, contentType, h.expires)
	if err != nil {
		h.logger.Error("failed to presign upload", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "failed to presign upload")
		return
	}

	c.JSON(http.StatusOK, presignUploadResponse{
		AttachmentID: att.ID,
		Key:          key,
		UploadURL:    uploadURL,
		Fields:       fields,
		Method:       "POST",
	})
}

// ListByTask handles GET /attachments/tasks/:task_id
func (h *AttachmentHandler) ListByTask(c *gin.Context) {
	taskID, err := uuid.Parse(c.Param("task_id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid task id")
		return
	}
	if !h.ensureTask(c, taskID) {
		return
	}

	attachments, err := h.attachments.ListByTask(c.Request.Context(), taskID)
	if err != nil {
		h.logger.Error("failed to list attachments", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "failed to list attachments")
		return
	}
	c.JSON(http.StatusOK, attachments)
}

// DownloadURL handles GET /attachments/:id/download-url
func (h *AttachmentHandler) DownloadURL(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid attachment id")
		return
	}

	att, err := h.attachments.GetByID(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("failed to get attachment", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "failed to get attachment")
		return
	}
	if att == nil {
		respondError(c, http.StatusNotFound, "Attachment not found")
		return
	}

	url, err := h.backend.PresignDownload(c.Request.Context(), att.StorageKey, h.expires)
	if err != nil {
		h.logger.Error("failed to presign download", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "failed to presign download")
		return
	}
	c.JSON(http.StatusOK, presignDownloadResponse{
		URL:       url,
		ExpiresIn: int(h.expires.Seconds()),
	})
}

// Delete handles DELETE /attachments/:id
//
// Object deletion is attempted first but never blocks row deletion; storage
// and database are only best-effort consistent here.
func (h *AttachmentHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid attachment id")
		return
	}

	att, err := h.attachments.GetByID(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("failed to get attachment", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "failed to get attachment")
		return
	}
	if att == nil {
		respondError(c, http.StatusNotFound, "Attachment not found")
		return
	}

	if err := h.backend.DeleteObject(c.Request.Context(), att.StorageKey); err != nil {
		h.logger.Warn("failed to delete object, removing row anyway",
			zap.String("key", att.StorageKey), zap.Error(err))
	}

	if _, err := h.attachments.Delete(c.Request.Context(), id); err != nil {
		h.logger.Error("failed to delete attachment", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "failed to delete attachment")
		return
	}
	c.Status(http.StatusNoContent)
}

// UploadDirect handles POST /attachments/tasks/:task_id/upload-direct
// Only the local backend accepts inline bytes; everything else presigns.
func (h *AttachmentHandler) UploadDirect(c *gin.Context) {
	if h.local == nil {
		respondError(c, http.StatusBadRequest, "upload-direct only for local backend")
		return
	}

	taskID, err := uuid.Parse(c.Param("task_id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid task id")
		return
	}
	if !h.ensureTask(c, taskID) {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondError(c, http.StatusBadRequest, "file is required")
		return
	}
	f, err := fileHeader.Open()
	if err != nil {
		h.logger.Error("failed to open upload", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "failed to read upload")
		return
	}
	defer f.Close()

	key := storage.ObjectKey(h.keyPrefix, taskID, fileHeader.Filename)
	if _, err := h.local.SaveFile(key, f); err != nil {
		h.logger.Error("failed to save file", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "failed to save file")
		return
	}

	var contentType *string
	if ct := fileHeader.Header.Get("Content-Type"); ct != "" {
		contentType = &ct
	}
	att, err := h.attachments.Create(c.Request.Context(), models.Attachment{
		TaskID:      taskID,
		Filename:    fileHeader.Filename,
		ContentType: contentType,
		StorageKey:  key,
	})
	if err != nil {
		h.logger.Error("failed to create attachment", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "failed to create attachment")
		return
	}

	c.JSON(http.StatusOK, uploadDirectResponse{AttachmentID: att.ID, Key: key})
}

// LocalDownload handles GET /attachments/local-download?path=...
// Streams a file from the local storage dir; paths outside it are rejected.
func (h *AttachmentHandler) LocalDownload(c *gin.Context) {
	if h.local == nil {
		respondError(c, http.StatusBadRequest, "local-download only for local backend")
		return
	}

	p := c.Query("path")
	if p == "" {
		respondError(c, http.StatusBadRequest, "path is required")
		return
	}

	absDir, err := filepath.Abs(h.local.Dir())
	if err != nil {
		h.logger.Error("failed to resolve storage dir", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "failed to resolve path")
		return
	}
	absPath, err := filepath.Abs(p)
	if err != nil || !strings.HasPrefix(absPath, absDir+string(filepath.Separator)) {
		respondError(c, http.StatusNotFound, "File not found")
		return
	}

	if _, err := os.Stat(absPath); err != nil {
		respondError(c, http.StatusNotFound, "File not found")
		return
	}
	c.FileAttachment(absPath, filepath.Base(absPath))
}
