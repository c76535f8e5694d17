package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lalith-99/taskhub/internal/models"
	"github.com/lalith-99/taskhub/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// mockTaskRepo implements repository.TaskRepository with per-test function
// fields. Unset functions return "not found" rather than panicking.
type mockTaskRepo struct {
	listFn   func(models.TaskFilter) ([]models.Task, error)
	getFn    func(uuid.UUID) (*models.Task, error)
	createFn func(models.TaskCreate) (*models.Task, error)
	patchFn  func(uuid.UUID, models.TaskPatch) (*models.Task, error)
	deleteFn func(uuid.UUID) (bool, error)
}

func (m *mockTaskRepo) List(_ context.Context, f models.TaskFilter) ([]models.Task, error) {
	if m.listFn != nil {
		return m.listFn(f)
	}
	return []models.Task{}, nil
}

func (m *mockTaskRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Task, error) {
	if m.getFn != nil {
		return m.getFn(id)
	}
	return nil, nil
}

func (m *mockTaskRepo) Create(_ context.Context, in models.TaskCreate) (*models.Task, error) {
	if m.createFn != nil {
		return m.createFn(in)
	}
	return nil, nil
}

func (m *mockTaskRepo) Patch(_ context.Context, id uuid.UUID, p models.TaskPatch) (*models.Task, error) {
	if m.patchFn != nil {
		return m.patchFn(id, p)
	}
	return nil, nil
}

func (m *mockTaskRepo) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	if m.deleteFn != nil {
		return m.deleteFn(id)
	}
	return false, nil
}

func newTaskRouter(repo repository.TaskRepository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewTaskHandler(repo, zap.NewNop())

	r := gin.New()
	r.GET("/todos/", h.List)
	r.POST("/todos/", h.Create)
	r.GET("/todos/:id", h.GetByID)
	r.PATCH("/todos/:id", h.Patch)
	r.DELETE("/todos/:id", h.Delete)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func sampleTask(id uuid.UUID) *models.Task {
	now := time.Date(2026, 4, 2, 9, 0, 0, 0, time.UTC)
	return &models.Task{
		ID:          id,
		Title:       "Build auth module",
		Status:      models.StatusTodo,
		Priority:    models.PriorityNormal,
		CreatedAt:   now,
		UpdatedAt:   now,
		CreatedBy:   uuid.New(),
		AssigneeIDs: []uuid.UUID{},
		TagIDs:      []uuid.UUID{},
	}
}

func TestListTasksInvalidStatus(t *testing.T) {
	r := newTaskRouter(&mockTaskRepo{})

	w := doJSON(t, r, http.MethodGet, "/todos/?status=bogus", "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeEnvelope(t, w)
	assert.Equal(t, "Invalid status", body["error"])
	assert.Equal(t, "/todos/", body["path"])
	assert.Equal(t, "GET", body["method"])
	assert.NotEmpty(t, body["timestamp"])
}

func TestListTasksPassesFilters(t *testing.T) {
	assignee := uuid.New()
	var got models.TaskFilter
	repo := &mockTaskRepo{
		listFn: func(f models.TaskFilter) ([]models.Task, error) {
			got = f
			return []models.Task{*sampleTask(uuid.New())}, nil
		},
	}
	r := newTaskRouter(repo)

	w := doJSON(t, r, http.MethodGet, "/todos/?status=in_progress&assignee_id="+assignee.String(), "")

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, got.Status)
	assert.Equal(t, models.StatusInProgress, *got.Status)
	require.NotNil(t, got.AssigneeID)
	assert.Equal(t, assignee, *got.AssigneeID)
	assert.Nil(t, got.TagID)

	var tasks []models.Task
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tasks))
	assert.Len(t, tasks, 1)
}

func TestGetTaskNotFound(t *testing.T) {
	r := newTaskRouter(&mockTaskRepo{})

	w := doJSON(t, r, http.MethodGet, "/todos/"+uuid.NewString(), "")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Task not found", decodeEnvelope(t, w)["error"])
}

func TestCreateTaskAppliesDefaults(t *testing.T) {
	var got models.TaskCreate
	repo := &mockTaskRepo{
		createFn: func(in models.TaskCreate) (*models.Task, error) {
			got = in
			return sampleTask(uuid.New()), nil
		},
	}
	r := newTaskRouter(repo)

	w := doJSON(t, r, http.MethodPost, "/todos/",
		`{"title":"X","created_by":"`+uuid.NewString()+`"}`)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, models.StatusTodo, got.Status)
	assert.Equal(t, models.PriorityNormal, got.Priority)
}

func TestCreateTaskInvalidEnum(t *testing.T) {
	r := newTaskRouter(&mockTaskRepo{})

	w := doJSON(t, r, http.MethodPost, "/todos/",
		`{"title":"X","created_by":"`+uuid.NewString()+`","status":"finished"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid status or priority", decodeEnvelope(t, w)["error"])
}

func TestCreateTaskUnknownAssignee(t *testing.T) {
	repo := &mockTaskRepo{
		createFn: func(models.TaskCreate) (*models.Task, error) {
			return nil, repository.ErrUnknownAssignee
		},
	}
	r := newTaskRouter(repo)

	w := doJSON(t, r, http.MethodPost, "/todos/",
		`{"title":"X","created_by":"`+uuid.NewString()+`","assignee_ids":["`+uuid.NewString()+`"]}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeEnvelope(t, w)["error"], "assignee_ids")
}

func TestCreateTaskMissingTitleIsValidationFailure(t *testing.T) {
	r := newTaskRouter(&mockTaskRepo{})

	w := doJSON(t, r, http.MethodPost, "/todos/",
		`{"created_by":"`+uuid.NewString()+`"}`)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	body := decodeEnvelope(t, w)
	assert.Equal(t, "Validation failed", body["error"])
	assert.NotEmpty(t, body["details"])
}

// The three-way convention for collection fields: absent leaves the set
// alone, [] clears it, a non-empty list replaces it.
func TestPatchTaskAssigneeConvention(t *testing.T) {
	id := uuid.New()
	member := uuid.New()

	cases := []struct {
		name string
		body string
		want func(t *testing.T, p models.TaskPatch)
	}{
		{
			name: "absent means no change",
			body: `{"title":"renamed"}`,
			want: func(t *testing.T, p models.TaskPatch) {
				assert.Nil(t, p.AssigneeIDs)
				assert.Nil(t, p.TagIDs)
			},
		},
		{
			name: "empty list clears",
			body: `{"assignee_ids":[]}`,
			want: func(t *testing.T, p models.TaskPatch) {
				require.NotNil(t, p.AssigneeIDs)
				assert.Empty(t, *p.AssigneeIDs)
			},
		},
		{
			name: "non-empty list replaces",
			body: `{"assignee_ids":["` + member.String() + `"]}`,
			want: func(t *testing.T, p models.TaskPatch) {
				require.NotNil(t, p.AssigneeIDs)
				assert.Equal(t, []uuid.UUID{member}, *p.AssigneeIDs)
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var got models.TaskPatch
			repo := &mockTaskRepo{
				patchFn: func(_ uuid.UUID, p models.TaskPatch) (*models.Task, error) {
					got = p
					return sampleTask(id), nil
				},
			}
			r := newTaskRouter(repo)

			w := doJSON(t, r, http.MethodPatch, "/todos/"+id.String(), tc.body)

			require.Equal(t, http.StatusOK, w.Code)
			tc.want(t, got)
		})
	}
}

func TestPatchTaskInvalidStatus(t *testing.T) {
	r := newTaskRouter(&mockTaskRepo{})

	w := doJSON(t, r, http.MethodPatch, "/todos/"+uuid.NewString(), `{"status":"nope"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid status", decodeEnvelope(t, w)["error"])
}

func TestPatchTaskNotFound(t *testing.T) {
	r := newTaskRouter(&mockTaskRepo{})

	w := doJSON(t, r, http.MethodPatch, "/todos/"+uuid.NewString(), `{"status":"done"}`)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteTask(t *testing.T) {
	deleted := uuid.New()
	repo := &mockTaskRepo{
		deleteFn: func(id uuid.UUID) (bool, error) {
			return id == deleted, nil
		},
	}
	r := newTaskRouter(repo)

	w := doJSON(t, r, http.MethodDelete, "/todos/"+deleted.String(), "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.Bytes())

	w = doJSON(t, r, http.MethodDelete, "/todos/"+uuid.NewString(), "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
