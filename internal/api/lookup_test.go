package api

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lalith-99/taskhub/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockLookupRepo struct {
	users []models.User
	tags  []models.Tag
}

func (m *mockLookupRepo) ListUsers(context.Context) ([]models.User, error) {
	return m.users, nil
}

func (m *mockLookupRepo) ListTags(context.Context) ([]models.Tag, error) {
	return m.tags, nil
}

func (m *mockLookupRepo) ListDepartments(context.Context) ([]models.Department, error) {
	return []models.Department{}, nil
}

func (m *mockLookupRepo) ListRoles(context.Context) ([]models.Role, error) {
	return []models.Role{}, nil
}

func newLookupRouter(repo *mockLookupRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewLookupHandler(repo, nil, zap.NewNop()) // nil cache: always a miss

	r := gin.New()
	r.GET("/users", h.Users)
	r.GET("/tags", h.Tags)
	return r
}

func TestLookupUsersJoinsName(t *testing.T) {
	last := "Sridharr"
	repo := &mockLookupRepo{
		users: []models.User{
			{ID: uuid.New(), FirstName: "Medhini", LastName: &last, Email: "medhini@example.com"},
			{ID: uuid.New(), FirstName: "Solo", Email: "solo@example.com"},
		},
	}
	r := newLookupRouter(repo)

	w := doJSON(t, r, http.MethodGet, "/users", "")
	require.Equal(t, http.StatusOK, w.Code)

	var out []struct {
		ID    uuid.UUID `json:"id"`
		Email string    `json:"email"`
		Name  string    `json:"name"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	require.Len(t, out, 2)
	assert.Equal(t, "Medhini Sridharr", out[0].Name)
	assert.Equal(t, "Solo", out[1].Name)
}

func TestLookupTags(t *testing.T) {
	repo := &mockLookupRepo{
		tags: []models.Tag{{ID: uuid.New(), Name: "backend"}},
	}
	r := newLookupRouter(repo)

	w := doJSON(t, r, http.MethodGet, "/tags", "")
	require.Equal(t, http.StatusOK, w.Code)

	var out []models.Tag
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	require.Len(t, out, 1)
	assert.Equal(t, "backend", out[0].Name)
}
