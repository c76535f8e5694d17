package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lalith-99/taskhub/internal/cache"
	"github.com/lalith-99/taskhub/internal/repository"
	"go.uber.org/zap"
)

// LookupHandler serves the reference lists with a short-TTL cache in front.
// Cache failures degrade to a plain DB read, never to an error response.
type LookupHandler struct {
	repo   repository.LookupRepository
	cache  *cache.Cache
	logger *zap.Logger
}

func NewLookupHandler(repo repository.LookupRepository, c *cache.Cache, logger *zap.Logger) *LookupHandler {
	return &LookupHandler{repo: repo, cache: c, logger: logger}
}

type userOut struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Name  string    `json:"name"`
}

// Users handles GET /users
func (h *LookupHandler) Users(c *gin.Context) {
	ctx := c.Request.Context()

	var out []userOut
	if hit := h.cacheGet(ctx, "lookup:users", &out); hit {
		c.JSON(http.StatusOK, out)
		return
	}

	users, err := h.repo.ListUsers(ctx)
	if err != nil {
		h.logger.Error("failed to list users", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "failed to list users")
		return
	}

	out = make([]userOut, 0, len(users))
	for _, u := range users {
		name := u.FirstName
		if u.LastName != nil {
			name = strings.TrimSpace(name + " " + *u.LastName)
		}
		out = append(out, userOut{ID: u.ID, Email: u.Email, Name: name})
	}

	h.cacheSet(ctx, "lookup:users", out)
	c.JSON(http.StatusOK, out)
}

// Tags handles GET /tags
func (h *LookupHandler) Tags(c *gin.Context) {
	h.list(c, "lookup:tags", func() (any, error) {
		return h.repo.ListTags(c.Request.Context())
	})
}

// Departments handles GET /departments
func (h *LookupHandler) Departments(c *gin.Context) {
	h.list(c, "lookup:departments", func() (any, error) {
		return h.repo.ListDepartments(c.Request.Context())
	})
}

// Roles handles GET /roles
func (h *LookupHandler) Roles(c *gin.Context) {
	h.list(c, "lookup:roles", func() (any, error) {
		return h.repo.ListRoles(c.Request.Context())
	})
}

func (h *LookupHandler) list(c *gin.Context, key string, load func() (any, error)) {
	ctx := c.Request.Context()

	var cached []map[string]any
	if hit := h.cacheGet(ctx, key, &cached); hit {
		c.JSON(http.StatusOK, cached)
		return
	}

	out, err := load()
	if err != nil {
		h.logger.Error("failed to load lookup list", zap.String("key", key), zap.Error(err))
		respondError(c, http.StatusInternalServerError, "failed to load list")
		return
	}

	h.cacheSet(ctx, key, out)
	c.JSON(http.StatusOK, out)
}

func (h *LookupHandler) cacheGet(ctx context.Context, key string, dest any) bool {
	hit, err := h.cache.Get(ctx, key, dest)
	if err != nil {
		h.logger.Warn("lookup cache read failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return hit
}

func (h *LookupHandler) cacheSet(ctx context.Context, key string, value any) {
	if err := h.cache.Set(ctx, key, value); err != nil {
		h.logger.Warn("lookup cache write failed", zap.String("key", key), zap.Error(err))
	}
}
