package postgres

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestDistinctUUIDs(t *testing.T) {
	a := uuid.New()
	b := uuid.New()

	assert.Equal(t, []uuid.UUID{a, b}, distinctUUIDs([]uuid.UUID{a, b, a, a, b}))
	assert.Empty(t, distinctUUIDs(nil))
}
