package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTaskStatus(t *testing.T) {
	for _, s := range []string{"todo", "in_progress", "blocked", "done", "cancelled"} {
		got, err := ParseTaskStatus(s)
		require.NoError(t, err, s)
		assert.Equal(t, TaskStatus(s), got)
	}

	for _, s := range []string{"", "DONE", "in-progress", "finished"} {
		_, err := ParseTaskStatus(s)
		assert.Error(t, err, s)
	}
}

func TestParseTaskPriority(t *testing.T) {
	for _, s := range []string{"low", "normal", "high", "urgent"} {
		got, err := ParseTaskPriority(s)
		require.NoError(t, err, s)
		assert.Equal(t, TaskPriority(s), got)
	}

	for _, s := range []string{"", "critical", "Normal"} {
		_, err := ParseTaskPriority(s)
		assert.Error(t, err, s)
	}
}
