package entity_test

import (
	"testing"
	"time"

	"github.com/blogward/blogward-backend/internal/domain/entity"
	"github.com/stretchr/testify/require"
)

func TestStaleDetectsConcurrentEdit(t *testing.T) {
	now := time.Now()
	content := entity.Content{Updated: now}

	require.False(t, content.Stale(now), "an edit based on the current revision is fine")
	require.False(t, content.Stale(now.Add(time.Second)))
	require.True(t, content.Stale(now.Add(-time.Second)), "an edit based on an older revision is stale")
}

func TestCountEditTracksWordDelta(t *testing.T) {
	content := entity.Content{Body: "one two three"}

	content.CountEdit("one two three four five")
	require.Equal(t, 1, content.EditCount)
	require.Equal(t, 2, content.WordDelta)

	content.Body = "one two three four five"
	content.CountEdit("one")
	require.Equal(t, 2, content.EditCount)
	require.Equal(t, -2, content.WordDelta)
}
