package entity_test

import (
	"errors"
	"testing"
	"time"

	"github.com/blogward/blogward-backend/internal/domain/entity"
	"github.com/stretchr/testify/require"
)

func TestRunningRespectsWindow(t *testing.T) {
	window := time.Minute

	fresh := entity.Publish{Started: time.Now()}
	require.True(t, fresh.Running(window))

	crashed := entity.Publish{Started: time.Now().Add(-2 * time.Minute)}
	require.False(t, crashed.Running(window), "a record past the window no longer blocks admissions")

	finished := time.Now()
	done := entity.Publish{Started: time.Now(), Finished: &finished}
	require.False(t, done.Running(window))
}

func TestFinishIsTerminal(t *testing.T) {
	record := entity.Publish{Started: time.Now()}

	record.Finish(errors.New("generator exited with status 1"))
	require.NotNil(t, record.Finished)
	require.NotNil(t, record.Success)
	require.False(t, *record.Success)
	require.Equal(t, "generator exited with status 1", record.Message)

	firstFinished := *record.Finished
	record.Finish(nil)
	require.Equal(t, firstFinished, *record.Finished, "terminal state is written once")
	require.False(t, *record.Success)
}
