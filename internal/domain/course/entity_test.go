package course

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finwiss-hub/finwiss-learning-hub/internal/domain/shared"
)

func TestApplyProgress_CompletesExactlyOnce(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	c := &Course{ID: 1, Title: "Aktien Grundlagen", TotalLessons: 5}
	uc := &UserCourse{UserID: 1, CourseID: 1, LessonsCompleted: 4}

	done, err := uc.ApplyProgress(5, c, now)
	require.NoError(t, err)
	assert.True(t, done)
	require.NotNil(t, uc.CompletedAt)
	assert.Equal(t, now, *uc.CompletedAt)

	// A repeated 5 -> 5 update is a no-op for completion.
	later := now.Add(time.Hour)
	done, err = uc.ApplyProgress(5, c, later)
	require.NoError(t, err)
	assert.False(t, done)
	assert.Equal(t, now, *uc.CompletedAt, "completedAt is set exactly once")

	// Progress beyond totalLessons never re-completes.
	done, err = uc.ApplyProgress(6, c, later)
	require.NoError(t, err)
	assert.False(t, done)
}

func TestApplyProgress_Validation(t *testing.T) {
	c := &Course{ID: 1, TotalLessons: 5}
	uc := &UserCourse{LessonsCompleted: 3}
	now := time.Now().UTC()

	_, err := uc.ApplyProgress(-1, c, now)
	assert.ErrorIs(t, err, shared.ErrNegativeValue)

	_, err = uc.ApplyProgress(2, c, now)
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
	assert.Equal(t, 3, uc.LessonsCompleted, "failed update leaves progress untouched")
}
