// Package course contains course definitions and per-user progress.
package course

import (
	"time"

	"github.com/finwiss-hub/finwiss-learning-hub/internal/domain/shared"
)

// Course is a static definition. TotalLessons bounds progress.
type Course struct {
	ID           int64  `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	TotalLessons int    `json:"totalLessons"`
}

// UserCourse tracks one user's progress through one course.
// LessonsCompleted is monotonically non-decreasing; CompletedAt is set
// exactly once, the first time LessonsCompleted reaches TotalLessons.
// At most one per (UserID, CourseID).
type UserCourse struct {
	ID               int64      `json:"id"`
	UserID           int64      `json:"userId"`
	CourseID         int64      `json:"courseId"`
	LessonsCompleted int        `json:"lessonsCompleted"`
	StartedAt        time.Time  `json:"startedAt"`
	CompletedAt      *time.Time `json:"completedAt,omitempty"`
}

// IsCompleted reports whether the course was finished at some point.
func (uc *UserCourse) IsCompleted() bool {
	return uc.CompletedAt != nil
}

// ApplyProgress records a new lesson count. Returns true when this update
// completes the course for the first time, so the caller grants the
// completion bonus at most once.
func (uc *UserCourse) ApplyProgress(lessonsCompleted int, c *Course, now time.Time) (justCompleted bool, err error) {
	if lessonsCompleted < 0 {
		return false, shared.ErrNegativeLessons
	}
	if lessonsCompleted < uc.LessonsCompleted {
		return false, shared.ErrLessonsNotMonotone
	}

	wasCompleted := uc.LessonsCompleted >= c.TotalLessons
	uc.LessonsCompleted = lessonsCompleted

	if lessonsCompleted >= c.TotalLessons && !wasCompleted {
		uc.CompletedAt = &now
		return true, nil
	}
	return false, nil
}

// WithCourse pairs a progress record with its course for display.
type WithCourse struct {
	UserCourse
	Course Course `json:"course"`
}
