package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/finwiss-hub/finwiss-learning-hub/internal/domain/activity"
	"github.com/finwiss-hub/finwiss-learning-hub/internal/domain/badge"
	"github.com/finwiss-hub/finwiss-learning-hub/internal/domain/course"
	"github.com/finwiss-hub/finwiss-learning-hub/internal/domain/progression"
	"github.com/finwiss-hub/finwiss-learning-hub/internal/domain/user"
	"github.com/finwiss-hub/finwiss-learning-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// UPDATE COURSE PROGRESS COMMAND
// Lesson counts only move forward. The completion bonus is granted exactly
// once, on the update that first reaches the course's lesson total.
// ══════════════════════════════════════════════════════════════════════════════

// UpdateCourseProgressCommand contains the new lesson count.
type UpdateCourseProgressCommand struct {
	UserID           int64
	CourseID         int64
	LessonsCompleted int
}

// Validate validates the command.
func (c UpdateCourseProgressCommand) Validate() error {
	if c.UserID <= 0 {
		return errors.New("update_course_progress: user_id is required")
	}
	if c.CourseID <= 0 {
		return errors.New("update_course_progress: course_id is required")
	}
	return nil
}

// UpdateCourseProgressResult contains the updated records.
type UpdateCourseProgressResult struct {
	UserCourse *course.UserCourse
	User       *user.User

	// JustCompleted is true when this update completed the course for
	// the first time and the bonus was granted.
	JustCompleted bool
}

// UpdateCourseProgressHandler handles the UpdateCourseProgressCommand.
type UpdateCourseProgressHandler struct {
	users   user.Repository
	courses course.Repository
	applier *Applier
	now     func() time.Time
}

// NewUpdateCourseProgressHandler creates a new UpdateCourseProgressHandler.
func NewUpdateCourseProgressHandler(
	users user.Repository,
	courses course.Repository,
	badges badge.Repository,
	activities activity.Repository,
	log *logger.Logger,
	now func() time.Time,
) *UpdateCourseProgressHandler {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &UpdateCourseProgressHandler{
		users:   users,
		courses: courses,
		applier: NewApplier(badges, activities, log),
		now:     now,
	}
}

// Handle executes the update course progress command. The course must have
// been started first.
func (h *UpdateCourseProgressHandler) Handle(ctx context.Context, cmd UpdateCourseProgressCommand) (*UpdateCourseProgressResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	u, err := h.users.GetByID(ctx, cmd.UserID)
	if err != nil {
		return nil, fmt.Errorf("update_course_progress: failed to get user: %w", err)
	}

	c, err := h.courses.GetCourse(ctx, cmd.CourseID)
	if err != nil {
		return nil, err
	}

	uc, err := h.courses.GetUserCourse(ctx, cmd.UserID, cmd.CourseID)
	if err != nil {
		return nil, err
	}

	justCompleted, err := uc.ApplyProgress(cmd.LessonsCompleted, c, h.now())
	if err != nil {
		return nil, err
	}
	if err := h.courses.SaveUserCourse(ctx, uc); err != nil {
		return nil, fmt.Errorf("update_course_progress: failed to save: %w", err)
	}

	if !justCompleted {
		return &UpdateCourseProgressResult{UserCourse: uc, User: u}, nil
	}

	completedCourses, err := h.courses.CountCompleted(ctx, cmd.UserID)
	if err != nil {
		return nil, fmt.Errorf("update_course_progress: failed to count completed: %w", err)
	}

	if err := u.AddPoints(progression.PointsCompleteCourse); err != nil {
		return nil, err
	}

	effects := progression.OnCourseCompleted(c.ID, c.Title, completedCourses)
	effects = append(effects, progression.OnPointsChanged(u.Level, u.Points)...)
	if err := h.applier.Apply(ctx, u, effects); err != nil {
		return nil, err
	}

	if err := h.users.Update(ctx, u); err != nil {
		return nil, fmt.Errorf("update_course_progress: failed to update user: %w", err)
	}

	return &UpdateCourseProgressResult{UserCourse: uc, User: u, JustCompleted: true}, nil
}
