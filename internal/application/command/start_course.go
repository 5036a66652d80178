package command

import (
	"context"
	"errors"

	"github.com/finwiss-hub/finwiss-learning-hub/internal/domain/course"
)

// ══════════════════════════════════════════════════════════════════════════════
// START COURSE COMMAND
// Starting is idempotent and grants no points.
// ══════════════════════════════════════════════════════════════════════════════

// StartCourseCommand contains the data to start a course.
type StartCourseCommand struct {
	UserID   int64
	CourseID int64
}

// Validate validates the command.
func (c StartCourseCommand) Validate() error {
	if c.UserID <= 0 {
		return errors.New("start_course: user_id is required")
	}
	if c.CourseID <= 0 {
		return errors.New("start_course: course_id is required")
	}
	return nil
}

// StartCourseResult contains the progress record and the course definition.
type StartCourseResult struct {
	UserCourse *course.UserCourse
	Course     *course.Course
}

// StartCourseHandler handles the StartCourseCommand.
type StartCourseHandler struct {
	courses course.Repository
}

// NewStartCourseHandler creates a new StartCourseHandler.
func NewStartCourseHandler(courses course.Repository) *StartCourseHandler {
	return &StartCourseHandler{courses: courses}
}

// Handle executes the start course command.
func (h *StartCourseHandler) Handle(ctx context.Context, cmd StartCourseCommand) (*StartCourseResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	c, err := h.courses.GetCourse(ctx, cmd.CourseID)
	if err != nil {
		return nil, err
	}

	uc, err := h.courses.StartCourse(ctx, cmd.UserID, cmd.CourseID)
	if err != nil {
		return nil, err
	}

	return &StartCourseResult{UserCourse: uc, Course: c}, nil
}
