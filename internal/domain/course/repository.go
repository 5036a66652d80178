package course

import "context"

// Repository defines persistence operations for courses and progress.
type Repository interface {
	// CreateCourse inserts a course definition and assigns its ID.
	CreateCourse(ctx context.Context, c *Course) error

	// GetCourse returns a course by ID.
	GetCourse(ctx context.Context, id int64) (*Course, error)

	// GetCourses returns all course definitions.
	GetCourses(ctx context.Context) ([]*Course, error)

	// StartCourse creates a zero-progress record for the pair. Idempotent:
	// an already started course returns the existing record.
	StartCourse(ctx context.Context, userID, courseID int64) (*UserCourse, error)

	// GetUserCourse returns the progress record for the pair, or
	// shared.ErrCourseNotStarted when the user never started the course.
	GetUserCourse(ctx context.Context, userID, courseID int64) (*UserCourse, error)

	// SaveUserCourse persists a changed progress record.
	SaveUserCourse(ctx context.Context, uc *UserCourse) error

	// GetUserCourses returns the user's progress joined with courses.
	GetUserCourses(ctx context.Context, userID int64) ([]*WithCourse, error)

	// CountCompleted returns how many courses the user has completed.
	CountCompleted(ctx context.Context, userID int64) (int, error)
}
