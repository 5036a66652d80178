package postgres

import (
	"context"
	"fmt"

	"github.com/finwiss-hub/finwiss-learning-hub/internal/domain/course"
	"github.com/finwiss-hub/finwiss-learning-hub/internal/domain/shared"
)

// CourseRepository implements course.Repository on PostgreSQL.
type CourseRepository struct {
	db Querier
}

// NewCourseRepository creates a course repository.
func NewCourseRepository(db Querier) *CourseRepository {
	return &CourseRepository{db: db}
}

// CreateCourse inserts a course definition.
func (r *CourseRepository) CreateCourse(ctx context.Context, c *course.Course) error {
	query := `
		INSERT INTO courses (title, description, total_lessons)
		VALUES ($1, $2, $3)
		RETURNING id`

	err := r.db.QueryRow(ctx, query, c.Title, c.Description, c.TotalLessons).Scan(&c.ID)
	if err != nil {
		return fmt.Errorf("postgres: failed to create course: %w", err)
	}
	return nil
}

// GetCourse returns a course by ID.
func (r *CourseRepository) GetCourse(ctx context.Context, id int64) (*course.Course, error) {
	query := "SELECT id, title, description, total_lessons FROM courses WHERE id = $1"
	c := &course.Course{}
	err := r.db.QueryRow(ctx, query, id).Scan(&c.ID, &c.Title, &c.Description, &c.TotalLessons)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrCourseNotFound
		}
		return nil, fmt.Errorf("postgres: failed to get course: %w", err)
	}
	return c, nil
}

// GetCourses returns all course definitions ordered by ID.
func (r *CourseRepository) GetCourses(ctx context.Context) ([]*course.Course, error) {
	query := "SELECT id, title, description, total_lessons FROM courses ORDER BY id"

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to list courses: %w", err)
	}
	defer rows.Close()

	var courses []*course.Course
	for rows.Next() {
		c := &course.Course{}
		if err := rows.Scan(&c.ID, &c.Title, &c.Description, &c.TotalLessons); err != nil {
			return nil, fmt.Errorf("postgres: failed to scan course: %w", err)
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}

// StartCourse creates a zero-progress record, returning the existing one
// when the pair is already present.
func (r *CourseRepository) StartCourse(ctx context.Context, userID, courseID int64) (*course.UserCourse, error) {
	insert := `
		INSERT INTO user_courses (user_id, course_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, course_id) DO NOTHING`

	if _, err := r.db.Exec(ctx, insert, userID, courseID); err != nil {
		if IsForeignKeyViolation(err) {
			return nil, shared.ErrCourseNotFound
		}
		return nil, fmt.Errorf("postgres: failed to start course: %w", err)
	}

	return r.GetUserCourse(ctx, userID, courseID)
}

// GetUserCourse returns the progress record for the pair.
func (r *CourseRepository) GetUserCourse(ctx context.Context, userID, courseID int64) (*course.UserCourse, error) {
	query := `
		SELECT id, user_id, course_id, lessons_completed, started_at, completed_at
		FROM user_courses
		WHERE user_id = $1 AND course_id = $2`

	uc := &course.UserCourse{}
	err := r.db.QueryRow(ctx, query, userID, courseID).Scan(
		&uc.ID, &uc.UserID, &uc.CourseID, &uc.LessonsCompleted, &uc.StartedAt, &uc.CompletedAt,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrCourseNotStarted
		}
		return nil, fmt.Errorf("postgres: failed to get user course: %w", err)
	}
	return uc, nil
}

// SaveUserCourse persists a changed progress record.
func (r *CourseRepository) SaveUserCourse(ctx context.Context, uc *course.UserCourse) error {
	query := `
		UPDATE user_courses
		SET lessons_completed = $2, completed_at = $3
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, uc.ID, uc.LessonsCompleted, uc.CompletedAt)
	if err != nil {
		return fmt.Errorf("postgres: failed to save user course: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.NewDomainError("course", "Save", shared.ErrNotFound, "user course not found")
	}
	return nil
}

// GetUserCourses returns the user's progress joined with courses.
func (r *CourseRepository) GetUserCourses(ctx context.Context, userID int64) ([]*course.WithCourse, error) {
	query := `
		SELECT uc.id, uc.user_id, uc.course_id, uc.lessons_completed, uc.started_at, uc.completed_at,
		       c.id, c.title, c.description, c.total_lessons
		FROM user_courses uc
		JOIN courses c ON c.id = uc.course_id
		WHERE uc.user_id = $1
		ORDER BY uc.id`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to list user courses: %w", err)
	}
	defer rows.Close()

	var out []*course.WithCourse
	for rows.Next() {
		w := &course.WithCourse{}
		if err := rows.Scan(
			&w.ID, &w.UserID, &w.CourseID, &w.LessonsCompleted, &w.StartedAt, &w.CompletedAt,
			&w.Course.ID, &w.Course.Title, &w.Course.Description, &w.Course.TotalLessons,
		); err != nil {
			return nil, fmt.Errorf("postgres: failed to scan user course: %w", err)
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

// CountCompleted returns how many courses the user has completed.
func (r *CourseRepository) CountCompleted(ctx context.Context, userID int64) (int, error) {
	query := "SELECT COUNT(*) FROM user_courses WHERE user_id = $1 AND completed_at IS NOT NULL"

	var count int
	if err := r.db.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("postgres: failed to count completed courses: %w", err)
	}
	return count, nil
}
