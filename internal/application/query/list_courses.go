package query

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/finwiss-hub/finwiss-learning-hub/internal/domain/course"
)

// ══════════════════════════════════════════════════════════════════════════════
// LIST COURSES QUERY
// The catalog joined with the user's progress. Unstarted courses appear
// with Started=false and zero lessons.
// ══════════════════════════════════════════════════════════════════════════════

// ListCoursesQuery identifies the user.
type ListCoursesQuery struct {
	UserID int64
}

// Validate validates the query.
func (q ListCoursesQuery) Validate() error {
	if q.UserID <= 0 {
		return errors.New("list_courses: user_id is required")
	}
	return nil
}

// CourseView is one catalog course with the user's progress.
type CourseView struct {
	course.Course

	// Started is true when the user has a progress record.
	Started bool `json:"started"`

	// LessonsCompleted is the user's lesson count, 0 when not started.
	LessonsCompleted int `json:"lessonsCompleted"`

	// Completed is true when the user finished all lessons.
	Completed bool `json:"completed"`

	// CompletedAt is when the course was first completed.
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// ListCoursesResult contains the joined catalog.
type ListCoursesResult struct {
	Courses []CourseView `json:"courses"`
}

// ListCoursesHandler handles the ListCoursesQuery.
type ListCoursesHandler struct {
	courses course.Repository
}

// NewListCoursesHandler creates a new ListCoursesHandler.
func NewListCoursesHandler(courses course.Repository) *ListCoursesHandler {
	return &ListCoursesHandler{courses: courses}
}

// Handle executes the list courses query.
func (h *ListCoursesHandler) Handle(ctx context.Context, q ListCoursesQuery) (*ListCoursesResult, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	all, err := h.courses.GetCourses(ctx)
	if err != nil {
		return nil, fmt.Errorf("list_courses: failed to load courses: %w", err)
	}

	records, err := h.courses.GetUserCourses(ctx, q.UserID)
	if err != nil {
		return nil, fmt.Errorf("list_courses: failed to load user records: %w", err)
	}
	byCourse := make(map[int64]*course.WithCourse, len(records))
	for _, r := range records {
		byCourse[r.CourseID] = r
	}

	views := make([]CourseView, 0, len(all))
	for _, c := range all {
		v := CourseView{Course: *c}
		if r, ok := byCourse[c.ID]; ok {
			v.Started = true
			v.LessonsCompleted = r.LessonsCompleted
			v.Completed = r.IsCompleted()
			v.CompletedAt = r.CompletedAt
		}
		views = append(views, v)
	}

	return &ListCoursesResult{Courses: views}, nil
}
