package memory

import (
	"context"
	"sort"

	"github.com/finwiss-hub/finwiss-learning-hub/internal/domain/course"
	"github.com/finwiss-hub/finwiss-learning-hub/internal/domain/shared"
)

// CourseRepository implements course.Repository on the in-memory store.
type CourseRepository struct {
	store *Store
}

// CreateCourse inserts a course definition.
func (r *CourseRepository) CreateCourse(ctx context.Context, c *course.Course) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	c.ID = s.nextID("courses")
	clone := *c
	s.courses[c.ID] = &clone
	return nil
}

// GetCourse returns a course by ID.
func (r *CourseRepository) GetCourse(ctx context.Context, id int64) (*course.Course, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.courses[id]
	if !ok {
		return nil, shared.ErrCourseNotFound
	}
	clone := *c
	return &clone, nil
}

// GetCourses returns all course definitions ordered by ID.
func (r *CourseRepository) GetCourses(ctx context.Context) ([]*course.Course, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*course.Course, 0, len(s.courses))
	for _, c := range s.courses {
		clone := *c
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// StartCourse creates a zero-progress record. Starting an already
// started course returns the existing record unchanged.
func (r *CourseRepository) StartCourse(ctx context.Context, userID, courseID int64) (*course.UserCourse, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.courses[courseID]; !ok {
		return nil, shared.ErrCourseNotFound
	}

	for _, uc := range s.userCourses {
		if uc.UserID == userID && uc.CourseID == courseID {
			clone := *uc
			return &clone, nil
		}
	}

	uc := &course.UserCourse{
		ID:        s.nextID("user_courses"),
		UserID:    userID,
		CourseID:  courseID,
		StartedAt: s.now(),
	}
	s.userCourses[uc.ID] = uc

	clone := *uc
	return &clone, nil
}

// GetUserCourse returns the progress record for the pair.
func (r *CourseRepository) GetUserCourse(ctx context.Context, userID, courseID int64) (*course.UserCourse, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, uc := range s.userCourses {
		if uc.UserID == userID && uc.CourseID == courseID {
			clone := *uc
			return &clone, nil
		}
	}
	return nil, shared.ErrCourseNotStarted
}

// SaveUserCourse persists a changed progress record.
func (r *CourseRepository) SaveUserCourse(ctx context.Context, uc *course.UserCourse) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.userCourses[uc.ID]; !ok {
		return shared.NewDomainError("course", "Save", shared.ErrNotFound, "user course not found")
	}
	clone := *uc
	s.userCourses[uc.ID] = &clone
	return nil
}

// GetUserCourses returns the user's progress joined with courses.
func (r *CourseRepository) GetUserCourses(ctx context.Context, userID int64) ([]*course.WithCourse, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*course.WithCourse, 0)
	for _, uc := range s.userCourses {
		if uc.UserID != userID {
			continue
		}
		c, ok := s.courses[uc.CourseID]
		if !ok {
			continue
		}
		out = append(out, &course.WithCourse{UserCourse: *uc, Course: *c})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// CountCompleted returns how many courses the user has completed.
func (r *CourseRepository) CountCompleted(ctx context.Context, userID int64) (int, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, uc := range s.userCourses {
		if uc.UserID == userID && uc.CompletedAt != nil {
			count++
		}
	}
	return count, nil
}
