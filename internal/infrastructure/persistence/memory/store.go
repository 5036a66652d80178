// Package memory implements the in-memory persistence layer of FinWiss
// Learning Hub. Every aggregate gets a keyed map with monotonically
// increasing integer surrogate IDs, assigned at creation and never reused.
//
// The store is safe for concurrent map access but deliberately offers no
// lost-update protection: two concurrent mutations of the same user can
// both read the pre-mutation state and write stale increments. That race
// is an accepted limitation of the single-writer-per-request model.
package memory

import (
	"sync"
	"time"

	"github.com/finwiss-hub/finwiss-learning-hub/internal/domain/activity"
	"github.com/finwiss-hub/finwiss-learning-hub/internal/domain/badge"
	"github.com/finwiss-hub/finwiss-learning-hub/internal/domain/challenge"
	"github.com/finwiss-hub/finwiss-learning-hub/internal/domain/community"
	"github.com/finwiss-hub/finwiss-learning-hub/internal/domain/course"
	"github.com/finwiss-hub/finwiss-learning-hub/internal/domain/user"
)

// Store holds all entity collections behind one mutex. Repositories for
// each aggregate share the store; NewStore wires them together.
type Store struct {
	mu  sync.RWMutex
	now func() time.Time

	users          map[int64]*user.User
	badges         map[int64]*badge.Badge
	userBadges     map[int64]*badge.UserBadge
	challenges     map[int64]*challenge.Challenge
	userChallenges map[int64]*challenge.UserChallenge
	questions      map[int64]*community.Question
	answers        map[int64]*community.Answer
	courses        map[int64]*course.Course
	userCourses    map[int64]*course.UserCourse
	activities     map[int64]*activity.Activity

	seq map[string]int64
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the store's clock, used for timestamps the store
// assigns itself (activity entries, badge awards).
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// NewStore creates an empty store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		now:            func() time.Time { return time.Now().UTC() },
		users:          make(map[int64]*user.User),
		badges:         make(map[int64]*badge.Badge),
		userBadges:     make(map[int64]*badge.UserBadge),
		challenges:     make(map[int64]*challenge.Challenge),
		userChallenges: make(map[int64]*challenge.UserChallenge),
		questions:      make(map[int64]*community.Question),
		answers:        make(map[int64]*community.Answer),
		courses:        make(map[int64]*course.Course),
		userCourses:    make(map[int64]*course.UserCourse),
		activities:     make(map[int64]*activity.Activity),
		seq:            make(map[string]int64),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// nextID returns the next surrogate ID for a collection. IDs start at 1,
// only ever grow, and are never reused. Callers must hold the write lock.
func (s *Store) nextID(collection string) int64 {
	s.seq[collection]++
	return s.seq[collection]
}

// Users returns the user repository backed by this store.
func (s *Store) Users() user.Repository { return &UserRepository{store: s} }

// Badges returns the badge repository backed by this store.
func (s *Store) Badges() badge.Repository { return &BadgeRepository{store: s} }

// Challenges returns the challenge repository backed by this store.
func (s *Store) Challenges() challenge.Repository { return &ChallengeRepository{store: s} }

// Courses returns the course repository backed by this store.
func (s *Store) Courses() course.Repository { return &CourseRepository{store: s} }

// Community returns the Q&A repository backed by this store.
func (s *Store) Community() community.Repository { return &CommunityRepository{store: s} }

// Activities returns the activity ledger backed by this store.
func (s *Store) Activities() activity.Repository { return &ActivityRepository{store: s} }
