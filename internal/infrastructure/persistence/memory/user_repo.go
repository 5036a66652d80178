package memory

import (
	"context"
	"sort"

	"github.com/finwiss-hub/finwiss-learning-hub/internal/domain/shared"
	"github.com/finwiss-hub/finwiss-learning-hub/internal/domain/user"
)

// UserRepository implements user.Repository on the in-memory store.
type UserRepository struct {
	store *Store
}

func cloneUser(u *user.User) *user.User {
	c := *u
	return &c
}

// Create inserts a new user, rejecting duplicate usernames.
func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Username == u.Username {
			return shared.ErrDuplicateUsername
		}
	}

	u.ID = s.nextID("users")
	s.users[u.ID] = cloneUser(u)
	return nil
}

// GetByID returns a user by internal ID.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*user.User, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, shared.ErrUserNotFound
	}
	return cloneUser(u), nil
}

// GetByUsername returns a user by username.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, shared.ErrUserNotFound
}

// Update persists a changed user. Last write wins.
func (r *UserRepository) Update(ctx context.Context, u *user.User) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[u.ID]; !ok {
		return shared.ErrUserNotFound
	}
	s.users[u.ID] = cloneUser(u)
	return nil
}

// GetAll returns all users ordered by ID ascending (insertion order).
func (r *UserRepository) GetAll(ctx context.Context) ([]*user.User, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*user.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, cloneUser(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
