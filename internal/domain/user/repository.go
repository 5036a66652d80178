package user

import "context"

// Repository defines persistence operations for users.
// Implementations: in-memory store, PostgreSQL.
type Repository interface {
	// Create inserts a new user and assigns its ID.
	// Returns shared.ErrDuplicateUsername on a username conflict.
	Create(ctx context.Context, u *User) error

	// GetByID returns a user by internal ID.
	GetByID(ctx context.Context, id int64) (*User, error)

	// GetByUsername returns a user by username.
	GetByUsername(ctx context.Context, username string) (*User, error)

	// Update persists changed progression state (points, level, streak, last login).
	// Returns shared.ErrUserNotFound for a missing ID.
	Update(ctx context.Context, u *User) error

	// GetAll returns all users. The user base is bounded by design; no pagination.
	GetAll(ctx context.Context) ([]*User, error)
}
