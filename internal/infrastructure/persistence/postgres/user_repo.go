package postgres

import (
	"context"
	"fmt"

	"github.com/finwiss-hub/finwiss-learning-hub/internal/domain/shared"
	"github.com/finwiss-hub/finwiss-learning-hub/internal/domain/user"
)

// UserRepository implements user.Repository on PostgreSQL.
type UserRepository struct {
	db Querier
}

// NewUserRepository creates a user repository. db may be a pool or a
// transaction.
func NewUserRepository(db Querier) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = "id, username, password_hash, points, level, streak, last_login_at, created_at"

// Create inserts a new user and assigns its ID.
func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	query := `
		INSERT INTO users (username, password_hash, points, level, streak, last_login_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`

	err := r.db.QueryRow(ctx, query,
		u.Username, u.PasswordHash, u.Points, u.Level, u.Streak, u.LastLoginAt, u.CreatedAt,
	).Scan(&u.ID)
	if err != nil {
		if IsUniqueViolation(err) {
			return shared.ErrDuplicateUsername
		}
		return fmt.Errorf("postgres: failed to create user: %w", err)
	}
	return nil
}

// GetByID returns a user by internal ID.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*user.User, error) {
	query := "SELECT " + userColumns + " FROM users WHERE id = $1"
	return r.scanOne(r.db.QueryRow(ctx, query, id))
}

// GetByUsername returns a user by username.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	query := "SELECT " + userColumns + " FROM users WHERE username = $1"
	return r.scanOne(r.db.QueryRow(ctx, query, username))
}

// Update persists changed progression state.
func (r *UserRepository) Update(ctx context.Context, u *user.User) error {
	query := `
		UPDATE users
		SET points = $2, level = $3, streak = $4, last_login_at = $5
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, u.ID, u.Points, u.Level, u.Streak, u.LastLoginAt)
	if err != nil {
		return fmt.Errorf("postgres: failed to update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrUserNotFound
	}
	return nil
}

// GetAll returns all users ordered by ID.
func (r *UserRepository) GetAll(ctx context.Context) ([]*user.User, error) {
	query := "SELECT " + userColumns + " FROM users ORDER BY id"

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to list users: %w", err)
	}
	defer rows.Close()

	var users []*user.User
	for rows.Next() {
		u := &user.User{}
		if err := rows.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Points, &u.Level, &u.Streak, &u.LastLoginAt, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("postgres: failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *UserRepository) scanOne(row rowScanner) (*user.User, error) {
	u := &user.User{}
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Points, &u.Level, &u.Streak, &u.LastLoginAt, &u.CreatedAt)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrUserNotFound
		}
		return nil, fmt.Errorf("postgres: failed to scan user: %w", err)
	}
	return u, nil
}
