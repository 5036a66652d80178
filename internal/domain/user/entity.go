// Package user contains the user aggregate of FinWiss Learning Hub.
// This is the core of the progression state - points, level, streak.
package user

import (
	"strings"
	"time"

	"github.com/finwiss-hub/finwiss-learning-hub/internal/domain/shared"
)

// Username represents a unique user login name.
type Username string

// IsValid checks the username for length and whitespace.
func (u Username) IsValid() bool {
	s := string(u)
	return len(s) >= 3 && len(s) <= 50 && !strings.ContainsAny(s, " \t\n\r")
}

// String returns the string representation of the username.
func (u Username) String() string {
	return string(u)
}

// User is the central aggregate. Points only ever grow; Level is derived
// from Points; Streak counts consecutive login days.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Points       int       `json:"points"`
	Level        int       `json:"level"`
	Streak       int       `json:"streak"`
	LastLoginAt  time.Time `json:"lastLoginDate"`
	CreatedAt    time.Time `json:"createdAt"`
}

// New creates a fresh user with zero progression state.
func New(username, passwordHash string, now time.Time) (*User, error) {
	if !Username(username).IsValid() {
		return nil, shared.NewDomainError("user", "Create", shared.ErrInvalidInput, "username must be 3-50 characters without whitespace")
	}
	if passwordHash == "" {
		return nil, shared.NewDomainError("user", "Create", shared.ErrEmptyValue, "password hash is required")
	}

	return &User{
		Username:     username,
		PasswordHash: passwordHash,
		Points:       0,
		Level:        1,
		Streak:       0,
		LastLoginAt:  now,
		CreatedAt:    now,
	}, nil
}

// AddPoints increases the point total. Points are monotonic; a negative
// delta is a programming error and is rejected.
func (u *User) AddPoints(delta int) error {
	if delta < 0 {
		return shared.NewDomainError("user", "AddPoints", shared.ErrNegativeValue, "points can only increase")
	}
	u.Points += delta
	return nil
}

// Validate checks aggregate invariants.
func (u *User) Validate() error {
	if !Username(u.Username).IsValid() {
		return shared.NewDomainError("user", "Validate", shared.ErrInvalidInput, "invalid username")
	}
	if u.Points < 0 {
		return shared.NewDomainError("user", "Validate", shared.ErrNegativeValue, "points cannot be negative")
	}
	if u.Level < 1 {
		return shared.NewDomainError("user", "Validate", shared.ErrInvalidInput, "level must be at least 1")
	}
	if u.Streak < 0 {
		return shared.NewDomainError("user", "Validate", shared.ErrNegativeValue, "streak cannot be negative")
	}
	return nil
}
