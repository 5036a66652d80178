package query

import (
	"context"
	"errors"
	"fmt"

	"github.com/finwiss-hub/finwiss-learning-hub/internal/domain/user"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET CURRENT USER QUERY
// ══════════════════════════════════════════════════════════════════════════════

// GetCurrentUserQuery identifies the authenticated user.
type GetCurrentUserQuery struct {
	UserID int64
}

// Validate validates the query.
func (q GetCurrentUserQuery) Validate() error {
	if q.UserID <= 0 {
		return errors.New("get_current_user: user_id is required")
	}
	return nil
}

// GetCurrentUserHandler handles the GetCurrentUserQuery.
type GetCurrentUserHandler struct {
	users user.Repository
}

// NewGetCurrentUserHandler creates a new GetCurrentUserHandler.
func NewGetCurrentUserHandler(users user.Repository) *GetCurrentUserHandler {
	return &GetCurrentUserHandler{users: users}
}

// Handle returns the user's profile and progression state.
func (h *GetCurrentUserHandler) Handle(ctx context.Context, q GetCurrentUserQuery) (*user.User, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	u, err := h.users.GetByID(ctx, q.UserID)
	if err != nil {
		return nil, fmt.Errorf("get_current_user: %w", err)
	}
	return u, nil
}
