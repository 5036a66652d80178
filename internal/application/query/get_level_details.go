package query

import (
	"context"
	"errors"
	"fmt"

	"github.com/finwiss-hub/finwiss-learning-hub/internal/domain/progression"
	"github.com/finwiss-hub/finwiss-learning-hub/internal/domain/user"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET LEVEL DETAILS QUERY
// ══════════════════════════════════════════════════════════════════════════════

// GetLevelDetailsQuery identifies the user.
type GetLevelDetailsQuery struct {
	UserID int64
}

// Validate validates the query.
func (q GetLevelDetailsQuery) Validate() error {
	if q.UserID <= 0 {
		return errors.New("get_level_details: user_id is required")
	}
	return nil
}

// GetLevelDetailsHandler handles the GetLevelDetailsQuery.
type GetLevelDetailsHandler struct {
	users user.Repository
}

// NewGetLevelDetailsHandler creates a new GetLevelDetailsHandler.
func NewGetLevelDetailsHandler(users user.Repository) *GetLevelDetailsHandler {
	return &GetLevelDetailsHandler{users: users}
}

// Handle returns the user's position inside their current level.
func (h *GetLevelDetailsHandler) Handle(ctx context.Context, q GetLevelDetailsQuery) (*progression.LevelDetails, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	u, err := h.users.GetByID(ctx, q.UserID)
	if err != nil {
		return nil, fmt.Errorf("get_level_details: failed to get user: %w", err)
	}

	details := progression.ComputeLevelDetails(u.Level, u.Points)
	return &details, nil
}
