package query

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/finwiss-hub/finwiss-learning-hub/internal/domain/badge"
	"github.com/finwiss-hub/finwiss-learning-hub/internal/domain/user"
)

// ══════════════════════════════════════════════════════════════════════════════
// LIST BADGES QUERY
// The catalog joined with the user's awards, plus a display progress value
// for badges tied to live counters (streak, level).
// ══════════════════════════════════════════════════════════════════════════════

// ListBadgesQuery identifies the user.
type ListBadgesQuery struct {
	UserID int64
}

// Validate validates the query.
func (q ListBadgesQuery) Validate() error {
	if q.UserID <= 0 {
		return errors.New("list_badges: user_id is required")
	}
	return nil
}

// BadgeView is one catalog badge with the user's standing toward it.
type BadgeView struct {
	badge.Badge

	// Earned is true when the user holds this badge.
	Earned bool `json:"earned"`

	// EarnedAt is set only for earned badges.
	EarnedAt *time.Time `json:"earnedAt,omitempty"`

	// Progress is the display progress in [0, 1]; 1 for earned badges.
	Progress float64 `json:"progress"`
}

// ListBadgesResult contains the joined catalog.
type ListBadgesResult struct {
	Badges []BadgeView `json:"badges"`
}

// ListBadgesHandler handles the ListBadgesQuery.
type ListBadgesHandler struct {
	users  user.Repository
	badges badge.Repository
}

// NewListBadgesHandler creates a new ListBadgesHandler.
func NewListBadgesHandler(users user.Repository, badges badge.Repository) *ListBadgesHandler {
	return &ListBadgesHandler{users: users, badges: badges}
}

// Handle executes the list badges query.
func (h *ListBadgesHandler) Handle(ctx context.Context, q ListBadgesQuery) (*ListBadgesResult, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	u, err := h.users.GetByID(ctx, q.UserID)
	if err != nil {
		return nil, fmt.Errorf("list_badges: failed to get user: %w", err)
	}

	all, err := h.badges.GetBadges(ctx)
	if err != nil {
		return nil, fmt.Errorf("list_badges: failed to load badges: %w", err)
	}

	earned, err := h.badges.GetUserBadges(ctx, q.UserID)
	if err != nil {
		return nil, fmt.Errorf("list_badges: failed to load awards: %w", err)
	}
	earnedAt := make(map[int64]time.Time, len(earned))
	for _, e := range earned {
		earnedAt[e.BadgeID] = e.EarnedAt
	}

	views := make([]BadgeView, 0, len(all))
	for _, b := range all {
		v := BadgeView{Badge: *b}
		if at, ok := earnedAt[b.ID]; ok {
			v.Earned = true
			v.EarnedAt = &at
			v.Progress = 1
		} else {
			v.Progress = b.Progress(u.Streak, u.Level)
		}
		views = append(views, v)
	}

	return &ListBadgesResult{Badges: views}, nil
}
