package query

import (
	"context"
	"errors"
	"fmt"

	"github.com/finwiss-hub/finwiss-learning-hub/internal/domain/activity"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET ACTIVITIES QUERY
// ══════════════════════════════════════════════════════════════════════════════

// DefaultActivityLimit bounds the feed when no limit is given.
const DefaultActivityLimit = 20

// GetActivitiesQuery contains the feed parameters.
type GetActivitiesQuery struct {
	UserID int64

	// Limit bounds the feed, newest-first (default 20).
	Limit int
}

// Validate checks and normalizes the query parameters.
func (q *GetActivitiesQuery) Validate() error {
	if q.UserID <= 0 {
		return errors.New("get_activities: user_id is required")
	}
	if q.Limit < 0 {
		return errors.New("get_activities: limit cannot be negative")
	}
	if q.Limit == 0 {
		q.Limit = DefaultActivityLimit
	}
	return nil
}

// GetActivitiesHandler handles the GetActivitiesQuery.
type GetActivitiesHandler struct {
	activities activity.Repository
}

// NewGetActivitiesHandler creates a new GetActivitiesHandler.
func NewGetActivitiesHandler(activities activity.Repository) *GetActivitiesHandler {
	return &GetActivitiesHandler{activities: activities}
}

// Handle returns the user's activity feed, newest-first.
func (h *GetActivitiesHandler) Handle(ctx context.Context, q GetActivitiesQuery) ([]*activity.Activity, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	entries, err := h.activities.GetByUser(ctx, q.UserID, q.Limit)
	if err != nil {
		return nil, fmt.Errorf("get_activities: %w", err)
	}
	return entries, nil
}
