package query

import (
	"context"
	"errors"
	"fmt"

	"github.com/finwiss-hub/finwiss-learning-hub/internal/domain/challenge"
)

// ══════════════════════════════════════════════════════════════════════════════
// LIST CHALLENGES QUERY
// The catalog joined with the user's completion state. Challenges the user
// never touched appear as not completed.
// ══════════════════════════════════════════════════════════════════════════════

// ListChallengesQuery identifies the user.
type ListChallengesQuery struct {
	UserID int64
}

// Validate validates the query.
func (q ListChallengesQuery) Validate() error {
	if q.UserID <= 0 {
		return errors.New("list_challenges: user_id is required")
	}
	return nil
}

// ChallengeView is one catalog challenge with the user's completion state.
type ChallengeView struct {
	challenge.Challenge

	// Completed is true when the user has completed this challenge.
	Completed bool `json:"completed"`
}

// ListChallengesResult contains the joined catalog.
type ListChallengesResult struct {
	Challenges []ChallengeView `json:"challenges"`
}

// ListChallengesHandler handles the ListChallengesQuery.
type ListChallengesHandler struct {
	challenges challenge.Repository
}

// NewListChallengesHandler creates a new ListChallengesHandler.
func NewListChallengesHandler(challenges challenge.Repository) *ListChallengesHandler {
	return &ListChallengesHandler{challenges: challenges}
}

// Handle executes the list challenges query.
func (h *ListChallengesHandler) Handle(ctx context.Context, q ListChallengesQuery) (*ListChallengesResult, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	all, err := h.challenges.GetChallenges(ctx)
	if err != nil {
		return nil, fmt.Errorf("list_challenges: failed to load challenges: %w", err)
	}

	records, err := h.challenges.GetUserChallenges(ctx, q.UserID)
	if err != nil {
		return nil, fmt.Errorf("list_challenges: failed to load user records: %w", err)
	}
	completed := make(map[int64]bool, len(records))
	for _, r := range records {
		if r.Completed {
			completed[r.ChallengeID] = true
		}
	}

	views := make([]ChallengeView, 0, len(all))
	for _, c := range all {
		views = append(views, ChallengeView{Challenge: *c, Completed: completed[c.ID]})
	}

	return &ListChallengesResult{Challenges: views}, nil
}
