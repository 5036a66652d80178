package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/finwiss-hub/finwiss-learning-hub/internal/domain/activity"
	"github.com/finwiss-hub/finwiss-learning-hub/internal/domain/badge"
	"github.com/finwiss-hub/finwiss-learning-hub/internal/domain/challenge"
	"github.com/finwiss-hub/finwiss-learning-hub/internal/domain/progression"
	"github.com/finwiss-hub/finwiss-learning-hub/internal/domain/user"
	"github.com/finwiss-hub/finwiss-learning-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// COMPLETE CHALLENGE COMMAND
// Completion is a one-way transition; repeating it changes nothing and
// grants no further points.
// ══════════════════════════════════════════════════════════════════════════════

// CompleteChallengeCommand contains the data to complete a challenge.
type CompleteChallengeCommand struct {
	UserID      int64
	ChallengeID int64
}

// Validate validates the command.
func (c CompleteChallengeCommand) Validate() error {
	if c.UserID <= 0 {
		return errors.New("complete_challenge: user_id is required")
	}
	if c.ChallengeID <= 0 {
		return errors.New("complete_challenge: challenge_id is required")
	}
	return nil
}

// CompleteChallengeResult contains the updated records.
type CompleteChallengeResult struct {
	UserChallenge *challenge.UserChallenge
	User          *user.User

	// AlreadyCompleted is true when the challenge had been completed
	// before and this call changed nothing.
	AlreadyCompleted bool

	// PointsAwarded is the reward granted by this call, zero on repeats.
	PointsAwarded int
}

// CompleteChallengeHandler handles the CompleteChallengeCommand.
type CompleteChallengeHandler struct {
	users      user.Repository
	challenges challenge.Repository
	applier    *Applier
	now        func() time.Time
}

// NewCompleteChallengeHandler creates a new CompleteChallengeHandler.
func NewCompleteChallengeHandler(
	users user.Repository,
	challenges challenge.Repository,
	badges badge.Repository,
	activities activity.Repository,
	log *logger.Logger,
	now func() time.Time,
) *CompleteChallengeHandler {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &CompleteChallengeHandler{
		users:      users,
		challenges: challenges,
		applier:    NewApplier(badges, activities, log),
		now:        now,
	}
}

// Handle executes the complete challenge command.
func (h *CompleteChallengeHandler) Handle(ctx context.Context, cmd CompleteChallengeCommand) (*CompleteChallengeResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	u, err := h.users.GetByID(ctx, cmd.UserID)
	if err != nil {
		return nil, fmt.Errorf("complete_challenge: failed to get user: %w", err)
	}

	ch, err := h.challenges.GetChallenge(ctx, cmd.ChallengeID)
	if err != nil {
		return nil, err
	}

	uc, err := h.challenges.GetOrCreateUserChallenge(ctx, cmd.UserID, cmd.ChallengeID)
	if err != nil {
		return nil, err
	}

	if !uc.Complete(h.now()) {
		return &CompleteChallengeResult{
			UserChallenge:    uc,
			User:             u,
			AlreadyCompleted: true,
		}, nil
	}

	if err := h.challenges.SaveUserChallenge(ctx, uc); err != nil {
		return nil, fmt.Errorf("complete_challenge: failed to save: %w", err)
	}

	if err := u.AddPoints(ch.PointsReward); err != nil {
		return nil, err
	}

	effects := progression.OnChallengeCompleted(ch.ID, ch.Title, ch.PointsReward)
	effects = append(effects, progression.OnPointsChanged(u.Level, u.Points)...)
	if err := h.applier.Apply(ctx, u, effects); err != nil {
		return nil, err
	}

	if err := h.users.Update(ctx, u); err != nil {
		return nil, fmt.Errorf("complete_challenge: failed to update user: %w", err)
	}

	return &CompleteChallengeResult{
		UserChallenge: uc,
		User:          u,
		PointsAwarded: ch.PointsReward,
	}, nil
}
