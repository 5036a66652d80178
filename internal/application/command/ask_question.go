package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/finwiss-hub/finwiss-learning-hub/internal/domain/activity"
	"github.com/finwiss-hub/finwiss-learning-hub/internal/domain/badge"
	"github.com/finwiss-hub/finwiss-learning-hub/internal/domain/community"
	"github.com/finwiss-hub/finwiss-learning-hub/internal/domain/progression"
	"github.com/finwiss-hub/finwiss-learning-hub/internal/domain/user"
	"github.com/finwiss-hub/finwiss-learning-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// ASK QUESTION COMMAND
// ══════════════════════════════════════════════════════════════════════════════

// AskQuestionCommand contains the data to post a question.
type AskQuestionCommand struct {
	UserID  int64
	Title   string
	Content string
	Tags    []string
}

// Validate validates the command.
func (c AskQuestionCommand) Validate() error {
	if c.UserID <= 0 {
		return errors.New("ask_question: user_id is required")
	}
	return nil
}

// AskQuestionResult contains the created question and the updated user.
type AskQuestionResult struct {
	Question *community.Question
	User     *user.User
}

// AskQuestionHandler handles the AskQuestionCommand.
type AskQuestionHandler struct {
	users     user.Repository
	community community.Repository
	applier   *Applier
	now       func() time.Time
}

// NewAskQuestionHandler creates a new AskQuestionHandler.
func NewAskQuestionHandler(
	users user.Repository,
	comm community.Repository,
	badges badge.Repository,
	activities activity.Repository,
	log *logger.Logger,
	now func() time.Time,
) *AskQuestionHandler {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &AskQuestionHandler{
		users:     users,
		community: comm,
		applier:   NewApplier(badges, activities, log),
		now:       now,
	}
}

// Handle executes the ask question command: creates the question, grants
// the fixed point reward and recomputes the level.
func (h *AskQuestionHandler) Handle(ctx context.Context, cmd AskQuestionCommand) (*AskQuestionResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	u, err := h.users.GetByID(ctx, cmd.UserID)
	if err != nil {
		return nil, fmt.Errorf("ask_question: failed to get user: %w", err)
	}

	q, err := community.NewQuestion(cmd.UserID, cmd.Title, cmd.Content, cmd.Tags, h.now())
	if err != nil {
		return nil, err
	}
	if err := h.community.CreateQuestion(ctx, q); err != nil {
		return nil, fmt.Errorf("ask_question: failed to create question: %w", err)
	}

	if err := u.AddPoints(progression.PointsAskQuestion); err != nil {
		return nil, err
	}

	effects := progression.OnQuestionAsked(q.ID)
	effects = append(effects, progression.OnPointsChanged(u.Level, u.Points)...)
	if err := h.applier.Apply(ctx, u, effects); err != nil {
		return nil, err
	}

	if err := h.users.Update(ctx, u); err != nil {
		return nil, fmt.Errorf("ask_question: failed to update user: %w", err)
	}

	return &AskQuestionResult{Question: q, User: u}, nil
}
