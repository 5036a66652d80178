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
// ANSWER QUESTION COMMAND
// ══════════════════════════════════════════════════════════════════════════════

// AnswerQuestionCommand contains the data to post an answer.
type AnswerQuestionCommand struct {
	UserID     int64
	QuestionID int64
	Content    string
}

// Validate validates the command.
func (c AnswerQuestionCommand) Validate() error {
	if c.UserID <= 0 {
		return errors.New("answer_question: user_id is required")
	}
	if c.QuestionID <= 0 {
		return errors.New("answer_question: question_id is required")
	}
	return nil
}

// AnswerQuestionResult contains the created answer and the updated user.
type AnswerQuestionResult struct {
	Answer *community.Answer
	User   *user.User
}

// AnswerQuestionHandler handles the AnswerQuestionCommand.
type AnswerQuestionHandler struct {
	users     user.Repository
	community community.Repository
	applier   *Applier
	now       func() time.Time
}

// NewAnswerQuestionHandler creates a new AnswerQuestionHandler.
func NewAnswerQuestionHandler(
	users user.Repository,
	comm community.Repository,
	badges badge.Repository,
	activities activity.Repository,
	log *logger.Logger,
	now func() time.Time,
) *AnswerQuestionHandler {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &AnswerQuestionHandler{
		users:     users,
		community: comm,
		applier:   NewApplier(badges, activities, log),
		now:       now,
	}
}

// Handle executes the answer question command. The question must exist.
// The user's all-time answer count is checked against the badge threshold
// after the answer is stored.
func (h *AnswerQuestionHandler) Handle(ctx context.Context, cmd AnswerQuestionCommand) (*AnswerQuestionResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	u, err := h.users.GetByID(ctx, cmd.UserID)
	if err != nil {
		return nil, fmt.Errorf("answer_question: failed to get user: %w", err)
	}

	if _, err := h.community.GetQuestion(ctx, cmd.QuestionID); err != nil {
		return nil, err
	}

	a, err := community.NewAnswer(cmd.UserID, cmd.QuestionID, cmd.Content, h.now())
	if err != nil {
		return nil, err
	}
	if err := h.community.CreateAnswer(ctx, a); err != nil {
		return nil, fmt.Errorf("answer_question: failed to create answer: %w", err)
	}

	totalAnswers, err := h.community.CountAnswersByUser(ctx, cmd.UserID)
	if err != nil {
		return nil, fmt.Errorf("answer_question: failed to count answers: %w", err)
	}

	if err := u.AddPoints(progression.PointsAnswerQuestion); err != nil {
		return nil, err
	}

	effects := progression.OnAnswerGiven(a.ID, a.QuestionID, totalAnswers)
	effects = append(effects, progression.OnPointsChanged(u.Level, u.Points)...)
	if err := h.applier.Apply(ctx, u, effects); err != nil {
		return nil, err
	}

	if err := h.users.Update(ctx, u); err != nil {
		return nil, fmt.Errorf("answer_question: failed to update user: %w", err)
	}

	return &AnswerQuestionResult{Answer: a, User: u}, nil
}
