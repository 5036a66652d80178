package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/finwiss-hub/finwiss-learning-hub/internal/domain/community"
)

// ══════════════════════════════════════════════════════════════════════════════
// VOTE COMMANDS
// Voting moves a counter on a question or answer and grants no points.
// Values are restricted to +1 and -1; counters are unbounded both ways.
// ══════════════════════════════════════════════════════════════════════════════

// VoteQuestionCommand adjusts a question's vote counter.
type VoteQuestionCommand struct {
	QuestionID int64
	Value      int
}

// Validate validates the command.
func (c VoteQuestionCommand) Validate() error {
	if c.QuestionID <= 0 {
		return errors.New("vote_question: question_id is required")
	}
	return community.ValidateVote(c.Value)
}

// VoteAnswerCommand adjusts an answer's vote counter.
type VoteAnswerCommand struct {
	AnswerID int64
	Value    int
}

// Validate validates the command.
func (c VoteAnswerCommand) Validate() error {
	if c.AnswerID <= 0 {
		return errors.New("vote_answer: answer_id is required")
	}
	return community.ValidateVote(c.Value)
}

// VoteHandler handles both vote commands.
type VoteHandler struct {
	community community.Repository
}

// NewVoteHandler creates a new VoteHandler.
func NewVoteHandler(comm community.Repository) *VoteHandler {
	return &VoteHandler{community: comm}
}

// HandleQuestion executes a question vote and returns the updated question.
func (h *VoteHandler) HandleQuestion(ctx context.Context, cmd VoteQuestionCommand) (*community.Question, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	q, err := h.community.VoteQuestion(ctx, cmd.QuestionID, cmd.Value)
	if err != nil {
		return nil, fmt.Errorf("vote_question: %w", err)
	}
	return q, nil
}

// HandleAnswer executes an answer vote and returns the updated answer.
func (h *VoteHandler) HandleAnswer(ctx context.Context, cmd VoteAnswerCommand) (*community.Answer, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	a, err := h.community.VoteAnswer(ctx, cmd.AnswerID, cmd.Value)
	if err != nil {
		return nil, fmt.Errorf("vote_answer: %w", err)
	}
	return a, nil
}
