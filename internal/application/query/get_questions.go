package query

import (
	"context"
	"errors"
	"fmt"

	"github.com/finwiss-hub/finwiss-learning-hub/internal/domain/community"
)

// ══════════════════════════════════════════════════════════════════════════════
// COMMUNITY QUERIES
// ══════════════════════════════════════════════════════════════════════════════

// GetQuestionsQuery contains the listing parameters.
type GetQuestionsQuery struct {
	// Limit bounds the result, newest-first. Zero returns all questions.
	Limit int
}

// Validate validates the query.
func (q GetQuestionsQuery) Validate() error {
	if q.Limit < 0 {
		return errors.New("get_questions: limit cannot be negative")
	}
	return nil
}

// GetQuestionQuery identifies one question.
type GetQuestionQuery struct {
	QuestionID int64
}

// Validate validates the query.
func (q GetQuestionQuery) Validate() error {
	if q.QuestionID <= 0 {
		return errors.New("get_question: question_id is required")
	}
	return nil
}

// QuestionDetail is a question with its answers, best answers first.
type QuestionDetail struct {
	Question *community.Question `json:"question"`
	Answers  []*community.Answer `json:"answers"`
}

// CommunityHandler handles the community read queries.
type CommunityHandler struct {
	community community.Repository
}

// NewCommunityHandler creates a new CommunityHandler.
func NewCommunityHandler(comm community.Repository) *CommunityHandler {
	return &CommunityHandler{community: comm}
}

// HandleQuestions returns questions ordered newest-first.
func (h *CommunityHandler) HandleQuestions(ctx context.Context, q GetQuestionsQuery) ([]*community.Question, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	questions, err := h.community.GetQuestions(ctx, q.Limit)
	if err != nil {
		return nil, fmt.Errorf("get_questions: %w", err)
	}
	return questions, nil
}

// HandleQuestion returns one question with its answers.
func (h *CommunityHandler) HandleQuestion(ctx context.Context, q GetQuestionQuery) (*QuestionDetail, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	question, err := h.community.GetQuestion(ctx, q.QuestionID)
	if err != nil {
		return nil, err
	}

	answers, err := h.community.GetAnswersForQuestion(ctx, q.QuestionID)
	if err != nil {
		return nil, fmt.Errorf("get_question: failed to load answers: %w", err)
	}

	return &QuestionDetail{Question: question, Answers: answers}, nil
}
