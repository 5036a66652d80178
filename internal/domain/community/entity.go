// Package community contains the Q&A entities: questions, answers, votes.
package community

import (
	"strings"
	"time"

	"github.com/finwiss-hub/finwiss-learning-hub/internal/domain/shared"
)

// Vote values accepted by the voting operations.
const (
	Upvote   = 1
	Downvote = -1
)

// ValidateVote checks that a vote value is +1 or -1.
func ValidateVote(value int) error {
	if value != Upvote && value != Downvote {
		return shared.ErrInvalidVote
	}
	return nil
}

// Question is user-generated content. Immutable once created except for
// the vote counter, which is unbounded in both directions.
type Question struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Tags      []string  `json:"tags"`
	Votes     int       `json:"votes"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewQuestion validates and builds a question.
func NewQuestion(userID int64, title, content string, tags []string, now time.Time) (*Question, error) {
	if strings.TrimSpace(title) == "" {
		return nil, shared.NewDomainError("community", "AskQuestion", shared.ErrEmptyValue, "title is required")
	}
	if strings.TrimSpace(content) == "" {
		return nil, shared.NewDomainError("community", "AskQuestion", shared.ErrEmptyValue, "content is required")
	}
	if tags == nil {
		tags = []string{}
	}

	return &Question{
		UserID:    userID,
		Title:     title,
		Content:   content,
		Tags:      tags,
		Votes:     0,
		CreatedAt: now,
	}, nil
}

// Answer is a reply to a question. Immutable except for the vote counter.
type Answer struct {
	ID         int64     `json:"id"`
	QuestionID int64     `json:"questionId"`
	UserID     int64     `json:"userId"`
	Content    string    `json:"content"`
	Votes      int       `json:"votes"`
	CreatedAt  time.Time `json:"createdAt"`
}

// NewAnswer validates and builds an answer.
func NewAnswer(userID, questionID int64, content string, now time.Time) (*Answer, error) {
	if strings.TrimSpace(content) == "" {
		return nil, shared.NewDomainError("community", "AnswerQuestion", shared.ErrEmptyValue, "content is required")
	}

	return &Answer{
		QuestionID: questionID,
		UserID:     userID,
		Content:    content,
		Votes:      0,
		CreatedAt:  now,
	}, nil
}
