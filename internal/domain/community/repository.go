package community

import "context"

// Repository defines persistence operations for questions and answers.
type Repository interface {
	// CreateQuestion inserts a question and assigns its ID.
	CreateQuestion(ctx context.Context, q *Question) error

	// GetQuestion returns a question by ID.
	GetQuestion(ctx context.Context, id int64) (*Question, error)

	// GetQuestions returns questions ordered newest-first.
	// limit <= 0 returns all.
	GetQuestions(ctx context.Context, limit int) ([]*Question, error)

	// VoteQuestion adjusts a question's vote counter and returns the
	// updated question. No floor at zero.
	VoteQuestion(ctx context.Context, id int64, value int) (*Question, error)

	// CreateAnswer inserts an answer and assigns its ID.
	CreateAnswer(ctx context.Context, a *Answer) error

	// GetAnswersForQuestion returns answers ordered by votes descending.
	GetAnswersForQuestion(ctx context.Context, questionID int64) ([]*Answer, error)

	// VoteAnswer adjusts an answer's vote counter and returns the updated answer.
	VoteAnswer(ctx context.Context, id int64, value int) (*Answer, error)

	// CountAnswersByUser returns how many answers the user has ever posted.
	CountAnswersByUser(ctx context.Context, userID int64) (int, error)
}
