package postgres

import (
	"context"
	"fmt"

	"github.com/finwiss-hub/finwiss-learning-hub/internal/domain/community"
	"github.com/finwiss-hub/finwiss-learning-hub/internal/domain/shared"
)

// CommunityRepository implements community.Repository on PostgreSQL.
type CommunityRepository struct {
	db Querier
}

// NewCommunityRepository creates a community repository.
func NewCommunityRepository(db Querier) *CommunityRepository {
	return &CommunityRepository{db: db}
}

const questionColumns = "id, user_id, title, content, tags, votes, created_at"

// CreateQuestion inserts a question.
func (r *CommunityRepository) CreateQuestion(ctx context.Context, q *community.Question) error {
	query := `
		INSERT INTO questions (user_id, title, content, tags, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	err := r.db.QueryRow(ctx, query, q.UserID, q.Title, q.Content, q.Tags, q.CreatedAt).Scan(&q.ID)
	if err != nil {
		return fmt.Errorf("postgres: failed to create question: %w", err)
	}
	return nil
}

// GetQuestion returns a question by ID.
func (r *CommunityRepository) GetQuestion(ctx context.Context, id int64) (*community.Question, error) {
	query := "SELECT " + questionColumns + " FROM questions WHERE id = $1"
	q := &community.Question{}
	err := r.db.QueryRow(ctx, query, id).Scan(&q.ID, &q.UserID, &q.Title, &q.Content, &q.Tags, &q.Votes, &q.CreatedAt)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrQuestionNotFound
		}
		return nil, fmt.Errorf("postgres: failed to get question: %w", err)
	}
	return q, nil
}

// GetQuestions returns questions ordered newest-first.
func (r *CommunityRepository) GetQuestions(ctx context.Context, limit int) ([]*community.Question, error) {
	query := "SELECT " + questionColumns + " FROM questions ORDER BY created_at DESC, id DESC"
	args := []interface{}{}
	if limit > 0 {
		query += " LIMIT $1"
		args = append(args, limit)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to list questions: %w", err)
	}
	defer rows.Close()

	var questions []*community.Question
	for rows.Next() {
		q := &community.Question{}
		if err := rows.Scan(&q.ID, &q.UserID, &q.Title, &q.Content, &q.Tags, &q.Votes, &q.CreatedAt); err != nil {
			return nil, fmt.Errorf("postgres: failed to scan question: %w", err)
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// VoteQuestion adjusts the vote counter and returns the updated question.
func (r *CommunityRepository) VoteQuestion(ctx context.Context, id int64, value int) (*community.Question, error) {
	query := `
		UPDATE questions
		SET votes = votes + $2
		WHERE id = $1
		RETURNING ` + questionColumns

	q := &community.Question{}
	err := r.db.QueryRow(ctx, query, id, value).Scan(&q.ID, &q.UserID, &q.Title, &q.Content, &q.Tags, &q.Votes, &q.CreatedAt)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrQuestionNotFound
		}
		return nil, fmt.Errorf("postgres: failed to vote question: %w", err)
	}
	return q, nil
}

// CreateAnswer inserts an answer. The foreign key enforces question
// existence.
func (r *CommunityRepository) CreateAnswer(ctx context.Context, a *community.Answer) error {
	query := `
		INSERT INTO answers (question_id, user_id, content, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	err := r.db.QueryRow(ctx, query, a.QuestionID, a.UserID, a.Content, a.CreatedAt).Scan(&a.ID)
	if err != nil {
		if IsForeignKeyViolation(err) {
			return shared.ErrQuestionNotFound
		}
		return fmt.Errorf("postgres: failed to create answer: %w", err)
	}
	return nil
}

const answerColumns = "id, question_id, user_id, content, votes, created_at"

// GetAnswersForQuestion returns answers ordered by votes descending.
func (r *CommunityRepository) GetAnswersForQuestion(ctx context.Context, questionID int64) ([]*community.Answer, error) {
	query := "SELECT " + answerColumns + " FROM answers WHERE question_id = $1 ORDER BY votes DESC, id ASC"

	rows, err := r.db.Query(ctx, query, questionID)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to list answers: %w", err)
	}
	defer rows.Close()

	var answers []*community.Answer
	for rows.Next() {
		a := &community.Answer{}
		if err := rows.Scan(&a.ID, &a.QuestionID, &a.UserID, &a.Content, &a.Votes, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("postgres: failed to scan answer: %w", err)
		}
		answers = append(answers, a)
	}
	return answers, rows.Err()
}

// VoteAnswer adjusts the vote counter and returns the updated answer.
func (r *CommunityRepository) VoteAnswer(ctx context.Context, id int64, value int) (*community.Answer, error) {
	query := `
		UPDATE answers
		SET votes = votes + $2
		WHERE id = $1
		RETURNING ` + answerColumns

	a := &community.Answer{}
	err := r.db.QueryRow(ctx, query, id, value).Scan(&a.ID, &a.QuestionID, &a.UserID, &a.Content, &a.Votes, &a.CreatedAt)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrAnswerNotFound
		}
		return nil, fmt.Errorf("postgres: failed to vote answer: %w", err)
	}
	return a, nil
}

// CountAnswersByUser returns how many answers the user has ever posted.
func (r *CommunityRepository) CountAnswersByUser(ctx context.Context, userID int64) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM answers WHERE user_id = $1", userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("postgres: failed to count answers: %w", err)
	}
	return count, nil
}
