package memory

import (
	"context"
	"sort"

	"github.com/finwiss-hub/finwiss-learning-hub/internal/domain/community"
	"github.com/finwiss-hub/finwiss-learning-hub/internal/domain/shared"
)

// CommunityRepository implements community.Repository on the in-memory store.
type CommunityRepository struct {
	store *Store
}

func cloneQuestion(q *community.Question) *community.Question {
	clone := *q
	clone.Tags = append([]string(nil), q.Tags...)
	return &clone
}

// CreateQuestion inserts a question.
func (r *CommunityRepository) CreateQuestion(ctx context.Context, q *community.Question) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	q.ID = s.nextID("questions")
	s.questions[q.ID] = cloneQuestion(q)
	return nil
}

// GetQuestion returns a question by ID.
func (r *CommunityRepository) GetQuestion(ctx context.Context, id int64) (*community.Question, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	q, ok := s.questions[id]
	if !ok {
		return nil, shared.ErrQuestionNotFound
	}
	return cloneQuestion(q), nil
}

// GetQuestions returns questions ordered newest-first.
func (r *CommunityRepository) GetQuestions(ctx context.Context, limit int) ([]*community.Question, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*community.Question, 0, len(s.questions))
	for _, q := range s.questions {
		out = append(out, cloneQuestion(q))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// VoteQuestion adjusts the vote counter and returns the updated question.
func (r *CommunityRepository) VoteQuestion(ctx context.Context, id int64, value int) (*community.Question, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	q, ok := s.questions[id]
	if !ok {
		return nil, shared.ErrQuestionNotFound
	}
	q.Votes += value
	return cloneQuestion(q), nil
}

// CreateAnswer inserts an answer. The question must exist.
func (r *CommunityRepository) CreateAnswer(ctx context.Context, a *community.Answer) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.questions[a.QuestionID]; !ok {
		return shared.ErrQuestionNotFound
	}

	a.ID = s.nextID("answers")
	clone := *a
	s.answers[a.ID] = &clone
	return nil
}

// GetAnswersForQuestion returns answers ordered by votes descending,
// ties broken oldest-first.
func (r *CommunityRepository) GetAnswersForQuestion(ctx context.Context, questionID int64) ([]*community.Answer, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*community.Answer, 0)
	for _, a := range s.answers {
		if a.QuestionID != questionID {
			continue
		}
		clone := *a
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Votes == out[j].Votes {
			return out[i].ID < out[j].ID
		}
		return out[i].Votes > out[j].Votes
	})
	return out, nil
}

// VoteAnswer adjusts the vote counter and returns the updated answer.
func (r *CommunityRepository) VoteAnswer(ctx context.Context, id int64, value int) (*community.Answer, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.answers[id]
	if !ok {
		return nil, shared.ErrAnswerNotFound
	}
	a.Votes += value
	clone := *a
	return &clone, nil
}

// CountAnswersByUser returns how many answers the user has ever posted.
func (r *CommunityRepository) CountAnswersByUser(ctx context.Context, userID int64) (int, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, a := range s.answers {
		if a.UserID == userID {
			count++
		}
	}
	return count, nil
}
