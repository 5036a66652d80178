package memory

import (
	"context"
	"sort"

	"github.com/finwiss-hub/finwiss-learning-hub/internal/domain/challenge"
	"github.com/finwiss-hub/finwiss-learning-hub/internal/domain/shared"
)

// ChallengeRepository implements challenge.Repository on the in-memory store.
type ChallengeRepository struct {
	store *Store
}

// CreateChallenge inserts a challenge template.
func (r *ChallengeRepository) CreateChallenge(ctx context.Context, c *challenge.Challenge) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	c.ID = s.nextID("challenges")
	clone := *c
	s.challenges[c.ID] = &clone
	return nil
}

// GetChallenge returns a challenge by ID.
func (r *ChallengeRepository) GetChallenge(ctx context.Context, id int64) (*challenge.Challenge, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.challenges[id]
	if !ok {
		return nil, shared.ErrChallengeNotFound
	}
	clone := *c
	return &clone, nil
}

// GetChallenges returns all challenge templates ordered by ID.
func (r *ChallengeRepository) GetChallenges(ctx context.Context) ([]*challenge.Challenge, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*challenge.Challenge, 0, len(s.challenges))
	for _, c := range s.challenges {
		clone := *c
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// GetOrCreateUserChallenge returns the user's record, creating an
// incomplete one when missing.
func (r *ChallengeRepository) GetOrCreateUserChallenge(ctx context.Context, userID, challengeID int64) (*challenge.UserChallenge, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.challenges[challengeID]; !ok {
		return nil, shared.ErrChallengeNotFound
	}

	for _, uc := range s.userChallenges {
		if uc.UserID == userID && uc.ChallengeID == challengeID {
			clone := *uc
			return &clone, nil
		}
	}

	uc := &challenge.UserChallenge{
		ID:          s.nextID("user_challenges"),
		UserID:      userID,
		ChallengeID: challengeID,
	}
	s.userChallenges[uc.ID] = uc

	clone := *uc
	return &clone, nil
}

// SaveUserChallenge persists a changed record.
func (r *ChallengeRepository) SaveUserChallenge(ctx context.Context, uc *challenge.UserChallenge) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.userChallenges[uc.ID]; !ok {
		return shared.NewDomainError("challenge", "Save", shared.ErrNotFound, "user challenge not found")
	}
	clone := *uc
	s.userChallenges[uc.ID] = &clone
	return nil
}

// GetUserChallenges returns the user's records joined with templates.
func (r *ChallengeRepository) GetUserChallenges(ctx context.Context, userID int64) ([]*challenge.WithChallenge, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*challenge.WithChallenge, 0)
	for _, uc := range s.userChallenges {
		if uc.UserID != userID {
			continue
		}
		c, ok := s.challenges[uc.ChallengeID]
		if !ok {
			continue
		}
		out = append(out, &challenge.WithChallenge{UserChallenge: *uc, Challenge: *c})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
