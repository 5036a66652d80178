package memory

import (
	"context"
	"sort"

	"github.com/finwiss-hub/finwiss-learning-hub/internal/domain/badge"
	"github.com/finwiss-hub/finwiss-learning-hub/internal/domain/shared"
)

// BadgeRepository implements badge.Repository on the in-memory store.
type BadgeRepository struct {
	store *Store
}

// CreateBadge inserts a badge definition.
func (r *BadgeRepository) CreateBadge(ctx context.Context, b *badge.Badge) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	b.ID = s.nextID("badges")
	clone := *b
	s.badges[b.ID] = &clone
	return nil
}

// GetBadge returns a badge by ID.
func (r *BadgeRepository) GetBadge(ctx context.Context, id int64) (*badge.Badge, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.badges[id]
	if !ok {
		return nil, shared.ErrBadgeNotFound
	}
	clone := *b
	return &clone, nil
}

// GetBadges returns all badges ordered by ID.
func (r *BadgeRepository) GetBadges(ctx context.Context) ([]*badge.Badge, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*badge.Badge, 0, len(s.badges))
	for _, b := range s.badges {
		clone := *b
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// FindByRequirement returns the badge for a requirement kind and threshold.
func (r *BadgeRepository) FindByRequirement(ctx context.Context, req badge.Requirement, amount int) (*badge.Badge, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, b := range s.badges {
		if b.Requirement == req && b.RequiredAmount == amount {
			clone := *b
			return &clone, nil
		}
	}
	return nil, shared.ErrBadgeNotFound
}

// Award records a badge award. The second award of the same pair returns
// the existing record.
func (r *BadgeRepository) Award(ctx context.Context, userID, badgeID int64) (*badge.UserBadge, bool, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.badges[badgeID]; !ok {
		return nil, false, shared.ErrBadgeNotFound
	}

	for _, ub := range s.userBadges {
		if ub.UserID == userID && ub.BadgeID == badgeID {
			clone := *ub
			return &clone, false, nil
		}
	}

	ub := &badge.UserBadge{
		ID:       s.nextID("user_badges"),
		UserID:   userID,
		BadgeID:  badgeID,
		EarnedAt: s.now(),
	}
	s.userBadges[ub.ID] = ub

	clone := *ub
	return &clone, true, nil
}

// GetUserBadges returns all awards for a user joined with their badges.
func (r *BadgeRepository) GetUserBadges(ctx context.Context, userID int64) ([]*badge.Earned, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*badge.Earned, 0)
	for _, ub := range s.userBadges {
		if ub.UserID != userID {
			continue
		}
		b, ok := s.badges[ub.BadgeID]
		if !ok {
			continue
		}
		out = append(out, &badge.Earned{UserBadge: *ub, Badge: *b})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
