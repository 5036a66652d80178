package memory

import (
	"context"
	"sort"

	"github.com/finwiss-hub/finwiss-learning-hub/internal/domain/activity"
)

// ActivityRepository implements the append-only ledger on the in-memory store.
type ActivityRepository struct {
	store *Store
}

// Append inserts a new entry. CreatedAt is stamped from the store clock
// when the caller leaves it zero.
func (r *ActivityRepository) Append(ctx context.Context, a *activity.Activity) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	a.ID = s.nextID("activities")
	if a.CreatedAt.IsZero() {
		a.CreatedAt = s.now()
	}
	clone := *a
	s.activities[a.ID] = &clone
	return nil
}

// GetByUser returns entries for a user ordered newest-first.
func (r *ActivityRepository) GetByUser(ctx context.Context, userID int64, limit int) ([]*activity.Activity, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*activity.Activity, 0)
	for _, a := range s.activities {
		if a.UserID != userID {
			continue
		}
		clone := *a
		out = append(out, &clone)
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
