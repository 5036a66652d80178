package activity

import "context"

// Repository is the append-only ledger. Append assigns ID and timestamp;
// no entry is ever mutated or removed.
type Repository interface {
	// Append inserts a new entry and assigns its ID.
	Append(ctx context.Context, a *Activity) error

	// GetByUser returns entries for a user ordered newest-first.
	// limit <= 0 returns all; a positive limit truncates (no pagination).
	GetByUser(ctx context.Context, userID int64, limit int) ([]*Activity, error)
}
