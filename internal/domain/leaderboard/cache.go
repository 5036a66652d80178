package leaderboard

import (
	"context"
	"time"
)

// Cache is an optional read-through cache for the computed ranking.
// Implementations: Redis sorted set. A nil cache means every read
// recomputes from storage.
//
// The cached ranking is authoritative data written by SetRanking; reads
// must reproduce its order, ranks and size exactly, so warm and cold
// responses are indistinguishable.
type Cache interface {
	// GetTop returns the cached top-N in rank order plus the total
	// number of cached entries. A cold cache returns (nil, 0, nil).
	GetTop(ctx context.Context, limit int) (entries []Entry, total int, err error)

	// SetRanking replaces the cached ranking with a fresh full
	// computation. Entries arrive in rank order with Rank populated.
	SetRanking(ctx context.Context, entries []Entry, ttl time.Duration) error

	// GetRank returns the stored rank of a user, or NotRanked when the
	// user is absent from the cache.
	GetRank(ctx context.Context, userID int64) (int, error)

	// Invalidate drops the cached ranking.
	Invalidate(ctx context.Context) error
}
