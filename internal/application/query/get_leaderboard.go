// Package query contains read operations (CQRS - Queries).
// Queries never modify state.
package query

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/finwiss-hub/finwiss-learning-hub/internal/domain/leaderboard"
	"github.com/finwiss-hub/finwiss-learning-hub/internal/domain/user"
	"github.com/finwiss-hub/finwiss-learning-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET LEADERBOARD QUERY
// Ranks all users by points. The result is a snapshot: ranks may be stale
// the moment they are returned, which is acceptable for a display surface.
// ══════════════════════════════════════════════════════════════════════════════

// DefaultLeaderboardLimit bounds the result when no limit is given.
const DefaultLeaderboardLimit = 10

// GetLeaderboardQuery contains the leaderboard request parameters.
type GetLeaderboardQuery struct {
	// Limit is the number of top entries to return (default 10, max 100).
	Limit int

	// UserID, when set, also resolves the requesting user's own rank.
	UserID int64
}

// Validate checks and normalizes the query parameters.
func (q *GetLeaderboardQuery) Validate() error {
	if q.Limit < 0 {
		return errors.New("get_leaderboard: limit cannot be negative")
	}
	if q.Limit == 0 {
		q.Limit = DefaultLeaderboardLimit
	}
	if q.Limit > 100 {
		q.Limit = 100
	}
	return nil
}

// GetLeaderboardResult contains the ranked entries.
type GetLeaderboardResult struct {
	// Entries is the top of the ranking, points descending.
	Entries []leaderboard.Entry `json:"entries"`

	// TotalCount is the number of ranked users.
	TotalCount int `json:"totalCount"`

	// OwnRank is the requesting user's position, leaderboard.NotRanked
	// when unknown.
	OwnRank int `json:"ownRank"`

	// GeneratedAt is when this snapshot was computed.
	GeneratedAt time.Time `json:"generatedAt"`
}

// GetLeaderboardHandler handles the GetLeaderboardQuery.
type GetLeaderboardHandler struct {
	users    user.Repository
	cache    leaderboard.Cache
	cacheTTL time.Duration
	log      *logger.Logger
}

// NewGetLeaderboardHandler creates a new GetLeaderboardHandler.
// cache may be nil; the handler then always computes from storage.
func NewGetLeaderboardHandler(users user.Repository, cache leaderboard.Cache, cacheTTL time.Duration, log *logger.Logger) *GetLeaderboardHandler {
	if cacheTTL <= 0 {
		cacheTTL = time.Minute
	}
	return &GetLeaderboardHandler{users: users, cache: cache, cacheTTL: cacheTTL, log: log}
}

// Handle executes the leaderboard query. Cache reads are best-effort: a
// cache failure falls back to recomputing from storage.
func (h *GetLeaderboardHandler) Handle(ctx context.Context, q GetLeaderboardQuery) (*GetLeaderboardResult, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	if h.cache != nil {
		if res, ok := h.fromCache(ctx, q); ok {
			return res, nil
		}
	}

	users, err := h.users.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("get_leaderboard: failed to load users: %w", err)
	}

	rows := make([]leaderboard.Entry, 0, len(users))
	for _, u := range users {
		rows = append(rows, leaderboard.Entry{
			UserID:   u.ID,
			Username: u.Username,
			Points:   u.Points,
			Level:    u.Level,
		})
	}

	ranking := leaderboard.Compute(rows)

	if h.cache != nil {
		if err := h.cache.SetRanking(ctx, ranking.TopN(ranking.Len()), h.cacheTTL); err != nil {
			h.log.Warn("failed to cache leaderboard", logger.Err(err))
		}
	}

	ownRank := leaderboard.NotRanked
	if q.UserID > 0 {
		ownRank = ranking.RankOf(q.UserID)
	}

	return &GetLeaderboardResult{
		Entries:     ranking.TopN(q.Limit),
		TotalCount:  ranking.Len(),
		OwnRank:     ownRank,
		GeneratedAt: time.Now().UTC(),
	}, nil
}

func (h *GetLeaderboardHandler) fromCache(ctx context.Context, q GetLeaderboardQuery) (*GetLeaderboardResult, bool) {
	entries, total, err := h.cache.GetTop(ctx, q.Limit)
	if err != nil || entries == nil {
		return nil, false
	}

	ownRank := leaderboard.NotRanked
	if q.UserID > 0 {
		ownRank, err = h.cache.GetRank(ctx, q.UserID)
		if err != nil {
			return nil, false
		}
	}

	return &GetLeaderboardResult{
		Entries:     entries,
		TotalCount:  total,
		OwnRank:     ownRank,
		GeneratedAt: time.Now().UTC(),
	}, true
}
