package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/finwiss-hub/finwiss-learning-hub/internal/domain/leaderboard"
)

// Key layout:
//   - leaderboard:ranks  sorted set, member = userID, score = rank
//   - leaderboard:info   hash, field = userID, value = entry JSON
//
// The score is the precomputed rank, not the point total: Redis breaks
// score ties by member lexicographic order, which would not match the
// ranking's own tie rule (points descending, then user ID ascending).
// Storing ranks makes every cached read reproduce the computed order
// exactly. Both keys expire together; an expired or missing sorted set
// means cold cache and the caller recomputes from storage.
const (
	keyRanks = "leaderboard:ranks"
	keyInfo  = "leaderboard:info"
)

// LeaderboardCache implements leaderboard.Cache on Redis sorted sets.
type LeaderboardCache struct {
	client *redis.Client
}

// NewLeaderboardCache creates a leaderboard cache.
func NewLeaderboardCache(client *redis.Client) *LeaderboardCache {
	return &LeaderboardCache{client: client}
}

// GetTop returns the cached top-N in rank order plus the total number of
// cached entries, or (nil, 0, nil) when the cache is cold.
func (c *LeaderboardCache) GetTop(ctx context.Context, limit int) ([]leaderboard.Entry, int, error) {
	if limit <= 0 {
		return nil, 0, nil
	}

	ids, err := c.client.ZRange(ctx, keyRanks, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, 0, fmt.Errorf("leaderboard_cache: zrange failed: %w", err)
	}
	if len(ids) == 0 {
		return nil, 0, nil
	}

	total, err := c.client.ZCard(ctx, keyRanks).Result()
	if err != nil {
		return nil, 0, fmt.Errorf("leaderboard_cache: zcard failed: %w", err)
	}

	raw, err := c.client.HMGet(ctx, keyInfo, ids...).Result()
	if err != nil {
		return nil, 0, fmt.Errorf("leaderboard_cache: hmget failed: %w", err)
	}

	entries := make([]leaderboard.Entry, 0, len(raw))
	for _, v := range raw {
		s, ok := v.(string)
		if !ok {
			// Hash out of sync with the sorted set, treat as cold.
			return nil, 0, nil
		}
		var e leaderboard.Entry
		if err := json.Unmarshal([]byte(s), &e); err != nil {
			return nil, 0, fmt.Errorf("leaderboard_cache: failed to decode entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, int(total), nil
}

// SetRanking replaces the cached ranking atomically via a pipeline.
func (c *LeaderboardCache) SetRanking(ctx context.Context, entries []leaderboard.Entry, ttl time.Duration) error {
	pipe := c.client.TxPipeline()
	pipe.Del(ctx, keyRanks, keyInfo)

	if len(entries) > 0 {
		members := make([]redis.Z, 0, len(entries))
		info := make(map[string]interface{}, len(entries))
		for _, e := range entries {
			id := strconv.FormatInt(e.UserID, 10)
			members = append(members, redis.Z{Score: float64(e.Rank), Member: id})
			data, err := json.Marshal(e)
			if err != nil {
				return fmt.Errorf("leaderboard_cache: failed to encode entry: %w", err)
			}
			info[id] = data
		}
		pipe.ZAdd(ctx, keyRanks, members...)
		pipe.HSet(ctx, keyInfo, info)
	}

	if ttl > 0 {
		pipe.Expire(ctx, keyRanks, ttl)
		pipe.Expire(ctx, keyInfo, ttl)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("leaderboard_cache: pipeline failed: %w", err)
	}
	return nil
}

// GetRank returns the rank stored with the user's cached entry, so tied
// users keep the same rank the full computation gave them.
func (c *LeaderboardCache) GetRank(ctx context.Context, userID int64) (int, error) {
	raw, err := c.client.HGet(ctx, keyInfo, strconv.FormatInt(userID, 10)).Result()
	if err == redis.Nil {
		return leaderboard.NotRanked, nil
	}
	if err != nil {
		return leaderboard.NotRanked, fmt.Errorf("leaderboard_cache: hget failed: %w", err)
	}

	var e leaderboard.Entry
	if err := json.Unmarshal([]byte(raw), &e); err != nil {
		return leaderboard.NotRanked, fmt.Errorf("leaderboard_cache: failed to decode entry: %w", err)
	}
	return e.Rank, nil
}

// Invalidate drops the cached ranking.
func (c *LeaderboardCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, keyRanks, keyInfo).Err(); err != nil {
		return fmt.Errorf("leaderboard_cache: del failed: %w", err)
	}
	return nil
}
