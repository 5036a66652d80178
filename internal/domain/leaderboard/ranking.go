// Package leaderboard derives the ranking of all users from their current
// point totals. The ordering is recomputed from scratch on every call; the
// user base is bounded by design, so correctness wins over performance.
package leaderboard

import "sort"

// NotRanked is the sentinel returned by RankOf for an unknown user.
const NotRanked = -1

// Entry is a single leaderboard row.
type Entry struct {
	UserID   int64  `json:"userId"`
	Username string `json:"username"`
	Points   int    `json:"points"`
	Level    int    `json:"level"`
	Rank     int    `json:"rank"`
}

// Ranking is a total ordering of users by points descending. Ties are
// broken by user ID ascending, which matches insertion order and keeps
// repeated calls deterministic.
type Ranking struct {
	entries []Entry
}

// Compute builds a ranking from raw rows. The input slice is not modified.
func Compute(rows []Entry) *Ranking {
	entries := make([]Entry, len(rows))
	copy(entries, rows)

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Points != entries[j].Points {
			return entries[i].Points > entries[j].Points
		}
		return entries[i].UserID < entries[j].UserID
	})

	for i := range entries {
		entries[i].Rank = i + 1
	}

	return &Ranking{entries: entries}
}

// TopN returns the first n entries. n <= 0 returns an empty slice;
// n beyond the user count returns everyone.
func (r *Ranking) TopN(n int) []Entry {
	if n <= 0 {
		return []Entry{}
	}
	if n > len(r.entries) {
		n = len(r.entries)
	}
	out := make([]Entry, n)
	copy(out, r.entries[:n])
	return out
}

// RankOf returns the 1-based position of a user, or NotRanked when absent.
func (r *Ranking) RankOf(userID int64) int {
	for _, e := range r.entries {
		if e.UserID == userID {
			return e.Rank
		}
	}
	return NotRanked
}

// Len returns the number of ranked users.
func (r *Ranking) Len() int {
	return len(r.entries)
}
