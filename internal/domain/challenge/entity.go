// Package challenge contains challenge templates and per-user completions.
package challenge

import "time"

// Type classifies how often a challenge recurs.
type Type string

const (
	TypeDaily   Type = "daily"
	TypeWeekly  Type = "weekly"
	TypeOneTime Type = "one-time"
)

// Challenge is a reusable reward template. Never mutated by users.
type Challenge struct {
	ID           int64  `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	PointsReward int    `json:"pointsReward"`
	Icon         string `json:"icon"`
	IconBgColor  string `json:"iconBgColor"`
	Type         Type   `json:"type"`
}

// UserChallenge is a per-user instantiation of a challenge.
// Completed is a one-way transition (false to true only);
// at most one per (UserID, ChallengeID).
type UserChallenge struct {
	ID          int64      `json:"id"`
	UserID      int64      `json:"userId"`
	ChallengeID int64      `json:"challengeId"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	ExpiresAt   *time.Time `json:"expiresAt,omitempty"`
}

// Complete marks the challenge as done. Returns false when the challenge
// was already completed, so the caller awards points at most once.
func (uc *UserChallenge) Complete(now time.Time) bool {
	if uc.Completed {
		return false
	}
	uc.Completed = true
	uc.CompletedAt = &now
	return true
}

// WithChallenge pairs a user's record with its challenge template for display.
type WithChallenge struct {
	UserChallenge
	Challenge Challenge `json:"challenge"`
}
