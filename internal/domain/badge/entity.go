// Package badge contains badge definitions and per-user awards.
package badge

import "time"

// Requirement is the kind of condition a badge is tied to.
type Requirement string

const (
	// RequirementStreak - consecutive login days.
	RequirementStreak Requirement = "streak"

	// RequirementLevel - reached level.
	RequirementLevel Requirement = "level"

	// RequirementAnswersGiven - total answers posted.
	RequirementAnswersGiven Requirement = "answers_given"

	// RequirementCoursesCompleted - total courses completed.
	RequirementCoursesCompleted Requirement = "courses_completed"

	// RequirementQuizzesCompleted - total quizzes completed.
	RequirementQuizzesCompleted Requirement = "quizzes_completed"

	// RequirementLeaderboardRank - reached leaderboard position.
	RequirementLeaderboardRank Requirement = "leaderboard_rank"
)

// Badge is a static, one-time-awardable achievement definition.
// Never mutated after creation.
type Badge struct {
	ID             int64       `json:"id"`
	Title          string      `json:"title"`
	Description    string      `json:"description"`
	Icon           string      `json:"icon"`
	IconBgColor    string      `json:"iconBgColor"`
	Requirement    Requirement `json:"requirement"`
	RequiredAmount int         `json:"requiredAmount"`
}

// UserBadge is evidence that a user has met a badge's condition.
// At most one per (UserID, BadgeID); awarding is idempotent.
type UserBadge struct {
	ID       int64     `json:"id"`
	UserID   int64     `json:"userId"`
	BadgeID  int64     `json:"badgeId"`
	EarnedAt time.Time `json:"earnedAt"`
}

// Earned pairs an award with its badge definition for display.
type Earned struct {
	UserBadge
	Badge Badge `json:"badge"`
}

// Progress returns the display progress toward the badge in [0, 1].
// Only streak and level requirements have a live progress computation;
// other kinds display as 0.
func (b Badge) Progress(streak, level int) float64 {
	if b.RequiredAmount <= 0 {
		return 0
	}

	var current int
	switch b.Requirement {
	case RequirementStreak:
		current = streak
	case RequirementLevel:
		current = level
	default:
		return 0
	}

	p := float64(current) / float64(b.RequiredAmount)
	if p > 1 {
		return 1
	}
	if p < 0 {
		return 0
	}
	return p
}
