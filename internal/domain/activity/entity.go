// Package activity contains the append-only progression audit log.
// Entries are created once per progression-relevant event and never
// updated or deleted.
package activity

import "time"

// Type classifies a logged event.
type Type string

const (
	// TypeAccountCreated - a new account was registered.
	TypeAccountCreated Type = "account_created"

	// TypeQuestionAsked - the user posted a question.
	TypeQuestionAsked Type = "question_asked"

	// TypeAnswerGiven - the user answered a question.
	TypeAnswerGiven Type = "answer_given"

	// TypeCourseCompleted - the user finished all lessons of a course.
	TypeCourseCompleted Type = "course_completed"

	// TypeChallengeCompleted - the user completed a challenge.
	TypeChallengeCompleted Type = "challenge_completed"

	// TypeLevelUp - the derived level increased.
	TypeLevelUp Type = "level_up"

	// TypeBadgeEarned - a badge was awarded.
	TypeBadgeEarned Type = "badge_earned"

	// TypeStreakMilestone - the login streak reached a milestone.
	TypeStreakMilestone Type = "streak_milestone"
)

// Activity is one immutable audit entry.
type Activity struct {
	ID            int64          `json:"id"`
	UserID        int64          `json:"userId"`
	Type          Type           `json:"type"`
	Description   string         `json:"description"`
	PointsAwarded int            `json:"pointsAwarded"`
	CreatedAt     time.Time      `json:"createdAt"`
	Metadata      map[string]any `json:"metadata,omitempty"`
}
