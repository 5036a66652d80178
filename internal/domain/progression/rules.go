// Package progression is the rules engine of FinWiss Learning Hub.
// It converts user actions into points, level transitions, streak updates,
// and badge awards. All functions are pure: they take a state snapshot and
// return an explicit list of effects for the caller to execute, so the
// rule sequence stays testable without storage.
package progression

import (
	"fmt"
	"time"

	"github.com/finwiss-hub/finwiss-learning-hub/internal/domain/activity"
	"github.com/finwiss-hub/finwiss-learning-hub/internal/domain/badge"
	"github.com/finwiss-hub/finwiss-learning-hub/pkg/timeutil"
)

// Fixed point values and thresholds.
const (
	// PointsPerLevel is the step of the level function.
	PointsPerLevel = 500

	// PointsAskQuestion is granted for posting a question.
	PointsAskQuestion = 10

	// PointsAnswerQuestion is granted for answering a question.
	PointsAnswerQuestion = 20

	// PointsCompleteCourse is granted when a course is first completed.
	PointsCompleteCourse = 75

	// StreakBadgeDays is the streak length that unlocks the streak badge.
	StreakBadgeDays = 7

	// LevelBadgeAt is the level that unlocks the level badge.
	LevelBadgeAt = 20

	// AnswersBadgeAt is the answer count that unlocks the answers badge.
	AnswersBadgeAt = 10

	// CoursesBadgeAt is the completed-course count that unlocks the courses badge.
	CoursesBadgeAt = 5
)

// LevelForPoints derives the level from a point total:
// level = points/PointsPerLevel + 1. Total over all points >= 0.
func LevelForPoints(points int) int {
	if points < 0 {
		return 1
	}
	return points/PointsPerLevel + 1
}

// ══════════════════════════════════════════════════════════════════════════════
// EFFECTS
// ══════════════════════════════════════════════════════════════════════════════

// Effect is a single consequence of a progression rule. The application
// layer executes effects in order; rules never touch storage themselves.
type Effect interface {
	isEffect()
}

// SetLevel persists a new (higher) level on the user.
type SetLevel struct {
	Level int
}

// SetStreak persists the streak counter and refreshes the last login marker.
type SetStreak struct {
	Streak      int
	LastLoginAt time.Time
}

// AwardBadge awards the badge defined for a requirement kind and threshold,
// when such a badge exists. Awarding is idempotent.
type AwardBadge struct {
	Requirement    badge.Requirement
	RequiredAmount int
}

// LogActivity appends one entry to the activity ledger.
type LogActivity struct {
	Type          activity.Type
	Description   string
	PointsAwarded int
	Metadata      map[string]any
}

func (SetLevel) isEffect()    {}
func (SetStreak) isEffect()   {}
func (AwardBadge) isEffect()  {}
func (LogActivity) isEffect() {}

// ══════════════════════════════════════════════════════════════════════════════
// RULE (a): STREAK UPDATE ON LOGIN
// ══════════════════════════════════════════════════════════════════════════════

// StreakResult describes the outcome of a login streak transition.
type StreakResult struct {
	// Streak is the new counter value.
	Streak int

	// Extended is true when the streak grew by one.
	Extended bool

	// Reset is true when the streak was reset to 1.
	Reset bool

	// Milestone is true when the streak reached exactly StreakBadgeDays.
	Milestone bool
}

// NextStreak applies the streak transition table for a login at now, given
// the stored last login time. Day arithmetic uses UTC calendar days:
// exactly one day since the last login extends the streak, the same day
// leaves it unchanged, and any other difference (a gap, or the clock
// moving backward) resets it to 1.
func NextStreak(current int, lastLogin, now time.Time) StreakResult {
	switch timeutil.DaysBetween(lastLogin, now) {
	case 0:
		return StreakResult{Streak: current}
	case 1:
		next := current + 1
		return StreakResult{
			Streak:    next,
			Extended:  true,
			Milestone: next == StreakBadgeDays,
		}
	default:
		return StreakResult{
			Streak:    1,
			Reset:     true,
			Milestone: StreakBadgeDays == 1,
		}
	}
}

// OnLogin returns the effects of a successful login at now.
// The last login marker is always refreshed, even on same-day logins.
func OnLogin(currentStreak int, lastLogin, now time.Time) []Effect {
	res := NextStreak(currentStreak, lastLogin, now)

	effects := []Effect{
		SetStreak{Streak: res.Streak, LastLoginAt: now},
	}

	if res.Milestone {
		effects = append(effects,
			AwardBadge{Requirement: badge.RequirementStreak, RequiredAmount: StreakBadgeDays},
			LogActivity{
				Type:        activity.TypeStreakMilestone,
				Description: fmt.Sprintf("Du hast eine %d-Tage Serie erreicht!", StreakBadgeDays),
				Metadata:    map[string]any{"streakDays": StreakBadgeDays},
			},
		)
	}

	return effects
}

// ══════════════════════════════════════════════════════════════════════════════
// RULE (b): LEVEL RECOMPUTE AFTER POINT CHANGES
// ══════════════════════════════════════════════════════════════════════════════

// OnPointsChanged returns the effects of the level recompute after the user's
// point total changed. Leveling grants no extra points; the level never
// decreases (points are monotonic, so newLevel < currentLevel cannot occur).
func OnPointsChanged(currentLevel, points int) []Effect {
	newLevel := LevelForPoints(points)
	if newLevel <= currentLevel {
		return nil
	}

	effects := []Effect{
		SetLevel{Level: newLevel},
		LogActivity{
			Type:        activity.TypeLevelUp,
			Description: fmt.Sprintf("Du bist auf Level %d aufgestiegen!", newLevel),
			Metadata:    map[string]any{"newLevel": newLevel, "oldLevel": currentLevel},
		},
	}

	if newLevel >= LevelBadgeAt {
		effects = append(effects, AwardBadge{
			Requirement:    badge.RequirementLevel,
			RequiredAmount: LevelBadgeAt,
		})
	}

	return effects
}

// ══════════════════════════════════════════════════════════════════════════════
// RULE (c): POINT-AWARDING EVENTS
// ══════════════════════════════════════════════════════════════════════════════

// OnQuestionAsked returns the effects of posting a question.
func OnQuestionAsked(questionID int64) []Effect {
	return []Effect{
		LogActivity{
			Type:          activity.TypeQuestionAsked,
			Description:   "Du hast eine Frage gestellt",
			PointsAwarded: PointsAskQuestion,
			Metadata:      map[string]any{"questionId": questionID},
		},
	}
}

// OnAnswerGiven returns the effects of posting an answer. totalAnswers is
// the user's all-time answer count including this one; the 10th answer
// unlocks the answers badge.
func OnAnswerGiven(answerID, questionID int64, totalAnswers int) []Effect {
	effects := []Effect{
		LogActivity{
			Type:          activity.TypeAnswerGiven,
			Description:   "Du hast eine Frage beantwortet",
			PointsAwarded: PointsAnswerQuestion,
			Metadata:      map[string]any{"answerId": answerID, "questionId": questionID},
		},
	}

	if totalAnswers == AnswersBadgeAt {
		effects = append(effects, AwardBadge{
			Requirement:    badge.RequirementAnswersGiven,
			RequiredAmount: AnswersBadgeAt,
		})
	}

	return effects
}

// OnCourseCompleted returns the effects of the first completion of a course.
// completedCourses is the user's total including this one; the 5th completed
// course unlocks the courses badge.
func OnCourseCompleted(courseID int64, courseTitle string, completedCourses int) []Effect {
	effects := []Effect{
		LogActivity{
			Type:          activity.TypeCourseCompleted,
			Description:   fmt.Sprintf("Du hast den Kurs %q abgeschlossen", courseTitle),
			PointsAwarded: PointsCompleteCourse,
			Metadata:      map[string]any{"courseId": courseID},
		},
	}

	if completedCourses == CoursesBadgeAt {
		effects = append(effects, AwardBadge{
			Requirement:    badge.RequirementCoursesCompleted,
			RequiredAmount: CoursesBadgeAt,
		})
	}

	return effects
}

// OnChallengeCompleted returns the effects of a challenge completion.
func OnChallengeCompleted(challengeID int64, challengeTitle string, pointsReward int) []Effect {
	return []Effect{
		LogActivity{
			Type:          activity.TypeChallengeCompleted,
			Description:   fmt.Sprintf("Du hast die Herausforderung %q abgeschlossen", challengeTitle),
			PointsAwarded: pointsReward,
			Metadata:      map[string]any{"challengeId": challengeID},
		},
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// RULE (d): LEVEL DETAILS FOR DISPLAY
// ══════════════════════════════════════════════════════════════════════════════

// LevelDetails describes the user's position inside the current level.
type LevelDetails struct {
	Level         int `json:"level"`
	NextLevel     int `json:"nextLevel"`
	LevelProgress int `json:"levelProgress"`
	LevelCap      int `json:"levelCap"`
	PointsToNext  int `json:"pointsToNextLevel"`
	TotalPoints   int `json:"totalPoints"`
}

// ComputeLevelDetails derives the display values from a level and point total.
func ComputeLevelDetails(level, points int) LevelDetails {
	currentLevelPoints := (level - 1) * PointsPerLevel
	nextLevelPoints := level * PointsPerLevel

	return LevelDetails{
		Level:         level,
		NextLevel:     level + 1,
		LevelProgress: points - currentLevelPoints,
		LevelCap:      PointsPerLevel,
		PointsToNext:  nextLevelPoints - points,
		TotalPoints:   points,
	}
}
