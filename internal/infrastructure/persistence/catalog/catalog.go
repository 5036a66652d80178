// Package catalog seeds the default content catalog: the daily
// challenges, badge definitions and courses every fresh installation
// starts with. Seeding is idempotent and works against any storage
// backend through the domain repository interfaces.
package catalog

import (
	"context"
	"fmt"

	"github.com/finwiss-hub/finwiss-learning-hub/internal/domain/badge"
	"github.com/finwiss-hub/finwiss-learning-hub/internal/domain/challenge"
	"github.com/finwiss-hub/finwiss-learning-hub/internal/domain/course"
)

// Challenges returns the default challenge catalog.
func Challenges() []*challenge.Challenge {
	return []*challenge.Challenge{
		{
			Title:        "Tägliche Lektion abschließen",
			Description:  "Schließe eine Lektion zu einem beliebigen Thema ab",
			PointsReward: 25,
			Icon:         "check_circle",
			IconBgColor:  "success",
			Type:         challenge.TypeDaily,
		},
		{
			Title:        "Quiz zum Thema \"Aktien Grundlagen\"",
			Description:  "Beantworte 10 Fragen über Aktien und den Aktienmarkt",
			PointsReward: 50,
			Icon:         "quiz",
			IconBgColor:  "primary",
			Type:         challenge.TypeDaily,
		},
		{
			Title:        "Beantworte eine Frage von der Community",
			Description:  "Helfe anderen Nutzern, indem du eine Frage beantwortest",
			PointsReward: 40,
			Icon:         "forum",
			IconBgColor:  "accent",
			Type:         challenge.TypeDaily,
		},
	}
}

// Badges returns the default badge catalog.
func Badges() []*badge.Badge {
	return []*badge.Badge{
		{
			Title:          "7 Tage Serie",
			Description:    "Logge dich 7 Tage in Folge ein",
			Icon:           "local_fire_department",
			IconBgColor:    "accent",
			Requirement:    badge.RequirementStreak,
			RequiredAmount: 7,
		},
		{
			Title:          "Quiz Meister",
			Description:    "Schließe 5 Quizze erfolgreich ab",
			Icon:           "psychology",
			IconBgColor:    "secondary",
			Requirement:    badge.RequirementQuizzesCompleted,
			RequiredAmount: 5,
		},
		{
			Title:          "5 Kurse abgeschlossen",
			Description:    "Schließe 5 Kurse vollständig ab",
			Icon:           "school",
			IconBgColor:    "primary",
			Requirement:    badge.RequirementCoursesCompleted,
			RequiredAmount: 5,
		},
		{
			Title:          "10 Antworten",
			Description:    "Beantworte 10 Fragen von der Community",
			Icon:           "forum",
			IconBgColor:    "neutral",
			Requirement:    badge.RequirementAnswersGiven,
			RequiredAmount: 10,
		},
		{
			Title:          "Level 20 erreichen",
			Description:    "Erreiche Level 20",
			Icon:           "trending_up",
			IconBgColor:    "neutral",
			Requirement:    badge.RequirementLevel,
			RequiredAmount: 20,
		},
		{
			Title:          "Top 10 Rangliste",
			Description:    "Erreiche einen Platz in den Top 10 der Rangliste",
			Icon:           "emoji_events",
			IconBgColor:    "neutral",
			Requirement:    badge.RequirementLeaderboardRank,
			RequiredAmount: 10,
		},
	}
}

// Courses returns the default course catalog.
func Courses() []*course.Course {
	return []*course.Course{
		{
			Title:        "Aktien Grundlagen",
			Description:  "Lerne die Grundlagen des Aktienhandels",
			TotalLessons: 5,
		},
		{
			Title:        "Altersvorsorge planen",
			Description:  "Plane deine finanzielle Zukunft",
			TotalLessons: 4,
		},
	}
}

// Seed writes the default catalog through the given repositories. It is
// a no-op when challenges already exist, so restarting against a
// populated database does not duplicate the catalog.
func Seed(
	ctx context.Context,
	badges badge.Repository,
	challenges challenge.Repository,
	courses course.Repository,
) error {
	existing, err := challenges.GetChallenges(ctx)
	if err != nil {
		return fmt.Errorf("catalog: failed to check existing challenges: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	for _, c := range Challenges() {
		if err := challenges.CreateChallenge(ctx, c); err != nil {
			return fmt.Errorf("catalog: failed to seed challenge: %w", err)
		}
	}
	for _, b := range Badges() {
		if err := badges.CreateBadge(ctx, b); err != nil {
			return fmt.Errorf("catalog: failed to seed badge: %w", err)
		}
	}
	for _, c := range Courses() {
		if err := courses.CreateCourse(ctx, c); err != nil {
			return fmt.Errorf("catalog: failed to seed course: %w", err)
		}
	}
	return nil
}
