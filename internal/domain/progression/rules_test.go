package progression

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finwiss-hub/finwiss-learning-hub/internal/domain/activity"
	"github.com/finwiss-hub/finwiss-learning-hub/internal/domain/badge"
)

func TestLevelForPoints(t *testing.T) {
	tests := []struct {
		points int
		want   int
	}{
		{0, 1},
		{499, 1},
		{500, 2},
		{999, 2},
		{1000, 3},
		{9500, 20},
		{-10, 1},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, LevelForPoints(tt.points), "points=%d", tt.points)
	}
}

func TestNextStreak_TransitionTable(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		current   int
		lastLogin time.Time
		want      int
		extended  bool
		reset     bool
	}{
		{"yesterday extends", 3, now.AddDate(0, 0, -1), 4, true, false},
		{"same day unchanged", 3, now.Add(-2 * time.Hour), 3, false, false},
		{"three days ago resets", 5, now.AddDate(0, 0, -3), 1, false, true},
		{"first login after registration resets to 1", 0, now.AddDate(0, 0, -10), 1, false, true},
		{"clock moved backward resets", 6, now.AddDate(0, 0, 2), 1, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := NextStreak(tt.current, tt.lastLogin, now)
			assert.Equal(t, tt.want, res.Streak)
			assert.Equal(t, tt.extended, res.Extended)
			assert.Equal(t, tt.reset, res.Reset)
		})
	}
}

func TestNextStreak_MilestoneAtSeven(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	yesterday := now.AddDate(0, 0, -1)

	res := NextStreak(6, yesterday, now)
	assert.Equal(t, 7, res.Streak)
	assert.True(t, res.Milestone)

	// Day eight is no longer a milestone.
	res = NextStreak(7, yesterday, now)
	assert.Equal(t, 8, res.Streak)
	assert.False(t, res.Milestone)
}

func TestOnLogin_AlwaysRefreshesLastLogin(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	effects := OnLogin(3, now.Add(-time.Hour), now)
	require.Len(t, effects, 1)

	set, ok := effects[0].(SetStreak)
	require.True(t, ok)
	assert.Equal(t, 3, set.Streak)
	assert.Equal(t, now, set.LastLoginAt)
}

func TestOnLogin_SevenDayMilestoneEffects(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	effects := OnLogin(6, now.AddDate(0, 0, -1), now)
	require.Len(t, effects, 3)

	set := effects[0].(SetStreak)
	assert.Equal(t, 7, set.Streak)

	award, ok := effects[1].(AwardBadge)
	require.True(t, ok)
	assert.Equal(t, badge.RequirementStreak, award.Requirement)
	assert.Equal(t, 7, award.RequiredAmount)

	log, ok := effects[2].(LogActivity)
	require.True(t, ok)
	assert.Equal(t, activity.TypeStreakMilestone, log.Type)
	assert.Zero(t, log.PointsAwarded)
}

func TestOnPointsChanged_NoLevelUp(t *testing.T) {
	assert.Nil(t, OnPointsChanged(1, 499))
	assert.Nil(t, OnPointsChanged(2, 999))
}

func TestOnPointsChanged_LevelUp(t *testing.T) {
	effects := OnPointsChanged(1, 510)
	require.Len(t, effects, 2)

	set, ok := effects[0].(SetLevel)
	require.True(t, ok)
	assert.Equal(t, 2, set.Level)

	log, ok := effects[1].(LogActivity)
	require.True(t, ok)
	assert.Equal(t, activity.TypeLevelUp, log.Type)
	assert.Zero(t, log.PointsAwarded, "leveling is a side effect of points, not an extra reward")
}

func TestOnPointsChanged_LevelTwentyBadge(t *testing.T) {
	// 19 -> 20 awards the level badge.
	effects := OnPointsChanged(19, 9500)
	require.Len(t, effects, 3)

	set := effects[0].(SetLevel)
	assert.Equal(t, 20, set.Level)

	award, ok := effects[2].(AwardBadge)
	require.True(t, ok)
	assert.Equal(t, badge.RequirementLevel, award.Requirement)
	assert.Equal(t, 20, award.RequiredAmount)
}

func TestOnAnswerGiven_TenthAnswerBadge(t *testing.T) {
	effects := OnAnswerGiven(42, 7, 9)
	require.Len(t, effects, 1)

	effects = OnAnswerGiven(43, 7, 10)
	require.Len(t, effects, 2)
	award := effects[1].(AwardBadge)
	assert.Equal(t, badge.RequirementAnswersGiven, award.Requirement)
	assert.Equal(t, 10, award.RequiredAmount)

	// The 11th answer awards nothing again.
	effects = OnAnswerGiven(44, 7, 11)
	require.Len(t, effects, 1)
}

func TestOnCourseCompleted_FifthCourseBadge(t *testing.T) {
	effects := OnCourseCompleted(3, "Aktien Grundlagen", 4)
	require.Len(t, effects, 1)
	log := effects[0].(LogActivity)
	assert.Equal(t, activity.TypeCourseCompleted, log.Type)
	assert.Equal(t, PointsCompleteCourse, log.PointsAwarded)

	effects = OnCourseCompleted(4, "Altersvorsorge planen", 5)
	require.Len(t, effects, 2)
	award := effects[1].(AwardBadge)
	assert.Equal(t, badge.RequirementCoursesCompleted, award.Requirement)
}

func TestOnChallengeCompleted(t *testing.T) {
	effects := OnChallengeCompleted(9, "Tägliche Lektion abschließen", 25)
	require.Len(t, effects, 1)

	log := effects[0].(LogActivity)
	assert.Equal(t, activity.TypeChallengeCompleted, log.Type)
	assert.Equal(t, 25, log.PointsAwarded)
	assert.Equal(t, int64(9), log.Metadata["challengeId"])
}

func TestComputeLevelDetails(t *testing.T) {
	d := ComputeLevelDetails(2, 740)

	assert.Equal(t, 2, d.Level)
	assert.Equal(t, 3, d.NextLevel)
	assert.Equal(t, 240, d.LevelProgress)
	assert.Equal(t, 500, d.LevelCap)
	assert.Equal(t, 260, d.PointsToNext)
	assert.Equal(t, 740, d.TotalPoints)
}

// Level invariant: after any sequence of grants, the level recomputed from
// points matches the level reached via incremental OnPointsChanged calls.
func TestLevelInvariant(t *testing.T) {
	points := 0
	level := 1
	grants := []int{10, 20, 75, 25, 50, 40, 20, 20, 75, 10, 300, 75, 20, 10, 10, 200}

	for _, g := range grants {
		points += g
		for _, e := range OnPointsChanged(level, points) {
			if set, ok := e.(SetLevel); ok {
				level = set.Level
			}
		}
		assert.Equal(t, LevelForPoints(points), level, "after reaching %d points", points)
	}
}
