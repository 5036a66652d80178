package query

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finwiss-hub/finwiss-learning-hub/internal/domain/community"
	"github.com/finwiss-hub/finwiss-learning-hub/internal/domain/leaderboard"
	"github.com/finwiss-hub/finwiss-learning-hub/internal/domain/shared"
	"github.com/finwiss-hub/finwiss-learning-hub/internal/domain/user"
	"github.com/finwiss-hub/finwiss-learning-hub/internal/infrastructure/persistence/memory"
	"github.com/finwiss-hub/finwiss-learning-hub/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{Output: io.Discard, Level: logger.LevelError})
}

func seedUser(t *testing.T, s *memory.Store, username string, points, level, streak int) *user.User {
	t.Helper()
	u, err := user.New(username, "hash", time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	u.Points = points
	u.Level = level
	u.Streak = streak
	require.NoError(t, s.Users().Create(context.Background(), u))
	require.NoError(t, s.Users().Update(context.Background(), u))
	return u
}

func TestGetLeaderboard_RanksByPoints(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()

	a := seedUser(t, s, "anna", 300, 1, 0)
	b := seedUser(t, s, "bernd", 900, 2, 0)
	c := seedUser(t, s, "clara", 900, 2, 0)
	d := seedUser(t, s, "dora", 100, 1, 0)

	h := NewGetLeaderboardHandler(s.Users(), nil, 0, testLogger())
	res, err := h.Handle(ctx, GetLeaderboardQuery{Limit: 3, UserID: d.ID})
	require.NoError(t, err)

	require.Len(t, res.Entries, 3)
	assert.Equal(t, b.ID, res.Entries[0].UserID, "ties resolve by insertion order")
	assert.Equal(t, c.ID, res.Entries[1].UserID)
	assert.Equal(t, a.ID, res.Entries[2].UserID)
	assert.Equal(t, 1, res.Entries[0].Rank)
	assert.Equal(t, 4, res.OwnRank)
	assert.Equal(t, 4, res.TotalCount)
}

func TestGetLeaderboard_UnrankedRequester(t *testing.T) {
	s := memory.NewStore()
	seedUser(t, s, "anna", 300, 1, 0)

	h := NewGetLeaderboardHandler(s.Users(), nil, 0, testLogger())
	res, err := h.Handle(context.Background(), GetLeaderboardQuery{})
	require.NoError(t, err)
	assert.Equal(t, leaderboard.NotRanked, res.OwnRank)
}

// stubCache holds the full ranking written by SetRanking and serves reads
// from it, the contract every leaderboard.Cache implementation must meet.
type stubCache struct {
	entries []leaderboard.Entry
	sets    int
}

func (c *stubCache) GetTop(_ context.Context, limit int) ([]leaderboard.Entry, int, error) {
	if len(c.entries) == 0 {
		return nil, 0, nil
	}
	if limit > len(c.entries) {
		limit = len(c.entries)
	}
	out := make([]leaderboard.Entry, limit)
	copy(out, c.entries[:limit])
	return out, len(c.entries), nil
}

func (c *stubCache) SetRanking(_ context.Context, entries []leaderboard.Entry, _ time.Duration) error {
	c.entries = append([]leaderboard.Entry(nil), entries...)
	c.sets++
	return nil
}

func (c *stubCache) GetRank(_ context.Context, userID int64) (int, error) {
	for _, e := range c.entries {
		if e.UserID == userID {
			return e.Rank, nil
		}
	}
	return leaderboard.NotRanked, nil
}

func (c *stubCache) Invalidate(_ context.Context) error {
	c.entries = nil
	return nil
}

func TestGetLeaderboard_CachedTotalMatchesColdPath(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()
	for i, name := range []string{"anna", "bernd", "clara", "dora", "emil", "frida"} {
		seedUser(t, s, name, (i+1)*100, 1, 0)
	}

	cache := &stubCache{}
	h := NewGetLeaderboardHandler(s.Users(), cache, time.Minute, testLogger())

	cold, err := h.Handle(ctx, GetLeaderboardQuery{Limit: 3})
	require.NoError(t, err)
	require.Equal(t, 1, cache.sets)

	warm, err := h.Handle(ctx, GetLeaderboardQuery{Limit: 3})
	require.NoError(t, err)
	assert.Equal(t, 1, cache.sets, "second call is served from the cache")

	assert.Equal(t, 6, cold.TotalCount)
	assert.Equal(t, cold.TotalCount, warm.TotalCount, "cached total must cover all ranked users, not the page")
	require.Len(t, warm.Entries, 3)
	assert.Equal(t, cold.Entries, warm.Entries)
}

func TestGetLeaderboard_CachedTieOrderMatchesColdPath(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()

	a := seedUser(t, s, "anna", 300, 1, 0)
	b := seedUser(t, s, "bernd", 900, 2, 0)
	c := seedUser(t, s, "clara", 900, 2, 0)

	cache := &stubCache{}
	h := NewGetLeaderboardHandler(s.Users(), cache, time.Minute, testLogger())

	cold, err := h.Handle(ctx, GetLeaderboardQuery{Limit: 3, UserID: c.ID})
	require.NoError(t, err)
	warm, err := h.Handle(ctx, GetLeaderboardQuery{Limit: 3, UserID: c.ID})
	require.NoError(t, err)

	require.Len(t, cold.Entries, 3)
	assert.Equal(t, cold.Entries, warm.Entries, "tied users keep their computed order in cached reads")
	assert.Equal(t, []int64{b.ID, c.ID, a.ID}, []int64{
		warm.Entries[0].UserID, warm.Entries[1].UserID, warm.Entries[2].UserID,
	})
	for i, e := range warm.Entries {
		assert.Equal(t, i+1, e.Rank)
	}
	assert.Equal(t, 2, warm.OwnRank, "cached rank of the second tied user matches the computation")
	assert.Equal(t, cold.OwnRank, warm.OwnRank)
}

func TestGetLevelDetails(t *testing.T) {
	s := memory.NewStore()
	u := seedUser(t, s, "anna", 620, 2, 0)

	h := NewGetLevelDetailsHandler(s.Users())
	details, err := h.Handle(context.Background(), GetLevelDetailsQuery{UserID: u.ID})
	require.NoError(t, err)

	assert.Equal(t, 2, details.Level)
	assert.Equal(t, 3, details.NextLevel)
	assert.Equal(t, 120, details.LevelProgress)
	assert.Equal(t, 500, details.LevelCap)
	assert.Equal(t, 380, details.PointsToNext)
	assert.Equal(t, 620, details.TotalPoints)
}

func TestListBadges_ProgressAndEarned(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()
	require.NoError(t, memory.Seed(ctx, s))

	u := seedUser(t, s, "anna", 0, 10, 3)

	// Award the streak badge directly.
	streakBadge, err := s.Badges().FindByRequirement(ctx, "streak", 7)
	require.NoError(t, err)
	_, _, err = s.Badges().Award(ctx, u.ID, streakBadge.ID)
	require.NoError(t, err)

	h := NewListBadgesHandler(s.Users(), s.Badges())
	res, err := h.Handle(ctx, ListBadgesQuery{UserID: u.ID})
	require.NoError(t, err)
	require.Len(t, res.Badges, 6)

	byTitle := make(map[string]BadgeView)
	for _, v := range res.Badges {
		byTitle[v.Title] = v
	}

	assert.True(t, byTitle["7 Tage Serie"].Earned)
	assert.Equal(t, 1.0, byTitle["7 Tage Serie"].Progress)

	lvl := byTitle["Level 20 erreichen"]
	assert.False(t, lvl.Earned)
	assert.InDelta(t, 0.5, lvl.Progress, 1e-9, "level 10 of 20")

	// Counter-based badges have no live progress.
	assert.Zero(t, byTitle["10 Antworten"].Progress)
}

func TestListChallenges_MergesCompletionState(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()
	require.NoError(t, memory.Seed(ctx, s))
	u := seedUser(t, s, "anna", 0, 1, 0)

	uc, err := s.Challenges().GetOrCreateUserChallenge(ctx, u.ID, 1)
	require.NoError(t, err)
	require.True(t, uc.Complete(time.Now().UTC()))
	require.NoError(t, s.Challenges().SaveUserChallenge(ctx, uc))

	h := NewListChallengesHandler(s.Challenges())
	res, err := h.Handle(ctx, ListChallengesQuery{UserID: u.ID})
	require.NoError(t, err)
	require.Len(t, res.Challenges, 3)

	assert.True(t, res.Challenges[0].Completed)
	assert.False(t, res.Challenges[1].Completed)
	assert.False(t, res.Challenges[2].Completed)
}

func TestListCourses_MergesProgress(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()
	require.NoError(t, memory.Seed(ctx, s))
	u := seedUser(t, s, "anna", 0, 1, 0)

	uc, err := s.Courses().StartCourse(ctx, u.ID, 1)
	require.NoError(t, err)
	c, err := s.Courses().GetCourse(ctx, 1)
	require.NoError(t, err)
	_, err = uc.ApplyProgress(2, c, time.Now().UTC())
	require.NoError(t, err)
	require.NoError(t, s.Courses().SaveUserCourse(ctx, uc))

	h := NewListCoursesHandler(s.Courses())
	res, err := h.Handle(ctx, ListCoursesQuery{UserID: u.ID})
	require.NoError(t, err)
	require.Len(t, res.Courses, 2)

	assert.True(t, res.Courses[0].Started)
	assert.Equal(t, 2, res.Courses[0].LessonsCompleted)
	assert.False(t, res.Courses[0].Completed)

	assert.False(t, res.Courses[1].Started)
	assert.Zero(t, res.Courses[1].LessonsCompleted)
}

func TestCommunityQueries(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()
	u := seedUser(t, s, "anna", 0, 1, 0)

	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	var lastID int64
	for i := 0; i < 3; i++ {
		q, err := community.NewQuestion(u.ID, "Frage", "Inhalt", nil, base.Add(time.Duration(i)*time.Minute))
		require.NoError(t, err)
		require.NoError(t, s.Community().CreateQuestion(ctx, q))
		lastID = q.ID
	}

	h := NewCommunityHandler(s.Community())

	questions, err := h.HandleQuestions(ctx, GetQuestionsQuery{Limit: 2})
	require.NoError(t, err)
	require.Len(t, questions, 2)
	assert.Equal(t, lastID, questions[0].ID)

	a, err := community.NewAnswer(u.ID, lastID, "Antwort", base)
	require.NoError(t, err)
	require.NoError(t, s.Community().CreateAnswer(ctx, a))

	detail, err := h.HandleQuestion(ctx, GetQuestionQuery{QuestionID: lastID})
	require.NoError(t, err)
	assert.Equal(t, lastID, detail.Question.ID)
	require.Len(t, detail.Answers, 1)

	_, err = h.HandleQuestion(ctx, GetQuestionQuery{QuestionID: 999})
	assert.ErrorIs(t, err, shared.ErrQuestionNotFound)
}

func TestGetActivities_DefaultLimit(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()
	u := seedUser(t, s, "anna", 0, 1, 0)

	h := NewGetActivitiesHandler(s.Activities())
	entries, err := h.Handle(ctx, GetActivitiesQuery{UserID: u.ID})
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestGetCurrentUser(t *testing.T) {
	s := memory.NewStore()
	u := seedUser(t, s, "anna", 42, 1, 2)

	h := NewGetCurrentUserHandler(s.Users())
	got, err := h.Handle(context.Background(), GetCurrentUserQuery{UserID: u.ID})
	require.NoError(t, err)
	assert.Equal(t, 42, got.Points)

	_, err = h.Handle(context.Background(), GetCurrentUserQuery{UserID: 999})
	assert.ErrorIs(t, err, shared.ErrUserNotFound)
}
