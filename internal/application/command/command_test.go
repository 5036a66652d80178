package command

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finwiss-hub/finwiss-learning-hub/internal/domain/activity"
	"github.com/finwiss-hub/finwiss-learning-hub/internal/domain/challenge"
	"github.com/finwiss-hub/finwiss-learning-hub/internal/domain/progression"
	"github.com/finwiss-hub/finwiss-learning-hub/internal/domain/shared"
	"github.com/finwiss-hub/finwiss-learning-hub/internal/infrastructure/persistence/memory"
	"github.com/finwiss-hub/finwiss-learning-hub/pkg/auth"
	"github.com/finwiss-hub/finwiss-learning-hub/pkg/logger"
)

// fixture wires all handlers against a seeded in-memory store with a
// controllable clock.
type fixture struct {
	store  *memory.Store
	tokens *auth.TokenIssuer
	log    *logger.Logger
	clock  time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		tokens: auth.NewTokenIssuer("test-secret", time.Hour),
		log:    logger.New(logger.Options{Output: io.Discard, Level: logger.LevelError}),
		clock:  time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC),
	}
	f.store = memory.NewStore(memory.WithClock(f.now))
	require.NoError(t, memory.Seed(context.Background(), f.store))
	return f
}

func (f *fixture) now() time.Time { return f.clock }

func (f *fixture) advanceDays(d int) { f.clock = f.clock.Add(time.Duration(d) * 24 * time.Hour) }

func (f *fixture) register(t *testing.T, username string) int64 {
	t.Helper()
	h := NewRegisterHandler(f.store.Users(), f.store.Activities(), f.tokens, f.log, f.now)
	res, err := h.Handle(context.Background(), RegisterCommand{Username: username, Password: "geheim123"})
	require.NoError(t, err)
	return res.User.ID
}

func (f *fixture) login(t *testing.T, username string) *LoginResult {
	t.Helper()
	h := NewLoginHandler(f.store.Users(), f.store.Badges(), f.store.Activities(), f.tokens, f.log, f.now)
	res, err := h.Handle(context.Background(), LoginCommand{Username: username, Password: "geheim123"})
	require.NoError(t, err)
	return res
}

func (f *fixture) hasBadge(t *testing.T, userID int64, title string) bool {
	t.Helper()
	earned, err := f.store.Badges().GetUserBadges(context.Background(), userID)
	require.NoError(t, err)
	for _, e := range earned {
		if e.Badge.Title == title {
			return true
		}
	}
	return false
}

func (f *fixture) activityTypes(t *testing.T, userID int64) []activity.Type {
	t.Helper()
	entries, err := f.store.Activities().GetByUser(context.Background(), userID, 0)
	require.NoError(t, err)
	types := make([]activity.Type, 0, len(entries))
	for _, e := range entries {
		types = append(types, e.Type)
	}
	return types
}

func TestRegister_CreatesAccountWithWelcomeActivity(t *testing.T) {
	f := newFixture(t)
	id := f.register(t, "maria")

	u, err := f.store.Users().GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 0, u.Points)
	assert.Equal(t, 1, u.Level)
	assert.Equal(t, 0, u.Streak)

	types := f.activityTypes(t, id)
	assert.Contains(t, types, activity.TypeAccountCreated)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	f := newFixture(t)
	f.register(t, "maria")

	h := NewRegisterHandler(f.store.Users(), f.store.Activities(), f.tokens, f.log, f.now)
	_, err := h.Handle(context.Background(), RegisterCommand{Username: "maria", Password: "geheim123"})
	assert.ErrorIs(t, err, shared.ErrDuplicateUsername)
}

func TestLogin_WrongPasswordAndUnknownUserLookAlike(t *testing.T) {
	f := newFixture(t)
	f.register(t, "maria")

	h := NewLoginHandler(f.store.Users(), f.store.Badges(), f.store.Activities(), f.tokens, f.log, f.now)

	_, errWrong := h.Handle(context.Background(), LoginCommand{Username: "maria", Password: "falsch99"})
	_, errUnknown := h.Handle(context.Background(), LoginCommand{Username: "niemand", Password: "geheim123"})

	assert.ErrorIs(t, errWrong, shared.ErrWrongCredentials)
	assert.ErrorIs(t, errUnknown, shared.ErrWrongCredentials)
}

func TestLogin_StreakTransitions(t *testing.T) {
	f := newFixture(t)
	id := f.register(t, "maria")

	// Same-day login leaves the streak untouched.
	res := f.login(t, "maria")
	assert.Equal(t, 0, res.User.Streak)

	// Next-day logins extend it.
	f.advanceDays(1)
	res = f.login(t, "maria")
	assert.Equal(t, 1, res.User.Streak)
	assert.True(t, res.StreakExtended)

	f.advanceDays(1)
	res = f.login(t, "maria")
	assert.Equal(t, 2, res.User.Streak)

	// A two-day gap resets to 1.
	f.advanceDays(2)
	res = f.login(t, "maria")
	assert.Equal(t, 1, res.User.Streak)
	assert.True(t, res.StreakReset)

	u, err := f.store.Users().GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, f.clock, u.LastLoginAt)
}

func TestLogin_SevenDayStreakAwardsBadge(t *testing.T) {
	f := newFixture(t)
	id := f.register(t, "maria")

	for i := 0; i < 7; i++ {
		f.advanceDays(1)
		f.login(t, "maria")
	}

	u, err := f.store.Users().GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 7, u.Streak)
	assert.True(t, f.hasBadge(t, id, "7 Tage Serie"))

	types := f.activityTypes(t, id)
	assert.Contains(t, types, activity.TypeStreakMilestone)
	assert.Contains(t, types, activity.TypeBadgeEarned)

	// The eighth day extends the streak but awards nothing new.
	f.advanceDays(1)
	f.login(t, "maria")
	earned, err := f.store.Badges().GetUserBadges(context.Background(), id)
	require.NoError(t, err)
	assert.Len(t, earned, 1)
}

func TestAskQuestion_AwardsPoints(t *testing.T) {
	f := newFixture(t)
	id := f.register(t, "maria")

	h := NewAskQuestionHandler(f.store.Users(), f.store.Community(), f.store.Badges(), f.store.Activities(), f.log, f.now)
	res, err := h.Handle(context.Background(), AskQuestionCommand{
		UserID:  id,
		Title:   "Was ist ein ETF?",
		Content: "Ich verstehe den Unterschied zu Fonds nicht.",
		Tags:    []string{"etf"},
	})
	require.NoError(t, err)

	assert.Equal(t, progression.PointsAskQuestion, res.User.Points)
	assert.Equal(t, 1, res.User.Level)
	assert.NotZero(t, res.Question.ID)
}

func TestAnswerQuestion_TenthAnswerAwardsBadge(t *testing.T) {
	f := newFixture(t)
	asker := f.register(t, "maria")
	answerer := f.register(t, "peter")

	ask := NewAskQuestionHandler(f.store.Users(), f.store.Community(), f.store.Badges(), f.store.Activities(), f.log, f.now)
	answer := NewAnswerQuestionHandler(f.store.Users(), f.store.Community(), f.store.Badges(), f.store.Activities(), f.log, f.now)

	for i := 0; i < 10; i++ {
		q, err := ask.Handle(context.Background(), AskQuestionCommand{
			UserID:  asker,
			Title:   "Frage",
			Content: "Inhalt",
		})
		require.NoError(t, err)

		_, err = answer.Handle(context.Background(), AnswerQuestionCommand{
			UserID:     answerer,
			QuestionID: q.Question.ID,
			Content:    "Antwort",
		})
		require.NoError(t, err)

		hasBadge := f.hasBadge(t, answerer, "10 Antworten")
		assert.Equal(t, i == 9, hasBadge, "badge appears exactly at the tenth answer")
	}

	u, err := f.store.Users().GetByID(context.Background(), answerer)
	require.NoError(t, err)
	assert.Equal(t, 10*progression.PointsAnswerQuestion, u.Points)
}

func TestAnswerQuestion_UnknownQuestion(t *testing.T) {
	f := newFixture(t)
	id := f.register(t, "maria")

	h := NewAnswerQuestionHandler(f.store.Users(), f.store.Community(), f.store.Badges(), f.store.Activities(), f.log, f.now)
	_, err := h.Handle(context.Background(), AnswerQuestionCommand{UserID: id, QuestionID: 999, Content: "Antwort"})
	assert.ErrorIs(t, err, shared.ErrQuestionNotFound)
}

func TestVote_RejectsOutOfRangeValues(t *testing.T) {
	f := newFixture(t)
	id := f.register(t, "maria")

	ask := NewAskQuestionHandler(f.store.Users(), f.store.Community(), f.store.Badges(), f.store.Activities(), f.log, f.now)
	q, err := ask.Handle(context.Background(), AskQuestionCommand{UserID: id, Title: "Frage", Content: "Inhalt"})
	require.NoError(t, err)

	vote := NewVoteHandler(f.store.Community())
	for _, v := range []int{0, 2, -2, 5} {
		_, err := vote.HandleQuestion(context.Background(), VoteQuestionCommand{QuestionID: q.Question.ID, Value: v})
		assert.ErrorIs(t, err, shared.ErrInvalidVote, "value %d", v)
	}

	updated, err := vote.HandleQuestion(context.Background(), VoteQuestionCommand{QuestionID: q.Question.ID, Value: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, updated.Votes)
}

func TestCompleteChallenge_AwardsRewardOnce(t *testing.T) {
	f := newFixture(t)
	id := f.register(t, "maria")

	h := NewCompleteChallengeHandler(f.store.Users(), f.store.Challenges(), f.store.Badges(), f.store.Activities(), f.log, f.now)

	// Seeded challenge 2 rewards 50 points.
	first, err := h.Handle(context.Background(), CompleteChallengeCommand{UserID: id, ChallengeID: 2})
	require.NoError(t, err)
	assert.False(t, first.AlreadyCompleted)
	assert.Equal(t, 50, first.PointsAwarded)
	assert.Equal(t, 50, first.User.Points)

	second, err := h.Handle(context.Background(), CompleteChallengeCommand{UserID: id, ChallengeID: 2})
	require.NoError(t, err)
	assert.True(t, second.AlreadyCompleted)
	assert.Equal(t, 0, second.PointsAwarded)

	u, err := f.store.Users().GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 50, u.Points)
}

func TestCompleteChallenge_UnknownChallenge(t *testing.T) {
	f := newFixture(t)
	id := f.register(t, "maria")

	h := NewCompleteChallengeHandler(f.store.Users(), f.store.Challenges(), f.store.Badges(), f.store.Activities(), f.log, f.now)
	_, err := h.Handle(context.Background(), CompleteChallengeCommand{UserID: id, ChallengeID: 77})
	assert.ErrorIs(t, err, shared.ErrChallengeNotFound)
}

func TestCourseProgress_CompletionBonusExactlyOnce(t *testing.T) {
	f := newFixture(t)
	id := f.register(t, "maria")

	start := NewStartCourseHandler(f.store.Courses())
	update := NewUpdateCourseProgressHandler(f.store.Users(), f.store.Courses(), f.store.Badges(), f.store.Activities(), f.log, f.now)

	// Seeded course 1 has five lessons.
	_, err := start.Handle(context.Background(), StartCourseCommand{UserID: id, CourseID: 1})
	require.NoError(t, err)

	res, err := update.Handle(context.Background(), UpdateCourseProgressCommand{UserID: id, CourseID: 1, LessonsCompleted: 4})
	require.NoError(t, err)
	assert.False(t, res.JustCompleted)
	assert.Equal(t, 0, res.User.Points)

	res, err = update.Handle(context.Background(), UpdateCourseProgressCommand{UserID: id, CourseID: 1, LessonsCompleted: 5})
	require.NoError(t, err)
	assert.True(t, res.JustCompleted)
	assert.Equal(t, progression.PointsCompleteCourse, res.User.Points)

	// Re-submitting the final count changes nothing.
	res, err = update.Handle(context.Background(), UpdateCourseProgressCommand{UserID: id, CourseID: 1, LessonsCompleted: 5})
	require.NoError(t, err)
	assert.False(t, res.JustCompleted)

	u, err := f.store.Users().GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, progression.PointsCompleteCourse, u.Points)
}

func TestCourseProgress_RejectsRegression(t *testing.T) {
	f := newFixture(t)
	id := f.register(t, "maria")

	start := NewStartCourseHandler(f.store.Courses())
	update := NewUpdateCourseProgressHandler(f.store.Users(), f.store.Courses(), f.store.Badges(), f.store.Activities(), f.log, f.now)

	_, err := start.Handle(context.Background(), StartCourseCommand{UserID: id, CourseID: 1})
	require.NoError(t, err)

	_, err = update.Handle(context.Background(), UpdateCourseProgressCommand{UserID: id, CourseID: 1, LessonsCompleted: 3})
	require.NoError(t, err)

	_, err = update.Handle(context.Background(), UpdateCourseProgressCommand{UserID: id, CourseID: 1, LessonsCompleted: 2})
	assert.ErrorIs(t, err, shared.ErrLessonsNotMonotone)

	_, err = update.Handle(context.Background(), UpdateCourseProgressCommand{UserID: id, CourseID: 1, LessonsCompleted: -1})
	assert.ErrorIs(t, err, shared.ErrNegativeLessons)
}

func TestCourseProgress_RequiresStartedCourse(t *testing.T) {
	f := newFixture(t)
	id := f.register(t, "maria")

	update := NewUpdateCourseProgressHandler(f.store.Users(), f.store.Courses(), f.store.Badges(), f.store.Activities(), f.log, f.now)
	_, err := update.Handle(context.Background(), UpdateCourseProgressCommand{UserID: id, CourseID: 1, LessonsCompleted: 1})
	assert.ErrorIs(t, err, shared.ErrCourseNotStarted)
}

func TestLevelUp_CrossingBoundaryLogsAndAwards(t *testing.T) {
	f := newFixture(t)
	id := f.register(t, "maria")

	// Feed points through a one-off challenge to reach 480.
	big := &challenge.Challenge{Title: "Bonus", Description: "Bonus", PointsReward: 480, Type: challenge.TypeOneTime}
	require.NoError(t, f.store.Challenges().CreateChallenge(context.Background(), big))

	h := NewCompleteChallengeHandler(f.store.Users(), f.store.Challenges(), f.store.Badges(), f.store.Activities(), f.log, f.now)
	res, err := h.Handle(context.Background(), CompleteChallengeCommand{UserID: id, ChallengeID: big.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, res.User.Level, "480 points stay on level 1")

	ask := NewAskQuestionHandler(f.store.Users(), f.store.Community(), f.store.Badges(), f.store.Activities(), f.log, f.now)
	ares, err := ask.Handle(context.Background(), AskQuestionCommand{UserID: id, Title: "Frage", Content: "Inhalt"})
	require.NoError(t, err)

	// 490 points stay on level 1; one answer away from the boundary.
	assert.Equal(t, 490, ares.User.Points)
	assert.Equal(t, 1, ares.User.Level)

	ares, err = ask.Handle(context.Background(), AskQuestionCommand{UserID: id, Title: "Frage", Content: "Inhalt"})
	require.NoError(t, err)
	assert.Equal(t, 500, ares.User.Points)
	assert.Equal(t, 2, ares.User.Level, "500 points reach level 2")

	types := f.activityTypes(t, id)
	assert.Contains(t, types, activity.TypeLevelUp)
}
