package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	nethttp "net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finwiss-hub/finwiss-learning-hub/internal/application/command"
	"github.com/finwiss-hub/finwiss-learning-hub/internal/application/query"
	"github.com/finwiss-hub/finwiss-learning-hub/internal/infrastructure/persistence/memory"
	"github.com/finwiss-hub/finwiss-learning-hub/pkg/auth"
	"github.com/finwiss-hub/finwiss-learning-hub/pkg/logger"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	store := memory.NewStore()
	require.NoError(t, memory.Seed(context.Background(), store))

	log := logger.New(logger.Options{Output: io.Discard, Level: logger.LevelError})
	tokens := auth.NewTokenIssuer("test-secret", time.Hour)

	users := store.Users()
	badges := store.Badges()
	challenges := store.Challenges()
	courses := store.Courses()
	comm := store.Community()
	activities := store.Activities()

	deps := Dependencies{
		Register:             command.NewRegisterHandler(users, activities, tokens, log, nil),
		Login:                command.NewLoginHandler(users, badges, activities, tokens, log, nil),
		AskQuestion:          command.NewAskQuestionHandler(users, comm, badges, activities, log, nil),
		AnswerQuestion:       command.NewAnswerQuestionHandler(users, comm, badges, activities, log, nil),
		Vote:                 command.NewVoteHandler(comm),
		CompleteChallenge:    command.NewCompleteChallengeHandler(users, challenges, badges, activities, log, nil),
		StartCourse:          command.NewStartCourseHandler(courses),
		UpdateCourseProgress: command.NewUpdateCourseProgressHandler(users, courses, badges, activities, log, nil),

		GetCurrentUser:  query.NewGetCurrentUserHandler(users),
		GetLevelDetails: query.NewGetLevelDetailsHandler(users),
		GetLeaderboard:  query.NewGetLeaderboardHandler(users, nil, 0, log),
		ListBadges:      query.NewListBadgesHandler(users, badges),
		ListChallenges:  query.NewListChallengesHandler(challenges),
		ListCourses:     query.NewListCoursesHandler(courses),
		Community:       query.NewCommunityHandler(comm),
		GetActivities:   query.NewGetActivitiesHandler(activities),

		Tokens: tokens,
		Logger: log,
	}

	return NewServer(DefaultConfig(), deps)
}

// request performs an in-process request against the fiber app and decodes
// the JSON response body into a generic map.
func request(t *testing.T, s *Server, method, path, token string, body any) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := nethttp.NewRequest(method, path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.App().Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]any
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return resp.StatusCode, decoded
}

func registerUser(t *testing.T, s *Server, username string) string {
	t.Helper()
	status, body := request(t, s, "POST", "/api/register", "", map[string]any{
		"username": username,
		"password": "geheim123",
	})
	require.Equal(t, nethttp.StatusCreated, status)
	token, ok := body["token"].(string)
	require.True(t, ok)
	require.NotEmpty(t, token)
	return token
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	status, body := request(t, s, "GET", "/api/health", "", nil)
	assert.Equal(t, nethttp.StatusOK, status)
	assert.Equal(t, "ok", body["status"])
}

func TestRegister(t *testing.T) {
	s := newTestServer(t)

	status, body := request(t, s, "POST", "/api/register", "", map[string]any{
		"username": "mira",
		"password": "geheim123",
	})
	require.Equal(t, nethttp.StatusCreated, status)
	assert.NotEmpty(t, body["token"])

	u, ok := body["user"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "mira", u["username"])
	assert.Equal(t, float64(0), u["points"])
	assert.Equal(t, float64(1), u["level"])
	assert.NotContains(t, u, "passwordHash")
}

func TestRegister_DuplicateUsername(t *testing.T) {
	s := newTestServer(t)
	registerUser(t, s, "mira")

	status, body := request(t, s, "POST", "/api/register", "", map[string]any{
		"username": "mira",
		"password": "geheim123",
	})
	assert.Equal(t, nethttp.StatusConflict, status)
	assert.NotEmpty(t, body["error"])
}

func TestRegister_ShortPassword(t *testing.T) {
	s := newTestServer(t)

	status, _ := request(t, s, "POST", "/api/register", "", map[string]any{
		"username": "mira",
		"password": "abc",
	})
	assert.Equal(t, nethttp.StatusBadRequest, status)
}

func TestLogin(t *testing.T) {
	s := newTestServer(t)
	registerUser(t, s, "mira")

	status, body := request(t, s, "POST", "/api/login", "", map[string]any{
		"username": "mira",
		"password": "geheim123",
	})
	require.Equal(t, nethttp.StatusOK, status)
	assert.NotEmpty(t, body["token"])
}

func TestLogin_WrongPassword(t *testing.T) {
	s := newTestServer(t)
	registerUser(t, s, "mira")

	status, _ := request(t, s, "POST", "/api/login", "", map[string]any{
		"username": "mira",
		"password": "falsches-passwort",
	})
	assert.Equal(t, nethttp.StatusUnauthorized, status)
}

func TestAuth_MissingToken(t *testing.T) {
	s := newTestServer(t)

	status, _ := request(t, s, "GET", "/api/user", "", nil)
	assert.Equal(t, nethttp.StatusUnauthorized, status)
}

func TestAuth_InvalidToken(t *testing.T) {
	s := newTestServer(t)

	status, _ := request(t, s, "GET", "/api/user", "nicht-ein-token", nil)
	assert.Equal(t, nethttp.StatusUnauthorized, status)
}

func TestGetCurrentUser(t *testing.T) {
	s := newTestServer(t)
	token := registerUser(t, s, "mira")

	status, body := request(t, s, "GET", "/api/user", token, nil)
	require.Equal(t, nethttp.StatusOK, status)

	u, ok := body["user"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "mira", u["username"])
}

func TestQuestionFlow(t *testing.T) {
	s := newTestServer(t)
	token := registerUser(t, s, "mira")

	status, body := request(t, s, "POST", "/api/questions", token, map[string]any{
		"title":   "Was ist ein ETF?",
		"content": "Wie unterscheidet sich ein ETF von einem Fonds?",
		"tags":    []string{"etf", "grundlagen"},
	})
	require.Equal(t, nethttp.StatusCreated, status)

	q, ok := body["question"].(map[string]any)
	require.True(t, ok)
	questionID := int64(q["id"].(float64))

	u, ok := body["user"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(10), u["points"])

	// Listing is public.
	status, body = request(t, s, "GET", "/api/questions", "", nil)
	require.Equal(t, nethttp.StatusOK, status)
	questions, ok := body["questions"].([]any)
	require.True(t, ok)
	assert.Len(t, questions, 1)

	status, body = request(t, s, "POST", fmt.Sprintf("/api/questions/%d/answers", questionID), token, map[string]any{
		"content": "Ein ETF bildet einen Index passiv nach.",
	})
	require.Equal(t, nethttp.StatusCreated, status)
	u = body["user"].(map[string]any)
	assert.Equal(t, float64(30), u["points"])

	status, body = request(t, s, "GET", fmt.Sprintf("/api/questions/%d", questionID), "", nil)
	require.Equal(t, nethttp.StatusOK, status)
	answers, ok := body["answers"].([]any)
	require.True(t, ok)
	assert.Len(t, answers, 1)
}

func TestGetQuestion_NotFound(t *testing.T) {
	s := newTestServer(t)

	status, _ := request(t, s, "GET", "/api/questions/999", "", nil)
	assert.Equal(t, nethttp.StatusNotFound, status)
}

func TestVoteQuestion(t *testing.T) {
	s := newTestServer(t)
	token := registerUser(t, s, "mira")

	_, body := request(t, s, "POST", "/api/questions", token, map[string]any{
		"title":   "Was ist ein ETF?",
		"content": "Wie unterscheidet sich ein ETF von einem Fonds?",
	})
	questionID := int64(body["question"].(map[string]any)["id"].(float64))

	status, _ := request(t, s, "POST", fmt.Sprintf("/api/questions/%d/vote", questionID), token, map[string]any{
		"value": 5,
	})
	assert.Equal(t, nethttp.StatusBadRequest, status)

	status, body = request(t, s, "POST", fmt.Sprintf("/api/questions/%d/vote", questionID), token, map[string]any{
		"value": 1,
	})
	require.Equal(t, nethttp.StatusOK, status)
	q := body["question"].(map[string]any)
	assert.Equal(t, float64(1), q["votes"])
}

func TestCompleteChallenge(t *testing.T) {
	s := newTestServer(t)
	token := registerUser(t, s, "mira")

	status, body := request(t, s, "POST", "/api/challenges/1/complete", token, nil)
	require.Equal(t, nethttp.StatusOK, status)
	assert.Equal(t, false, body["alreadyCompleted"])
	assert.Equal(t, float64(25), body["pointsAwarded"])

	// Repeating the same challenge awards nothing.
	status, body = request(t, s, "POST", "/api/challenges/1/complete", token, nil)
	require.Equal(t, nethttp.StatusOK, status)
	assert.Equal(t, true, body["alreadyCompleted"])
	assert.Equal(t, float64(0), body["pointsAwarded"])
}

func TestCompleteChallenge_Unknown(t *testing.T) {
	s := newTestServer(t)
	token := registerUser(t, s, "mira")

	status, _ := request(t, s, "POST", "/api/challenges/999/complete", token, nil)
	assert.Equal(t, nethttp.StatusNotFound, status)
}

func TestCourseFlow(t *testing.T) {
	s := newTestServer(t)
	token := registerUser(t, s, "mira")

	status, body := request(t, s, "POST", "/api/courses/1/start", token, nil)
	require.Equal(t, nethttp.StatusOK, status)
	course := body["course"].(map[string]any)
	lessons := int(course["totalLessons"].(float64))

	status, body = request(t, s, "PUT", "/api/courses/1/progress", token, map[string]any{
		"lessonsCompleted": lessons,
	})
	require.Equal(t, nethttp.StatusOK, status)
	assert.Equal(t, true, body["justCompleted"])
	u := body["user"].(map[string]any)
	assert.Equal(t, float64(75), u["points"])
}

func TestCourseProgress_NotStarted(t *testing.T) {
	s := newTestServer(t)
	token := registerUser(t, s, "mira")

	status, _ := request(t, s, "PUT", "/api/courses/2/progress", token, map[string]any{
		"lessonsCompleted": 1,
	})
	assert.Equal(t, nethttp.StatusNotFound, status)
}

func TestCatalogEndpoints(t *testing.T) {
	s := newTestServer(t)
	token := registerUser(t, s, "mira")

	status, body := request(t, s, "GET", "/api/badges", token, nil)
	require.Equal(t, nethttp.StatusOK, status)
	assert.Len(t, body["badges"].([]any), 6)

	status, body = request(t, s, "GET", "/api/challenges", token, nil)
	require.Equal(t, nethttp.StatusOK, status)
	assert.Len(t, body["challenges"].([]any), 3)

	status, body = request(t, s, "GET", "/api/courses", token, nil)
	require.Equal(t, nethttp.StatusOK, status)
	assert.Len(t, body["courses"].([]any), 2)
}

func TestLeaderboard(t *testing.T) {
	s := newTestServer(t)
	token := registerUser(t, s, "mira")
	registerUser(t, s, "jonas")

	status, body := request(t, s, "GET", "/api/leaderboard", token, nil)
	require.Equal(t, nethttp.StatusOK, status)
	entries, ok := body["entries"].([]any)
	require.True(t, ok)
	assert.Len(t, entries, 2)
	assert.Equal(t, float64(2), body["totalCount"])
}

func TestActivities(t *testing.T) {
	s := newTestServer(t)
	token := registerUser(t, s, "mira")

	status, body := request(t, s, "GET", "/api/user/activities", token, nil)
	require.Equal(t, nethttp.StatusOK, status)
	activities, ok := body["activities"].([]any)
	require.True(t, ok)
	require.Len(t, activities, 1)

	first := activities[0].(map[string]any)
	assert.Equal(t, "account_created", first["type"])
}

func TestLevelDetails(t *testing.T) {
	s := newTestServer(t)
	token := registerUser(t, s, "mira")

	status, body := request(t, s, "GET", "/api/user/level", token, nil)
	require.Equal(t, nethttp.StatusOK, status)
	assert.Equal(t, float64(1), body["level"])
}
