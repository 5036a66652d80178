package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/finwiss-hub/finwiss-learning-hub/internal/application/command"
	"github.com/finwiss-hub/finwiss-learning-hub/internal/application/query"
)

// ══════════════════════════════════════════════════════════════════════
// Health
// ══════════════════════════════════════════════════════════════════════

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// ══════════════════════════════════════════════════════════════════════
// Auth
// ══════════════════════════════════════════════════════════════════════

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) handleRegister(c *fiber.Ctx) error {
	var req credentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	cmd := command.RegisterCommand{Username: req.Username, Password: req.Password}
	if err := cmd.Validate(); err != nil {
		return badRequest(c, err.Error())
	}

	res, err := s.deps.Register.Handle(c.UserContext(), cmd)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"user":  res.User,
		"token": res.Token,
	})
}

func (s *Server) handleLogin(c *fiber.Ctx) error {
	var req credentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	cmd := command.LoginCommand{Username: req.Username, Password: req.Password}
	if err := cmd.Validate(); err != nil {
		return badRequest(c, err.Error())
	}

	res, err := s.deps.Login.Handle(c.UserContext(), cmd)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"user":           res.User,
		"token":          res.Token,
		"streakExtended": res.StreakExtended,
		"streakReset":    res.StreakReset,
	})
}

// ══════════════════════════════════════════════════════════════════════
// User
// ══════════════════════════════════════════════════════════════════════

func (s *Server) handleGetCurrentUser(c *fiber.Ctx) error {
	u, err := s.deps.GetCurrentUser.Handle(c.UserContext(), query.GetCurrentUserQuery{
		UserID: currentUserID(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"user": u})
}

func (s *Server) handleGetLevelDetails(c *fiber.Ctx) error {
	details, err := s.deps.GetLevelDetails.Handle(c.UserContext(), query.GetLevelDetailsQuery{
		UserID: currentUserID(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(details)
}

func (s *Server) handleGetActivities(c *fiber.Ctx) error {
	activities, err := s.deps.GetActivities.Handle(c.UserContext(), query.GetActivitiesQuery{
		UserID: currentUserID(c),
		Limit:  c.QueryInt("limit"),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"activities": activities})
}

// ══════════════════════════════════════════════════════════════════════
// Leaderboard
// ══════════════════════════════════════════════════════════════════════

func (s *Server) handleGetLeaderboard(c *fiber.Ctx) error {
	res, err := s.deps.GetLeaderboard.Handle(c.UserContext(), query.GetLeaderboardQuery{
		Limit:  c.QueryInt("limit"),
		UserID: currentUserID(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(res)
}

// ══════════════════════════════════════════════════════════════════════
// Badges
// ══════════════════════════════════════════════════════════════════════

func (s *Server) handleListBadges(c *fiber.Ctx) error {
	res, err := s.deps.ListBadges.Handle(c.UserContext(), query.ListBadgesQuery{
		UserID: currentUserID(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(res)
}

// ══════════════════════════════════════════════════════════════════════
// Challenges
// ══════════════════════════════════════════════════════════════════════

func (s *Server) handleListChallenges(c *fiber.Ctx) error {
	res, err := s.deps.ListChallenges.Handle(c.UserContext(), query.ListChallengesQuery{
		UserID: currentUserID(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(res)
}

func (s *Server) handleCompleteChallenge(c *fiber.Ctx) error {
	challengeID, err := c.ParamsInt("id")
	if err != nil {
		return badRequest(c, "invalid challenge id")
	}

	res, err := s.deps.CompleteChallenge.Handle(c.UserContext(), command.CompleteChallengeCommand{
		UserID:      currentUserID(c),
		ChallengeID: int64(challengeID),
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"userChallenge":    res.UserChallenge,
		"user":             res.User,
		"alreadyCompleted": res.AlreadyCompleted,
		"pointsAwarded":    res.PointsAwarded,
	})
}

// ══════════════════════════════════════════════════════════════════════
// Courses
// ══════════════════════════════════════════════════════════════════════

func (s *Server) handleListCourses(c *fiber.Ctx) error {
	res, err := s.deps.ListCourses.Handle(c.UserContext(), query.ListCoursesQuery{
		UserID: currentUserID(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(res)
}

func (s *Server) handleStartCourse(c *fiber.Ctx) error {
	courseID, err := c.ParamsInt("id")
	if err != nil {
		return badRequest(c, "invalid course id")
	}

	res, err := s.deps.StartCourse.Handle(c.UserContext(), command.StartCourseCommand{
		UserID:   currentUserID(c),
		CourseID: int64(courseID),
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"userCourse": res.UserCourse,
		"course":     res.Course,
	})
}

type courseProgressRequest struct {
	LessonsCompleted int `json:"lessonsCompleted"`
}

func (s *Server) handleUpdateCourseProgress(c *fiber.Ctx) error {
	courseID, err := c.ParamsInt("id")
	if err != nil {
		return badRequest(c, "invalid course id")
	}

	var req courseProgressRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	cmd := command.UpdateCourseProgressCommand{
		UserID:           currentUserID(c),
		CourseID:         int64(courseID),
		LessonsCompleted: req.LessonsCompleted,
	}
	if err := cmd.Validate(); err != nil {
		return badRequest(c, err.Error())
	}

	res, err := s.deps.UpdateCourseProgress.Handle(c.UserContext(), cmd)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"userCourse":    res.UserCourse,
		"user":          res.User,
		"justCompleted": res.JustCompleted,
	})
}

// ══════════════════════════════════════════════════════════════════════
// Community
// ══════════════════════════════════════════════════════════════════════

func (s *Server) handleGetQuestions(c *fiber.Ctx) error {
	questions, err := s.deps.Community.HandleQuestions(c.UserContext(), query.GetQuestionsQuery{
		Limit: c.QueryInt("limit"),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"questions": questions})
}

func (s *Server) handleGetQuestion(c *fiber.Ctx) error {
	questionID, err := c.ParamsInt("id")
	if err != nil {
		return badRequest(c, "invalid question id")
	}

	detail, err := s.deps.Community.HandleQuestion(c.UserContext(), query.GetQuestionQuery{
		QuestionID: int64(questionID),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(detail)
}

type askQuestionRequest struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
}

func (s *Server) handleAskQuestion(c *fiber.Ctx) error {
	var req askQuestionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	cmd := command.AskQuestionCommand{
		UserID:  currentUserID(c),
		Title:   req.Title,
		Content: req.Content,
		Tags:    req.Tags,
	}
	if err := cmd.Validate(); err != nil {
		return badRequest(c, err.Error())
	}

	res, err := s.deps.AskQuestion.Handle(c.UserContext(), cmd)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"question": res.Question,
		"user":     res.User,
	})
}

type answerQuestionRequest struct {
	Content string `json:"content"`
}

func (s *Server) handleAnswerQuestion(c *fiber.Ctx) error {
	questionID, err := c.ParamsInt("id")
	if err != nil {
		return badRequest(c, "invalid question id")
	}

	var req answerQuestionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	cmd := command.AnswerQuestionCommand{
		UserID:     currentUserID(c),
		QuestionID: int64(questionID),
		Content:    req.Content,
	}
	if err := cmd.Validate(); err != nil {
		return badRequest(c, err.Error())
	}

	res, err := s.deps.AnswerQuestion.Handle(c.UserContext(), cmd)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"answer": res.Answer,
		"user":   res.User,
	})
}

type voteRequest struct {
	Value int `json:"value"`
}

func (s *Server) handleVoteQuestion(c *fiber.Ctx) error {
	questionID, err := c.ParamsInt("id")
	if err != nil {
		return badRequest(c, "invalid question id")
	}

	var req voteRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	q, err := s.deps.Vote.HandleQuestion(c.UserContext(), command.VoteQuestionCommand{
		QuestionID: int64(questionID),
		Value:      req.Value,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"question": q})
}

func (s *Server) handleVoteAnswer(c *fiber.Ctx) error {
	answerID, err := c.ParamsInt("id")
	if err != nil {
		return badRequest(c, "invalid answer id")
	}

	var req voteRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	a, err := s.deps.Vote.HandleAnswer(c.UserContext(), command.VoteAnswerCommand{
		AnswerID: int64(answerID),
		Value:    req.Value,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"answer": a})
}
