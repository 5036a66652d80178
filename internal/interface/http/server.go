// Package http implements the REST API of FinWiss Learning Hub on Fiber.
// Routes are thin: parse, call the command/query handler, translate the
// error kind to a status code.
package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/finwiss-hub/finwiss-learning-hub/internal/application/command"
	"github.com/finwiss-hub/finwiss-learning-hub/internal/application/query"
	"github.com/finwiss-hub/finwiss-learning-hub/pkg/auth"
	"github.com/finwiss-hub/finwiss-learning-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// SERVER CONFIGURATION
// ══════════════════════════════════════════════════════════════════════════════

// Config contains HTTP server configuration.
type Config struct {
	// Host - address to bind (default "0.0.0.0").
	Host string

	// Port - port to listen on (default 8080).
	Port int

	// ReadTimeout - maximum duration for reading the entire request.
	ReadTimeout time.Duration

	// WriteTimeout - maximum duration for writing the response.
	WriteTimeout time.Duration

	// IdleTimeout - maximum duration for idle connections.
	IdleTimeout time.Duration

	// EnableCORS - enable CORS headers.
	EnableCORS bool

	// AllowedOrigins - allowed origins for CORS.
	AllowedOrigins string
}

// DefaultConfig returns default server configuration.
func DefaultConfig() Config {
	return Config{
		Host:           "0.0.0.0",
		Port:           8080,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   15 * time.Second,
		IdleTimeout:    60 * time.Second,
		EnableCORS:     true,
		AllowedOrigins: "*",
	}
}

// Address returns the server address string.
func (c Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ══════════════════════════════════════════════════════════════════════════════
// DEPENDENCIES
// ══════════════════════════════════════════════════════════════════════════════

// Dependencies contains everything the route handlers need.
type Dependencies struct {
	// Command handlers (write side)
	Register             *command.RegisterHandler
	Login                *command.LoginHandler
	AskQuestion          *command.AskQuestionHandler
	AnswerQuestion       *command.AnswerQuestionHandler
	Vote                 *command.VoteHandler
	CompleteChallenge    *command.CompleteChallengeHandler
	StartCourse          *command.StartCourseHandler
	UpdateCourseProgress *command.UpdateCourseProgressHandler

	// Query handlers (read side)
	GetCurrentUser  *query.GetCurrentUserHandler
	GetLevelDetails *query.GetLevelDetailsHandler
	GetLeaderboard  *query.GetLeaderboardHandler
	ListBadges      *query.ListBadgesHandler
	ListChallenges  *query.ListChallengesHandler
	ListCourses     *query.ListCoursesHandler
	Community       *query.CommunityHandler
	GetActivities   *query.GetActivitiesHandler

	Tokens *auth.TokenIssuer
	Logger *logger.Logger
}

// ══════════════════════════════════════════════════════════════════════════════
// SERVER
// ══════════════════════════════════════════════════════════════════════════════

// Server is the HTTP server.
type Server struct {
	config Config
	deps   Dependencies
	app    *fiber.App
	log    *logger.Logger
}

// NewServer creates the Fiber app, wires middleware and registers routes.
func NewServer(config Config, deps Dependencies) *Server {
	log := deps.Logger
	if log == nil {
		log = logger.Default()
	}

	app := fiber.New(fiber.Config{
		ReadTimeout:           config.ReadTimeout,
		WriteTimeout:          config.WriteTimeout,
		IdleTimeout:           config.IdleTimeout,
		DisableStartupMessage: true,
	})

	s := &Server{
		config: config,
		deps:   deps,
		app:    app,
		log:    log,
	}

	app.Use(recover.New())
	if config.EnableCORS {
		app.Use(cors.New(cors.Config{
			AllowOrigins: config.AllowedOrigins,
			AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		}))
	}
	app.Use(RequestID())
	app.Use(RequestLogger(log))

	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	api := s.app.Group("/api")

	api.Get("/health", s.handleHealth)

	// Public auth endpoints.
	api.Post("/register", s.handleRegister)
	api.Post("/login", s.handleLogin)

	// Public catalog endpoints.
	api.Get("/questions", s.handleGetQuestions)
	api.Get("/questions/:id", s.handleGetQuestion)

	// Authenticated endpoints.
	authd := api.Group("", Auth(s.deps.Tokens))

	authd.Get("/user", s.handleGetCurrentUser)
	authd.Get("/user/level", s.handleGetLevelDetails)
	authd.Get("/user/activities", s.handleGetActivities)
	authd.Get("/leaderboard", s.handleGetLeaderboard)

	authd.Get("/badges", s.handleListBadges)

	authd.Get("/challenges", s.handleListChallenges)
	authd.Post("/challenges/:id/complete", s.handleCompleteChallenge)

	authd.Get("/courses", s.handleListCourses)
	authd.Post("/courses/:id/start", s.handleStartCourse)
	authd.Put("/courses/:id/progress", s.handleUpdateCourseProgress)

	authd.Post("/questions", s.handleAskQuestion)
	authd.Post("/questions/:id/answers", s.handleAnswerQuestion)
	authd.Post("/questions/:id/vote", s.handleVoteQuestion)
	authd.Post("/answers/:id/vote", s.handleVoteAnswer)
}

// Listen starts serving. Blocks until Shutdown or a listener error.
func (s *Server) Listen() error {
	s.log.Info("http server listening", logger.String("addr", s.config.Address()))
	return s.app.Listen(s.config.Address())
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// App exposes the Fiber app for tests.
func (s *Server) App() *fiber.App {
	return s.app
}
