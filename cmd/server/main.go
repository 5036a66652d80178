// Package main is the entry point of the FinWiss Learning Hub API
// server.
//
// The architecture follows Clean Architecture and DDD:
//   - Domain: pure business logic without external dependencies
//   - Application: use case orchestration (Commands/Queries)
//   - Infrastructure: storage backends, caching
//   - Interface: HTTP handlers
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/finwiss-hub/finwiss-learning-hub/config"
	"github.com/finwiss-hub/finwiss-learning-hub/internal/application/command"
	"github.com/finwiss-hub/finwiss-learning-hub/internal/application/query"
	"github.com/finwiss-hub/finwiss-learning-hub/internal/domain/activity"
	"github.com/finwiss-hub/finwiss-learning-hub/internal/domain/badge"
	"github.com/finwiss-hub/finwiss-learning-hub/internal/domain/challenge"
	"github.com/finwiss-hub/finwiss-learning-hub/internal/domain/community"
	"github.com/finwiss-hub/finwiss-learning-hub/internal/domain/course"
	"github.com/finwiss-hub/finwiss-learning-hub/internal/domain/leaderboard"
	"github.com/finwiss-hub/finwiss-learning-hub/internal/domain/user"
	"github.com/finwiss-hub/finwiss-learning-hub/internal/infrastructure/persistence/catalog"
	"github.com/finwiss-hub/finwiss-learning-hub/internal/infrastructure/persistence/memory"
	"github.com/finwiss-hub/finwiss-learning-hub/internal/infrastructure/persistence/postgres"
	"github.com/finwiss-hub/finwiss-learning-hub/internal/infrastructure/persistence/redis"
	httpserver "github.com/finwiss-hub/finwiss-learning-hub/internal/interface/http"
	"github.com/finwiss-hub/finwiss-learning-hub/pkg/auth"
	"github.com/finwiss-hub/finwiss-learning-hub/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}

// repositories bundles one storage backend's repository implementations.
type repositories struct {
	users      user.Repository
	badges     badge.Repository
	challenges challenge.Repository
	courses    course.Repository
	community  community.Repository
	activities activity.Repository
}

func run(ctx context.Context) error {
	// ─────────────────────────────────────────────────────────────────
	// 1. CONFIGURATION
	// ─────────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────
	// 2. LOGGING
	// ─────────────────────────────────────────────────────────────────
	log := logger.New(logger.Options{Level: logger.ParseLevel(cfg.Log.Level)})
	log.Info("starting FinWiss Learning Hub",
		logger.String("env", string(cfg.App.Environment)),
		logger.String("version", cfg.App.Version),
		logger.Bool("debug", cfg.App.Debug),
	)

	// ─────────────────────────────────────────────────────────────────
	// 3. STORAGE BACKEND
	// ─────────────────────────────────────────────────────────────────
	var repos repositories

	if cfg.Database.URL != "" {
		log.Info("connecting to database")
		conn, err := postgres.NewConnectionFromURL(ctx, cfg.Database.URL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer func() {
			log.Info("closing database connection")
			conn.Close()
		}()

		log.Info("running database migrations")
		migrator := postgres.NewMigrator(conn)
		if err := migrator.Migrate(ctx); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		applied, err := migrator.GetAppliedMigrations(ctx)
		if err != nil {
			log.Warn("failed to read migration status", logger.Err(err))
		} else {
			log.Info("migrations completed", logger.Int("applied", len(applied)))
		}

		repos = repositories{
			users:      postgres.NewUserRepository(conn),
			badges:     postgres.NewBadgeRepository(conn),
			challenges: postgres.NewChallengeRepository(conn),
			courses:    postgres.NewCourseRepository(conn),
			community:  postgres.NewCommunityRepository(conn),
			activities: postgres.NewActivityRepository(conn),
		}
	} else {
		log.Info("no DATABASE_URL configured, using in-memory store")
		store := memory.NewStore()
		repos = repositories{
			users:      store.Users(),
			badges:     store.Badges(),
			challenges: store.Challenges(),
			courses:    store.Courses(),
			community:  store.Community(),
			activities: store.Activities(),
		}
	}

	if err := catalog.Seed(ctx, repos.badges, repos.challenges, repos.courses); err != nil {
		return fmt.Errorf("failed to seed catalog: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────
	// 4. LEADERBOARD CACHE (optional)
	// ─────────────────────────────────────────────────────────────────
	var lbCache leaderboard.Cache

	if !cfg.Redis.Disabled {
		log.Info("connecting to Redis", logger.String("addr", fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port)))
		client, err := redis.NewClient(ctx, redis.Config{
			Host:         cfg.Redis.Host,
			Port:         cfg.Redis.Port,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
		})
		if err != nil {
			log.Warn("failed to connect to Redis, leaderboard caching disabled", logger.Err(err))
		} else {
			defer func() {
				log.Info("closing Redis connection")
				_ = client.Close()
			}()
			lbCache = redis.NewLeaderboardCache(client)
			log.Info("Redis connection established")
		}
	}

	// ─────────────────────────────────────────────────────────────────
	// 5. APPLICATION LAYER
	// ─────────────────────────────────────────────────────────────────
	tokens := auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	deps := httpserver.Dependencies{
		Register:             command.NewRegisterHandler(repos.users, repos.activities, tokens, log, nil),
		Login:                command.NewLoginHandler(repos.users, repos.badges, repos.activities, tokens, log, nil),
		AskQuestion:          command.NewAskQuestionHandler(repos.users, repos.community, repos.badges, repos.activities, log, nil),
		AnswerQuestion:       command.NewAnswerQuestionHandler(repos.users, repos.community, repos.badges, repos.activities, log, nil),
		Vote:                 command.NewVoteHandler(repos.community),
		CompleteChallenge:    command.NewCompleteChallengeHandler(repos.users, repos.challenges, repos.badges, repos.activities, log, nil),
		StartCourse:          command.NewStartCourseHandler(repos.courses),
		UpdateCourseProgress: command.NewUpdateCourseProgressHandler(repos.users, repos.courses, repos.badges, repos.activities, log, nil),

		GetCurrentUser:  query.NewGetCurrentUserHandler(repos.users),
		GetLevelDetails: query.NewGetLevelDetailsHandler(repos.users),
		GetLeaderboard:  query.NewGetLeaderboardHandler(repos.users, lbCache, cfg.Redis.LeaderboardTTL, log),
		ListBadges:      query.NewListBadgesHandler(repos.users, repos.badges),
		ListChallenges:  query.NewListChallengesHandler(repos.challenges),
		ListCourses:     query.NewListCoursesHandler(repos.courses),
		Community:       query.NewCommunityHandler(repos.community),
		GetActivities:   query.NewGetActivitiesHandler(repos.activities),

		Tokens: tokens,
		Logger: log,
	}

	// ─────────────────────────────────────────────────────────────────
	// 6. HTTP SERVER
	// ─────────────────────────────────────────────────────────────────
	srv := httpserver.NewServer(httpserver.Config{
		Host:           cfg.HTTP.Host,
		Port:           cfg.HTTP.Port,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		EnableCORS:     cfg.HTTP.EnableCORS,
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
	}, deps)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Listen()
	}()

	// ─────────────────────────────────────────────────────────────────
	// 7. GRACEFUL SHUTDOWN
	// ─────────────────────────────────────────────────────────────────
	select {
	case err := <-errCh:
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
		log.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- srv.Shutdown()
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
	case <-shutdownCtx.Done():
		return fmt.Errorf("server shutdown timed out after %s", cfg.App.ShutdownTimeout)
	}

	log.Info("server stopped")
	return nil
}
