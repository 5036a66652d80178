package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/finwiss-hub/finwiss-learning-hub/internal/domain/activity"
	"github.com/finwiss-hub/finwiss-learning-hub/internal/domain/badge"
	"github.com/finwiss-hub/finwiss-learning-hub/internal/domain/progression"
	"github.com/finwiss-hub/finwiss-learning-hub/internal/domain/shared"
	"github.com/finwiss-hub/finwiss-learning-hub/internal/domain/user"
	"github.com/finwiss-hub/finwiss-learning-hub/pkg/auth"
	"github.com/finwiss-hub/finwiss-learning-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// LOGIN COMMAND
// Verifies credentials and runs the streak transition. This is the only
// place the streak counter changes.
// ══════════════════════════════════════════════════════════════════════════════

// LoginCommand contains the credentials to verify.
type LoginCommand struct {
	Username string
	Password string
}

// Validate validates the command.
func (c LoginCommand) Validate() error {
	if c.Username == "" {
		return errors.New("login: username is required")
	}
	if c.Password == "" {
		return errors.New("login: password is required")
	}
	return nil
}

// LoginResult contains the authenticated user and a session token.
type LoginResult struct {
	User  *user.User
	Token string

	// StreakExtended is true when this login grew the streak by one.
	StreakExtended bool

	// StreakReset is true when this login reset the streak to 1.
	StreakReset bool
}

// LoginHandler handles the LoginCommand.
type LoginHandler struct {
	users   user.Repository
	applier *Applier
	tokens  *auth.TokenIssuer
	log     *logger.Logger
	now     func() time.Time
}

// NewLoginHandler creates a new LoginHandler.
func NewLoginHandler(
	users user.Repository,
	badges badge.Repository,
	activities activity.Repository,
	tokens *auth.TokenIssuer,
	log *logger.Logger,
	now func() time.Time,
) *LoginHandler {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &LoginHandler{
		users:   users,
		applier: NewApplier(badges, activities, log),
		tokens:  tokens,
		log:     log,
		now:     now,
	}
}

// Handle executes the login command. A missing user and a wrong password
// produce the same error, so responses do not reveal which usernames exist.
func (h *LoginHandler) Handle(ctx context.Context, cmd LoginCommand) (*LoginResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	u, err := h.users.GetByUsername(ctx, cmd.Username)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, shared.ErrWrongCredentials
		}
		return nil, fmt.Errorf("login: failed to get user: %w", err)
	}

	if !auth.CheckPassword(cmd.Password, u.PasswordHash) {
		return nil, shared.ErrWrongCredentials
	}

	now := h.now()
	res := progression.NextStreak(u.Streak, u.LastLoginAt, now)
	effects := progression.OnLogin(u.Streak, u.LastLoginAt, now)

	if err := h.applier.Apply(ctx, u, effects); err != nil {
		return nil, err
	}

	if err := h.users.Update(ctx, u); err != nil {
		return nil, fmt.Errorf("login: failed to update user: %w", err)
	}

	token, err := h.tokens.Issue(u.ID, u.Username)
	if err != nil {
		return nil, fmt.Errorf("login: failed to issue token: %w", err)
	}

	h.log.Info("user logged in",
		logger.UserID(u.ID),
		logger.Streak(u.Streak),
	)

	return &LoginResult{
		User:           u,
		Token:          token,
		StreakExtended: res.Extended,
		StreakReset:    res.Reset,
	}, nil
}
