package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/finwiss-hub/finwiss-learning-hub/internal/domain/activity"
	"github.com/finwiss-hub/finwiss-learning-hub/internal/domain/user"
	"github.com/finwiss-hub/finwiss-learning-hub/pkg/auth"
	"github.com/finwiss-hub/finwiss-learning-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// REGISTER COMMAND
// Creates an account with zero progression state and logs the welcome entry.
// ══════════════════════════════════════════════════════════════════════════════

// RegisterCommand contains the data to create an account.
type RegisterCommand struct {
	// Username is the unique login name, 3-50 characters without whitespace.
	Username string

	// Password is the plaintext password, hashed before storage.
	Password string
}

// Validate validates the command.
func (c RegisterCommand) Validate() error {
	if !user.Username(c.Username).IsValid() {
		return errors.New("register: username must be 3-50 characters without whitespace")
	}
	if len(c.Password) < 6 {
		return errors.New("register: password must be at least 6 characters")
	}
	return nil
}

// RegisterResult contains the created user and a session token.
type RegisterResult struct {
	User  *user.User
	Token string
}

// RegisterHandler handles the RegisterCommand.
type RegisterHandler struct {
	users      user.Repository
	activities activity.Repository
	tokens     *auth.TokenIssuer
	log        *logger.Logger
	now        func() time.Time
}

// NewRegisterHandler creates a new RegisterHandler.
func NewRegisterHandler(
	users user.Repository,
	activities activity.Repository,
	tokens *auth.TokenIssuer,
	log *logger.Logger,
	now func() time.Time,
) *RegisterHandler {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &RegisterHandler{users: users, activities: activities, tokens: tokens, log: log, now: now}
}

// Handle executes the register command.
func (h *RegisterHandler) Handle(ctx context.Context, cmd RegisterCommand) (*RegisterResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(cmd.Password)
	if err != nil {
		return nil, fmt.Errorf("register: failed to hash password: %w", err)
	}

	u, err := user.New(cmd.Username, hash, h.now())
	if err != nil {
		return nil, err
	}

	if err := h.users.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("register: failed to create user: %w", err)
	}

	entry := &activity.Activity{
		UserID:      u.ID,
		Type:        activity.TypeAccountCreated,
		Description: "Willkommen bei FinanzWissen! Dein Konto wurde erstellt.",
		Metadata:    map[string]any{},
	}
	if err := h.activities.Append(ctx, entry); err != nil {
		return nil, fmt.Errorf("register: failed to log activity: %w", err)
	}

	token, err := h.tokens.Issue(u.ID, u.Username)
	if err != nil {
		return nil, fmt.Errorf("register: failed to issue token: %w", err)
	}

	h.log.Info("user registered", logger.UserID(u.ID), logger.Username(u.Username))

	return &RegisterResult{User: u, Token: token}, nil
}
