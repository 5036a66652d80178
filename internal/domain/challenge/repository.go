package challenge

import "context"

// Repository defines persistence operations for challenges.
type Repository interface {
	// CreateChallenge inserts a challenge template and assigns its ID.
	CreateChallenge(ctx context.Context, c *Challenge) error

	// GetChallenge returns a challenge by ID.
	GetChallenge(ctx context.Context, id int64) (*Challenge, error)

	// GetChallenges returns all challenge templates.
	GetChallenges(ctx context.Context) ([]*Challenge, error)

	// GetOrCreateUserChallenge returns the user's record for a challenge,
	// creating an incomplete one when missing. Idempotent on the
	// (userID, challengeID) pair.
	GetOrCreateUserChallenge(ctx context.Context, userID, challengeID int64) (*UserChallenge, error)

	// SaveUserChallenge persists a changed user challenge record.
	SaveUserChallenge(ctx context.Context, uc *UserChallenge) error

	// GetUserChallenges returns the user's records joined with templates.
	GetUserChallenges(ctx context.Context, userID int64) ([]*WithChallenge, error)
}
