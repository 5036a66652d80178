package badge

import "context"

// Repository defines persistence operations for badges and awards.
type Repository interface {
	// CreateBadge inserts a badge definition and assigns its ID.
	CreateBadge(ctx context.Context, b *Badge) error

	// GetBadge returns a badge by ID.
	GetBadge(ctx context.Context, id int64) (*Badge, error)

	// GetBadges returns all badge definitions.
	GetBadges(ctx context.Context) ([]*Badge, error)

	// FindByRequirement returns the badge matching a requirement kind and
	// threshold, or shared.ErrBadgeNotFound when none is defined.
	FindByRequirement(ctx context.Context, req Requirement, amount int) (*Badge, error)

	// Award records that a user earned a badge. Idempotent: a second award
	// for the same (userID, badgeID) returns the existing record with
	// created=false, never an error.
	Award(ctx context.Context, userID, badgeID int64) (ub *UserBadge, created bool, err error)

	// GetUserBadges returns all awards for a user joined with their badges.
	GetUserBadges(ctx context.Context, userID int64) ([]*Earned, error)
}
