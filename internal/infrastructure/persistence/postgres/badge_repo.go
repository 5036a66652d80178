package postgres

import (
	"context"
	"fmt"

	"github.com/finwiss-hub/finwiss-learning-hub/internal/domain/badge"
	"github.com/finwiss-hub/finwiss-learning-hub/internal/domain/shared"
)

// BadgeRepository implements badge.Repository on PostgreSQL.
type BadgeRepository struct {
	db Querier
}

// NewBadgeRepository creates a badge repository.
func NewBadgeRepository(db Querier) *BadgeRepository {
	return &BadgeRepository{db: db}
}

const badgeColumns = "id, title, description, icon, icon_bg_color, requirement, required_amount"

// CreateBadge inserts a badge definition.
func (r *BadgeRepository) CreateBadge(ctx context.Context, b *badge.Badge) error {
	query := `
		INSERT INTO badges (title, description, icon, icon_bg_color, requirement, required_amount)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	err := r.db.QueryRow(ctx, query,
		b.Title, b.Description, b.Icon, b.IconBgColor, string(b.Requirement), b.RequiredAmount,
	).Scan(&b.ID)
	if err != nil {
		return fmt.Errorf("postgres: failed to create badge: %w", err)
	}
	return nil
}

// GetBadge returns a badge by ID.
func (r *BadgeRepository) GetBadge(ctx context.Context, id int64) (*badge.Badge, error) {
	query := "SELECT " + badgeColumns + " FROM badges WHERE id = $1"
	b := &badge.Badge{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&b.ID, &b.Title, &b.Description, &b.Icon, &b.IconBgColor, &b.Requirement, &b.RequiredAmount,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrBadgeNotFound
		}
		return nil, fmt.Errorf("postgres: failed to get badge: %w", err)
	}
	return b, nil
}

// GetBadges returns all badge definitions ordered by ID.
func (r *BadgeRepository) GetBadges(ctx context.Context) ([]*badge.Badge, error) {
	query := "SELECT " + badgeColumns + " FROM badges ORDER BY id"

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to list badges: %w", err)
	}
	defer rows.Close()

	var badges []*badge.Badge
	for rows.Next() {
		b := &badge.Badge{}
		if err := rows.Scan(&b.ID, &b.Title, &b.Description, &b.Icon, &b.IconBgColor, &b.Requirement, &b.RequiredAmount); err != nil {
			return nil, fmt.Errorf("postgres: failed to scan badge: %w", err)
		}
		badges = append(badges, b)
	}
	return badges, rows.Err()
}

// FindByRequirement returns the badge matching a requirement kind and
// threshold.
func (r *BadgeRepository) FindByRequirement(ctx context.Context, req badge.Requirement, amount int) (*badge.Badge, error) {
	query := "SELECT " + badgeColumns + " FROM badges WHERE requirement = $1 AND required_amount = $2"
	b := &badge.Badge{}
	err := r.db.QueryRow(ctx, query, string(req), amount).Scan(
		&b.ID, &b.Title, &b.Description, &b.Icon, &b.IconBgColor, &b.Requirement, &b.RequiredAmount,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrBadgeNotFound
		}
		return nil, fmt.Errorf("postgres: failed to find badge: %w", err)
	}
	return b, nil
}

// Award records an award. The unique (user_id, badge_id) pair makes the
// insert a no-op on repeat; the existing row is returned with created=false.
func (r *BadgeRepository) Award(ctx context.Context, userID, badgeID int64) (*badge.UserBadge, bool, error) {
	insert := `
		INSERT INTO user_badges (user_id, badge_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, badge_id) DO NOTHING
		RETURNING id, user_id, badge_id, earned_at`

	ub := &badge.UserBadge{}
	err := r.db.QueryRow(ctx, insert, userID, badgeID).Scan(&ub.ID, &ub.UserID, &ub.BadgeID, &ub.EarnedAt)
	if err == nil {
		return ub, true, nil
	}
	if !IsNoRows(err) {
		if IsForeignKeyViolation(err) {
			return nil, false, shared.ErrBadgeNotFound
		}
		return nil, false, fmt.Errorf("postgres: failed to award badge: %w", err)
	}

	// Conflict path: the award already exists.
	query := "SELECT id, user_id, badge_id, earned_at FROM user_badges WHERE user_id = $1 AND badge_id = $2"
	err = r.db.QueryRow(ctx, query, userID, badgeID).Scan(&ub.ID, &ub.UserID, &ub.BadgeID, &ub.EarnedAt)
	if err != nil {
		return nil, false, fmt.Errorf("postgres: failed to load existing award: %w", err)
	}
	return ub, false, nil
}

// GetUserBadges returns all awards for a user joined with their badges.
func (r *BadgeRepository) GetUserBadges(ctx context.Context, userID int64) ([]*badge.Earned, error) {
	query := `
		SELECT ub.id, ub.user_id, ub.badge_id, ub.earned_at,
		       b.id, b.title, b.description, b.icon, b.icon_bg_color, b.requirement, b.required_amount
		FROM user_badges ub
		JOIN badges b ON b.id = ub.badge_id
		WHERE ub.user_id = $1
		ORDER BY ub.id`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to list user badges: %w", err)
	}
	defer rows.Close()

	var earned []*badge.Earned
	for rows.Next() {
		e := &badge.Earned{}
		if err := rows.Scan(
			&e.ID, &e.UserID, &e.BadgeID, &e.EarnedAt,
			&e.Badge.ID, &e.Badge.Title, &e.Badge.Description, &e.Badge.Icon,
			&e.Badge.IconBgColor, &e.Badge.Requirement, &e.Badge.RequiredAmount,
		); err != nil {
			return nil, fmt.Errorf("postgres: failed to scan user badge: %w", err)
		}
		earned = append(earned, e)
	}
	return earned, rows.Err()
}
