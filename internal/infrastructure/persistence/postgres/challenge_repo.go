package postgres

import (
	"context"
	"fmt"

	"github.com/finwiss-hub/finwiss-learning-hub/internal/domain/challenge"
	"github.com/finwiss-hub/finwiss-learning-hub/internal/domain/shared"
)

// ChallengeRepository implements challenge.Repository on PostgreSQL.
type ChallengeRepository struct {
	db Querier
}

// NewChallengeRepository creates a challenge repository.
func NewChallengeRepository(db Querier) *ChallengeRepository {
	return &ChallengeRepository{db: db}
}

const challengeColumns = "id, title, description, points_reward, icon, icon_bg_color, type"

// CreateChallenge inserts a challenge template.
func (r *ChallengeRepository) CreateChallenge(ctx context.Context, c *challenge.Challenge) error {
	query := `
		INSERT INTO challenges (title, description, points_reward, icon, icon_bg_color, type)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	err := r.db.QueryRow(ctx, query,
		c.Title, c.Description, c.PointsReward, c.Icon, c.IconBgColor, string(c.Type),
	).Scan(&c.ID)
	if err != nil {
		return fmt.Errorf("postgres: failed to create challenge: %w", err)
	}
	return nil
}

// GetChallenge returns a challenge by ID.
func (r *ChallengeRepository) GetChallenge(ctx context.Context, id int64) (*challenge.Challenge, error) {
	query := "SELECT " + challengeColumns + " FROM challenges WHERE id = $1"
	c := &challenge.Challenge{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.Title, &c.Description, &c.PointsReward, &c.Icon, &c.IconBgColor, &c.Type,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrChallengeNotFound
		}
		return nil, fmt.Errorf("postgres: failed to get challenge: %w", err)
	}
	return c, nil
}

// GetChallenges returns all challenge templates ordered by ID.
func (r *ChallengeRepository) GetChallenges(ctx context.Context) ([]*challenge.Challenge, error) {
	query := "SELECT " + challengeColumns + " FROM challenges ORDER BY id"

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to list challenges: %w", err)
	}
	defer rows.Close()

	var challenges []*challenge.Challenge
	for rows.Next() {
		c := &challenge.Challenge{}
		if err := rows.Scan(&c.ID, &c.Title, &c.Description, &c.PointsReward, &c.Icon, &c.IconBgColor, &c.Type); err != nil {
			return nil, fmt.Errorf("postgres: failed to scan challenge: %w", err)
		}
		challenges = append(challenges, c)
	}
	return challenges, rows.Err()
}

// GetOrCreateUserChallenge returns the user's record, inserting an
// incomplete one on first touch. The unique pair constraint makes the
// insert race-safe.
func (r *ChallengeRepository) GetOrCreateUserChallenge(ctx context.Context, userID, challengeID int64) (*challenge.UserChallenge, error) {
	insert := `
		INSERT INTO user_challenges (user_id, challenge_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, challenge_id) DO NOTHING`

	if _, err := r.db.Exec(ctx, insert, userID, challengeID); err != nil {
		if IsForeignKeyViolation(err) {
			return nil, shared.ErrChallengeNotFound
		}
		return nil, fmt.Errorf("postgres: failed to create user challenge: %w", err)
	}

	query := `
		SELECT id, user_id, challenge_id, completed, completed_at, expires_at
		FROM user_challenges
		WHERE user_id = $1 AND challenge_id = $2`

	uc := &challenge.UserChallenge{}
	err := r.db.QueryRow(ctx, query, userID, challengeID).Scan(
		&uc.ID, &uc.UserID, &uc.ChallengeID, &uc.Completed, &uc.CompletedAt, &uc.ExpiresAt,
	)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to get user challenge: %w", err)
	}
	return uc, nil
}

// SaveUserChallenge persists a changed record.
func (r *ChallengeRepository) SaveUserChallenge(ctx context.Context, uc *challenge.UserChallenge) error {
	query := `
		UPDATE user_challenges
		SET completed = $2, completed_at = $3, expires_at = $4
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, uc.ID, uc.Completed, uc.CompletedAt, uc.ExpiresAt)
	if err != nil {
		return fmt.Errorf("postgres: failed to save user challenge: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.NewDomainError("challenge", "Save", shared.ErrNotFound, "user challenge not found")
	}
	return nil
}

// GetUserChallenges returns the user's records joined with templates.
func (r *ChallengeRepository) GetUserChallenges(ctx context.Context, userID int64) ([]*challenge.WithChallenge, error) {
	query := `
		SELECT uc.id, uc.user_id, uc.challenge_id, uc.completed, uc.completed_at, uc.expires_at,
		       c.id, c.title, c.description, c.points_reward, c.icon, c.icon_bg_color, c.type
		FROM user_challenges uc
		JOIN challenges c ON c.id = uc.challenge_id
		WHERE uc.user_id = $1
		ORDER BY uc.id`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to list user challenges: %w", err)
	}
	defer rows.Close()

	var out []*challenge.WithChallenge
	for rows.Next() {
		w := &challenge.WithChallenge{}
		if err := rows.Scan(
			&w.ID, &w.UserID, &w.ChallengeID, &w.Completed, &w.CompletedAt, &w.ExpiresAt,
			&w.Challenge.ID, &w.Challenge.Title, &w.Challenge.Description, &w.Challenge.PointsReward,
			&w.Challenge.Icon, &w.Challenge.IconBgColor, &w.Challenge.Type,
		); err != nil {
			return nil, fmt.Errorf("postgres: failed to scan user challenge: %w", err)
		}
		out = append(out, w)
	}
	return out, rows.Err()
}
