package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/finwiss-hub/finwiss-learning-hub/internal/domain/activity"
)

// ActivityRepository implements the append-only ledger on PostgreSQL.
type ActivityRepository struct {
	db Querier
}

// NewActivityRepository creates an activity repository.
func NewActivityRepository(db Querier) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// Append inserts a new entry. The database stamps created_at when the
// caller leaves it zero.
func (r *ActivityRepository) Append(ctx context.Context, a *activity.Activity) error {
	meta := a.Metadata
	if meta == nil {
		meta = map[string]any{}
	}
	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("postgres: failed to encode activity metadata: %w", err)
	}

	if a.CreatedAt.IsZero() {
		query := `
			INSERT INTO activities (user_id, type, description, points_awarded, metadata)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, created_at`
		err = r.db.QueryRow(ctx, query,
			a.UserID, string(a.Type), a.Description, a.PointsAwarded, metaJSON,
		).Scan(&a.ID, &a.CreatedAt)
	} else {
		query := `
			INSERT INTO activities (user_id, type, description, points_awarded, created_at, metadata)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id`
		err = r.db.QueryRow(ctx, query,
			a.UserID, string(a.Type), a.Description, a.PointsAwarded, a.CreatedAt, metaJSON,
		).Scan(&a.ID)
	}
	if err != nil {
		return fmt.Errorf("postgres: failed to append activity: %w", err)
	}
	return nil
}

// GetByUser returns entries for a user ordered newest-first.
func (r *ActivityRepository) GetByUser(ctx context.Context, userID int64, limit int) ([]*activity.Activity, error) {
	query := `
		SELECT id, user_id, type, description, points_awarded, created_at, metadata
		FROM activities
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC`
	args := []interface{}{userID}
	if limit > 0 {
		query += " LIMIT $2"
		args = append(args, limit)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to list activities: %w", err)
	}
	defer rows.Close()

	var entries []*activity.Activity
	for rows.Next() {
		a := &activity.Activity{}
		var metaJSON []byte
		if err := rows.Scan(&a.ID, &a.UserID, &a.Type, &a.Description, &a.PointsAwarded, &a.CreatedAt, &metaJSON); err != nil {
			return nil, fmt.Errorf("postgres: failed to scan activity: %w", err)
		}
		if len(metaJSON) > 0 {
			if err := json.Unmarshal(metaJSON, &a.Metadata); err != nil {
				return nil, fmt.Errorf("postgres: failed to decode activity metadata: %w", err)
			}
		}
		entries = append(entries, a)
	}
	return entries, rows.Err()
}
