// Package command contains write operations (CQRS - Commands).
package command

import (
	"context"
	"fmt"

	"github.com/finwiss-hub/finwiss-learning-hub/internal/domain/activity"
	"github.com/finwiss-hub/finwiss-learning-hub/internal/domain/badge"
	"github.com/finwiss-hub/finwiss-learning-hub/internal/domain/progression"
	"github.com/finwiss-hub/finwiss-learning-hub/internal/domain/shared"
	"github.com/finwiss-hub/finwiss-learning-hub/internal/domain/user"
	"github.com/finwiss-hub/finwiss-learning-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// EFFECT APPLIER
// The progression rules are pure and return effect lists; the applier is
// the single place where those effects touch the user aggregate, the badge
// store and the activity ledger. Command handlers mutate the user through
// the applier and persist it once afterwards.
// ══════════════════════════════════════════════════════════════════════════════

// Applier executes progression effects against storage.
type Applier struct {
	badges     badge.Repository
	activities activity.Repository
	log        *logger.Logger
}

// NewApplier creates an effect applier.
func NewApplier(badges badge.Repository, activities activity.Repository, log *logger.Logger) *Applier {
	return &Applier{badges: badges, activities: activities, log: log}
}

// Apply executes the effects in order. SetLevel and SetStreak mutate u in
// place; the caller persists u afterwards. Badge awards are idempotent and
// log a badge_earned entry only on the first award. A missing badge
// definition for an AwardBadge effect is not an error: the catalog simply
// does not define that badge.
func (a *Applier) Apply(ctx context.Context, u *user.User, effects []progression.Effect) error {
	for _, effect := range effects {
		switch e := effect.(type) {
		case progression.SetLevel:
			u.Level = e.Level

		case progression.SetStreak:
			u.Streak = e.Streak
			u.LastLoginAt = e.LastLoginAt

		case progression.AwardBadge:
			if err := a.awardBadge(ctx, u, e); err != nil {
				return err
			}

		case progression.LogActivity:
			entry := &activity.Activity{
				UserID:        u.ID,
				Type:          e.Type,
				Description:   e.Description,
				PointsAwarded: e.PointsAwarded,
				Metadata:      e.Metadata,
			}
			if err := a.activities.Append(ctx, entry); err != nil {
				return fmt.Errorf("apply_effects: failed to log activity: %w", err)
			}

		default:
			return fmt.Errorf("apply_effects: unknown effect type %T", effect)
		}
	}
	return nil
}

func (a *Applier) awardBadge(ctx context.Context, u *user.User, e progression.AwardBadge) error {
	b, err := a.badges.FindByRequirement(ctx, e.Requirement, e.RequiredAmount)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil
		}
		return fmt.Errorf("apply_effects: failed to find badge: %w", err)
	}

	_, created, err := a.badges.Award(ctx, u.ID, b.ID)
	if err != nil {
		return fmt.Errorf("apply_effects: failed to award badge: %w", err)
	}
	if !created {
		return nil
	}

	a.log.Info("badge awarded",
		logger.UserID(u.ID),
		logger.BadgeID(b.ID),
	)

	entry := &activity.Activity{
		UserID:      u.ID,
		Type:        activity.TypeBadgeEarned,
		Description: fmt.Sprintf("Du hast das Abzeichen %q freigeschaltet!", b.Title),
		Metadata:    map[string]any{"badgeId": b.ID},
	}
	if err := a.activities.Append(ctx, entry); err != nil {
		return fmt.Errorf("apply_effects: failed to log badge activity: %w", err)
	}
	return nil
}
