package repositories

import (
	"context"
	"fmt"
	"time"

	"factify/internal/badges"
	"factify/internal/database"

	"go.uber.org/zap"
)

// BadgeRepository persists earned badge tiers. The (badge_id, tier) primary
// key makes inserts idempotent, so replaying an award pass can never create
// duplicate rows.
type BadgeRepository struct {
	*BaseRepository
}

func NewBadgeRepository(db *database.Manager, logger *zap.Logger) *BadgeRepository {
	return &BadgeRepository{
		BaseRepository: NewBaseRepository(db, logger),
	}
}

// ListEarned returns every earned (badge, tier) pair, oldest first.
func (r *BadgeRepository) ListEarned(ctx context.Context) ([]badges.EarnedBadge, error) {
	query := `
		SELECT badge_id, tier, earned_at
		FROM earned_badges
		ORDER BY earned_at ASC, badge_id ASC, tier ASC`

	rows, err := r.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch earned badges: %w", err)
	}
	defer rows.Close()

	var earned []badges.EarnedBadge
	for rows.Next() {
		var e badges.EarnedBadge
		if err := rows.Scan(&e.BadgeID, &e.Tier, &e.EarnedAt); err != nil {
			return nil, fmt.Errorf("failed to scan earned badge: %w", err)
		}
		earned = append(earned, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate earned badges: %w", err)
	}
	return earned, nil
}

// InsertEarned records a newly crossed tier. Inserting a pair that already
// exists is a no-op.
func (r *BadgeRepository) InsertEarned(ctx context.Context, id badges.ID, tier badges.Tier, earnedAt time.Time) error {
	query := `
		INSERT INTO earned_badges (badge_id, tier, earned_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (badge_id, tier) DO NOTHING`

	if _, err := r.ExecContext(ctx, query, id, tier, earnedAt); err != nil {
		return fmt.Errorf("failed to insert earned badge: %w", err)
	}
	return nil
}
