package achievement

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Counters(ctx context.Context, memberID int) (Counters, error) {
	var c Counters
	err := r.db.QueryRowxContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM attendance WHERE member_id = $1),
			(SELECT COUNT(*) FROM class_bookings WHERE member_id = $1 AND status = 'confirmed')`,
		memberID).Scan(&c.CheckIns, &c.Classes)
	if err != nil {
		return Counters{}, fmt.Errorf("achievement counters: %w", err)
	}
	return c, nil
}

func (r *repository) Award(ctx context.Context, memberID int, codes []string) ([]string, error) {
	if len(codes) == 0 {
		return nil, nil
	}

	awarded := []string{}
	err := r.db.SelectContext(ctx, &awarded, `
		INSERT INTO member_achievements (member_id, code)
		SELECT $1, unnest($2::text[])
		ON CONFLICT (member_id, code) DO NOTHING
		RETURNING code`, memberID, pq.Array(codes))
	if err != nil {
		return nil, fmt.Errorf("award achievements: %w", err)
	}
	return awarded, nil
}

func (r *repository) ListByMember(ctx context.Context, memberID int) ([]MemberAchievement, error) {
	rows := []MemberAchievement{}
	err := r.db.SelectContext(ctx, &rows, `
		SELECT id, member_id, code, earned_at
		FROM member_achievements
		WHERE member_id = $1
		ORDER BY earned_at`, memberID)
	if err != nil {
		return nil, fmt.Errorf("list achievements: %w", err)
	}
	return rows, nil
}
