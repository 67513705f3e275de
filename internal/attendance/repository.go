package attendance

import (
	"context"
	"fmt"
	"time"

	"github.com/Omarzahran17/gym-flow-sub001/internal/db"
	"github.com/Omarzahran17/gym-flow-sub001/internal/period"
	"github.com/Omarzahran17/gym-flow-sub001/internal/subscription"

	"github.com/jmoiron/sqlx"
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

// CheckIn serializes check-ins of one member on a transaction-scoped advisory
// lock keyed by the member id, so the count and the insert see the same day.
func (r *repository) CheckIn(ctx context.Context, memberID int, at time.Time, day period.Window, limit *int) (*Attendance, error) {
	var a Attendance
	err := db.WithTx(ctx, r.db, nil, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, memberID); err != nil {
			return fmt.Errorf("lock member: %w", err)
		}

		if limit != nil {
			var n int
			err := tx.GetContext(ctx, &n, `
				SELECT COUNT(*) FROM attendance
				WHERE member_id = $1 AND check_in_time >= $2 AND check_in_time < $3`,
				memberID, day.Start, day.End)
			if err != nil {
				return fmt.Errorf("count check-ins: %w", err)
			}
			if n >= *limit {
				return subscription.ErrCheckInLimitReached
			}
		}

		err := tx.GetContext(ctx, &a, `
			INSERT INTO attendance (member_id, check_in_time)
			VALUES ($1, $2)
			RETURNING id, member_id, check_in_time, created_at`, memberID, at)
		if err != nil {
			return fmt.Errorf("insert attendance: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *repository) ListByMember(ctx context.Context, memberID, limit int) ([]Attendance, error) {
	rows := []Attendance{}
	err := r.db.SelectContext(ctx, &rows, `
		SELECT id, member_id, check_in_time, created_at
		FROM attendance
		WHERE member_id = $1
		ORDER BY check_in_time DESC
		LIMIT $2`, memberID, limit)
	if err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}
	return rows, nil
}
