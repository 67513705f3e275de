package subscription

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Omarzahran17/gym-flow-sub001/internal/db"
	"github.com/Omarzahran17/gym-flow-sub001/internal/period"

	"github.com/jmoiron/sqlx"
)

var ErrSubscriptionNotFound = errors.New("subscription not found")

const subscriptionColumns = `id, member_id, plan_id, status, current_period_start, current_period_end,
	cancel_at_period_end, canceled_at, stripe_subscription_id, created_at, updated_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

// GetActive returns the member's active subscription. The partial unique
// index on member_subscriptions keeps at most one such row.
func (r *repository) GetActive(ctx context.Context, memberID int) (*MemberSubscription, error) {
	query := `
		SELECT ` + subscriptionColumns + `
		FROM member_subscriptions
		WHERE member_id = $1 AND status = 'active'
		ORDER BY current_period_start DESC
		LIMIT 1`
	return r.getOne(ctx, r.db, query, memberID)
}

func (r *repository) GetLatest(ctx context.Context, memberID int) (*MemberSubscription, error) {
	query := `
		SELECT ` + subscriptionColumns + `
		FROM member_subscriptions
		WHERE member_id = $1
		ORDER BY (status = 'active') DESC, created_at DESC
		LIMIT 1`
	return r.getOne(ctx, r.db, query, memberID)
}

func (r *repository) GetByStripeID(ctx context.Context, stripeSubscriptionID string) (*MemberSubscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM member_subscriptions WHERE stripe_subscription_id = $1`
	return r.getOne(ctx, r.db, query, stripeSubscriptionID)
}

func (r *repository) getOne(ctx context.Context, q sqlx.QueryerContext, query string, args ...interface{}) (*MemberSubscription, error) {
	var sub MemberSubscription
	err := sqlx.GetContext(ctx, q, &sub, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSubscriptionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get subscription: %w", err)
	}
	return &sub, nil
}

// CountConfirmedBookings counts confirmed bookings the member made inside w.
func (r *repository) CountConfirmedBookings(ctx context.Context, memberID int, w period.Window) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM class_bookings
		WHERE member_id = $1
		  AND status = 'confirmed'
		  AND created_at >= $2 AND created_at < $3`

	var n int
	if err := r.db.GetContext(ctx, &n, query, memberID, w.Start, w.End); err != nil {
		return 0, fmt.Errorf("count bookings: %w", err)
	}
	return n, nil
}

func (r *repository) CountCheckIns(ctx context.Context, memberID int, w period.Window) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM attendance
		WHERE member_id = $1
		  AND check_in_time >= $2 AND check_in_time < $3`

	var n int
	if err := r.db.GetContext(ctx, &n, query, memberID, w.Start, w.End); err != nil {
		return 0, fmt.Errorf("count check-ins: %w", err)
	}
	return n, nil
}

// Activate replaces whatever subscription the member has active with a new
// active one. Redelivered checkouts for the same provider subscription
// reactivate the existing row instead of inserting a second one.
func (r *repository) Activate(ctx context.Context, a Activation) (*MemberSubscription, error) {
	var sub MemberSubscription
	err := db.WithTx(ctx, r.db, nil, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, `
			UPDATE member_subscriptions
			SET status = 'canceled', canceled_at = NOW(), updated_at = NOW()
			WHERE member_id = $1 AND status = 'active'
			  AND stripe_subscription_id IS DISTINCT FROM $2`,
			a.MemberID, nullString(a.StripeSubscriptionID))
		if err != nil {
			return fmt.Errorf("cancel previous subscription: %w", err)
		}

		return tx.GetContext(ctx, &sub, `
			INSERT INTO member_subscriptions (
				member_id, plan_id, status, current_period_start, current_period_end, stripe_subscription_id
			)
			VALUES ($1, $2, 'active', $3, $4, $5)
			ON CONFLICT (stripe_subscription_id) DO UPDATE
			SET plan_id = EXCLUDED.plan_id,
			    status = 'active',
			    current_period_start = EXCLUDED.current_period_start,
			    current_period_end = EXCLUDED.current_period_end,
			    canceled_at = NULL,
			    updated_at = NOW()
			RETURNING `+subscriptionColumns,
			a.MemberID, a.PlanID, a.PeriodStart, a.PeriodEnd, nullString(a.StripeSubscriptionID))
	})
	if err != nil {
		return nil, fmt.Errorf("activate subscription: %w", err)
	}
	return &sub, nil
}

func (r *repository) ApplyStripeUpdate(ctx context.Context, stripeSubscriptionID string, u StripeUpdate) (*MemberSubscription, error) {
	var sub *MemberSubscription
	err := db.WithTx(ctx, r.db, nil, func(tx *sqlx.Tx) error {
		current, err := r.getOne(ctx, tx, `SELECT `+subscriptionColumns+`
			FROM member_subscriptions WHERE stripe_subscription_id = $1 FOR UPDATE`, stripeSubscriptionID)
		if err != nil {
			return err
		}

		if u.Status == StatusActive && current.Status != StatusActive {
			_, err := tx.ExecContext(ctx, `
				UPDATE member_subscriptions
				SET status = 'canceled', canceled_at = NOW(), updated_at = NOW()
				WHERE member_id = $1 AND status = 'active' AND id <> $2`,
				current.MemberID, current.ID)
			if err != nil {
				return fmt.Errorf("cancel other active subscriptions: %w", err)
			}
		}

		var updated MemberSubscription
		err = tx.GetContext(ctx, &updated, `
			UPDATE member_subscriptions
			SET status = $2,
			    current_period_start = COALESCE($3, current_period_start),
			    current_period_end = COALESCE($4, current_period_end),
			    cancel_at_period_end = $5,
			    plan_id = COALESCE($6, plan_id),
			    updated_at = NOW()
			WHERE id = $1
			RETURNING `+subscriptionColumns,
			current.ID, u.Status, nullTime(u.PeriodStart), nullTime(u.PeriodEnd), u.CancelAtPeriodEnd, nullInt(u.PlanID))
		if err != nil {
			return fmt.Errorf("update subscription: %w", err)
		}
		sub = &updated
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sub, nil
}

func (r *repository) MarkCanceled(ctx context.Context, stripeSubscriptionID string, at time.Time) (*MemberSubscription, error) {
	var sub MemberSubscription
	err := r.db.GetContext(ctx, &sub, `
		UPDATE member_subscriptions
		SET status = 'canceled', canceled_at = $2, cancel_at_period_end = FALSE, updated_at = NOW()
		WHERE stripe_subscription_id = $1
		RETURNING `+subscriptionColumns,
		stripeSubscriptionID, at)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSubscriptionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("cancel subscription: %w", err)
	}
	return &sub, nil
}

func (r *repository) SetCancelAtPeriodEnd(ctx context.Context, id int, cancel bool) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE member_subscriptions
		SET cancel_at_period_end = $2, updated_at = NOW()
		WHERE id = $1`, id, cancel)
	if err != nil {
		return fmt.Errorf("set cancel_at_period_end: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrSubscriptionNotFound
	}
	return nil
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}

func nullInt(v int) sql.NullInt64 {
	return sql.NullInt64{Int64: int64(v), Valid: v != 0}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
