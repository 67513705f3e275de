package report

import (
	"context"
	"fmt"
	"time"

	"github.com/Omarzahran17/gym-flow-sub001/internal/period"

	"github.com/jmoiron/sqlx"
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ActiveByPlan(ctx context.Context) ([]PlanRevenue, error) {
	rows := []PlanRevenue{}
	err := r.db.SelectContext(ctx, &rows, `
		SELECT p.id AS plan_id, p.name AS plan_name, p.billing_interval, p.price_cents, p.currency,
		       COUNT(s.id) AS active_subscriptions
		FROM member_subscriptions s
		JOIN subscription_plans p ON p.id = s.plan_id
		WHERE s.status = 'active'
		GROUP BY p.id, p.name, p.billing_interval, p.price_cents, p.currency
		ORDER BY p.id`)
	if err != nil {
		return nil, fmt.Errorf("revenue by plan: %w", err)
	}
	return rows, nil
}

func (r *repository) CheckInsPerDay(ctx context.Context, from, to time.Time, zone string) ([]DailyCount, error) {
	rows := []DailyCount{}
	err := r.db.SelectContext(ctx, &rows, `
		SELECT to_char((check_in_time AT TIME ZONE $3)::date, 'YYYY-MM-DD') AS day, COUNT(*) AS count
		FROM attendance
		WHERE check_in_time >= $1 AND check_in_time < $2
		GROUP BY 1
		ORDER BY 1`, from, to, zone)
	if err != nil {
		return nil, fmt.Errorf("check-ins per day: %w", err)
	}
	return rows, nil
}

func (r *repository) BookingsPerDay(ctx context.Context, from, to time.Time) ([]DailyBookings, error) {
	rows := []DailyBookings{}
	err := r.db.SelectContext(ctx, &rows, `
		SELECT to_char(booking_date, 'YYYY-MM-DD') AS day,
		       COUNT(*) FILTER (WHERE status = 'confirmed') AS confirmed,
		       COUNT(*) FILTER (WHERE status = 'cancelled') AS cancelled
		FROM class_bookings
		WHERE booking_date BETWEEN $1 AND $2
		GROUP BY booking_date
		ORDER BY booking_date`, from.Format(period.DateLayout), to.Format(period.DateLayout))
	if err != nil {
		return nil, fmt.Errorf("bookings per day: %w", err)
	}
	return rows, nil
}
