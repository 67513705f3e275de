package report

import (
	"context"
	"time"
)

type Repository interface {
	ActiveByPlan(ctx context.Context) ([]PlanRevenue, error)
	// CheckInsPerDay groups check-ins in [from, to) by calendar day in zone.
	CheckInsPerDay(ctx context.Context, from, to time.Time, zone string) ([]DailyCount, error)
	// BookingsPerDay groups bookings by occurrence date, both ends inclusive.
	BookingsPerDay(ctx context.Context, from, to time.Time) ([]DailyBookings, error)
}
