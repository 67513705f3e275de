package booking

import (
	"context"
	"time"
)

type Repository interface {
	// Reserve confirms a booking for (scheduleID, date) if Decide allows it,
	// atomically with respect to other reservations of the same schedule.
	Reserve(ctx context.Context, memberID, scheduleID int, date time.Time) (*Booking, error)
	GetByID(ctx context.Context, id int) (*Booking, error)
	Cancel(ctx context.Context, id int) error
	CountConfirmed(ctx context.Context, scheduleID int, date time.Time) (int, error)
	ListByMember(ctx context.Context, memberID int) ([]BookingWithDetails, error)
	Roster(ctx context.Context, scheduleID int, date time.Time) ([]RosterEntry, error)
}
