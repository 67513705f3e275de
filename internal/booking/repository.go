package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Omarzahran17/gym-flow-sub001/internal/class"
	"github.com/Omarzahran17/gym-flow-sub001/internal/db"
	"github.com/Omarzahran17/gym-flow-sub001/internal/period"

	"github.com/jmoiron/sqlx"
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func dateArg(t time.Time) string {
	return t.Format(period.DateLayout)
}

// Reserve locks the schedule row so concurrent reservations of the same
// schedule run the duplicate and capacity checks one at a time. The partial
// unique index on confirmed bookings backs up the duplicate check.
func (r *repository) Reserve(ctx context.Context, memberID, scheduleID int, date time.Time) (*Booking, error) {
	day := dateArg(date)

	var b Booking
	err := db.WithTx(ctx, r.db, nil, func(tx *sqlx.Tx) error {
		var maxCapacity sql.NullInt64
		err := tx.GetContext(ctx, &maxCapacity, `
			SELECT c.max_capacity
			FROM class_schedules s
			JOIN classes c ON c.id = s.class_id
			WHERE s.id = $1
			FOR UPDATE OF s`, scheduleID)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrScheduleNotFound
		}
		if err != nil {
			return fmt.Errorf("lock schedule: %w", err)
		}

		alreadyBooked, err := db.Exists(ctx, tx, `
			SELECT EXISTS(
				SELECT 1 FROM class_bookings
				WHERE member_id = $1 AND schedule_id = $2 AND booking_date = $3 AND status = 'confirmed'
			)`, memberID, scheduleID, day)
		if err != nil {
			return fmt.Errorf("duplicate check: %w", err)
		}

		var confirmed int
		err = tx.GetContext(ctx, &confirmed, `
			SELECT COUNT(*) FROM class_bookings
			WHERE schedule_id = $1 AND booking_date = $2 AND status = 'confirmed'`, scheduleID, day)
		if err != nil {
			return fmt.Errorf("count confirmed: %w", err)
		}

		var capacity *int
		if maxCapacity.Valid {
			v := int(maxCapacity.Int64)
			capacity = &v
		}
		if err := Decide(class.EffectiveCapacity(capacity), alreadyBooked, confirmed); err != nil {
			return err
		}

		err = tx.GetContext(ctx, &b, `
			INSERT INTO class_bookings (member_id, schedule_id, booking_date, status)
			VALUES ($1, $2, $3, 'confirmed')
			RETURNING id, member_id, schedule_id, booking_date, status, created_at`,
			memberID, scheduleID, day)
		if db.IsUniqueViolation(err) {
			return ErrAlreadyBooked
		}
		if err != nil {
			return fmt.Errorf("insert booking: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Booking, error) {
	var b Booking
	err := r.db.GetContext(ctx, &b, `
		SELECT id, member_id, schedule_id, booking_date, status, created_at
		FROM class_bookings
		WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get booking: %w", err)
	}
	return &b, nil
}

func (r *repository) Cancel(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE class_bookings
		SET status = 'cancelled'
		WHERE id = $1 AND status = 'confirmed'`, id)
	if err != nil {
		return fmt.Errorf("cancel booking: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotCancellable
	}
	return nil
}

func (r *repository) CountConfirmed(ctx context.Context, scheduleID int, date time.Time) (int, error) {
	var n int
	err := r.db.GetContext(ctx, &n, `
		SELECT COUNT(*) FROM class_bookings
		WHERE schedule_id = $1 AND booking_date = $2 AND status = 'confirmed'`, scheduleID, dateArg(date))
	if err != nil {
		return 0, fmt.Errorf("count confirmed: %w", err)
	}
	return n, nil
}

func (r *repository) ListByMember(ctx context.Context, memberID int) ([]BookingWithDetails, error) {
	bookings := []BookingWithDetails{}
	err := r.db.SelectContext(ctx, &bookings, `
		SELECT b.id, b.member_id, b.schedule_id, b.booking_date, b.status, b.created_at,
		       c.name AS class_name, s.start_time, s.room
		FROM class_bookings b
		JOIN class_schedules s ON s.id = b.schedule_id
		JOIN classes c ON c.id = s.class_id
		WHERE b.member_id = $1
		ORDER BY b.booking_date DESC, s.start_time DESC`, memberID)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return bookings, nil
}

func (r *repository) Roster(ctx context.Context, scheduleID int, date time.Time) ([]RosterEntry, error) {
	roster := []RosterEntry{}
	err := r.db.SelectContext(ctx, &roster, `
		SELECT b.id AS booking_id, u.id AS member_id, u.name AS member_name,
		       u.email AS member_email, b.created_at AS booked_at
		FROM class_bookings b
		JOIN users u ON u.id = b.member_id
		WHERE b.schedule_id = $1 AND b.booking_date = $2 AND b.status = 'confirmed'
		ORDER BY b.created_at ASC`, scheduleID, dateArg(date))
	if err != nil {
		return nil, fmt.Errorf("roster: %w", err)
	}
	return roster, nil
}
