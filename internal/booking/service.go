package booking

import (
	"context"
	"errors"
	"time"

	"github.com/Omarzahran17/gym-flow-sub001/internal/class"
	"github.com/Omarzahran17/gym-flow-sub001/internal/events"
	"github.com/Omarzahran17/gym-flow-sub001/internal/logger"
	"github.com/Omarzahran17/gym-flow-sub001/internal/metrics"
	"github.com/Omarzahran17/gym-flow-sub001/internal/period"
	"github.com/Omarzahran17/gym-flow-sub001/internal/subscription"
	"github.com/Omarzahran17/gym-flow-sub001/internal/user"
)

type ScheduleLookup interface {
	GetSchedule(ctx context.Context, id int) (*class.ScheduleDetail, error)
}

type EntitlementEvaluator interface {
	Evaluate(ctx context.Context, memberID int) (*subscription.Entitlement, error)
}

type MemberLookup interface {
	GetByID(ctx context.Context, userID int) (*user.User, error)
}

type Notifier interface {
	SendBookingConfirmation(ctx context.Context, to, name, className, room string, date time.Time, startTime string) error
	SendBookingCancellation(ctx context.Context, to, name, className string, date time.Time) error
}

type AchievementEvaluator interface {
	Evaluate(ctx context.Context, memberID int) error
}

type Service interface {
	Book(ctx context.Context, memberID int, req CreateBookingRequest) (*Booking, error)
	Cancel(ctx context.Context, memberID, bookingID int) error
	ListMine(ctx context.Context, memberID int) ([]BookingWithDetails, error)
	Availability(ctx context.Context, scheduleID int, date string) (*Availability, error)
	Roster(ctx context.Context, scheduleID int, date string) ([]RosterEntry, error)
}

type Deps struct {
	Repo         Repository
	Schedules    ScheduleLookup
	Entitlements EntitlementEvaluator
	Members      MemberLookup
	Notifier     Notifier
	Events       events.Publisher
	Achievements AchievementEvaluator
	Location     *time.Location
}

type service struct {
	Deps
	now func() time.Time
}

func NewService(d Deps) Service {
	if d.Location == nil {
		d.Location = time.UTC
	}
	if d.Events == nil {
		d.Events = events.Nop{}
	}
	return &service{Deps: d, now: time.Now}
}

func (s *service) Book(ctx context.Context, memberID int, req CreateBookingRequest) (*Booking, error) {
	date, err := period.ParseDate(req.BookingDate)
	if err != nil {
		return nil, ErrInvalidDate
	}

	ent, err := s.Entitlements.Evaluate(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if err := ent.AllowBooking(); err != nil {
		metrics.RecordBooking(outcome(err))
		return nil, err
	}

	sched, err := s.Schedules.GetSchedule(ctx, req.ScheduleID)
	if err != nil {
		return nil, err
	}

	today := period.DateOf(s.now(), s.Location)
	if date.Before(today) {
		return nil, ErrDateInPast
	}
	if date.Weekday() != sched.Weekday() {
		return nil, ErrWrongWeekday
	}

	b, err := s.Repo.Reserve(ctx, memberID, req.ScheduleID, date)
	metrics.RecordBooking(outcome(err))
	if err != nil {
		return nil, err
	}

	logger.Info("booking confirmed", "booking_id", b.ID, "member_id", memberID, "schedule_id", b.ScheduleID, "date", req.BookingDate)
	s.afterBooking(ctx, b, sched, ent)
	return b, nil
}

// afterBooking runs the side effects of a confirmed booking. Their failures
// are logged and never undo the booking.
func (s *service) afterBooking(ctx context.Context, b *Booking, sched *class.ScheduleDetail, ent *subscription.Entitlement) {
	ev := events.BookingEvent{
		BookingID:   b.ID,
		MemberID:    b.MemberID,
		ScheduleID:  b.ScheduleID,
		ClassName:   sched.ClassName,
		BookingDate: b.BookingDate.Format(period.DateLayout),
	}
	if err := s.Events.Publish(ctx, events.BookingConfirmed, ev); err != nil {
		logger.WithError(err).Warn("publish booking event failed", "booking_id", b.ID)
	}

	if s.Achievements != nil && ent.Plan != nil && ent.Plan.Features.Achievements {
		if err := s.Achievements.Evaluate(ctx, b.MemberID); err != nil {
			logger.WithError(err).Warn("achievement evaluation failed", "member_id", b.MemberID)
		}
	}

	if s.Notifier == nil || s.Members == nil {
		return
	}
	member, err := s.Members.GetByID(ctx, b.MemberID)
	if err != nil {
		logger.WithError(err).Warn("booking email skipped", "booking_id", b.ID)
		return
	}
	if err := s.Notifier.SendBookingConfirmation(ctx, member.Email, member.Name, sched.ClassName, sched.Room, b.BookingDate, sched.StartTime); err != nil {
		logger.WithError(err).Warn("booking email failed", "booking_id", b.ID)
	}
}

func (s *service) Cancel(ctx context.Context, memberID, bookingID int) error {
	b, err := s.Repo.GetByID(ctx, bookingID)
	if err != nil {
		return err
	}
	if b.MemberID != memberID {
		return ErrNotBookingOwner
	}
	if b.Status != StatusConfirmed {
		return ErrNotCancellable
	}

	if err := s.Repo.Cancel(ctx, bookingID); err != nil {
		return err
	}
	metrics.RecordBookingCancellation()

	ev := events.BookingEvent{
		BookingID:   b.ID,
		MemberID:    b.MemberID,
		ScheduleID:  b.ScheduleID,
		BookingDate: b.BookingDate.Format(period.DateLayout),
	}

	sched, err := s.Schedules.GetSchedule(ctx, b.ScheduleID)
	if err == nil {
		ev.ClassName = sched.ClassName
	}
	if err := s.Events.Publish(ctx, events.BookingCancelled, ev); err != nil {
		logger.WithError(err).Warn("publish cancellation event failed", "booking_id", b.ID)
	}

	if sched != nil && s.Notifier != nil && s.Members != nil {
		if member, err := s.Members.GetByID(ctx, memberID); err == nil {
			if err := s.Notifier.SendBookingCancellation(ctx, member.Email, member.Name, sched.ClassName, b.BookingDate); err != nil {
				logger.WithError(err).Warn("cancellation email failed", "booking_id", b.ID)
			}
		}
	}

	return nil
}

func (s *service) ListMine(ctx context.Context, memberID int) ([]BookingWithDetails, error) {
	return s.Repo.ListByMember(ctx, memberID)
}

func (s *service) Availability(ctx context.Context, scheduleID int, date string) (*Availability, error) {
	day, err := period.ParseDate(date)
	if err != nil {
		return nil, ErrInvalidDate
	}

	sched, err := s.Schedules.GetSchedule(ctx, scheduleID)
	if err != nil {
		return nil, err
	}

	confirmed, err := s.Repo.CountConfirmed(ctx, scheduleID, day)
	if err != nil {
		return nil, err
	}

	a := availability(scheduleID, date, sched.Capacity(), confirmed)
	return &a, nil
}

func (s *service) Roster(ctx context.Context, scheduleID int, date string) ([]RosterEntry, error) {
	day, err := period.ParseDate(date)
	if err != nil {
		return nil, ErrInvalidDate
	}
	if _, err := s.Schedules.GetSchedule(ctx, scheduleID); err != nil {
		return nil, err
	}
	return s.Repo.Roster(ctx, scheduleID, day)
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "confirmed"
	case errors.Is(err, ErrClassFull):
		return "class_full"
	case errors.Is(err, ErrAlreadyBooked):
		return "duplicate"
	case errors.Is(err, subscription.ErrSubscriptionRequired):
		return "no_subscription"
	case errors.Is(err, subscription.ErrClassLimitReached):
		return "class_limit"
	case errors.Is(err, ErrScheduleNotFound):
		return "not_found"
	default:
		return "error"
	}
}
