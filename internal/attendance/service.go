package attendance

import (
	"context"
	"errors"
	"time"

	"github.com/Omarzahran17/gym-flow-sub001/internal/events"
	"github.com/Omarzahran17/gym-flow-sub001/internal/logger"
	"github.com/Omarzahran17/gym-flow-sub001/internal/metrics"
	"github.com/Omarzahran17/gym-flow-sub001/internal/period"
	"github.com/Omarzahran17/gym-flow-sub001/internal/subscription"
	"github.com/Omarzahran17/gym-flow-sub001/internal/user"
)

const historyLimit = 100

type MemberLookup interface {
	GetByID(ctx context.Context, userID int) (*user.User, error)
}

type EntitlementEvaluator interface {
	Evaluate(ctx context.Context, memberID int) (*subscription.Entitlement, error)
}

type AchievementEvaluator interface {
	Evaluate(ctx context.Context, memberID int) error
}

type Service interface {
	CheckIn(ctx context.Context, memberID int) (*Attendance, error)
	History(ctx context.Context, memberID int) ([]Attendance, error)
}

type service struct {
	repo         Repository
	members      MemberLookup
	entitlements EntitlementEvaluator
	achievements AchievementEvaluator
	events       events.Publisher
	loc          *time.Location
	now          func() time.Time
}

// NewService builds the check-in service. members may be nil when the caller
// already knows the member exists.
func NewService(repo Repository, members MemberLookup, entitlements EntitlementEvaluator, achievements AchievementEvaluator, publisher events.Publisher, loc *time.Location) Service {
	if loc == nil {
		loc = time.UTC
	}
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &service{
		repo:         repo,
		members:      members,
		entitlements: entitlements,
		achievements: achievements,
		events:       publisher,
		loc:          loc,
		now:          time.Now,
	}
}

func (s *service) CheckIn(ctx context.Context, memberID int) (*Attendance, error) {
	if s.members != nil {
		if _, err := s.members.GetByID(ctx, memberID); err != nil {
			return nil, err
		}
	}

	ent, err := s.entitlements.Evaluate(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if err := ent.AllowCheckIn(); err != nil {
		metrics.RecordCheckIn(outcome(err))
		return nil, err
	}

	// The guard counts the whole day, not DayWindow(now): a request that
	// read its clock later may have taken the lock first.
	now := s.now().In(s.loc)
	day := period.Day(now)

	var limit *int
	if ent.Limits != nil {
		limit = ent.Limits.MaxCheckInsPerDay
	}

	a, err := s.repo.CheckIn(ctx, memberID, now, day, limit)
	metrics.RecordCheckIn(outcome(err))
	if err != nil {
		return nil, err
	}

	logger.Info("member checked in", "attendance_id", a.ID, "member_id", memberID)

	ev := events.CheckInEvent{AttendanceID: a.ID, MemberID: memberID, CheckInTime: a.CheckInTime}
	if err := s.events.Publish(ctx, events.AttendanceCheckedIn, ev); err != nil {
		logger.WithError(err).Warn("publish check-in event failed", "attendance_id", a.ID)
	}

	if s.achievements != nil && ent.Plan != nil && ent.Plan.Features.Achievements {
		if err := s.achievements.Evaluate(ctx, memberID); err != nil {
			logger.WithError(err).Warn("achievement evaluation failed", "member_id", memberID)
		}
	}

	return a, nil
}

func (s *service) History(ctx context.Context, memberID int) ([]Attendance, error) {
	return s.repo.ListByMember(ctx, memberID, historyLimit)
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "checked_in"
	case errors.Is(err, subscription.ErrSubscriptionRequired):
		return "no_subscription"
	case errors.Is(err, subscription.ErrCheckInLimitReached):
		return "limit_reached"
	default:
		return "error"
	}
}
