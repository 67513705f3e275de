package subscription

import (
	"errors"

	"github.com/Omarzahran17/gym-flow-sub001/internal/plan"
)

var (
	ErrSubscriptionRequired = errors.New("an active subscription is required")
	ErrClassLimitReached    = errors.New("monthly class limit reached")
	ErrCheckInLimitReached  = errors.New("daily check-in limit reached")
)

var noSubscription = Entitlement{HasSubscription: false, IsActive: false}

// Compute derives the entitlement of an active subscription from its plan and
// the usage counted in the current windows. A nil subscription or plan means
// the member has no subscription. The billing interval plays no part: the
// limits are always per calendar month and day.
func Compute(sub *MemberSubscription, p *plan.Plan, usage Usage) Entitlement {
	if sub == nil || p == nil || sub.Status != StatusActive {
		return noSubscription
	}

	e := Entitlement{
		HasSubscription: true,
		IsActive:        true,
		Plan: &PlanSummary{
			ID:       p.ID,
			Name:     p.Name,
			Tier:     plan.EffectiveTier(p),
			Interval: p.Interval,
			Features: p.Features(),
		},
		Usage: &usage,
		Limits: &Limits{
			MaxClassesPerMonth: p.MaxClassesPerMonth,
			MaxCheckInsPerDay:  p.MaxCheckInsPerDay,
		},
		CanCheckIn: true,
	}

	if limit := p.MaxClassesPerMonth; limit != nil {
		remaining := *limit - usage.ClassesThisMonth
		if remaining < 0 {
			remaining = 0
		}
		e.ClassesRemaining = &remaining
	}

	if limit := p.MaxCheckInsPerDay; limit != nil {
		e.CanCheckIn = usage.CheckInsToday < *limit
	}

	if !sub.CurrentPeriodEnd.IsZero() {
		end := sub.CurrentPeriodEnd
		e.PeriodEnd = &end
	}

	return e
}

// AllowBooking returns the rejection for a class booking, or nil.
func (e *Entitlement) AllowBooking() error {
	switch {
	case !e.HasSubscription:
		return ErrSubscriptionRequired
	case !e.CanBookClass():
		return ErrClassLimitReached
	}
	return nil
}

// AllowCheckIn returns the rejection for a gym check-in, or nil.
func (e *Entitlement) AllowCheckIn() error {
	switch {
	case !e.HasSubscription:
		return ErrSubscriptionRequired
	case !e.CanCheckIn:
		return ErrCheckInLimitReached
	}
	return nil
}
