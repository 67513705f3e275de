package subscription

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Omarzahran17/gym-flow-sub001/internal/period"
	"github.com/Omarzahran17/gym-flow-sub001/internal/plan"
)

// PlanLookup is the part of the plan catalog the evaluator reads.
type PlanLookup interface {
	GetByID(ctx context.Context, id int) (*plan.Plan, error)
}

type Service interface {
	// Evaluate is read-only. Business conditions such as a missing
	// subscription are reported through the result, never as an error.
	Evaluate(ctx context.Context, memberID int) (*Entitlement, error)
	Current(ctx context.Context, memberID int) (*CurrentSubscription, error)
}

type service struct {
	repo  Repository
	plans PlanLookup
	loc   *time.Location
	now   func() time.Time
}

func NewService(repo Repository, plans PlanLookup, loc *time.Location) Service {
	if loc == nil {
		loc = time.UTC
	}
	return &service{
		repo:  repo,
		plans: plans,
		loc:   loc,
		now:   time.Now,
	}
}

func (s *service) Evaluate(ctx context.Context, memberID int) (*Entitlement, error) {
	sub, err := s.repo.GetActive(ctx, memberID)
	if errors.Is(err, ErrSubscriptionNotFound) {
		e := noSubscription
		return &e, nil
	}
	if err != nil {
		return nil, err
	}

	p, err := s.plans.GetByID(ctx, sub.PlanID)
	if errors.Is(err, plan.ErrPlanNotFound) {
		e := noSubscription
		return &e, nil
	}
	if err != nil {
		return nil, err
	}

	now := s.now().In(s.loc)

	classes, err := s.repo.CountConfirmedBookings(ctx, memberID, period.MonthWindow(now))
	if err != nil {
		return nil, fmt.Errorf("entitlement: %w", err)
	}

	checkIns, err := s.repo.CountCheckIns(ctx, memberID, period.DayWindow(now))
	if err != nil {
		return nil, fmt.Errorf("entitlement: %w", err)
	}

	e := Compute(sub, p, Usage{ClassesThisMonth: classes, CheckInsToday: checkIns})
	return &e, nil
}

func (s *service) Current(ctx context.Context, memberID int) (*CurrentSubscription, error) {
	sub, err := s.repo.GetLatest(ctx, memberID)
	if err != nil {
		return nil, err
	}

	p, err := s.plans.GetByID(ctx, sub.PlanID)
	if err != nil && !errors.Is(err, plan.ErrPlanNotFound) {
		return nil, err
	}

	return &CurrentSubscription{MemberSubscription: *sub, Plan: p}, nil
}
