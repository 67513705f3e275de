package achievement

import (
	"context"
	"errors"

	"github.com/Omarzahran17/gym-flow-sub001/internal/logger"
	"github.com/Omarzahran17/gym-flow-sub001/internal/metrics"
	"github.com/Omarzahran17/gym-flow-sub001/internal/subscription"
)

var ErrFeatureNotAvailable = errors.New("achievements are not included in the current plan")

type EntitlementEvaluator interface {
	Evaluate(ctx context.Context, memberID int) (*subscription.Entitlement, error)
}

type Service interface {
	// Evaluate awards every achievement whose threshold the member has
	// reached. Awarding is idempotent.
	Evaluate(ctx context.Context, memberID int) error
	List(ctx context.Context, memberID int) ([]Progress, error)
}

type service struct {
	repo         Repository
	entitlements EntitlementEvaluator
}

func NewService(repo Repository, entitlements EntitlementEvaluator) Service {
	return &service{repo: repo, entitlements: entitlements}
}

func (s *service) Evaluate(ctx context.Context, memberID int) error {
	counters, err := s.repo.Counters(ctx, memberID)
	if err != nil {
		return err
	}

	awarded, err := s.repo.Award(ctx, memberID, Reached(counters))
	if err != nil {
		return err
	}
	for _, code := range awarded {
		metrics.RecordAchievement(code)
		logger.Info("achievement earned", "member_id", memberID, "code", code)
	}
	return nil
}

func (s *service) List(ctx context.Context, memberID int) ([]Progress, error) {
	ent, err := s.entitlements.Evaluate(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if ent.Plan == nil || !ent.Plan.Features.Achievements {
		return nil, ErrFeatureNotAvailable
	}

	counters, err := s.repo.Counters(ctx, memberID)
	if err != nil {
		return nil, err
	}
	earned, err := s.repo.ListByMember(ctx, memberID)
	if err != nil {
		return nil, err
	}

	byCode := make(map[string]MemberAchievement, len(earned))
	for _, a := range earned {
		byCode[a.Code] = a
	}

	progress := make([]Progress, 0, len(Definitions))
	for _, d := range Definitions {
		p := Progress{Definition: d, Current: counters.value(d.Metric)}
		if a, ok := byCode[d.Code]; ok {
			p.Earned = true
			at := a.EarnedAt
			p.EarnedAt = &at
		}
		progress = append(progress, p)
	}
	return progress, nil
}
