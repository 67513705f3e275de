package plan

import (
	"context"
	"database/sql"
	"strings"
)

type Service interface {
	Create(ctx context.Context, req CreatePlanRequest) (*Plan, error)
	GetByID(ctx context.Context, id int) (*Plan, error)
	GetByStripePriceID(ctx context.Context, priceID string) (*Plan, error)
	ListActive(ctx context.Context) ([]Plan, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, req CreatePlanRequest) (*Plan, error) {
	currency := strings.ToLower(req.Currency)
	if currency == "" {
		currency = "usd"
	}

	p := &Plan{
		Name:               strings.TrimSpace(req.Name),
		Tier:               req.Tier,
		PriceCents:         req.PriceCents,
		Currency:           currency,
		Interval:           req.Interval,
		MaxClassesPerMonth: req.MaxClassesPerMonth,
		MaxCheckInsPerDay:  req.MaxCheckInsPerDay,
		TrainerAccess:      req.TrainerAccess,
		PersonalTraining:   req.PersonalTraining,
		ProgressTracking:   req.ProgressTracking,
		Achievements:       req.Achievements,
	}
	p.Tier = EffectiveTier(p)
	if req.StripePriceID != "" {
		p.StripePriceID = sql.NullString{String: req.StripePriceID, Valid: true}
	}

	return s.repo.Create(ctx, p)
}

func (s *service) GetByID(ctx context.Context, id int) (*Plan, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetByStripePriceID(ctx context.Context, priceID string) (*Plan, error) {
	return s.repo.GetByStripePriceID(ctx, priceID)
}

func (s *service) ListActive(ctx context.Context) ([]Plan, error) {
	return s.repo.ListActive(ctx)
}
