package plan

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Omarzahran17/gym-flow-sub001/internal/db"

	"github.com/jmoiron/sqlx"
)

var (
	ErrPlanNotFound      = errors.New("plan not found")
	ErrDuplicateStripeID = errors.New("stripe price already mapped to a plan")
)

const planColumns = `id, name, tier, price_cents, currency, billing_interval,
	max_classes_per_month, max_checkins_per_day,
	trainer_access, personal_training, progress_tracking, achievements,
	stripe_price_id, is_active, created_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, p *Plan) (*Plan, error) {
	query := `
		INSERT INTO subscription_plans (
			name, tier, price_cents, currency, billing_interval,
			max_classes_per_month, max_checkins_per_day,
			trainer_access, personal_training, progress_tracking, achievements,
			stripe_price_id
		)
		VALUES (:name, :tier, :price_cents, :currency, :billing_interval,
			:max_classes_per_month, :max_checkins_per_day,
			:trainer_access, :personal_training, :progress_tracking, :achievements,
			:stripe_price_id)
		RETURNING ` + planColumns

	stmt, err := r.db.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("prepare create plan: %w", err)
	}
	defer stmt.Close()

	var created Plan
	if err := stmt.GetContext(ctx, &created, p); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, ErrDuplicateStripeID
		}
		return nil, fmt.Errorf("create plan: %w", err)
	}
	return &created, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Plan, error) {
	return r.getOne(ctx, `SELECT `+planColumns+` FROM subscription_plans WHERE id = $1`, id)
}

func (r *repository) GetByStripePriceID(ctx context.Context, priceID string) (*Plan, error) {
	return r.getOne(ctx, `SELECT `+planColumns+` FROM subscription_plans WHERE stripe_price_id = $1`, priceID)
}

func (r *repository) getOne(ctx context.Context, query string, arg interface{}) (*Plan, error) {
	var p Plan
	err := r.db.GetContext(ctx, &p, query, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPlanNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get plan: %w", err)
	}
	return &p, nil
}

func (r *repository) ListActive(ctx context.Context) ([]Plan, error) {
	query := `SELECT ` + planColumns + ` FROM subscription_plans WHERE is_active = TRUE ORDER BY price_cents ASC, id ASC`

	plans := []Plan{}
	if err := r.db.SelectContext(ctx, &plans, query); err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	return plans, nil
}
