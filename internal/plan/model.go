package plan

import (
	"database/sql"
	"time"
)

const (
	IntervalWeek  = "week"
	IntervalMonth = "month"
	IntervalYear  = "year"
)

type Plan struct {
	ID                 int            `db:"id" json:"id"`
	Name               string         `db:"name" json:"name"`
	Tier               string         `db:"tier" json:"tier"`
	PriceCents         int64          `db:"price_cents" json:"price_cents"`
	Currency           string         `db:"currency" json:"currency"`
	Interval           string         `db:"billing_interval" json:"interval"`
	MaxClassesPerMonth *int           `db:"max_classes_per_month" json:"max_classes_per_month"`
	MaxCheckInsPerDay  *int           `db:"max_checkins_per_day" json:"max_checkins_per_day"`
	TrainerAccess      bool           `db:"trainer_access" json:"trainer_access"`
	PersonalTraining   bool           `db:"personal_training" json:"personal_training"`
	ProgressTracking   bool           `db:"progress_tracking" json:"progress_tracking"`
	Achievements       bool           `db:"achievements" json:"achievements"`
	StripePriceID      sql.NullString `db:"stripe_price_id" json:"-"`
	IsActive           bool           `db:"is_active" json:"is_active"`
	CreatedAt          time.Time      `db:"created_at" json:"created_at"`
}

// Features is the subset of a plan exposed alongside entitlement data.
type Features struct {
	TrainerAccess    bool `json:"trainerAccess"`
	PersonalTraining bool `json:"personalTraining"`
	ProgressTracking bool `json:"progressTracking"`
	Achievements     bool `json:"achievements"`
}

func (p *Plan) Features() Features {
	return Features{
		TrainerAccess:    p.TrainerAccess,
		PersonalTraining: p.PersonalTraining,
		ProgressTracking: p.ProgressTracking,
		Achievements:     p.Achievements,
	}
}

type CreatePlanRequest struct {
	Name               string `json:"name" validate:"required,min=2,max=100"`
	Tier               string `json:"tier" validate:"omitempty,oneof=basic premium elite"`
	PriceCents         int64  `json:"price_cents" validate:"gte=0"`
	Currency           string `json:"currency" validate:"omitempty,len=3"`
	Interval           string `json:"interval" validate:"required,oneof=week month year"`
	MaxClassesPerMonth *int   `json:"max_classes_per_month" validate:"omitempty,gte=0"`
	MaxCheckInsPerDay  *int   `json:"max_checkins_per_day" validate:"omitempty,gte=0"`
	TrainerAccess      bool   `json:"trainer_access"`
	PersonalTraining   bool   `json:"personal_training"`
	ProgressTracking   bool   `json:"progress_tracking"`
	Achievements       bool   `json:"achievements"`
	StripePriceID      string `json:"stripe_price_id" validate:"omitempty,max=255"`
}
