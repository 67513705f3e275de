package subscription

import (
	"database/sql"
	"time"

	"github.com/Omarzahran17/gym-flow-sub001/internal/plan"
)

const (
	StatusActive   = "active"
	StatusPastDue  = "past_due"
	StatusCanceled = "canceled"
)

type MemberSubscription struct {
	ID                   int            `db:"id" json:"id"`
	MemberID             int            `db:"member_id" json:"member_id"`
	PlanID               int            `db:"plan_id" json:"plan_id"`
	Status               string         `db:"status" json:"status"`
	CurrentPeriodStart   time.Time      `db:"current_period_start" json:"current_period_start"`
	CurrentPeriodEnd     time.Time      `db:"current_period_end" json:"current_period_end"`
	CancelAtPeriodEnd    bool           `db:"cancel_at_period_end" json:"cancel_at_period_end"`
	CanceledAt           sql.NullTime   `db:"canceled_at" json:"-"`
	StripeSubscriptionID sql.NullString `db:"stripe_subscription_id" json:"-"`
	CreatedAt            time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt            time.Time      `db:"updated_at" json:"updated_at"`
}

// Usage is what a member consumed inside the current windows.
type Usage struct {
	ClassesThisMonth int `json:"classesThisMonth"`
	CheckInsToday    int `json:"checkInsToday"`
}

type PlanSummary struct {
	ID       int           `json:"id"`
	Name     string        `json:"name"`
	Tier     string        `json:"tier"`
	Interval string        `json:"interval"`
	Features plan.Features `json:"features"`
}

type Limits struct {
	MaxClassesPerMonth *int `json:"maxClassesPerMonth"`
	MaxCheckInsPerDay  *int `json:"maxCheckInsPerDay"`
}

// Entitlement answers whether a member may use the gym right now and how
// much of the month and day quota is left. Nil limits and a nil
// ClassesRemaining mean unlimited.
type Entitlement struct {
	HasSubscription  bool         `json:"hasSubscription"`
	IsActive         bool         `json:"isActive"`
	Plan             *PlanSummary `json:"plan,omitempty"`
	Usage            *Usage       `json:"usage,omitempty"`
	Limits           *Limits      `json:"limits,omitempty"`
	ClassesRemaining *int         `json:"classesRemaining"`
	CanCheckIn       bool         `json:"canCheckIn"`
	PeriodEnd        *time.Time   `json:"currentPeriodEnd,omitempty"`
}

// CanBookClass reports whether the month quota still has room.
func (e *Entitlement) CanBookClass() bool {
	if !e.HasSubscription {
		return false
	}
	return e.ClassesRemaining == nil || *e.ClassesRemaining > 0
}

// CurrentSubscription is the member-facing view of the subscription row.
type CurrentSubscription struct {
	MemberSubscription
	Plan *plan.Plan `json:"plan"`
}

// Activation describes a subscription that a completed checkout starts.
type Activation struct {
	MemberID             int
	PlanID               int
	StripeSubscriptionID string
	PeriodStart          time.Time
	PeriodEnd            time.Time
}

// StripeUpdate carries the fields a provider subscription change may touch.
// Zero times and a zero PlanID leave the stored values unchanged.
type StripeUpdate struct {
	Status            string
	PeriodStart       time.Time
	PeriodEnd         time.Time
	CancelAtPeriodEnd bool
	PlanID            int
}
