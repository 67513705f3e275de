package subscription

import (
	"context"
	"time"

	"github.com/Omarzahran17/gym-flow-sub001/internal/period"
)

type Repository interface {
	GetActive(ctx context.Context, memberID int) (*MemberSubscription, error)
	GetLatest(ctx context.Context, memberID int) (*MemberSubscription, error)
	GetByStripeID(ctx context.Context, stripeSubscriptionID string) (*MemberSubscription, error)
	CountConfirmedBookings(ctx context.Context, memberID int, w period.Window) (int, error)
	CountCheckIns(ctx context.Context, memberID int, w period.Window) (int, error)
	Activate(ctx context.Context, a Activation) (*MemberSubscription, error)
	ApplyStripeUpdate(ctx context.Context, stripeSubscriptionID string, u StripeUpdate) (*MemberSubscription, error)
	MarkCanceled(ctx context.Context, stripeSubscriptionID string, at time.Time) (*MemberSubscription, error)
	SetCancelAtPeriodEnd(ctx context.Context, id int, cancel bool) error
}
