package billing

import (
	"context"
	"errors"
	"time"

	"github.com/Omarzahran17/gym-flow-sub001/internal/events"
	"github.com/Omarzahran17/gym-flow-sub001/internal/logger"
	"github.com/Omarzahran17/gym-flow-sub001/internal/plan"
	"github.com/Omarzahran17/gym-flow-sub001/internal/subscription"
	"github.com/Omarzahran17/gym-flow-sub001/internal/user"

	"github.com/stripe/stripe-go/v75"
)

const providerStripe = "stripe"

var (
	ErrPlanNotPurchasable = errors.New("plan is not available for purchase")
	ErrInvalidPayload     = errors.New("invalid webhook payload")
)

type SubscriptionStore interface {
	GetActive(ctx context.Context, memberID int) (*subscription.MemberSubscription, error)
	GetByStripeID(ctx context.Context, stripeSubscriptionID string) (*subscription.MemberSubscription, error)
	Activate(ctx context.Context, a subscription.Activation) (*subscription.MemberSubscription, error)
	ApplyStripeUpdate(ctx context.Context, stripeSubscriptionID string, u subscription.StripeUpdate) (*subscription.MemberSubscription, error)
	MarkCanceled(ctx context.Context, stripeSubscriptionID string, at time.Time) (*subscription.MemberSubscription, error)
	SetCancelAtPeriodEnd(ctx context.Context, id int, cancel bool) error
}

type PlanStore interface {
	GetByID(ctx context.Context, id int) (*plan.Plan, error)
	GetByStripePriceID(ctx context.Context, priceID string) (*plan.Plan, error)
}

type MemberStore interface {
	FindByID(ctx context.Context, id int) (*user.User, error)
	SetStatus(ctx context.Context, id int, status string) error
	SetStripeCustomerID(ctx context.Context, id int, customerID string) error
}

type Notifier interface {
	SendPaymentFailed(ctx context.Context, to, name string) error
	SendSubscriptionCanceled(ctx context.Context, to, name string) error
}

type Service interface {
	// Checkout starts a hosted checkout for planID and returns its URL.
	Checkout(ctx context.Context, memberID, planID int) (string, error)
	CancelAtPeriodEnd(ctx context.Context, memberID int) (*subscription.MemberSubscription, error)
	// HandleEvent applies a verified provider event once and reports whether
	// it was processed, ignored or a duplicate.
	HandleEvent(ctx context.Context, ev stripe.Event) (string, error)
}

type Deps struct {
	Gateway       Gateway
	Ledger        Repository
	Subscriptions SubscriptionStore
	Plans         PlanStore
	Members       MemberStore
	Notifier      Notifier
	Events        events.Publisher
	AppURL        string
}

type service struct {
	Deps
	now func() time.Time
}

func NewService(d Deps) Service {
	if d.Events == nil {
		d.Events = events.Nop{}
	}
	return &service{Deps: d, now: time.Now}
}

func (s *service) Checkout(ctx context.Context, memberID, planID int) (string, error) {
	p, err := s.Plans.GetByID(ctx, planID)
	if err != nil {
		return "", err
	}
	if !p.IsActive || !p.StripePriceID.Valid {
		return "", ErrPlanNotPurchasable
	}

	member, err := s.Members.FindByID(ctx, memberID)
	if err != nil {
		return "", err
	}

	customerID := member.StripeCustomerID.String
	if !member.StripeCustomerID.Valid || customerID == "" {
		customerID, err = s.Gateway.CreateCustomer(ctx, member.Email, member.Name, member.ID)
		if err != nil {
			return "", err
		}
		if err := s.Members.SetStripeCustomerID(ctx, member.ID, customerID); err != nil {
			return "", err
		}
	}

	return s.Gateway.CreateCheckoutSession(ctx, CheckoutRequest{
		CustomerID: customerID,
		PriceID:    p.StripePriceID.String,
		MemberID:   member.ID,
		PlanID:     p.ID,
		SuccessURL: s.AppURL + "/account?checkout=success",
		CancelURL:  s.AppURL + "/account?checkout=canceled",
	})
}

func (s *service) CancelAtPeriodEnd(ctx context.Context, memberID int) (*subscription.MemberSubscription, error) {
	sub, err := s.Subscriptions.GetActive(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if sub.CancelAtPeriodEnd {
		return sub, nil
	}

	if sub.StripeSubscriptionID.Valid {
		if err := s.Gateway.SetCancelAtPeriodEnd(ctx, sub.StripeSubscriptionID.String, true); err != nil {
			return nil, err
		}
	}
	if err := s.Subscriptions.SetCancelAtPeriodEnd(ctx, sub.ID, true); err != nil {
		return nil, err
	}

	logger.Info("subscription set to cancel at period end", "subscription_id", sub.ID, "member_id", memberID)
	sub.CancelAtPeriodEnd = true
	return sub, nil
}

func (s *service) publish(ctx context.Context, sub *subscription.MemberSubscription) {
	ev := events.SubscriptionEvent{
		MemberID:       sub.MemberID,
		SubscriptionID: sub.ID,
		PlanID:         sub.PlanID,
		Status:         sub.Status,
	}
	if err := s.Events.Publish(ctx, events.SubscriptionChanged, ev); err != nil {
		logger.WithError(err).Warn("publish subscription event failed", "subscription_id", sub.ID)
	}
}

// syncMemberStatus marks the member inactive once no active subscription is
// left, and active otherwise.
func (s *service) syncMemberStatus(ctx context.Context, memberID int) error {
	status := user.StatusActive
	if _, err := s.Subscriptions.GetActive(ctx, memberID); err != nil {
		if !errors.Is(err, subscription.ErrSubscriptionNotFound) {
			return err
		}
		status = user.StatusInactive
	}
	return s.Members.SetStatus(ctx, memberID, status)
}

// nextPeriodEnd is a provisional period end used until the provider reports
// the real one.
func nextPeriodEnd(start time.Time, interval string) time.Time {
	switch interval {
	case plan.IntervalWeek:
		return start.AddDate(0, 0, 7)
	case plan.IntervalYear:
		return start.AddDate(1, 0, 0)
	default:
		return start.AddDate(0, 1, 0)
	}
}
