package billing

import (
	"context"
	"fmt"
	"strconv"

	"github.com/stripe/stripe-go/v75"
	"github.com/stripe/stripe-go/v75/client"
)

// CheckoutRequest is what a hosted subscription checkout needs.
type CheckoutRequest struct {
	CustomerID string
	PriceID    string
	MemberID   int
	PlanID     int
	SuccessURL string
	CancelURL  string
}

// Gateway is the payment provider API the service calls out to.
type Gateway interface {
	CreateCustomer(ctx context.Context, email, name string, memberID int) (string, error)
	CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (string, error)
	SetCancelAtPeriodEnd(ctx context.Context, subscriptionID string, cancel bool) error
	CancelSubscription(ctx context.Context, subscriptionID string) error
}

type StripeGateway struct {
	api *client.API
}

func NewStripeGateway(secretKey string) *StripeGateway {
	return &StripeGateway{api: client.New(secretKey, nil)}
}

func (g *StripeGateway) CreateCustomer(ctx context.Context, email, name string, memberID int) (string, error) {
	params := &stripe.CustomerParams{
		Email: stripe.String(email),
		Name:  stripe.String(name),
		Metadata: map[string]string{
			"member_id": strconv.Itoa(memberID),
		},
	}
	params.Context = ctx

	cus, err := g.api.Customers.New(params)
	if err != nil {
		return "", fmt.Errorf("stripe create customer: %w", err)
	}
	return cus.ID, nil
}

func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (string, error) {
	metadata := map[string]string{
		"member_id": strconv.Itoa(req.MemberID),
		"plan_id":   strconv.Itoa(req.PlanID),
	}

	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		Customer:   stripe.String(req.CustomerID),
		SuccessURL: stripe.String(req.SuccessURL),
		CancelURL:  stripe.String(req.CancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{Price: stripe.String(req.PriceID), Quantity: stripe.Int64(1)},
		},
		ClientReferenceID: stripe.String(strconv.Itoa(req.MemberID)),
		Metadata:          metadata,
		SubscriptionData: &stripe.CheckoutSessionSubscriptionDataParams{
			Metadata: metadata,
		},
	}
	params.Context = ctx

	s, err := g.api.CheckoutSessions.New(params)
	if err != nil {
		return "", fmt.Errorf("stripe create checkout session: %w", err)
	}
	return s.URL, nil
}

func (g *StripeGateway) SetCancelAtPeriodEnd(ctx context.Context, subscriptionID string, cancel bool) error {
	params := &stripe.SubscriptionParams{CancelAtPeriodEnd: stripe.Bool(cancel)}
	params.Context = ctx

	if _, err := g.api.Subscriptions.Update(subscriptionID, params); err != nil {
		return fmt.Errorf("stripe update subscription: %w", err)
	}
	return nil
}

func (g *StripeGateway) CancelSubscription(ctx context.Context, subscriptionID string) error {
	params := &stripe.SubscriptionCancelParams{}
	params.Context = ctx

	if _, err := g.api.Subscriptions.Cancel(subscriptionID, params); err != nil {
		return fmt.Errorf("stripe cancel subscription: %w", err)
	}
	return nil
}
