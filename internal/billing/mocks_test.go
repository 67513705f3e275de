package billing

import (
	"context"
	"time"

	"github.com/Omarzahran17/gym-flow-sub001/internal/plan"
	"github.com/Omarzahran17/gym-flow-sub001/internal/subscription"
	"github.com/Omarzahran17/gym-flow-sub001/internal/user"

	"github.com/stretchr/testify/mock"
)

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) CreateCustomer(ctx context.Context, email, name string, memberID int) (string, error) {
	args := m.Called(ctx, email, name, memberID)
	return args.String(0), args.Error(1)
}

func (m *MockGateway) CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *MockGateway) SetCancelAtPeriodEnd(ctx context.Context, subscriptionID string, cancel bool) error {
	return m.Called(ctx, subscriptionID, cancel).Error(0)
}

func (m *MockGateway) CancelSubscription(ctx context.Context, subscriptionID string) error {
	return m.Called(ctx, subscriptionID).Error(0)
}

type MockLedger struct {
	mock.Mock
}

func (m *MockLedger) Processed(ctx context.Context, provider, eventID string) (bool, error) {
	args := m.Called(ctx, provider, eventID)
	return args.Bool(0), args.Error(1)
}

func (m *MockLedger) MarkProcessed(ctx context.Context, provider, eventID, eventType string) error {
	return m.Called(ctx, provider, eventID, eventType).Error(0)
}

type MockSubscriptions struct {
	mock.Mock
}

func subResult(args mock.Arguments) (*subscription.MemberSubscription, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*subscription.MemberSubscription), args.Error(1)
}

func (m *MockSubscriptions) GetActive(ctx context.Context, memberID int) (*subscription.MemberSubscription, error) {
	return subResult(m.Called(ctx, memberID))
}

func (m *MockSubscriptions) GetByStripeID(ctx context.Context, id string) (*subscription.MemberSubscription, error) {
	return subResult(m.Called(ctx, id))
}

func (m *MockSubscriptions) Activate(ctx context.Context, a subscription.Activation) (*subscription.MemberSubscription, error) {
	return subResult(m.Called(ctx, a))
}

func (m *MockSubscriptions) ApplyStripeUpdate(ctx context.Context, id string, u subscription.StripeUpdate) (*subscription.MemberSubscription, error) {
	return subResult(m.Called(ctx, id, u))
}

func (m *MockSubscriptions) MarkCanceled(ctx context.Context, id string, at time.Time) (*subscription.MemberSubscription, error) {
	return subResult(m.Called(ctx, id, at))
}

func (m *MockSubscriptions) SetCancelAtPeriodEnd(ctx context.Context, id int, cancel bool) error {
	return m.Called(ctx, id, cancel).Error(0)
}

type MockPlans struct {
	mock.Mock
}

func (m *MockPlans) GetByID(ctx context.Context, id int) (*plan.Plan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*plan.Plan), args.Error(1)
}

func (m *MockPlans) GetByStripePriceID(ctx context.Context, priceID string) (*plan.Plan, error) {
	args := m.Called(ctx, priceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*plan.Plan), args.Error(1)
}

type MockMembers struct {
	mock.Mock
}

func (m *MockMembers) FindByID(ctx context.Context, id int) (*user.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockMembers) SetStatus(ctx context.Context, id int, status string) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *MockMembers) SetStripeCustomerID(ctx context.Context, id int, customerID string) error {
	return m.Called(ctx, id, customerID).Error(0)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) SendPaymentFailed(ctx context.Context, to, name string) error {
	return m.Called(ctx, to, name).Error(0)
}

func (m *MockNotifier) SendSubscriptionCanceled(ctx context.Context, to, name string) error {
	return m.Called(ctx, to, name).Error(0)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, key string, data any) error {
	return m.Called(ctx, key, data).Error(0)
}

func (m *MockPublisher) Close() error { return nil }
